package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	mailjet "github.com/mailjet/mailjet-apiv3-go/v4"

	"github.com/ovenandcrumb/bakeshop-backend/pkg/config"
)

// Message is one outbound email.
type Message struct {
	ToEmail     string
	ToName      string
	Subject     string
	HTMLBody    string
	TextBody    string
	Attachments []Attachment
}

// Attachment carries pre-encoded file content for an email.
type Attachment struct {
	ContentType   string
	Filename      string
	Base64Content string
}

// Sender is the outbound email surface consumed by notification dispatch.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Client sends email through Mailjet's v3.1 send API.
type Client struct {
	api       *mailjet.Client
	fromEmail string
	fromName  string
}

// NewClient validates the Mailjet configuration and builds a sender.
func NewClient(cfg config.MailjetConfig) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" || strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, errors.New("mailjet api key and secret key are required")
	}
	if strings.TrimSpace(cfg.FromEmail) == "" {
		return nil, errors.New("mailjet from email is required")
	}

	return &Client{
		api:       mailjet.NewMailjetClient(cfg.APIKey, cfg.SecretKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}, nil
}

// Send dispatches a single message. Callers treat failures as best-effort;
// this method only reports them.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if c == nil || c.api == nil {
		return errors.New("mailjet client not configured")
	}
	if strings.TrimSpace(msg.ToEmail) == "" {
		return errors.New("recipient email is required")
	}
	if strings.TrimSpace(msg.Subject) == "" {
		return errors.New("subject is required")
	}

	info := mailjet.InfoMessagesV31{
		From: &mailjet.RecipientV31{
			Email: c.fromEmail,
			Name:  c.fromName,
		},
		To: &mailjet.RecipientsV31{
			{Email: msg.ToEmail, Name: msg.ToName},
		},
		Subject:  msg.Subject,
		HTMLPart: msg.HTMLBody,
		TextPart: msg.TextBody,
	}

	if len(msg.Attachments) > 0 {
		attachments := make(mailjet.AttachmentsV31, 0, len(msg.Attachments))
		for _, a := range msg.Attachments {
			attachments = append(attachments, mailjet.AttachmentV31{
				ContentType:   a.ContentType,
				Filename:      a.Filename,
				Base64Content: a.Base64Content,
			})
		}
		info.Attachments = &attachments
	}

	messages := mailjet.MessagesV31{Info: []mailjet.InfoMessagesV31{info}}
	if _, err := c.api.SendMailV31(&messages, mailjet.WithContext(ctx)); err != nil {
		return fmt.Errorf("mailjet send: %w", err)
	}
	return nil
}
