package notify

import (
	"context"
	"strings"
	"time"

	"github.com/ovenandcrumb/bakeshop-backend/pkg/config"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/db/models"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/enums"
	pkgerrors "github.com/ovenandcrumb/bakeshop-backend/pkg/errors"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/mail"
)

// Notifier builds and sends the transactional emails the order lifecycle
// produces. Every method returns the send error to the caller; deciding
// whether a failure is fatal belongs to the caller, not here.
type Notifier interface {
	OrderConfirmation(ctx context.Context, order *models.Order) error
	AdminNewOrder(ctx context.Context, order *models.Order) error
	StatusUpdate(ctx context.Context, order *models.Order) error
}

type notifier struct {
	sender        mail.Sender
	adminEmail    string
	pickupAddress string
	location      *time.Location
}

// NewNotifier wires a notifier against the configured email sender.
func NewNotifier(sender mail.Sender, mailCfg config.MailjetConfig, ordersCfg config.OrdersConfig) (Notifier, error) {
	if sender == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "mail sender is required")
	}
	if strings.TrimSpace(mailCfg.AdminEmail) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "admin notification email is required")
	}
	location, err := time.LoadLocation(ordersCfg.Timezone)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "invalid bakery timezone")
	}
	return &notifier{
		sender:        sender,
		adminEmail:    mailCfg.AdminEmail,
		pickupAddress: ordersCfg.PickupAddress,
		location:      location,
	}, nil
}

func (n *notifier) OrderConfirmation(ctx context.Context, order *models.Order) error {
	msg := mail.Message{
		ToEmail:  order.CustomerEmail,
		ToName:   order.CustomerName,
		Subject:  "Your Oven & Crumb order is confirmed",
		HTMLBody: confirmationHTML(order, n.pickupAddress, n.location),
		TextBody: confirmationText(order, n.pickupAddress, n.location),
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to send order confirmation")
	}
	return nil
}

func (n *notifier) AdminNewOrder(ctx context.Context, order *models.Order) error {
	msg := mail.Message{
		ToEmail:  n.adminEmail,
		ToName:   "Oven & Crumb Bakeshop",
		Subject:  "New order " + shortID(order) + " — " + order.TotalCents.Format() + " CAD",
		HTMLBody: adminAlertHTML(order, n.location),
		TextBody: adminAlertText(order, n.location),
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to send admin order alert")
	}
	return nil
}

// StatusUpdate sends the customer email for statuses that notify. Statuses
// outside that set are a caller bug, not a silent no-op.
func (n *notifier) StatusUpdate(ctx context.Context, order *models.Order) error {
	if !order.Status.Notifies() {
		return pkgerrors.New(pkgerrors.CodeInternal, "status does not notify customers").
			WithDetails(map[string]any{"status": order.Status.String()})
	}

	var subject, html, text string
	switch order.Status {
	case enums.OrderStatusReady:
		subject = "Your order is ready for pickup"
		html, text = readyHTML(order, n.pickupAddress), readyText(order, n.pickupAddress)
	case enums.OrderStatusOutForDelivery:
		subject = "Your order is out for delivery"
		html, text = outForDeliveryHTML(order), outForDeliveryText(order)
	case enums.OrderStatusCancelled:
		subject = "Your order has been cancelled"
		html, text = cancelledHTML(order), cancelledText(order)
	}

	msg := mail.Message{
		ToEmail:  order.CustomerEmail,
		ToName:   order.CustomerName,
		Subject:  subject,
		HTMLBody: html,
		TextBody: text,
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to send status update")
	}
	return nil
}

func shortID(order *models.Order) string {
	id := order.ID.String()
	if len(id) >= 8 {
		return "#" + id[:8]
	}
	return "#" + id
}
