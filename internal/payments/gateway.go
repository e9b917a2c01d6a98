package payments

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v84"

	"github.com/ovenandcrumb/bakeshop-backend/pkg/config"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/enums"
	pkgerrors "github.com/ovenandcrumb/bakeshop-backend/pkg/errors"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/logger"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/money"
)

// Authorization is the gateway's view of a payment hold.
type Authorization struct {
	ID           string
	ClientSecret string
	AmountCents  money.Cents
	Succeeded    bool
}

// Gateway creates, amends and verifies payment authorizations. Every call is
// bounded by the configured timeout; on timeout the caller fails closed and
// no order is created.
type Gateway struct {
	client         IntentClient
	logg           *logger.Logger
	timeout        time.Duration
	mismatchPolicy config.AmountMismatchPolicy
}

// NewGateway wires the gateway with its Stripe client and policies.
func NewGateway(client IntentClient, logg *logger.Logger, stripeCfg config.StripeConfig, ordersCfg config.OrdersConfig) (*Gateway, error) {
	if client == nil {
		return nil, fmt.Errorf("intent client is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	timeout := stripeCfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Gateway{
		client:         client,
		logg:           logg,
		timeout:        timeout,
		mismatchPolicy: ordersCfg.AmountMismatchPolicy,
	}, nil
}

// CreateAuthorization requests a hold for the server-computed total. The
// client confirms against the returned client secret.
func (g *Gateway) CreateAuthorization(ctx context.Context, amount money.Cents, currency enums.Currency) (*Authorization, error) {
	if amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "authorization amount must be positive")
	}
	if !currency.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid currency %q", currency))
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := &stripe.PaymentIntentCreateParams{
		Amount:   stripe.Int64(int64(amount)),
		Currency: stripe.String(strings.ToLower(currency.String())),
		AutomaticPaymentMethods: &stripe.PaymentIntentCreateAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}

	intent, err := g.client.Create(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stripe: create payment intent")
	}

	return authorizationFromIntent(intent), nil
}

// UpdateAuthorizationAmount patches the held amount when the cart changed
// after the intent was created but before confirmation.
func (g *Gateway) UpdateAuthorizationAmount(ctx context.Context, authorizationID string, amount money.Cents) (*Authorization, error) {
	if strings.TrimSpace(authorizationID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "authorization id is required")
	}
	if amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "authorization amount must be positive")
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := &stripe.PaymentIntentUpdateParams{
		Amount: stripe.Int64(int64(amount)),
	}
	intent, err := g.client.Update(ctx, authorizationID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stripe: update payment intent amount")
	}

	return authorizationFromIntent(intent), nil
}

// VerifyAuthorization retrieves the authorization post-confirmation and checks
// it succeeded for the expected amount. A non-succeeded status is always a
// hard reject; an amount mismatch follows the configured policy.
func (g *Gateway) VerifyAuthorization(ctx context.Context, authorizationID string, expected money.Cents) (*Authorization, error) {
	if strings.TrimSpace(authorizationID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "authorization id is required")
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	intent, err := g.client.Retrieve(ctx, authorizationID, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stripe: retrieve payment intent")
	}

	auth := authorizationFromIntent(intent)
	if !auth.Succeeded {
		return nil, pkgerrors.New(pkgerrors.CodePaymentIncomplete, "payment was not completed").
			WithDetails(map[string]any{"status": string(intent.Status)})
	}

	if auth.AmountCents != expected {
		fields := map[string]any{
			"authorization_id": auth.ID,
			"expected_cents":   int64(expected),
			"captured_cents":   int64(auth.AmountCents),
		}
		if g.mismatchPolicy == config.AmountMismatchReject {
			return nil, pkgerrors.New(pkgerrors.CodePaymentIncomplete, "payment amount does not match the order total").
				WithDetails(fields)
		}
		g.logg.Warn(g.logg.WithFields(ctx, fields), "payment amount mismatch, continuing per policy")
	}

	return auth, nil
}

func authorizationFromIntent(intent *stripe.PaymentIntent) *Authorization {
	if intent == nil {
		return nil
	}
	return &Authorization{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		AmountCents:  money.Cents(intent.Amount),
		Succeeded:    intent.Status == stripe.PaymentIntentStatusSucceeded,
	}
}
