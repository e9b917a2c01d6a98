package payments

import (
	"context"

	"github.com/stripe/stripe-go/v84"

	pkgstripe "github.com/ovenandcrumb/bakeshop-backend/pkg/stripe"
)

// IntentClient exposes the subset of Stripe payment-intent operations the
// gateway needs.
type IntentClient interface {
	Create(ctx context.Context, params *stripe.PaymentIntentCreateParams) (*stripe.PaymentIntent, error)
	Update(ctx context.Context, id string, params *stripe.PaymentIntentUpdateParams) (*stripe.PaymentIntent, error)
	Retrieve(ctx context.Context, id string, params *stripe.PaymentIntentRetrieveParams) (*stripe.PaymentIntent, error)
}

type stripeClientWrapper struct {
	api *stripe.Client
}

// NewIntentClient wraps the shared Stripe client so the gateway can be tested.
func NewIntentClient(client *pkgstripe.Client) IntentClient {
	if client == nil {
		return nil
	}
	return &stripeClientWrapper{api: client.API()}
}

func (w *stripeClientWrapper) Create(ctx context.Context, params *stripe.PaymentIntentCreateParams) (*stripe.PaymentIntent, error) {
	return w.api.V1PaymentIntents.Create(ctx, params)
}

func (w *stripeClientWrapper) Update(ctx context.Context, id string, params *stripe.PaymentIntentUpdateParams) (*stripe.PaymentIntent, error) {
	return w.api.V1PaymentIntents.Update(ctx, id, params)
}

func (w *stripeClientWrapper) Retrieve(ctx context.Context, id string, params *stripe.PaymentIntentRetrieveParams) (*stripe.PaymentIntent, error) {
	return w.api.V1PaymentIntents.Retrieve(ctx, id, params)
}
