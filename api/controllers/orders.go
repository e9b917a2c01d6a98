package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/ovenandcrumb/bakeshop-backend/api/responses"
	"github.com/ovenandcrumb/bakeshop-backend/api/validators"
	ordersvc "github.com/ovenandcrumb/bakeshop-backend/internal/orders"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/logger"
)

type cartLineRequest struct {
	ItemID       string `json:"item_id" validate:"required,uuid"`
	TierQuantity int    `json:"tier_quantity" validate:"omitempty,min=1"`
	Qty          int    `json:"qty" validate:"required,min=1"`
}

type quoteRequest struct {
	Lines             []cartLineRequest `json:"lines" validate:"required,min=1,dive"`
	FulfillmentMethod string            `json:"fulfillment_method" validate:"required,oneof=pickup delivery"`
	PaymentIntentID   string            `json:"payment_intent_id,omitempty"`
}

// CreateQuote prices a cart server-side and opens (or re-prices) a payment
// authorization for it.
func CreateQuote(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines, err := toCartLines(payload.Lines)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.QuoteCart(r.Context(), ordersvc.QuoteInput{
			Lines:             lines,
			FulfillmentMethod: payload.FulfillmentMethod,
			PaymentIntentID:   payload.PaymentIntentID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

type createOrderRequest struct {
	Lines             []cartLineRequest `json:"lines" validate:"required,min=1,dive"`
	FulfillmentMethod string            `json:"fulfillment_method" validate:"required,oneof=pickup delivery"`
	CustomerName      string            `json:"customer_name" validate:"required,min=2,max=120"`
	CustomerEmail     string            `json:"customer_email" validate:"required,email"`
	CustomerPhone     string            `json:"customer_phone" validate:"required,min=7,max=30"`
	DeliveryAddress   *string           `json:"delivery_address,omitempty" validate:"omitempty,min=5,max=300"`
	ScheduledFor      time.Time         `json:"scheduled_for" validate:"required"`
	PaymentIntentID   string            `json:"payment_intent_id" validate:"required"`
	Notes             *string           `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// CreateOrder runs the full checkout pipeline: price, validate scheduling and
// delivery, verify the payment authorization, then persist the order.
func CreateOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines, err := toCartLines(payload.Lines)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.CreateOrder(r.Context(), ordersvc.CreateOrderInput{
			Lines:             lines,
			FulfillmentMethod: payload.FulfillmentMethod,
			CustomerName:      strings.TrimSpace(payload.CustomerName),
			CustomerEmail:     strings.TrimSpace(payload.CustomerEmail),
			CustomerPhone:     strings.TrimSpace(payload.CustomerPhone),
			DeliveryAddress:   payload.DeliveryAddress,
			ScheduledFor:      payload.ScheduledFor,
			PaymentIntentID:   payload.PaymentIntentID,
			Notes:             payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// GetOrder returns a single order by id. Public order lookup relies on the
// order id being an unguessable v4 UUID shared only with the customer.
func GetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminListOrders lists orders newest-first, optionally filtered by status.
func AdminListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := r.URL.Query()
		result, err := svc.ListOrders(r.Context(), ordersvc.ListOrdersQuery{
			Status:        strings.TrimSpace(query.Get("status")),
			Method:        strings.TrimSpace(query.Get("method")),
			ScheduledFrom: strings.TrimSpace(query.Get("scheduled_from")),
			ScheduledTo:   strings.TrimSpace(query.Get("scheduled_to")),
		}, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type transitionRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdminTransitionOrderStatus advances an order along the status lifecycle.
func AdminTransitionOrderStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload transitionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.TransitionStatus(r.Context(), id, payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func toCartLines(reqs []cartLineRequest) ([]ordersvc.CartLineInput, error) {
	lines := make([]ordersvc.CartLineInput, 0, len(reqs))
	for _, req := range reqs {
		itemID, err := parseUUIDField(req.ItemID, "item_id")
		if err != nil {
			return nil, err
		}
		lines = append(lines, ordersvc.CartLineInput{
			ItemID:       itemID,
			TierQuantity: req.TierQuantity,
			Qty:          req.Qty,
		})
	}
	return lines, nil
}
