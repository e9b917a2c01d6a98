package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/ovenandcrumb/bakeshop-backend/pkg/db/models"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/money"
)

// CartLineInput identifies one catalog selection in a cart. For tiered items
// TierQuantity names the pack size being bought; bundles leave it zero.
type CartLineInput struct {
	ItemID       uuid.UUID `json:"item_id"`
	TierQuantity int       `json:"tier_quantity"`
	Qty          int       `json:"qty"`
}

// QuoteInput prices a cart without creating an order.
type QuoteInput struct {
	Lines             []CartLineInput `json:"lines"`
	FulfillmentMethod string          `json:"fulfillment_method"`
	PaymentIntentID   string          `json:"payment_intent_id,omitempty"`
}

// QuoteDTO is the server-side money breakdown plus the payment authorization
// the client completes before order creation.
type QuoteDTO struct {
	SubtotalCents    money.Cents `json:"subtotal_cents"`
	DeliveryFeeCents money.Cents `json:"delivery_fee_cents"`
	TaxCents         money.Cents `json:"tax_cents"`
	TotalCents       money.Cents `json:"total_cents"`
	Currency         string      `json:"currency"`
	PaymentIntentID  string      `json:"payment_intent_id"`
	ClientSecret     string      `json:"client_secret"`
}

type CreateOrderInput struct {
	Lines             []CartLineInput `json:"lines"`
	FulfillmentMethod string          `json:"fulfillment_method"`
	CustomerName      string          `json:"customer_name"`
	CustomerEmail     string          `json:"customer_email"`
	CustomerPhone     string          `json:"customer_phone"`
	DeliveryAddress   *string         `json:"delivery_address,omitempty"`
	ScheduledFor      time.Time       `json:"scheduled_for"`
	PaymentIntentID   string          `json:"payment_intent_id"`
	Notes             *string         `json:"notes,omitempty"`
}

type OrderLineItemDTO struct {
	ItemID         *uuid.UUID  `json:"item_id,omitempty"`
	Name           string      `json:"name"`
	ItemType       string      `json:"item_type"`
	TierQuantity   int         `json:"tier_quantity"`
	Qty            int         `json:"qty"`
	UnitPriceCents money.Cents `json:"unit_price_cents"`
	LineTotalCents money.Cents `json:"line_total_cents"`
}

type OrderDTO struct {
	ID                uuid.UUID          `json:"id"`
	Status            string             `json:"status"`
	FulfillmentMethod string             `json:"fulfillment_method"`
	CustomerName      string             `json:"customer_name"`
	CustomerEmail     string             `json:"customer_email"`
	CustomerPhone     string             `json:"customer_phone"`
	DeliveryAddress   *string            `json:"delivery_address,omitempty"`
	DeliveryCity      *string            `json:"delivery_city,omitempty"`
	ScheduledFor      time.Time          `json:"scheduled_for"`
	SubtotalCents     money.Cents        `json:"subtotal_cents"`
	DeliveryFeeCents  money.Cents        `json:"delivery_fee_cents"`
	TaxCents          money.Cents        `json:"tax_cents"`
	TotalCents        money.Cents        `json:"total_cents"`
	Currency          string             `json:"currency"`
	Notes             *string            `json:"notes,omitempty"`
	LineItems         []OrderLineItemDTO `json:"line_items"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// ListOrdersQuery carries the admin listing filters as raw query values; the
// service validates and localizes them.
type ListOrdersQuery struct {
	Status        string
	Method        string
	ScheduledFrom string
	ScheduledTo   string
}

type OrderListResult struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor *string    `json:"next_cursor,omitempty"`
}

func NewOrderDTO(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:                order.ID,
		Status:            order.Status.String(),
		FulfillmentMethod: order.FulfillmentMethod.String(),
		CustomerName:      order.CustomerName,
		CustomerEmail:     order.CustomerEmail,
		CustomerPhone:     order.CustomerPhone,
		DeliveryAddress:   order.DeliveryAddress,
		DeliveryCity:      order.DeliveryCity,
		ScheduledFor:      order.ScheduledFor,
		SubtotalCents:     order.SubtotalCents,
		DeliveryFeeCents:  order.DeliveryFeeCents,
		TaxCents:          order.TaxCents,
		TotalCents:        order.TotalCents,
		Currency:          order.Currency.String(),
		Notes:             order.Notes,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
	}
	for _, line := range order.LineItems {
		dto.LineItems = append(dto.LineItems, OrderLineItemDTO{
			ItemID:         line.ItemID,
			Name:           line.Name,
			ItemType:       line.ItemType.String(),
			TierQuantity:   line.TierQuantity,
			Qty:            line.Qty,
			UnitPriceCents: line.UnitPriceCents,
			LineTotalCents: line.LineTotalCents,
		})
	}
	return dto
}
