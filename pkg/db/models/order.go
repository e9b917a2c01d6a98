package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ovenandcrumb/bakeshop-backend/pkg/enums"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/money"
)

// Order is the persisted record of a completed purchase. Status is the only
// field mutated after creation; everything else is a snapshot taken at
// checkout.
type Order struct {
	ID                uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Status            enums.OrderStatus       `gorm:"column:status;type:order_status;not null;default:'pending'"`
	FulfillmentMethod enums.FulfillmentMethod `gorm:"column:fulfillment_method;type:fulfillment_method;not null"`

	CustomerName  string `gorm:"column:customer_name;not null"`
	CustomerEmail string `gorm:"column:customer_email;not null"`
	CustomerPhone string `gorm:"column:customer_phone;not null"`

	DeliveryAddress    *string `gorm:"column:delivery_address"`
	DeliveryCity       *string `gorm:"column:delivery_city"`
	DeliveryProvince   *string `gorm:"column:delivery_province"`
	DeliveryPostalCode *string `gorm:"column:delivery_postal_code"`

	ScheduledFor time.Time `gorm:"column:scheduled_for;not null"`

	SubtotalCents    money.Cents    `gorm:"column:subtotal_cents;not null"`
	DeliveryFeeCents money.Cents    `gorm:"column:delivery_fee_cents;not null;default:0"`
	TaxCents         money.Cents    `gorm:"column:tax_cents;not null"`
	TotalCents       money.Cents    `gorm:"column:total_cents;not null"`
	Currency         enums.Currency `gorm:"column:currency;not null;default:'CAD'"`

	PaymentIntentID string  `gorm:"column:payment_intent_id;not null"`
	Notes           *string `gorm:"column:notes"`

	LineItems []OrderLineItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// IsDelivery reports whether the order carries a delivery address.
func (o Order) IsDelivery() bool {
	return o.FulfillmentMethod == enums.FulfillmentMethodDelivery
}
