package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ovenandcrumb/bakeshop-backend/pkg/enums"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/money"
)

// OrderLineItem snapshots one priced cart line at checkout. Name and unit
// price are copied from the catalog so later catalog edits never alter a
// committed order.
type OrderLineItem struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID      `gorm:"column:order_id;type:uuid;not null"`
	ItemID         *uuid.UUID     `gorm:"column:item_id;type:uuid"`
	Name           string         `gorm:"column:name;not null"`
	ItemType       enums.ItemType `gorm:"column:item_type;type:item_type;not null"`
	TierQuantity   int            `gorm:"column:tier_quantity;not null;default:1"`
	Qty            int            `gorm:"column:qty;not null"`
	UnitPriceCents money.Cents    `gorm:"column:unit_price_cents;not null"`
	LineTotalCents money.Cents    `gorm:"column:line_total_cents;not null"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
}
