package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/ovenandcrumb/bakeshop-backend/pkg/db/types"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/enums"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/money"
)

// Item is a catalog entry: either a single product priced by tier, or a
// fixed-price bundle of named components. Exactly one of the pricing shapes
// is populated, keyed by Type.
type Item struct {
	ID          uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string                   `gorm:"column:name;not null"`
	Description *string                  `gorm:"column:description"`
	Type        enums.ItemType           `gorm:"column:type;type:item_type;not null"`
	Tiers       dbtypes.PricingTiers     `gorm:"column:tiers;type:jsonb"`
	BundlePrice *money.Cents             `gorm:"column:bundle_price_cents"`
	Components  dbtypes.BundleComponents `gorm:"column:components;type:jsonb"`
	ImageURL    *string                  `gorm:"column:image_url"`
	IsActive    bool                     `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
