package items

import (
	"time"

	"github.com/google/uuid"

	"github.com/ovenandcrumb/bakeshop-backend/pkg/db/models"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/money"
)

// ItemDTO is the catalog payload returned to clients. Exactly one pricing
// shape is populated, keyed by Type.
type ItemDTO struct {
	ID               uuid.UUID            `json:"id"`
	Name             string               `json:"name"`
	Description      *string              `json:"description,omitempty"`
	Type             string               `json:"type"`
	Tiers            []TierDTO            `json:"tiers,omitempty"`
	BundlePriceCents *money.Cents         `json:"bundle_price_cents,omitempty"`
	Components       []BundleComponentDTO `json:"components,omitempty"`
	ImageURL         *string              `json:"image_url,omitempty"`
	IsActive         bool                 `json:"is_active"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// TierDTO is one purchasable tier.
type TierDTO struct {
	Quantity       int         `json:"quantity"`
	UnitPriceCents money.Cents `json:"unit_price_cents"`
	Label          string      `json:"label,omitempty"`
}

// BundleComponentDTO names one constituent of a bundle.
type BundleComponentDTO struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// ItemListResult couples a page of items with its next cursor.
type ItemListResult struct {
	Items      []ItemDTO `json:"items"`
	NextCursor *string   `json:"next_cursor,omitempty"`
}

// NewItemDTO builds a DTO from the persisted model.
func NewItemDTO(item *models.Item) *ItemDTO {
	dto := &ItemDTO{
		ID:               item.ID,
		Name:             item.Name,
		Description:      item.Description,
		Type:             string(item.Type),
		BundlePriceCents: item.BundlePrice,
		ImageURL:         item.ImageURL,
		IsActive:         item.IsActive,
		CreatedAt:        item.CreatedAt,
		UpdatedAt:        item.UpdatedAt,
	}
	for _, tier := range item.Tiers {
		dto.Tiers = append(dto.Tiers, TierDTO{
			Quantity:       tier.Quantity,
			UnitPriceCents: tier.UnitPriceCents,
			Label:          tier.Label,
		})
	}
	for _, comp := range item.Components {
		dto.Components = append(dto.Components, BundleComponentDTO{
			Name:     comp.Name,
			Quantity: comp.Quantity,
		})
	}
	return dto
}
