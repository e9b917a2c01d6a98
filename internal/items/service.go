package items

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ovenandcrumb/bakeshop-backend/pkg/db/models"
	dbtypes "github.com/ovenandcrumb/bakeshop-backend/pkg/db/types"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/enums"
	pkgerrors "github.com/ovenandcrumb/bakeshop-backend/pkg/errors"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/money"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/pagination"
)

// Service exposes catalog management operations.
type Service interface {
	CreateItem(ctx context.Context, input CreateItemInput) (*ItemDTO, error)
	UpdateItem(ctx context.Context, itemID uuid.UUID, input UpdateItemInput) (*ItemDTO, error)
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	GetItem(ctx context.Context, itemID uuid.UUID) (*ItemDTO, error)
	ListItems(ctx context.Context, activeOnly bool, params pagination.Params) (*ItemListResult, error)
}

// TierInput is one tier in a create/update payload.
type TierInput struct {
	Quantity       int
	UnitPriceCents money.Cents
	Label          string
}

// ComponentInput names one bundle constituent in a create/update payload.
type ComponentInput struct {
	Name     string
	Quantity int
}

// CreateItemInput holds the validated payload to create a catalog item.
type CreateItemInput struct {
	Name             string
	Description      *string
	Type             enums.ItemType
	Tiers            []TierInput
	BundlePriceCents *money.Cents
	Components       []ComponentInput
	ImageURL         *string
	IsActive         bool
}

// UpdateItemInput holds optional mutation values for an item. The pricing
// shape cannot change type after creation.
type UpdateItemInput struct {
	Name             *string
	Description      *string
	Tiers            *[]TierInput
	BundlePriceCents *money.Cents
	Components       *[]ComponentInput
	ImageURL         *string
	IsActive         *bool
}

type service struct {
	repo ItemRepository
}

// NewService constructs a catalog service instance.
func NewService(repo ItemRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("item repository required")
	}
	return &service{repo: repo}, nil
}

// CreateItem validates the pricing shape and inserts the item.
func (s *service) CreateItem(ctx context.Context, input CreateItemInput) (*ItemDTO, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid item type %q", input.Type))
	}

	item := &models.Item{
		Name:        input.Name,
		Description: input.Description,
		Type:        input.Type,
		ImageURL:    input.ImageURL,
		IsActive:    input.IsActive,
	}

	switch input.Type {
	case enums.ItemTypeSingle:
		tiers, err := validateTiers(input.Tiers)
		if err != nil {
			return nil, err
		}
		if input.BundlePriceCents != nil || len(input.Components) > 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "single items cannot carry bundle pricing")
		}
		item.Tiers = tiers
	case enums.ItemTypeBundle:
		price, components, err := validateBundle(input.BundlePriceCents, input.Components)
		if err != nil {
			return nil, err
		}
		if len(input.Tiers) > 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "bundles cannot carry pricing tiers")
		}
		item.BundlePrice = &price
		item.Components = components
	}

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert item")
	}
	return NewItemDTO(created), nil
}

// UpdateItem applies partial mutations while keeping the pricing shape valid.
func (s *service) UpdateItem(ctx context.Context, itemID uuid.UUID, input UpdateItemInput) (*ItemDTO, error) {
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load item")
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name cannot be empty")
		}
		item.Name = *input.Name
	}
	if input.Description != nil {
		item.Description = input.Description
	}
	if input.ImageURL != nil {
		item.ImageURL = input.ImageURL
	}
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}

	switch item.Type {
	case enums.ItemTypeSingle:
		if input.BundlePriceCents != nil || input.Components != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "single items cannot carry bundle pricing")
		}
		if input.Tiers != nil {
			tiers, err := validateTiers(*input.Tiers)
			if err != nil {
				return nil, err
			}
			item.Tiers = tiers
		}
	case enums.ItemTypeBundle:
		if input.Tiers != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "bundles cannot carry pricing tiers")
		}
		price := item.BundlePrice
		if input.BundlePriceCents != nil {
			price = input.BundlePriceCents
		}
		components := input.Components
		if components == nil {
			existing := make([]ComponentInput, 0, len(item.Components))
			for _, c := range item.Components {
				existing = append(existing, ComponentInput{Name: c.Name, Quantity: c.Quantity})
			}
			components = &existing
		}
		validPrice, validComponents, err := validateBundle(price, *components)
		if err != nil {
			return nil, err
		}
		item.BundlePrice = &validPrice
		item.Components = validComponents
	}

	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update item")
	}
	return NewItemDTO(updated), nil
}

// DeleteItem removes the item from the catalog.
func (s *service) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	if err := s.repo.Delete(ctx, itemID); err != nil {
		if IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete item")
	}
	return nil
}

// GetItem loads one item.
func (s *service) GetItem(ctx context.Context, itemID uuid.UUID) (*ItemDTO, error) {
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load item")
	}
	return NewItemDTO(item), nil
}

// ListItems pages through the catalog.
func (s *service) ListItems(ctx context.Context, activeOnly bool, params pagination.Params) (*ItemListResult, error) {
	rows, next, err := s.repo.List(ctx, activeOnly, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list items")
	}

	result := &ItemListResult{Items: make([]ItemDTO, 0, len(rows))}
	for i := range rows {
		result.Items = append(result.Items, *NewItemDTO(&rows[i]))
	}
	if next != nil {
		encoded := pagination.EncodeCursor(*next)
		result.NextCursor = &encoded
	}
	return result, nil
}

func validateTiers(tiers []TierInput) (dbtypes.PricingTiers, error) {
	if len(tiers) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "single items need at least one pricing tier")
	}
	seen := make(map[int]struct{}, len(tiers))
	out := make(dbtypes.PricingTiers, 0, len(tiers))
	for _, tier := range tiers {
		if tier.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("tier quantity %d is invalid", tier.Quantity))
		}
		if tier.UnitPriceCents <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("tier %d needs a positive price", tier.Quantity))
		}
		if _, dup := seen[tier.Quantity]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("duplicate tier quantity %d", tier.Quantity))
		}
		seen[tier.Quantity] = struct{}{}
		out = append(out, dbtypes.PricingTier{
			Quantity:       tier.Quantity,
			UnitPriceCents: tier.UnitPriceCents,
			Label:          tier.Label,
		})
	}
	return out, nil
}

func validateBundle(price *money.Cents, components []ComponentInput) (money.Cents, dbtypes.BundleComponents, error) {
	if price == nil || *price <= 0 {
		return 0, nil, pkgerrors.New(pkgerrors.CodeValidation, "bundles need a positive price")
	}
	if len(components) == 0 {
		return 0, nil, pkgerrors.New(pkgerrors.CodeValidation, "bundles need at least one component")
	}
	out := make(dbtypes.BundleComponents, 0, len(components))
	for _, comp := range components {
		if comp.Name == "" {
			return 0, nil, pkgerrors.New(pkgerrors.CodeValidation, "bundle components need a name")
		}
		if comp.Quantity <= 0 {
			return 0, nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("component %q needs a positive quantity", comp.Name))
		}
		out = append(out, dbtypes.BundleComponent{Name: comp.Name, Quantity: comp.Quantity})
	}
	return *price, out, nil
}
