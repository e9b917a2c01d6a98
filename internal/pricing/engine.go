package pricing

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ovenandcrumb/bakeshop-backend/pkg/config"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/db/models"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/enums"
	pkgerrors "github.com/ovenandcrumb/bakeshop-backend/pkg/errors"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/money"
)

// Line is one priced cart line. UnitPrice and the derived line total are
// snapshots; the engine never re-reads the catalog once a line exists.
type Line struct {
	ItemID       *uuid.UUID
	Name         string
	ItemType     enums.ItemType
	TierQuantity int
	Qty          int
	UnitPrice    money.Cents
}

// Total returns the snapshotted line total.
func (l Line) Total() money.Cents {
	return l.UnitPrice * money.Cents(l.Qty)
}

// Quote is the authoritative server-side money breakdown for a cart.
type Quote struct {
	Subtotal    money.Cents
	DeliveryFee money.Cents
	Tax         money.Cents
	Total       money.Cents
}

// Engine computes order totals from configuration-owned constants.
type Engine struct {
	taxRate           decimal.Decimal
	freeDeliveryAbove money.Cents
	deliveryFee       money.Cents
}

// NewEngine parses the configured tax rate and captures the delivery fee
// constants.
func NewEngine(taxCfg config.TaxConfig, deliveryCfg config.DeliveryConfig) (*Engine, error) {
	rate, err := decimal.NewFromString(taxCfg.Rate)
	if err != nil {
		return nil, fmt.Errorf("parse tax rate %q: %w", taxCfg.Rate, err)
	}
	if rate.IsNegative() {
		return nil, fmt.Errorf("tax rate must not be negative")
	}
	return &Engine{
		taxRate:           rate,
		freeDeliveryAbove: money.Cents(deliveryCfg.FreeThresholdCents),
		deliveryFee:       money.Cents(deliveryCfg.FeeCents),
	}, nil
}

// PriceTieredItem returns the unit price for exactly the tier the customer
// selected. Arbitrary quantities are not decomposed across tiers; each tier
// is an atomic purchasable unit.
func (e *Engine) PriceTieredItem(item *models.Item, tierQty int) (money.Cents, error) {
	if item == nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "item is required")
	}
	if item.Type != enums.ItemTypeSingle {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %q is not tier priced", item.Name))
	}
	tier, ok := item.Tiers.ForQuantity(tierQty)
	if !ok {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %q has no tier for quantity %d", item.Name, tierQty))
	}
	if tier.UnitPriceCents <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %q tier %d has no valid price", item.Name, tierQty))
	}
	return tier.UnitPriceCents, nil
}

// PriceBundle returns the fixed bundle price.
func (e *Engine) PriceBundle(item *models.Item) (money.Cents, error) {
	if item == nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "item is required")
	}
	if item.Type != enums.ItemTypeBundle {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %q is not a bundle", item.Name))
	}
	if item.BundlePrice == nil || *item.BundlePrice <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("bundle %q has no valid price", item.Name))
	}
	return *item.BundlePrice, nil
}

// ComputeSubtotal sums the snapshotted line totals.
func (e *Engine) ComputeSubtotal(lines []Line) (money.Cents, error) {
	if len(lines) == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "cart must contain at least one item")
	}
	var subtotal money.Cents
	for _, line := range lines {
		if line.Qty <= 0 {
			return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %q has invalid quantity %d", line.Name, line.Qty))
		}
		if line.UnitPrice <= 0 {
			return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line %q has no valid price", line.Name))
		}
		subtotal += line.Total()
	}
	return subtotal, nil
}

// ComputeDeliveryFee charges the flat fee for delivery orders under the free
// threshold; pickup orders and qualifying delivery orders pay nothing.
func (e *Engine) ComputeDeliveryFee(method enums.FulfillmentMethod, subtotal money.Cents) money.Cents {
	if method != enums.FulfillmentMethodDelivery {
		return 0
	}
	if subtotal >= e.freeDeliveryAbove {
		return 0
	}
	return e.deliveryFee
}

// ComputeTax levies the rate once on subtotal plus delivery fee, rounding
// half-up at the cent.
func (e *Engine) ComputeTax(subtotal, deliveryFee money.Cents) money.Cents {
	return money.ApplyRate(subtotal+deliveryFee, e.taxRate)
}

// QuoteCart runs the full pricing pipeline for a cart.
func (e *Engine) QuoteCart(lines []Line, method enums.FulfillmentMethod) (*Quote, error) {
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid fulfillment method %q", method))
	}
	subtotal, err := e.ComputeSubtotal(lines)
	if err != nil {
		return nil, err
	}
	fee := e.ComputeDeliveryFee(method, subtotal)
	tax := e.ComputeTax(subtotal, fee)
	return &Quote{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Tax:         tax,
		Total:       subtotal + fee + tax,
	}, nil
}
