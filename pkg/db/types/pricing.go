package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/ovenandcrumb/bakeshop-backend/pkg/money"
)

// PricingTier is a discrete purchasable quantity with its own unit price,
// e.g. "buy 6 for 24.00". Tiers are selected whole; they are never combined
// to cover an arbitrary quantity.
type PricingTier struct {
	Quantity       int         `json:"quantity"`
	UnitPriceCents money.Cents `json:"unitPriceCents"`
	Label          string      `json:"label,omitempty"`
}

// PricingTiers is the JSONB tier list on a single-type item.
type PricingTiers []PricingTier

// Scan implements sql.Scanner.
func (p *PricingTiers) Scan(src any) error {
	return scanJSON(p, src, "PricingTiers")
}

// Value implements driver.Valuer.
func (p PricingTiers) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// ForQuantity returns the tier matching exactly the requested quantity.
func (p PricingTiers) ForQuantity(qty int) (PricingTier, bool) {
	for _, tier := range p {
		if tier.Quantity == qty {
			return tier, true
		}
	}
	return PricingTier{}, false
}

// BundleComponent names one constituent of a fixed-price bundle.
type BundleComponent struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// BundleComponents is the JSONB component list on a bundle-type item.
type BundleComponents []BundleComponent

// Scan implements sql.Scanner.
func (b *BundleComponents) Scan(src any) error {
	return scanJSON(b, src, "BundleComponents")
}

// Value implements driver.Valuer.
func (b BundleComponents) Value() (driver.Value, error) {
	return json.Marshal(b)
}

func scanJSON(dst any, src any, typeName string) error {
	if src == nil {
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("%s: unsupported Scan type %T", typeName, src)
	}
}
