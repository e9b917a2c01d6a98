package delivery

import (
	"fmt"
	"strings"

	"github.com/ovenandcrumb/bakeshop-backend/pkg/config"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/enums"
	pkgerrors "github.com/ovenandcrumb/bakeshop-backend/pkg/errors"
)

// Validator checks whether a resolved city falls inside the delivery area.
// Address resolution itself is the geocoder's job; this only consumes the
// resolved city string.
type Validator struct {
	allowedCities map[string]struct{}
	displayList   []string
}

// NewValidator normalizes the configured city allow-list.
func NewValidator(cfg config.DeliveryConfig) (*Validator, error) {
	if len(cfg.AllowedCities) == 0 {
		return nil, fmt.Errorf("at least one allowed delivery city is required")
	}

	allowed := make(map[string]struct{}, len(cfg.AllowedCities))
	display := make([]string, 0, len(cfg.AllowedCities))
	for _, city := range cfg.AllowedCities {
		normalized := normalizeCity(city)
		if normalized == "" {
			continue
		}
		if _, dup := allowed[normalized]; dup {
			continue
		}
		allowed[normalized] = struct{}{}
		display = append(display, normalized)
	}
	if len(allowed) == 0 {
		return nil, fmt.Errorf("allowed delivery city list is empty after normalization")
	}

	return &Validator{allowedCities: allowed, displayList: display}, nil
}

// AllowedCities returns the normalized allow-list for display to customers.
func (v *Validator) AllowedCities() []string {
	out := make([]string, len(v.displayList))
	copy(out, v.displayList)
	return out
}

// Validate rejects delivery orders outside the service area. Pickup orders
// skip the check entirely.
func (v *Validator) Validate(method enums.FulfillmentMethod, resolvedCity string) error {
	if method != enums.FulfillmentMethodDelivery {
		return nil
	}

	city := normalizeCity(resolvedCity)
	if city == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery city is required").
			WithDetails(map[string]any{"allowed_cities": v.AllowedCities()})
	}
	if _, ok := v.allowedCities[city]; !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("we do not deliver to %s", strings.TrimSpace(resolvedCity))).
			WithDetails(map[string]any{"allowed_cities": v.AllowedCities()})
	}
	return nil
}

func normalizeCity(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}
