package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Cents is an exact monetary amount in currency minor units. All pricing
// arithmetic happens in Cents; dollar strings appear only at API boundaries.
type Cents int64

var hundred = decimal.NewFromInt(100)

// FromDollarString parses a decimal dollar amount like "3.25" into cents.
func FromDollarString(value string) (Cents, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", value, err)
	}
	scaled := d.Mul(hundred)
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("amount %q has sub-cent precision", value)
	}
	return Cents(scaled.IntPart()), nil
}

// Decimal converts the amount to a dollars decimal for rate math.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(c)).Div(hundred)
}

// Format renders the amount as a two-decimal dollar string.
func (c Cents) Format() string {
	return c.Decimal().StringFixed(2)
}

// RoundHalfUp rounds a dollars decimal to the nearest cent, half away from
// zero, and returns the result in cents. This is the single rounding point
// for tax computation.
func RoundHalfUp(d decimal.Decimal) Cents {
	return Cents(d.Round(2).Mul(hundred).IntPart())
}

// ApplyRate multiplies the amount by a rate and rounds half-up at the cent.
// The rate is applied once on the full base, never per line.
func ApplyRate(base Cents, rate decimal.Decimal) Cents {
	return RoundHalfUp(base.Decimal().Mul(rate))
}
