package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/ovenandcrumb/bakeshop-backend/pkg/config"
	pkgerrors "github.com/ovenandcrumb/bakeshop-backend/pkg/errors"
)

// BlackoutChecker answers whether a calendar day is blocked from fulfillment.
type BlackoutChecker interface {
	IsBlackedOut(ctx context.Context, day time.Time) (bool, error)
}

// Validator enforces the fulfillment scheduling rules: minimum lead time, the
// daily pickup/delivery window, and blackout days. All checks run in the
// bakery's local time zone so a client-side zone never shifts what the
// customer picked.
type Validator struct {
	location  *time.Location
	minLead   time.Duration
	openHour  int
	closeHour int
	blackouts BlackoutChecker
	now       func() time.Time
}

// NewValidator loads the configured time zone and captures the window bounds.
func NewValidator(cfg config.OrdersConfig, blackouts BlackoutChecker) (*Validator, error) {
	if blackouts == nil {
		return nil, fmt.Errorf("blackout checker is required")
	}
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	if cfg.MinLeadHours <= 0 {
		return nil, fmt.Errorf("minimum lead hours must be positive")
	}
	if cfg.WindowOpenHour < 0 || cfg.WindowCloseHour > 23 || cfg.WindowOpenHour >= cfg.WindowCloseHour {
		return nil, fmt.Errorf("invalid scheduling window %d-%d", cfg.WindowOpenHour, cfg.WindowCloseHour)
	}

	return &Validator{
		location:  location,
		minLead:   time.Duration(cfg.MinLeadHours) * time.Hour,
		openHour:  cfg.WindowOpenHour,
		closeHour: cfg.WindowCloseHour,
		blackouts: blackouts,
		now:       time.Now,
	}, nil
}

// WithClock overrides the time source. Tests only.
func (v *Validator) WithClock(now func() time.Time) *Validator {
	clone := *v
	clone.now = now
	return &clone
}

// Location returns the bakery's canonical time zone.
func (v *Validator) Location() *time.Location {
	return v.location
}

// Validate checks the candidate timestamp and returns it normalized to the
// bakery's zone. Checks run in a fixed order and the first failure wins.
func (v *Validator) Validate(ctx context.Context, scheduledFor time.Time) (time.Time, error) {
	if scheduledFor.IsZero() {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "a fulfillment date and time must be chosen")
	}

	normalized := scheduledFor.In(v.location)

	if normalized.Sub(v.now()) < v.minLead {
		hours := int(v.minLead / time.Hour)
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("orders need at least %d hours notice", hours)).
			WithDetails(map[string]any{"min_lead_hours": hours})
	}

	if !v.insideWindow(normalized) {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("fulfillment is available between %02d:00 and %02d:00", v.openHour, v.closeHour)).
			WithDetails(map[string]any{"open_hour": v.openHour, "close_hour": v.closeHour})
	}

	blocked, err := v.blackouts.IsBlackedOut(ctx, normalized)
	if err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check blackout dates")
	}
	if blocked {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("the bakery is closed on %s", normalized.Format("January 2, 2006")))
	}

	return normalized, nil
}

// insideWindow allows open..close with the closing hour inclusive only at
// exactly :00:00.
func (v *Validator) insideWindow(t time.Time) bool {
	hour := t.Hour()
	if hour < v.openHour || hour > v.closeHour {
		return false
	}
	if hour == v.closeHour && (t.Minute() > 0 || t.Second() > 0) {
		return false
	}
	return true
}
