package blackouts

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ovenandcrumb/bakeshop-backend/pkg/db"
	"github.com/ovenandcrumb/bakeshop-backend/pkg/db/models"
	pkgerrors "github.com/ovenandcrumb/bakeshop-backend/pkg/errors"
)

const dayFormat = "2006-01-02"

// Service manages the calendar days the bakery does not fulfill orders on.
type Service interface {
	AddBlackout(ctx context.Context, input AddBlackoutInput) (*BlackoutDTO, error)
	RemoveBlackout(ctx context.Context, id uuid.UUID) error
	ListUpcoming(ctx context.Context) ([]BlackoutDTO, error)
}

type AddBlackoutInput struct {
	Day    string
	Reason *string
}

type BlackoutDTO struct {
	ID     uuid.UUID `json:"id"`
	Day    string    `json:"day"`
	Reason *string   `json:"reason,omitempty"`
}

type service struct {
	repo     BlackoutRepository
	location *time.Location
	now      func() time.Time
}

// NewService builds a blackout service. timezone is the bakery's IANA zone;
// upcoming-day listings are anchored to today in that zone.
func NewService(repo BlackoutRepository, timezone string) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "blackout repository is required")
	}
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "invalid bakery timezone")
	}
	return &service{repo: repo, location: location, now: time.Now}, nil
}

func (s *service) AddBlackout(ctx context.Context, input AddBlackoutInput) (*BlackoutDTO, error) {
	day, err := time.ParseInLocation(dayFormat, input.Day, s.location)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "day must be a date in YYYY-MM-DD format")
	}

	blackout := &models.BlackoutDate{Day: day, Reason: input.Reason}
	created, err := s.repo.Create(ctx, blackout)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_blackout_dates_day") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "day is already blacked out")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to create blackout date")
	}
	return newBlackoutDTO(created), nil
}

func (s *service) RemoveBlackout(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "blackout date not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to delete blackout date")
	}
	return nil
}

func (s *service) ListUpcoming(ctx context.Context) ([]BlackoutDTO, error) {
	today := s.now().In(s.location)
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, s.location)

	blackouts, err := s.repo.List(ctx, today)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list blackout dates")
	}

	dtos := make([]BlackoutDTO, 0, len(blackouts))
	for i := range blackouts {
		dtos = append(dtos, *newBlackoutDTO(&blackouts[i]))
	}
	return dtos, nil
}

func newBlackoutDTO(blackout *models.BlackoutDate) *BlackoutDTO {
	return &BlackoutDTO{
		ID:     blackout.ID,
		Day:    blackout.Day.Format(dayFormat),
		Reason: blackout.Reason,
	}
}
