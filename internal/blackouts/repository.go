package blackouts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ovenandcrumb/bakeshop-backend/pkg/db/models"
)

// BlackoutRepository is the persistence surface the blackout service depends on.
type BlackoutRepository interface {
	Create(ctx context.Context, blackout *models.BlackoutDate) (*models.BlackoutDate, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, from time.Time) ([]models.BlackoutDate, error)
	IsBlackedOut(ctx context.Context, day time.Time) (bool, error)
}

type Repository struct {
	db *gorm.DB
}

// NewRepository returns a repository bound to the given gorm handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, blackout *models.BlackoutDate) (*models.BlackoutDate, error) {
	if err := r.db.WithContext(ctx).Create(blackout).Error; err != nil {
		return nil, err
	}
	return blackout, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.BlackoutDate{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns blackout days on or after from, soonest first.
func (r *Repository) List(ctx context.Context, from time.Time) ([]models.BlackoutDate, error) {
	var blackouts []models.BlackoutDate
	err := r.db.WithContext(ctx).
		Where("day >= ?", from.Format("2006-01-02")).
		Order("day ASC").
		Find(&blackouts).Error
	if err != nil {
		return nil, err
	}
	return blackouts, nil
}

// IsBlackedOut reports whether the calendar day of the given time is blocked.
// Callers pass a time already normalized to the bakery's zone.
func (r *Repository) IsBlackedOut(ctx context.Context, day time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BlackoutDate{}).
		Where("day = ?", day.Format("2006-01-02")).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
