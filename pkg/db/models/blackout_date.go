package models

import (
	"time"

	"github.com/google/uuid"
)

// BlackoutDate blocks a calendar day from fulfillment scheduling. Day is the
// date in the bakery's local zone, stored at midnight.
type BlackoutDate struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Day       time.Time `gorm:"column:day;type:date;not null;uniqueIndex:idx_blackout_dates_day"`
	Reason    *string   `gorm:"column:reason"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
