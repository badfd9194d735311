package entity

import (
	"time"

	"github.com/google/uuid"
)

type MovieStatus string

const (
	MovieStatusNowShowing MovieStatus = "now_showing"
	MovieStatusComingSoon MovieStatus = "coming_soon"
)

type Movie struct {
	Base
	TenantID        uuid.UUID   `db:"tenant_id"`
	Title           string      `db:"title"`
	DurationMinutes int         `db:"duration_minutes"`
	Status          MovieStatus `db:"status"`
	IsActive        bool        `db:"is_active"`
}

func (m Movie) Runtime() time.Duration {
	return time.Duration(m.DurationMinutes) * time.Minute
}
