// Package integration publishes events for systems outside the box office,
// such as ticket delivery and analytics.
package integration

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const BookingConfirmedQueue = "booking.confirmed"

// BookingConfirmed is published once a reservation has been written. It
// carries enough for consumers to act without reading the database.
type BookingConfirmed struct {
	BookingID     uuid.UUID       `json:"booking_id"`
	TenantID      uuid.UUID       `json:"tenant_id"`
	Reference     string          `json:"reference"`
	ShowtimeID    uuid.UUID       `json:"showtime_id"`
	MovieID       uuid.UUID       `json:"movie_id"`
	MovieTitle    string          `json:"movie_title"`
	ScreenID      uuid.UUID       `json:"screen_id"`
	StartsAt      time.Time       `json:"starts_at"`
	Seats         []string        `json:"seats"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	CustomerEmail string          `json:"customer_email"`
	ConfirmedAt   time.Time       `json:"confirmed_at"`
}
