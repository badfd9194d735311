package entity

import (
	"time"

	"screen-star/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Showtime struct {
	BaseNoDelete
	TenantID  uuid.UUID           `db:"tenant_id"`
	MovieID   uuid.UUID           `db:"movie_id"`
	ScreenID  uuid.UUID           `db:"screen_id"`
	StartTime time.Time           `db:"start_time"`
	Price     decimal.Decimal     `db:"price"`
	VIPPrice  decimal.NullDecimal `db:"vip_price"`
	IsActive  bool                `db:"is_active"`
}

// SeatPrice is what one seat of type t costs. VIP seats fall back to the
// base price when no VIP price is set.
func (s Showtime) SeatPrice(t domain.SeatType) decimal.Decimal {
	switch t {
	case domain.SeatVIP:
		if s.VIPPrice.Valid {
			return s.VIPPrice.Decimal
		}
		return s.Price
	case domain.SeatRegular, domain.SeatUnavailable:
		return s.Price
	default:
		return s.Price
	}
}

// ShowtimeWithMovie is a showtime joined with the movie fields the conflict
// detector needs.
type ShowtimeWithMovie struct {
	Showtime
	MovieTitle      string `db:"movie_title"`
	DurationMinutes int    `db:"duration_minutes"`
}

func (s ShowtimeWithMovie) Screening() domain.Screening {
	return domain.Screening{
		ShowtimeID: s.ID,
		MovieID:    s.MovieID,
		MovieTitle: s.MovieTitle,
		Start:      s.StartTime,
		Runtime:    time.Duration(s.DurationMinutes) * time.Minute,
	}
}
