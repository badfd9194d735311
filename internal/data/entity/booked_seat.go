package entity

import (
	"screen-star/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookedSeat is written once by a reservation commit and never changed.
type BookedSeat struct {
	BaseSimple
	BookingID  uuid.UUID       `db:"booking_id"`
	ShowtimeID uuid.UUID       `db:"showtime_id"`
	RowLabel   string          `db:"row_label"`
	SeatNumber int             `db:"seat_number"`
	SeatType   domain.SeatType `db:"seat_type"`
	Price      decimal.Decimal `db:"price"`
}

func (s BookedSeat) Key() domain.SeatKey {
	return domain.SeatKey{Row: s.RowLabel, Number: s.SeatNumber}
}

func BookedKeys(seats []*BookedSeat) []domain.SeatKey {
	keys := make([]domain.SeatKey, len(seats))
	for i, s := range seats {
		keys[i] = s.Key()
	}
	return keys
}
