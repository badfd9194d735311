package entity

import (
	"screen-star/internal/domain"

	"github.com/google/uuid"
)

type SeatLayout struct {
	BaseSimple
	ScreenID    uuid.UUID       `db:"screen_id"`
	RowLabel    string          `db:"row_label"`   // A, B, C, etc.
	SeatNumber  int             `db:"seat_number"` // 1, 2, 3, etc.
	SeatType    domain.SeatType `db:"seat_type"`
	IsAvailable bool            `db:"is_available"`
}

func (s SeatLayout) Key() domain.SeatKey {
	return domain.SeatKey{Row: s.RowLabel, Number: s.SeatNumber}
}

// ToLayoutSeats converts layout rows into the seat map's representation.
func ToLayoutSeats(rows []SeatLayout) []domain.LayoutSeat {
	seats := make([]domain.LayoutSeat, 0, len(rows))
	for _, r := range rows {
		seats = append(seats, domain.LayoutSeat{Key: r.Key(), Type: r.SeatType, IsAvailable: r.IsAvailable})
	}
	return seats
}
