// Package changefeed carries row-level change notifications between
// processes. A subscription is keyed by table and one equality filter, e.g.
// booked_seats where showtime_id = X. Delivery is at-least-once.
package changefeed

import (
	"encoding/json"
	"fmt"
	"time"

	"screen-star/internal/availability"
	"screen-star/internal/data/entity"
	"screen-star/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TableBookedSeats = "booked_seats"
	TableShowtimes   = "showtimes"
)

type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Topic names the stream for rows of table whose column equals value.
func Topic(table, column, value string) string {
	return fmt.Sprintf("changes.%s.%s.%s", table, column, value)
}

func BookedSeatsTopic(showtimeID uuid.UUID) string {
	return Topic(TableBookedSeats, "showtime_id", showtimeID.String())
}

func ShowtimesTopic(screenID uuid.UUID) string {
	return Topic(TableShowtimes, "screen_id", screenID.String())
}

// Change is the message payload: the new state of one row.
type Change struct {
	Table string          `json:"table"`
	Op    Op              `json:"op"`
	At    time.Time       `json:"at"`
	Row   json.RawMessage `json:"row"`
}

type BookedSeatRow struct {
	ID         uuid.UUID       `json:"id"`
	BookingID  uuid.UUID       `json:"booking_id"`
	ShowtimeID uuid.UUID       `json:"showtime_id"`
	RowLabel   string          `json:"row_label"`
	SeatNumber int             `json:"seat_number"`
	SeatType   domain.SeatType `json:"seat_type"`
}

func NewBookedSeatRow(s *entity.BookedSeat) BookedSeatRow {
	return BookedSeatRow{
		ID:         s.ID,
		BookingID:  s.BookingID,
		ShowtimeID: s.ShowtimeID,
		RowLabel:   s.RowLabel,
		SeatNumber: s.SeatNumber,
		SeatType:   s.SeatType,
	}
}

func (r BookedSeatRow) Hint() availability.Hint {
	return availability.Hint{
		ShowtimeID: r.ShowtimeID,
		BookingID:  r.BookingID,
		Seat:       domain.SeatKey{Row: r.RowLabel, Number: r.SeatNumber},
	}
}

type ShowtimeRow struct {
	ID        uuid.UUID           `json:"id"`
	MovieID   uuid.UUID           `json:"movie_id"`
	ScreenID  uuid.UUID           `json:"screen_id"`
	StartTime time.Time           `json:"start_time"`
	Price     decimal.Decimal     `json:"price"`
	VIPPrice  decimal.NullDecimal `json:"vip_price"`
	IsActive  bool                `json:"is_active"`
}

func NewShowtimeRow(s *entity.Showtime) ShowtimeRow {
	return ShowtimeRow{
		ID:        s.ID,
		MovieID:   s.MovieID,
		ScreenID:  s.ScreenID,
		StartTime: s.StartTime,
		Price:     s.Price,
		VIPPrice:  s.VIPPrice,
		IsActive:  s.IsActive,
	}
}
