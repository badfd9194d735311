package response

import (
	"time"

	"screen-star/internal/availability"
	"screen-star/internal/domain"

	"github.com/shopspring/decimal"
)

type SeatMapResponse struct {
	ShowtimeID string                  `json:"showtime_id"`
	ScreenID   string                  `json:"screen_id"`
	ScreenName string                  `json:"screen_name"`
	MovieTitle string                  `json:"movie_title"`
	StartTime  time.Time               `json:"start_time"`
	Rows       int                     `json:"rows"`
	Columns    int                     `json:"columns"`
	Price      decimal.Decimal         `json:"price"`
	VIPPrice   decimal.Decimal         `json:"vip_price"`
	Seats      []availability.SeatView `json:"seats"`
	Occupancy  domain.Occupancy        `json:"occupancy"`
	BadgeLabel string                  `json:"badge_label,omitempty"`
}

// SeatEvent is one server-sent event on a seat stream.
type SeatEvent struct {
	Type      string           `json:"type"`
	Seat      domain.SeatKey   `json:"seat"`
	BookingID string           `json:"booking_id,omitempty"`
	Occupancy domain.Occupancy `json:"occupancy"`
}

type LayoutResponse struct {
	ScreenID string               `json:"screen_id"`
	Rows     int                  `json:"rows"`
	Columns  int                  `json:"columns"`
	Capacity int                  `json:"capacity"`
	Seats    []LayoutSeatResponse `json:"seats"`
}

type LayoutSeatResponse struct {
	Seat        domain.SeatKey  `json:"seat"`
	SeatType    domain.SeatType `json:"seat_type"`
	IsAvailable bool            `json:"is_available"`
}
