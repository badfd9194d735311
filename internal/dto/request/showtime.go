package request

import (
	"time"

	"github.com/shopspring/decimal"
)

type BulkScheduleRequest struct {
	MovieID   string              `json:"movie_id" validate:"required,uuid"`
	ScreenID  string              `json:"screen_id" validate:"required,uuid"`
	StartDate string              `json:"start_date" validate:"required,date"`
	EndDate   string              `json:"end_date" validate:"required,date"`
	TimeSlots []string            `json:"time_slots" validate:"required,min=1,dive,timeofday"`
	Price     decimal.Decimal     `json:"price"`
	VIPPrice  decimal.NullDecimal `json:"vip_price"`
	// Force writes the batch even when it overlaps existing showtimes.
	Force bool `json:"force"`
}

// RescheduleRequest changes any of start time and prices. Omitted fields
// keep their current value.
type RescheduleRequest struct {
	StartTime     *time.Time       `json:"start_time"`
	Price         *decimal.Decimal `json:"price"`
	VIPPrice      *decimal.Decimal `json:"vip_price"`
	ClearVIPPrice bool             `json:"clear_vip_price"`
	Force         bool             `json:"force"`
}

type SetActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
	Force  bool  `json:"force"`
}

type ReplaceLayoutRequest struct {
	Seats []LayoutSeatRequest `json:"seats" validate:"required,min=1,dive"`
}

type LayoutSeatRequest struct {
	Row         string `json:"row" validate:"required,rowlabel,max=4"`
	SeatNumber  int    `json:"seat_number" validate:"required,min=1"`
	SeatType    string `json:"seat_type" validate:"required,oneof=regular vip unavailable"`
	IsAvailable *bool  `json:"is_available"`
}

// ScreenShowtimesRequest pages through one screen's showtimes, latest first.
type ScreenShowtimesRequest struct {
	Page    int `validate:"min=1"`
	PerPage int `validate:"min=1,max=100"`
	// From keeps showtimes starting on or after this date.
	From       string `validate:"omitempty,date"`
	ActiveOnly bool
}

func (r ScreenShowtimesRequest) Offset() int {
	if r.Page < 1 {
		return 0
	}
	return (r.Page - 1) * r.Limit()
}

func (r ScreenShowtimesRequest) Limit() int {
	if r.PerPage < 1 {
		return 10
	}
	if r.PerPage > 100 {
		return 100
	}
	return r.PerPage
}
