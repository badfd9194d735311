package response

import (
	"time"

	"screen-star/internal/data/entity"
	"screen-star/internal/domain"

	"github.com/shopspring/decimal"
)

type ShowtimeResponse struct {
	ID         string              `json:"id"`
	MovieID    string              `json:"movie_id"`
	MovieTitle string              `json:"movie_title,omitempty"`
	ScreenID   string              `json:"screen_id"`
	StartTime  time.Time           `json:"start_time"`
	EndTime    time.Time           `json:"end_time"`
	Price      decimal.Decimal     `json:"price"`
	VIPPrice   decimal.NullDecimal `json:"vip_price"`
	IsActive   bool                `json:"is_active"`
	Occupancy  *domain.Occupancy   `json:"occupancy,omitempty"`
}

// CandidateResponse is a screening the generator would create.
type CandidateResponse struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type BulkScheduleResponse struct {
	Candidates []CandidateResponse   `json:"candidates"`
	Conflicts  []domain.ConflictInfo `json:"conflicts"`
	Created    []ShowtimeResponse    `json:"created,omitempty"`
	Committed  bool                  `json:"committed"`
}

type RescheduleResponse struct {
	Showtime  ShowtimeResponse      `json:"showtime"`
	Conflicts []domain.ConflictInfo `json:"conflicts"`
}

// ShowtimeToResponse fills EndTime with the runtime only; the turnover
// buffer is an operator concern.
func ShowtimeToResponse(s *entity.ShowtimeWithMovie) ShowtimeResponse {
	return ShowtimeResponse{
		ID:         s.ID.String(),
		MovieID:    s.MovieID.String(),
		MovieTitle: s.MovieTitle,
		ScreenID:   s.ScreenID.String(),
		StartTime:  s.StartTime,
		EndTime:    s.StartTime.Add(time.Duration(s.DurationMinutes) * time.Minute),
		Price:      s.Price,
		VIPPrice:   s.VIPPrice,
		IsActive:   s.IsActive,
	}
}
