package response

import (
	"time"

	"screen-star/internal/data/entity"

	"github.com/shopspring/decimal"
)

type BookedSeatResponse struct {
	Row        string          `json:"row"`
	SeatNumber int             `json:"seat_number"`
	Label      string          `json:"label"`
	SeatType   string          `json:"seat_type"`
	Price      decimal.Decimal `json:"price"`
}

type BookingResponse struct {
	ID            string               `json:"id"`
	Reference     string               `json:"reference"`
	ShowtimeID    string               `json:"showtime_id"`
	CustomerName  string               `json:"customer_name"`
	CustomerEmail string               `json:"customer_email"`
	TotalAmount   decimal.Decimal      `json:"total_amount"`
	Status        entity.BookingStatus `json:"status"`
	Seats         []BookedSeatResponse `json:"seats"`
	CreatedAt     time.Time            `json:"created_at"`
}

func BookingToResponse(b *entity.Booking, seats []*entity.BookedSeat) BookingResponse {
	resp := BookingResponse{
		ID:            b.ID.String(),
		Reference:     b.Reference,
		ShowtimeID:    b.ShowtimeID.String(),
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		TotalAmount:   b.TotalAmount,
		Status:        b.Status,
		Seats:         make([]BookedSeatResponse, 0, len(seats)),
		CreatedAt:     b.CreatedAt,
	}
	for _, s := range seats {
		resp.Seats = append(resp.Seats, BookedSeatResponse{
			Row:        s.RowLabel,
			SeatNumber: s.SeatNumber,
			Label:      s.Key().String(),
			SeatType:   string(s.SeatType),
			Price:      s.Price,
		})
	}
	return resp
}
