package request

type CommitReservationRequest struct {
	ShowtimeID string `json:"showtime_id" validate:"required,uuid"`
	// SessionID identifies the viewer; at most one commit per session runs
	// at a time.
	SessionID string          `json:"session_id" validate:"omitempty,max=128"`
	Seats     []SeatRequest   `json:"seats" validate:"required,min=1,max=20,dive"`
	Customer  CustomerRequest `json:"customer" validate:"required"`
}

type SeatRequest struct {
	Row        string `json:"row" validate:"required,rowlabel,max=4"`
	SeatNumber int    `json:"seat_number" validate:"required,min=1"`
	SeatType   string `json:"seat_type" validate:"omitempty,oneof=regular vip unavailable"`
}

type CustomerRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"required,email,max=255"`
	Phone string `json:"phone" validate:"omitempty,max=32"`
}
