package adaptor

import (
	"screen-star/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Schedule    *ScheduleHandler
	Screen      *ScreenHandler
	SeatMap     *SeatMapHandler
	Reservation *ReservationHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Schedule:    NewScheduleHandler(service.Schedule, log),
		Screen:      NewScreenHandler(service.Screen, log),
		SeatMap:     NewSeatMapHandler(service.SeatMap, log),
		Reservation: NewReservationHandler(service.Reservation, log),
	}
}
