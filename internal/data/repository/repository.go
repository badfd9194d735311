package repository

import (
	"screen-star/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Screen     ScreenRepository
	SeatLayout SeatLayoutRepository
	Movie      MovieRepository
	Showtime   ShowtimeRepository
	Booking    BookingRepository
	BookedSeat BookedSeatRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Screen:     NewScreenRepository(db, log),
		SeatLayout: NewSeatLayoutRepository(db, log),
		Movie:      NewMovieRepository(db, log),
		Showtime:   NewShowtimeRepository(db, log),
		Booking:    NewBookingRepository(db, log),
		BookedSeat: NewBookedSeatRepository(db, log),
	}
}
