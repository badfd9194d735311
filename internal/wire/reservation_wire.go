package wire

import (
	"screen-star/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireReservation(r chi.Router, reservationHandler *adaptor.ReservationHandler) {
	// ==================== PUBLIC ROUTES ====================
	// POST /api/reservations - Commit a set of seats as one booking
	r.Post("/api/reservations", reservationHandler.Commit)

	// GET /api/bookings/{id} - Booking with its seats
	r.Get("/api/bookings/{id}", reservationHandler.GetBooking)
}
