package wire

import (
	"screen-star/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireSeatMap(r chi.Router, seatMapHandler *adaptor.SeatMapHandler) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/showtimes/{id}/seats - Seat map snapshot
	r.Get("/api/showtimes/{id}/seats", seatMapHandler.GetSeatMap)

	// GET /api/showtimes/{id}/seats/stream - Live seat updates (SSE)
	r.Get("/api/showtimes/{id}/seats/stream", seatMapHandler.StreamSeats)
}
