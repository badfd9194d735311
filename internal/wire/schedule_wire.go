package wire

import (
	"screen-star/internal/adaptor"
	"screen-star/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireSchedule(r chi.Router, scheduleHandler *adaptor.ScheduleHandler, log *zap.Logger) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/movies/{id}/showtimes - Upcoming showtimes with occupancy badges
	r.Get("/api/movies/{id}/showtimes", scheduleHandler.ListByMovie)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/showtimes", func(r chi.Router) {
		r.Use(middleware.Tenant(log))

		// POST /api/admin/showtimes/bulk/preview - Expand a plan without writing
		r.Post("/bulk/preview", scheduleHandler.PreviewBulk)

		// POST /api/admin/showtimes/bulk - Expand and insert a plan
		r.Post("/bulk", scheduleHandler.GenerateBulk)

		// PUT /api/admin/showtimes/{id} - Move a showtime or change its prices
		r.Put("/{id}", scheduleHandler.Reschedule)

		// PATCH /api/admin/showtimes/{id}/active - Activate or deactivate
		r.Patch("/{id}/active", scheduleHandler.SetActive)

		// DELETE /api/admin/showtimes/{id} - Remove a showtime without bookings
		r.Delete("/{id}", scheduleHandler.Delete)
	})

	r.With(middleware.Tenant(log)).
		Get("/api/admin/screens/{id}/showtimes", scheduleHandler.ListByScreen)
}
