package wire

import (
	"screen-star/internal/adaptor"
	"screen-star/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireScreen(r chi.Router, screenHandler *adaptor.ScreenHandler, log *zap.Logger) {
	// ==================== ADMIN ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Tenant(log))

		// GET /api/admin/screens/{id}/layout - Seat layout with sellable capacity
		r.Get("/api/admin/screens/{id}/layout", screenHandler.GetLayout)

		// PUT /api/admin/screens/{id}/layout - Replace the whole layout
		r.Put("/api/admin/screens/{id}/layout", screenHandler.ReplaceLayout)
	})
}
