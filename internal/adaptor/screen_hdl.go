package adaptor

import (
	"encoding/json"
	"net/http"

	"screen-star/internal/dto/request"
	"screen-star/internal/usecase"
	"screen-star/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ScreenHandler struct {
	service usecase.ScreenService
	log     *zap.Logger
}

func NewScreenHandler(service usecase.ScreenService, log *zap.Logger) *ScreenHandler {
	return &ScreenHandler{
		service: service,
		log:     log.With(zap.String("handler", "screen")),
	}
}

// GetLayout handles GET /api/admin/screens/{id}/layout
func (h *ScreenHandler) GetLayout(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	layout, err := h.service.GetLayout(r.Context(), tenantID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.log, err, "get seat layout")
		return
	}

	utils.ResponseSuccess(w, "success", layout)
}

// ReplaceLayout handles PUT /api/admin/screens/{id}/layout
func (h *ScreenHandler) ReplaceLayout(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	var req request.ReplaceLayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	layout, err := h.service.ReplaceLayout(r.Context(), tenantID, chi.URLParam(r, "id"), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "replace seat layout")
		return
	}

	utils.ResponseSuccess(w, "success", layout)
}
