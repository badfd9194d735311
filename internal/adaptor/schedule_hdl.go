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

type ScheduleHandler struct {
	service usecase.ScheduleService
	log     *zap.Logger
}

func NewScheduleHandler(service usecase.ScheduleService, log *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		service: service,
		log:     log.With(zap.String("handler", "schedule")),
	}
}

// PreviewBulk handles POST /api/admin/showtimes/bulk/preview
func (h *ScheduleHandler) PreviewBulk(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	var req request.BulkScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	preview, err := h.service.PreviewBulk(r.Context(), tenantID, &req)
	if err != nil {
		h.handleServiceError(w, err, "preview bulk schedule")
		return
	}

	utils.ResponseSuccess(w, "success", preview)
}

// GenerateBulk handles POST /api/admin/showtimes/bulk
func (h *ScheduleHandler) GenerateBulk(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	var req request.BulkScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.GenerateBulk(r.Context(), tenantID, &req)
	if err != nil {
		h.handleServiceError(w, err, "generate bulk schedule")
		return
	}

	utils.ResponseCreated(w, "success", result)
}

// Reschedule handles PUT /api/admin/showtimes/{id}
func (h *ScheduleHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	var req request.RescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.Reschedule(r.Context(), tenantID, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err, "reschedule showtime")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// SetActive handles PATCH /api/admin/showtimes/{id}/active
func (h *ScheduleHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	var req request.SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.service.SetActive(r.Context(), tenantID, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err, "set showtime active")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// Delete handles DELETE /api/admin/showtimes/{id}
func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), tenantID, chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, err, "delete showtime")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// ListByScreen handles GET /api/admin/screens/{id}/showtimes?page=&per_page=&from=YYYY-MM-DD&active=true
func (h *ScheduleHandler) ListByScreen(w http.ResponseWriter, r *http.Request) {
	tenantID, ok := tenantFrom(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	req := &request.ScreenShowtimesRequest{
		Page:       utils.ParseInt(query.Get("page"), 1),
		PerPage:    utils.ParseInt(query.Get("per_page"), 10),
		From:       query.Get("from"),
		ActiveOnly: query.Get("active") == "true",
	}

	showtimes, err := h.service.ListByScreen(r.Context(), tenantID, chi.URLParam(r, "id"), req)
	if err != nil {
		h.handleServiceError(w, err, "list screen showtimes")
		return
	}

	utils.ResponseSuccess(w, "success", showtimes)
}

// ListByMovie handles GET /api/movies/{id}/showtimes (public)
func (h *ScheduleHandler) ListByMovie(w http.ResponseWriter, r *http.Request) {
	showtimes, err := h.service.ListByMovie(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err, "list movie showtimes")
		return
	}

	utils.ResponseSuccess(w, "success", showtimes)
}

func (h *ScheduleHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	writeServiceError(w, h.log, err, operation)
}
