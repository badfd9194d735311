package adaptor

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"screen-star/internal/usecase"
	"screen-star/pkg/metrics"
	"screen-star/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const streamHeartbeat = 15 * time.Second

type SeatMapHandler struct {
	service usecase.SeatMapService
	log     *zap.Logger
}

func NewSeatMapHandler(service usecase.SeatMapService, log *zap.Logger) *SeatMapHandler {
	return &SeatMapHandler{
		service: service,
		log:     log.With(zap.String("handler", "seatmap")),
	}
}

// GetSeatMap handles GET /api/showtimes/{id}/seats (public)
func (h *SeatMapHandler) GetSeatMap(w http.ResponseWriter, r *http.Request) {
	seatMap, err := h.service.GetSeatMap(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.log, err, "get seat map")
		return
	}

	utils.ResponseSuccess(w, "success", seatMap)
}

// StreamSeats handles GET /api/showtimes/{id}/seats/stream (public, SSE).
// The first event is the full seat map; later events are single seats.
// Closing the connection is how a viewer leaves.
func (h *SeatMapHandler) StreamSeats(w http.ResponseWriter, r *http.Request) {
	viewerID := r.URL.Query().Get("viewer")
	if viewerID == "" {
		viewerID = uuid.NewString()
	}

	stream, err := h.service.OpenStream(r.Context(), chi.URLParam(r, "id"), viewerID)
	if err != nil {
		writeServiceError(w, h.log, err, "open seat stream")
		return
	}

	defer metrics.SeatStreamOpened()()

	rc := http.NewResponseController(w)
	// the server write timeout would cut long-lived streams
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, "snapshot", stream.Initial); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		h.log.Warn("Streaming not supported by writer", zap.Error(err))
		return
	}

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-stream.Events:
			if !ok {
				return
			}
			if err := writeEvent(w, ev.Type, ev); err != nil {
				return
			}
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, name string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, payload)
	return err
}
