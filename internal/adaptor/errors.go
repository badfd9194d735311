package adaptor

import (
	"errors"
	"net/http"

	"screen-star/internal/domain"
	"screen-star/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// writeServiceError maps service errors onto HTTP responses.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var (
		validationErr *domain.ValidationError
		conflictErr   *domain.ConflictWarning
		seatErr       *domain.SeatUnavailableError
		transientErr  *domain.TransientError
	)

	switch {
	case errors.As(err, &validationErr):
		log.Warn(operation+" validation failed",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, "Validation failed", validationErr.Fields)

	case errors.As(err, &conflictErr):
		log.Info(operation+" needs confirmation",
			zap.Int("conflicts", len(conflictErr.Conflicts)),
			zap.String("operation", operation))
		utils.ResponseConflict(w, "Schedule conflicts found, resend with force to confirm", conflictErr.Conflicts)

	case errors.As(err, &seatErr):
		log.Info(operation+" failed - seats taken",
			zap.Error(err),
			zap.String("operation", operation))
		seats := make([]string, len(seatErr.Seats))
		for i, s := range seatErr.Seats {
			seats[i] = s.String()
		}
		utils.ResponseConflict(w, "Some seats were just booked by someone else", map[string]any{"seats": seats})

	case errors.Is(err, domain.ErrNotFound):
		log.Warn(operation+" failed - not found",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, domain.ErrShowtimeHasBookings):
		utils.ResponseConflict(w, err.Error(), nil)

	case errors.Is(err, domain.ErrNoValidSlots), errors.Is(err, domain.ErrShowtimeClosed):
		log.Warn(operation+" failed - invalid state",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseUnprocessable(w, err.Error())

	case errors.Is(err, domain.ErrCommitInFlight):
		utils.ResponseTooManyRequests(w, err.Error())

	case errors.As(err, &transientErr):
		log.Error(operation+" failed - backend unavailable",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseServiceUnavailable(w, "Service temporarily unavailable, please retry")

	default:
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

func tenantFrom(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	tenantID, ok := utils.GetTenantIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Tenant required")
		return uuid.Nil, false
	}
	return tenantID, true
}
