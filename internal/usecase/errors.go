package usecase

import (
	"errors"

	"screen-star/internal/domain"

	"github.com/google/uuid"
)

func validationError(fields map[string]string) error {
	return &domain.ValidationError{Fields: fields}
}

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(field, "Must be a valid UUID")
	}
	return id, nil
}

// storeError passes domain errors through and marks anything else from the
// store as transient.
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	var seatErr *domain.SeatUnavailableError
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrShowtimeHasBookings),
		errors.As(err, &seatErr):
		return err
	default:
		return domain.Transient(op, err)
	}
}
