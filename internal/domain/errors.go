package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrNoValidSlots        = errors.New("no valid slots: every generated screening is in the past")
	ErrShowtimeHasBookings = errors.New("showtime has bookings, deactivate it instead")
	ErrShowtimeClosed      = errors.New("showtime is not open for booking")
	ErrCommitInFlight      = errors.New("a reservation for this session is already being committed")
	ErrSeatNotSelectable   = errors.New("seat cannot be selected")
)

// ValidationError maps request fields to what is wrong with them.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
}

func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e.Fields[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ConflictWarning is returned when a write would create overlapping
// screenings and the caller did not ask to force it. It is advisory: the same
// request with force set goes through.
type ConflictWarning struct {
	Conflicts []ConflictInfo
}

func (w *ConflictWarning) Error() string {
	return fmt.Sprintf("%d scheduling conflict(s) need confirmation", len(w.Conflicts))
}

// SeatUnavailableError lists the seats another booking got first.
type SeatUnavailableError struct {
	ShowtimeID uuid.UUID
	Seats      []SeatKey
}

func (e *SeatUnavailableError) Error() string {
	labels := make([]string, len(e.Seats))
	for i, s := range e.Seats {
		labels[i] = s.String()
	}
	return fmt.Sprintf("seats already booked for showtime %s: %s", e.ShowtimeID, strings.Join(labels, ", "))
}

// TransientError wraps an infrastructure failure the caller may retry.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

func Transient(op string, err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Op: op, Err: err}
}
