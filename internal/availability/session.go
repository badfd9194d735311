package availability

import (
	"sync"

	"screen-star/internal/domain"

	"github.com/google/uuid"
)

// Session is one viewer's selection for one showtime. It is never persisted;
// dropping it is how a viewer abandons a selection.
type Session struct {
	ViewerID   string
	ShowtimeID uuid.UUID

	mu         sync.Mutex
	selected   domain.SeatSet
	committing domain.SeatSet
}

func NewSession(viewerID string, showtimeID uuid.UUID) *Session {
	return &Session{
		ViewerID:   viewerID,
		ShowtimeID: showtimeID,
		selected:   domain.NewSeatSet(),
	}
}

// Selected returns the selection in seat order.
func (s *Session) Selected() []domain.SeatKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected.Keys()
}

func (s *Session) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committing != nil
}

func (s *Session) has(k domain.SeatKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected.Has(k)
}

func (s *Session) add(k domain.SeatKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.committing != nil {
		return domain.ErrCommitInFlight
	}
	s.selected.Add(k)
	return nil
}

func (s *Session) remove(k domain.SeatKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected.Remove(k)
}

func (s *Session) isCommitting(k domain.SeatKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committing.Has(k)
}

func (s *Session) begin() ([]domain.SeatKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.committing != nil {
		return nil, domain.ErrCommitInFlight
	}
	if s.selected.Len() == 0 {
		return nil, domain.NewValidationError("seats", "select at least one seat")
	}
	s.committing = s.selected.Clone()
	return s.committing.Keys(), nil
}

func (s *Session) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committing = nil
}
