// Package availability keeps one viewer's picture of a showtime's seats in
// sync with bookings made elsewhere. It is a display aid only: whether a seat
// can really be sold is decided when the reservation is written.
package availability

import (
	"fmt"

	"screen-star/internal/domain"

	"github.com/google/uuid"
)

// Notification is either a Hint or an AuthoritativeWrite.
type Notification interface {
	showtime() uuid.UUID
}

// Hint reports a booked-seat insert seen on the change feed. Hints may be
// duplicated or arrive out of order with respect to the viewer's own commit.
type Hint struct {
	ShowtimeID uuid.UUID
	BookingID  uuid.UUID
	Seat       domain.SeatKey
}

func (h Hint) showtime() uuid.UUID { return h.ShowtimeID }

// AuthoritativeWrite is the result of this viewer's own successful commit.
type AuthoritativeWrite struct {
	ShowtimeID uuid.UUID
	BookingID  uuid.UUID
	Seats      []domain.SeatKey
}

func (w AuthoritativeWrite) showtime() uuid.UUID { return w.ShowtimeID }

// TakenNotice tells the viewer a seat they had selected was sold to someone
// else.
type TakenNotice struct {
	ShowtimeID uuid.UUID      `json:"showtime_id"`
	Seat       domain.SeatKey `json:"seat"`
}

func (n TakenNotice) Message() string {
	return fmt.Sprintf("Seat %s was just taken", n.Seat)
}
