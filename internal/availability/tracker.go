package availability

import (
	"context"
	"sync"

	"screen-star/internal/domain"
)

// SeatView is one cell of the rendered seat map.
type SeatView struct {
	Key       domain.SeatKey   `json:"seat"`
	Type      domain.SeatType  `json:"seat_type"`
	State     domain.SeatState `json:"state"`
	Clickable bool             `json:"clickable"`
}

type View struct {
	Seats     []SeatView       `json:"seats"`
	Occupancy domain.Occupancy `json:"occupancy"`
}

// Tracker merges booking notifications for one showtime into a viewer's seat
// map. Merging is idempotent, so at-least-once delivery is fine.
type Tracker struct {
	seatMap *domain.SeatMap
	session *Session

	mu     sync.Mutex
	booked domain.SeatSet
}

func NewTracker(seatMap *domain.SeatMap, session *Session) *Tracker {
	return &Tracker{
		seatMap: seatMap,
		session: session,
		booked:  domain.NewSeatSet(),
	}
}

func (t *Tracker) Session() *Session {
	return t.session
}

// Seed merges a fetched snapshot of booked seats. Selected seats that turn
// out to be booked are dropped and reported.
func (t *Tracker) Seed(booked []domain.SeatKey) []TakenNotice {
	t.mu.Lock()
	defer t.mu.Unlock()

	var notices []TakenNotice
	for _, k := range booked {
		t.booked.Add(k)
		if t.session.remove(k) {
			notices = append(notices, TakenNotice{ShowtimeID: t.session.ShowtimeID, Seat: k})
		}
	}
	return notices
}

// Apply merges one notification. changed is false when the notification
// carried nothing new, which is the case for every redelivery.
func (t *Tracker) Apply(n Notification) (notices []TakenNotice, changed bool) {
	if n.showtime() != t.session.ShowtimeID {
		return nil, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	switch n := n.(type) {
	case Hint:
		changed = t.booked.Add(n.Seat)
		// our own in-flight seats are settled by FinishCommit
		if t.session.isCommitting(n.Seat) {
			return nil, changed
		}
		if t.session.remove(n.Seat) {
			notices = append(notices, TakenNotice{ShowtimeID: n.ShowtimeID, Seat: n.Seat})
			changed = true
		}
	case AuthoritativeWrite:
		for _, k := range n.Seats {
			if t.booked.Add(k) {
				changed = true
			}
			if t.session.remove(k) {
				changed = true
			}
		}
	}
	return notices, changed
}

// Select adds k to the viewer's selection if the seat is clickable now.
func (t *Tracker) Select(k domain.SeatKey) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.seatMap.Clickable(k, t.booked) {
		return domain.ErrSeatNotSelectable
	}
	return t.session.add(k)
}

func (t *Tracker) Deselect(k domain.SeatKey) {
	t.session.remove(k)
}

// BeginCommit freezes the current selection for a reservation attempt. A
// second call before FinishCommit fails with domain.ErrCommitInFlight.
func (t *Tracker) BeginCommit() ([]domain.SeatKey, error) {
	return t.session.begin()
}

// FinishCommit ends the in-flight attempt. On success pass the write, on
// failure nil; a failed attempt reports any selected seat that was booked by
// someone else in the meantime.
func (t *Tracker) FinishCommit(write *AuthoritativeWrite) []TakenNotice {
	t.session.end()
	if write != nil {
		t.Apply(*write)
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var notices []TakenNotice
	for _, k := range t.session.Selected() {
		if t.booked.Has(k) && t.session.remove(k) {
			notices = append(notices, TakenNotice{ShowtimeID: t.session.ShowtimeID, Seat: k})
		}
	}
	return notices
}

func (t *Tracker) Booked() []domain.SeatKey {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.booked.Keys()
}

func (t *Tracker) Occupancy() domain.Occupancy {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.seatMap.Occupancy(t.booked)
}

func (t *Tracker) Snapshot() View {
	t.mu.Lock()
	defer t.mu.Unlock()

	selected := domain.NewSeatSet(t.session.Selected()...)
	layout := t.seatMap.Seats()
	view := View{
		Seats:     make([]SeatView, 0, len(layout)),
		Occupancy: t.seatMap.Occupancy(t.booked),
	}
	for _, s := range layout {
		view.Seats = append(view.Seats, SeatView{
			Key:       s.Key,
			Type:      s.Type,
			State:     t.seatMap.State(s.Key, t.booked, selected),
			Clickable: t.seatMap.Clickable(s.Key, t.booked),
		})
	}
	return view
}

// Run applies notifications from feed until ctx is done or feed is closed.
// onChange, when set, sees every notification that changed the picture along
// with any notices it produced.
func (t *Tracker) Run(ctx context.Context, feed <-chan Notification, onChange func(Notification, []TakenNotice)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n, ok := <-feed:
			if !ok {
				return nil
			}
			notices, changed := t.Apply(n)
			if changed && onChange != nil {
				onChange(n, notices)
			}
		}
	}
}
