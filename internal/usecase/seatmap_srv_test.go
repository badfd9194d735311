package usecase

import (
	"context"
	"testing"
	"time"

	"screen-star/internal/availability"
	"screen-star/internal/domain"
	"screen-star/internal/dto/request"
	"screen-star/internal/dto/response"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type chanFeed struct {
	ch chan availability.Notification
}

func (f *chanFeed) BookedSeats(context.Context, uuid.UUID) (<-chan availability.Notification, error) {
	return f.ch, nil
}

func seatState(t *testing.T, seats []availability.SeatView, label string) availability.SeatView {
	t.Helper()
	for _, s := range seats {
		if s.Key.String() == label {
			return s
		}
	}
	t.Fatalf("seat %s not in map", label)
	return availability.SeatView{}
}

func TestGetSeatMap_StatesAndBadge(t *testing.T) {
	f := newReservationFixture(t)
	ctx := context.Background()

	_, err := f.svc.Commit(ctx, f.request("A1", "A2", "B1"))
	require.NoError(t, err)

	svc := NewSeatMapService(f.store.repository(), Dependencies{}, zap.NewNop())
	resp, err := svc.GetSeatMap(ctx, f.showtime.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "Studio 2", resp.ScreenName)
	assert.Equal(t, "Arrival", resp.MovieTitle)
	require.Len(t, resp.Seats, 6)

	a1 := seatState(t, resp.Seats, "A1")
	assert.Equal(t, domain.StateBooked, a1.State)
	assert.False(t, a1.Clickable)

	a3 := seatState(t, resp.Seats, "A3")
	assert.Equal(t, domain.StateAvailable, a3.State)
	assert.True(t, a3.Clickable)

	b3 := seatState(t, resp.Seats, "B3")
	assert.Equal(t, domain.StateUnavailable, b3.State)
	assert.False(t, b3.Clickable)

	// 3 of 5 sellable seats
	assert.Equal(t, 3, resp.Occupancy.Booked)
	assert.Equal(t, 5, resp.Occupancy.Capacity)
	assert.Equal(t, domain.BadgeFillingFast, resp.Occupancy.Badge)
	assert.Equal(t, "Filling fast", resp.BadgeLabel)
}

func TestGetSeatMap_InactiveShowtimeIsHidden(t *testing.T) {
	f := newReservationFixture(t)
	f.store.showtimes[f.showtime.ID].IsActive = false

	svc := NewSeatMapService(f.store.repository(), Dependencies{}, zap.NewNop())
	_, err := svc.GetSeatMap(context.Background(), f.showtime.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOpenStream_RelaysNewBookingsOnce(t *testing.T) {
	f := newReservationFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := f.svc.Commit(ctx, f.request("A1"))
	require.NoError(t, err)

	feed := &chanFeed{ch: make(chan availability.Notification, 4)}
	svc := NewSeatMapService(f.store.repository(), Dependencies{Feed: feed}, zap.NewNop())

	stream, err := svc.OpenStream(ctx, f.showtime.ID.String(), "viewer-1")
	require.NoError(t, err)
	assert.Equal(t, 1, stream.Initial.Occupancy.Booked)

	a1 := domain.SeatKey{Row: "A", Number: 1}
	a2 := domain.SeatKey{Row: "A", Number: 2}
	require.NoError(t, stream.Tracker.Select(a2))

	// A1 was already in the snapshot, A2 arrives twice
	feed.ch <- availability.Hint{ShowtimeID: f.showtime.ID, Seat: a1}
	feed.ch <- availability.Hint{ShowtimeID: f.showtime.ID, Seat: a2}
	feed.ch <- availability.Hint{ShowtimeID: f.showtime.ID, Seat: a2}

	var events []response.SeatEvent
	timeout := time.After(2 * time.Second)
	for len(events) < 2 {
		select {
		case ev := <-stream.Events:
			events = append(events, ev)
		case <-timeout:
			t.Fatalf("got %d events, want 2", len(events))
		}
	}

	assert.Equal(t, EventSeatBooked, events[0].Type)
	assert.Equal(t, a2, events[0].Seat)
	assert.Equal(t, 2, events[0].Occupancy.Booked)
	assert.Equal(t, EventSeatTaken, events[1].Type)
	assert.Equal(t, a2, events[1].Seat)

	select {
	case ev := <-stream.Events:
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	select {
	case _, ok := <-stream.Events:
		assert.False(t, ok, "events close after cancel")
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not stop")
	}
}

func TestOpenStream_WithoutFeed(t *testing.T) {
	f := newReservationFixture(t)
	svc := NewSeatMapService(f.store.repository(), Dependencies{}, zap.NewNop())

	_, err := svc.OpenStream(context.Background(), f.showtime.ID.String(), "viewer-1")
	var transient *domain.TransientError
	assert.ErrorAs(t, err, &transient)
}

func TestReplaceLayout(t *testing.T) {
	store := newMemStore()
	tenant := uuid.New()
	screen := store.addScreen(tenant, "Studio 3", 2, 2)
	svc := NewScreenService(store.repository(), zap.NewNop())
	ctx := context.Background()

	layout, err := svc.GetLayout(ctx, tenant, screen.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 4, layout.Capacity, "synthesized grid")

	off := false
	resp, err := svc.ReplaceLayout(ctx, tenant, screen.ID.String(), &request.ReplaceLayoutRequest{
		Seats: []request.LayoutSeatRequest{
			{Row: "A", SeatNumber: 1, SeatType: "regular"},
			{Row: "A", SeatNumber: 2, SeatType: "vip"},
			{Row: "B", SeatNumber: 1, SeatType: "regular", IsAvailable: &off},
			{Row: "B", SeatNumber: 2, SeatType: "unavailable"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Capacity)
	assert.Len(t, resp.Seats, 4)

	stored, err := store.repository().SeatLayout.FindByScreenID(ctx, screen.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 4)

	_, err = svc.ReplaceLayout(ctx, tenant, screen.ID.String(), &request.ReplaceLayoutRequest{
		Seats: []request.LayoutSeatRequest{
			{Row: "A", SeatNumber: 1, SeatType: "regular"},
			{Row: "A", SeatNumber: 1, SeatType: "vip"},
		},
	})
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.GetLayout(ctx, uuid.New(), screen.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
