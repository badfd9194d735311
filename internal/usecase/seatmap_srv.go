package usecase

import (
	"context"
	"fmt"

	"screen-star/internal/availability"
	"screen-star/internal/data/entity"
	"screen-star/internal/data/repository"
	"screen-star/internal/domain"
	"screen-star/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	EventSeatBooked = "seat_booked"
	EventSeatTaken  = "seat_taken"
)

type SeatMapService interface {
	GetSeatMap(ctx context.Context, showtimeID string) (*response.SeatMapResponse, error)
	// OpenStream subscribes to booked-seat changes for a showtime. Events
	// stops when ctx is cancelled.
	OpenStream(ctx context.Context, showtimeID, viewerID string) (*SeatStream, error)
}

// SeatStream is a seat map snapshot followed by the changes after it.
type SeatStream struct {
	Initial *response.SeatMapResponse
	Events  <-chan response.SeatEvent
	Tracker *availability.Tracker
}

type seatMapService struct {
	repo *repository.Repository
	deps Dependencies
	log  *zap.Logger
}

func NewSeatMapService(repo *repository.Repository, deps Dependencies, log *zap.Logger) SeatMapService {
	return &seatMapService{
		repo: repo,
		deps: deps.withDefaults(),
		log:  log.With(zap.String("service", "seatmap")),
	}
}

// showtimeView is everything needed to render one showtime's seats.
type showtimeView struct {
	showtime *entity.ShowtimeWithMovie
	screen   *entity.Screen
	seatMap  *domain.SeatMap
}

func (s *seatMapService) load(ctx context.Context, showtimeID string) (*showtimeView, error) {
	id, err := parseID("showtime_id", showtimeID)
	if err != nil {
		return nil, err
	}

	showtime, err := s.repo.Showtime.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("find showtime", err)
	}
	if showtime == nil || !showtime.IsActive {
		return nil, fmt.Errorf("showtime %s: %w", showtimeID, domain.ErrNotFound)
	}

	screen, seatMap, err := loadSeatMap(ctx, s.repo, showtime.ScreenID)
	if err != nil {
		return nil, err
	}

	return &showtimeView{showtime: showtime, screen: screen, seatMap: seatMap}, nil
}

func (s *seatMapService) GetSeatMap(ctx context.Context, showtimeID string) (*response.SeatMapResponse, error) {
	v, err := s.load(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	booked, err := s.repo.BookedSeat.FindByShowtimeID(ctx, v.showtime.ID)
	if err != nil {
		return nil, storeError("find booked seats", err)
	}

	tracker := availability.NewTracker(v.seatMap, availability.NewSession("", v.showtime.ID))
	tracker.Seed(entity.BookedKeys(booked))

	return v.response(tracker.Snapshot()), nil
}

func (s *seatMapService) OpenStream(ctx context.Context, showtimeID, viewerID string) (*SeatStream, error) {
	if s.deps.Feed == nil {
		return nil, domain.Transient("open seat stream", fmt.Errorf("change feed is not configured"))
	}

	v, err := s.load(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	// Subscribe before reading the snapshot so nothing booked in between is
	// missed; anything seen twice is merged away by the tracker.
	feed, err := s.deps.Feed.BookedSeats(ctx, v.showtime.ID)
	if err != nil {
		return nil, domain.Transient("subscribe to seat changes", err)
	}

	booked, err := s.repo.BookedSeat.FindByShowtimeID(ctx, v.showtime.ID)
	if err != nil {
		return nil, storeError("find booked seats", err)
	}

	tracker := availability.NewTracker(v.seatMap, availability.NewSession(viewerID, v.showtime.ID))
	tracker.Seed(entity.BookedKeys(booked))

	events := make(chan response.SeatEvent, 16)
	go func() {
		defer close(events)

		err := tracker.Run(ctx, feed, func(n availability.Notification, notices []availability.TakenNotice) {
			for _, ev := range seatEvents(n, notices, tracker.Occupancy()) {
				select {
				case events <- ev:
				case <-ctx.Done():
					return
				}
			}
		})
		if err != nil && ctx.Err() == nil {
			s.log.Warn("Seat stream stopped", zap.String("showtime_id", showtimeID), zap.Error(err))
		}
	}()

	s.log.Debug("Seat stream opened",
		zap.String("showtime_id", showtimeID),
		zap.String("viewer_id", viewerID),
	)

	return &SeatStream{
		Initial: v.response(tracker.Snapshot()),
		Events:  events,
		Tracker: tracker,
	}, nil
}

func seatEvents(n availability.Notification, notices []availability.TakenNotice, occupancy domain.Occupancy) []response.SeatEvent {
	var events []response.SeatEvent
	switch n := n.(type) {
	case availability.Hint:
		events = append(events, response.SeatEvent{
			Type:      EventSeatBooked,
			Seat:      n.Seat,
			BookingID: bookingID(n.BookingID),
			Occupancy: occupancy,
		})
	case availability.AuthoritativeWrite:
		for _, k := range n.Seats {
			events = append(events, response.SeatEvent{
				Type:      EventSeatBooked,
				Seat:      k,
				BookingID: bookingID(n.BookingID),
				Occupancy: occupancy,
			})
		}
	}
	for _, notice := range notices {
		events = append(events, response.SeatEvent{
			Type:      EventSeatTaken,
			Seat:      notice.Seat,
			Occupancy: occupancy,
		})
	}
	return events
}

func bookingID(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}

func (v *showtimeView) response(view availability.View) *response.SeatMapResponse {
	return &response.SeatMapResponse{
		ShowtimeID: v.showtime.ID.String(),
		ScreenID:   v.screen.ID.String(),
		ScreenName: v.screen.Name,
		MovieTitle: v.showtime.MovieTitle,
		StartTime:  v.showtime.StartTime,
		Rows:       v.seatMap.Rows,
		Columns:    v.seatMap.Columns,
		Price:      v.showtime.SeatPrice(domain.SeatRegular),
		VIPPrice:   v.showtime.SeatPrice(domain.SeatVIP),
		Seats:      view.Seats,
		Occupancy:  view.Occupancy,
		BadgeLabel: view.Occupancy.Badge.Label(),
	}
}

// loadSeatMap reads a screen and its layout.
func loadSeatMap(ctx context.Context, repo *repository.Repository, screenID uuid.UUID) (*entity.Screen, *domain.SeatMap, error) {
	screen, err := repo.Screen.FindByID(ctx, screenID)
	if err != nil {
		return nil, nil, storeError("find screen", err)
	}
	if screen == nil {
		return nil, nil, fmt.Errorf("screen %s: %w", screenID.String(), domain.ErrNotFound)
	}

	rows, err := repo.SeatLayout.FindByScreenID(ctx, screenID)
	if err != nil {
		return nil, nil, storeError("find seat layout", err)
	}

	layout := make([]entity.SeatLayout, len(rows))
	for i, r := range rows {
		layout[i] = *r
	}

	return screen, domain.NewSeatMap(screen.RowCount, screen.ColumnCount, entity.ToLayoutSeats(layout)), nil
}
