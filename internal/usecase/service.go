package usecase

import (
	"context"
	"time"

	"screen-star/internal/availability"
	"screen-star/internal/changefeed"
	"screen-star/internal/data/entity"
	"screen-star/internal/data/repository"
	"screen-star/internal/integration"
	"screen-star/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChangePublisher announces row changes to other processes.
type ChangePublisher interface {
	PublishBookedSeats(ctx context.Context, seats []*entity.BookedSeat) error
	PublishShowtimes(ctx context.Context, op changefeed.Op, showtimes []*entity.Showtime) error
}

// SeatFeed streams booked-seat hints for one showtime.
type SeatFeed interface {
	BookedSeats(ctx context.Context, showtimeID uuid.UUID) (<-chan availability.Notification, error)
}

// Dependencies are the collaborators beyond the database. Nil fields fall
// back to no-op or in-process implementations.
type Dependencies struct {
	Changes ChangePublisher
	Feed    SeatFeed
	Events  integration.EventPublisher
	Guard   CommitGuard
	Now     func() time.Time
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Changes == nil {
		d.Changes = nopChanges{}
	}
	if d.Events == nil {
		d.Events = integration.NopPublisher{}
	}
	if d.Guard == nil {
		d.Guard = NewLocalCommitGuard()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

type Service struct {
	Schedule    ScheduleService
	SeatMap     SeatMapService
	Reservation ReservationService
	Screen      ScreenService
}

func NewService(repo *repository.Repository, deps Dependencies, config *utils.Config, log *zap.Logger) *Service {
	deps = deps.withDefaults()
	return &Service{
		Schedule:    NewScheduleService(repo, deps, config.Schedule, log),
		SeatMap:     NewSeatMapService(repo, deps, log),
		Reservation: NewReservationService(repo, deps, log),
		Screen:      NewScreenService(repo, log),
	}
}

type nopChanges struct{}

func (nopChanges) PublishBookedSeats(context.Context, []*entity.BookedSeat) error { return nil }
func (nopChanges) PublishShowtimes(context.Context, changefeed.Op, []*entity.Showtime) error {
	return nil
}
