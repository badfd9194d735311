package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// Deactivator switches off showtimes whose screening and turnover are over.
type Deactivator interface {
	DeactivateEnded(ctx context.Context) (int64, error)
}

type Housekeeping struct {
	scheduler gocron.Scheduler
	log       *zap.Logger
}

// NewHousekeeping registers the deactivation job. Nothing runs until Run.
func NewHousekeeping(showtimes Deactivator, interval time.Duration, log *zap.Logger) (*Housekeeping, error) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	h := &Housekeeping{scheduler: s, log: log.With(zap.String("component", "housekeeping"))}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(h.deactivateEnded, showtimes),
		gocron.WithName("deactivate-ended-showtimes"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return nil, fmt.Errorf("register deactivation job: %w", err)
	}

	return h, nil
}

// deactivateEnded takes the job context gocron cancels on shutdown.
func (h *Housekeeping) deactivateEnded(ctx context.Context, showtimes Deactivator) {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	n, err := showtimes.DeactivateEnded(ctx)
	if err != nil {
		h.log.Error("Failed to deactivate ended showtimes", zap.Error(err))
		return
	}
	h.log.Debug("Housekeeping pass done", zap.Int64("deactivated", n))
}

// Run starts the scheduler and blocks until ctx is done.
func (h *Housekeeping) Run(ctx context.Context) error {
	h.scheduler.Start()
	h.log.Info("Housekeeping scheduler started")

	<-ctx.Done()

	if err := h.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("shutdown scheduler: %w", err)
	}
	h.log.Info("Housekeeping scheduler stopped")
	return nil
}
