package repository

import (
	"context"
	"fmt"

	"screen-star/internal/data/entity"
	"screen-star/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SeatLayoutRepository interface {
	FindByScreenID(ctx context.Context, screenID uuid.UUID) ([]*entity.SeatLayout, error)
	// ReplaceForScreen swaps the whole layout of a screen in one transaction.
	ReplaceForScreen(ctx context.Context, screenID uuid.UUID, seats []*entity.SeatLayout) error
}

type seatLayoutRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSeatLayoutRepository(db database.PgxIface, log *zap.Logger) SeatLayoutRepository {
	return &seatLayoutRepository{
		db:  db,
		log: log.With(zap.String("repository", "seat_layout")),
	}
}

func (r *seatLayoutRepository) FindByScreenID(ctx context.Context, screenID uuid.UUID) ([]*entity.SeatLayout, error) {
	query := `
		SELECT id, screen_id, row_label, seat_number, seat_type, is_available, created_at
		FROM seat_layouts
		WHERE screen_id = $1
		ORDER BY length(row_label), row_label, seat_number
	`

	rows, err := r.db.Query(ctx, query, screenID)
	if err != nil {
		r.log.Error("Failed to find seat layout by screen ID",
			zap.Error(err),
			zap.String("screen_id", screenID.String()),
		)
		return nil, fmt.Errorf("find seat layout by screen ID %s: %w", screenID.String(), err)
	}
	defer rows.Close()

	var seats []*entity.SeatLayout
	for rows.Next() {
		var seat entity.SeatLayout
		err := rows.Scan(
			&seat.ID,
			&seat.ScreenID,
			&seat.RowLabel,
			&seat.SeatNumber,
			&seat.SeatType,
			&seat.IsAvailable,
			&seat.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan seat layout row", zap.Error(err))
			return nil, fmt.Errorf("scan seat layout row: %w", err)
		}
		seats = append(seats, &seat)
	}

	return seats, rows.Err()
}

func (r *seatLayoutRepository) ReplaceForScreen(ctx context.Context, screenID uuid.UUID, seats []*entity.SeatLayout) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin layout tx for screen %s: %w", screenID.String(), err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM seat_layouts WHERE screen_id = $1`, screenID); err != nil {
		r.log.Error("Failed to clear seat layout", zap.Error(err), zap.String("screen_id", screenID.String()))
		return fmt.Errorf("clear seat layout for screen %s: %w", screenID.String(), err)
	}

	if len(seats) > 0 {
		query := `INSERT INTO seat_layouts (id, screen_id, row_label, seat_number, seat_type, is_available, created_at) VALUES `
		args := make([]any, 0, len(seats)*7)

		for i, seat := range seats {
			if i > 0 {
				query += ", "
			}
			query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
				i*7+1, i*7+2, i*7+3, i*7+4, i*7+5, i*7+6, i*7+7)

			args = append(args,
				seat.ID,
				screenID,
				seat.RowLabel,
				seat.SeatNumber,
				string(seat.SeatType),
				seat.IsAvailable,
				seat.CreatedAt,
			)
		}

		if _, err := tx.Exec(ctx, query, args...); err != nil {
			r.log.Error("Failed to insert seat layout",
				zap.Error(err),
				zap.String("screen_id", screenID.String()),
				zap.Int("count", len(seats)),
			)
			return fmt.Errorf("insert seat layout for screen %s: %w", screenID.String(), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit layout for screen %s: %w", screenID.String(), err)
	}

	r.log.Info("Seat layout replaced",
		zap.String("screen_id", screenID.String()),
		zap.Int("seats", len(seats)),
	)
	return nil
}
