package repository

import (
	"context"
	"fmt"

	"screen-star/internal/data/entity"
	"screen-star/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookedSeatRepository interface {
	FindByShowtimeID(ctx context.Context, showtimeID uuid.UUID) ([]*entity.BookedSeat, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookedSeat, error)
	// CountByShowtimeIDs returns booked seat counts keyed by showtime; a
	// showtime with no bookings is absent from the map.
	CountByShowtimeIDs(ctx context.Context, showtimeIDs []uuid.UUID) (map[uuid.UUID]int, error)
}

type bookedSeatRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookedSeatRepository(db database.PgxIface, log *zap.Logger) BookedSeatRepository {
	return &bookedSeatRepository{
		db:  db,
		log: log.With(zap.String("repository", "booked_seat")),
	}
}

func (r *bookedSeatRepository) find(ctx context.Context, where string, arg any) ([]*entity.BookedSeat, error) {
	query := `
		SELECT id, booking_id, showtime_id, row_label, seat_number, seat_type, price, created_at
		FROM booked_seats
		WHERE ` + where + `
		ORDER BY showtime_id, length(row_label), row_label, seat_number
	`

	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []*entity.BookedSeat
	for rows.Next() {
		var seat entity.BookedSeat
		err := rows.Scan(
			&seat.ID,
			&seat.BookingID,
			&seat.ShowtimeID,
			&seat.RowLabel,
			&seat.SeatNumber,
			&seat.SeatType,
			&seat.Price,
			&seat.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan booked seat row", zap.Error(err))
			return nil, fmt.Errorf("scan booked seat row: %w", err)
		}
		seats = append(seats, &seat)
	}

	return seats, rows.Err()
}

func (r *bookedSeatRepository) FindByShowtimeID(ctx context.Context, showtimeID uuid.UUID) ([]*entity.BookedSeat, error) {
	seats, err := r.find(ctx, "showtime_id = $1", showtimeID)
	if err != nil {
		r.log.Error("Failed to find booked seats by showtime",
			zap.Error(err),
			zap.String("showtime_id", showtimeID.String()),
		)
		return nil, fmt.Errorf("find booked seats for showtime %s: %w", showtimeID.String(), err)
	}
	return seats, nil
}

func (r *bookedSeatRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookedSeat, error) {
	seats, err := r.find(ctx, "booking_id = $1", bookingID)
	if err != nil {
		r.log.Error("Failed to find booked seats by booking",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find booked seats for booking %s: %w", bookingID.String(), err)
	}
	return seats, nil
}

func (r *bookedSeatRepository) CountByShowtimeIDs(ctx context.Context, showtimeIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(showtimeIDs))
	if len(showtimeIDs) == 0 {
		return counts, nil
	}

	query := `
		SELECT showtime_id, COUNT(*)
		FROM booked_seats
		WHERE showtime_id = ANY($1)
		GROUP BY showtime_id
	`

	rows, err := r.db.Query(ctx, query, showtimeIDs)
	if err != nil {
		r.log.Error("Failed to count booked seats", zap.Error(err), zap.Int("showtimes", len(showtimeIDs)))
		return nil, fmt.Errorf("count booked seats for %d showtimes: %w", len(showtimeIDs), err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan booked seat count: %w", err)
		}
		counts[id] = n
	}

	return counts, rows.Err()
}
