package repository

import (
	"context"
	"fmt"

	"screen-star/internal/data/entity"
	"screen-star/internal/domain"
	"screen-star/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	// Commit writes the booking and its seats atomically. When any seat is
	// already booked for the showtime nothing is written and a
	// *domain.SeatUnavailableError names the seats that collided.
	Commit(ctx context.Context, booking *entity.Booking, seats []*entity.BookedSeat) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

func (r *bookingRepository) Commit(ctx context.Context, booking *entity.Booking, seats []*entity.BookedSeat) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin booking tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	bookingQuery := `
		INSERT INTO bookings (id, tenant_id, showtime_id, reference, customer_name, customer_email, customer_phone,
			total_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = tx.Exec(ctx, bookingQuery,
		booking.ID,
		booking.TenantID,
		booking.ShowtimeID,
		booking.Reference,
		booking.CustomerName,
		booking.CustomerEmail,
		booking.CustomerPhone,
		booking.TotalAmount,
		string(booking.Status),
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("showtime_id", booking.ShowtimeID.String()),
			zap.String("reference", booking.Reference),
		)
		return fmt.Errorf("create booking %s: %w", booking.Reference, err)
	}

	// Rows that lose the race on the unique key are skipped, not raised, so
	// the RETURNING set tells exactly which seats were free.
	seatQuery := `INSERT INTO booked_seats (id, booking_id, showtime_id, row_label, seat_number, seat_type, price, created_at) VALUES `
	args := make([]any, 0, len(seats)*8)
	for i, seat := range seats {
		if i > 0 {
			seatQuery += ", "
		}
		seatQuery += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			i*8+1, i*8+2, i*8+3, i*8+4, i*8+5, i*8+6, i*8+7, i*8+8)

		args = append(args,
			seat.ID,
			booking.ID,
			booking.ShowtimeID,
			seat.RowLabel,
			seat.SeatNumber,
			string(seat.SeatType),
			seat.Price,
			seat.CreatedAt,
		)
	}
	seatQuery += ` ON CONFLICT ON CONSTRAINT booked_seats_showtime_seat_key DO NOTHING RETURNING row_label, seat_number`

	rows, err := tx.Query(ctx, seatQuery, args...)
	if err != nil {
		return r.seatInsertError(booking, seats, err)
	}

	inserted := domain.NewSeatSet()
	for rows.Next() {
		var k domain.SeatKey
		if err := rows.Scan(&k.Row, &k.Number); err != nil {
			rows.Close()
			return fmt.Errorf("scan booked seat: %w", err)
		}
		inserted.Add(k)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return r.seatInsertError(booking, seats, err)
	}

	// Any requested seat missing from RETURNING was already booked; the
	// deferred rollback discards the booking row and the seats that did land.
	if inserted.Len() < len(seats) {
		taken := make([]domain.SeatKey, 0, len(seats)-inserted.Len())
		for _, seat := range seats {
			if !inserted.Has(seat.Key()) {
				taken = append(taken, seat.Key())
			}
		}
		domain.SortSeatKeys(taken)
		return &domain.SeatUnavailableError{ShowtimeID: booking.ShowtimeID, Seats: taken}
	}

	if err := tx.Commit(ctx); err != nil {
		if database.IsUniqueViolation(err) {
			return &domain.SeatUnavailableError{ShowtimeID: booking.ShowtimeID, Seats: entity.BookedKeys(seats)}
		}
		return fmt.Errorf("commit booking %s: %w", booking.Reference, err)
	}

	return nil
}

func (r *bookingRepository) seatInsertError(booking *entity.Booking, seats []*entity.BookedSeat, err error) error {
	if database.IsUniqueViolation(err) {
		return &domain.SeatUnavailableError{ShowtimeID: booking.ShowtimeID, Seats: entity.BookedKeys(seats)}
	}
	r.log.Error("Failed to insert booked seats",
		zap.Error(err),
		zap.String("booking_id", booking.ID.String()),
		zap.Int("count", len(seats)),
	)
	return fmt.Errorf("insert booked seats for booking %s: %w", booking.ID.String(), err)
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `
		SELECT id, tenant_id, showtime_id, reference, customer_name, customer_email, customer_phone,
			total_amount, status, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`

	var booking entity.Booking
	err := r.db.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.TenantID,
		&booking.ShowtimeID,
		&booking.Reference,
		&booking.CustomerName,
		&booking.CustomerEmail,
		&booking.CustomerPhone,
		&booking.TotalAmount,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return &booking, nil
}
