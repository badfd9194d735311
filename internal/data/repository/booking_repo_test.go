package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"screen-star/internal/data/entity"
	"screen-star/internal/domain"
	"screen-star/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeDB hands out a single scripted transaction. Methods the booking
// commit does not touch panic through the nil embedded interfaces.
type fakeDB struct {
	database.PgxIface
	tx *fakeTx
}

func (d *fakeDB) Begin(context.Context) (pgx.Tx, error) { return d.tx, nil }

type fakeTx struct {
	pgx.Tx
	returned   []domain.SeatKey
	queryErr   error
	committed  bool
	rolledBack bool
}

func (tx *fakeTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (tx *fakeTx) Query(context.Context, string, ...any) (pgx.Rows, error) {
	if tx.queryErr != nil {
		return nil, tx.queryErr
	}
	return &fakeRows{keys: tx.returned, pos: -1}, nil
}

func (tx *fakeTx) Commit(context.Context) error {
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback(context.Context) error {
	if !tx.committed {
		tx.rolledBack = true
	}
	return nil
}

type fakeRows struct {
	pgx.Rows
	keys []domain.SeatKey
	pos  int
}

func (r *fakeRows) Next() bool {
	r.pos++
	return r.pos < len(r.keys)
}

func (r *fakeRows) Scan(dest ...any) error {
	*dest[0].(*string) = r.keys[r.pos].Row
	*dest[1].(*int) = r.keys[r.pos].Number
	return nil
}

func (r *fakeRows) Close()     {}
func (r *fakeRows) Err() error { return nil }

func bookingFixture(keys ...domain.SeatKey) (*entity.Booking, []*entity.BookedSeat) {
	now := time.Date(2030, 3, 1, 12, 0, 0, 0, time.UTC)
	booking := &entity.Booking{
		BaseNoDelete: entity.NewBaseNoDelete(now),
		TenantID:     uuid.New(),
		ShowtimeID:   uuid.New(),
		Reference:    "BK-20300301-ABC123",
		TotalAmount:  decimal.NewFromInt(100000),
		Status:       entity.BookingStatusConfirmed,
	}
	seats := make([]*entity.BookedSeat, 0, len(keys))
	for _, k := range keys {
		seats = append(seats, &entity.BookedSeat{
			BaseSimple: entity.NewBaseSimple(now),
			RowLabel:   k.Row,
			SeatNumber: k.Number,
			SeatType:   domain.SeatRegular,
			Price:      decimal.NewFromInt(50000),
		})
	}
	return booking, seats
}

var (
	seatA1 = domain.SeatKey{Row: "A", Number: 1}
	seatA2 = domain.SeatKey{Row: "A", Number: 2}
	seatB3 = domain.SeatKey{Row: "B", Number: 3}
)

func TestBookingCommit_AllSeatsInserted(t *testing.T) {
	tx := &fakeTx{returned: []domain.SeatKey{seatA1, seatA2}}
	repo := NewBookingRepository(&fakeDB{tx: tx}, zap.NewNop())
	booking, seats := bookingFixture(seatA1, seatA2)

	err := repo.Commit(context.Background(), booking, seats)

	require.NoError(t, err)
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
}

func TestBookingCommit_FewerRowsReturnedRollsBack(t *testing.T) {
	// A2 and B3 lost the race and were skipped by ON CONFLICT DO NOTHING
	tx := &fakeTx{returned: []domain.SeatKey{seatA1}}
	repo := NewBookingRepository(&fakeDB{tx: tx}, zap.NewNop())
	booking, seats := bookingFixture(seatB3, seatA1, seatA2)

	err := repo.Commit(context.Background(), booking, seats)

	var unavailable *domain.SeatUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, booking.ShowtimeID, unavailable.ShowtimeID)
	assert.Equal(t, []domain.SeatKey{seatA2, seatB3}, unavailable.Seats)
	assert.False(t, tx.committed, "a partial booking must never be committed")
	assert.True(t, tx.rolledBack)
}

func TestBookingCommit_NoRowsReturned(t *testing.T) {
	tx := &fakeTx{}
	repo := NewBookingRepository(&fakeDB{tx: tx}, zap.NewNop())
	booking, seats := bookingFixture(seatA1)

	err := repo.Commit(context.Background(), booking, seats)

	var unavailable *domain.SeatUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, []domain.SeatKey{seatA1}, unavailable.Seats)
	assert.False(t, tx.committed)
}

func TestBookingCommit_UniqueViolationOnInsert(t *testing.T) {
	tx := &fakeTx{queryErr: &pgconn.PgError{Code: "23505"}}
	repo := NewBookingRepository(&fakeDB{tx: tx}, zap.NewNop())
	booking, seats := bookingFixture(seatA1, seatA2)

	err := repo.Commit(context.Background(), booking, seats)

	var unavailable *domain.SeatUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.ElementsMatch(t, []domain.SeatKey{seatA1, seatA2}, unavailable.Seats)
	assert.False(t, tx.committed)
}

func TestBookingCommit_StoreErrorIsNotASeatConflict(t *testing.T) {
	tx := &fakeTx{queryErr: errors.New("connection reset")}
	repo := NewBookingRepository(&fakeDB{tx: tx}, zap.NewNop())
	booking, seats := bookingFixture(seatA1)

	err := repo.Commit(context.Background(), booking, seats)

	require.Error(t, err)
	var unavailable *domain.SeatUnavailableError
	assert.False(t, errors.As(err, &unavailable))
	assert.False(t, tx.committed)
}
