package repository

import (
	"context"
	"fmt"
	"time"

	"screen-star/internal/data/entity"
	"screen-star/internal/domain"
	"screen-star/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// showtimeBatchSize keeps a multi-row insert under Postgres' 65535 bind
// parameter limit.
const showtimeBatchSize = 1000

type ShowtimeRepository interface {
	// CreateBatch inserts every showtime or none of them.
	CreateBatch(ctx context.Context, showtimes []*entity.Showtime) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ShowtimeWithMovie, error)
	// FindActiveOverlapping returns active showtimes on the screen whose
	// buffered interval may intersect [from, to).
	FindActiveOverlapping(ctx context.Context, screenID uuid.UUID, from, to time.Time, buffer time.Duration) ([]*entity.ShowtimeWithMovie, error)
	FindActiveByMovieID(ctx context.Context, movieID uuid.UUID, from time.Time) ([]*entity.ShowtimeWithMovie, error)
	FindByScreenID(ctx context.Context, screenID uuid.UUID, filter ShowtimeFilter, offset, limit int) ([]*entity.ShowtimeWithMovie, error)
	CountByScreenID(ctx context.Context, screenID uuid.UUID, filter ShowtimeFilter) (int64, error)
	Update(ctx context.Context, showtime *entity.Showtime) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeactivateEnded switches off active showtimes whose buffered interval
	// ended before now.
	DeactivateEnded(ctx context.Context, now time.Time, buffer time.Duration) (int64, error)
}

type showtimeRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewShowtimeRepository(db database.PgxIface, log *zap.Logger) ShowtimeRepository {
	return &showtimeRepository{
		db:  db,
		log: log.With(zap.String("repository", "showtime")),
	}
}

const showtimeColumns = `
	s.id, s.tenant_id, s.movie_id, s.screen_id, s.start_time, s.price, s.vip_price, s.is_active,
	s.created_at, s.updated_at, m.title, m.duration_minutes`

func scanShowtime(row pgx.Row, s *entity.ShowtimeWithMovie) error {
	return row.Scan(
		&s.ID,
		&s.TenantID,
		&s.MovieID,
		&s.ScreenID,
		&s.StartTime,
		&s.Price,
		&s.VIPPrice,
		&s.IsActive,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.MovieTitle,
		&s.DurationMinutes,
	)
}

func (r *showtimeRepository) collect(rows pgx.Rows) ([]*entity.ShowtimeWithMovie, error) {
	defer rows.Close()

	var showtimes []*entity.ShowtimeWithMovie
	for rows.Next() {
		var s entity.ShowtimeWithMovie
		if err := scanShowtime(rows, &s); err != nil {
			r.log.Error("Failed to scan showtime row", zap.Error(err))
			return nil, fmt.Errorf("scan showtime row: %w", err)
		}
		showtimes = append(showtimes, &s)
	}

	return showtimes, rows.Err()
}

func (r *showtimeRepository) CreateBatch(ctx context.Context, showtimes []*entity.Showtime) error {
	if len(showtimes) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin showtime batch: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for start := 0; start < len(showtimes); start += showtimeBatchSize {
		end := min(start+showtimeBatchSize, len(showtimes))
		chunk := showtimes[start:end]

		query := `INSERT INTO showtimes (id, tenant_id, movie_id, screen_id, start_time, price, vip_price, is_active, created_at, updated_at) VALUES `
		args := make([]any, 0, len(chunk)*10)

		for i, s := range chunk {
			if i > 0 {
				query += ", "
			}
			query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
				i*10+1, i*10+2, i*10+3, i*10+4, i*10+5, i*10+6, i*10+7, i*10+8, i*10+9, i*10+10)

			args = append(args,
				s.ID,
				s.TenantID,
				s.MovieID,
				s.ScreenID,
				s.StartTime,
				s.Price,
				s.VIPPrice,
				s.IsActive,
				s.CreatedAt,
				s.UpdatedAt,
			)
		}

		if _, err := tx.Exec(ctx, query, args...); err != nil {
			r.log.Error("Failed to insert showtime batch",
				zap.Error(err),
				zap.String("screen_id", chunk[0].ScreenID.String()),
				zap.Int("count", len(chunk)),
			)
			return fmt.Errorf("insert showtimes for screen %s: %w", chunk[0].ScreenID.String(), err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit showtime batch: %w", err)
	}

	r.log.Info("Showtimes created",
		zap.String("screen_id", showtimes[0].ScreenID.String()),
		zap.String("movie_id", showtimes[0].MovieID.String()),
		zap.Int("count", len(showtimes)),
	)
	return nil
}

func (r *showtimeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ShowtimeWithMovie, error) {
	query := `SELECT ` + showtimeColumns + `
		FROM showtimes s
		JOIN movies m ON m.id = s.movie_id
		WHERE s.id = $1
	`

	var s entity.ShowtimeWithMovie
	err := scanShowtime(r.db.QueryRow(ctx, query, id), &s)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find showtime by ID",
			zap.Error(err),
			zap.String("showtime_id", id.String()),
		)
		return nil, fmt.Errorf("find showtime by ID %s: %w", id.String(), err)
	}

	return &s, nil
}

func (r *showtimeRepository) FindActiveOverlapping(ctx context.Context, screenID uuid.UUID, from, to time.Time, buffer time.Duration) ([]*entity.ShowtimeWithMovie, error) {
	query := `SELECT ` + showtimeColumns + `
		FROM showtimes s
		JOIN movies m ON m.id = s.movie_id
		WHERE s.screen_id = $1
		  AND s.is_active
		  AND s.start_time < $3
		  AND s.start_time + make_interval(mins => m.duration_minutes + $4) > $2
		ORDER BY s.start_time
	`

	rows, err := r.db.Query(ctx, query, screenID, from, to, int(buffer/time.Minute))
	if err != nil {
		r.log.Error("Failed to find overlapping showtimes",
			zap.Error(err),
			zap.String("screen_id", screenID.String()),
			zap.Time("from", from),
			zap.Time("to", to),
		)
		return nil, fmt.Errorf("find showtimes on screen %s between %s and %s: %w",
			screenID.String(), from.Format(time.RFC3339), to.Format(time.RFC3339), err)
	}

	return r.collect(rows)
}

func (r *showtimeRepository) FindActiveByMovieID(ctx context.Context, movieID uuid.UUID, from time.Time) ([]*entity.ShowtimeWithMovie, error) {
	query := `SELECT ` + showtimeColumns + `
		FROM showtimes s
		JOIN movies m ON m.id = s.movie_id
		WHERE s.movie_id = $1 AND s.is_active AND s.start_time > $2
		ORDER BY s.start_time
	`

	rows, err := r.db.Query(ctx, query, movieID, from)
	if err != nil {
		r.log.Error("Failed to find showtimes by movie ID",
			zap.Error(err),
			zap.String("movie_id", movieID.String()),
		)
		return nil, fmt.Errorf("find showtimes by movie ID %s: %w", movieID.String(), err)
	}

	return r.collect(rows)
}

// ShowtimeFilter narrows a screen listing. Zero values match everything.
type ShowtimeFilter struct {
	From       *time.Time
	ActiveOnly bool
}

// where renders the filter after "s.screen_id = $1", numbering from $2.
func (f ShowtimeFilter) where(args []any) (string, []any) {
	clause := ""
	if f.From != nil {
		args = append(args, *f.From)
		clause += fmt.Sprintf(" AND s.start_time >= $%d", len(args))
	}
	if f.ActiveOnly {
		clause += " AND s.is_active"
	}
	return clause, args
}

func (r *showtimeRepository) FindByScreenID(ctx context.Context, screenID uuid.UUID, filter ShowtimeFilter, offset, limit int) ([]*entity.ShowtimeWithMovie, error) {
	clause, args := filter.where([]any{screenID})
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT `+showtimeColumns+`
		FROM showtimes s
		JOIN movies m ON m.id = s.movie_id
		WHERE s.screen_id = $1%s
		ORDER BY s.start_time DESC
		LIMIT $%d OFFSET $%d
	`, clause, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find showtimes by screen ID",
			zap.Error(err),
			zap.String("screen_id", screenID.String()),
		)
		return nil, fmt.Errorf("find showtimes by screen ID %s: %w", screenID.String(), err)
	}

	return r.collect(rows)
}

func (r *showtimeRepository) CountByScreenID(ctx context.Context, screenID uuid.UUID, filter ShowtimeFilter) (int64, error) {
	clause, args := filter.where([]any{screenID})
	query := `SELECT COUNT(*) FROM showtimes s WHERE s.screen_id = $1` + clause

	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count showtimes", zap.Error(err), zap.String("screen_id", screenID.String()))
		return 0, fmt.Errorf("count showtimes for screen %s: %w", screenID.String(), err)
	}

	return total, nil
}

func (r *showtimeRepository) Update(ctx context.Context, showtime *entity.Showtime) error {
	query := `
		UPDATE showtimes
		SET start_time = $2, price = $3, vip_price = $4, is_active = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		showtime.ID,
		showtime.StartTime,
		showtime.Price,
		showtime.VIPPrice,
		showtime.IsActive,
		showtime.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update showtime",
			zap.Error(err),
			zap.String("showtime_id", showtime.ID.String()),
		)
		return fmt.Errorf("update showtime %s: %w", showtime.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("showtime %s: %w", showtime.ID.String(), domain.ErrNotFound)
	}

	return nil
}

func (r *showtimeRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE showtimes SET is_active = $2, updated_at = now() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, active)
	if err != nil {
		r.log.Error("Failed to set showtime active flag",
			zap.Error(err),
			zap.String("showtime_id", id.String()),
			zap.Bool("active", active),
		)
		return fmt.Errorf("set showtime %s active=%t: %w", id.String(), active, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("showtime %s: %w", id.String(), domain.ErrNotFound)
	}

	return nil
}

func (r *showtimeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM showtimes WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if database.IsForeignKeyViolation(err) {
		return fmt.Errorf("delete showtime %s: %w", id.String(), domain.ErrShowtimeHasBookings)
	}
	if err != nil {
		r.log.Error("Failed to delete showtime",
			zap.Error(err),
			zap.String("showtime_id", id.String()),
		)
		return fmt.Errorf("delete showtime %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("showtime %s: %w", id.String(), domain.ErrNotFound)
	}

	r.log.Info("Showtime deleted", zap.String("showtime_id", id.String()))
	return nil
}

func (r *showtimeRepository) DeactivateEnded(ctx context.Context, now time.Time, buffer time.Duration) (int64, error) {
	query := `
		UPDATE showtimes s
		SET is_active = false, updated_at = now()
		FROM movies m
		WHERE m.id = s.movie_id
		  AND s.is_active
		  AND s.start_time + make_interval(mins => m.duration_minutes + $2) <= $1
	`

	result, err := r.db.Exec(ctx, query, now, int(buffer/time.Minute))
	if err != nil {
		r.log.Error("Failed to deactivate ended showtimes", zap.Error(err))
		return 0, fmt.Errorf("deactivate showtimes ended before %s: %w", now.Format(time.RFC3339), err)
	}

	return result.RowsAffected(), nil
}
