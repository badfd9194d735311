package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"screen-star/internal/data/entity"
	"screen-star/internal/data/repository"
	"screen-star/internal/domain"

	"github.com/google/uuid"
)

// memStore backs every repository with maps. Booked seats are unique per
// showtime the way the database constraint makes them.
type memStore struct {
	mu        sync.Mutex
	screens   map[uuid.UUID]*entity.Screen
	layouts   map[uuid.UUID][]*entity.SeatLayout
	movies    map[uuid.UUID]*entity.Movie
	showtimes map[uuid.UUID]*entity.Showtime
	bookings  map[uuid.UUID]*entity.Booking
	seats     []*entity.BookedSeat

	// commitGate, when set, runs inside Commit before the uniqueness check.
	commitGate func()
}

func newMemStore() *memStore {
	return &memStore{
		screens:   make(map[uuid.UUID]*entity.Screen),
		layouts:   make(map[uuid.UUID][]*entity.SeatLayout),
		movies:    make(map[uuid.UUID]*entity.Movie),
		showtimes: make(map[uuid.UUID]*entity.Showtime),
		bookings:  make(map[uuid.UUID]*entity.Booking),
	}
}

func (s *memStore) repository() *repository.Repository {
	return &repository.Repository{
		Screen:     memScreens{s},
		SeatLayout: memLayouts{s},
		Movie:      memMovies{s},
		Showtime:   memShowtimes{s},
		Booking:    memBookings{s},
		BookedSeat: memBookedSeats{s},
	}
}

func (s *memStore) addScreen(tenantID uuid.UUID, name string, rows, cols int) *entity.Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	screen := &entity.Screen{
		Base:        entity.Base{ID: uuid.New()},
		TenantID:    tenantID,
		Name:        name,
		RowCount:    rows,
		ColumnCount: cols,
	}
	s.screens[screen.ID] = screen
	return screen
}

func (s *memStore) addMovie(tenantID uuid.UUID, title string, minutes int) *entity.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	movie := &entity.Movie{
		Base:            entity.Base{ID: uuid.New()},
		TenantID:        tenantID,
		Title:           title,
		DurationMinutes: minutes,
		Status:          entity.MovieStatusNowShowing,
		IsActive:        true,
	}
	s.movies[movie.ID] = movie
	return movie
}

func (s *memStore) addShowtime(st *entity.Showtime) *entity.Showtime {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	s.showtimes[st.ID] = st
	return st
}

func (s *memStore) setLayout(screenID uuid.UUID, seats ...*entity.SeatLayout) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, seat := range seats {
		seat.ScreenID = screenID
	}
	s.layouts[screenID] = seats
}

func (s *memStore) bookedCount(showtimeID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, seat := range s.seats {
		if seat.ShowtimeID == showtimeID {
			n++
		}
	}
	return n
}

func (s *memStore) joined(st *entity.Showtime) *entity.ShowtimeWithMovie {
	out := &entity.ShowtimeWithMovie{Showtime: *st}
	if m, ok := s.movies[st.MovieID]; ok {
		out.MovieTitle = m.Title
		out.DurationMinutes = m.DurationMinutes
	}
	return out
}

func (s *memStore) sortedShowtimes(keep func(*entity.Showtime) bool) []*entity.ShowtimeWithMovie {
	var out []*entity.ShowtimeWithMovie
	for _, st := range s.showtimes {
		if keep(st) {
			out = append(out, s.joined(st))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

type memScreens struct{ s *memStore }

func (r memScreens) FindByID(_ context.Context, id uuid.UUID) (*entity.Screen, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if screen, ok := r.s.screens[id]; ok {
		cp := *screen
		return &cp, nil
	}
	return nil, nil
}

type memLayouts struct{ s *memStore }

func (r memLayouts) FindByScreenID(_ context.Context, screenID uuid.UUID) ([]*entity.SeatLayout, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]*entity.SeatLayout(nil), r.s.layouts[screenID]...), nil
}

func (r memLayouts) ReplaceForScreen(_ context.Context, screenID uuid.UUID, seats []*entity.SeatLayout) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.layouts[screenID] = append([]*entity.SeatLayout(nil), seats...)
	return nil
}

type memMovies struct{ s *memStore }

func (r memMovies) FindByID(_ context.Context, id uuid.UUID) (*entity.Movie, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if movie, ok := r.s.movies[id]; ok {
		cp := *movie
		return &cp, nil
	}
	return nil, nil
}

type memShowtimes struct{ s *memStore }

func (r memShowtimes) CreateBatch(_ context.Context, showtimes []*entity.Showtime) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, st := range showtimes {
		cp := *st
		r.s.showtimes[st.ID] = &cp
	}
	return nil
}

func (r memShowtimes) FindByID(_ context.Context, id uuid.UUID) (*entity.ShowtimeWithMovie, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if st, ok := r.s.showtimes[id]; ok {
		return r.s.joined(st), nil
	}
	return nil, nil
}

func (r memShowtimes) FindActiveOverlapping(_ context.Context, screenID uuid.UUID, from, to time.Time, buffer time.Duration) ([]*entity.ShowtimeWithMovie, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	window := domain.Interval{Start: from, End: to}
	return r.s.sortedShowtimes(func(st *entity.Showtime) bool {
		if !st.IsActive || st.ScreenID != screenID {
			return false
		}
		runtime := time.Duration(r.s.movies[st.MovieID].DurationMinutes) * time.Minute
		return domain.ScreeningInterval(st.StartTime, runtime, buffer).Overlaps(window)
	}), nil
}

func (r memShowtimes) FindActiveByMovieID(_ context.Context, movieID uuid.UUID, from time.Time) ([]*entity.ShowtimeWithMovie, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.sortedShowtimes(func(st *entity.Showtime) bool {
		return st.IsActive && st.MovieID == movieID && st.StartTime.After(from)
	}), nil
}

func (r memShowtimes) matching(screenID uuid.UUID, filter repository.ShowtimeFilter) []*entity.ShowtimeWithMovie {
	return r.s.sortedShowtimes(func(st *entity.Showtime) bool {
		if st.ScreenID != screenID {
			return false
		}
		if filter.From != nil && st.StartTime.Before(*filter.From) {
			return false
		}
		return !filter.ActiveOnly || st.IsActive
	})
}

func (r memShowtimes) FindByScreenID(_ context.Context, screenID uuid.UUID, filter repository.ShowtimeFilter, offset, limit int) ([]*entity.ShowtimeWithMovie, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	all := r.matching(screenID, filter)
	if offset >= len(all) {
		return nil, nil
	}
	return all[offset:min(offset+limit, len(all))], nil
}

func (r memShowtimes) CountByScreenID(_ context.Context, screenID uuid.UUID, filter repository.ShowtimeFilter) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.matching(screenID, filter))), nil
}

func (r memShowtimes) Update(_ context.Context, showtime *entity.Showtime) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.showtimes[showtime.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *showtime
	r.s.showtimes[showtime.ID] = &cp
	return nil
}

func (r memShowtimes) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.showtimes[id]
	if !ok {
		return domain.ErrNotFound
	}
	st.IsActive = active
	return nil
}

func (r memShowtimes) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.showtimes[id]; !ok {
		return domain.ErrNotFound
	}
	for _, b := range r.s.bookings {
		if b.ShowtimeID == id {
			return domain.ErrShowtimeHasBookings
		}
	}
	delete(r.s.showtimes, id)
	return nil
}

func (r memShowtimes) DeactivateEnded(_ context.Context, now time.Time, buffer time.Duration) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, st := range r.s.showtimes {
		runtime := time.Duration(r.s.movies[st.MovieID].DurationMinutes) * time.Minute
		if st.IsActive && domain.ScreeningInterval(st.StartTime, runtime, buffer).Ended(now) {
			st.IsActive = false
			n++
		}
	}
	return n, nil
}

type memBookings struct{ s *memStore }

func (r memBookings) Commit(_ context.Context, booking *entity.Booking, seats []*entity.BookedSeat) error {
	if r.s.commitGate != nil {
		r.s.commitGate()
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	taken := domain.NewSeatSet()
	for _, seat := range r.s.seats {
		if seat.ShowtimeID == booking.ShowtimeID {
			taken.Add(seat.Key())
		}
	}

	var collided []domain.SeatKey
	for _, seat := range seats {
		if taken.Has(seat.Key()) {
			collided = append(collided, seat.Key())
		}
	}
	if len(collided) > 0 {
		return &domain.SeatUnavailableError{ShowtimeID: booking.ShowtimeID, Seats: collided}
	}

	cp := *booking
	r.s.bookings[booking.ID] = &cp
	r.s.seats = append(r.s.seats, seats...)
	return nil
}

func (r memBookings) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b, ok := r.s.bookings[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

type memBookedSeats struct{ s *memStore }

func (r memBookedSeats) filter(keep func(*entity.BookedSeat) bool) []*entity.BookedSeat {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.BookedSeat
	for _, seat := range r.s.seats {
		if keep(seat) {
			out = append(out, seat)
		}
	}
	return out
}

func (r memBookedSeats) FindByShowtimeID(_ context.Context, showtimeID uuid.UUID) ([]*entity.BookedSeat, error) {
	return r.filter(func(s *entity.BookedSeat) bool { return s.ShowtimeID == showtimeID }), nil
}

func (r memBookedSeats) FindByBookingID(_ context.Context, bookingID uuid.UUID) ([]*entity.BookedSeat, error) {
	return r.filter(func(s *entity.BookedSeat) bool { return s.BookingID == bookingID }), nil
}

func (r memBookedSeats) CountByShowtimeIDs(_ context.Context, showtimeIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	ids := make(map[uuid.UUID]bool, len(showtimeIDs))
	for _, id := range showtimeIDs {
		ids[id] = true
	}
	counts := make(map[uuid.UUID]int)
	for _, s := range r.filter(func(s *entity.BookedSeat) bool { return ids[s.ShowtimeID] }) {
		counts[s.ShowtimeID]++
	}
	return counts, nil
}

// layoutSeat is shorthand for building layouts in tests.
func layoutSeat(row string, number int, t domain.SeatType, available bool) *entity.SeatLayout {
	return &entity.SeatLayout{
		BaseSimple:  entity.BaseSimple{ID: uuid.New()},
		RowLabel:    row,
		SeatNumber:  number,
		SeatType:    t,
		IsAvailable: available,
	}
}
