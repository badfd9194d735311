package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"screen-star/internal/changefeed"
	"screen-star/internal/data/entity"
	"screen-star/internal/data/repository"
	"screen-star/internal/domain"
	"screen-star/internal/dto/request"
	"screen-star/internal/dto/response"
	"screen-star/pkg/metrics"
	"screen-star/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ScheduleService interface {
	// Operator endpoints, scoped to the caller's tenant
	PreviewBulk(ctx context.Context, tenantID uuid.UUID, req *request.BulkScheduleRequest) (*response.BulkScheduleResponse, error)
	GenerateBulk(ctx context.Context, tenantID uuid.UUID, req *request.BulkScheduleRequest) (*response.BulkScheduleResponse, error)
	Reschedule(ctx context.Context, tenantID uuid.UUID, showtimeID string, req *request.RescheduleRequest) (*response.RescheduleResponse, error)
	SetActive(ctx context.Context, tenantID uuid.UUID, showtimeID string, req *request.SetActiveRequest) (*response.RescheduleResponse, error)
	Delete(ctx context.Context, tenantID uuid.UUID, showtimeID string) error
	ListByScreen(ctx context.Context, tenantID uuid.UUID, screenID string, req *request.ScreenShowtimesRequest) (*response.PaginatedResponse[response.ShowtimeResponse], error)

	// Public endpoints
	ListByMovie(ctx context.Context, movieID string) ([]response.ShowtimeResponse, error)

	// Housekeeping
	DeactivateEnded(ctx context.Context) (int64, error)
}

type scheduleService struct {
	repo     *repository.Repository
	deps     Dependencies
	detector domain.Detector
	location *time.Location
	maxDays  int
	log      *zap.Logger
}

func NewScheduleService(repo *repository.Repository, deps Dependencies, config utils.ScheduleConfig, log *zap.Logger) ScheduleService {
	return &scheduleService{
		repo:     repo,
		deps:     deps.withDefaults(),
		detector: domain.NewDetector(config.Buffer()),
		location: config.Location(),
		maxDays:  config.MaxRangeDays,
		log:      log.With(zap.String("service", "schedule")),
	}
}

// bulkPlan is a validated request expanded into candidate screenings.
type bulkPlan struct {
	plan       domain.BulkPlan
	tenantID   uuid.UUID
	movie      *entity.Movie
	candidates []domain.Screening
	conflicts  []domain.ConflictInfo
}

func (s *scheduleService) PreviewBulk(ctx context.Context, tenantID uuid.UUID, req *request.BulkScheduleRequest) (*response.BulkScheduleResponse, error) {
	bp, err := s.prepareBulk(ctx, tenantID, req)
	if err != nil {
		return nil, err
	}
	return s.bulkResponse(bp, nil), nil
}

func (s *scheduleService) GenerateBulk(ctx context.Context, tenantID uuid.UUID, req *request.BulkScheduleRequest) (*response.BulkScheduleResponse, error) {
	bp, err := s.prepareBulk(ctx, tenantID, req)
	if err != nil {
		return nil, err
	}

	if len(bp.conflicts) > 0 && !req.Force {
		s.log.Info("Bulk schedule needs confirmation",
			zap.String("screen_id", bp.plan.ScreenID.String()),
			zap.Int("conflicts", len(bp.conflicts)),
		)
		return nil, &domain.ConflictWarning{Conflicts: bp.conflicts}
	}

	now := s.deps.Now()
	showtimes := make([]*entity.Showtime, 0, len(bp.candidates))
	for _, c := range bp.candidates {
		showtimes = append(showtimes, &entity.Showtime{
			BaseNoDelete: entity.NewBaseNoDelete(now),
			TenantID:     tenantID,
			MovieID:      bp.plan.MovieID,
			ScreenID:     bp.plan.ScreenID,
			StartTime:    c.Start,
			Price:        bp.plan.Price,
			VIPPrice:     bp.plan.VIPPrice,
			IsActive:     true,
		})
	}

	if err := s.repo.Showtime.CreateBatch(ctx, showtimes); err != nil {
		return nil, storeError("create showtimes", err)
	}

	metrics.ShowtimesCreated(len(showtimes), len(bp.conflicts) > 0)
	if len(bp.conflicts) > 0 {
		s.log.Warn("Showtimes created despite conflicts",
			zap.String("screen_id", bp.plan.ScreenID.String()),
			zap.Int("conflicts", len(bp.conflicts)),
		)
	}
	s.publishShowtimes(ctx, changefeed.OpInsert, showtimes...)

	s.log.Info("Bulk schedule created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("movie_id", bp.plan.MovieID.String()),
		zap.String("screen_id", bp.plan.ScreenID.String()),
		zap.Int("count", len(showtimes)),
	)

	return s.bulkResponse(bp, showtimes), nil
}

func (s *scheduleService) prepareBulk(ctx context.Context, tenantID uuid.UUID, req *request.BulkScheduleRequest) (*bulkPlan, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Bulk schedule validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	plan, err := s.parsePlan(req)
	if err != nil {
		return nil, err
	}
	if err := plan.Validate(s.maxDays); err != nil {
		return nil, err
	}

	movie, err := s.repo.Movie.FindByID(ctx, plan.MovieID)
	if err != nil {
		return nil, storeError("find movie", err)
	}
	if movie == nil || movie.TenantID != tenantID {
		return nil, fmt.Errorf("movie %s: %w", plan.MovieID.String(), domain.ErrNotFound)
	}
	if !movie.IsActive {
		return nil, domain.NewValidationError("movie_id", "Movie is not active")
	}

	screen, err := s.repo.Screen.FindByID(ctx, plan.ScreenID)
	if err != nil {
		return nil, storeError("find screen", err)
	}
	if screen == nil || screen.TenantID != tenantID {
		return nil, fmt.Errorf("screen %s: %w", plan.ScreenID.String(), domain.ErrNotFound)
	}

	starts, err := plan.Expand(s.location, s.deps.Now())
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.Screening, 0, len(starts))
	for _, start := range starts {
		candidates = append(candidates, domain.Screening{
			MovieID:    movie.ID,
			MovieTitle: movie.Title,
			Start:      start,
			Runtime:    movie.Runtime(),
		})
	}

	conflicts, err := s.findConflicts(ctx, plan.ScreenID, candidates)
	if err != nil {
		return nil, err
	}
	conflicts = append(conflicts, s.detector.DetectWithinBatch(candidates)...)
	metrics.ScheduleConflicts(string(domain.ConflictBatch), countSource(conflicts, domain.ConflictBatch))

	return &bulkPlan{
		plan:       plan,
		tenantID:   tenantID,
		movie:      movie,
		candidates: candidates,
		conflicts:  conflicts,
	}, nil
}

func (s *scheduleService) parsePlan(req *request.BulkScheduleRequest) (domain.BulkPlan, error) {
	var plan domain.BulkPlan
	var err error

	if plan.MovieID, err = parseID("movie_id", req.MovieID); err != nil {
		return plan, err
	}
	if plan.ScreenID, err = parseID("screen_id", req.ScreenID); err != nil {
		return plan, err
	}
	if plan.StartDate, err = time.Parse(time.DateOnly, req.StartDate); err != nil {
		return plan, domain.NewValidationError("start_date", "Must be a date in YYYY-MM-DD format")
	}
	if plan.EndDate, err = time.Parse(time.DateOnly, req.EndDate); err != nil {
		return plan, domain.NewValidationError("end_date", "Must be a date in YYYY-MM-DD format")
	}

	for _, raw := range req.TimeSlots {
		slot, err := domain.ParseTimeOfDay(raw)
		if err != nil {
			return plan, domain.NewValidationError("time_slots", err.Error())
		}
		plan.Slots = append(plan.Slots, slot)
	}

	plan.Price = req.Price
	plan.VIPPrice = req.VIPPrice
	return plan, nil
}

// findConflicts compares candidates with the active showtimes on the screen
// that could reach into their span.
func (s *scheduleService) findConflicts(ctx context.Context, screenID uuid.UUID, candidates []domain.Screening) ([]domain.ConflictInfo, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	from := candidates[0].Start
	to := s.detector.Interval(candidates[0]).End
	for _, c := range candidates[1:] {
		iv := s.detector.Interval(c)
		if iv.Start.Before(from) {
			from = iv.Start
		}
		if iv.End.After(to) {
			to = iv.End
		}
	}

	rows, err := s.repo.Showtime.FindActiveOverlapping(ctx, screenID, from, to, s.detector.Buffer)
	if err != nil {
		return nil, storeError("find overlapping showtimes", err)
	}

	existing := make([]domain.Screening, 0, len(rows))
	for _, r := range rows {
		existing = append(existing, r.Screening())
	}

	conflicts := s.detector.Detect(candidates, existing)
	metrics.ScheduleConflicts(string(domain.ConflictExisting), len(conflicts))
	return conflicts, nil
}

func (s *scheduleService) bulkResponse(bp *bulkPlan, created []*entity.Showtime) *response.BulkScheduleResponse {
	resp := &response.BulkScheduleResponse{
		Candidates: make([]response.CandidateResponse, 0, len(bp.candidates)),
		Conflicts:  bp.conflicts,
		Committed:  created != nil,
	}
	if resp.Conflicts == nil {
		resp.Conflicts = []domain.ConflictInfo{}
	}
	for _, c := range bp.candidates {
		resp.Candidates = append(resp.Candidates, response.CandidateResponse{
			StartTime: c.Start,
			EndTime:   c.Start.Add(c.Runtime),
		})
	}
	for _, st := range created {
		resp.Created = append(resp.Created, response.ShowtimeToResponse(&entity.ShowtimeWithMovie{
			Showtime:        *st,
			MovieTitle:      bp.movie.Title,
			DurationMinutes: bp.movie.DurationMinutes,
		}))
	}
	return resp
}

func (s *scheduleService) Reschedule(ctx context.Context, tenantID uuid.UUID, showtimeID string, req *request.RescheduleRequest) (*response.RescheduleResponse, error) {
	showtime, err := s.findOwned(ctx, tenantID, showtimeID)
	if err != nil {
		return nil, err
	}

	verr := &domain.ValidationError{}
	if req.StartTime != nil {
		if !req.StartTime.After(s.deps.Now()) {
			verr.Add("start_time", "Must be in the future")
		}
		showtime.StartTime = *req.StartTime
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			verr.Add("price", "Must not be negative")
		}
		showtime.Price = *req.Price
	}
	if req.VIPPrice != nil {
		if req.VIPPrice.IsNegative() {
			verr.Add("vip_price", "Must not be negative")
		}
		showtime.VIPPrice.Decimal, showtime.VIPPrice.Valid = *req.VIPPrice, true
	}
	if req.ClearVIPPrice {
		showtime.VIPPrice.Valid = false
	}
	if !verr.Empty() {
		return nil, verr
	}

	return s.saveChecked(ctx, showtime, req.Force, func() error {
		return s.repo.Showtime.Update(ctx, &showtime.Showtime)
	})
}

func (s *scheduleService) SetActive(ctx context.Context, tenantID uuid.UUID, showtimeID string, req *request.SetActiveRequest) (*response.RescheduleResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	showtime, err := s.findOwned(ctx, tenantID, showtimeID)
	if err != nil {
		return nil, err
	}

	// housekeeping would switch an ended showtime straight back off
	if *req.Active && s.detector.Interval(showtime.Screening()).Ended(s.deps.Now()) {
		return nil, domain.ErrShowtimeClosed
	}

	showtime.IsActive = *req.Active
	return s.saveChecked(ctx, showtime, req.Force, func() error {
		return s.repo.Showtime.SetActive(ctx, showtime.ID, showtime.IsActive)
	})
}

// saveChecked runs the conflict check for an edited showtime, skipping it
// for inactive ones, and calls write unless the edit conflicts without force.
func (s *scheduleService) saveChecked(ctx context.Context, showtime *entity.ShowtimeWithMovie, force bool, write func() error) (*response.RescheduleResponse, error) {
	var conflicts []domain.ConflictInfo
	if showtime.IsActive {
		var err error
		conflicts, err = s.findConflicts(ctx, showtime.ScreenID, []domain.Screening{showtime.Screening()})
		if err != nil {
			return nil, err
		}
		if len(conflicts) > 0 && !force {
			return nil, &domain.ConflictWarning{Conflicts: conflicts}
		}
	}

	showtime.Touch(s.deps.Now())
	if err := write(); err != nil {
		return nil, storeError("update showtime", err)
	}
	s.publishShowtimes(ctx, changefeed.OpUpdate, &showtime.Showtime)

	s.log.Info("Showtime updated",
		zap.String("showtime_id", showtime.ID.String()),
		zap.Time("start_time", showtime.StartTime),
		zap.Bool("active", showtime.IsActive),
		zap.Int("conflicts", len(conflicts)),
	)

	if conflicts == nil {
		conflicts = []domain.ConflictInfo{}
	}
	return &response.RescheduleResponse{
		Showtime:  response.ShowtimeToResponse(showtime),
		Conflicts: conflicts,
	}, nil
}

func (s *scheduleService) Delete(ctx context.Context, tenantID uuid.UUID, showtimeID string) error {
	showtime, err := s.findOwned(ctx, tenantID, showtimeID)
	if err != nil {
		return err
	}

	if err := s.repo.Showtime.Delete(ctx, showtime.ID); err != nil {
		if errors.Is(err, domain.ErrShowtimeHasBookings) {
			s.log.Warn("Refused to delete showtime with bookings", zap.String("showtime_id", showtimeID))
		}
		return storeError("delete showtime", err)
	}
	s.publishShowtimes(ctx, changefeed.OpDelete, &showtime.Showtime)

	return nil
}

func (s *scheduleService) ListByScreen(ctx context.Context, tenantID uuid.UUID, screenID string, req *request.ScreenShowtimesRequest) (*response.PaginatedResponse[response.ShowtimeResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	id, err := parseID("screen_id", screenID)
	if err != nil {
		return nil, err
	}

	screen, err := s.repo.Screen.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("find screen", err)
	}
	if screen == nil || screen.TenantID != tenantID {
		return nil, fmt.Errorf("screen %s: %w", screenID, domain.ErrNotFound)
	}

	filter := repository.ShowtimeFilter{ActiveOnly: req.ActiveOnly}
	if req.From != "" {
		from, err := time.ParseInLocation(time.DateOnly, req.From, s.location)
		if err != nil {
			return nil, domain.NewValidationError("from", "must be a date (YYYY-MM-DD)")
		}
		filter.From = &from
	}

	showtimes, err := s.repo.Showtime.FindByScreenID(ctx, id, filter, req.Offset(), req.Limit())
	if err != nil {
		return nil, storeError("list showtimes", err)
	}
	total, err := s.repo.Showtime.CountByScreenID(ctx, id, filter)
	if err != nil {
		return nil, storeError("count showtimes", err)
	}

	data := make([]response.ShowtimeResponse, 0, len(showtimes))
	for _, st := range showtimes {
		data = append(data, response.ShowtimeToResponse(st))
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *scheduleService) ListByMovie(ctx context.Context, movieID string) ([]response.ShowtimeResponse, error) {
	id, err := parseID("movie_id", movieID)
	if err != nil {
		return nil, err
	}

	showtimes, err := s.repo.Showtime.FindActiveByMovieID(ctx, id, s.deps.Now())
	if err != nil {
		return nil, storeError("list showtimes by movie", err)
	}
	if len(showtimes) == 0 {
		return []response.ShowtimeResponse{}, nil
	}

	ids := make([]uuid.UUID, len(showtimes))
	for i, st := range showtimes {
		ids[i] = st.ID
	}
	counts, err := s.repo.BookedSeat.CountByShowtimeIDs(ctx, ids)
	if err != nil {
		return nil, storeError("count booked seats", err)
	}

	capacities := make(map[uuid.UUID]int)
	data := make([]response.ShowtimeResponse, 0, len(showtimes))
	for _, st := range showtimes {
		capacity, ok := capacities[st.ScreenID]
		if !ok {
			_, seatMap, err := loadSeatMap(ctx, s.repo, st.ScreenID)
			if err != nil {
				return nil, err
			}
			capacity = seatMap.Capacity()
			capacities[st.ScreenID] = capacity
		}

		resp := response.ShowtimeToResponse(st)
		occupancy := domain.NewOccupancy(counts[st.ID], capacity)
		resp.Occupancy = &occupancy
		data = append(data, resp)
	}

	return data, nil
}

func (s *scheduleService) DeactivateEnded(ctx context.Context) (int64, error) {
	n, err := s.repo.Showtime.DeactivateEnded(ctx, s.deps.Now(), s.detector.Buffer)
	if err != nil {
		return 0, storeError("deactivate ended showtimes", err)
	}
	if n > 0 {
		metrics.ShowtimesDeactivated(n)
		s.log.Info("Ended showtimes deactivated", zap.Int64("count", n))
	}
	return n, nil
}

func (s *scheduleService) findOwned(ctx context.Context, tenantID uuid.UUID, showtimeID string) (*entity.ShowtimeWithMovie, error) {
	id, err := parseID("showtime_id", showtimeID)
	if err != nil {
		return nil, err
	}

	showtime, err := s.repo.Showtime.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("find showtime", err)
	}
	if showtime == nil || showtime.TenantID != tenantID {
		return nil, fmt.Errorf("showtime %s: %w", showtimeID, domain.ErrNotFound)
	}
	return showtime, nil
}

// publishShowtimes is best effort; the write already happened.
func (s *scheduleService) publishShowtimes(ctx context.Context, op changefeed.Op, showtimes ...*entity.Showtime) {
	if err := s.deps.Changes.PublishShowtimes(ctx, op, showtimes); err != nil {
		s.log.Error("Failed to publish showtime changes",
			zap.Error(err),
			zap.String("op", string(op)),
			zap.Int("count", len(showtimes)),
		)
	}
}

func countSource(conflicts []domain.ConflictInfo, source domain.ConflictSource) int {
	n := 0
	for _, c := range conflicts {
		if c.Source == source {
			n++
		}
	}
	return n
}
