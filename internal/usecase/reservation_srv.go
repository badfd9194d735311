package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"screen-star/internal/availability"
	"screen-star/internal/data/entity"
	"screen-star/internal/data/repository"
	"screen-star/internal/domain"
	"screen-star/internal/dto/request"
	"screen-star/internal/dto/response"
	"screen-star/internal/integration"
	"screen-star/pkg/metrics"
	"screen-star/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ReservationService interface {
	Commit(ctx context.Context, req *request.CommitReservationRequest) (*response.BookingResponse, error)
	GetBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error)
}

type reservationService struct {
	repo *repository.Repository
	deps Dependencies
	log  *zap.Logger
}

func NewReservationService(repo *repository.Repository, deps Dependencies, log *zap.Logger) ReservationService {
	return &reservationService{
		repo: repo,
		deps: deps.withDefaults(),
		log:  log.With(zap.String("service", "reservation")),
	}
}

// Commit books the requested seats in one transaction. The unique key on
// booked seats decides every race; a lost race returns
// *domain.SeatUnavailableError and writes nothing.
func (s *reservationService) Commit(ctx context.Context, req *request.CommitReservationRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Reservation validation failed", zap.Any("errors", errs))
		metrics.ReservationCommit(metrics.OutcomeInvalid, len(req.Seats))
		return nil, validationError(errs)
	}

	showtimeID, err := parseID("showtime_id", req.ShowtimeID)
	if err != nil {
		metrics.ReservationCommit(metrics.OutcomeInvalid, len(req.Seats))
		return nil, err
	}

	keys, err := requestedSeats(req.Seats)
	if err != nil {
		metrics.ReservationCommit(metrics.OutcomeInvalid, len(req.Seats))
		return nil, err
	}

	if req.SessionID != "" {
		release, err := s.deps.Guard.Acquire(ctx, req.SessionID)
		if err != nil {
			if errors.Is(err, domain.ErrCommitInFlight) {
				metrics.ReservationCommit(metrics.OutcomeInFlight, len(keys))
			} else {
				metrics.ReservationCommit(metrics.OutcomeUnavailable, len(keys))
			}
			return nil, err
		}
		defer release()
	}

	showtime, err := s.repo.Showtime.FindByID(ctx, showtimeID)
	if err != nil {
		metrics.ReservationCommit(metrics.OutcomeUnavailable, len(keys))
		return nil, storeError("find showtime", err)
	}
	if showtime == nil {
		metrics.ReservationCommit(metrics.OutcomeInvalid, len(keys))
		return nil, fmt.Errorf("showtime %s: %w", req.ShowtimeID, domain.ErrNotFound)
	}
	now := s.deps.Now()
	if !showtime.IsActive || !showtime.StartTime.After(now) {
		metrics.ReservationCommit(metrics.OutcomeInvalid, len(keys))
		return nil, domain.ErrShowtimeClosed
	}

	_, seatMap, err := loadSeatMap(ctx, s.repo, showtime.ScreenID)
	if err != nil {
		metrics.ReservationCommit(metrics.OutcomeUnavailable, len(keys))
		return nil, err
	}

	booking := &entity.Booking{
		BaseNoDelete:  entity.NewBaseNoDelete(now),
		TenantID:      showtime.TenantID,
		ShowtimeID:    showtime.ID,
		Reference:     utils.GenerateBookingReference(now),
		CustomerName:  strings.TrimSpace(req.Customer.Name),
		CustomerEmail: strings.ToLower(strings.TrimSpace(req.Customer.Email)),
		Status:        entity.BookingStatusPending,
	}
	if phone := strings.TrimSpace(req.Customer.Phone); phone != "" {
		booking.CustomerPhone = &phone
	}

	seats, total, err := priceSeats(seatMap, &showtime.Showtime, booking.ID, keys, req.Seats, now)
	if err != nil {
		metrics.ReservationCommit(metrics.OutcomeInvalid, len(keys))
		return nil, err
	}
	booking.TotalAmount = total

	if err := s.repo.Booking.Commit(ctx, booking, seats); err != nil {
		var seatErr *domain.SeatUnavailableError
		if errors.As(err, &seatErr) {
			s.log.Info("Reservation lost seat race",
				zap.String("showtime_id", showtime.ID.String()),
				zap.Stringer("seats", seatList(seatErr.Seats)),
			)
			metrics.ReservationCommit(metrics.OutcomeSeatTaken, len(keys))
			return nil, seatErr
		}
		metrics.ReservationCommit(metrics.OutcomeUnavailable, len(keys))
		return nil, storeError("commit reservation", err)
	}

	metrics.ReservationCommit(metrics.OutcomeBooked, len(keys))
	s.log.Info("Reservation committed",
		zap.String("booking_id", booking.ID.String()),
		zap.String("reference", booking.Reference),
		zap.String("showtime_id", showtime.ID.String()),
		zap.Int("seats", len(seats)),
		zap.String("total", total.StringFixed(2)),
	)

	s.announce(ctx, showtime, booking, seats)

	resp := response.BookingToResponse(booking, seats)
	return &resp, nil
}

// announce is best effort; the booking is already durable.
func (s *reservationService) announce(ctx context.Context, showtime *entity.ShowtimeWithMovie, booking *entity.Booking, seats []*entity.BookedSeat) {
	if err := s.deps.Changes.PublishBookedSeats(ctx, seats); err != nil {
		s.log.Error("Failed to publish booked seats",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
	}

	labels := make([]string, len(seats))
	for i, seat := range seats {
		labels[i] = seat.Key().String()
	}
	event := integration.BookingConfirmed{
		BookingID:     booking.ID,
		TenantID:      booking.TenantID,
		Reference:     booking.Reference,
		ShowtimeID:    showtime.ID,
		MovieID:       showtime.MovieID,
		MovieTitle:    showtime.MovieTitle,
		ScreenID:      showtime.ScreenID,
		StartsAt:      showtime.StartTime,
		Seats:         labels,
		TotalAmount:   booking.TotalAmount,
		CustomerEmail: booking.CustomerEmail,
		ConfirmedAt:   booking.CreatedAt,
	}
	if err := s.deps.Events.PublishBookingConfirmed(ctx, event); err != nil {
		s.log.Error("Failed to publish booking.confirmed",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
	}
}

func (s *reservationService) GetBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	id, err := parseID("booking_id", bookingID)
	if err != nil {
		return nil, err
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("find booking", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking %s: %w", bookingID, domain.ErrNotFound)
	}

	seats, err := s.repo.BookedSeat.FindByBookingID(ctx, id)
	if err != nil {
		return nil, storeError("find booked seats", err)
	}

	resp := response.BookingToResponse(booking, seats)
	return &resp, nil
}

// CommitWrite turns a committed booking into the notification a viewer's own
// tracker applies.
func CommitWrite(b *response.BookingResponse) (*availability.AuthoritativeWrite, error) {
	showtimeID, err := uuid.Parse(b.ShowtimeID)
	if err != nil {
		return nil, err
	}
	bookingID, err := uuid.Parse(b.ID)
	if err != nil {
		return nil, err
	}

	write := &availability.AuthoritativeWrite{ShowtimeID: showtimeID, BookingID: bookingID}
	for _, seat := range b.Seats {
		write.Seats = append(write.Seats, domain.SeatKey{Row: seat.Row, Number: seat.SeatNumber})
	}
	return write, nil
}

// requestedSeats normalizes row labels and rejects repeats.
func requestedSeats(seats []request.SeatRequest) ([]domain.SeatKey, error) {
	verr := &domain.ValidationError{}
	set := domain.NewSeatSet()
	keys := make([]domain.SeatKey, 0, len(seats))
	for i, seat := range seats {
		k := domain.SeatKey{Row: strings.ToUpper(seat.Row), Number: seat.SeatNumber}
		if !set.Add(k) {
			verr.Add(fmt.Sprintf("seats[%d]", i), fmt.Sprintf("Seat %s is listed more than once", k))
			continue
		}
		keys = append(keys, k)
	}
	if !verr.Empty() {
		return nil, verr
	}
	return keys, nil
}

// priceSeats checks every seat against the layout and prices it by the
// layout's seat type.
func priceSeats(seatMap *domain.SeatMap, showtime *entity.Showtime, bookingID uuid.UUID, keys []domain.SeatKey, reqs []request.SeatRequest, now time.Time) ([]*entity.BookedSeat, decimal.Decimal, error) {
	verr := &domain.ValidationError{}
	seats := make([]*entity.BookedSeat, 0, len(keys))
	total := decimal.Zero

	for i, k := range keys {
		field := fmt.Sprintf("seats[%d]", i)

		layout, ok := seatMap.Seat(k)
		if !ok {
			verr.Add(field, fmt.Sprintf("Seat %s does not exist on this screen", k))
			continue
		}
		if !layout.Sellable() {
			verr.Add(field, fmt.Sprintf("Seat %s is not for sale", k))
			continue
		}
		if raw := reqs[i].SeatType; raw != "" && domain.SeatType(raw) != layout.Type {
			verr.Add(field, fmt.Sprintf("Seat %s is %s, not %s", k, layout.Type, raw))
			continue
		}

		price := showtime.SeatPrice(layout.Type)
		total = total.Add(price)
		seats = append(seats, &entity.BookedSeat{
			BaseSimple: entity.NewBaseSimple(now),
			BookingID:  bookingID,
			ShowtimeID: showtime.ID,
			RowLabel:   k.Row,
			SeatNumber: k.Number,
			SeatType:   layout.Type,
			Price:      price,
		})
	}

	if !verr.Empty() {
		return nil, decimal.Zero, verr
	}
	return seats, total, nil
}

type seatList []domain.SeatKey

func (l seatList) String() string {
	labels := make([]string, len(l))
	for i, k := range l {
		labels[i] = k.String()
	}
	return strings.Join(labels, ",")
}
