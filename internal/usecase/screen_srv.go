package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"screen-star/internal/data/entity"
	"screen-star/internal/data/repository"
	"screen-star/internal/domain"
	"screen-star/internal/dto/request"
	"screen-star/internal/dto/response"
	"screen-star/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ScreenService interface {
	GetLayout(ctx context.Context, tenantID uuid.UUID, screenID string) (*response.LayoutResponse, error)
	ReplaceLayout(ctx context.Context, tenantID uuid.UUID, screenID string, req *request.ReplaceLayoutRequest) (*response.LayoutResponse, error)
}

type screenService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewScreenService(repo *repository.Repository, log *zap.Logger) ScreenService {
	return &screenService{
		repo: repo,
		log:  log.With(zap.String("service", "screen")),
	}
}

func (s *screenService) findOwned(ctx context.Context, tenantID uuid.UUID, screenID string) (*entity.Screen, error) {
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
	return screen, nil
}

func (s *screenService) GetLayout(ctx context.Context, tenantID uuid.UUID, screenID string) (*response.LayoutResponse, error) {
	screen, err := s.findOwned(ctx, tenantID, screenID)
	if err != nil {
		return nil, err
	}

	_, seatMap, err := loadSeatMap(ctx, s.repo, screen.ID)
	if err != nil {
		return nil, err
	}
	return layoutResponse(screen, seatMap), nil
}

// ReplaceLayout swaps a screen's whole layout. Booked seats keep their row
// and number, so a layout change never touches existing bookings.
func (s *screenService) ReplaceLayout(ctx context.Context, tenantID uuid.UUID, screenID string, req *request.ReplaceLayoutRequest) (*response.LayoutResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Layout validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	screen, err := s.findOwned(ctx, tenantID, screenID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	verr := &domain.ValidationError{}
	seen := domain.NewSeatSet()
	seats := make([]*entity.SeatLayout, 0, len(req.Seats))
	for i, seat := range req.Seats {
		k := domain.SeatKey{Row: strings.ToUpper(seat.Row), Number: seat.SeatNumber}
		if !seen.Add(k) {
			verr.Add(fmt.Sprintf("seats[%d]", i), fmt.Sprintf("Seat %s is listed more than once", k))
			continue
		}

		seatType, err := domain.ParseSeatType(seat.SeatType)
		if err != nil {
			verr.Add(fmt.Sprintf("seats[%d].seat_type", i), err.Error())
			continue
		}

		available := true
		if seat.IsAvailable != nil {
			available = *seat.IsAvailable
		}

		seats = append(seats, &entity.SeatLayout{
			BaseSimple:  entity.NewBaseSimple(now),
			ScreenID:    screen.ID,
			RowLabel:    k.Row,
			SeatNumber:  k.Number,
			SeatType:    seatType,
			IsAvailable: available,
		})
	}
	if !verr.Empty() {
		return nil, verr
	}

	if err := s.repo.SeatLayout.ReplaceForScreen(ctx, screen.ID, seats); err != nil {
		return nil, storeError("replace seat layout", err)
	}

	layout := make([]entity.SeatLayout, len(seats))
	for i, seat := range seats {
		layout[i] = *seat
	}
	seatMap := domain.NewSeatMap(screen.RowCount, screen.ColumnCount, entity.ToLayoutSeats(layout))

	s.log.Info("Seat layout replaced",
		zap.String("screen_id", screen.ID.String()),
		zap.Int("seats", len(seats)),
		zap.Int("capacity", seatMap.Capacity()),
	)

	return layoutResponse(screen, seatMap), nil
}

func layoutResponse(screen *entity.Screen, seatMap *domain.SeatMap) *response.LayoutResponse {
	resp := &response.LayoutResponse{
		ScreenID: screen.ID.String(),
		Rows:     seatMap.Rows,
		Columns:  seatMap.Columns,
		Capacity: seatMap.Capacity(),
	}
	for _, seat := range seatMap.Seats() {
		resp.Seats = append(resp.Seats, response.LayoutSeatResponse{
			Seat:        seat.Key,
			SeatType:    seat.Type,
			IsAvailable: seat.IsAvailable,
		})
	}
	return resp
}
