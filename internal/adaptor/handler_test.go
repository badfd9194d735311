package adaptor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"screen-star/internal/domain"
	"screen-star/internal/dto/request"
	"screen-star/internal/dto/response"
	"screen-star/internal/usecase"
	"screen-star/pkg/middleware"
	"screen-star/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) Commit(ctx context.Context, req *request.CommitReservationRequest) (*response.BookingResponse, error) {
	args := m.Called(ctx, req)
	booking, _ := args.Get(0).(*response.BookingResponse)
	return booking, args.Error(1)
}

func (m *MockReservationService) GetBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	args := m.Called(ctx, bookingID)
	booking, _ := args.Get(0).(*response.BookingResponse)
	return booking, args.Error(1)
}

// MockScheduleService stubs the calls these tests make; anything else
// panics through the nil embedded interface.
type MockScheduleService struct {
	usecase.ScheduleService
	mock.Mock
}

func (m *MockScheduleService) GenerateBulk(ctx context.Context, tenantID uuid.UUID, req *request.BulkScheduleRequest) (*response.BulkScheduleResponse, error) {
	args := m.Called(ctx, tenantID, req)
	resp, _ := args.Get(0).(*response.BulkScheduleResponse)
	return resp, args.Error(1)
}

func (m *MockScheduleService) Delete(ctx context.Context, tenantID uuid.UUID, showtimeID string) error {
	args := m.Called(ctx, tenantID, showtimeID)
	return args.Error(0)
}

func setupReservationRouter(svc usecase.ReservationService) *chi.Mux {
	h := NewReservationHandler(svc, zap.NewNop())
	r := chi.NewRouter()
	r.Post("/api/reservations", h.Commit)
	r.Get("/api/bookings/{id}", h.GetBooking)
	return r
}

func setupScheduleRouter(svc usecase.ScheduleService) *chi.Mux {
	h := NewScheduleHandler(svc, zap.NewNop())
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Tenant(zap.NewNop()))
		r.Post("/api/admin/showtimes/bulk", h.GenerateBulk)
		r.Delete("/api/admin/showtimes/{id}", h.Delete)
	})
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any, header http.Header) (*httptest.ResponseRecorder, utils.Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp utils.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func commitBody() request.CommitReservationRequest {
	return request.CommitReservationRequest{
		ShowtimeID: uuid.NewString(),
		SessionID:  "viewer-1",
		Seats:      []request.SeatRequest{{Row: "A", SeatNumber: 1}},
		Customer:   request.CustomerRequest{Name: "Dana", Email: "dana@example.com"},
	}
}

func TestCommitStatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "validation",
			err:     domain.NewValidationError("seats[0]", "duplicate seat"),
			status:  http.StatusBadRequest,
			message: "Validation failed",
		},
		{
			name:    "seat taken",
			err:     &domain.SeatUnavailableError{ShowtimeID: uuid.New(), Seats: []domain.SeatKey{{Row: "A", Number: 1}}},
			status:  http.StatusConflict,
			message: "Some seats were just booked by someone else",
		},
		{
			name:   "showtime closed",
			err:    domain.ErrShowtimeClosed,
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "not found",
			err:    domain.ErrNotFound,
			status: http.StatusNotFound,
		},
		{
			name:   "commit in flight",
			err:    domain.ErrCommitInFlight,
			status: http.StatusTooManyRequests,
		},
		{
			name:    "store down",
			err:     domain.Transient("insert booking", errors.New("connection refused")),
			status:  http.StatusServiceUnavailable,
			message: "Service temporarily unavailable, please retry",
		},
		{
			name:    "unexpected",
			err:     errors.New("boom"),
			status:  http.StatusInternalServerError,
			message: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockReservationService)
			svc.On("Commit", mock.Anything, mock.AnythingOfType("*request.CommitReservationRequest")).
				Return(nil, tt.err).Once()

			rec, resp := doJSON(t, setupReservationRouter(svc), http.MethodPost, "/api/reservations", commitBody(), nil)

			assert.Equal(t, tt.status, rec.Code)
			assert.False(t, resp.Status)
			if tt.message != "" {
				assert.Equal(t, tt.message, resp.Message)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestCommitSeatTakenListsSeats(t *testing.T) {
	svc := new(MockReservationService)
	svc.On("Commit", mock.Anything, mock.Anything).Return(nil, &domain.SeatUnavailableError{
		Seats: []domain.SeatKey{{Row: "A", Number: 1}, {Row: "B", Number: 2}},
	})

	rec, resp := doJSON(t, setupReservationRouter(svc), http.MethodPost, "/api/reservations", commitBody(), nil)

	require.Equal(t, http.StatusConflict, rec.Code)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"A1", "B2"}, data["seats"])
}

func TestCommitCreated(t *testing.T) {
	svc := new(MockReservationService)
	booking := &response.BookingResponse{ID: uuid.NewString(), Reference: "BK-20300301-ABC123"}
	svc.On("Commit", mock.Anything, mock.MatchedBy(func(req *request.CommitReservationRequest) bool {
		return req.SessionID == "viewer-1" && len(req.Seats) == 1
	})).Return(booking, nil)

	rec, resp := doJSON(t, setupReservationRouter(svc), http.MethodPost, "/api/reservations", commitBody(), nil)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, resp.Status)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, booking.Reference, data["reference"])
}

func TestCommitRejectsMalformedBody(t *testing.T) {
	svc := new(MockReservationService)
	req := httptest.NewRequest(http.MethodPost, "/api/reservations", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()

	setupReservationRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything)
}

func TestGetBookingPassesPathID(t *testing.T) {
	svc := new(MockReservationService)
	id := uuid.NewString()
	svc.On("GetBooking", mock.Anything, id).Return(&response.BookingResponse{ID: id}, nil)

	rec, _ := doJSON(t, setupReservationRouter(svc), http.MethodGet, "/api/bookings/"+id, nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestGenerateBulkConflictNeedsForce(t *testing.T) {
	tenant := uuid.New()
	svc := new(MockScheduleService)
	conflicts := []domain.ConflictInfo{{MovieTitle: "Arrival", Source: domain.ConflictExisting}}
	svc.On("GenerateBulk", mock.Anything, tenant, mock.Anything).
		Return(nil, &domain.ConflictWarning{Conflicts: conflicts})

	header := http.Header{middleware.TenantHeader: []string{tenant.String()}}
	rec, resp := doJSON(t, setupScheduleRouter(svc), http.MethodPost, "/api/admin/showtimes/bulk",
		request.BulkScheduleRequest{MovieID: uuid.NewString(), ScreenID: uuid.NewString()}, header)

	assert.Equal(t, http.StatusConflict, rec.Code)
	data, ok := resp.Data.([]any)
	require.True(t, ok)
	assert.Len(t, data, 1)
	svc.AssertExpectations(t)
}

func TestScheduleRoutesRequireTenant(t *testing.T) {
	svc := new(MockScheduleService)

	rec, _ := doJSON(t, setupScheduleRouter(svc), http.MethodDelete, "/api/admin/showtimes/"+uuid.NewString(), nil, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteWithBookings(t *testing.T) {
	tenant := uuid.New()
	id := uuid.NewString()
	svc := new(MockScheduleService)
	svc.On("Delete", mock.Anything, tenant, id).Return(domain.ErrShowtimeHasBookings)

	header := http.Header{middleware.TenantHeader: []string{tenant.String()}}
	rec, _ := doJSON(t, setupScheduleRouter(svc), http.MethodDelete, "/api/admin/showtimes/"+id, nil, header)

	assert.Equal(t, http.StatusConflict, rec.Code)
}
