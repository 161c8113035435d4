package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"

	apperrors "kairooms/pkg/errors"
	"kairooms/pkg/logger"
	"kairooms/pkg/model"
)

type mockBookingService struct {
	createFn     func(ctx context.Context, booking *model.Booking) error
	listFn       func(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	sendInviteFn func(ctx context.Context, invite *model.MeetingInvite) error
}

func (m *mockBookingService) Create(ctx context.Context, booking *model.Booking) error {
	return m.createFn(ctx, booking)
}

func (m *mockBookingService) List(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	return m.listFn(ctx, limit, offset)
}

func (m *mockBookingService) SendInvite(ctx context.Context, invite *model.MeetingInvite) error {
	return m.sendInviteFn(ctx, invite)
}

func newRouter(svc *mockBookingService) *httprouter.Router {
	log := logger.New(logger.Config{Level: "error", Output: io.Discard})
	router := httprouter.New()
	NewBookingHandler(svc, log).RegisterRoutes(router)
	return router
}

const bookingJSON = `{
	"organizer": "Dana",
	"meeting_name": "Sprint Review",
	"date": "2026-09-01",
	"start_time": "10:00",
	"end_time": "11:00",
	"room": "Boardroom",
	"meeting_type": "Offline"
}`

func TestCreateReturns201(t *testing.T) {
	svc := &mockBookingService{
		createFn: func(ctx context.Context, b *model.Booking) error {
			b.ID = "68b000000000000000000001"
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/booking", strings.NewReader(bookingJSON))
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateReturns409OnConflict(t *testing.T) {
	svc := &mockBookingService{
		createFn: func(ctx context.Context, b *model.Booking) error {
			return apperrors.Conflict("Schedule conflict: the room is already booked for that time")
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/booking", strings.NewReader(bookingJSON))
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Error == "" {
		t.Error("expected an error message in the body")
	}
}

func TestCreateReturns400OnMalformedBody(t *testing.T) {
	svc := &mockBookingService{
		createFn: func(ctx context.Context, b *model.Booking) error {
			t.Error("service must not be called for a malformed body")
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/booking", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestListReturnsBookings(t *testing.T) {
	svc := &mockBookingService{
		listFn: func(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
			return []*model.Booking{{MeetingName: "Sprint Review"}}, 1, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/booking", nil)
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Data       []model.Booking `json:"data"`
		TotalCount int64           `json:"total_count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(body.Data) != 1 || body.TotalCount != 1 {
		t.Errorf("unexpected list body: %+v", body)
	}
}

func TestListEmptyIsArrayNotNull(t *testing.T) {
	svc := &mockBookingService{
		listFn: func(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
			return nil, 0, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/booking", nil)
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), `"data":[]`) {
		t.Errorf("empty listing must encode as [], got %s", rec.Body.String())
	}
}

func TestSendInviteReturns400OnInvalidInput(t *testing.T) {
	svc := &mockBookingService{
		sendInviteFn: func(ctx context.Context, invite *model.MeetingInvite) error {
			return apperrors.InvalidInput("Missing or invalid invite fields")
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/booking/send-invite", strings.NewReader(`{"meeting_name":"x"}`))
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSendInviteReturns200(t *testing.T) {
	svc := &mockBookingService{
		sendInviteFn: func(ctx context.Context, invite *model.MeetingInvite) error {
			return nil
		},
	}

	payload := `{"emails":["dana@example.com"],"meeting_link":"https://meet.example.com/abc","meeting_name":"Sprint Review","date":"2026-09-01","time":"10:00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/booking/send-invite", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}
