package appointments

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"

	"bookly/internal/watch"
	apperrors "bookly/pkg/errors"
	"bookly/pkg/model"
)

// Mock service for testing
type mockService struct {
	getSlotsFunc func(ctx context.Context, date string) ([]model.TimeSlot, error)
	bookFunc     func(ctx context.Context, req *BookingRequest) (*model.Appointment, error)
	deleteFunc   func(ctx context.Context, session *model.Session, id string) error
}

func (m *mockService) GetSlotsForDate(ctx context.Context, date string) ([]model.TimeSlot, error) {
	if m.getSlotsFunc != nil {
		return m.getSlotsFunc(ctx, date)
	}
	return []model.TimeSlot{}, nil
}

func (m *mockService) Book(ctx context.Context, req *BookingRequest) (*model.Appointment, error) {
	if m.bookFunc != nil {
		return m.bookFunc(ctx, req)
	}
	return &model.Appointment{}, nil
}

func (m *mockService) List(context.Context, *model.Session, string) ([]*model.Appointment, error) {
	return []*model.Appointment{}, nil
}

func (m *mockService) Delete(ctx context.Context, session *model.Session, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, session, id)
	}
	return nil
}

func newTestHandler(svc Service) (*Handler, *httprouter.Router) {
	h := NewHandler(svc, nil, testLogger())
	router := httprouter.New()
	h.RegisterRoutes(router)
	h.RegisterAdminRoutes(router)
	return h, router
}

func TestGetSlotsRequiresDate(t *testing.T) {
	_, router := newTestHandler(&mockService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/slots", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestGetSlotsReturnsGrid(t *testing.T) {
	svc := &mockService{
		getSlotsFunc: func(_ context.Context, date string) ([]model.TimeSlot, error) {
			if date != "2026-01-05" {
				t.Errorf("expected date passed through, got %q", date)
			}
			return []model.TimeSlot{
				{Time: "09:00", DisplayTime: "9:00 AM", Available: true},
			}, nil
		},
	}
	_, router := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/slots?date=2026-01-05", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data []model.TimeSlot `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].DisplayTime != "9:00 AM" {
		t.Errorf("unexpected slot payload: %+v", envelope.Data)
	}
}

func TestBookReturnsCreated(t *testing.T) {
	svc := &mockService{
		bookFunc: func(_ context.Context, req *BookingRequest) (*model.Appointment, error) {
			return &model.Appointment{
				ID:     "5de7ea82-6dc5-491f-9a4a-1d8f2347e152",
				Date:   req.Date,
				Time:   req.Time,
				Status: model.StatusBooked,
			}, nil
		},
	}
	_, router := newTestHandler(svc)

	body := `{"date":"2026-01-05","time":"09:30","customer_name":"Asha Rao","customer_phone":"+919876543210"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBookRejectsMalformedJSON(t *testing.T) {
	_, router := newTestHandler(&mockService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestBookMapsSlotUnavailable(t *testing.T) {
	svc := &mockService{
		bookFunc: func(context.Context, *BookingRequest) (*model.Appointment, error) {
			return nil, apperrors.SlotUnavailable("Slot is not available")
		},
	}
	_, router := newTestHandler(svc)

	body := `{"date":"2026-01-05","time":"09:30","customer_name":"Asha Rao","customer_phone":"+919876543210"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	var envelope struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if envelope.Code != apperrors.CodeSlotUnavailable {
		t.Errorf("expected SLOT_UNAVAILABLE code, got %q", envelope.Code)
	}
}

func TestDeleteReturnsNoContent(t *testing.T) {
	svc := &mockService{
		deleteFunc: func(_ context.Context, _ *model.Session, id string) error {
			if id != "abc123" {
				t.Errorf("expected id abc123, got %q", id)
			}
			return nil
		},
	}
	_, router := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/appointments/abc123", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
}

func TestWatchStreamsSnapshots(t *testing.T) {
	repo := newMemoryRepository()
	hub := watch.NewHub(repo, testLogger())
	h := NewHandler(&mockService{}, hub, testLogger())
	router := httprouter.New()
	h.RegisterWatchRoutes(router)

	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/appointments/watch?date=2026-01-05")
	if err != nil {
		t.Fatalf("failed to open stream: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected event stream content type, got %q", ct)
	}

	scanner := bufio.NewScanner(resp.Body)
	first := readDataLine(t, scanner)
	if first != "[]" {
		t.Errorf("expected empty initial snapshot, got %q", first)
	}

	appointment := &model.Appointment{
		ID:     "watch-1",
		Date:   "2026-01-05",
		Time:   "09:30",
		Status: model.StatusBooked,
	}
	if err := repo.Create(context.Background(), appointment); err != nil {
		t.Fatalf("failed to seed appointment: %v", err)
	}
	hub.Notify(context.Background(), "2026-01-05")

	second := readDataLine(t, scanner)
	if !strings.Contains(second, "09:30") {
		t.Errorf("expected snapshot with booked appointment, got %q", second)
	}
}

func readDataLine(t *testing.T, scanner *bufio.Scanner) string {
	t.Helper()
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: ") {
			return strings.TrimPrefix(line, "data: ")
		}
	}
	t.Fatalf("stream ended without a data line: %v", scanner.Err())
	return ""
}

func TestDeleteMapsNotFound(t *testing.T) {
	svc := &mockService{
		deleteFunc: func(context.Context, *model.Session, string) error {
			return apperrors.NotFoundWithID("Appointment", "missing")
		},
	}
	_, router := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/appointments/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
