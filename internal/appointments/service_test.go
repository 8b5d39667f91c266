package appointments

import (
	"context"
	"io"
	"sync"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"

	dbmongo "bookly/pkg/db/mongo"
	apperrors "bookly/pkg/errors"
	"bookly/pkg/events"
	"bookly/pkg/logger"
	"bookly/pkg/model"
	"bookly/pkg/validation"
)

// memoryRepository backs the booking tests with an in-memory (date, time)
// map guarded by a mutex, mirroring the unique partial index.
type memoryRepository struct {
	mu           sync.Mutex
	appointments map[string]*model.Appointment
	byDateErr    error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		appointments: make(map[string]*model.Appointment),
	}
}

func slotKey(date, clock string) string {
	return date + "_" + clock
}

func (m *memoryRepository) Create(_ context.Context, appointment *model.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := slotKey(appointment.Date, appointment.Time)
	if _, exists := m.appointments[key]; exists {
		return ErrSlotTaken
	}
	m.appointments[key] = appointment
	return nil
}

func (m *memoryRepository) FindByDate(_ context.Context, date string) ([]*model.Appointment, error) {
	if m.byDateErr != nil {
		return nil, m.byDateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*model.Appointment{}
	for _, a := range m.appointments {
		if a.Date == date {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *memoryRepository) FindAll(_ context.Context) ([]*model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []*model.Appointment{}
	for _, a := range m.appointments {
		result = append(result, a)
	}
	return result, nil
}

func (m *memoryRepository) ExistsBookedAt(_ context.Context, date, clock string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, exists := m.appointments[slotKey(date, clock)]
	return exists, nil
}

func (m *memoryRepository) Delete(_ context.Context, id string) (*model.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, a := range m.appointments {
		if a.ID == id {
			delete(m.appointments, key)
			return a, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memoryRepository) EnsureIndexes(context.Context) error {
	return nil
}

type memoryHolds struct {
	mu    sync.Mutex
	holds map[string]string
}

func newMemoryHolds() *memoryHolds {
	return &memoryHolds{holds: make(map[string]string)}
}

func (m *memoryHolds) Acquire(_ context.Context, date, clock, holder string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := slotKey(date, clock)
	if _, held := m.holds[key]; held {
		return ErrHoldHeld
	}
	m.holds[key] = holder
	return nil
}

func (m *memoryHolds) Release(_ context.Context, date, clock, holder string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := slotKey(date, clock)
	if m.holds[key] == holder {
		delete(m.holds, key)
	}
	return nil
}

func (m *memoryHolds) EnsureIndexes(context.Context) error {
	return nil
}

// passthroughTxManager runs the transaction function directly. The memory
// repository is already atomic per operation.
type passthroughTxManager struct{}

func (passthroughTxManager) ExecuteTransaction(ctx context.Context, fn dbmongo.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

type staticConfigs struct {
	cfg *model.Config
}

func (s staticConfigs) Get(context.Context) *model.Config {
	return s.cfg
}

type capturePublisher struct {
	mu      sync.Mutex
	changes []events.Change
}

func (c *capturePublisher) PublishChange(_ context.Context, change events.Change) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.changes = append(c.changes, change)
	return nil
}

func workingDay() *model.Config {
	return &model.Config{
		SlotDurationMin: 30,
		StartTime:       "09:00",
		EndTime:         "12:00",
		BlockedSlots:    []string{"10:00"},
	}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Output: io.Discard})
}

func adminSession() *model.Session {
	return &model.Session{Principal: "admin", Admin: true}
}

func newBookingService(repo Repository, holds HoldRepository, pub events.Publisher) Service {
	return NewService(repo, holds, passthroughTxManager{}, staticConfigs{cfg: workingDay()}, pub, validation.New(), testLogger())
}

func validRequest() *BookingRequest {
	return &BookingRequest{
		Date:  "05/01/2026",
		Time:  "09:30",
		Name:  "Asha Rao",
		Phone: "+919876543210",
	}
}

func TestBookCreatesAppointment(t *testing.T) {
	repo := newMemoryRepository()
	pub := &capturePublisher{}
	svc := newBookingService(repo, newMemoryHolds(), pub)

	appointment, err := svc.Book(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if appointment.Date != "2026-01-05" {
		t.Errorf("expected canonical date 2026-01-05, got %s", appointment.Date)
	}
	if appointment.Status != model.StatusBooked {
		t.Errorf("expected status booked, got %s", appointment.Status)
	}
	if appointment.CustomerPhone != "+919876543210" {
		t.Errorf("expected E.164 phone, got %s", appointment.CustomerPhone)
	}
	if appointment.ID == "" {
		t.Error("expected generated id")
	}

	if len(pub.changes) != 1 || pub.changes[0].Kind != events.KindAppointmentBooked {
		t.Fatalf("expected one booked event, got %v", pub.changes)
	}
	if pub.changes[0].Date != "2026-01-05" {
		t.Errorf("expected event keyed by date, got %q", pub.changes[0].Date)
	}
}

func TestBookReportsMissingFields(t *testing.T) {
	svc := newBookingService(newMemoryRepository(), newMemoryHolds(), nil)

	_, err := svc.Book(context.Background(), &BookingRequest{Time: "09:30"})
	if !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}

	appErr := apperrors.AsAppError(err)
	missing, ok := appErr.Details["missing_fields"].([]string)
	if !ok {
		t.Fatalf("expected missing_fields detail, got %v", appErr.Details)
	}
	if len(missing) != 3 {
		t.Errorf("expected date, customer_name and customer_phone listed, got %v", missing)
	}
}

func TestBookRejectsBlockedSlot(t *testing.T) {
	svc := newBookingService(newMemoryRepository(), newMemoryHolds(), nil)

	req := validRequest()
	req.Time = "10:00"
	_, err := svc.Book(context.Background(), req)
	if !apperrors.IsCode(err, apperrors.CodeSlotUnavailable) {
		t.Errorf("expected SLOT_UNAVAILABLE for blocked slot, got %v", err)
	}
}

func TestBookRejectsTimeOutsideWorkingDay(t *testing.T) {
	svc := newBookingService(newMemoryRepository(), newMemoryHolds(), nil)

	req := validRequest()
	req.Time = "13:00"
	_, err := svc.Book(context.Background(), req)
	if !apperrors.IsCode(err, apperrors.CodeSlotUnavailable) {
		t.Errorf("expected SLOT_UNAVAILABLE for off-grid time, got %v", err)
	}
}

func TestBookRejectsAlreadyBookedSlot(t *testing.T) {
	repo := newMemoryRepository()
	svc := newBookingService(repo, newMemoryHolds(), nil)

	if _, err := svc.Book(context.Background(), validRequest()); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	req := validRequest()
	req.Name = "Ravi Kumar"
	req.Phone = "+919812345678"
	_, err := svc.Book(context.Background(), req)
	if !apperrors.IsCode(err, apperrors.CodeSlotUnavailable) {
		t.Errorf("expected SLOT_UNAVAILABLE for booked slot, got %v", err)
	}
}

func TestConcurrentBookingsOneWinner(t *testing.T) {
	repo := newMemoryRepository()
	svc := newBookingService(repo, newMemoryHolds(), &capturePublisher{})

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Book(context.Background(), validRequest())
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case apperrors.IsCode(err, apperrors.CodeConflict),
			apperrors.IsCode(err, apperrors.CodeSlotUnavailable):
		default:
			t.Errorf("unexpected error kind: %v", err)
		}
	}
	if winners != 1 {
		t.Errorf("expected exactly one winning booking, got %d", winners)
	}

	stored, err := repo.FindByDate(context.Background(), "2026-01-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stored) != 1 {
		t.Errorf("expected one stored appointment, got %d", len(stored))
	}
}

func TestGetSlotsForDate(t *testing.T) {
	repo := newMemoryRepository()
	svc := newBookingService(repo, newMemoryHolds(), nil)

	if _, err := svc.Book(context.Background(), validRequest()); err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	daySlots, err := svc.GetSlotsForDate(context.Background(), "2026-01-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 09:00 to 12:00 at 30 minutes, end exclusive.
	if len(daySlots) != 6 {
		t.Fatalf("expected 6 slots, got %d", len(daySlots))
	}
	for _, slot := range daySlots {
		switch slot.Time {
		case "09:30":
			if !slot.IsBooked || slot.Available {
				t.Errorf("expected 09:30 booked, got %+v", slot)
			}
		case "10:00":
			if !slot.IsBlocked || slot.Available {
				t.Errorf("expected 10:00 blocked, got %+v", slot)
			}
		default:
			if !slot.Available {
				t.Errorf("expected %s available, got %+v", slot.Time, slot)
			}
		}
	}
}

func TestGetSlotsForDateDegradesOnReadFailure(t *testing.T) {
	repo := newMemoryRepository()
	repo.byDateErr = apperrors.Internal("read failed", nil)
	svc := newBookingService(repo, newMemoryHolds(), nil)

	daySlots, err := svc.GetSlotsForDate(context.Background(), "05/01/2026")
	if err != nil {
		t.Fatalf("expected degraded slot view, got error %v", err)
	}
	for _, slot := range daySlots {
		if slot.IsBooked {
			t.Errorf("expected no booked slots in degraded view, got %+v", slot)
		}
	}
}

func TestGetSlotsForDateRejectsMalformedDate(t *testing.T) {
	svc := newBookingService(newMemoryRepository(), newMemoryHolds(), nil)

	_, err := svc.GetSlotsForDate(context.Background(), "next tuesday")
	if !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo := newMemoryRepository()
	pub := &capturePublisher{}
	svc := newBookingService(repo, newMemoryHolds(), pub)

	appointment, err := svc.Book(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	if err := svc.Delete(context.Background(), adminSession(), appointment.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(pub.changes) != 2 || pub.changes[1].Kind != events.KindAppointmentDeleted {
		t.Fatalf("expected deleted event, got %v", pub.changes)
	}

	err = svc.Delete(context.Background(), adminSession(), appointment.ID)
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected NOT_FOUND for second delete, got %v", err)
	}
}

func TestDeleteRequiresAdmin(t *testing.T) {
	svc := newBookingService(newMemoryRepository(), newMemoryHolds(), nil)

	err := svc.Delete(context.Background(), nil, "some-id")
	if !apperrors.IsCode(err, apperrors.CodeUnauthorized) {
		t.Errorf("expected UNAUTHORIZED, got %v", err)
	}

	err = svc.Delete(context.Background(), &model.Session{Principal: "guest"}, "some-id")
	if !apperrors.IsCode(err, apperrors.CodeForbidden) {
		t.Errorf("expected FORBIDDEN, got %v", err)
	}
}

func TestListRequiresAdmin(t *testing.T) {
	svc := newBookingService(newMemoryRepository(), newMemoryHolds(), nil)

	_, err := svc.List(context.Background(), &model.Session{Principal: "guest"}, "")
	if !apperrors.IsCode(err, apperrors.CodeForbidden) {
		t.Errorf("expected FORBIDDEN, got %v", err)
	}
}
