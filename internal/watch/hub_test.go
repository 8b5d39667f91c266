package watch

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"bookly/pkg/events"
	"bookly/pkg/kafka"
	"bookly/pkg/logger"
	"bookly/pkg/model"
)

func newChangeMessage(change events.Change) (kafka.Message, error) {
	return kafka.NewMessage().
		WithKey(change.Date).
		WithValue(change).
		WithEventType(change.Kind).
		WithSource("test").
		Build()
}

func newRawMessage(key string, value []byte) (kafka.Message, error) {
	return kafka.Message{Key: key, Value: value}, nil
}

type fakeReader struct {
	mu    sync.Mutex
	byDay map[string][]*model.Appointment
	reads int
}

func newFakeReader() *fakeReader {
	return &fakeReader{byDay: make(map[string][]*model.Appointment)}
}

func (f *fakeReader) set(date string, appointments []*model.Appointment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byDay[date] = appointments
}

func (f *fakeReader) FindByDate(_ context.Context, date string) ([]*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return f.byDay[date], nil
}

func (f *fakeReader) readCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Output: io.Discard})
}

func appointmentAt(date, clock string) *model.Appointment {
	return &model.Appointment{
		ID:     clock,
		Date:   date,
		Time:   clock,
		Status: model.StatusBooked,
	}
}

func receive(t *testing.T, sub *Subscription) []*model.Appointment {
	t.Helper()
	select {
	case snapshot := <-sub.C:
		return snapshot
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestSubscribeDeliversInitialSnapshot(t *testing.T) {
	reader := newFakeReader()
	reader.set("2026-01-05", []*model.Appointment{appointmentAt("2026-01-05", "09:00")})
	hub := NewHub(reader, testLogger())

	sub, err := hub.Subscribe(context.Background(), "2026-01-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sub.Close()

	snapshot := receive(t, sub)
	if len(snapshot) != 1 || snapshot[0].Time != "09:00" {
		t.Errorf("expected initial snapshot with one appointment, got %v", snapshot)
	}
}

func TestNotifyReplacesSnapshotWholesale(t *testing.T) {
	reader := newFakeReader()
	reader.set("2026-01-05", []*model.Appointment{appointmentAt("2026-01-05", "09:00")})
	hub := NewHub(reader, testLogger())

	sub, err := hub.Subscribe(context.Background(), "2026-01-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sub.Close()
	receive(t, sub)

	reader.set("2026-01-05", []*model.Appointment{
		appointmentAt("2026-01-05", "09:00"),
		appointmentAt("2026-01-05", "10:30"),
	})
	hub.Notify(context.Background(), "2026-01-05")

	snapshot := receive(t, sub)
	if len(snapshot) != 2 {
		t.Errorf("expected two appointments after notify, got %d", len(snapshot))
	}
}

func TestNotifyIgnoresUnwatchedDates(t *testing.T) {
	reader := newFakeReader()
	hub := NewHub(reader, testLogger())

	sub, err := hub.Subscribe(context.Background(), "2026-01-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sub.Close()
	receive(t, sub)
	readsAfterSubscribe := reader.readCount()

	hub.Notify(context.Background(), "2026-02-14")

	if reader.readCount() != readsAfterSubscribe {
		t.Error("expected no store read for an unwatched date")
	}
	select {
	case snapshot := <-sub.C:
		t.Errorf("expected no snapshot for other-date change, got %v", snapshot)
	default:
	}
}

func TestSlowSubscriberSeesLatestSnapshot(t *testing.T) {
	reader := newFakeReader()
	hub := NewHub(reader, testLogger())

	sub, err := hub.Subscribe(context.Background(), "2026-01-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sub.Close()
	receive(t, sub)

	// Two notifications without a read in between. Only the newest snapshot
	// survives.
	reader.set("2026-01-05", []*model.Appointment{appointmentAt("2026-01-05", "09:00")})
	hub.Notify(context.Background(), "2026-01-05")
	reader.set("2026-01-05", []*model.Appointment{
		appointmentAt("2026-01-05", "09:00"),
		appointmentAt("2026-01-05", "11:00"),
	})
	hub.Notify(context.Background(), "2026-01-05")

	snapshot := receive(t, sub)
	if len(snapshot) != 2 {
		t.Errorf("expected latest snapshot with two appointments, got %d", len(snapshot))
	}
	select {
	case stale := <-sub.C:
		t.Errorf("expected stale snapshot to be displaced, got %v", stale)
	default:
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	reader := newFakeReader()
	hub := NewHub(reader, testLogger())

	sub, err := hub.Subscribe(context.Background(), "2026-01-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	receive(t, sub)
	sub.Close()

	hub.Notify(context.Background(), "2026-01-05")

	if _, open := <-sub.C; open {
		t.Error("expected channel closed after unsubscribe")
	}
}

func TestChangeHandlerRoutesAppointmentEvents(t *testing.T) {
	reader := newFakeReader()
	hub := NewHub(reader, testLogger())
	handler := ChangeHandler(hub, testLogger())

	sub, err := hub.Subscribe(context.Background(), "2026-01-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sub.Close()
	receive(t, sub)

	reader.set("2026-01-05", []*model.Appointment{appointmentAt("2026-01-05", "09:30")})
	msg, err := newChangeMessage(events.Change{
		Kind: events.KindAppointmentBooked,
		Date: "2026-01-05",
	})
	if err != nil {
		t.Fatalf("failed to build message: %v", err)
	}
	if err := handler(context.Background(), msg); err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}

	snapshot := receive(t, sub)
	if len(snapshot) != 1 || snapshot[0].Time != "09:30" {
		t.Errorf("expected refreshed snapshot, got %v", snapshot)
	}
}

func TestChangeHandlerCommitsMalformedEvents(t *testing.T) {
	hub := NewHub(newFakeReader(), testLogger())
	handler := ChangeHandler(hub, testLogger())

	msg, err := newRawMessage("2026-01-05", []byte("not json"))
	if err != nil {
		t.Fatalf("failed to build message: %v", err)
	}
	if err := handler(context.Background(), msg); err != nil {
		t.Errorf("expected malformed event to be committed, got %v", err)
	}
}
