// Package watch fans appointment change notifications out to per-date
// subscribers. Every notification triggers a fresh read of the store and the
// full day snapshot replaces whatever the subscriber held before.
package watch

import (
	"context"
	"sync"

	"bookly/pkg/logger"
	"bookly/pkg/model"
)

// Reader loads the appointments of one day. The hub never trusts event
// payloads for state; it re-reads on every notification.
type Reader interface {
	FindByDate(ctx context.Context, date string) ([]*model.Appointment, error)
}

// Subscription delivers full day snapshots on C. The channel holds at most
// one pending snapshot; a newer one displaces it, so slow consumers always
// see the latest state rather than a backlog.
type Subscription struct {
	C chan []*model.Appointment

	date string
	hub  *Hub
	once sync.Once
}

// Close detaches the subscription from the hub and closes C.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.unsubscribe(s)
		close(s.C)
	})
}

type Hub struct {
	reader Reader
	log    *logger.Logger

	mu   sync.Mutex
	subs map[string]map[*Subscription]struct{}
}

func NewHub(reader Reader, log *logger.Logger) *Hub {
	return &Hub{
		reader: reader,
		log:    log,
		subs:   make(map[string]map[*Subscription]struct{}),
	}
}

// Subscribe registers interest in one canonical date and synchronously
// delivers the current snapshot before any notifications arrive.
func (h *Hub) Subscribe(ctx context.Context, date string) (*Subscription, error) {
	snapshot, err := h.reader.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	sub := &Subscription{
		C:    make(chan []*model.Appointment, 1),
		date: date,
		hub:  h,
	}
	sub.C <- snapshot

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[date] == nil {
		h.subs[date] = make(map[*Subscription]struct{})
	}
	h.subs[date][sub] = struct{}{}
	return sub, nil
}

// Notify re-reads the given date and pushes the snapshot to its subscribers.
// Dates nobody watches are dropped without touching the store.
func (h *Hub) Notify(ctx context.Context, date string) {
	h.mu.Lock()
	watchers := len(h.subs[date])
	h.mu.Unlock()
	if watchers == 0 {
		return
	}

	snapshot, err := h.reader.FindByDate(ctx, date)
	if err != nil {
		h.log.Warn("failed to load snapshot for watchers", "date", date, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs[date] {
		// Latest wins: displace a pending snapshot instead of blocking.
		select {
		case <-sub.C:
		default:
		}
		select {
		case sub.C <- snapshot:
		default:
		}
	}
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[sub.date]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, sub.date)
		}
	}
}
