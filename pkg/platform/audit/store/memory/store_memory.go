package memory

import (
	"context"
	"slices"
	"sync"

	audit "onboarding/pkg/platform/audit"
)

// InMemoryStore keeps audit events per session. It backs the audit trail
// when no Kafka brokers are configured and serves as the store in tests.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[string][]audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[string][]audit.Event)}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[string][]audit.Event)
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.SessionID] = append(s.events[event.SessionID], event)
	return nil
}

// ListBySession returns the events of one session in append order.
func (s *InMemoryStore) ListBySession(_ context.Context, sessionID string) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events[sessionID]...), nil
}

// ListRecent returns the most recent limit events across all sessions,
// newest first.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	var all []audit.Event
	for _, events := range s.events {
		all = append(all, events...)
	}
	s.mu.RUnlock()

	slices.SortStableFunc(all, func(a, b audit.Event) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	if limit >= 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
