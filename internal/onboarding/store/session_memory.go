package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"onboarding/pkg/platform/sentinel"
)

// InMemorySessionStore keeps sessions in process memory. Expired sessions
// are treated as absent and swept on writes.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewInMemorySessionStore creates a store; ttl <= 0 selects DefaultTTL.
func NewInMemorySessionStore(ttl time.Duration) *InMemorySessionStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &InMemorySessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *InMemorySessionStore) Create(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweep(now)

	if _, ok := s.sessions[sess.ID]; ok {
		return fmt.Errorf("session %s: %w", sess.ID, sentinel.ErrConflict)
	}
	sess.Version = 1
	sess.CreatedAt = now
	sess.UpdatedAt = now
	sess.ExpiresAt = now.Add(s.ttl)
	s.sessions[sess.ID] = sess.clone()
	return nil
}

func (s *InMemorySessionStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok || sess.Expired(s.now()) {
		return nil, fmt.Errorf("session %s: %w", id, sentinel.ErrNotFound)
	}
	return sess.clone(), nil
}

// Save stores sess if nobody saved since it was read, then bumps its
// version and extends its TTL.
func (s *InMemorySessionStore) Save(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()

	current, ok := s.sessions[sess.ID]
	if !ok || current.Expired(now) {
		return fmt.Errorf("session %s: %w", sess.ID, sentinel.ErrNotFound)
	}
	if current.Version != sess.Version {
		return fmt.Errorf("session %s at version %d, have %d: %w", sess.ID, current.Version, sess.Version, sentinel.ErrConflict)
	}
	sess.Version++
	sess.CreatedAt = current.CreatedAt
	sess.UpdatedAt = now
	sess.ExpiresAt = now.Add(s.ttl)
	s.sessions[sess.ID] = sess.clone()
	return nil
}

func (s *InMemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || sess.Expired(s.now()) {
		return fmt.Errorf("session %s: %w", id, sentinel.ErrNotFound)
	}
	delete(s.sessions, id)
	return nil
}

// sweep must be called with mu held.
func (s *InMemorySessionStore) sweep(now time.Time) {
	for id, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, id)
		}
	}
}
