package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"onboarding/internal/onboarding/models"
	"onboarding/pkg/platform/sentinel"
)

// InMemoryFileStore keeps uploaded blobs in memory. Only their FileRef
// travels with the form state.
//
// Each blob belongs to a session and lives as long as that session: Extend
// moves the expiry of all of a session's blobs along with the session TTL,
// and Sweep drops blobs whose session was never extended again. Blobs of
// sessions that expire without being deleted are therefore reclaimed too.
type InMemoryFileStore struct {
	mu      sync.RWMutex
	blobs   map[string]*blob
	maxSize int64
	ttl     time.Duration
	now     func() time.Time
}

type blob struct {
	data      []byte
	owner     string
	expiresAt time.Time
}

// NewInMemoryFileStore creates a store rejecting blobs above maxSize bytes.
// New blobs live for ttl (DefaultTTL when ttl <= 0) unless extended.
func NewInMemoryFileStore(maxSize int64, ttl time.Duration) *InMemoryFileStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &InMemoryFileStore{
		blobs:   make(map[string]*blob),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put reads r completely and stores it for session owner. Content above the
// size cap is rejected with sentinel.ErrTooLarge before it is fully
// buffered.
func (s *InMemoryFileStore) Put(_ context.Context, owner, name, contentType string, r io.Reader) (*models.FileRef, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, fmt.Errorf("upload %s: %w", name, sentinel.ErrTooLarge)
	}

	ref := &models.FileRef{
		ID:          uuid.NewString(),
		Name:        name,
		Size:        int64(len(data)),
		ContentType: contentType,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweep(now)
	s.blobs[ref.ID] = &blob{data: data, owner: owner, expiresAt: now.Add(s.ttl)}
	return ref, nil
}

// Open returns a reader over the blob.
func (s *InMemoryFileStore) Open(_ context.Context, id string) (io.ReadCloser, error) {
	s.mu.RLock()
	b, ok := s.blobs[id]
	s.mu.RUnlock()
	if !ok || !s.now().Before(b.expiresAt) {
		return nil, fmt.Errorf("file %s: %w", id, sentinel.ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(b.data)), nil
}

func (s *InMemoryFileStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[id]; !ok {
		return fmt.Errorf("file %s: %w", id, sentinel.ErrNotFound)
	}
	delete(s.blobs, id)
	return nil
}

// Extend keeps every blob of owner until at least until.
func (s *InMemoryFileStore) Extend(_ context.Context, owner string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.blobs {
		if b.owner == owner && b.expiresAt.Before(until) {
			b.expiresAt = until
		}
	}
	return nil
}

// Sweep drops expired blobs and reports how many were removed.
func (s *InMemoryFileStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweep(s.now())
}

// sweep must be called with mu held.
func (s *InMemoryFileStore) sweep(now time.Time) int {
	n := 0
	for id, b := range s.blobs {
		if !now.Before(b.expiresAt) {
			delete(s.blobs, id)
			n++
		}
	}
	return n
}
