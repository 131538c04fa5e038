// Package ops records operational audit events: fire-and-forget, sampled,
// buffered, and shed entirely while the store is failing.
package ops

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	audit "onboarding/pkg/platform/audit"
	"onboarding/pkg/platform/audit/worker"
)

// DefaultBufferSize bounds the events waiting to be persisted.
const DefaultBufferSize = 1024

// Tracker emits ops events without ever blocking or failing the caller.
type Tracker struct {
	inbox   chan audit.Event
	sampler *Sampler
	breaker *CircuitBreaker
	metrics *Metrics
	logger  *slog.Logger
	now     func() time.Time

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// Option configures a Tracker.
type Option func(*Tracker)

func WithSampler(s *Sampler) Option {
	return func(t *Tracker) {
		t.sampler = s
	}
}

func WithCircuitBreaker(cb *CircuitBreaker) Option {
	return func(t *Tracker) {
		t.breaker = cb
	}
}

func WithMetrics(m *Metrics) Option {
	return func(t *Tracker) {
		t.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

// WithBufferSize sets the number of events that may wait for the store.
func WithBufferSize(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.inbox = make(chan audit.Event, n)
		}
	}
}

// New starts a tracker persisting into store. Call Close to drain it.
func New(store audit.Store, opts ...Option) *Tracker {
	t := &Tracker{
		inbox:   make(chan audit.Event, DefaultBufferSize),
		sampler: NewSampler(1),
		breaker: NewCircuitBreaker(0, 0),
		logger:  slog.Default(),
		now:     time.Now,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.breaker.onChange = t.metrics.SetCircuitBreakerState

	w := worker.NewWorker(guarded{store: store, breaker: t.breaker}, t.inbox,
		worker.OnSaved(func(audit.Event) { t.metrics.IncTracked() }),
		worker.OnError(t.persistFailed),
	)
	go func() {
		defer close(t.done)
		_ = w.Run(context.Background())
	}()
	return t
}

// Track queues event without blocking. Events that cannot be queued are
// dropped and counted.
func (t *Tracker) Track(event audit.OpsEvent) {
	if !t.sampler.Keep(event.Action) {
		t.metrics.IncSampled()
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = t.now()
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		t.metrics.IncDropped()
		return
	}
	select {
	case t.inbox <- event.ToEvent():
	default:
		t.metrics.IncDropped()
	}
}

// Close stops accepting events and waits until queued ones are persisted or
// ctx is done.
func (t *Tracker) Close(ctx context.Context) error {
	t.mu.Lock()
	if !t.closed {
		t.closed = true
		close(t.inbox)
	}
	t.mu.Unlock()

	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Tracker) persistFailed(event audit.Event, err error) {
	if errors.Is(err, ErrCircuitOpen) {
		t.metrics.IncCircuitBreakerDropped()
		return
	}
	t.metrics.IncPersistFailures()
	t.logger.Warn("ops audit event not persisted",
		"action", event.Action,
		"session_id", event.SessionID,
		"error", err,
	)
}

// guarded routes appends through the circuit breaker.
type guarded struct {
	store   audit.Store
	breaker *CircuitBreaker
}

func (g guarded) Append(ctx context.Context, event audit.Event) error {
	return g.breaker.Do(func() error {
		return g.store.Append(ctx, event)
	})
}
