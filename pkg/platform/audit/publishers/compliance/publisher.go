// Package compliance provides a fail-closed audit publisher for regulatory
// events.
//
// Emit writes synchronously and the caller blocks until the store accepts the
// event. If the write fails an error is returned and the calling operation
// must not proceed.
//
// Use for: submission_started, submission_completed, session_deleted
package compliance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	audit "onboarding/pkg/platform/audit"
)

// Publisher emits compliance events with fail-closed semantics.
type Publisher struct {
	store   audit.Store
	logger  *slog.Logger
	metrics *Metrics
	now     func() time.Time
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithLogger sets a logger for error reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// WithClock sets the clock used for missing timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Publisher) {
		p.now = now
	}
}

// New creates a compliance publisher over store.
func New(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit synchronously writes a compliance event to the audit store.
// Returns error if persistence fails - the caller MUST fail its operation.
func (p *Publisher) Emit(ctx context.Context, event audit.ComplianceEvent) error {
	start := time.Now()

	if event.SessionID == "" {
		return errors.New("compliance event requires SessionID")
	}
	if event.Action == "" {
		return errors.New("compliance event requires Action")
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}

	if err := p.store.Append(ctx, event.ToEvent()); err != nil {
		p.metrics.IncPersistFailures()
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "CRITICAL: compliance audit failed",
				"action", event.Action,
				"session_id", event.SessionID,
				"error", err,
			)
		}
		return fmt.Errorf("compliance audit persistence failed: %w", err)
	}

	p.metrics.ObservePersistDuration(time.Since(start).Seconds())
	p.metrics.IncEventsEmitted()
	return nil
}
