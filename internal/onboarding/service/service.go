// Package service runs the onboarding wizard for one session at a time.
//
// It loads the session, applies reducer actions, validates, and hands a
// complete application to the submission orchestrator. Handlers stay thin:
// every rule that needs more than one component lives here.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"io"
	"log/slog"
	"time"

	"onboarding/internal/onboarding/mapping"
	"onboarding/internal/onboarding/models"
	"onboarding/internal/onboarding/state"
	"onboarding/internal/onboarding/store"
	"onboarding/internal/onboarding/submission"
	"onboarding/internal/onboarding/templates"
	"onboarding/internal/onboarding/validation"
	"onboarding/pkg/platform/audit"
	"onboarding/pkg/requestcontext"
)

type SessionStore interface {
	Create(ctx context.Context, sess *store.Session) error
	Get(ctx context.Context, id string) (*store.Session, error)
	Save(ctx context.Context, sess *store.Session) error
	Delete(ctx context.Context, id string) error
}

// FileStore holds uploaded blobs. Blobs belong to a session and expire with
// it unless Extend moves them along with the session's TTL.
type FileStore interface {
	Put(ctx context.Context, sessionID, name, contentType string, r io.Reader) (*models.FileRef, error)
	Extend(ctx context.Context, sessionID string, until time.Time) error
	Delete(ctx context.Context, id string) error
}

// Submitter generates the compliance documents of a session.
type Submitter interface {
	Submit(ctx context.Context, sessionID string, s models.FormState, ids []templates.ID) (*submission.Result, error)
	Status(sessionID string) (submission.Status, *submission.Result)
}

// AuditPublisher records compliance events and fails when they cannot be
// persisted.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.ComplianceEvent) error
}

// OpsTracker records routine wizard activity. It must not block.
type OpsTracker interface {
	Track(event audit.OpsEvent)
}

// Service implements the wizard operations on top of the session store.
type Service struct {
	sessions  SessionStore
	files     FileStore
	submitter Submitter
	mapper    *mapping.Mapper
	reducer   *state.Reducer
	validator *validation.Validator
	selector  templates.Selector
	auditor   AuditPublisher
	ops       OpsTracker
	metrics   *Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithValidator replaces the default validator, e.g. to require the UID.
func WithValidator(v *validation.Validator) Option {
	return func(s *Service) {
		if v != nil {
			s.validator = v
		}
	}
}

func WithSelector(sel templates.Selector) Option {
	return func(s *Service) {
		s.selector = sel
	}
}

func WithReducer(r *state.Reducer) Option {
	return func(s *Service) {
		if r != nil {
			s.reducer = r
		}
	}
}

func WithAuditor(a AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = a
	}
}

func WithOpsTracker(t OpsTracker) Option {
	return func(s *Service) {
		s.ops = t
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// clock prefers the injected clock, then the request's pinned time.
func (s *Service) clock(ctx context.Context) time.Time {
	if s.now != nil {
		return s.now()
	}
	return requestcontext.Now(ctx)
}

// New creates a Service. The file store may be nil when uploads are not
// offered; AttachFile then fails.
func New(sessions SessionStore, files FileStore, submitter Submitter, mapper *mapping.Mapper, opts ...Option) *Service {
	s := &Service{
		sessions:  sessions,
		files:     files,
		submitter: submitter,
		mapper:    mapper,
		reducer:   state.NewReducer(),
		validator: validation.New(validation.Config{}),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) track(ctx context.Context, sessionID string, event audit.AuditEvent, subject string) {
	if s.ops == nil {
		return
	}
	s.ops.Track(audit.OpsEvent{
		Timestamp: s.clock(ctx),
		SessionID: sessionID,
		Action:    string(event),
		Subject:   subject,
		RequestID: requestcontext.RequestID(ctx),
	})
}
