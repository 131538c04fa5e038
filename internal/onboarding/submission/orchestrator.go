// Package submission generates the regulatory documents for a finished
// onboarding form: one render request per selected template, sequentially,
// with partial failures recorded rather than aborting the run.
package submission

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"onboarding/internal/onboarding/mapping"
	"onboarding/internal/onboarding/models"
	"onboarding/internal/onboarding/templates"
	dErrors "onboarding/pkg/domain-errors"
	"onboarding/pkg/platform/audit"
	"onboarding/pkg/requestcontext"
)

const tracerName = "onboarding/internal/onboarding/submission"

// Template request results used as metric labels.
const (
	resultSuccess      = "success"
	resultMappingError = "mapping_error"
	resultRenderError  = "render_error"
)

// Orchestrator runs document generation for a session.
type Orchestrator struct {
	mapper   *mapping.Mapper
	renderer Renderer
	tracker  *Tracker
	auditor  AuditPublisher
	metrics  *Metrics
	logger   *slog.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// Option configures the Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// WithAuditor sets the compliance publisher. Without one, runs are not
// audited.
func WithAuditor(a AuditPublisher) Option {
	return func(o *Orchestrator) {
		o.auditor = a
	}
}

// WithTracker shares a tracker between orchestrators.
func WithTracker(t *Tracker) Option {
	return func(o *Orchestrator) {
		o.tracker = t
	}
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *Orchestrator) {
		o.tracer = tp.Tracer(tracerName)
	}
}

// WithClock sets the clock used for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// NewOrchestrator creates an orchestrator that maps with mapper and renders
// through renderer.
func NewOrchestrator(mapper *mapping.Mapper, renderer Renderer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		mapper:   mapper,
		renderer: renderer,
		logger:   slog.Default(),
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.tracker == nil {
		o.tracker = NewTracker(DefaultRetention)
	}
	return o
}

// Status returns the submission status of a session.
func (o *Orchestrator) Status(sessionID string) (Status, *Result) {
	return o.tracker.Status(sessionID)
}

// Submit renders every template in order. It returns an error only when the
// run could not start (in flight, already submitted, nothing selected,
// audit unavailable); template failures are reported in the Result.
//
// Once started the run is not cancelled by ctx: earlier documents cannot be
// rolled back, so stopping halfway would only lose the later ones.
func (o *Orchestrator) Submit(ctx context.Context, sessionID string, s models.FormState, ids []templates.ID) (*Result, error) {
	if len(ids) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "no templates selected")
	}
	if err := o.tracker.Begin(sessionID); err != nil {
		return nil, err
	}

	ctx = context.WithoutCancel(ctx)
	started := o.now()
	if err := o.emit(ctx, sessionID, audit.EventSubmissionStarted, string(StatusSubmitting), templateList(ids)); err != nil {
		o.tracker.Abort(sessionID)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record submission")
	}

	docs := make([]DocumentResult, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, o.render(ctx, sessionID, s, id))
	}

	result := &Result{
		Status:     outcome(docs),
		Documents:  docs,
		StartedAt:  started,
		FinishedAt: o.now(),
	}
	o.tracker.Finish(sessionID, result)
	o.metrics.IncrementSubmission(result.Status)

	if err := o.emit(ctx, sessionID, audit.EventSubmissionCompleted, string(result.Status), strings.Join(result.Errors(), "; ")); err != nil {
		// The documents exist either way; the start event already marks the run.
		o.logger.ErrorContext(ctx, "failed to record submission outcome",
			"session_id", sessionID,
			"error", err,
		)
	}

	sum := result.Summary()
	o.logger.InfoContext(ctx, "submission finished",
		"session_id", sessionID,
		"status", result.Status,
		"total", sum.Total,
		"successful", sum.Successful,
		"failed", sum.Failed,
		"duration_ms", result.FinishedAt.Sub(started).Milliseconds(),
	)
	return result, nil
}

func (o *Orchestrator) render(ctx context.Context, sessionID string, s models.FormState, id templates.ID) DocumentResult {
	ctx, span := o.tracer.Start(ctx, "submission.render",
		trace.WithAttributes(
			attribute.String("session.id", sessionID),
			attribute.String("template.id", string(id)),
		))
	defer span.End()

	start := time.Now()
	doc := DocumentResult{Template: id}

	payload, err := o.mapper.Map(s, id)
	if err != nil {
		doc.Error = mappingMessage(err)
		o.fail(ctx, span, sessionID, id, resultMappingError, err, start)
		return doc
	}

	resp, err := o.renderer.Render(ctx, Request{
		Payload:     payload,
		Attachments: attachments(s, payload),
	})
	if err != nil {
		doc.Error = err.Error()
		o.fail(ctx, span, sessionID, id, resultRenderError, err, start)
		return doc
	}

	doc.Success = true
	doc.PDFPath = resp.PDFPath
	doc.SubmissionTimestamp = resp.SubmissionTimestamp
	o.metrics.ObserveTemplate(string(id), resultSuccess, time.Since(start))
	o.logger.InfoContext(ctx, "template rendered",
		"session_id", sessionID,
		"template_id", id,
		"pdf_path", resp.PDFPath,
	)
	return doc
}

func (o *Orchestrator) fail(ctx context.Context, span trace.Span, sessionID string, id templates.ID, result string, err error, start time.Time) {
	span.RecordError(err)
	span.SetStatus(codes.Error, result)
	o.metrics.ObserveTemplate(string(id), result, time.Since(start))
	o.logger.WarnContext(ctx, "template failed",
		"session_id", sessionID,
		"template_id", id,
		"result", result,
		"error", err,
	)
}

// mappingMessage keeps the mapper's user-facing message and drops the
// internal cause.
func mappingMessage(err error) string {
	var de *dErrors.Error
	if errors.As(err, &de) && de.Code == dErrors.CodeMapping {
		return de.Message
	}
	return mapping.UnexpectedDataError
}

// attachments lists the additional uploads in slot order for templates that
// carry them.
func attachments(s models.FormState, p mapping.Payload) []Attachment {
	if !p.Attachments {
		return nil
	}
	var out []Attachment
	for _, slot := range models.AdditionalSlots {
		if f := s.AdditionalInfo.Get(slot); f != nil {
			out = append(out, Attachment{Field: string(slot), File: f})
		}
	}
	return out
}

func (o *Orchestrator) emit(ctx context.Context, sessionID string, action audit.AuditEvent, decision, reason string) error {
	if o.auditor == nil {
		return nil
	}
	return o.auditor.Emit(ctx, audit.ComplianceEvent{
		Timestamp: o.now(),
		SessionID: sessionID,
		Action:    string(action),
		Decision:  decision,
		Reason:    reason,
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  requestcontext.ClientIP(ctx),
	})
}

func templateList(ids []templates.ID) string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return strings.Join(out, ", ")
}
