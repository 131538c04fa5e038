package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"onboarding/internal/onboarding/mapping"
	"onboarding/internal/onboarding/models"
	"onboarding/internal/onboarding/risk"
	"onboarding/internal/onboarding/state"
	"onboarding/internal/onboarding/store"
	"onboarding/internal/onboarding/submission"
	"onboarding/internal/onboarding/templates"
	"onboarding/internal/onboarding/validation"
	dErrors "onboarding/pkg/domain-errors"
	"onboarding/pkg/platform/audit"
	"onboarding/pkg/requestcontext"
)

// Start creates an empty session.
func (s *Service) Start(ctx context.Context) (*store.Session, error) {
	sess := &store.Session{
		ID:    uuid.NewString(),
		State: s.reducer.NewState(),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, translate(err, "create session")
	}
	s.metrics.IncSessionsStarted()
	s.track(ctx, sess.ID, audit.EventSessionStarted, "")
	s.logger.InfoContext(ctx, "onboarding session started", "session_id", sess.ID)
	return sess, nil
}

func (s *Service) Get(ctx context.Context, id string) (*store.Session, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, translate(err, "load session")
	}
	return sess, nil
}

// Apply reduces actions into the session state and saves it. Either all
// actions apply or the session is left unchanged.
func (s *Service) Apply(ctx context.Context, id string, actions ...state.Action) (*store.Session, error) {
	if len(actions) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "no actions given")
	}
	sess, err := s.editable(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := s.reducer.Reduce(sess.State, actions...)
	if err != nil {
		return nil, err
	}
	sess.State = next
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	s.track(ctx, id, audit.EventActionsApplied, actionTypes(actions))
	return sess, nil
}

// editable loads a session that is not being submitted. Changing the form
// while its documents are rendered would make the filed documents disagree
// with the session.
func (s *Service) editable(ctx context.Context, id string) (*store.Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if status, _ := s.submitter.Status(id); status == submission.StatusSubmitting {
		return nil, dErrors.New(dErrors.CodeConflict, "a submission is in progress for this session")
	}
	return sess, nil
}

func actionTypes(actions []state.Action) string {
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = a.Type()
	}
	return strings.Join(names, ",")
}

// Validate checks one wizard step and stores the outcome as the session's
// validation errors, so the next read shows them inline.
func (s *Service) Validate(ctx context.Context, id string, step int) (validation.Errors, error) {
	sess, err := s.editable(ctx, id)
	if err != nil {
		return nil, err
	}
	errs, err := s.validator.Step(sess.State, step)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, fmt.Sprintf("unknown step %d", step))
	}
	if err := s.storeErrors(ctx, sess, errs); err != nil {
		return nil, err
	}
	s.metrics.ObserveValidation(metricFields(errs))
	s.track(ctx, id, audit.EventFormValidated, "step "+strconv.Itoa(step))
	return errs, nil
}

func (s *Service) storeErrors(ctx context.Context, sess *store.Session, errs validation.Errors) error {
	next, err := s.reducer.Reduce(sess.State, state.SetValidationErrors{Errors: errs})
	if err != nil {
		return err
	}
	sess.State = next
	return s.save(ctx, sess)
}

// metricFields drops row indices so the label set stays bounded.
func metricFields(errs validation.Errors) []string {
	out := make([]string, 0, len(errs))
	for _, p := range errs.Paths() {
		parts := strings.Split(p, ".")
		for i, part := range parts {
			if _, err := strconv.Atoi(part); err == nil {
				parts[i] = "*"
			}
		}
		out = append(out, strings.Join(parts, "."))
	}
	return out
}

// Review is everything the review step shows before submission.
type Review struct {
	State     models.FormState  `json:"state"`
	Risk      risk.Result       `json:"risk"`
	RiskLevel risk.Level        `json:"riskLevel"`
	Templates []templates.ID    `json:"templates"`
	Errors    validation.Errors `json:"errors"`
	Warnings  []string          `json:"warnings"`
	// Issues are compliance data gaps that block submission even when the
	// form itself is valid.
	Issues []string `json:"issues"`
}

// Ready reports whether Submit would pass its checks.
func (r *Review) Ready() bool {
	return r.Errors.Empty() && len(r.Issues) == 0
}

func (s *Service) Review(ctx context.Context, id string) (*Review, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.review(sess.State), nil
}

func (s *Service) review(st models.FormState) *Review {
	r := risk.Classify(st)
	return &Review{
		State:     st,
		Risk:      r,
		RiskLevel: risk.LevelOf(st),
		Templates: s.selector.Select(st, r),
		Errors:    s.validator.Form(st),
		Warnings:  mapping.Warnings(st),
		Issues:    mapping.CheckVQF(s.mapper.VQF(st)),
	}
}

// Delete abandons a session and its uploads.
func (s *Service) Delete(ctx context.Context, id string) error {
	sess, err := s.editable(ctx, id)
	if err != nil {
		return err
	}
	return s.remove(ctx, sess, "abandoned")
}

func (s *Service) remove(ctx context.Context, sess *store.Session, reason string) error {
	if err := s.sessions.Delete(ctx, sess.ID); err != nil {
		return translate(err, "delete session")
	}
	s.dropFiles(ctx, fileRefs(sess.State))
	if s.auditor != nil {
		err := s.auditor.Emit(ctx, audit.ComplianceEvent{
			Timestamp: s.clock(ctx),
			SessionID: sess.ID,
			Subject:   sess.State.CustomerName(),
			Action:    string(audit.EventSessionDeleted),
			Reason:    reason,
			RequestID: requestcontext.RequestID(ctx),
			ClientIP:  requestcontext.ClientIP(ctx),
		})
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to record session deletion",
				"session_id", sess.ID,
				"error", err,
			)
		}
	}
	return nil
}
