package service

import (
	"context"
	"strings"

	"onboarding/internal/onboarding/submission"
	dErrors "onboarding/pkg/domain-errors"
	"onboarding/pkg/platform/audit"
)

// Submit files the application. The form must pass validation and carry
// the compliance data the documents need; otherwise nothing is rendered.
// After every document succeeded the session and its uploads are deleted.
func (s *Service) Submit(ctx context.Context, id string) (*submission.Result, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	review := s.review(sess.State)

	if !review.Errors.Empty() {
		s.metrics.ObserveValidation(metricFields(review.Errors))
		if err := s.storeErrors(ctx, sess, review.Errors); err != nil {
			s.logger.WarnContext(ctx, "failed to store validation errors",
				"session_id", id,
				"error", err,
			)
		}
		s.track(ctx, id, audit.EventSubmissionRejected, "validation")
		return nil, &InvalidFormError{Errors: review.Errors}
	}
	if len(review.Issues) > 0 {
		s.track(ctx, id, audit.EventSubmissionRejected, "compliance_data")
		return nil, dErrors.New(dErrors.CodeUnprocessable,
			"compliance data incomplete: "+strings.Join(review.Issues, "; "))
	}

	result, err := s.submitter.Submit(ctx, id, sess.State, review.Templates)
	if err != nil {
		return nil, err
	}
	if result.Success() {
		if err := s.remove(ctx, sess, "submitted"); err != nil {
			s.logger.ErrorContext(ctx, "failed to delete submitted session",
				"session_id", id,
				"error", err,
			)
		}
	}
	return result, nil
}

// Status reports the submission state of a session. It stays available
// after a successful submission removed the session itself.
func (s *Service) Status(_ context.Context, id string) (submission.Status, *submission.Result) {
	return s.submitter.Status(id)
}
