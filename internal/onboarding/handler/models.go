package handler

import (
	"time"

	"onboarding/internal/onboarding/models"
	"onboarding/internal/onboarding/state"
	"onboarding/internal/onboarding/store"
	"onboarding/internal/onboarding/submission"
	"onboarding/internal/onboarding/validation"
)

type ApplyActionsRequest struct {
	Actions []state.Envelope `json:"actions" validate:"required,min=1,max=100"`
}

type ValidateStepRequest struct {
	Step int `json:"step" validate:"min=1,max=14"`
}

type SessionResponse struct {
	SessionID string           `json:"sessionId"`
	Version   int64            `json:"version"`
	ExpiresAt time.Time        `json:"expiresAt"`
	State     models.FormState `json:"state"`
}

func toSessionResponse(sess *store.Session) SessionResponse {
	return SessionResponse{
		SessionID: sess.ID,
		Version:   sess.Version,
		ExpiresAt: sess.ExpiresAt,
		State:     sess.State,
	}
}

type ValidateStepResponse struct {
	Valid  bool              `json:"valid"`
	Errors validation.Errors `json:"errors"`
}

type SubmissionResponse struct {
	Status     submission.Status           `json:"status"`
	Documents  []submission.DocumentResult `json:"documents,omitempty"`
	Summary    *submission.Summary         `json:"summary,omitempty"`
	Errors     []string                    `json:"errors,omitempty"`
	StartedAt  *time.Time                  `json:"startedAt,omitempty"`
	FinishedAt *time.Time                  `json:"finishedAt,omitempty"`
}

func toSubmissionResponse(status submission.Status, r *submission.Result) SubmissionResponse {
	resp := SubmissionResponse{Status: status}
	if r == nil {
		return resp
	}
	summary := r.Summary()
	resp.Documents = r.Documents
	resp.Summary = &summary
	resp.Errors = r.Errors()
	if !r.StartedAt.IsZero() {
		resp.StartedAt = &r.StartedAt
	}
	if !r.FinishedAt.IsZero() {
		resp.FinishedAt = &r.FinishedAt
	}
	return resp
}
