// Package handler exposes the onboarding wizard over HTTP.
package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"onboarding/internal/onboarding/models"
	"onboarding/internal/onboarding/service"
	"onboarding/internal/onboarding/state"
	"onboarding/internal/onboarding/store"
	"onboarding/internal/onboarding/submission"
	"onboarding/internal/onboarding/validation"
	"onboarding/internal/platform/httputil"
	dErrors "onboarding/pkg/domain-errors"
	"onboarding/pkg/requestcontext"
)

// Service defines the wizard operations the handler needs.
type Service interface {
	Start(ctx context.Context) (*store.Session, error)
	Get(ctx context.Context, id string) (*store.Session, error)
	Apply(ctx context.Context, id string, actions ...state.Action) (*store.Session, error)
	Validate(ctx context.Context, id string, step int) (validation.Errors, error)
	Review(ctx context.Context, id string) (*service.Review, error)
	AttachFile(ctx context.Context, id string, u service.Upload) (*models.FileRef, error)
	Submit(ctx context.Context, id string) (*submission.Result, error)
	Status(ctx context.Context, id string) (submission.Status, *submission.Result)
	Delete(ctx context.Context, id string) error
}

// multipartOverhead is allowed on top of the file size limit for the other
// parts and the multipart framing.
const multipartOverhead = 1 << 20

// Handler serves the onboarding endpoints.
type Handler struct {
	service        Service
	logger         *slog.Logger
	maxUploadBytes int64
}

// New creates a Handler. maxUploadBytes <= 0 selects the validation default.
func New(svc Service, logger *slog.Logger, maxUploadBytes int64) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = validation.DefaultMaxFileSize
	}
	return &Handler{service: svc, logger: logger, maxUploadBytes: maxUploadBytes}
}

// Register mounts the routes under /onboarding.
func (h *Handler) Register(r chi.Router) {
	r.Route("/onboarding/sessions", func(r chi.Router) {
		r.Post("/", h.handleStart)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Delete("/", h.handleDelete)
			r.Post("/actions", h.handleApply)
			r.Post("/validate", h.handleValidate)
			r.Get("/review", h.handleReview)
			r.Post("/files/{slot}", h.handleUpload)
			r.Post("/submit", h.handleSubmit)
			r.Get("/submission", h.handleStatus)
		})
	})
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Start(r.Context())
	if err != nil {
		h.fail(w, r, "failed to start session", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toSessionResponse(sess))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "failed to load session", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSessionResponse(sess))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "failed to delete session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	var req ApplyActionsRequest
	if err := httputil.DecodeJSON(r.Body, &req); err != nil {
		h.fail(w, r, "invalid actions request", err)
		return
	}
	actions := make([]state.Action, 0, len(req.Actions))
	for _, env := range req.Actions {
		a, err := env.Action()
		if err != nil {
			h.fail(w, r, "invalid action", err)
			return
		}
		if carriesUpload(a) {
			h.fail(w, r, "invalid action", dErrors.New(dErrors.CodeBadRequest,
				"files can only be attached through the upload endpoint"))
			return
		}
		actions = append(actions, a)
	}

	sess, err := h.service.Apply(r.Context(), chi.URLParam(r, "id"), actions...)
	if err != nil {
		h.fail(w, r, "failed to apply actions", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toSessionResponse(sess))
}

// carriesUpload reports whether a client-sent action would reference a file
// it did not upload. Clearing a slot is allowed.
func carriesUpload(a state.Action) bool {
	switch a := a.(type) {
	case *state.AttachEntityFile:
		return a.File != nil
	case *state.AttachPersonFile:
		return a.File != nil
	case *state.AttachAdditionalFile:
		return a.File != nil
	}
	return false
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateStepRequest
	if err := httputil.DecodeJSON(r.Body, &req); err != nil {
		h.fail(w, r, "invalid validate request", err)
		return
	}
	errs, err := h.service.Validate(r.Context(), chi.URLParam(r, "id"), req.Step)
	if err != nil {
		h.fail(w, r, "failed to validate step", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ValidateStepResponse{Valid: errs.Empty(), Errors: errs})
}

func (h *Handler) handleReview(w http.ResponseWriter, r *http.Request) {
	review, err := h.service.Review(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "failed to build review", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, struct {
		*service.Review
		Ready bool `json:"ready"`
	}{review, review.Ready()})
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	limit := h.maxUploadBytes + multipartOverhead
	if r.ContentLength > limit {
		h.fail(w, r, "upload too large", dErrors.New(dErrors.CodeValidation, validation.SizeMessage(h.maxUploadBytes)))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(w, r, "upload too large", dErrors.New(dErrors.CodeValidation, validation.SizeMessage(h.maxUploadBytes)))
			return
		}
		h.fail(w, r, "invalid upload", dErrors.Wrap(err, dErrors.CodeBadRequest, "expected a multipart form"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		h.fail(w, r, "invalid upload", dErrors.Wrap(err, dErrors.CodeBadRequest, "file part is required"))
		return
	}
	defer file.Close()

	ref, err := h.service.AttachFile(r.Context(), chi.URLParam(r, "id"), service.Upload{
		Slot:        chi.URLParam(r, "slot"),
		PersonID:    r.FormValue("personId"),
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		h.fail(w, r, "failed to attach file", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, ref)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	start := time.Now()
	result, err := h.service.Submit(r.Context(), id)
	if err != nil {
		var invalid *service.InvalidFormError
		if errors.As(err, &invalid) {
			httputil.WriteErrorWithFields(w, err, invalid.Errors)
			return
		}
		h.fail(w, r, "submission rejected", err)
		return
	}
	h.logger.InfoContext(r.Context(), "submission finished",
		"session_id", id,
		"status", result.Status,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", requestcontext.RequestID(r.Context()),
	)
	httputil.WriteJSON(w, http.StatusOK, toSubmissionResponse(result.Status, result))
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, result := h.service.Status(r.Context(), chi.URLParam(r, "id"))
	httputil.WriteJSON(w, http.StatusOK, toSubmissionResponse(status, result))
}

// fail logs err at a level matching its code and writes the error response.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	attrs := []any{
		"session_id", chi.URLParam(r, "id"),
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	}
	if status := httputil.StatusFor(dErrors.CodeOf(err)); status >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, attrs...)
	} else {
		h.logger.WarnContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}
