package submission

import (
	"sync"
	"time"

	dErrors "onboarding/pkg/domain-errors"
)

var (
	// ErrInFlight rejects a submission while another one for the same
	// session is running.
	ErrInFlight = dErrors.New(dErrors.CodeConflict, "submission already in progress")
	// ErrAlreadySubmitted rejects a submission after a fully successful run.
	ErrAlreadySubmitted = dErrors.New(dErrors.CodeConflict, "documents already submitted")
)

// DefaultRetention is how long finished runs stay queryable.
const DefaultRetention = 24 * time.Hour

type run struct {
	status     Status
	result     *Result
	finishedAt time.Time
}

// Tracker holds the submission status of each session. A session may be
// resubmitted after a partial or total failure, never after success.
type Tracker struct {
	mu        sync.Mutex
	runs      map[string]*run
	retention time.Duration
	now       func() time.Time
}

// NewTracker creates an empty tracker. Finished runs older than retention
// are dropped lazily; retention <= 0 selects DefaultRetention.
func NewTracker(retention time.Duration) *Tracker {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Tracker{
		runs:      make(map[string]*run),
		retention: retention,
		now:       time.Now,
	}
}

// Begin marks the session as submitting.
func (t *Tracker) Begin(sessionID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.prune()

	if r, ok := t.runs[sessionID]; ok {
		switch r.status {
		case StatusSubmitting:
			return ErrInFlight
		case StatusSuccess:
			return ErrAlreadySubmitted
		}
	}
	t.runs[sessionID] = &run{status: StatusSubmitting}
	return nil
}

// Finish records the outcome of the run started by Begin.
func (t *Tracker) Finish(sessionID string, result *Result) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.runs[sessionID] = &run{
		status:     result.Status,
		result:     result,
		finishedAt: t.now(),
	}
}

// Abort returns the session to idle when a run ends before any template was
// attempted.
func (t *Tracker) Abort(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.runs, sessionID)
}

// Status returns the current status and, once finished, the last result.
func (t *Tracker) Status(sessionID string) (Status, *Result) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.runs[sessionID]
	if !ok {
		return StatusIdle, nil
	}
	return r.status, r.result
}

// prune must be called with mu held.
func (t *Tracker) prune() {
	cutoff := t.now().Add(-t.retention)
	for id, r := range t.runs {
		if r.status.Terminal() && r.finishedAt.Before(cutoff) {
			delete(t.runs, id)
		}
	}
}
