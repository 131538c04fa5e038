package worker

import (
	"context"

	audit "onboarding/pkg/platform/audit"
)

// Worker drains audit events from a channel into a store. Persistence
// errors go to the error hook and never stop the loop.
type Worker struct {
	store   audit.Store
	inbox   <-chan audit.Event
	onError func(audit.Event, error)
	onSaved func(audit.Event)
}

// Option configures a Worker.
type Option func(*Worker)

// OnError is called for every event the store rejected.
func OnError(fn func(audit.Event, error)) Option {
	return func(w *Worker) {
		w.onError = fn
	}
}

// OnSaved is called for every persisted event.
func OnSaved(fn func(audit.Event)) Option {
	return func(w *Worker) {
		w.onSaved = fn
	}
}

func NewWorker(store audit.Store, inbox <-chan audit.Event, opts ...Option) *Worker {
	w := &Worker{store: store, inbox: inbox}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run persists events until the inbox is closed, returning nil, or ctx is
// done, returning its error.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			w.persist(ctx, event)
		}
	}
}

func (w *Worker) persist(ctx context.Context, event audit.Event) {
	if err := w.store.Append(ctx, event); err != nil {
		if w.onError != nil {
			w.onError(event, err)
		}
		return
	}
	if w.onSaved != nil {
		w.onSaved(event)
	}
}
