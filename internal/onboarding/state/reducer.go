// Package state applies named update actions to the onboarding form.
//
// Every change to a FormState goes through Reduce, which is a pure function of
// (state, action): the input is cloned, the action is applied to the clone,
// and on failure the untouched input is returned with the error. Callers keep
// whichever state they want; nothing here holds on to one.
package state

import (
	"fmt"

	"github.com/google/uuid"

	"onboarding/internal/onboarding/models"
	dErrors "onboarding/pkg/domain-errors"
)

// Action is a named, typed update of one form section.
type Action interface {
	// Type is the wire name used in action envelopes.
	Type() string
	apply(s *models.FormState, env env) error
}

type env struct {
	newID func() string
}

// Reducer applies actions. The zero value is not usable; use NewReducer.
type Reducer struct {
	env env
}

// Option configures a Reducer.
type Option func(*Reducer)

// WithIDGenerator replaces the uuid generator used for new rows. Tests use
// it to keep reduced states comparable.
func WithIDGenerator(gen func() string) Option {
	return func(r *Reducer) {
		r.env.newID = gen
	}
}

// NewReducer creates a reducer that assigns uuid row IDs.
func NewReducer(opts ...Option) *Reducer {
	r := &Reducer{env: env{newID: func() string { return uuid.NewString() }}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reduce applies actions in order. Either all actions apply or none do.
func (r *Reducer) Reduce(s models.FormState, actions ...Action) (models.FormState, error) {
	next := s.Clone()
	for _, a := range actions {
		if a == nil {
			return s, dErrors.New(dErrors.CodeBadRequest, "action is required")
		}
		if err := a.apply(&next, r.env); err != nil {
			return s, err
		}
	}
	return next, nil
}

// NewState returns a fresh form whose first establishing person has an ID
// from the reducer's generator.
func (r *Reducer) NewState() models.FormState {
	return models.New(r.env.newID())
}

var defaultReducer = NewReducer()

// Reduce applies actions with the default reducer.
func Reduce(s models.FormState, actions ...Action) (models.FormState, error) {
	return defaultReducer.Reduce(s, actions...)
}

func invalid(format string, args ...any) error {
	return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf(format, args...))
}

func unknownField(section, field string) error {
	return invalid("unknown %s field %q", section, field)
}

func notFound(kind, id string) error {
	return dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("%s %q not found", kind, id))
}
