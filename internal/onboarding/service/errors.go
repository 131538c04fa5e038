package service

import (
	"errors"
	"fmt"
	"strings"

	"onboarding/internal/onboarding/validation"
	dErrors "onboarding/pkg/domain-errors"
	"onboarding/pkg/platform/sentinel"
)

// InvalidFormError is returned by Submit when the form does not pass
// validation. It unwraps to a CodeValidation domain error.
type InvalidFormError struct {
	Errors validation.Errors
}

func (e *InvalidFormError) Error() string {
	return fmt.Sprintf("form has %d validation errors: %s", len(e.Errors), strings.Join(e.Errors.Paths(), ", "))
}

func (e *InvalidFormError) Unwrap() error {
	return dErrors.New(dErrors.CodeValidation, "form has validation errors")
}

// translate maps store sentinels onto domain errors. Errors that already
// carry a code pass through.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "session not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "session was changed by another request, reload and retry")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+op)
	}
}
