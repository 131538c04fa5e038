// Package domainerrors carries coded errors across layer boundaries.
//
// Services return *Error values (or wrap infrastructure errors with Wrap) so the
// transport layer can translate them into status codes without string matching.
// Validation results of the onboarding form are data, not errors; use this
// package for failures of an operation as a whole.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain failure.
type Code string

const (
	CodeBadRequest    Code = "bad_request"
	CodeValidation    Code = "validation_error"
	CodeInvalidInput  Code = "invalid_input"
	CodeNotFound      Code = "not_found"
	CodeConflict      Code = "conflict"
	CodeUnprocessable Code = "unprocessable"
	CodeMapping       Code = "mapping_error"
	CodeUpstream      Code = "upstream_error"
	CodeInternal      Code = "internal_error"
)

// Error is a coded domain error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether any error in the chain carries code.
func HasCode(err error, code Code) bool {
	var de *Error
	for err != nil {
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// CodeOf returns the outermost code in the chain, or CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
