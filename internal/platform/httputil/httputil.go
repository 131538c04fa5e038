// Package httputil writes JSON responses and translates domain errors into
// HTTP status codes.
package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	dErrors "onboarding/pkg/domain-errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrorResponse is the error envelope of every endpoint.
type ErrorResponse struct {
	Error       string            `json:"error"`
	Description string            `json:"error_description,omitempty"`
	Fields      map[string]string `json:"fields,omitempty"`
}

// StatusFor maps a domain error code to its HTTP status.
func StatusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest, dErrors.CodeInvalidInput:
		return http.StatusBadRequest
	case dErrors.CodeValidation, dErrors.CodeUnprocessable:
		return http.StatusUnprocessableEntity
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError writes err as an ErrorResponse. Internal failures keep their
// description out of the response.
func WriteError(w http.ResponseWriter, err error) {
	WriteErrorWithFields(w, err, nil)
}

// WriteErrorWithFields is WriteError plus per-field messages.
func WriteErrorWithFields(w http.ResponseWriter, err error, fields map[string]string) {
	code := dErrors.CodeOf(err)
	status := StatusFor(code)
	resp := ErrorResponse{Error: string(code), Fields: fields}
	if status < http.StatusInternalServerError {
		var de *dErrors.Error
		if errors.As(err, &de) {
			resp.Description = de.Message
		}
	}
	WriteJSON(w, status, resp)
}

// DecodeJSON reads a JSON body into dst and validates its struct tags.
func DecodeJSON(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request body")
	}
	return Validate(dst)
}

// Validate checks the validator tags of v.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return dErrors.New(dErrors.CodeBadRequest, strings.Join(msgs, "; "))
}
