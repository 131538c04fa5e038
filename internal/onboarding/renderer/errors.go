package renderer

import "fmt"

// Category classifies a render failure.
type Category string

const (
	CategoryRequest     Category = "request"
	CategoryNetwork     Category = "network"
	CategoryHTTPStatus  Category = "http_status"
	CategoryBadResponse Category = "bad_response"
)

// Error is a failed render call. Error() returns the message shown for the
// template, which is the backend's own wording when it sent one.
type Error struct {
	Category   Category
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func requestError(err error, format string, args ...any) *Error {
	return &Error{Category: CategoryRequest, Message: fmt.Sprintf(format, args...), Err: err}
}
