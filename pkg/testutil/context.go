package testutil

import (
	"net/http"
	"time"

	"onboarding/pkg/requestcontext"
)

// WithRequestContext sets the request ID and the request clock the way the
// middleware chain would.
func WithRequestContext(req *http.Request, requestID string, now time.Time) *http.Request {
	ctx := requestcontext.WithRequestID(req.Context(), requestID)
	ctx = requestcontext.WithTime(ctx, now)
	return req.WithContext(ctx)
}
