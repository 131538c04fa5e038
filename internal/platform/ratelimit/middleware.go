package ratelimit

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"onboarding/internal/platform/httputil"
	"onboarding/pkg/requestcontext"
)

// Middleware refuses requests from a client address that exceeded the
// limiter's budget. It relies on ClientMetadata having stored the address.
func Middleware(l *Limiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := requestcontext.ClientIP(r.Context())
			res := l.Allow(ip)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed {
				retry := int(math.Ceil(res.RetryAfter.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				logger.WarnContext(r.Context(), "rate limit exceeded",
					"client_ip", ip,
					"path", r.URL.Path,
				)
				httputil.WriteJSON(w, http.StatusTooManyRequests, httputil.ErrorResponse{
					Error:       "rate_limit_exceeded",
					Description: "too many requests, try again later",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
