package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboarding/pkg/requestcontext"
)

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = requestcontext.RequestID(r.Context())
	}))

	t.Run("adopts caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "req-1")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, "req-1", seen)
		assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))
	})

	t.Run("assigns one", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
	})
}

func TestRecovery(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := Recovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal_error"}`, w.Body.String())
}

func TestClientIP(t *testing.T) {
	proxies, err := ParseTrustedProxies([]string{"10.0.0.0/8", "192.0.2.9"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		trusted TrustedProxies
		headers map[string]string
		remote  string
		want    string
	}{
		{"untrusted peer ignores forwarded for", nil, map[string]string{"X-Forwarded-For": "203.0.113.7"}, "198.51.100.1:1234", "198.51.100.1"},
		{"untrusted peer ignores real ip", nil, map[string]string{"X-Real-IP": "203.0.113.7"}, "198.51.100.1:1234", "198.51.100.1"},
		{"trusted proxy chain", proxies, map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.2:1234", "203.0.113.7"},
		{"spoofed leading entries are skipped", proxies, map[string]string{"X-Forwarded-For": "1.2.3.4, 203.0.113.7"}, "10.0.0.2:1234", "203.0.113.7"},
		{"single trusted address", proxies, map[string]string{"X-Forwarded-For": "203.0.113.8"}, "192.0.2.9:80", "203.0.113.8"},
		{"trusted proxy real ip", proxies, map[string]string{"X-Real-IP": " 198.51.100.4 "}, "10.0.0.2:1234", "198.51.100.4"},
		{"trusted proxy without headers", proxies, nil, "10.0.0.2:1234", "10.0.0.2"},
		{"remote ipv4", nil, nil, "192.0.2.1:5555", "192.0.2.1"},
		{"remote ipv6", nil, nil, "[::1]:5555", "::1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, tt.trusted.ClientIP(req))
		})
	}

	t.Run("rejects malformed proxy entries", func(t *testing.T) {
		_, err := ParseTrustedProxies([]string{"10.0.0.0/8", "proxy.local"})
		assert.Error(t, err)
	})
}

func TestClientMetadataFeedsRateLimitKey(t *testing.T) {
	var seen []string
	h := ClientMetadata(nil)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = append(seen, requestcontext.ClientIP(r.Context()))
	}))
	for _, spoof := range []string{"203.0.113.1", "203.0.113.2"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "198.51.100.1:4000"
		req.Header.Set("X-Forwarded-For", spoof)
		h.ServeHTTP(httptest.NewRecorder(), req)
	}
	assert.Equal(t, []string{"198.51.100.1", "198.51.100.1"}, seen, "rotating the header does not change the key")
}
