package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with sane defaults for this project. The write
// timeout leaves room for a submission that renders several documents.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}
}
