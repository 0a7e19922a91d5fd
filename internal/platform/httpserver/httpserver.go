package httpserver

import (
	"net/http"
	"time"
)

// New builds the HTTP server. Request deadlines are owned by deployment
// infrastructure; only the header read is bounded here.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
