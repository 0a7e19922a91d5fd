// Package httpapi assembles the HTTP router: middleware chain, data routes,
// operational endpoints, and the optional static client bundle.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"epiwatch/internal/platform/metrics"
	"epiwatch/internal/platform/middleware"
)

// Pinger is anything with a health-checkable connection (the storage pool).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Registrar mounts a handler's routes on the router.
type Registrar interface {
	Register(r chi.Router)
}

// Deps are the constructed dependencies the router wires together.
type Deps struct {
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Storage  Pinger
	Throttle func(http.Handler) http.Handler // nil disables throttling
	Handlers []Registrar

	// StaticDir serves a client bundle with an index.html fallback when
	// non-empty.
	StaticDir string
}

// New builds the router.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Latency(deps.Metrics))

	r.Group(func(r chi.Router) {
		if deps.Throttle != nil {
			r.Use(deps.Throttle)
		}
		for _, h := range deps.Handlers {
			h.Register(r)
		}
	})

	r.Get("/healthz", handleHealth(deps.Storage))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	if deps.StaticDir != "" {
		mountStatic(r, deps.StaticDir)
	}

	return r
}

func handleHealth(storage Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := storage.PingContext(ctx); err != nil {
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

// mountStatic serves files from dir, falling back to index.html for client
// side routing.
func mountStatic(r chi.Router, dir string) {
	fs := http.FileServer(http.Dir(dir))
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		path := filepath.Join(dir, filepath.Clean("/"+req.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			fs.ServeHTTP(w, req)
			return
		}
		http.ServeFile(w, req, filepath.Join(dir, "index.html"))
	})
}
