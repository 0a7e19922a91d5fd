package handler

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"

	"epiwatch/internal/platform/middleware"
	"epiwatch/internal/region/models"
	"epiwatch/internal/transport/http/shared"
	dErrors "epiwatch/pkg/domain-errors"
)

// Service defines the interface for region operations.
type Service interface {
	TopLevel(ctx context.Context) ([]models.Region, error)
	Subregions(ctx context.Context, id models.ID) ([]models.Region, error)
	Get(ctx context.Context, id models.ID) (*models.Region, error)
	Current(ip net.IP) models.ID
}

// Handler handles region endpoints.
type Handler struct {
	logger  *slog.Logger
	regions Service
}

// New creates a new region Handler.
func New(regions Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, regions: regions}
}

// Register registers the region routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/data/region", h.handleTopLevel)
	r.Get("/data/region/current", h.handleCurrent)
	r.Get("/data/region/{id}", h.handleGet)
	r.Get("/data/region/{id}/subregions", h.handleSubregions)
}

func (h *Handler) handleTopLevel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	regions, err := h.regions.TopLevel(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list regions",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, regions)
}

// handleCurrent infers the caller's region from the client IP. The router's
// RealIP middleware has already folded X-Forwarded-For into RemoteAddr.
func (h *Handler) handleCurrent(w http.ResponseWriter, r *http.Request) {
	id := h.regions.Current(clientIP(r))
	shared.WriteJSON(w, http.StatusOK, id)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := models.Parse(chi.URLParam(r, "id"))

	region, err := h.regions.Get(ctx, id)
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "failed to get region",
				"request_id", middleware.GetRequestID(ctx),
				"region", id.String(),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, region)
}

func (h *Handler) handleSubregions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := models.Parse(chi.URLParam(r, "id"))

	regions, err := h.regions.Subregions(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list subregions",
			"request_id", middleware.GetRequestID(ctx),
			"region", id.String(),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, regions)
}

func clientIP(r *http.Request) net.IP {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return net.ParseIP(host)
}
