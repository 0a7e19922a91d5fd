package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"epiwatch/internal/disease/models"
	"epiwatch/internal/news"
	"epiwatch/internal/platform/middleware"
	regionmodels "epiwatch/internal/region/models"
	"epiwatch/internal/transport/http/shared"
	dErrors "epiwatch/pkg/domain-errors"
)

// Service defines the interface for disease statistics operations.
type Service interface {
	Catalog(ctx context.Context) ([]models.Disease, error)
	Summary(ctx context.Context, id string) (*models.Detail, error)
	InRegion(ctx context.Context, diseaseID string, region regionmodels.ID) (*models.RegionReport, error)
	News(ctx context.Context, diseaseID string, region regionmodels.ID) ([]news.Article, error)
}

// Handler handles disease endpoints.
type Handler struct {
	logger   *slog.Logger
	diseases Service
}

// New creates a new disease Handler.
func New(diseases Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, diseases: diseases}
}

// Register registers the disease routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/data/disease", h.handleCatalog)
	r.Get("/data/disease/{id}", h.handleSummary)
	r.Get("/data/disease/{id}/in/{region}", h.handleInRegion)
	r.Get("/data/disease/{id}/in/{region}/news", h.handleNews)
}

func (h *Handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	diseases, err := h.diseases.Catalog(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list diseases",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, diseases)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := normalize(chi.URLParam(r, "id"))

	detail, err := h.diseases.Summary(ctx, id)
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "failed to aggregate disease summary",
				"request_id", middleware.GetRequestID(ctx),
				"disease", id,
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, detail)
}

func (h *Handler) handleInRegion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := normalize(chi.URLParam(r, "id"))
	region := regionmodels.Parse(chi.URLParam(r, "region"))

	report, err := h.diseases.InRegion(ctx, id, region)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to aggregate disease series",
			"request_id", middleware.GetRequestID(ctx),
			"disease", id,
			"region", region.String(),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) handleNews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := normalize(chi.URLParam(r, "id"))
	region := regionmodels.Parse(chi.URLParam(r, "region"))

	articles, err := h.diseases.News(ctx, id, region)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeUnavailable) {
			h.logger.WarnContext(ctx, "news provider unavailable",
				"request_id", middleware.GetRequestID(ctx),
				"disease", id,
				"error", err.Error(),
			)
		} else if !dErrors.Is(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "failed to search news",
				"request_id", middleware.GetRequestID(ctx),
				"disease", id,
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, articles)
}

// normalize uppercases a disease id; like region ids, unknown values surface
// as not-found from storage rather than parse errors.
func normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
