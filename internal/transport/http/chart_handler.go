package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"bikeshare/internal/charts"
	apierrors "bikeshare/internal/errors"
	"bikeshare/internal/infrastructure"
	"bikeshare/internal/middleware"
	api "bikeshare/pkg/contracts/api/v1"
)

// ChartHandler renders dashboard figures as PNG
type ChartHandler struct {
	service      DashboardServiceInterface
	validator    *middleware.Validator
	metrics      *infrastructure.BusinessMetrics
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewChartHandler creates a chart handler. metrics may be nil.
func NewChartHandler(service DashboardServiceInterface, validator *middleware.Validator, metrics *infrastructure.BusinessMetrics, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ChartHandler {
	return &ChartHandler{
		service:      service,
		validator:    validator,
		metrics:      metrics,
		logger:       logger.With(slog.String("component", "chart_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the /charts routes
func (h *ChartHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(h.validator.ValidateDateRange)
	r.Get("/{figure}.png", h.GetFigure)
	return r
}

// GetFigure handles GET /charts/{figure}.png
func (h *ChartHandler) GetFigure(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dr, _ := middleware.DateRangeFromContext(ctx)
	req := api.FigureRequest{DateRangeRequest: dr, Figure: chi.URLParam(r, "figure")}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, pathNotFound(err, "figure", "FIGURE_NOT_FOUND", "Figure"))
		return
	}

	rng, err := resolveRange(r, h.service)
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return
	}
	d, err := h.service.Dashboard(ctx, rng)
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return
	}

	start := time.Now()
	var buf bytes.Buffer
	err = charts.Render(ctx, req.Figure, d.Views, &buf)
	infrastructure.RecordRender(ctx, h.metrics, req.Figure, time.Since(start), err)
	if err != nil {
		h.logger.ErrorContext(ctx, "figure render failed",
			slog.String("figure", req.Figure),
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, renderError(err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
