package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"bikeshare/internal/charts"
	apierrors "bikeshare/internal/errors"
	"bikeshare/internal/kpi"
	"bikeshare/internal/middleware"
	api "bikeshare/pkg/contracts/api/v1"
	"bikeshare/pkg/contracts/domain"
)

// DashboardHandler serves the JSON API over the dashboard service
type DashboardHandler struct {
	service      DashboardServiceInterface
	validator    *middleware.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, validator *middleware.Validator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the /api routes owned by this handler
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/bounds", h.GetBounds)
	r.Get("/dataset", h.GetDataset)
	r.Post("/dataset/reload", h.ReloadDataset)
	r.Get("/views", h.ListViews)

	r.Group(func(r chi.Router) {
		r.Use(h.validator.ValidateDateRange)
		r.Get("/dashboard", h.GetDashboard)
		r.Get("/kpis", h.GetKPIs)
		r.Get("/views/{view}", h.GetView)
	})

	return r
}

// KPIResponse is the body of GET /api/kpis
type KPIResponse struct {
	Range   domain.DateRange `json:"range"`
	KPIs    domain.KPIs      `json:"kpis"`
	Widgets []kpi.Widget     `json:"widgets"`
}

// ViewResponse is the body of GET /api/views/{view}
type ViewResponse struct {
	View  string           `json:"view"`
	Range domain.DateRange `json:"range"`
	Rows  any              `json:"rows"`
}

// CatalogueEntry names a view and the figures drawn from it
type CatalogueEntry struct {
	View    string   `json:"view"`
	Figures []string `json:"figures,omitempty"`
}

// GetDashboard handles GET /api/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	rng, err := resolveRange(r, h.service)
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return
	}

	d, err := h.service.Dashboard(r.Context(), rng)
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return
	}

	render.JSON(w, r, d)
}

// GetKPIs handles GET /api/kpis
func (h *DashboardHandler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	rng, err := resolveRange(r, h.service)
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return
	}

	d, err := h.service.Dashboard(r.Context(), rng)
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return
	}

	render.JSON(w, r, KPIResponse{
		Range:   d.Range,
		KPIs:    d.KPIs,
		Widgets: kpi.Widgets(d.KPIs),
	})
}

// GetView handles GET /api/views/{view}
func (h *DashboardHandler) GetView(w http.ResponseWriter, r *http.Request) {
	dr, _ := middleware.DateRangeFromContext(r.Context())
	req := api.ViewRequest{DateRangeRequest: dr, View: chi.URLParam(r, "view")}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, pathNotFound(err, "view", "VIEW_NOT_FOUND", "View"))
		return
	}

	rng, err := resolveRange(r, h.service)
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return
	}

	rows, err := h.service.View(r.Context(), rng, req.View)
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return
	}

	render.JSON(w, r, ViewResponse{View: req.View, Range: rng, Rows: rows})
}

// ListViews handles GET /api/views
func (h *DashboardHandler) ListViews(w http.ResponseWriter, r *http.Request) {
	out := make([]CatalogueEntry, 0, len(domain.ViewNames))
	for _, name := range domain.ViewNames {
		entry := CatalogueEntry{View: name}
		for _, f := range charts.Figures {
			if f.View == name {
				entry.Figures = append(entry.Figures, f.ID)
			}
		}
		out = append(out, entry)
	}
	render.JSON(w, r, out)
}

// GetBounds handles GET /api/bounds
func (h *DashboardHandler) GetBounds(w http.ResponseWriter, r *http.Request) {
	bounds, err := h.service.Bounds(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return
	}
	render.JSON(w, r, bounds)
}

// GetDataset handles GET /api/dataset
func (h *DashboardHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Info(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return
	}
	render.JSON(w, r, info)
}

// ReloadDataset handles POST /api/dataset/reload. A failed reload keeps
// serving the previous data and answers 422.
func (h *DashboardHandler) ReloadDataset(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "dataset reload requested",
		slog.String("request_id", middleware.GetReqID(r.Context())))

	info, err := h.service.Reload(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ReloadFailedError(err))
		return
	}
	render.JSON(w, r, info)
}

// resolveRange parses ?start=&end= against the dataset bounds, preferring the
// request already validated by middleware.ValidateDateRange
func resolveRange(r *http.Request, service DashboardServiceInterface) (domain.DateRange, error) {
	dr, ok := middleware.DateRangeFromContext(r.Context())
	if !ok {
		q := r.URL.Query()
		dr = api.DateRangeRequest{Start: q.Get("start"), End: q.Get("end")}
	}
	return service.ParseRange(r.Context(), dr.Start, dr.End)
}
