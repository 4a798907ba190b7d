package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apierrors "bikeshare/internal/errors"
	"bikeshare/internal/exporter"
	"bikeshare/internal/infrastructure"
	"bikeshare/internal/middleware"
	api "bikeshare/pkg/contracts/api/v1"
	"bikeshare/pkg/contracts/domain"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ExportHandler serves view downloads as CSV and the whole dashboard as XLSX
type ExportHandler struct {
	service      DashboardServiceInterface
	validator    *middleware.Validator
	metrics      *infrastructure.BusinessMetrics
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewExportHandler creates an export handler. metrics may be nil.
func NewExportHandler(service DashboardServiceInterface, validator *middleware.Validator, metrics *infrastructure.BusinessMetrics, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportHandler {
	return &ExportHandler{
		service:      service,
		validator:    validator,
		metrics:      metrics,
		logger:       logger.With(slog.String("component", "export_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the /api/export routes
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(h.validator.ValidateDateRange)
	r.Get("/dashboard.xlsx", h.ExportWorkbook)
	r.Get("/{view}.csv", h.ExportView)
	return r
}

// ExportView handles GET /api/export/{view}.csv
func (h *ExportHandler) ExportView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	dr, _ := middleware.DateRangeFromContext(ctx)
	req := api.ViewRequest{DateRangeRequest: dr, View: chi.URLParam(r, "view")}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, pathNotFound(err, "view", "VIEW_NOT_FOUND", "View"))
		return
	}

	d, ok := h.dashboard(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := exporter.WriteView(&buf, req.View, d.Views); err != nil {
		h.fail(w, r, req.View, err)
		return
	}

	infrastructure.RecordExport(ctx, h.metrics, "csv", req.View)
	h.send(w, contentTypeCSV, attachmentName(req.View, d.Range, "csv"), &buf)
}

// ExportWorkbook handles GET /api/export/dashboard.xlsx
func (h *ExportHandler) ExportWorkbook(w http.ResponseWriter, r *http.Request) {
	d, ok := h.dashboard(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := exporter.WriteWorkbook(&buf, d.Views, d.KPIs); err != nil {
		h.fail(w, r, "dashboard", err)
		return
	}

	infrastructure.RecordExport(r.Context(), h.metrics, "xlsx", "dashboard")
	h.send(w, contentTypeXLSX, attachmentName("dashboard", d.Range, "xlsx"), &buf)
}

func (h *ExportHandler) dashboard(w http.ResponseWriter, r *http.Request) (*domain.Dashboard, bool) {
	rng, err := resolveRange(r, h.service)
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return nil, false
	}
	d, err := h.service.Dashboard(r.Context(), rng)
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return nil, false
	}
	return d, true
}

func (h *ExportHandler) fail(w http.ResponseWriter, r *http.Request, what string, err error) {
	h.logger.ErrorContext(r.Context(), "export failed",
		slog.String("export", what),
		slog.String("error", err.Error()))
	h.errorHandler.HandleError(w, r, apierrors.ErrExportFailed)
}

func (h *ExportHandler) send(w http.ResponseWriter, contentType, filename string, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// attachmentName builds "<name>_<start>_<end>.<ext>"
func attachmentName(name string, rng domain.DateRange, ext string) string {
	return fmt.Sprintf("%s_%s_%s.%s", name, rng.Start, rng.End, ext)
}
