package http

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"gonum.org/v1/plot/vg"

	"bikeshare/internal/charts"
	"bikeshare/internal/config"
	apierrors "bikeshare/internal/errors"
	"bikeshare/internal/kpi"
	"bikeshare/internal/services"
	"bikeshare/pkg/contracts/domain"
)

// PageCaption is printed under the last section of the dashboard
const PageCaption = "Copyright Isnayni Feby Hawari 2024"

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// sections in page order; KPI widgets and figures are matched on ID
var pageSections = []struct {
	ID    string
	Title string
}{
	{charts.SectionHourly, "Hourly Rental"},
	{charts.SectionDaily, "Daily Rental"},
	{charts.SectionMonthly, "Monthly Rental"},
	{charts.SectionWeather, "Bike Sharing Rental by Weather"},
}

type pageFigure struct {
	ID       string
	Title    string
	Src      string
	Download string
	Wide     bool
}

type pageSection struct {
	ID      string
	Title   string
	Widgets []kpi.Widget
	Figures []pageFigure
}

type pageData struct {
	Title    string
	Notice   string
	Bounds   domain.DateRange
	Range    domain.DateRange
	Total    kpi.Widget
	Sections []pageSection
	Rows     int
	LoadedAt time.Time
	Workbook string
	Caption  string
}

// PageHandler renders the browser dashboard
type PageHandler struct {
	service      DashboardServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewPageHandler creates a page handler
func NewPageHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *PageHandler {
	return &PageHandler{
		service:      service,
		logger:       logger.With(slog.String("handler", "page")),
		errorHandler: errorHandler,
	}
}

// ServeDashboard handles GET /. A bad or out-of-bounds range shows the whole
// dataset with a notice instead of failing, since a reload can shrink the
// bounds under a page that is open in the browser.
func (h *PageHandler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var notice string
	rng, err := resolveRange(r, h.service)
	if errors.Is(err, services.ErrInvalidRange) {
		h.logger.WarnContext(ctx, "invalid page range, showing full dataset", slog.String("error", err.Error()))
		notice = "Date range not available, showing the full dataset: " + err.Error()
		rng, err = h.service.Bounds(ctx)
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return
	}
	d, err := h.service.Dashboard(ctx, rng)
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return
	}

	page := buildPage(d)
	page.Notice = notice

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render dashboard page", slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, apierrors.NewInternalError("failed to render dashboard page"))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func buildPage(d *domain.Dashboard) pageData {
	q := url.Values{}
	q.Set("start", d.Range.Start.String())
	q.Set("end", d.Range.End.String())
	query := "?" + q.Encode()

	widgets := kpi.Widgets(d.KPIs)
	page := pageData{
		Title:    config.AppTitle,
		Bounds:   d.Bounds,
		Range:    d.Range,
		Rows:     d.Rows,
		LoadedAt: d.LoadedAt,
		Workbook: "/api/export/dashboard.xlsx" + query,
		Caption:  PageCaption,
	}
	if len(widgets) > 0 {
		page.Total = widgets[0]
	}

	for _, s := range pageSections {
		section := pageSection{ID: s.ID, Title: s.Title}
		for _, wd := range widgets {
			if wd.Section == s.ID {
				section.Widgets = append(section.Widgets, wd)
			}
		}
		for _, f := range charts.Figures {
			if f.Section != s.ID {
				continue
			}
			section.Figures = append(section.Figures, pageFigure{
				ID:       f.ID,
				Title:    f.Title,
				Src:      "/charts/" + f.ID + ".png" + query,
				Download: "/api/export/" + f.View + ".csv" + query,
				Wide:     f.Width > 10*vg.Inch,
			})
		}
		page.Sections = append(page.Sections, section)
	}
	return page
}
