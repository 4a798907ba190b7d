package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"bikeshare/internal/charts"
	apierrors "bikeshare/internal/errors"
	"bikeshare/internal/middleware"
	"bikeshare/internal/services"
	"bikeshare/internal/shared/testutil"
	"bikeshare/pkg/contracts/domain"
)

// MockDashboardService is a mock implementation of DashboardServiceInterface
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Info(ctx context.Context) (domain.DatasetInfo, error) {
	args := m.Called()
	return args.Get(0).(domain.DatasetInfo), args.Error(1)
}

func (m *MockDashboardService) Bounds(ctx context.Context) (domain.DateRange, error) {
	args := m.Called()
	return args.Get(0).(domain.DateRange), args.Error(1)
}

func (m *MockDashboardService) ParseRange(ctx context.Context, start, end string) (domain.DateRange, error) {
	args := m.Called(start, end)
	return args.Get(0).(domain.DateRange), args.Error(1)
}

func (m *MockDashboardService) Dashboard(ctx context.Context, rng domain.DateRange) (*domain.Dashboard, error) {
	args := m.Called(rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dashboard), args.Error(1)
}

func (m *MockDashboardService) View(ctx context.Context, rng domain.DateRange, name string) (any, error) {
	args := m.Called(rng, name)
	return args.Get(0), args.Error(1)
}

func (m *MockDashboardService) Reload(ctx context.Context) (domain.DatasetInfo, error) {
	args := m.Called()
	return args.Get(0).(domain.DatasetInfo), args.Error(1)
}

// newTestRouter mounts the handlers the same way the application does
func newTestRouter(t *testing.T, svc DashboardServiceInterface) http.Handler {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	eh := apierrors.NewErrorHandler(logger, false)
	v := middleware.NewValidator(logger, eh)

	api := NewDashboardHandler(svc, v, logger, eh).Routes()
	api.Mount("/export", NewExportHandler(svc, v, nil, logger, eh).Routes())
	api.Post("/client-log", NewClientLogHandler(v, logger, eh).Handle)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Get("/", NewPageHandler(svc, logger, eh).ServeDashboard)
	r.Mount("/api", api)
	r.Mount("/charts", NewChartHandler(svc, v, nil, logger, eh).Routes())
	return r
}

func newLoadedService(t *testing.T) (*services.DashboardService, string) {
	t.Helper()
	path := testutil.WriteBikeshareCSV(t, t.TempDir(), testutil.SampleRows()...)
	logger, _ := testutil.NewTestLogger(t)
	svc := services.NewDashboardService(services.DashboardConfig{Path: path}, nil, nil, logger)
	require.NoError(t, svc.Load(context.Background()))
	return svc, path
}

func do(t *testing.T, h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestDashboardHandler_GetDashboard(t *testing.T) {
	svc, _ := newLoadedService(t)
	h := newTestRouter(t, svc)

	tests := []struct {
		name      string
		target    string
		wantRows  int
		wantTotal string
		wantStart string
		wantEnd   string
	}{
		{"full range", "/api/dashboard", 6, "800", "2011-01-01", "2012-07-04"},
		{"first days", "/api/dashboard?start=2011-01-01&end=2011-01-03", 3, "100", "2011-01-01", "2011-01-03"},
		{"start only", "/api/dashboard?start=2012-01-01", 2, "400", "2012-01-01", "2012-07-04"},
		{"empty window", "/api/dashboard?start=2011-02-01&end=2011-03-01", 0, "0", "2011-02-01", "2011-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.target, nil)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var d domain.Dashboard
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
			assert.Equal(t, tt.wantRows, d.Rows)
			assert.Equal(t, tt.wantTotal, d.KPIs.TotalRental)
			assert.Equal(t, tt.wantStart, d.Range.Start.String())
			assert.Equal(t, tt.wantEnd, d.Range.End.String())
			assert.Equal(t, "2011-01-01", d.Bounds.Start.String())
			require.NotNil(t, d.Views)
			assert.Len(t, d.Views.HourlyRental, tt.wantRows)
		})
	}
}

func TestDashboardHandler_RangeErrors(t *testing.T) {
	svc, _ := newLoadedService(t)
	h := newTestRouter(t, svc)

	tests := []struct {
		name     string
		target   string
		wantType string
	}{
		{"malformed date", "/api/kpis?start=2011/01/01", apierrors.TypeValidation},
		{"end before start", "/api/kpis?start=2012-01-01&end=2011-01-01", apierrors.TypeValidation},
		{"outside bounds", "/api/kpis?start=2010-01-01", apierrors.TypeDateRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.target, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantType, decodeProblem(t, rec)["type"])
		})
	}
}

func TestDashboardHandler_GetKPIs(t *testing.T) {
	svc, _ := newLoadedService(t)
	rec := do(t, newTestRouter(t, svc), http.MethodGet, "/api/kpis", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp KPIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "800", resp.KPIs.TotalRental)
	require.NotNil(t, resp.KPIs.Hourly)
	assert.EqualValues(t, 300, resp.KPIs.Hourly.HighestValue)
	assert.Len(t, resp.Widgets, 8)
	assert.Equal(t, "Total Rental", resp.Widgets[0].Label)
}

func TestDashboardHandler_GetView(t *testing.T) {
	svc, _ := newLoadedService(t)
	h := newTestRouter(t, svc)

	t.Run("known view", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/views/daily_rental?end=2011-07-04", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			View  string               `json:"view"`
			Range domain.DateRange     `json:"range"`
			Rows  []domain.DailyRental `json:"rows"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "daily_rental", resp.View)
		require.Len(t, resp.Rows, 3)
		assert.Equal(t, "2011-07-04", resp.Rows[2].Date.String())
		assert.EqualValues(t, 300, resp.Rows[2].TotalRent)
	})

	t.Run("unknown view", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/views/weekly_rental", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		body := decodeProblem(t, rec)
		assert.Equal(t, apierrors.TypeViewNotFound, body["type"])
	})

	t.Run("bad date wins over unknown view", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/views/weekly_rental?start=x", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDashboardHandler_ListViews(t *testing.T) {
	rec := do(t, newTestRouter(t, new(MockDashboardService)), http.MethodGet, "/api/views", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []CatalogueEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, len(domain.ViewNames))
	assert.Equal(t, CatalogueEntry{View: domain.ViewHourlyRental}, entries[0])
	assert.Equal(t, CatalogueEntry{View: domain.ViewWorkingdayPerHour, Figures: []string{"workingday-hourly"}}, entries[5])
}

func TestDashboardHandler_BoundsAndDataset(t *testing.T) {
	svc, path := newLoadedService(t)
	h := newTestRouter(t, svc)

	rec := do(t, h, http.MethodGet, "/api/bounds", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"start":"2011-01-01","end":"2012-07-04"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/dataset", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var info domain.DatasetInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, path, info.Path)
	assert.Equal(t, 6, info.Rows)
}

func TestDashboardHandler_Reload(t *testing.T) {
	svc, path := newLoadedService(t)
	h := newTestRouter(t, svc)

	rows := testutil.SampleRows()[:2]
	require.NoError(t, os.WriteFile(path, []byte(testutil.BikeshareCSV(rows...)), 0o644))

	rec := do(t, h, http.MethodPost, "/api/dataset/reload", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var info domain.DatasetInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, 2, info.Rows)

	require.NoError(t, os.Remove(path))
	rec = do(t, h, http.MethodPost, "/api/dataset/reload", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, apierrors.TypeDatasetReload, decodeProblem(t, rec)["type"])

	// the previous dataset keeps serving
	rec = do(t, h, http.MethodGet, "/api/kpis", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp KPIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "60", resp.KPIs.TotalRental)
}

func TestDashboardHandler_NotLoaded(t *testing.T) {
	svc := services.NewDashboardService(services.DashboardConfig{Path: "missing.csv"}, nil, nil, nil)
	h := newTestRouter(t, svc)

	for _, target := range []string{"/api/dashboard", "/api/bounds", "/api/export/dashboard.xlsx", "/charts/weather-users.png", "/"} {
		rec := do(t, h, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, target)
		assert.Equal(t, apierrors.TypeServiceDown, decodeProblem(t, rec)["type"], target)
	}
}

func TestDashboardHandler_InternalError(t *testing.T) {
	svc := new(MockDashboardService)
	rng := domain.DateRange{}
	svc.On("ParseRange", "", "").Return(rng, nil)
	svc.On("Dashboard", rng).Return(nil, errors.New("disk on fire"))

	rec := do(t, newTestRouter(t, svc), http.MethodGet, "/api/dashboard", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeProblem(t, rec)
	assert.Equal(t, apierrors.TypeInternal, body["type"])
	assert.NotContains(t, rec.Body.String(), "disk on fire")
	svc.AssertExpectations(t)
}

func TestChartHandler(t *testing.T) {
	svc, _ := newLoadedService(t)
	h := newTestRouter(t, svc)

	t.Run("renders png", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/charts/weather-users.png?start=2011-01-01", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

		img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		assert.Positive(t, img.Bounds().Dx())
	})

	t.Run("unknown figure", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/charts/pie.png", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, apierrors.TypeFigureNotFound, decodeProblem(t, rec)["type"])
	})
}

func TestRenderError(t *testing.T) {
	typed := apierrors.NewRenderError("failed to write figure", io.ErrShortWrite).WithContext("figure", "weather-users")
	assert.Same(t, typed, renderError(typed))

	assert.Equal(t, apierrors.ErrRenderFailed, renderError(errors.New("font cache")))

	var apiErr *apierrors.APIError
	require.True(t, errors.As(renderError(fmt.Errorf("lookup: %w", charts.ErrUnknownFigure)), &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "FIGURE_NOT_FOUND", apiErr.ErrorCode)
	assert.Equal(t, "Figure not found", apiErr.Message)
}

func TestPathNotFound(t *testing.T) {
	invalid := apierrors.NewValidationErrors([]apierrors.ValidationError{
		{Field: "view", Message: "view must be one of: hourly_rental"},
	})

	var apiErr *apierrors.APIError
	require.True(t, errors.As(pathNotFound(invalid, "view", "VIEW_NOT_FOUND", "View"), &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "View not found", apiErr.Message)
	assert.Equal(t, apierrors.ValidationError{Field: "view", Message: "view must be one of: hourly_rental"}, apiErr.Details)

	assert.Same(t, invalid, pathNotFound(invalid, "figure", "FIGURE_NOT_FOUND", "Figure"))
}

func TestExportHandler(t *testing.T) {
	svc, _ := newLoadedService(t)
	h := newTestRouter(t, svc)

	t.Run("view as csv", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/export/daily_rental.csv", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, contentTypeCSV, rec.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="daily_rental_2011-01-01_2012-07-04.csv"`, rec.Header().Get("Content-Disposition"))

		lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
		require.Len(t, lines, 6)
		assert.Equal(t, "date,total_rent", lines[0])
		assert.Equal(t, "2011-01-01,60", lines[1])
	})

	t.Run("workbook", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/export/dashboard.xlsx?end=2011-12-31", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, contentTypeXLSX, rec.Header().Get("Content-Type"))

		f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		defer f.Close()
		sheets := f.GetSheetList()
		require.Len(t, sheets, 1+len(domain.ViewNames))
		assert.Equal(t, "KPIs", sheets[0])
	})

	t.Run("unknown view", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/export/weekly.csv", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPageHandler(t *testing.T) {
	svc, _ := newLoadedService(t)
	h := newTestRouter(t, svc)

	rec := do(t, h, http.MethodGet, "/?start=2011-01-01&end=2011-12-31", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	for _, want := range []string{
		"<h1>Capital Bikeshare Rental Dashboard</h1>",
		"Hourly Rental",
		"Daily Rental",
		"Monthly Rental",
		"Bike Sharing Rental by Weather",
		"Hourly Highest Rental",
		"Month of the Highest Rental",
		`value="2011-12-31"`,
		`max="2012-07-04"`,
		"/charts/workingday-hourly.png?end=2011-12-31",
		"/api/export/rental_per_weather.csv?end=2011-12-31",
		PageCaption,
	} {
		assert.Contains(t, body, want)
	}
}

func TestPageHandler_FallsBackToBounds(t *testing.T) {
	svc, _ := newLoadedService(t)
	h := newTestRouter(t, svc)

	for _, query := range []string{
		"?start=2013-01-01",
		"?start=2010-01-01&end=2011-01-31",
		"?start=not-a-date",
		"?start=2012-01-01&end=2011-01-01",
	} {
		t.Run(query, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, "/"+query, nil)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

			body := rec.Body.String()
			assert.Contains(t, body, `class="notice"`)
			assert.Contains(t, body, "showing the full dataset")
			assert.Contains(t, body, `id="start" name="start" min="2011-01-01" max="2012-07-04" value="2011-01-01"`)
			assert.Contains(t, body, `value="2012-07-04"`)
		})
	}

	rec := do(t, h, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `class="notice"`)
}

func TestBuildPage_EmptyRange(t *testing.T) {
	d := &domain.Dashboard{
		Range: domain.DateRange{
			Start: domain.NewDate(mustDate(t, "2011-02-01")),
			End:   domain.NewDate(mustDate(t, "2011-02-02")),
		},
		Views: &domain.Views{},
		KPIs:  domain.KPIs{TotalRental: "0"},
	}

	page := buildPage(d)
	assert.Equal(t, "0", page.Total.Value)
	require.Len(t, page.Sections, 4)
	assert.Empty(t, page.Sections[0].Widgets)
	assert.Len(t, page.Sections[0].Figures, 2)
	assert.True(t, page.Sections[0].Figures[0].Wide)
	assert.False(t, page.Sections[3].Figures[0].Wide)
}

func TestClientLogHandler(t *testing.T) {
	h := newTestRouter(t, new(MockDashboardService))

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"valid", `{"level":"error","message":"figure failed to load","source":"dashboard","data":{"figure":"weather-users"}}`, http.StatusAccepted},
		{"default level", `{"message":"hello"}`, http.StatusAccepted},
		{"bad level", `{"level":"fatal","message":"x"}`, http.StatusBadRequest},
		{"missing message", `{"level":"info"}`, http.StatusBadRequest},
		{"not json", `level=info`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/client-log", strings.NewReader(tt.body))
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	tm, err := time.Parse(domain.DateLayout, s)
	require.NoError(t, err)
	return tm
}
