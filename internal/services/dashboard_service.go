package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"bikeshare/internal/dataset"
	"bikeshare/internal/infrastructure"
	"bikeshare/internal/kpi"
	"bikeshare/internal/views"
	"bikeshare/pkg/contracts/domain"
	"bikeshare/pkg/contracts/events"
)

var tracer = otel.Tracer("bikeshare/services")

// DashboardConfig configures a DashboardService
type DashboardConfig struct {
	Path                  string
	NormalizedTemperature bool
}

// DashboardService owns the loaded dataset and computes dashboards from it
type DashboardService struct {
	mu   sync.RWMutex
	ds   *dataset.Dataset
	cfg  DashboardConfig
	load LoaderFunc

	// reloadMu serializes reloads so file events and API calls do not race
	reloadMu sync.Mutex

	hub     Broadcaster
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewDashboardService creates a dashboard service. hub and metrics may be nil.
func NewDashboardService(cfg DashboardConfig, hub Broadcaster, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "dashboard_service"))

	logger.Info("DashboardService initialized",
		slog.String("dataset", cfg.Path),
		slog.Bool("normalized_temp", cfg.NormalizedTemperature))

	return &DashboardService{
		cfg:     cfg,
		load:    dataset.Load,
		hub:     hub,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// NewDashboardServiceWithDataset creates a service around an already loaded dataset
func NewDashboardServiceWithDataset(ds *dataset.Dataset, logger *slog.Logger) *DashboardService {
	s := NewDashboardService(DashboardConfig{Path: ds.Path}, nil, nil, logger)
	s.ds = ds
	return s
}

// SetLoader replaces the function used to read the dataset
func (s *DashboardService) SetLoader(fn LoaderFunc) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()
	s.load = fn
}

// Path returns the configured dataset path
func (s *DashboardService) Path() string {
	return s.cfg.Path
}

func (s *DashboardService) current() (*dataset.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ds == nil {
		return nil, ErrDatasetNotLoaded
	}
	return s.ds, nil
}

// Info describes the loaded dataset
func (s *DashboardService) Info(ctx context.Context) (domain.DatasetInfo, error) {
	ds, err := s.current()
	if err != nil {
		return domain.DatasetInfo{}, err
	}
	return ds.Info(), nil
}

// Bounds returns the first and last date of the loaded dataset
func (s *DashboardService) Bounds(ctx context.Context) (domain.DateRange, error) {
	ds, err := s.current()
	if err != nil {
		return domain.DateRange{}, err
	}
	return ds.Bounds(), nil
}

// ParseRange parses start and end against the dataset bounds.
// Blank values default to the bounds.
func (s *DashboardService) ParseRange(ctx context.Context, start, end string) (domain.DateRange, error) {
	bounds, err := s.Bounds(ctx)
	if err != nil {
		return domain.DateRange{}, err
	}
	return dataset.ParseDateRange(start, end, bounds)
}

// Dashboard computes every view and the KPI widgets for rng
func (s *DashboardService) Dashboard(ctx context.Context, rng domain.DateRange) (*domain.Dashboard, error) {
	ctx, span := tracer.Start(ctx, "dashboard.build")
	defer span.End()
	span.SetAttributes(
		attribute.String("range.start", rng.Start.String()),
		attribute.String("range.end", rng.End.String()))

	ds, err := s.current()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if rng.Start.After(rng.End.Time) {
		err := fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange, rng.Start, rng.End)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	start := time.Now()
	filtered := ds.Filter(rng)
	v, err := views.Build(ctx, filtered)
	infrastructure.RecordBuild(ctx, s.metrics, time.Since(start), filtered.Len(), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to build views: %w", err)
	}
	span.SetAttributes(attribute.Int("rows", filtered.Len()))

	s.logger.DebugContext(ctx, "Dashboard built",
		slog.String("start", rng.Start.String()),
		slog.String("end", rng.End.String()),
		slog.Int("rows", filtered.Len()),
		slog.Duration("duration", time.Since(start)))

	return &domain.Dashboard{
		Range:    rng,
		Bounds:   ds.Bounds(),
		Rows:     filtered.Len(),
		Views:    v,
		KPIs:     kpi.Compute(v),
		BuiltAt:  s.now().UTC(),
		LoadedAt: ds.LoadedAt,
	}, nil
}

// View returns a single view of the dashboard for rng
func (s *DashboardService) View(ctx context.Context, rng domain.DateRange, name string) (any, error) {
	if _, err := views.Rows(&domain.Views{}, name); err != nil {
		return nil, err
	}
	d, err := s.Dashboard(ctx, rng)
	if err != nil {
		return nil, err
	}
	return views.Rows(d.Views, name)
}

// Load reads the dataset at startup
func (s *DashboardService) Load(ctx context.Context) error {
	_, err := s.Reload(ctx)
	return err
}

// Reload re-reads the dataset file. On failure the previously loaded dataset
// stays active and the error is returned.
func (s *DashboardService) Reload(ctx context.Context) (domain.DatasetInfo, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	ctx, span := tracer.Start(ctx, "dataset.reload")
	defer span.End()
	span.SetAttributes(attribute.String("dataset.path", s.cfg.Path))

	var opts []dataset.Option
	opts = append(opts, dataset.WithLogger(s.logger))
	if s.cfg.NormalizedTemperature {
		opts = append(opts, dataset.WithNormalizedTemperature())
	}

	start := time.Now()
	ds, err := s.load(ctx, s.cfg.Path, opts...)
	if err != nil {
		infrastructure.RecordReload(ctx, s.metrics, 0, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		s.mu.RLock()
		kept := s.ds != nil
		s.mu.RUnlock()
		s.logger.ErrorContext(ctx, "Dataset reload failed",
			slog.String("path", s.cfg.Path),
			slog.Bool("kept_previous", kept),
			slog.String("error", err.Error()))

		s.publish(ctx, events.MessageTypeReloadFailed, events.ReloadFailed{
			Path:  s.cfg.Path,
			Error: err.Error(),
		})
		return domain.DatasetInfo{}, err
	}

	s.mu.Lock()
	s.ds = ds
	s.mu.Unlock()

	info := ds.Info()
	infrastructure.RecordReload(ctx, s.metrics, info.Rows, nil)
	s.logger.InfoContext(ctx, "Dataset reloaded",
		slog.String("path", info.Path),
		slog.Int("rows", info.Rows),
		slog.String("start", info.Bounds.Start.String()),
		slog.String("end", info.Bounds.End.String()),
		slog.Duration("duration", time.Since(start)))

	s.publish(ctx, events.MessageTypeDatasetReloaded, events.DatasetReloaded{
		Path:     info.Path,
		Rows:     info.Rows,
		Start:    info.Bounds.Start.String(),
		End:      info.Bounds.End.String(),
		LoadedAt: info.LoadedAt,
	})
	return info, nil
}

func (s *DashboardService) publish(ctx context.Context, t events.MessageType, data any) {
	if s.hub == nil {
		return
	}
	msg := events.NewMessage(t, data)
	msg.TraceID = infrastructure.GetTraceID(ctx)
	s.hub.Publish(msg)
}
