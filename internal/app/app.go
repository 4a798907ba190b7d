package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"

	"bikeshare/internal/config"
	apierrors "bikeshare/internal/errors"
	"bikeshare/internal/infrastructure"
	"bikeshare/internal/middleware"
	"bikeshare/internal/services"
	handlers "bikeshare/internal/transport/http"
	"bikeshare/internal/watcher"
	ws "bikeshare/internal/websocket"
)

// Build metadata, overridden with -ldflags "-X bikeshare/internal/app.Version=..."
var (
	Version   = config.AppVersion
	BuildTime = ""
)

const compressionLevel = 5

// Application wires configuration, services and the HTTP server together
type Application struct {
	Config        *config.Config
	Paths         *config.Paths
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	OTelProviders *infrastructure.OTelProviders
	Metrics       *infrastructure.BusinessMetrics
	ErrorHandler  *apierrors.ErrorHandler
	Validator     *middleware.Validator
	Hub           *ws.Hub
	Dashboard     *services.DashboardService
	Health        *services.HealthService
	Watcher       *watcher.Watcher

	listener net.Listener
	serveErr chan error
	stopOnce sync.Once
	stopErr  error
}

// New builds an application from cfg. A nil logger is created from cfg.Logging.
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		var err error
		if logger, err = infrastructure.InitializeLogger(cfg.Logging); err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", Version))

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution(logger)
	if !config.FileExists(paths.Dataset) {
		logger.Warn("Dataset file not found, dashboard will report 503 until it appears",
			slog.String("path", paths.Dataset))
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Observability), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	metrics, err := infrastructure.CreateBusinessMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	errorHandler := apierrors.NewErrorHandler(logger, cfg.Logging.Development)
	a := &Application{
		Config:        cfg,
		Paths:         paths,
		Logger:        logger,
		OTelProviders: providers,
		Metrics:       metrics,
		ErrorHandler:  errorHandler,
		Validator:     middleware.NewValidator(logger, errorHandler),
		serveErr:      make(chan error, 1),
	}

	if err := a.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	a.setupRouter()
	a.createServer()
	return a, nil
}

func (a *Application) initializeServices() error {
	a.Hub = ws.NewHub(a.Logger, a.Metrics)

	a.Dashboard = services.NewDashboardService(services.DashboardConfig{
		Path:                  a.Paths.Dataset,
		NormalizedTemperature: a.Config.Dataset.NormalizedTemperature,
	}, a.Hub, a.Metrics, a.Logger)

	a.Health = services.NewHealthService(Version, BuildTime, a.Dashboard, a.Hub, a.Logger)

	if a.Config.Dataset.Watch {
		w, err := watcher.New(a.Paths.Dataset, a.Config.Dataset.WatchDebounce, a.Dashboard, a.Logger)
		if err != nil {
			return err
		}
		a.Watcher = w
	}
	return nil
}

// setupRouter mounts /ws and /metrics ahead of the middleware that wraps the
// response writer; everything else runs through the full chain.
func (a *Application) setupRouter() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	wsHandler := ws.NewHandler(a.Hub, a.Config.WebSocket, a.Config.Security.AllowedOrigins, a.Logger, a.ErrorHandler)
	r.With(middleware.WebSocketTraceMiddleware(a.Logger)).Handle("/ws", wsHandler)

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	r.Group(func(r chi.Router) {
		// RequestID → RealIP → OTel → Logger → Recoverer → Timeout
		otelMiddleware, err := middleware.NewOTelMiddleware(a.OTelProviders, a.Metrics)
		if err != nil {
			a.Logger.Error("Failed to create OpenTelemetry middleware", slog.String("error", err.Error()))
		} else {
			r.Use(otelMiddleware.Handler)
		}
		r.Use(middleware.StructuredLogger(a.Logger))
		r.Use(middleware.Recoverer(a.ErrorHandler))
		r.Use(middleware.SecurityHeaders)
		if a.Config.Security.EnableCORS {
			r.Use(middleware.CORS(a.corsConfig()))
		}
		if a.Config.Security.RateLimit.Enabled {
			r.Use(middleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
				a.ErrorHandler,
			).Handler)
		}
		r.Use(middleware.Timeout(a.Config.Server.RequestTimeout))
		r.Use(middleware.Compress(compressionLevel))

		a.setupRoutes(r)
	})

	a.Router = r
}

func (a *Application) setupRoutes(r chi.Router) {
	dashboard := handlers.NewDashboardHandler(a.Dashboard, a.Validator, a.Logger, a.ErrorHandler)
	charts := handlers.NewChartHandler(a.Dashboard, a.Validator, a.Metrics, a.Logger, a.ErrorHandler)
	exports := handlers.NewExportHandler(a.Dashboard, a.Validator, a.Metrics, a.Logger, a.ErrorHandler)
	clientLog := handlers.NewClientLogHandler(a.Validator, a.Logger, a.ErrorHandler)
	health := handlers.NewHealthHandler(a.Health, a.Logger)
	page := handlers.NewPageHandler(a.Dashboard, a.Logger, a.ErrorHandler)

	api := dashboard.Routes()
	api.NotFound(a.ErrorHandler.NotFound)
	api.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)
	api.Mount("/export", exports.Routes())
	api.Post("/client-log", clientLog.Handle)
	api.Get("/health", health.HealthCheck)
	api.Get("/health/ready", health.ReadinessCheck)
	api.Get("/health/live", health.LivenessCheck)
	api.Get("/version", health.Version)

	r.Mount("/api", api)
	chartRoutes := charts.Routes()
	chartRoutes.NotFound(a.ErrorHandler.NotFound)
	r.Mount("/charts", chartRoutes)
	r.Get("/", page.ServeDashboard)
}

func (a *Application) corsConfig() middleware.CORSConfig {
	return middleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:         300,
		Logger:         a.Logger,
	}
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(a.Logger.Handler(), slog.LevelError),
	}
}

// Start loads the dataset, starts background services and begins serving.
// A dataset that fails to load is logged and left to the watcher or a
// manual reload; the server still starts.
func (a *Application) Start(ctx context.Context) error {
	a.Hub.Start()

	if err := a.Dashboard.Load(ctx); err != nil {
		a.Logger.ErrorContext(ctx, "Initial dataset load failed",
			slog.String("path", a.Paths.Dataset),
			slog.String("error", err.Error()))
	}

	if a.Watcher != nil {
		if err := a.Watcher.Start(ctx); err != nil {
			a.Logger.WarnContext(ctx, "Dataset watcher not started", slog.String("error", err.Error()))
		}
	}

	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		a.Hub.Stop()
		if a.Watcher != nil {
			a.Watcher.Stop()
		}
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	a.listener = ln

	go func() {
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Error("Server error", slog.String("error", err.Error()))
			a.serveErr <- err
		}
	}()

	a.Logger.InfoContext(ctx, "Application started",
		slog.String("address", "http://"+ln.Addr().String()),
		slog.String("dataset", a.Paths.Dataset))
	return nil
}

// Addr returns the address the server listens on, or "" before Start
func (a *Application) Addr() string {
	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}

// Stop shuts everything down once; later calls return the first result
func (a *Application) Stop(ctx context.Context) error {
	a.stopOnce.Do(func() {
		a.stopErr = a.shutdown(ctx)
	})
	return a.stopErr
}

func (a *Application) shutdown(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if a.Watcher != nil {
		a.Watcher.Stop()
	}

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}

	a.Hub.Stop()

	if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
		a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return errors.Join(errs...)
}

// Run serves until ctx is cancelled, SIGINT/SIGTERM arrives or the server fails
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx); err != nil {
		return err
	}

	var serveErr error
	select {
	case <-ctx.Done():
		a.Logger.Info("Received shutdown signal")
	case serveErr = <-a.serveErr:
	}

	return errors.Join(serveErr, a.Stop(context.Background()))
}
