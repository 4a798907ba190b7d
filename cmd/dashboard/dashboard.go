package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"bikeshare/internal/config"
	apierrors "bikeshare/internal/errors"
	"bikeshare/internal/infrastructure"
	"bikeshare/internal/middleware"
	"bikeshare/internal/services"
	api "bikeshare/pkg/contracts/api/v1"
	"bikeshare/pkg/contracts/domain"
)

// rangeFlags holds the --start/--end filter shared by export and kpi
type rangeFlags struct {
	start string
	end   string
}

// offline loads the dataset once without starting the server
type offline struct {
	cfg    *config.Config
	paths  *config.Paths
	logger *slog.Logger
	svc    *services.DashboardService
}

func openOffline(ctx context.Context, opts *rootOptions, logOut io.Writer) (*offline, error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, err
	}
	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	// stdout carries command output, so logs go to stderr
	logger := infrastructure.NewLogger(logOut, cfg.Logging.Level)

	svc := services.NewDashboardService(services.DashboardConfig{
		Path:                  paths.Dataset,
		NormalizedTemperature: cfg.Dataset.NormalizedTemperature,
	}, nil, nil, logger)
	if err := svc.Load(ctx); err != nil {
		return nil, err
	}
	return &offline{cfg: cfg, paths: paths, logger: logger, svc: svc}, nil
}

// build validates the range flags and derives every view and KPI for them
func (o *offline) build(ctx context.Context, rf rangeFlags) (*domain.Dashboard, error) {
	v := middleware.NewValidator(o.logger, apierrors.NewErrorHandler(o.logger, false))
	if err := v.ValidateStruct(api.DateRangeRequest{Start: rf.start, End: rf.end}); err != nil {
		return nil, describe(err)
	}
	rng, err := o.svc.ParseRange(ctx, rf.start, rf.end)
	if err != nil {
		return nil, err
	}
	return o.svc.Dashboard(ctx, rng)
}
