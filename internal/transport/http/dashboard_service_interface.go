package http

import (
	"context"

	"bikeshare/pkg/contracts/domain"
)

// DashboardServiceInterface is the part of services.DashboardService the handlers use
type DashboardServiceInterface interface {
	Info(ctx context.Context) (domain.DatasetInfo, error)
	Bounds(ctx context.Context) (domain.DateRange, error)
	ParseRange(ctx context.Context, start, end string) (domain.DateRange, error)
	Dashboard(ctx context.Context, rng domain.DateRange) (*domain.Dashboard, error)
	View(ctx context.Context, rng domain.DateRange, name string) (any, error)
	Reload(ctx context.Context) (domain.DatasetInfo, error)
}
