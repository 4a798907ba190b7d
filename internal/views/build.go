package views

import (
	"context"

	"golang.org/x/sync/errgroup"

	"bikeshare/internal/dataset"
	"bikeshare/pkg/contracts/domain"
)

// Build computes every view of ds concurrently
func Build(ctx context.Context, ds *dataset.Dataset) (*domain.Views, error) {
	v := &domain.Views{
		Years: append([]int(nil), ds.Levels.Years...),
	}

	g, ctx := errgroup.WithContext(ctx)
	run := func(compute func()) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			compute()
			return nil
		})
	}

	// each goroutine writes a distinct field
	run(func() { v.HourlyRental = HourlyRental(ds) })
	run(func() { v.DailyRental = DailyRental(ds) })
	run(func() { v.MonthlyRental = MonthlyRental(ds) })
	run(func() { v.TempRent = TempRent(ds) })
	run(func() { v.RentalPerWeekday = RentalPerWeekday(ds) })
	run(func() { v.WorkingdayPerHour = WorkingdayPerHour(ds) })
	run(func() { v.SeasonsPerHour = SeasonsPerHour(ds) })
	run(func() { v.UsersPerMonth = UsersPerMonth(ds) })
	run(func() { v.RentalPerWeather = RentalPerWeather(ds) })

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return v, nil
}
