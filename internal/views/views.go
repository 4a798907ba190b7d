package views

import (
	"bikeshare/internal/dataset"
	"bikeshare/pkg/contracts/domain"
)

const (
	usersRegistered = domain.UsersRegistered
	usersCasual     = domain.UsersCasual
)

// HourlyRental projects every record to date, hour and total rent, in input order
func HourlyRental(ds *dataset.Dataset) []domain.HourlyRental {
	out := make([]domain.HourlyRental, len(ds.Records))
	for i := range ds.Records {
		r := &ds.Records[i]
		out[i] = domain.HourlyRental{
			Date:      domain.NewDate(r.Date),
			Hour:      r.Hour,
			TotalRent: r.Count,
		}
	}
	return out
}

// DailyRental sums rentals per observed day, oldest first
func DailyRental(ds *dataset.Dataset) []domain.DailyRental {
	g, dates := groupByDate(ds)
	out := make([]domain.DailyRental, len(dates))
	for i, d := range dates {
		out[i] = domain.DailyRental{
			Date:      domain.NewDate(d),
			TotalRent: g.get(d.Unix()).count,
		}
	}
	return out
}

// MonthlyRental sums rentals per month level, in calendar order
func MonthlyRental(ds *dataset.Dataset) []domain.MonthlyRental {
	g := groupByLabel(ds, func(r *dataset.Record) string { return r.Month })
	out := make([]domain.MonthlyRental, len(ds.Levels.Months))
	for i, m := range ds.Levels.Months {
		out[i] = domain.MonthlyRental{Month: m, TotalRent: g.get(m).count}
	}
	OrderBy(out, MonthOrder, func(r domain.MonthlyRental) string { return r.Month })
	return out
}

// TempRent pairs each day's mean temperature with its registered and casual
// totals. Days are dropped after grouping, leaving a registered block then a
// casual block.
func TempRent(ds *dataset.Dataset) []domain.TempRent {
	g, dates := groupByDate(ds)
	daily := make([]totals, len(dates))
	for i, d := range dates {
		daily[i] = g.get(d.Unix())
	}
	return Melt(len(daily), usersColumns, func(i int, users string) domain.TempRent {
		return domain.TempRent{
			Temperature: daily[i].meanTemp(),
			Users:       users,
			TotalRent:   usersValue(daily[i], users),
		}
	})
}

// RentalPerWeekday sums registered and casual rentals per weekday, Sunday first
func RentalPerWeekday(ds *dataset.Dataset) []domain.WeekdayRental {
	g := groupByLabel(ds, func(r *dataset.Record) string { return r.Weekday })
	levels := ds.Levels.Weekdays
	out := Melt(len(levels), usersColumns, func(i int, users string) domain.WeekdayRental {
		return domain.WeekdayRental{
			Weekday:   levels[i],
			Users:     users,
			TotalRent: usersValue(g.get(levels[i]), users),
		}
	})
	OrderBy(out, WeekdayOrder, func(r domain.WeekdayRental) string { return r.Weekday })
	return out
}

// WorkingdayPerHour sums rentals per (year, hour, working day)
func WorkingdayPerHour(ds *dataset.Dataset) []domain.WorkingdayHourly {
	g := newGroupBy[yearHourKey](len(ds.Levels.Years) * len(ds.Levels.Hours) * 2)
	for i := range ds.Records {
		r := &ds.Records[i]
		g.add(yearHourKey{r.Year, r.Hour, r.WorkingDay}, r)
	}

	out := make([]domain.WorkingdayHourly, 0, len(ds.Levels.Years)*len(ds.Levels.Hours)*len(ds.Levels.WorkingDays))
	for _, y := range ds.Levels.Years {
		for _, h := range ds.Levels.Hours {
			for _, w := range ds.Levels.WorkingDays {
				out = append(out, domain.WorkingdayHourly{
					Year:       y,
					Hour:       h,
					WorkingDay: w,
					TotalRent:  g.get(yearHourKey{y, h, w}).count,
				})
			}
		}
	}
	return out
}

// SeasonsPerHour sums rentals per (year, hour, season)
func SeasonsPerHour(ds *dataset.Dataset) []domain.SeasonHourly {
	g := newGroupBy[yearHourKey](len(ds.Levels.Years) * len(ds.Levels.Hours) * 4)
	for i := range ds.Records {
		r := &ds.Records[i]
		g.add(yearHourKey{r.Year, r.Hour, r.Season}, r)
	}

	out := make([]domain.SeasonHourly, 0, len(ds.Levels.Years)*len(ds.Levels.Hours)*len(ds.Levels.Seasons))
	for _, y := range ds.Levels.Years {
		for _, h := range ds.Levels.Hours {
			for _, s := range ds.Levels.Seasons {
				out = append(out, domain.SeasonHourly{
					Year:      y,
					Hour:      h,
					Season:    s,
					TotalRent: g.get(yearHourKey{y, h, s}).count,
				})
			}
		}
	}
	return out
}

// UsersPerMonth sums registered and casual rentals per (year, month),
// stable-sorted into calendar order
func UsersPerMonth(ds *dataset.Dataset) []domain.UsersMonthly {
	g := newGroupBy[yearLabelKey](len(ds.Levels.Years) * 12)
	for i := range ds.Records {
		r := &ds.Records[i]
		g.add(yearLabelKey{r.Year, r.Month}, r)
	}

	keys := make([]yearLabelKey, 0, len(ds.Levels.Years)*len(ds.Levels.Months))
	for _, y := range ds.Levels.Years {
		for _, m := range ds.Levels.Months {
			keys = append(keys, yearLabelKey{y, m})
		}
	}

	out := Melt(len(keys), usersColumns, func(i int, users string) domain.UsersMonthly {
		return domain.UsersMonthly{
			Year:      keys[i].year,
			Month:     keys[i].label,
			Users:     users,
			TotalRent: usersValue(g.get(keys[i]), users),
		}
	})
	OrderBy(out, MonthOrder, func(r domain.UsersMonthly) string { return r.Month })
	return out
}

// RentalPerWeather sums registered and casual rentals per weather condition
func RentalPerWeather(ds *dataset.Dataset) []domain.WeatherRental {
	g := groupByLabel(ds, func(r *dataset.Record) string { return r.Weather })
	levels := ds.Levels.Weathers
	return Melt(len(levels), usersColumns, func(i int, users string) domain.WeatherRental {
		return domain.WeatherRental{
			WeatherCond: levels[i],
			Users:       users,
			TotalRent:   usersValue(g.get(levels[i]), users),
		}
	})
}
