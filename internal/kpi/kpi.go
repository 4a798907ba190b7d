// Package kpi computes the numeric summary widgets of the dashboard.
package kpi

import (
	"fmt"
	"math"
	"strconv"

	"bikeshare/pkg/contracts/domain"
)

// FormatNum abbreviates large values: below 1000 the number is printed as is,
// below a million as thousands ("12.35K"), otherwise as millions ("3.29M").
func FormatNum(n float64) string {
	switch abs := math.Abs(n); {
	case abs < 1000:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case abs < 1_000_000:
		return fmt.Sprintf("%.2fK", n/1000)
	default:
		return fmt.Sprintf("%.2fM", n/1_000_000)
	}
}

// Compute derives the KPI widgets from a view bundle.
// Hourly and Daily are nil when the range holds no rows; Monthly is nil only
// when the dataset has no month levels.
func Compute(v *domain.Views) domain.KPIs {
	var k domain.KPIs

	var total int64
	for _, d := range v.DailyRental {
		total += d.TotalRent
	}
	k.TotalRentalValue = total
	k.TotalRental = FormatNum(float64(total))

	k.Hourly = hourly(v.HourlyRental)
	k.Daily = daily(v.DailyRental)
	k.Monthly = monthly(v.MonthlyRental)
	return k
}

// hourly reports the hour of the first row holding the maximum and the
// latest date among all rows that tie on it
func hourly(rows []domain.HourlyRental) *domain.HourlyKPI {
	if len(rows) == 0 {
		return nil
	}
	best := rows[0]
	latest := rows[0].Date
	for _, r := range rows[1:] {
		switch {
		case r.TotalRent > best.TotalRent:
			best = r
			latest = r.Date
		case r.TotalRent == best.TotalRent && r.Date.After(latest.Time):
			latest = r.Date
		}
	}
	return &domain.HourlyKPI{
		Highest:      FormatNum(float64(best.TotalRent)),
		HighestValue: best.TotalRent,
		Hour:         best.Hour,
		Date:         latest,
	}
}

func daily(rows []domain.DailyRental) *domain.DailyKPI {
	if len(rows) == 0 {
		return nil
	}
	best := rows[0]
	for _, r := range rows[1:] {
		if r.TotalRent > best.TotalRent ||
			(r.TotalRent == best.TotalRent && r.Date.After(best.Date.Time)) {
			best = r
		}
	}
	return &domain.DailyKPI{
		Highest:      FormatNum(float64(best.TotalRent)),
		HighestValue: best.TotalRent,
		Date:         best.Date,
	}
}

// monthly keeps the first month among ties; rows arrive in calendar order
func monthly(rows []domain.MonthlyRental) *domain.MonthlyKPI {
	if len(rows) == 0 {
		return nil
	}
	best := rows[0]
	for _, r := range rows[1:] {
		if r.TotalRent > best.TotalRent {
			best = r
		}
	}
	return &domain.MonthlyKPI{
		Highest:      FormatNum(float64(best.TotalRent)),
		HighestValue: best.TotalRent,
		Month:        best.Month,
	}
}
