package views

import (
	"errors"
	"fmt"

	"bikeshare/pkg/contracts/domain"
)

// ErrUnknownView is returned when a view name is not one of domain.ViewNames
var ErrUnknownView = errors.New("unknown view")

// Table is a view flattened to named columns, used by the exporters
type Table struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// Rows returns the typed rows of the named view, ready for JSON encoding
func Rows(v *domain.Views, name string) (any, error) {
	switch name {
	case domain.ViewHourlyRental:
		return v.HourlyRental, nil
	case domain.ViewDailyRental:
		return v.DailyRental, nil
	case domain.ViewMonthlyRental:
		return v.MonthlyRental, nil
	case domain.ViewTempRent:
		return v.TempRent, nil
	case domain.ViewRentalPerWeekday:
		return v.RentalPerWeekday, nil
	case domain.ViewWorkingdayPerHour:
		return v.WorkingdayPerHour, nil
	case domain.ViewSeasonsPerHour:
		return v.SeasonsPerHour, nil
	case domain.ViewUsersPerMonth:
		return v.UsersPerMonth, nil
	case domain.ViewRentalPerWeather:
		return v.RentalPerWeather, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownView, name)
}

// Lookup flattens the named view into a Table
func Lookup(v *domain.Views, name string) (Table, error) {
	t := Table{Name: name}
	switch name {
	case domain.ViewHourlyRental:
		t.Columns = []string{"date", "hour", "total_rent"}
		for _, r := range v.HourlyRental {
			t.Rows = append(t.Rows, []any{r.Date, r.Hour, r.TotalRent})
		}
	case domain.ViewDailyRental:
		t.Columns = []string{"date", "total_rent"}
		for _, r := range v.DailyRental {
			t.Rows = append(t.Rows, []any{r.Date, r.TotalRent})
		}
	case domain.ViewMonthlyRental:
		t.Columns = []string{"month", "total_rent"}
		for _, r := range v.MonthlyRental {
			t.Rows = append(t.Rows, []any{r.Month, r.TotalRent})
		}
	case domain.ViewTempRent:
		t.Columns = []string{"temperature", "users", "total_rent"}
		for _, r := range v.TempRent {
			t.Rows = append(t.Rows, []any{r.Temperature, r.Users, r.TotalRent})
		}
	case domain.ViewRentalPerWeekday:
		t.Columns = []string{"weekday", "users", "total_rent"}
		for _, r := range v.RentalPerWeekday {
			t.Rows = append(t.Rows, []any{r.Weekday, r.Users, r.TotalRent})
		}
	case domain.ViewWorkingdayPerHour:
		t.Columns = []string{"year", "hour", "workingday", "total_rent"}
		for _, r := range v.WorkingdayPerHour {
			t.Rows = append(t.Rows, []any{r.Year, r.Hour, r.WorkingDay, r.TotalRent})
		}
	case domain.ViewSeasonsPerHour:
		t.Columns = []string{"year", "hour", "season", "total_rent"}
		for _, r := range v.SeasonsPerHour {
			t.Rows = append(t.Rows, []any{r.Year, r.Hour, r.Season, r.TotalRent})
		}
	case domain.ViewUsersPerMonth:
		t.Columns = []string{"year", "month", "users", "total_rent"}
		for _, r := range v.UsersPerMonth {
			t.Rows = append(t.Rows, []any{r.Year, r.Month, r.Users, r.TotalRent})
		}
	case domain.ViewRentalPerWeather:
		t.Columns = []string{"weather_cond", "users", "total_rent"}
		for _, r := range v.RentalPerWeather {
			t.Rows = append(t.Rows, []any{r.WeatherCond, r.Users, r.TotalRent})
		}
	default:
		return Table{}, fmt.Errorf("%w: %q", ErrUnknownView, name)
	}
	return t, nil
}

// Tables flattens every view in domain.ViewNames order
func Tables(v *domain.Views) []Table {
	out := make([]Table, 0, len(domain.ViewNames))
	for _, name := range domain.ViewNames {
		t, _ := Lookup(v, name)
		out = append(out, t)
	}
	return out
}
