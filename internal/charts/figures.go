package charts

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"bikeshare/pkg/contracts/domain"
)

// ErrUnknownFigure is returned for ids not listed in Figures
var ErrUnknownFigure = errors.New("unknown figure")

// Figure ids
const (
	FigureWorkingdayHourly = "workingday-hourly"
	FigureSeasonHourly     = "season-hourly"
	FigureWeekdayUsers     = "weekday-users"
	FigureUsersMonthly     = "users-monthly"
	FigureTemperatureUsers = "temperature-users"
	FigureWeatherUsers     = "weather-users"
)

// Dashboard sections a figure is shown under
const (
	SectionHourly  = "hourly"
	SectionDaily   = "daily"
	SectionMonthly = "monthly"
	SectionWeather = "weather"
)

const totalRentLabel = "Total Rent"

// Figure describes one renderable chart
type Figure struct {
	ID      string
	Title   string
	Section string
	View    string
	Width   vg.Length
	Height  vg.Length

	// perYear figures return one panel per year; others return a single panel
	perYear bool
	build   func(v *domain.Views) ([]*plot.Plot, error)
}

// Figures lists every figure in page order
var Figures = []Figure{
	{
		ID:      FigureWorkingdayHourly,
		Title:   "Total of Bike Sharing Rental by Working Day per Hour",
		Section: SectionHourly,
		View:    domain.ViewWorkingdayPerHour,
		Width:   15 * vg.Inch,
		Height:  12 * vg.Inch,
		perYear: true,
		build:   buildWorkingdayHourly,
	},
	{
		ID:      FigureSeasonHourly,
		Title:   "Total of Bike Sharing Rental by Season per Hour",
		Section: SectionHourly,
		View:    domain.ViewSeasonsPerHour,
		Width:   15 * vg.Inch,
		Height:  12 * vg.Inch,
		perYear: true,
		build:   buildSeasonHourly,
	},
	{
		ID:      FigureWeekdayUsers,
		Title:   "Total of Bike Sharing Rental by Day",
		Section: SectionDaily,
		View:    domain.ViewRentalPerWeekday,
		Width:   8 * vg.Inch,
		Height:  6 * vg.Inch,
		build:   buildWeekdayUsers,
	},
	{
		ID:      FigureUsersMonthly,
		Title:   "Total of Bike Sharing Rental by Users per Month",
		Section: SectionMonthly,
		View:    domain.ViewUsersPerMonth,
		Width:   15 * vg.Inch,
		Height:  12 * vg.Inch,
		perYear: true,
		build:   buildUsersMonthly,
	},
	{
		ID:      FigureTemperatureUsers,
		Title:   "Total Rent with Temperature by Users",
		Section: SectionWeather,
		View:    domain.ViewTempRent,
		Width:   8 * vg.Inch,
		Height:  6 * vg.Inch,
		build:   buildTemperatureUsers,
	},
	{
		ID:      FigureWeatherUsers,
		Title:   "Total of Bike Sharing Rental by Weather",
		Section: SectionWeather,
		View:    domain.ViewRentalPerWeather,
		Width:   8 * vg.Inch,
		Height:  6 * vg.Inch,
		build:   buildWeatherUsers,
	},
}

// Lookup returns the figure with the given id
func Lookup(id string) (Figure, error) {
	for _, f := range Figures {
		if f.ID == id {
			return f, nil
		}
	}
	return Figure{}, fmt.Errorf("%w: %q", ErrUnknownFigure, id)
}

// IDs returns every figure id in page order
func IDs() []string {
	ids := make([]string, len(Figures))
	for i, f := range Figures {
		ids[i] = f.ID
	}
	return ids
}

var (
	usersPalette  = mustPalette(PaletteUsers)
	seasonPalette = mustPalette(PaletteSeasons)
)

// yearPanels builds one point-plot panel per year
func yearPanels(years []int, xLabel string, palette []color.Color, pivotYear func(year int) categorical) ([]*plot.Plot, error) {
	plots := make([]*plot.Plot, 0, len(years))
	for _, y := range years {
		p := newPlot(fmt.Sprintf("Year %d", y), xLabel, totalRentLabel)
		if err := pointPlot(p, pivotYear(y), palette); err != nil {
			return nil, err
		}
		plots = append(plots, p)
	}
	return plots, nil
}

func buildWorkingdayHourly(v *domain.Views) ([]*plot.Plot, error) {
	return yearPanels(v.Years, "Hour of The Day", usersPalette, func(year int) categorical {
		var rows []domain.WorkingdayHourly
		for _, r := range v.WorkingdayPerHour {
			if r.Year == year {
				rows = append(rows, r)
			}
		}
		return pivot(len(rows),
			func(i int) string { return fmt.Sprint(rows[i].Hour) },
			func(i int) string { return rows[i].WorkingDay },
			func(i int) float64 { return float64(rows[i].TotalRent) })
	})
}

func buildSeasonHourly(v *domain.Views) ([]*plot.Plot, error) {
	return yearPanels(v.Years, "Hour of The Day", seasonPalette, func(year int) categorical {
		var rows []domain.SeasonHourly
		for _, r := range v.SeasonsPerHour {
			if r.Year == year {
				rows = append(rows, r)
			}
		}
		return pivot(len(rows),
			func(i int) string { return fmt.Sprint(rows[i].Hour) },
			func(i int) string { return rows[i].Season },
			func(i int) float64 { return float64(rows[i].TotalRent) })
	})
}

func buildUsersMonthly(v *domain.Views) ([]*plot.Plot, error) {
	return yearPanels(v.Years, "Month of The Year", usersPalette, func(year int) categorical {
		var rows []domain.UsersMonthly
		for _, r := range v.UsersPerMonth {
			if r.Year == year {
				rows = append(rows, r)
			}
		}
		return pivot(len(rows),
			func(i int) string { return rows[i].Month },
			func(i int) string { return rows[i].Users },
			func(i int) float64 { return float64(rows[i].TotalRent) })
	})
}

func buildWeekdayUsers(v *domain.Views) ([]*plot.Plot, error) {
	rows := v.RentalPerWeekday
	p := newPlot("", "Day of The Week", totalRentLabel)
	c := pivot(len(rows),
		func(i int) string { return rows[i].Weekday },
		func(i int) string { return rows[i].Users },
		func(i int) float64 { return float64(rows[i].TotalRent) })
	if err := barPlot(p, c, usersPalette); err != nil {
		return nil, err
	}
	return []*plot.Plot{p}, nil
}

func buildWeatherUsers(v *domain.Views) ([]*plot.Plot, error) {
	rows := v.RentalPerWeather
	p := newPlot("", "Weather Condition", totalRentLabel)
	c := pivot(len(rows),
		func(i int) string { return rows[i].WeatherCond },
		func(i int) string { return rows[i].Users },
		func(i int) float64 { return float64(rows[i].TotalRent) })
	if err := barPlot(p, c, usersPalette); err != nil {
		return nil, err
	}
	return []*plot.Plot{p}, nil
}

func buildTemperatureUsers(v *domain.Views) ([]*plot.Plot, error) {
	var labels []string
	idx := map[string]int{}
	var xs, ys [][]float64
	for _, r := range v.TempRent {
		h, ok := idx[r.Users]
		if !ok {
			h = len(labels)
			idx[r.Users] = h
			labels = append(labels, r.Users)
			xs = append(xs, nil)
			ys = append(ys, nil)
		}
		xs[h] = append(xs[h], r.Temperature)
		ys[h] = append(ys[h], float64(r.TotalRent))
	}

	p := newPlot("", "Temperature in Celsius", totalRentLabel)
	if err := scatterPlot(p, labels, xs, ys, usersPalette); err != nil {
		return nil, err
	}
	return []*plot.Plot{p}, nil
}
