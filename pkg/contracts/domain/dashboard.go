package domain

import "time"

// HourlyKPI summarizes the busiest hour in the range
type HourlyKPI struct {
	Highest      string `json:"highest"`
	HighestValue int64  `json:"highest_value"`
	Hour         int    `json:"hour"`
	Date         Date   `json:"date"`
}

// DailyKPI summarizes the busiest day in the range
type DailyKPI struct {
	Highest      string `json:"highest"`
	HighestValue int64  `json:"highest_value"`
	Date         Date   `json:"date"`
}

// MonthlyKPI summarizes the busiest month in the range
type MonthlyKPI struct {
	Highest      string `json:"highest"`
	HighestValue int64  `json:"highest_value"`
	Month        string `json:"month"`
}

// KPIs are the numeric summary widgets shown above the charts.
// Hourly and Daily are nil when the range holds no rows.
type KPIs struct {
	TotalRental      string      `json:"total_rental"`
	TotalRentalValue int64       `json:"total_rental_value"`
	Hourly           *HourlyKPI  `json:"hourly,omitempty"`
	Daily            *DailyKPI   `json:"daily,omitempty"`
	Monthly          *MonthlyKPI `json:"monthly,omitempty"`
}

// Dashboard is everything rendered for one date range
type Dashboard struct {
	Range    DateRange `json:"range"`
	Bounds   DateRange `json:"bounds"`
	Rows     int       `json:"rows"`
	Views    *Views    `json:"views"`
	KPIs     KPIs      `json:"kpis"`
	BuiltAt  time.Time `json:"built_at"`
	LoadedAt time.Time `json:"loaded_at"`
}

// DatasetInfo describes the currently loaded input file
type DatasetInfo struct {
	Path     string    `json:"path"`
	Rows     int       `json:"rows"`
	Bounds   DateRange `json:"bounds"`
	LoadedAt time.Time `json:"loaded_at"`
}
