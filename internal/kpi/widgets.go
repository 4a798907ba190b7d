package kpi

import (
	"strconv"

	"bikeshare/pkg/contracts/domain"
)

// Widget is one labelled metric as shown on the dashboard
type Widget struct {
	Section string `json:"section"`
	Label   string `json:"label"`
	Value   string `json:"value"`
}

// Widgets flattens k into display order. Widgets whose KPI is absent are skipped.
func Widgets(k domain.KPIs) []Widget {
	out := []Widget{{Section: "total", Label: "Total Rental", Value: k.TotalRental}}
	if h := k.Hourly; h != nil {
		out = append(out,
			Widget{"hourly", "Hourly Highest Rental", h.Highest},
			Widget{"hourly", "Hour of the Hourly Highest Rental", strconv.Itoa(h.Hour)},
			Widget{"hourly", "Date of the Hourly Highest Rental", h.Date.String()},
		)
	}
	if d := k.Daily; d != nil {
		out = append(out,
			Widget{"daily", "Daily Highest Rental", d.Highest},
			Widget{"daily", "Date of the Highest Rent", d.Date.String()},
		)
	}
	if m := k.Monthly; m != nil {
		out = append(out,
			Widget{"monthly", "Monthly Highest Rental", m.Highest},
			Widget{"monthly", "Month of the Highest Rental", m.Month},
		)
	}
	return out
}
