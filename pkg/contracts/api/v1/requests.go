// Package api contains API contract definitions for the dashboard.
// Version v1 represents the current stable API version.
package api

// DateRangeRequest carries the sidebar date filter. Empty ends default to the dataset bounds.
type DateRangeRequest struct {
	Start string `json:"start" query:"start" validate:"omitempty,datetime=2006-01-02"`
	End   string `json:"end" query:"end" validate:"omitempty,datetime=2006-01-02"`
}

// ViewRequest selects one derived table
type ViewRequest struct {
	DateRangeRequest
	View string `json:"view" validate:"required,oneof=hourly_rental daily_rental monthly_rental temp_rent rental_per_weekday rental_workingday_per_hour rental_seasons_per_hour rental_users_per_month rental_per_weather"`
}

// FigureRequest selects one chart
type FigureRequest struct {
	DateRangeRequest
	Figure string `json:"figure" validate:"required,oneof=workingday-hourly season-hourly weekday-users users-monthly temperature-users weather-users"`
}
