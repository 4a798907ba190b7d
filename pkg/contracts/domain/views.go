package domain

// Users labels produced by the wide-to-long reshape of the registered/casual columns
const (
	UsersRegistered = "registered"
	UsersCasual     = "casual"
)

// View names, used in URLs, export file names and workbook sheets
const (
	ViewHourlyRental      = "hourly_rental"
	ViewDailyRental       = "daily_rental"
	ViewMonthlyRental     = "monthly_rental"
	ViewTempRent          = "temp_rent"
	ViewRentalPerWeekday  = "rental_per_weekday"
	ViewWorkingdayPerHour = "rental_workingday_per_hour"
	ViewSeasonsPerHour    = "rental_seasons_per_hour"
	ViewUsersPerMonth     = "rental_users_per_month"
	ViewRentalPerWeather  = "rental_per_weather"
)

// ViewNames lists every view in display order
var ViewNames = []string{
	ViewHourlyRental,
	ViewDailyRental,
	ViewMonthlyRental,
	ViewTempRent,
	ViewRentalPerWeekday,
	ViewWorkingdayPerHour,
	ViewSeasonsPerHour,
	ViewUsersPerMonth,
	ViewRentalPerWeather,
}

// HourlyRental is one input row projected to date, hour and count
type HourlyRental struct {
	Date      Date  `json:"date"`
	Hour      int   `json:"hour"`
	TotalRent int64 `json:"total_rent"`
}

// DailyRental is the rental total of one day
type DailyRental struct {
	Date      Date  `json:"date"`
	TotalRent int64 `json:"total_rent"`
}

// MonthlyRental is the rental total of one month label
type MonthlyRental struct {
	Month     string `json:"month"`
	TotalRent int64  `json:"total_rent"`
}

// TempRent pairs a day's mean temperature with one user group's total
type TempRent struct {
	Temperature float64 `json:"temperature"`
	Users       string  `json:"users"`
	TotalRent   int64   `json:"total_rent"`
}

// WeekdayRental is one user group's total on one weekday
type WeekdayRental struct {
	Weekday   string `json:"weekday"`
	Users     string `json:"users"`
	TotalRent int64  `json:"total_rent"`
}

// WorkingdayHourly is the total for one (year, hour, working day) combination
type WorkingdayHourly struct {
	Year       int    `json:"year"`
	Hour       int    `json:"hour"`
	WorkingDay string `json:"workingday"`
	TotalRent  int64  `json:"total_rent"`
}

// SeasonHourly is the total for one (year, hour, season) combination
type SeasonHourly struct {
	Year      int    `json:"year"`
	Hour      int    `json:"hour"`
	Season    string `json:"season"`
	TotalRent int64  `json:"total_rent"`
}

// UsersMonthly is one user group's total for one (year, month) combination
type UsersMonthly struct {
	Year      int    `json:"year"`
	Month     string `json:"month"`
	Users     string `json:"users"`
	TotalRent int64  `json:"total_rent"`
}

// WeatherRental is one user group's total under one weather condition
type WeatherRental struct {
	WeatherCond string `json:"weather_cond"`
	Users       string `json:"users"`
	TotalRent   int64  `json:"total_rent"`
}

// Views bundles every derived table computed from one filtered dataset
type Views struct {
	HourlyRental      []HourlyRental     `json:"hourly_rental"`
	DailyRental       []DailyRental      `json:"daily_rental"`
	MonthlyRental     []MonthlyRental    `json:"monthly_rental"`
	TempRent          []TempRent         `json:"temp_rent"`
	RentalPerWeekday  []WeekdayRental    `json:"rental_per_weekday"`
	WorkingdayPerHour []WorkingdayHourly `json:"rental_workingday_per_hour"`
	SeasonsPerHour    []SeasonHourly     `json:"rental_seasons_per_hour"`
	UsersPerMonth     []UsersMonthly     `json:"rental_users_per_month"`
	RentalPerWeather  []WeatherRental    `json:"rental_per_weather"`

	// Years are the year levels of the dataset, used to split per-year figures
	Years []int `json:"years"`
}
