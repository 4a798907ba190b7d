package dataset

import (
	"strconv"
	"strings"
)

// MonthOrder is the calendar order used when sorting month labels
var MonthOrder = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// WeekdayOrder is the display order of weekday labels, starting on Sunday
var WeekdayOrder = []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// SeasonLabels maps UCI season codes 1..4
var SeasonLabels = []string{"Spring", "Summer", "Fall", "Winter"}

// WeatherLabels maps UCI weathersit codes 1..4
var WeatherLabels = []string{"Clear", "Mist", "Light Rain/Snow", "Heavy Rain/Snow"}

// FlagLabels maps the 0/1 holiday and workingday codes
var FlagLabels = []string{"No", "Yes"}

// baseYear is the first year of the UCI export, where yr is coded 0/1
const baseYear = 2011

// codeLabel maps a numeric code to its label. offset is the smallest valid code.
// Non-numeric values are matched case-insensitively against the labels and
// returned in canonical casing; anything else is kept as-is.
func codeLabel(raw string, labels []string, offset int) string {
	v := strings.TrimSpace(raw)
	if n, err := strconv.Atoi(v); err == nil {
		if idx := n - offset; idx >= 0 && idx < len(labels) {
			return labels[idx]
		}
		return v
	}
	for _, label := range labels {
		if strings.EqualFold(label, v) || strings.EqualFold(longName(label), v) {
			return label
		}
	}
	return v
}

var longMonths = map[string]string{
	"Jan": "January", "Feb": "February", "Mar": "March", "Apr": "April",
	"May": "May", "Jun": "June", "Jul": "July", "Aug": "August",
	"Sep": "September", "Oct": "October", "Nov": "November", "Dec": "December",
}

func longName(label string) string {
	if long, ok := longMonths[label]; ok {
		return long
	}
	return label
}

func seasonLabel(raw string) string { return codeLabel(raw, SeasonLabels, 1) }

func monthLabel(raw string) string { return codeLabel(raw, MonthOrder, 1) }

func weekdayLabel(raw string) string { return codeLabel(raw, WeekdayOrder, 0) }

func flagLabel(raw string) string { return codeLabel(raw, FlagLabels, 0) }

func weatherLabel(raw string) string { return codeLabel(raw, WeatherLabels, 1) }

// yearValue turns a yr cell into a calendar year. 0/1 codes are offset from
// 2011, real years are kept.
func yearValue(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		f, ferr := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if ferr != nil {
			return 0, err
		}
		n = int(f)
	}
	if n < 2000 {
		return baseYear + n, nil
	}
	return n, nil
}

// OrderIndex returns the position of label in order, or len(order) when the
// label is not part of it so unknown labels sort last.
func OrderIndex(order []string, label string) int {
	for i, v := range order {
		if v == label {
			return i
		}
	}
	return len(order)
}
