package dataset

import (
	"errors"
	"sort"
	"time"

	"bikeshare/pkg/contracts/domain"
)

var (
	// ErrEmptyDataset is returned when the input has no header or no data rows
	ErrEmptyDataset = errors.New("dataset is empty")
	// ErrMissingColumn is returned when a required column is absent
	ErrMissingColumn = errors.New("missing required column")
	// ErrInvalidValue is returned when a cell cannot be coerced to its column type
	ErrInvalidValue = errors.New("invalid value")
	// ErrInvalidRange is returned for malformed or out-of-bounds date ranges
	ErrInvalidRange = errors.New("invalid date range")
)

// Record is one hourly observation after coercion
type Record struct {
	Date       time.Time
	Season     string
	Year       int
	Month      string
	Hour       int
	Holiday    string
	Weekday    string
	WorkingDay string
	Weather    string
	Temp       float64
	Casual     int64
	Registered int64
	Count      int64
}

// Levels are the allowed values of every categorical column
type Levels struct {
	Seasons     []string
	Years       []int
	Months      []string
	Hours       []int
	Holidays    []string
	Weekdays    []string
	WorkingDays []string
	Weathers    []string
}

// Dataset is the in-memory table the dashboard is computed from
type Dataset struct {
	Path     string
	Records  []Record
	Levels   Levels
	LoadedAt time.Time
}

// Len returns the number of records
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Info describes the dataset for health and reload notifications
func (d *Dataset) Info() domain.DatasetInfo {
	return domain.DatasetInfo{
		Path:     d.Path,
		Rows:     d.Len(),
		Bounds:   d.Bounds(),
		LoadedAt: d.LoadedAt,
	}
}

// computeLevels collects the distinct values of each categorical column.
// String levels sort lexically, year and hour levels numerically.
func computeLevels(records []Record) Levels {
	seasons := map[string]struct{}{}
	years := map[int]struct{}{}
	months := map[string]struct{}{}
	hours := map[int]struct{}{}
	holidays := map[string]struct{}{}
	weekdays := map[string]struct{}{}
	workingDays := map[string]struct{}{}
	weathers := map[string]struct{}{}

	for i := range records {
		r := &records[i]
		seasons[r.Season] = struct{}{}
		years[r.Year] = struct{}{}
		months[r.Month] = struct{}{}
		hours[r.Hour] = struct{}{}
		holidays[r.Holiday] = struct{}{}
		weekdays[r.Weekday] = struct{}{}
		workingDays[r.WorkingDay] = struct{}{}
		weathers[r.Weather] = struct{}{}
	}

	return Levels{
		Seasons:     sortedStrings(seasons),
		Years:       sortedInts(years),
		Months:      sortedStrings(months),
		Hours:       sortedInts(hours),
		Holidays:    sortedStrings(holidays),
		Weekdays:    sortedStrings(weekdays),
		WorkingDays: sortedStrings(workingDays),
		Weathers:    sortedStrings(weathers),
	}
}

func sortedStrings(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func sortedInts(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}
