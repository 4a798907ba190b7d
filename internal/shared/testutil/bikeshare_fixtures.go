package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// BikeshareHeader is the header of the cleaned hourly CSV
const BikeshareHeader = "instant,dteday,season,yr,mnth,hr,holiday,weekday,workingday,weathersit,temp,atemp,hum,windspeed,casual,registered,cnt"

// BikeshareRow is one fixture row. Count is derived from Casual + Registered.
type BikeshareRow struct {
	Date       string
	Season     string
	Year       string
	Month      string
	Hour       int
	Holiday    string
	Weekday    string
	WorkingDay string
	Weather    string
	Temp       float64
	Casual     int
	Registered int
}

// Count returns the cnt column value
func (r BikeshareRow) Count() int {
	return r.Casual + r.Registered
}

// SampleRows returns a small labelled dataset spanning two years.
//
//	daily totals: 2011-01-01=60 2011-01-03=40 2011-07-04=300 2012-01-02=100 2012-07-04=300
//	monthly totals: Jan=200 Jul=600, grand total 800
func SampleRows() []BikeshareRow {
	return []BikeshareRow{
		{"2011-01-01", "Spring", "2011", "Jan", 0, "No", "Saturday", "No", "Clear", 10, 5, 15},
		{"2011-01-01", "Spring", "2011", "Jan", 1, "No", "Saturday", "No", "Mist", 12, 10, 30},
		{"2011-01-03", "Spring", "2011", "Jan", 0, "No", "Monday", "Yes", "Clear", 8, 2, 38},
		{"2011-07-04", "Fall", "2011", "Jul", 1, "Yes", "Monday", "No", "Clear", 30, 100, 200},
		{"2012-01-02", "Spring", "2012", "Jan", 0, "No", "Monday", "Yes", "Light Rain/Snow", 5, 1, 99},
		{"2012-07-04", "Fall", "2012", "Jul", 1, "Yes", "Wednesday", "No", "Clear", 32, 150, 150},
	}
}

// BikeshareCSV renders rows under BikeshareHeader
func BikeshareCSV(rows ...BikeshareRow) string {
	var b strings.Builder
	b.WriteString(BikeshareHeader)
	b.WriteByte('\n')
	for i, r := range rows {
		fmt.Fprintf(&b, "%d,%s,%s,%s,%s,%d,%s,%s,%s,%s,%s,0.5,0.6,0.1,%d,%d,%d\n",
			i+1, r.Date, quote(r.Season), r.Year, r.Month, r.Hour, r.Holiday, r.Weekday,
			r.WorkingDay, quote(r.Weather), strconv.FormatFloat(r.Temp, 'f', -1, 64),
			r.Casual, r.Registered, r.Count())
	}
	return b.String()
}

// WriteBikeshareCSV writes rows to dir/clean_bikeshare_hour.csv and returns the path
func WriteBikeshareCSV(t *testing.T, dir string, rows ...BikeshareRow) string {
	t.Helper()
	path := filepath.Join(dir, "clean_bikeshare_hour.csv")
	if err := os.WriteFile(path, []byte(BikeshareCSV(rows...)), 0644); err != nil {
		t.Fatalf("Failed to write bikeshare fixture: %v", err)
	}
	return path
}

func quote(v string) string {
	if strings.ContainsAny(v, ",\"") {
		return strconv.Quote(v)
	}
	return v
}
