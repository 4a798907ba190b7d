package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	apierrors "bikeshare/internal/errors"
)

// Column names of the input file
const (
	ColDate       = "dteday"
	ColSeason     = "season"
	ColYear       = "yr"
	ColMonth      = "mnth"
	ColHour       = "hr"
	ColHoliday    = "holiday"
	ColWeekday    = "weekday"
	ColWorkingDay = "workingday"
	ColWeather    = "weathersit"
	ColTemp       = "temp"
	ColCasual     = "casual"
	ColRegistered = "registered"
	ColCount      = "cnt"
)

// RequiredColumns must all be present in the header
var RequiredColumns = []string{
	ColDate, ColSeason, ColYear, ColMonth, ColHour, ColHoliday, ColWeekday,
	ColWorkingDay, ColWeather, ColTemp, ColCasual, ColRegistered, ColCount,
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// normalizedTempScale converts UCI normalized temperatures (t/41) to Celsius
const normalizedTempScale = 41.0

// dateLayouts are tried in order when parsing dteday
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// columnTypes forces every column to the type it is coerced from, so the
// frame never guesses a categorical code column as numeric.
var columnTypes = map[string]series.Type{
	ColDate:       series.String,
	ColSeason:     series.String,
	ColYear:       series.String,
	ColMonth:      series.String,
	ColHour:       series.Float,
	ColHoliday:    series.String,
	ColWeekday:    series.String,
	ColWorkingDay: series.String,
	ColWeather:    series.String,
	ColTemp:       series.Float,
	ColCasual:     series.Float,
	ColRegistered: series.Float,
	ColCount:      series.Float,
}

type loadOptions struct {
	normalizedTemp bool
	logger         *slog.Logger
	now            func() time.Time
}

// Option configures Load and LoadReader
type Option func(*loadOptions)

// WithNormalizedTemperature rescales temp values from the UCI 0..1 form to Celsius
func WithNormalizedTemperature() Option {
	return func(o *loadOptions) { o.normalizedTemp = true }
}

// WithLogger sets the logger used for load diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(o *loadOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newLoadOptions(opts []Option) *loadOptions {
	o := &loadOptions{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Load reads the CSV file at path
func Load(ctx context.Context, path string, opts ...Option) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	ds, err := LoadReader(ctx, f, opts...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	ds.Path = path
	return ds, nil
}

// LoadReader reads CSV content from r
func LoadReader(ctx context.Context, r io.Reader, opts ...Option) (*Dataset, error) {
	o := newLoadOptions(opts)
	start := time.Now()

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, apierrors.NewStorageError("failed to read dataset", err)
	}
	content, err := normalizeHeader(raw)
	if err != nil {
		return nil, err
	}

	df := dataframe.ReadCSV(bytes.NewReader(content),
		dataframe.DetectTypes(false),
		dataframe.WithTypes(columnTypes),
	)
	if df.Err != nil {
		return nil, apierrors.NewParsingError("failed to read csv", df.Err)
	}

	records, err := coerce(ctx, df, o)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{
		Records:  records,
		Levels:   computeLevels(records),
		LoadedAt: o.now(),
	}

	o.logger.Info("Dataset loaded",
		slog.Int("rows", len(records)),
		slog.Int("years", len(ds.Levels.Years)),
		slog.Bool("normalized_temp", o.normalizedTemp),
		slog.Duration("duration", time.Since(start)))

	return ds, nil
}

// normalizeHeader strips a UTF-8 BOM and the padding around column names
// so the frame's names match RequiredColumns, then checks the header and
// that at least one data row follows it.
func normalizeHeader(raw []byte) ([]byte, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)

	line, body, _ := bytes.Cut(raw, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(bytes.TrimSpace(line)) == 0 {
		return nil, ErrEmptyDataset
	}

	names, err := csv.NewReader(bytes.NewReader(line)).Read()
	if err != nil {
		return nil, apierrors.NewParsingError("failed to read csv header", err)
	}
	for i, n := range names {
		names[i] = strings.TrimSpace(n)
	}
	if err := checkColumns(names); err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, ErrEmptyDataset
	}

	var out bytes.Buffer
	out.Grow(len(raw))
	w := csv.NewWriter(&out)
	if err := w.Write(names); err != nil {
		return nil, err
	}
	w.Flush()
	out.Write(body)
	return out.Bytes(), nil
}

func checkColumns(names []string) error {
	present := make(map[string]bool, len(names))
	for _, n := range names {
		present[n] = true
	}
	for _, col := range RequiredColumns {
		if !present[col] {
			return fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	return nil
}

// coerce converts the typed frame into records. Rows are reported 1-based
// with the header excluded.
func coerce(ctx context.Context, df dataframe.DataFrame, o *loadOptions) ([]Record, error) {
	cols := make(map[string]series.Series, len(RequiredColumns))
	for _, name := range RequiredColumns {
		col := df.Col(name)
		if col.Err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
		cols[name] = col
	}

	str := func(col string, i int) (string, error) {
		e := cols[col].Elem(i)
		if e.IsNA() {
			return "", invalidValue(i, col, "NA")
		}
		return e.String(), nil
	}
	num := func(col string, i int) (float64, error) {
		e := cols[col].Elem(i)
		if e.IsNA() {
			return 0, invalidValue(i, col, "not a number")
		}
		return e.Float(), nil
	}

	n := df.Nrow()
	records := make([]Record, n)
	for i := 0; i < n; i++ {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		rawDate, err := str(ColDate, i)
		if err != nil {
			return nil, err
		}
		date, err := parseDate(rawDate)
		if err != nil {
			return nil, invalidValue(i, ColDate, rawDate)
		}

		rawYear, err := str(ColYear, i)
		if err != nil {
			return nil, err
		}
		year, err := yearValue(rawYear)
		if err != nil {
			return nil, invalidValue(i, ColYear, rawYear)
		}

		labels := make(map[string]string, 6)
		for _, col := range []string{ColSeason, ColMonth, ColHoliday, ColWeekday, ColWorkingDay, ColWeather} {
			v, err := str(col, i)
			if err != nil {
				return nil, err
			}
			labels[col] = v
		}

		var nums [5]float64
		for j, col := range []string{ColHour, ColTemp, ColCasual, ColRegistered, ColCount} {
			v, err := num(col, i)
			if err != nil {
				return nil, err
			}
			nums[j] = v
		}

		temp := nums[1]
		if o.normalizedTemp {
			temp *= normalizedTempScale
		}

		records[i] = Record{
			Date:       date,
			Season:     seasonLabel(labels[ColSeason]),
			Year:       year,
			Month:      monthLabel(labels[ColMonth]),
			Hour:       int(math.Round(nums[0])),
			Holiday:    flagLabel(labels[ColHoliday]),
			Weekday:    weekdayLabel(labels[ColWeekday]),
			WorkingDay: flagLabel(labels[ColWorkingDay]),
			Weather:    weatherLabel(labels[ColWeather]),
			Temp:       temp,
			Casual:     int64(math.Round(nums[2])),
			Registered: int64(math.Round(nums[3])),
			Count:      int64(math.Round(nums[4])),
		}
	}
	return records, nil
}

func invalidValue(i int, col, raw string) error {
	return fmt.Errorf("%w: row %d column %s: %q", ErrInvalidValue, i+1, col, raw)
}

// parseDate parses a dteday cell and truncates it to the UTC calendar day
func parseDate(raw string) (time.Time, error) {
	v := strings.TrimSpace(raw)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, v)
		if err == nil {
			return truncateDay(t), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
