package dataset

import (
	"fmt"
	"strings"

	"bikeshare/pkg/contracts/domain"
)

// DateRange is an inclusive range of calendar days
type DateRange = domain.DateRange

// Bounds returns the earliest and latest date in the dataset.
// An empty dataset has zero bounds.
func (d *Dataset) Bounds() DateRange {
	if d.Len() == 0 {
		return DateRange{}
	}
	lo, hi := d.Records[0].Date, d.Records[0].Date
	for i := 1; i < len(d.Records); i++ {
		t := d.Records[i].Date
		if t.Before(lo) {
			lo = t
		}
		if t.After(hi) {
			hi = t
		}
	}
	return DateRange{Start: domain.NewDate(lo), End: domain.NewDate(hi)}
}

// Filter returns the records whose date lies within rng, both ends included.
// The result shares the category levels of the full dataset.
func (d *Dataset) Filter(rng DateRange) *Dataset {
	out := &Dataset{
		Path:     d.Path,
		Levels:   d.Levels,
		LoadedAt: d.LoadedAt,
	}
	for i := range d.Records {
		if rng.Contains(domain.NewDate(d.Records[i].Date)) {
			out.Records = append(out.Records, d.Records[i])
		}
	}
	return out
}

// ParseDateRange parses "YYYY-MM-DD" start and end values. A blank end
// defaults to the matching bound. The range must be ordered and lie within
// bounds unless bounds are zero.
func ParseDateRange(start, end string, bounds DateRange) (DateRange, error) {
	rng := bounds

	if s := strings.TrimSpace(start); s != "" {
		d, err := domain.ParseDate(s)
		if err != nil {
			return DateRange{}, fmt.Errorf("%w: start: %v", ErrInvalidRange, err)
		}
		rng.Start = d
	}
	if e := strings.TrimSpace(end); e != "" {
		d, err := domain.ParseDate(e)
		if err != nil {
			return DateRange{}, fmt.Errorf("%w: end: %v", ErrInvalidRange, err)
		}
		rng.End = d
	}

	if rng.Start.IsZero() || rng.End.IsZero() {
		return DateRange{}, fmt.Errorf("%w: start and end are required", ErrInvalidRange)
	}
	if rng.Start.After(rng.End.Time) {
		return DateRange{}, fmt.Errorf("%w: start %s is after end %s", ErrInvalidRange, rng.Start, rng.End)
	}
	if !bounds.Start.IsZero() && !bounds.End.IsZero() {
		if rng.Start.Before(bounds.Start.Time) || rng.End.After(bounds.End.Time) {
			return DateRange{}, fmt.Errorf("%w: %s..%s is outside %s..%s",
				ErrInvalidRange, rng.Start, rng.End, bounds.Start, bounds.End)
		}
	}
	return rng, nil
}
