package views

import (
	"sort"
	"time"

	"github.com/dolthub/swiss"

	"bikeshare/internal/dataset"
)

// totals are the aggregates kept per group
type totals struct {
	count      int64
	registered int64
	casual     int64
	tempSum    float64
	n          int64
}

func (t totals) meanTemp() float64 {
	if t.n == 0 {
		return 0
	}
	return t.tempSum / float64(t.n)
}

// groupBy accumulates totals per composite key
type groupBy[K comparable] struct {
	m *swiss.Map[K, totals]
}

func newGroupBy[K comparable](size int) *groupBy[K] {
	return &groupBy[K]{m: swiss.NewMap[K, totals](uint32(size))}
}

func (g *groupBy[K]) add(k K, r *dataset.Record) {
	t, _ := g.m.Get(k)
	t.count += r.Count
	t.registered += r.Registered
	t.casual += r.Casual
	t.tempSum += r.Temp
	t.n++
	g.m.Put(k, t)
}

// get returns the totals of k, zero when no record fell into the group
func (g *groupBy[K]) get(k K) totals {
	t, _ := g.m.Get(k)
	return t
}

// keys returns every observed key sorted with less
func (g *groupBy[K]) keys(less func(a, b K) bool) []K {
	out := make([]K, 0, g.m.Count())
	g.m.Iter(func(k K, _ totals) bool {
		out = append(out, k)
		return false
	})
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// groupByDate groups records by calendar day
func groupByDate(ds *dataset.Dataset) (*groupBy[int64], []time.Time) {
	g := newGroupBy[int64](64)
	for i := range ds.Records {
		g.add(ds.Records[i].Date.Unix(), &ds.Records[i])
	}
	keys := g.keys(func(a, b int64) bool { return a < b })
	dates := make([]time.Time, len(keys))
	for i, k := range keys {
		dates[i] = time.Unix(k, 0).UTC()
	}
	return g, dates
}

// groupByLabel groups records by one categorical column
func groupByLabel(ds *dataset.Dataset, label func(*dataset.Record) string) *groupBy[string] {
	g := newGroupBy[string](16)
	for i := range ds.Records {
		g.add(label(&ds.Records[i]), &ds.Records[i])
	}
	return g
}

// yearHourKey is the (year, hour, label) key of the per-hour views
type yearHourKey struct {
	year  int
	hour  int
	label string
}

// yearLabelKey is the (year, label) key of the per-month users view
type yearLabelKey struct {
	year  int
	label string
}
