package views

import (
	"sort"

	"bikeshare/internal/dataset"
)

// Melt reshapes n wide rows into long form. The result holds one block of n
// rows per value column, blocks in column order, rows in input order.
func Melt[R any](n int, columns []string, row func(i int, column string) R) []R {
	out := make([]R, 0, n*len(columns))
	for _, col := range columns {
		for i := 0; i < n; i++ {
			out = append(out, row(i, col))
		}
	}
	return out
}

// OrderBy stable-sorts rows by the position of key(row) in order.
// Labels missing from order sort last, keeping their relative order.
func OrderBy[R any](rows []R, order []string, key func(R) string) {
	pos := make(map[string]int, len(order))
	for i, v := range order {
		pos[v] = i
	}
	rank := func(r R) int {
		if p, ok := pos[key(r)]; ok {
			return p
		}
		return len(order)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rank(rows[i]) < rank(rows[j])
	})
}

// usersColumns are the value columns melted into the users column
var usersColumns = []string{usersRegistered, usersCasual}

func usersValue(t totals, users string) int64 {
	if users == usersCasual {
		return t.casual
	}
	return t.registered
}

// MonthOrder is the calendar order applied to month views
var MonthOrder = dataset.MonthOrder

// WeekdayOrder is the Sunday-first order applied to weekday views
var WeekdayOrder = dataset.WeekdayOrder
