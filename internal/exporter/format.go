package exporter

import (
	"fmt"
	"strconv"

	"bikeshare/pkg/contracts/domain"
)

// formatFloat formats a float64 without trailing zeros
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatCell renders one table cell as text
func formatCell(v any) string {
	switch c := v.(type) {
	case string:
		return c
	case domain.Date:
		return c.String()
	case int:
		return strconv.Itoa(c)
	case int64:
		return formatInt(c)
	case float64:
		return formatFloat(c)
	case nil:
		return ""
	default:
		return fmt.Sprint(c)
	}
}

// workbookCell converts a cell to a value excelize stores with a native type
func workbookCell(v any) any {
	if d, ok := v.(domain.Date); ok {
		return d.String()
	}
	return v
}

func formatRecords(rows [][]any) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		rec := make([]string, len(row))
		for j, cell := range row {
			rec[j] = formatCell(cell)
		}
		out[i] = rec
	}
	return out
}
