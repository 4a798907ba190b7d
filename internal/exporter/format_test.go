package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bikeshare/pkg/contracts/domain"
)

func TestFormatCell(t *testing.T) {
	d, _ := domain.ParseDate("2011-07-04")

	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "Mist", "Mist"},
		{"date", d, "2011-07-04"},
		{"zero date", domain.Date{}, ""},
		{"int", 23, "23"},
		{"int64", int64(3292679), "3292679"},
		{"float", 9.84, "9.84"},
		{"whole float", 30.0, "30"},
		{"negative float", -0.005678, "-0.005678"},
		{"nil", nil, ""},
		{"other", true, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatCell(tt.input))
		})
	}
}

func TestWorkbookCell(t *testing.T) {
	d, _ := domain.ParseDate("2012-01-02")
	assert.Equal(t, "2012-01-02", workbookCell(d))
	assert.Equal(t, int64(5), workbookCell(int64(5)))
}
