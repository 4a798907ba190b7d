package kpi

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshare/internal/dataset"
	"bikeshare/internal/shared/testutil"
	"bikeshare/internal/views"
	"bikeshare/pkg/contracts/domain"
)

func TestFormatNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{-999, "-999"},
		{12.5, "12.5"},
		{1000, "1.00K"},
		{12_346, "12.35K"},
		{999_994, "999.99K"},
		{1_000_000, "1.00M"},
		{3_292_679, "3.29M"},
		{-2_500_000, "-2.50M"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNum(tt.in), "FormatNum(%v)", tt.in)
	}
}

func buildViews(t *testing.T, rng *domain.DateRange) *domain.Views {
	t.Helper()
	ds, err := dataset.LoadReader(context.Background(),
		strings.NewReader(testutil.BikeshareCSV(testutil.SampleRows()...)))
	require.NoError(t, err)
	if rng != nil {
		ds = ds.Filter(*rng)
	}
	v, err := views.Build(context.Background(), ds)
	require.NoError(t, err)
	return v
}

func TestCompute(t *testing.T) {
	k := Compute(buildViews(t, nil))

	assert.Equal(t, "800", k.TotalRental)
	assert.Equal(t, int64(800), k.TotalRentalValue)

	require.NotNil(t, k.Hourly)
	assert.Equal(t, "300", k.Hourly.Highest)
	assert.Equal(t, 1, k.Hourly.Hour)
	assert.Equal(t, "2012-07-04", k.Hourly.Date.String())

	require.NotNil(t, k.Daily)
	assert.Equal(t, int64(300), k.Daily.HighestValue)
	assert.Equal(t, "2012-07-04", k.Daily.Date.String())

	require.NotNil(t, k.Monthly)
	assert.Equal(t, "600", k.Monthly.Highest)
	assert.Equal(t, "Jul", k.Monthly.Month)
}

func TestCompute_EmptyRange(t *testing.T) {
	start, _ := domain.ParseDate("2011-02-01")
	end, _ := domain.ParseDate("2011-02-28")

	k := Compute(buildViews(t, &domain.DateRange{Start: start, End: end}))

	assert.Equal(t, "0", k.TotalRental)
	assert.Nil(t, k.Hourly)
	assert.Nil(t, k.Daily)
	require.NotNil(t, k.Monthly)
	assert.Equal(t, int64(0), k.Monthly.HighestValue)
	assert.Equal(t, "Jan", k.Monthly.Month)
}

func TestCompute_Ties(t *testing.T) {
	d1, _ := domain.ParseDate("2011-01-01")
	d2, _ := domain.ParseDate("2011-01-02")

	v := &domain.Views{
		HourlyRental: []domain.HourlyRental{
			{Date: d2, Hour: 8, TotalRent: 50},
			{Date: d1, Hour: 17, TotalRent: 50},
		},
		DailyRental: []domain.DailyRental{
			{Date: d1, TotalRent: 1500},
			{Date: d2, TotalRent: 1500},
		},
		MonthlyRental: []domain.MonthlyRental{
			{Month: "Jan", TotalRent: 3000},
			{Month: "Feb", TotalRent: 3000},
		},
	}

	k := Compute(v)
	assert.Equal(t, "3.00K", k.TotalRental)
	assert.Equal(t, 8, k.Hourly.Hour)
	assert.Equal(t, d2, k.Hourly.Date)
	assert.Equal(t, "1.50K", k.Daily.Highest)
	assert.Equal(t, d2, k.Daily.Date)
	assert.Equal(t, "Jan", k.Monthly.Month)
}

func TestWidgets(t *testing.T) {
	k := Compute(buildViews(t, nil))

	w := Widgets(k)
	require.Len(t, w, 8)
	assert.Equal(t, Widget{"total", "Total Rental", "800"}, w[0])
	assert.Equal(t, Widget{"hourly", "Hour of the Hourly Highest Rental", "1"}, w[2])
	assert.Equal(t, Widget{"daily", "Date of the Highest Rent", "2012-07-04"}, w[5])
	assert.Equal(t, Widget{"monthly", "Month of the Highest Rental", "Jul"}, w[7])

	empty := Widgets(domain.KPIs{TotalRental: "0"})
	assert.Equal(t, []Widget{{"total", "Total Rental", "0"}}, empty)
}
