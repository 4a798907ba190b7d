package charts

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshare/internal/dataset"
	apierrors "bikeshare/internal/errors"
	"bikeshare/internal/shared/testutil"
	"bikeshare/internal/views"
	"bikeshare/pkg/contracts/domain"
)

func sampleViews(t *testing.T) *domain.Views {
	t.Helper()
	ds, err := dataset.LoadReader(context.Background(),
		strings.NewReader(testutil.BikeshareCSV(testutil.SampleRows()...)))
	require.NoError(t, err)
	v, err := views.Build(context.Background(), ds)
	require.NoError(t, err)
	return v
}

func TestRender(t *testing.T) {
	v := sampleViews(t)

	for _, id := range IDs() {
		t.Run(id, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Render(context.Background(), id, v, &buf))

			img, err := png.Decode(&buf)
			require.NoError(t, err)
			assert.Greater(t, img.Bounds().Dx(), 100)
			assert.Greater(t, img.Bounds().Dy(), 100)
		})
	}
}

func TestRender_EmptyViews(t *testing.T) {
	for _, id := range IDs() {
		var buf bytes.Buffer
		require.NoError(t, Render(context.Background(), id, &domain.Views{}, &buf), id)
		assert.NotZero(t, buf.Len())
	}
}

func TestRender_Errors(t *testing.T) {
	var buf bytes.Buffer
	err := Render(context.Background(), "pie-chart", &domain.Views{}, &buf)
	assert.ErrorIs(t, err, ErrUnknownFigure)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = Render(ctx, FigureWeekdayUsers, &domain.Views{}, &buf)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRender_WriteFailure(t *testing.T) {
	v := sampleViews(t)

	for _, id := range IDs() {
		t.Run(id, func(t *testing.T) {
			err := Render(context.Background(), id, v, failingWriter{})
			require.Error(t, err)

			var appErr *apierrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, apierrors.ErrTypeRender, appErr.Type)
			assert.Equal(t, id, appErr.Context["figure"])
		})
	}
}

func TestLookup(t *testing.T) {
	f, err := Lookup(FigureSeasonHourly)
	require.NoError(t, err)
	assert.Equal(t, "Total of Bike Sharing Rental by Season per Hour", f.Title)
	assert.Equal(t, domain.ViewSeasonsPerHour, f.View)
	assert.Equal(t, SectionHourly, f.Section)

	assert.Len(t, IDs(), 6)
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#34ae91")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0x34, G: 0xae, B: 0x91, A: 0xff}, c)

	_, err = ParseHex("#fff")
	assert.Error(t, err)
	_, err = ParseHex("#zzzzzz")
	assert.Error(t, err)
}

func TestPivot(t *testing.T) {
	rows := []domain.WeekdayRental{
		{Weekday: "Monday", Users: "registered", TotalRent: 10},
		{Weekday: "Friday", Users: "registered", TotalRent: 20},
		{Weekday: "Monday", Users: "casual", TotalRent: 1},
		{Weekday: "Friday", Users: "casual", TotalRent: 2},
	}
	c := pivot(len(rows),
		func(i int) string { return rows[i].Weekday },
		func(i int) string { return rows[i].Users },
		func(i int) float64 { return float64(rows[i].TotalRent) })

	assert.Equal(t, []string{"Monday", "Friday"}, c.categories)
	require.Len(t, c.hues, 2)
	assert.Equal(t, "registered", c.hues[0].label)
	assert.Equal(t, []float64{10, 20}, c.hues[0].values)
	assert.Equal(t, []float64{1, 2}, c.hues[1].values)
}
