package charts

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	titleSize    = 14
	subtitleSize = 20
	barWidth     = 14
	pointRadius  = 3
)

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(titleSize)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return p
}

// pointPlot draws one line with markers per hue over nominal x categories
func pointPlot(p *plot.Plot, c categorical, palette []color.Color) error {
	for h, series := range c.hues {
		xys := make(plotter.XYs, len(series.values))
		for i, v := range series.values {
			xys[i] = plotter.XY{X: float64(i), Y: v}
		}
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return fmt.Errorf("failed to build series %q: %w", series.label, err)
		}
		col := colorAt(palette, h)
		line.Color = col
		line.Width = vg.Points(1.5)
		points.Color = col
		points.Shape = draw.CircleGlyph{}
		points.Radius = vg.Points(pointRadius)

		p.Add(line, points)
		p.Legend.Add(series.label, line, points)
	}
	if len(c.categories) > 0 {
		p.NominalX(c.categories...)
	}
	return nil
}

// barPlot draws side-by-side bars per hue over nominal x categories
func barPlot(p *plot.Plot, c categorical, palette []color.Color) error {
	w := vg.Points(barWidth)
	n := len(c.hues)
	for h, series := range c.hues {
		bars, err := plotter.NewBarChart(plotter.Values(series.values), w)
		if err != nil {
			return fmt.Errorf("failed to build bars %q: %w", series.label, err)
		}
		bars.Color = colorAt(palette, h)
		bars.LineStyle.Width = vg.Length(0)
		bars.Offset = vg.Length(float64(h)-float64(n-1)/2) * w

		p.Add(bars)
		p.Legend.Add(series.label, bars)
	}
	if len(c.categories) > 0 {
		p.NominalX(c.categories...)
	}
	return nil
}

// scatterPlot draws one glyph style per hue. xs and ys hold one slice per hue.
func scatterPlot(p *plot.Plot, labels []string, xs, ys [][]float64, palette []color.Color) error {
	shapes := []draw.GlyphDrawer{draw.CircleGlyph{}, draw.CrossGlyph{}, draw.TriangleGlyph{}, draw.SquareGlyph{}}
	for h, label := range labels {
		xys := make(plotter.XYs, len(xs[h]))
		for i := range xs[h] {
			xys[i] = plotter.XY{X: xs[h][i], Y: ys[h][i]}
		}
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("failed to build scatter %q: %w", label, err)
		}
		s.GlyphStyle.Color = colorAt(palette, h)
		s.GlyphStyle.Shape = shapes[h%len(shapes)]
		s.GlyphStyle.Radius = vg.Points(pointRadius)

		p.Add(s)
		p.Legend.Add(label, s)
	}
	return nil
}
