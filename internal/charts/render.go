package charts

import (
	"context"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	apierrors "bikeshare/internal/errors"
	"bikeshare/pkg/contracts/domain"
)

// suptitleHeight is the space reserved above stacked panels for the figure title
const suptitleHeight = 48

// Render draws the figure id from v and writes it to w as PNG
func Render(ctx context.Context, id string, v *domain.Views, w io.Writer) error {
	fig, err := Lookup(id)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	plots, err := fig.build(v)
	if err != nil {
		return apierrors.NewRenderError("failed to build figure", err).WithContext("figure", id)
	}

	if !fig.perYear {
		p := plots[0]
		p.Title.Text = fig.Title
		p.Title.TextStyle.Font.Size = vg.Points(subtitleSize)
		wt, err := p.WriterTo(fig.Width, fig.Height, "png")
		if err != nil {
			return apierrors.NewRenderError("failed to encode figure", err).WithContext("figure", id)
		}
		if _, err := wt.WriteTo(w); err != nil {
			return apierrors.NewRenderError("failed to write figure", err).WithContext("figure", id)
		}
		return nil
	}

	if len(plots) == 0 {
		plots = append(plots, newPlot("No data in range", "", totalRentLabel))
	}
	return renderStacked(fig, plots, w)
}

// renderStacked draws panels as rows of one image under the figure title
func renderStacked(fig Figure, plots []*plot.Plot, w io.Writer) error {
	img := vgimg.New(fig.Width, fig.Height)
	dc := draw.New(img)

	grid := make([][]*plot.Plot, len(plots))
	for i, p := range plots {
		grid[i] = []*plot.Plot{p}
	}
	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      1,
		PadTop:    vg.Points(suptitleHeight),
		PadBottom: vg.Points(8),
		PadLeft:   vg.Points(8),
		PadRight:  vg.Points(8),
		PadY:      vg.Points(24),
	}
	canvases := plot.Align(grid, tiles, dc)
	for i := range plots {
		plots[i].Draw(canvases[i][0])
	}

	sty := plots[0].Title.TextStyle
	sty.Font.Size = vg.Points(subtitleSize)
	sty.XAlign = text.XCenter
	sty.YAlign = text.YTop
	dc.FillText(sty, vg.Point{X: dc.Center().X, Y: dc.Max.Y - vg.Points(12)}, fig.Title)

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return apierrors.NewRenderError("failed to write figure", err).WithContext("figure", fig.ID)
	}
	return nil
}
