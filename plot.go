package hhana

import (
	"fmt"
	"image/color"
	"math"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// NewPlot returns a plot with precise ticks on both axes.
func NewPlot(title, xLabel, yLabel string) *hplot.Plot {
	p := hplot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.X.Tick.Marker = PreciseTicks{NSuggestedTicks: 5}
	p.Y.Tick.Marker = PreciseTicks{NSuggestedTicks: 5}
	return p
}

var lineColors = []color.RGBA{
	{A: 255},
	{G: 255, A: 255},
	{B: 255, A: 255},
	{R: 255, B: 127, G: 127, A: 255},
	{R: 255, A: 255},
	{R: 127, B: 255, A: 255},
}

// LineColor cycles through the colors used for overlaid series.
func LineColor(i int) color.Color {
	return lineColors[i%len(lineColors)]
}

// Efficiency divides pass by total bin by bin, with binomial errors on
// the ratio. Bins with no entries in total are left at zero.
func Efficiency(pass, total *hbook.H1D) (plotutil.ErrorPoints, error) {
	n := total.Len()
	if pass.Len() != n {
		return plotutil.ErrorPoints{}, fmt.Errorf("efficiency: %d bins over %d", pass.Len(), n)
	}

	pts := plotutil.ErrorPoints{
		XYs:     make(plotter.XYs, n),
		XErrors: make(plotter.XErrors, n),
		YErrors: make(plotter.YErrors, n),
	}
	for i := 0; i < n; i++ {
		bin := total.Binning.Bins[i]
		halfWidth := bin.XWidth() / 2
		sigma := halfWidth / math.Sqrt(3.)

		pts.XYs[i].X = bin.XMid()
		pts.XErrors[i].Low = sigma
		pts.XErrors[i].High = sigma

		_, all := total.XY(i)
		_, ok := pass.XY(i)
		if all > 0 {
			eff := ok / all
			pts.XYs[i].Y = eff
			pts.YErrors[i].Low = math.Sqrt((1 - eff) * ok / (all * all))
			pts.YErrors[i].High = pts.YErrors[i].Low
		}
	}
	return pts, nil
}

// AddErrorPoints draws pts as error bars in the given color.
func AddErrorPoints(p *hplot.Plot, pts plotutil.ErrorPoints, c color.Color) error {
	xerr, err := plotter.NewXErrorBars(pts)
	if err != nil {
		return err
	}
	yerr, err := plotter.NewYErrorBars(pts)
	if err != nil {
		return err
	}
	xerr.LineStyle.Color = c
	yerr.LineStyle.Color = c
	p.Add(xerr, yerr)
	return nil
}

// Save writes the plot as <prefix>.<ext> for every extension.
func Save(p *hplot.Plot, prefix string, exts ...string) error {
	if len(exts) == 0 {
		exts = []string{"pdf", "png"}
	}
	for _, ext := range exts {
		if err := p.Save(6*vg.Inch, 4*vg.Inch, prefix+"."+ext); err != nil {
			return fmt.Errorf("save %s.%s: %w", prefix, ext, err)
		}
	}
	return nil
}
