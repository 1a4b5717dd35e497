package powerstats

import (
	"errors"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

const (
	plotWidth  = 6.4 * vg.Inch
	plotHeight = 4.8 * vg.Inch

	// DefaultComparisonYMax is the upper watt bound of comparison plots.
	DefaultComparisonYMax = 0.6
)

// Series is one named power trace, one value per second.
type Series struct {
	Name  string
	Watts []float64
}

// PlotOptions controls axis bounds and labelling.
type PlotOptions struct {
	Title string
	// YMax fixes the Y axis to [0, YMax] when positive.
	YMax float64
}

// PlotPower draws every series against time in seconds (starting at 1) and
// saves the figure to path. The format follows the extension (.png, .pdf, .svg).
func PlotPower(path string, opts PlotOptions, series ...Series) error {
	if len(series) == 0 {
		return errors.New("plot: at least one series is required")
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "Time in seconds"
	p.Y.Label.Text = "Power in Watt"
	if opts.YMax > 0 {
		p.Y.Min = 0
		p.Y.Max = opts.YMax
	}
	p.Legend.Top = true
	p.Legend.Left = false

	for i, s := range series {
		if len(s.Watts) == 0 {
			return fmt.Errorf("plot: series %q is empty", s.Name)
		}
		line, err := plotter.NewLine(timeSeries(s.Watts))
		if err != nil {
			return fmt.Errorf("plot: series %q: %w", s.Name, err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		if s.Name != "" {
			p.Legend.Add(s.Name, line)
		}
	}

	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return fmt.Errorf("plot: save %s: %w", path, err)
	}
	return nil
}

// PlotComparison draws a baseline and an optimized run on a shared, fixed Y axis.
func PlotComparison(path, title string, yMax float64, baseline, optimized []float64) error {
	if yMax <= 0 {
		yMax = DefaultComparisonYMax
	}
	return PlotPower(path, PlotOptions{Title: title, YMax: yMax},
		Series{Name: "Baseline", Watts: baseline},
		Series{Name: "Optimized", Watts: optimized},
	)
}

func timeSeries(watts []float64) plotter.XYs {
	pts := make(plotter.XYs, len(watts))
	for i, w := range watts {
		pts[i].X = float64(i + 1)
		pts[i].Y = w
	}
	return pts
}
