package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/wesleyorama2/listbench/internal/metrics"
)

// Chart dimensions.
const (
	chartWidth  = 8 * vg.Inch
	chartHeight = 5 * vg.Inch
)

// NewChart plots the mean elapsed time against thread count, one line per
// (mode, case).
func NewChart(title string, summaries []metrics.Summary) (*plot.Plot, error) {
	series := BuildSeries(summaries)
	if len(series) == 0 {
		return nil, fmt.Errorf("no results to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Threads"
	p.Y.Label.Text = "Mean elapsed (µs)"
	p.Y.Min = 0
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for i, s := range series {
		pts := make(plotter.XYs, len(s.Threads))
		for j := range s.Threads {
			pts[j].X = float64(s.Threads[j])
			pts[j].Y = s.Mean[j]
		}

		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, fmt.Errorf("failed to plot %s: %w", s.Label, err)
		}
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(max(s.Case-1, 0))
		points.Color = plotutil.Color(i)
		points.Shape = plotutil.Shape(i)

		p.Add(line, points)
		p.Legend.Add(s.Label, line, points)
	}

	return p, nil
}

// SaveChart renders the chart to path. The image format follows the file
// extension (.png, .svg or .pdf).
func SaveChart(title string, summaries []metrics.Summary, path string) error {
	p, err := NewChart(title, summaries)
	if err != nil {
		return err
	}

	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return fmt.Errorf("failed to save chart: %w", err)
	}
	return nil
}
