// Package plot draws the separation-distance timing curve and the rounding
// error histogram.
package plot

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/record"
)

// DefaultExt is the output format used when none is given.
const DefaultExt = "pdf"

var (
	lineColor = color.RGBA{0x8E, 0x3B, 0x65, 255}
	width     = 6 * vg.Inch
	height    = 3.55 * vg.Inch
)

// ErrNoPoints means there is nothing to draw.
var ErrNoPoints = errors.New("nothing to plot")

// TimingPoint is the average query time at one separation distance.
type TimingPoint struct {
	Distance     float64
	AvgQueryTime float64
}

// TimingPoints extracts the per-distance timings of a keyed method result in
// ascending distance order.
func TimingPoints(r record.MethodResult) []TimingPoint {
	distances := r.Distances()
	out := make([]TimingPoint, 0, len(distances))
	for _, d := range distances {
		out = append(out, TimingPoint{Distance: d.Value, AvgQueryTime: d.Metrics.AvgQueryTime})
	}
	return out
}

// FileName builds "<collision-type>-<name>.<ext>" inside dir.
func FileName(dir string, ct record.CollisionType, name, ext string) string {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if ext == "" {
		ext = DefaultExt
	}
	return filepath.Join(dir, fmt.Sprintf("%s-%s.%s", ct, name, ext))
}

// SeparationTimings plots average query time against separation distance on
// a log x axis and saves it to path. The extension of path picks the format.
func SeparationTimings(points []TimingPoint, title, path string) error {
	if len(points) == 0 {
		return ErrNoPoints
	}
	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		if pt.Distance <= 0 {
			return fmt.Errorf("distance %g cannot be drawn on a log axis", pt.Distance)
		}
		xys[i].X = pt.Distance
		xys[i].Y = pt.AvgQueryTime
	}

	p := gplot.New()
	p.Title.Text = title
	p.X.Label.Text = "Separation distance"
	p.Y.Label.Text = "Average query time (μs)"
	p.X.Scale = gplot.LogScale{}
	p.X.Tick.Marker = gplot.LogTicks{Prec: -1}
	p.Y.Min = 0

	line, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	line.Color = lineColor
	line.Width = vg.Points(3)
	p.Add(line, plotter.NewGrid())

	return save(p, path)
}

// RoundingHistogram plots the distribution of rounding errors into bins and
// saves it to path.
func RoundingHistogram(errs []float64, bins int, title, path string) error {
	if len(errs) == 0 {
		return ErrNoPoints
	}
	if bins < 1 {
		return fmt.Errorf("bins must be positive, got %d", bins)
	}

	p := gplot.New()
	p.Title.Text = title
	p.X.Label.Text = "Rounding error"
	p.Y.Label.Text = "Queries"

	hist, err := plotter.NewHist(plotter.Values(errs), bins)
	if err != nil {
		return err
	}
	hist.FillColor = lineColor
	hist.LineStyle.Width = vg.Points(0.5)
	p.Add(hist)

	return save(p, path)
}

func save(p *gplot.Plot, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create plot directory: %w", err)
		}
	}
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("save plot %s: %w", path, err)
	}
	return nil
}
