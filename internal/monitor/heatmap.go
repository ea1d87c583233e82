// Package monitor renders diagnostic views of a fitted presence-density
// surface and of evaluated turbine layouts. Nothing in the evaluation core
// depends on it.
package monitor

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/NLRWindSystems/Ard/internal/density"
)

// surfaceGrid adapts a fitted surface to plotter.GridXYZ by sampling it
// on a uniform raster over the grid domain.
type surfaceGrid struct {
	xs, ys  []float64
	surface *density.Surface
}

func (g surfaceGrid) Dims() (c, r int)   { return len(g.xs), len(g.ys) }
func (g surfaceGrid) X(c int) float64    { return g.xs[c] }
func (g surfaceGrid) Y(r int) float64    { return g.ys[r] }
func (g surfaceGrid) Z(c, r int) float64 { return g.surface.At(g.xs[c], g.ys[r]) }

// SaveHeatmap renders the surface over its own domain at the given raster
// resolution, overlays the turbine positions, and writes a PNG to path.
func SaveHeatmap(surface *density.Surface, xTurbines, yTurbines []float64, resolution int, path string) error {
	if resolution < 2 {
		return fmt.Errorf("monitor: heatmap resolution must be at least 2, got %d", resolution)
	}
	if len(xTurbines) != len(yTurbines) {
		return fmt.Errorf("monitor: %d x and %d y turbine coordinates", len(xTurbines), len(yTurbines))
	}

	xMin, xMax, yMin, yMax := surface.Grid().Bounds()
	grid := surfaceGrid{
		xs:      floats.Span(make([]float64, resolution), xMin, xMax),
		ys:      floats.Span(make([]float64, resolution), yMin, yMax),
		surface: surface,
	}

	p := plot.New()
	p.Title.Text = "Eagle presence density"
	p.X.Label.Text = "Easting (m)"
	p.Y.Label.Text = "Northing (m)"

	hm := plotter.NewHeatMap(grid, palette.Heat(16, 1))
	p.Add(hm)

	pts := make(plotter.XYs, len(xTurbines))
	for i := range pts {
		pts[i] = plotter.XY{X: xTurbines[i], Y: yTurbines[i]}
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("monitor: build turbine scatter: %w", err)
	}
	scatter.Radius = vg.Points(3)
	p.Add(scatter)
	p.Legend.Add("turbines", scatter)
	p.Legend.Top = true

	if err := p.Save(8*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("monitor: save heatmap: %w", err)
	}
	return nil
}
