// Package density fits a smooth surface to a rectangular sampling of a
// normalized presence-density map and evaluates it, with exact analytic
// partial derivatives, at arbitrary points. It is the numerical core of
// the eagle-interaction evaluator.
package density

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidGrid indicates a malformed density map: a non-monotonic
	// or duplicated axis value, or a value matrix whose shape disagrees
	// with the axis lengths.
	ErrInvalidGrid = errors.New("density: invalid grid")

	// ErrInsufficientGrid indicates an axis with too few samples to fit
	// any spline (fewer than two).
	ErrInsufficientGrid = errors.New("density: grid too small to fit a spline")

	// ErrLengthMismatch indicates parallel coordinate slices of unequal
	// length in a batch evaluation.
	ErrLengthMismatch = errors.New("density: coordinate slices have different lengths")
)

// Grid is an immutable rectangular sampling of a scalar field over two
// spatial dimensions: strictly increasing x and y axes (metres) and a
// value matrix with one row per x sample and one column per y sample.
//
// Values are normalized presence densities, nominally in [0, 1], but the
// range is not enforced.
type Grid struct {
	xs, ys []float64
	values [][]float64 // values[i][j] sampled at (xs[i], ys[j])
}

// NewGrid validates the axes and value matrix and returns an immutable
// Grid holding copies of them. It fails with ErrInsufficientGrid if an
// axis has fewer than two samples, and with ErrInvalidGrid if an axis is
// not strictly increasing or the value matrix shape does not match the
// axis lengths.
func NewGrid(xs, ys []float64, values [][]float64) (*Grid, error) {
	if len(xs) < 2 {
		return nil, fmt.Errorf("%w: x axis has %d samples, need at least 2", ErrInsufficientGrid, len(xs))
	}
	if len(ys) < 2 {
		return nil, fmt.Errorf("%w: y axis has %d samples, need at least 2", ErrInsufficientGrid, len(ys))
	}
	if err := checkStrictlyIncreasing("x", xs); err != nil {
		return nil, err
	}
	if err := checkStrictlyIncreasing("y", ys); err != nil {
		return nil, err
	}
	if len(values) != len(xs) {
		return nil, fmt.Errorf("%w: value matrix has %d rows for %d x samples",
			ErrInvalidGrid, len(values), len(xs))
	}
	for i, row := range values {
		if len(row) != len(ys) {
			return nil, fmt.Errorf("%w: value matrix row %d has %d columns for %d y samples",
				ErrInvalidGrid, i, len(row), len(ys))
		}
	}

	g := &Grid{
		xs:     append([]float64(nil), xs...),
		ys:     append([]float64(nil), ys...),
		values: make([][]float64, len(values)),
	}
	for i, row := range values {
		g.values[i] = append([]float64(nil), row...)
	}
	return g, nil
}

func checkStrictlyIncreasing(axis string, vs []float64) error {
	for i := 1; i < len(vs); i++ {
		if vs[i] <= vs[i-1] {
			return fmt.Errorf("%w: %s axis not strictly increasing at index %d (%g then %g)",
				ErrInvalidGrid, axis, i, vs[i-1], vs[i])
		}
	}
	return nil
}

// NX returns the number of samples along the x axis.
func (g *Grid) NX() int { return len(g.xs) }

// NY returns the number of samples along the y axis.
func (g *Grid) NY() int { return len(g.ys) }

// X returns the i-th x axis sample.
func (g *Grid) X(i int) float64 { return g.xs[i] }

// Y returns the j-th y axis sample.
func (g *Grid) Y(j int) float64 { return g.ys[j] }

// Value returns the sampled density at (X(i), Y(j)).
func (g *Grid) Value(i, j int) float64 { return g.values[i][j] }

// Bounds returns the coordinate extent of the grid domain.
func (g *Grid) Bounds() (xMin, xMax, yMin, yMax float64) {
	return g.xs[0], g.xs[len(g.xs)-1], g.ys[0], g.ys[len(g.ys)-1]
}
