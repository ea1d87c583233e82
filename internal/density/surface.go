package density

import (
	"fmt"
)

// Axis selects the coordinate a partial derivative is taken with respect
// to.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// Surface is a smooth bivariate interpolant fitted once to a Grid and
// never mutated afterwards. It is built as a tensor product of natural
// cubic splines: one spline per x-row fitted along y at construction, and
// a cross spline along x fitted per evaluation. The surface passes through
// every grid sample and is continuously differentiable inside the domain,
// and the first partial derivatives are evaluated analytically from the
// spline coefficients rather than by finite differencing.
//
// Queries outside the grid domain extrapolate by polynomial extension of
// the boundary spline segment; they are neither clamped nor rejected, and
// the extended value and derivative come from the same polynomial, so
// they stay mutually consistent.
//
// Row splines are fitted once at construction; each evaluated point then
// fits one cross spline along x, an O(NX) tridiagonal solve, so a batch
// costs O(N·NX). A Surface is safe for concurrent read-only use:
// evaluation allocates its own scratch state per call.
type Surface struct {
	grid *Grid
	rows []*cubicSpline // rows[i] fits values[i] along the y axis
}

// FitSurface fits the interpolant to a validated grid. With two samples
// on an axis the natural cubic spline degenerates to the linear
// interpolant, so any Grid accepted by NewGrid can be fitted.
func FitSurface(g *Grid) (*Surface, error) {
	rows := make([]*cubicSpline, g.NX())
	for i := range rows {
		rows[i] = newCubicSpline(g.ys, g.values[i])
	}
	return &Surface{grid: g, rows: rows}, nil
}

// Grid returns the sampled field the surface was fitted to.
func (s *Surface) Grid() *Grid { return s.grid }

// At returns the interpolated density at a single point.
func (s *Surface) At(x, y float64) float64 {
	cross := s.fitCross(func(row *cubicSpline) float64 {
		return row.predict(y)
	})
	return cross.predict(x)
}

// AtBatch evaluates the surface pointwise over parallel coordinate
// slices. It fails with ErrLengthMismatch if the slices differ in length.
func (s *Surface) AtBatch(xs, ys []float64) ([]float64, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: %d x and %d y", ErrLengthMismatch, len(xs), len(ys))
	}
	out := make([]float64, len(xs))
	for i := range xs {
		out[i] = s.At(xs[i], ys[i])
	}
	return out, nil
}

// PartialBatch returns, for each point, the first partial derivative of
// the surface with respect to the chosen axis. Same length contract as
// AtBatch.
func (s *Surface) PartialBatch(xs, ys []float64, axis Axis) ([]float64, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: %d x and %d y", ErrLengthMismatch, len(xs), len(ys))
	}
	out := make([]float64, len(xs))
	for i := range xs {
		out[i] = s.Partial(xs[i], ys[i], axis)
	}
	return out, nil
}

// Partial returns the first partial derivative of the surface with
// respect to the chosen axis at a single point.
func (s *Surface) Partial(x, y float64, axis Axis) float64 {
	switch axis {
	case AxisX:
		cross := s.fitCross(func(row *cubicSpline) float64 {
			return row.predict(y)
		})
		return cross.predictDerivative(x)
	case AxisY:
		cross := s.fitCross(func(row *cubicSpline) float64 {
			return row.predictDerivative(y)
		})
		return cross.predict(x)
	default:
		panic(fmt.Sprintf("density: unknown axis %d", axis))
	}
}

// fitCross builds the spline along x through the per-row samples produced
// by sample.
func (s *Surface) fitCross(sample func(row *cubicSpline) float64) *cubicSpline {
	col := make([]float64, len(s.rows))
	for i := range s.rows {
		col[i] = sample(s.rows[i])
	}
	return newCubicSpline(s.grid.xs, col)
}
