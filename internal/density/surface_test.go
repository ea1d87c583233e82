package density

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
)

func fitTestSurface(t *testing.T, xs, ys []float64, f func(x, y float64) float64) *Surface {
	t.Helper()
	g, err := NewGrid(xs, ys, rampValues(xs, ys, f))
	require.NoError(t, err)
	s, err := FitSurface(g)
	require.NoError(t, err)
	return s
}

func TestSurfacePassesThroughSamples(t *testing.T) {
	t.Parallel()

	xs := []float64{0, 1, 2.5, 4, 5}
	ys := []float64{-2, 0, 1, 3}
	f := func(x, y float64) float64 { return math.Sin(x/2) * math.Cos(y/3) }
	s := fitTestSurface(t, xs, ys, f)

	for _, x := range xs {
		for _, y := range ys {
			assert.InDelta(t, f(x, y), s.At(x, y), 1e-12,
				"surface value at grid node (%g, %g)", x, y)
		}
	}
}

func TestSurfaceLinearRampIsExact(t *testing.T) {
	t.Parallel()

	xs := []float64{0, 1, 2, 3}
	ys := []float64{0, 1, 2, 3}
	s := fitTestSurface(t, xs, ys, func(x, y float64) float64 { return x + y })

	// Natural cubic splines reproduce a linear field exactly, including
	// between the samples.
	assert.InDelta(t, 1.0, s.At(0.5, 0.5), 1e-12)
	assert.InDelta(t, 4.0, s.At(2.5, 1.5), 1e-12)
	assert.InDelta(t, 1.0, s.Partial(0.5, 0.5, AxisX), 1e-12)
	assert.InDelta(t, 1.0, s.Partial(2.5, 1.5, AxisY), 1e-12)
}

func TestSurfaceBatchMatchesSingle(t *testing.T) {
	t.Parallel()

	xs := []float64{0, 1, 2, 3, 4}
	ys := []float64{0, 1, 2, 3, 4}
	s := fitTestSurface(t, xs, ys, func(x, y float64) float64 { return x*x + y })

	t.Run("batch of one equals single evaluation", func(t *testing.T) {
		t.Parallel()
		got, err := s.AtBatch([]float64{1.7}, []float64{2.3})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, s.At(1.7, 2.3), got[0])
	})

	t.Run("batch is pointwise", func(t *testing.T) {
		t.Parallel()
		qx := []float64{0.5, 1.5, 3.2}
		qy := []float64{0.5, 2.5, 1.1}
		got, err := s.AtBatch(qx, qy)
		require.NoError(t, err)
		require.Len(t, got, 3)
		for i := range qx {
			assert.Equal(t, s.At(qx[i], qy[i]), got[i])
		}
	})

	t.Run("length mismatch rejected", func(t *testing.T) {
		t.Parallel()
		_, err := s.AtBatch([]float64{1, 2, 3}, []float64{1, 2})
		assert.ErrorIs(t, err, ErrLengthMismatch)

		_, err = s.PartialBatch([]float64{1, 2, 3}, []float64{1, 2}, AxisX)
		assert.ErrorIs(t, err, ErrLengthMismatch)
	})
}

func TestSurfacePartialsMatchFiniteDifferences(t *testing.T) {
	t.Parallel()

	xs := []float64{0, 1, 2, 3, 4, 5}
	ys := []float64{0, 1, 2, 3, 4, 5}
	s := fitTestSurface(t, xs, ys, func(x, y float64) float64 {
		return math.Exp(-((x-2.5)*(x-2.5) + (y-2.5)*(y-2.5)) / 4) // smooth bump
	})

	settings := &fd.Settings{Formula: fd.Central}
	points := []struct{ x, y float64 }{
		{1.3, 1.3}, {2.5, 2.5}, {3.7, 1.9}, {1.1, 3.9},
	}
	for _, pt := range points {
		wantDX := fd.Derivative(func(x float64) float64 { return s.At(x, pt.y) }, pt.x, settings)
		wantDY := fd.Derivative(func(y float64) float64 { return s.At(pt.x, y) }, pt.y, settings)

		assert.InDelta(t, wantDX, s.Partial(pt.x, pt.y, AxisX), 1e-4,
			"d/dx at (%g, %g)", pt.x, pt.y)
		assert.InDelta(t, wantDY, s.Partial(pt.x, pt.y, AxisY), 1e-4,
			"d/dy at (%g, %g)", pt.x, pt.y)
	}
}

func TestSurfaceExtrapolatesOutsideDomain(t *testing.T) {
	t.Parallel()

	xs := []float64{0, 1, 2, 3}
	ys := []float64{0, 1, 2, 3}
	s := fitTestSurface(t, xs, ys, func(x, y float64) float64 { return x + y })

	// Queries beyond the domain extend the boundary polynomial rather
	// than clamping or failing; on a linear ramp the extension stays
	// linear, even well past the boundary.
	assert.InDelta(t, 7.0, s.At(3.5, 3.5), 1e-9)
	assert.InDelta(t, -1.0, s.At(-0.5, -0.5), 1e-9)
	assert.InDelta(t, 8.0, s.At(4, 4), 1e-9)
	assert.InDelta(t, -2.0, s.At(-1, -1), 1e-9)

	// The gradient out there comes from the same extended polynomial.
	assert.InDelta(t, 1.0, s.Partial(4, 4, AxisX), 1e-9)
	assert.InDelta(t, 1.0, s.Partial(4, 4, AxisY), 1e-9)
	assert.InDelta(t, 1.0, s.Partial(-1, -1, AxisX), 1e-9)
	assert.False(t, math.IsNaN(s.Partial(4.0, -1.0, AxisX)))
}

func TestSurfaceOutsideDomainValueAndDerivativeAgree(t *testing.T) {
	t.Parallel()

	xs := []float64{0, 1, 2, 3, 4, 5}
	ys := []float64{0, 1, 2, 3, 4, 5}
	s := fitTestSurface(t, xs, ys, func(x, y float64) float64 {
		return math.Exp(-((x-2.5)*(x-2.5) + (y-2.5)*(y-2.5)) / 4)
	})

	// Outside the domain the analytic partials must differentiate the
	// same extended polynomial At evaluates: a clamped value with a
	// nonzero reported gradient would fail this.
	settings := &fd.Settings{Formula: fd.Central}
	points := []struct{ x, y float64 }{
		{5.5, 2.5}, {-0.5, 2.5}, {2.5, 5.5}, {2.5, -0.5}, {6, -1},
	}
	for _, pt := range points {
		wantDX := fd.Derivative(func(x float64) float64 { return s.At(x, pt.y) }, pt.x, settings)
		wantDY := fd.Derivative(func(y float64) float64 { return s.At(pt.x, y) }, pt.y, settings)

		assert.InDelta(t, wantDX, s.Partial(pt.x, pt.y, AxisX), 1e-4,
			"d/dx at (%g, %g)", pt.x, pt.y)
		assert.InDelta(t, wantDY, s.Partial(pt.x, pt.y, AxisY), 1e-4,
			"d/dy at (%g, %g)", pt.x, pt.y)
	}

	// Continuity through the boundary.
	assert.InDelta(t, s.At(5, 2.5), s.At(5+1e-9, 2.5), 1e-6)
	assert.InDelta(t, s.At(0, 2.5), s.At(-1e-9, 2.5), 1e-6)
}

func TestSurfaceMinimalGrid(t *testing.T) {
	t.Parallel()

	// Two samples per axis degenerate to bilinear interpolation.
	xs := []float64{0, 2}
	ys := []float64{0, 2}
	s := fitTestSurface(t, xs, ys, func(x, y float64) float64 { return x * y })

	assert.InDelta(t, 1.0, s.At(1, 1), 1e-12)
	assert.InDelta(t, 1.0, s.Partial(1, 1, AxisX), 1e-12)
	assert.InDelta(t, 1.0, s.Partial(1, 1, AxisY), 1e-12)
}
