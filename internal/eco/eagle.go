// Package eco scores wind-plant layouts against ecological constraints.
// The eagle evaluator looks up a normalized eagle presence density at
// each turbine position and supplies exact partial derivatives of those
// densities with respect to the turbine coordinates, for consumption by
// a gradient-based layout optimizer.
package eco

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/NLRWindSystems/Ard/internal/density"
)

// ErrShapeMismatch indicates a layout whose coordinate slices disagree
// with the evaluator's configured turbine count.
var ErrShapeMismatch = errors.New("eco: layout does not match configured turbine count")

// Layout holds one iteration's turbine positions: parallel Easting and
// Northing coordinate slices in metres. A Layout is supplied fresh on
// every evaluation and never retained.
type Layout struct {
	X []float64
	Y []float64
}

// Result is the output of one evaluation. Density[i] is the interpolated
// presence density at turbine i. DDensityDX and DDensityDY are the N×N
// Jacobian blocks of Density with respect to the X and Y coordinate
// slices. Turbine i's density depends only on turbine i's own position,
// so both blocks are diagonal; they are materialized as mat.DiagDense so
// storage stays O(N) rather than O(N²).
type Result struct {
	Density    []float64
	DDensityDX *mat.DiagDense
	DDensityDY *mat.DiagDense
}

// Evaluator evaluates eagle presence density for a plant with a fixed
// turbine count. It holds only the immutable fitted surface and keeps no
// state between calls, so one Evaluator may serve every iteration of an
// optimization run, including concurrently.
type Evaluator struct {
	surface   *density.Surface
	nTurbines int
}

// NewEvaluator wraps a fitted surface for a plant of nTurbines turbines.
func NewEvaluator(surface *density.Surface, nTurbines int) (*Evaluator, error) {
	if nTurbines <= 0 {
		return nil, fmt.Errorf("eco: turbine count must be positive, got %d", nTurbines)
	}
	return &Evaluator{surface: surface, nTurbines: nTurbines}, nil
}

// NTurbines returns the fixed turbine count the evaluator was configured
// with.
func (e *Evaluator) NTurbines() int { return e.nTurbines }

// Evaluate scores one layout. It fails with ErrShapeMismatch if the
// layout's coordinate slices do not both have length NTurbines. Any
// failure aborts the call with no partial results.
func (e *Evaluator) Evaluate(layout Layout) (*Result, error) {
	if len(layout.X) != e.nTurbines || len(layout.Y) != e.nTurbines {
		return nil, fmt.Errorf("%w: got %d x and %d y coordinates for %d turbines",
			ErrShapeMismatch, len(layout.X), len(layout.Y), e.nTurbines)
	}

	dens, err := e.surface.AtBatch(layout.X, layout.Y)
	if err != nil {
		return nil, err
	}
	dx, err := e.surface.PartialBatch(layout.X, layout.Y, density.AxisX)
	if err != nil {
		return nil, err
	}
	dy, err := e.surface.PartialBatch(layout.X, layout.Y, density.AxisY)
	if err != nil {
		return nil, err
	}

	return &Result{
		Density:    dens,
		DDensityDX: mat.NewDiagDense(e.nTurbines, dx),
		DDensityDY: mat.NewDiagDense(e.nTurbines, dy),
	}, nil
}
