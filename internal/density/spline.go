package density

import "sort"

type splineCoeff struct {
	a, b, c, d float64
}

// cubicSpline is a natural cubic interpolating spline over strictly
// increasing knots, evaluated at coefficient level. Queries beyond the
// knot range evaluate the extension of the first or last segment's
// polynomial, so value and derivative stay mutually consistent outside
// the fitted range.
type cubicSpline struct {
	xs     []float64
	coeffs []splineCoeff // p(x) = a*dx^3 + b*dx^2 + c*dx + d, dx = x - xs[i]
}

// newCubicSpline fits the spline through (xs[i], ys[i]). The knots must
// be strictly increasing with len(xs) == len(ys) >= 2; Grid validation
// guarantees that for every caller. With two knots the spline is the
// linear interpolant.
func newCubicSpline(xs, ys []float64) *cubicSpline {
	n := len(xs)

	// Second derivatives at the knots. Natural boundary conditions keep
	// the end values at zero; the interior values solve a tridiagonal
	// system.
	y2s := make([]float64, n)
	if n > 2 {
		as := make([]float64, n-2)
		bs := make([]float64, n-2)
		cs := make([]float64, n-2)
		rs := make([]float64, n-2)
		for i := range rs {
			j := i + 1
			as[i] = (xs[j] - xs[j-1]) / 6
			bs[i] = (xs[j+1] - xs[j-1]) / 3
			cs[i] = (xs[j+1] - xs[j]) / 6
			rs[i] = (ys[j+1]-ys[j])/(xs[j+1]-xs[j]) -
				(ys[j]-ys[j-1])/(xs[j]-xs[j-1])
		}
		solveTriDiag(as, bs, cs, rs, y2s[1:n-1])
	}

	coeffs := make([]splineCoeff, n-1)
	for i := range coeffs {
		dx := xs[i+1] - xs[i]
		coeffs[i] = splineCoeff{
			a: (y2s[i+1] - y2s[i]) / (6 * dx),
			b: y2s[i] / 2,
			c: (ys[i+1]-ys[i])/dx - dx*(y2s[i]/3+y2s[i+1]/6),
			d: ys[i],
		}
	}

	return &cubicSpline{
		xs:     append([]float64(nil), xs...),
		coeffs: coeffs,
	}
}

// predict returns the spline value at x.
func (sp *cubicSpline) predict(x float64) float64 {
	i := sp.segment(x)
	dx := x - sp.xs[i]
	co := sp.coeffs[i]
	return ((co.a*dx+co.b)*dx+co.c)*dx + co.d
}

// predictDerivative returns the first derivative of the spline at x,
// taken from the same segment polynomial predict evaluates.
func (sp *cubicSpline) predictDerivative(x float64) float64 {
	i := sp.segment(x)
	dx := x - sp.xs[i]
	co := sp.coeffs[i]
	return (3*co.a*dx+2*co.b)*dx + co.c
}

// segment returns the index of the segment whose polynomial covers x,
// clamped to the first or last segment for x outside the knot range so
// that boundary polynomials extend.
func (sp *cubicSpline) segment(x float64) int {
	i := sort.SearchFloat64s(sp.xs, x) - 1
	if i < 0 {
		return 0
	}
	if i > len(sp.coeffs)-1 {
		return len(sp.coeffs) - 1
	}
	return i
}

// solveTriDiag solves the tridiagonal system with subdiagonal as,
// diagonal bs and superdiagonal cs for the right-hand side rs, writing
// the solution into out. The spline system is strictly diagonally
// dominant, so elimination without pivoting is stable.
func solveTriDiag(as, bs, cs, rs, out []float64) {
	tmp := make([]float64, len(as))

	beta := bs[0]
	out[0] = rs[0] / beta
	for i := 1; i < len(out); i++ {
		tmp[i] = cs[i-1] / beta
		beta = bs[i] - as[i]*tmp[i]
		out[i] = (rs[i] - as[i]*out[i-1]) / beta
	}

	for i := len(out) - 2; i >= 0; i-- {
		out[i] -= tmp[i+1] * out[i+1]
	}
}
