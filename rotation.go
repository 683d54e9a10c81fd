package campyros

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// R1 rotation about the 1st axis.
func R1(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R2 rotation about the 2nd axis.
func R2(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, 0, -s, 0, 1, 0, s, 0, c})
}

// R3 rotation about the 3rd axis.
func R3(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// MxV33 multiplies a matrix with a vector. Note that there is no dimension check!
func MxV33(m *mat64.Dense, v []float64) (o []float64) {
	vVec := mat64.NewVector(len(v), v)
	var rVec mat64.Vector
	rVec.MulVec(m, vVec)
	return []float64{rVec.At(0, 0), rVec.At(1, 0), rVec.At(2, 0)}
}

// MTxV33 multiplies the transpose of a matrix with a vector. For an orthonormal
// rotation matrix this applies the inverse rotation.
func MTxV33(m *mat64.Dense, v []float64) (o []float64) {
	vVec := mat64.NewVector(len(v), v)
	var rVec mat64.Vector
	rVec.MulVec(m.T(), vVec)
	return []float64{rVec.At(0, 0), rVec.At(1, 0), rVec.At(2, 0)}
}

// RotationFromAxes builds the body-to-inertial rotation matrix whose columns are the
// three body-axis unit vectors expressed in inertial coordinates. The axes are
// re-orthonormalized (modified Gram-Schmidt) so that integration drift in the raw
// axis vectors never compounds into the reconstructed attitude.
func RotationFromAxes(xb, yb, zb []float64) *mat64.Dense {
	x := unit(xb)
	y := subV(yb, scaleV(dot(yb, x), x))
	y = unit(y)
	z := subV(zb, scaleV(dot(zb, x), x))
	z = subV(z, scaleV(dot(z, y), y))
	z = unit(z)
	return mat64.NewDense(3, 3, []float64{
		x[0], y[0], z[0],
		x[1], y[1], z[1],
		x[2], y[2], z[2]})
}

// RotationAxes returns the three column vectors of a body-to-inertial rotation.
func RotationAxes(m *mat64.Dense) (xb, yb, zb []float64) {
	xb = []float64{m.At(0, 0), m.At(1, 0), m.At(2, 0)}
	yb = []float64{m.At(0, 1), m.At(1, 1), m.At(2, 1)}
	zb = []float64{m.At(0, 2), m.At(1, 2), m.At(2, 2)}
	return
}

// railDirections returns the body axes in launch-frame coordinates for a rail
// angled by pitch about the y axis and then yaw about the z axis (both in degrees).
// With zero yaw and pitch the body x axis points straight up.
func railDirections(railYaw, railPitch float64) (xb, yb, zb []float64) {
	// R2/R3 are frame rotations, so the active rotation uses the negated angles.
	rot := func(v []float64) []float64 {
		return MxV33(R3(-railYaw*deg2rad), MxV33(R2(-railPitch*deg2rad), v))
	}
	xb = rot([]float64{0, 0, 1})
	yb = rot([]float64{0, 1, 0})
	zb = rot([]float64{-1, 0, 0})
	return
}
