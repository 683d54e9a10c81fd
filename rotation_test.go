package campyros

import (
	"math"
	"testing"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

func assertOrthonormal(t *testing.T, m *mat64.Dense) {
	xb, yb, zb := RotationAxes(m)
	for name, v := range map[string][]float64{"x": xb, "y": yb, "z": zb} {
		if !floats.EqualWithinAbs(norm(v), 1, 1e-12) {
			t.Fatalf("axis %s not unit: |v|=%v", name, norm(v))
		}
	}
	if !floats.EqualWithinAbs(dot(xb, yb), 0, 1e-12) || !floats.EqualWithinAbs(dot(xb, zb), 0, 1e-12) || !floats.EqualWithinAbs(dot(yb, zb), 0, 1e-12) {
		t.Fatal("axes not mutually orthogonal")
	}
}

func TestRotationFromAxesReorthonormalizes(t *testing.T) {
	// Perturbed axes like an integrator would produce after drift.
	xb := []float64{1, 1e-4, -2e-4}
	yb := []float64{3e-4, 0.9998, 1e-4}
	zb := []float64{-1e-4, 2e-4, 1.0002}
	m := RotationFromAxes(xb, yb, zb)
	assertOrthonormal(t, m)
	// The x axis direction must be preserved exactly (up to normalization).
	gx, _, _ := RotationAxes(m)
	if !vectorsEqual(gx, unit(xb)) {
		t.Fatalf("x axis changed: %+v", gx)
	}
}

func TestRotationAxesRoundTrip(t *testing.T) {
	m := RotationFromAxes([]float64{0, 0, 1}, []float64{0, 1, 0}, []float64{-1, 0, 0})
	xb, yb, zb := RotationAxes(m)
	m2 := RotationFromAxes(xb, yb, zb)
	if !mat64.EqualApprox(m, m2, 1e-12) {
		t.Fatal("round trip through axes changed the rotation")
	}
}

func TestMTxV33Inverse(t *testing.T) {
	m := R3(0.7)
	v := []float64{1, -2, 3}
	if !vectorsEqual(MTxV33(m, MxV33(m, v)), v) {
		t.Fatal("MTxV33 is not the inverse of MxV33 for a rotation")
	}
}

func TestRailDirectionsVertical(t *testing.T) {
	xb, yb, zb := railDirections(0, 0)
	if !vectorsEqual(xb, []float64{0, 0, 1}) {
		t.Fatalf("vertical rail xb=%+v", xb)
	}
	if !vectorsEqual(yb, []float64{0, 1, 0}) {
		t.Fatalf("vertical rail yb=%+v", yb)
	}
	if !vectorsEqual(zb, []float64{-1, 0, 0}) {
		t.Fatalf("vertical rail zb=%+v", zb)
	}
}

func TestRailDirectionsPitched(t *testing.T) {
	// Pitching by 90 degrees about y lays the rocket flat, nose pointing south.
	xb, _, _ := railDirections(0, 90)
	if !vectorsEqual(xb, []float64{1, 0, 0}) {
		t.Fatalf("pitched rail xb=%+v", xb)
	}
	// A small pitch tilts the nose away from vertical by exactly that angle.
	xb, yb, zb := railDirections(30, 5)
	if got := math.Acos(dot(xb, []float64{0, 0, 1})) * rad2deg; !floats.EqualWithinAbs(got, 5, 1e-9) {
		t.Fatalf("5 deg pitch gives %f deg off vertical", got)
	}
	assertOrthonormal(t, RotationFromAxes(xb, yb, zb))
}
