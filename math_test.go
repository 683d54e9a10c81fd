package campyros

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func assertPanic(t *testing.T, f func()) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected a panic")
		}
	}()
	f()
}

func TestCross(t *testing.T) {
	i := []float64{1, 0, 0}
	j := []float64{0, 1, 0}
	k := []float64{0, 0, 1}
	if !vectorsEqual(cross(i, j), k) {
		t.Fatalf("i x j != k (got %+v)", cross(i, j))
	}
	if !vectorsEqual(cross(j, k), i) {
		t.Fatalf("j x k != i (got %+v)", cross(j, k))
	}
	if !vectorsEqual(cross(k, i), j) {
		t.Fatalf("k x i != j (got %+v)", cross(k, i))
	}
	if !vectorsEqual(cross(i, i), []float64{0, 0, 0}) {
		t.Fatal("i x i != 0")
	}
}

func TestUnitNormSign(t *testing.T) {
	v := []float64{3, 4, 0}
	if !floats.EqualWithinAbs(norm(v), 5, 1e-12) {
		t.Fatalf("|v|=%f", norm(v))
	}
	if !vectorsEqual(unit(v), []float64{0.6, 0.8, 0}) {
		t.Fatalf("unit(v)=%+v", unit(v))
	}
	if sign(-2.5) != -1 || sign(3) != 1 {
		t.Fatal("sign broken")
	}
}

func TestInterp1(t *testing.T) {
	xs := []float64{0, 1, 3}
	ys := []float64{0, 10, 30}
	cases := map[float64]float64{
		-1:  0,  // clamped low
		0:   0,
		0.5: 5,
		2:   20,
		3:   30,
		9:   30, // clamped high
	}
	for x, exp := range cases {
		if got := interp1(x, xs, ys); !floats.EqualWithinAbs(got, exp, 1e-12) {
			t.Fatalf("interp1(%f)=%f, expected %f", x, got, exp)
		}
	}
}

func TestInterp1Slope(t *testing.T) {
	xs := []float64{0, 1, 3}
	ys := []float64{0, 10, 30}
	if got := interp1Slope(0.5, xs, ys); !floats.EqualWithinAbs(got, 10, 1e-12) {
		t.Fatalf("slope(0.5)=%f", got)
	}
	if got := interp1Slope(2, xs, ys); !floats.EqualWithinAbs(got, 10, 1e-12) {
		t.Fatalf("slope(2)=%f", got)
	}
	// Outside the table the interpolation is flat.
	if got := interp1Slope(5, xs, ys); got != 0 {
		t.Fatalf("slope(5)=%f, expected 0", got)
	}
	if got := interp1Slope(-1, xs, ys); got != 0 {
		t.Fatalf("slope(-1)=%f, expected 0", got)
	}
}

func TestIncreasing(t *testing.T) {
	if !increasing([]float64{1, 2, 3}) {
		t.Fatal("1,2,3 should be increasing")
	}
	if increasing([]float64{1, 2, 2}) {
		t.Fatal("1,2,2 should not be strictly increasing")
	}
}

func TestClampF(t *testing.T) {
	if clampF(-10, -5, 5) != -5 || clampF(10, -5, 5) != 5 || clampF(1, -5, 5) != 1 {
		t.Fatal("clampF broken")
	}
	if clampF(math.Inf(1), 0, 1) != 1 {
		t.Fatal("clampF should bound +Inf")
	}
}
