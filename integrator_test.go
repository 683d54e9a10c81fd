package campyros

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

// expDecay integrates y' = -y, whose solution is known exactly. It keeps the
// accepted abscissae so tests can check the step controller.
type expDecay struct {
	x    float64
	y    []float64
	xs   []float64
	stop float64
}

func (d *expDecay) GetState() []float64 { return append([]float64{}, d.y...) }
func (d *expDecay) SetState(x float64, s []float64) {
	d.x = x
	d.y = append([]float64{}, s...)
	d.xs = append(d.xs, x)
}
func (d *expDecay) Stop(x float64) bool                  { return x >= d.stop }
func (d *expDecay) Func(x float64, s []float64) []float64 { return []float64{-s[0]} }

// oscillator integrates y'' = -y as a two-component system.
type oscillator struct {
	x    float64
	y    []float64
	stop float64
}

func (o *oscillator) GetState() []float64 { return append([]float64{}, o.y...) }
func (o *oscillator) SetState(x float64, s []float64) {
	o.x = x
	o.y = append([]float64{}, s...)
}
func (o *oscillator) Stop(x float64) bool { return x >= o.stop }
func (o *oscillator) Func(x float64, s []float64) []float64 {
	return []float64{s[1], -s[0]}
}

func TestRK54ExpDecay(t *testing.T) {
	d := &expDecay{y: []float64{1}, stop: 2}
	rk := NewRK54(0, 0.1, d)
	steps, err := rk.Solve()
	if err != nil {
		t.Fatal(err)
	}
	if steps == 0 {
		t.Fatal("no steps accepted")
	}
	if d.x < 2 {
		t.Fatalf("stopped early at x=%f", d.x)
	}
	if exp := math.Exp(-d.x); !floats.EqualWithinAbs(d.y[0], exp, 1e-7) {
		t.Fatalf("y(%f)=%.12f, expected %.12f", d.x, d.y[0], exp)
	}
}

func TestRK54Oscillator(t *testing.T) {
	o := &oscillator{y: []float64{1, 0}, stop: 8 * math.Pi}
	rk := NewRK54(0, 0.05, o)
	if _, err := rk.Solve(); err != nil {
		t.Fatal(err)
	}
	// Four full periods: the amplitude must survive and the phase must match.
	if exp := math.Cos(o.x); !floats.EqualWithinAbs(o.y[0], exp, 1e-6) {
		t.Fatalf("y(%f)=%.12f, expected %.12f", o.x, o.y[0], exp)
	}
	energy := o.y[0]*o.y[0] + o.y[1]*o.y[1]
	if !floats.EqualWithinAbs(energy, 1, 1e-6) {
		t.Fatalf("energy drifted to %.12f", energy)
	}
}

func TestRK54Adaptivity(t *testing.T) {
	loose := &expDecay{y: []float64{1}, stop: 10}
	rkLoose := NewRK54(0, 0.01, loose)
	rkLoose.RelTol = 1e-3
	rkLoose.AbsTol = 1e-6
	looseSteps, err := rkLoose.Solve()
	if err != nil {
		t.Fatal(err)
	}

	tight := &expDecay{y: []float64{1}, stop: 10}
	rkTight := NewRK54(0, 0.01, tight)
	rkTight.RelTol = 1e-10
	rkTight.AbsTol = 1e-13
	tightSteps, err := rkTight.Solve()
	if err != nil {
		t.Fatal(err)
	}
	if tightSteps <= looseSteps {
		t.Fatalf("tighter tolerances should need more steps (%d vs %d)", tightSteps, looseSteps)
	}
}

func TestRK54MaxStep(t *testing.T) {
	d := &expDecay{y: []float64{1}, stop: 5}
	rk := NewRK54(0, 0.1, d)
	rk.MaxStep = 0.25
	if _, err := rk.Solve(); err != nil {
		t.Fatal(err)
	}
	if rk.LastStep() > 0.25 {
		t.Fatalf("step grew past the cap: %f", rk.LastStep())
	}
	for i := 1; i < len(d.xs); i++ {
		if d.xs[i]-d.xs[i-1] > 0.25+1e-12 {
			t.Fatalf("step %d spans %f", i, d.xs[i]-d.xs[i-1])
		}
	}
}

func TestRK54LastStepAccepted(t *testing.T) {
	d := &expDecay{y: []float64{1}, stop: 3}
	rk := NewRK54(0, 0.1, d)
	if _, err := rk.Solve(); err != nil {
		t.Fatal(err)
	}
	n := len(d.xs)
	if n < 2 {
		t.Fatalf("only %d accepted steps", n)
	}
	// LastStep reports the size of the step that was taken, not the controller's
	// next attempt.
	if want := d.xs[n-1] - d.xs[n-2]; !floats.EqualWithinAbs(rk.LastStep(), want, 1e-12) {
		t.Fatalf("last step %e, accepted span %e", rk.LastStep(), want)
	}
	if !floats.EqualWithinAbs(rk.CurrentX(), d.xs[n-1], 1e-12) {
		t.Fatalf("current x %f, last accepted %f", rk.CurrentX(), d.xs[n-1])
	}
}

func TestRK54Validation(t *testing.T) {
	assertPanic(t, func() { NewRK54(0, 0.1, nil) })
	assertPanic(t, func() { NewRK54(0, 0, &expDecay{y: []float64{1}, stop: 1}) })
	assertPanic(t, func() { NewRK54(0, -0.5, &expDecay{y: []float64{1}, stop: 1}) })
}
