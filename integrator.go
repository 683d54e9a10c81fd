package campyros

import (
	"fmt"
	"math"

	"github.com/ChristopherRabotin/ode"
)

// Dormand-Prince 5(4) coefficients. The last stage row doubles as the fifth-order
// solution weights.
var (
	rk54c = []float64{0, 1. / 5, 3. / 10, 4. / 5, 8. / 9, 1, 1}
	rk54a = [][]float64{
		{},
		{1. / 5},
		{3. / 40, 9. / 40},
		{44. / 45, -56. / 15, 32. / 9},
		{19372. / 6561, -25360. / 2187, 64448. / 6561, -212. / 729},
		{9017. / 3168, -355. / 33, 46732. / 5247, 49. / 176, -5103. / 18656},
		{35. / 384, 0, 500. / 1113, 125. / 192, -2187. / 6784, 11. / 84},
	}
	rk54b    = []float64{35. / 384, 0, 500. / 1113, 125. / 192, -2187. / 6784, 11. / 84, 0}
	rk54bhat = []float64{5179. / 57600, 0, 7571. / 16695, 393. / 640, -92097. / 339200, 187. / 2100, 1. / 40}
)

const (
	rk54Safety     = 0.98
	rk54MinShrink  = 0.2
	rk54MaxGrowth  = 5.0
	rk54MaxRejects = 50
)

// RK54 is an adaptive Dormand-Prince 5(4) integrator over an ode.Integrable. The
// embedded fourth-order solution drives the step-size controller, so expensive
// derivative evaluations concentrate where the dynamics are stiffest (motor burn,
// transonic flight) and stretch out during coast.
type RK54 struct {
	X0     float64
	H0     float64
	RelTol float64
	AbsTol float64
	// MaxStep caps the step size; zero means uncapped.
	MaxStep    float64
	Integrator ode.Integrable

	x     float64
	h     float64
	hLast float64
}

// NewRK54 returns an adaptive integrator starting at x0 with initial step h0 and the
// default tolerances.
func NewRK54(x0, h0 float64, inte ode.Integrable) *RK54 {
	if inte == nil {
		panic("integrable may not be nil")
	}
	if h0 <= 0 {
		panic(fmt.Errorf("invalid initial step size %f", h0))
	}
	return &RK54{X0: x0, H0: h0, RelTol: 1e-7, AbsTol: 1e-14, Integrator: inte}
}

// CurrentX returns the independent variable after the last accepted step.
func (r *RK54) CurrentX() float64 { return r.x }

// LastStep returns the size of the last accepted step.
func (r *RK54) LastStep() float64 { return r.hLast }

// Solve integrates until Stop returns true, calling SetState after every accepted
// step. It returns the number of accepted steps, and an error if the controller
// rejects a single step more than rk54MaxRejects times in a row (the problem is
// then stiffer than the tolerances allow).
func (r *RK54) Solve() (uint64, error) {
	var accepted uint64
	r.x = r.X0
	r.h = r.H0
	for !r.Integrator.Stop(r.x) {
		y := r.Integrator.GetState()
		n := len(y)
		rejects := 0
		for {
			if r.MaxStep > 0 && r.h > r.MaxStep {
				r.h = r.MaxStep
			}
			k := make([][]float64, 7)
			for s := 0; s < 7; s++ {
				ys := make([]float64, n)
				copy(ys, y)
				for j := 0; j < s; j++ {
					for i := 0; i < n; i++ {
						ys[i] += r.h * rk54a[s][j] * k[j][i]
					}
				}
				k[s] = r.Integrator.Func(r.x+rk54c[s]*r.h, ys)
			}

			y5 := make([]float64, n)
			errNorm := 0.0
			for i := 0; i < n; i++ {
				var s5, s4 float64
				for s := 0; s < 7; s++ {
					s5 += rk54b[s] * k[s][i]
					s4 += rk54bhat[s] * k[s][i]
				}
				y5[i] = y[i] + r.h*s5
				scale := r.AbsTol + r.RelTol*math.Max(math.Abs(y[i]), math.Abs(y5[i]))
				if e := math.Abs(r.h*(s5-s4)) / scale; e > errNorm {
					errNorm = e
				}
			}

			factor := rk54MaxGrowth
			if errNorm > 0 {
				factor = clampF(rk54Safety*math.Pow(errNorm, -0.2), rk54MinShrink, rk54MaxGrowth)
			}
			if errNorm <= 1 {
				r.x += r.h
				r.hLast = r.h
				r.h *= factor
				r.Integrator.SetState(r.x, y5)
				accepted++
				break
			}
			rejects++
			if rejects > rk54MaxRejects {
				return accepted, fmt.Errorf("step rejected %d times @ x=%f (h=%e, err=%e): tolerances unreachable", rejects, r.x, r.h, errNorm)
			}
			r.h *= factor
		}
	}
	return accepted, nil
}
