package campyros

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/gonum/matrix/mat64"
	"github.com/gonum/stat/distmv"
)

// Dispersions holds the standard deviations of the per-run uncertainty draws. The
// environment factors are drawn about 1, the wind offset about zero.
type Dispersions struct {
	GravitySigma      float64
	PressureSigma     float64
	DensitySigma      float64
	SpeedOfSoundSigma float64
	WindSigma         float64 // m/s, added to each launch-frame wind component
}

// MonteCarlo runs dispersed flights of the same vehicle. Each run gets a fresh
// rocket from the factory, so the one-way phase flags and the integrated state of
// one run never leak into the next.
type MonteCarlo struct {
	Factory func() *Rocket
	Runs    int

	factors *distmv.Normal
	wind    *distmv.Normal
}

// NewMonteCarlo returns a Monte Carlo study. The factor dispersions must be
// positive; a zero WindSigma disables the wind draw.
func NewMonteCarlo(factory func() *Rocket, runs int, disp Dispersions) (*MonteCarlo, error) {
	if factory == nil {
		return nil, fmt.Errorf("monte carlo needs a rocket factory")
	}
	if runs < 1 {
		return nil, fmt.Errorf("monte carlo needs at least one run, got %d", runs)
	}
	sigmas := []float64{disp.GravitySigma, disp.PressureSigma, disp.DensitySigma, disp.SpeedOfSoundSigma}
	vars := make([]float64, 16)
	for i, s := range sigmas {
		if s <= 0 {
			return nil, fmt.Errorf("environment factor dispersions must be positive, got %+v", disp)
		}
		vars[i*4+i] = s * s
	}
	seed := rand.New(rand.NewSource(time.Now().UnixNano()))
	factors, ok := distmv.NewNormal([]float64{1, 1, 1, 1}, mat64.NewSymDense(4, vars), seed)
	if !ok {
		panic("NOK in Gaussian")
	}
	mc := &MonteCarlo{Factory: factory, Runs: runs, factors: factors}
	if disp.WindSigma > 0 {
		v := disp.WindSigma * disp.WindSigma
		wind, ok := distmv.NewNormal([]float64{0, 0, 0}, mat64.NewSymDense(3, []float64{v, 0, 0, 0, v, 0, 0, 0, v}), seed)
		if !ok {
			panic("NOK in Gaussian")
		}
		mc.wind = wind
	}
	return mc, nil
}

// MCResult stores the outcome of one dispersed run.
type MCResult struct {
	Factors    ErrorFactors
	WindOffset []float64
	Apogee     float64 // m
	LandingL   []float64 // launch-frame touchdown position, m
	Err        error
}

// Run flies all the dispersed runs sequentially and returns their outcomes. Runs
// whose integration fails keep their error in the result instead of aborting the
// study.
func (mc *MonteCarlo) Run() []MCResult {
	results := make([]MCResult, mc.Runs)
	for i := 0; i < mc.Runs; i++ {
		r := mc.Factory()
		draw := mc.factors.Rand(nil)
		r.Errors = ErrorFactors{draw[0], draw[1], draw[2], draw[3]}
		res := MCResult{Factors: r.Errors}
		if mc.wind != nil {
			res.WindOffset = mc.wind.Rand(nil)
			r.LaunchSite.Wind = offsetWind{r.LaunchSite.Wind, res.WindOffset}
		}
		rec, err := NewFlight(r, ExportConfig{}).Run()
		res.Err = err
		if err == nil && rec.Len() > 0 {
			last := rec.Len() - 1
			res.Apogee = rec.Apogee()
			res.LandingL = PosI2L(rec.PosI[last], r.LaunchSite, rec.Time[last])
		}
		r.logger.Log("level", "info", "subsys", "montecarlo", "run", i, "apogee(m)", res.Apogee, "err", err)
		results[i] = res
	}
	return results
}

// offsetWind adds a constant offset to another wind model.
type offsetWind struct {
	base   Wind
	offset []float64
}

func (w offsetWind) Wind(lat, long, alt float64) []float64 {
	return addV(w.base.Wind(lat, long, alt), w.offset)
}
