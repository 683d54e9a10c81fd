package campyros

import (
	"sync"
	"time"

	"github.com/ChristopherRabotin/ode"
	"github.com/gonum/matrix/mat64"
)

const (
	// DefaultStep is the default fixed step size, and the initial step of the
	// adaptive integrator.
	DefaultStep = 0.05
	// DefaultMaxTime kills a flight which never comes back down.
	DefaultMaxTime = 1000.0
)

/* Handles the flight simulation runs. */

// Flight propagates one rocket from ignition to touchdown. It implements
// ode.Integrable over the 18-component state vector
// [posI, velI, wB, xb, yb, zb].
type Flight struct {
	Rocket *Rocket // As pointer because the flight state changes during the run.
	// Variable selects the adaptive Dormand-Prince integrator; otherwise a fixed
	// step RK4 is used.
	Variable       bool
	Step           float64
	MaxTime        float64
	RelTol, AbsTol float64

	rec      *Record
	stopChan chan (bool)
	histChan chan<- (FlightState)
	wg       sync.WaitGroup // owned per flight so concurrent runs don't share export state
	done     bool
}

// NewFlight is the same as NewPreciseFlight with the default step and tolerances.
func NewFlight(r *Rocket, conf ExportConfig) *Flight {
	return NewPreciseFlight(r, true, DefaultStep, DefaultMaxTime, conf)
}

// NewPreciseFlight returns a new Flight with a custom integrator selection, step
// size and kill time.
func NewPreciseFlight(r *Rocket, variable bool, step, maxTime float64, conf ExportConfig) *Flight {
	f := &Flight{Rocket: r, Variable: variable, Step: step, MaxTime: maxTime,
		RelTol: 1e-7, AbsTol: 1e-14,
		rec: NewRecord(), stopChan: make(chan (bool), 1)}
	// If no filepath is provided, then no output will be written.
	if !conf.IsUseless() {
		histChan := make(chan (FlightState), 1000) // a 1k entry buffer
		f.histChan = histChan
		f.wg.Add(1)
		go func() {
			defer f.wg.Done()
			StreamStates(conf, r.LaunchSite, histChan)
		}()
	}
	// Write the first data point.
	f.rec.append(r, nil)
	if f.histChan != nil {
		f.histChan <- f.snapshot(nil)
	}
	return f
}

// LogStatus returns the status of the run and vehicle.
func (f *Flight) LogStatus() {
	r := f.Rocket
	r.logger.Log("level", "info", "subsys", "flight", "t(s)", r.Time, "alt(m)", PosI2Alt(r.PosI, r.Time), "mass(kg)", r.MassModel.Mass(r.Time))
}

// Run starts the simulation and blocks until touchdown, the kill time, or an
// integrator failure. It returns the flight record.
func (f *Flight) Run() (*Record, error) {
	// The recorder goroutine only exits once the stream closes. Stop closes it on
	// the termination paths; the deferred close covers a panicking derivative.
	defer f.closeHist()
	f.LogStatus()
	ticker := time.NewTicker(10 * time.Second)
	go func() {
		for range ticker.C {
			if f.done {
				break
			}
			f.LogStatus()
		}
	}()
	var err error
	if f.Variable {
		rk := NewRK54(0, f.Step, f)
		rk.RelTol = f.RelTol
		rk.AbsTol = f.AbsTol
		_, err = rk.Solve() // Blocking.
	} else {
		_, _, err = ode.NewRK4(0, f.Step, f).Solve() // Blocking.
	}
	f.done = true
	r := f.Rocket
	r.logger.Log("level", "notice", "subsys", "flight", "status", "finished", "t(s)", r.Time, "alt(m)", PosI2Alt(r.PosI, r.Time), "apogee(m)", f.rec.Apogee())
	// An integrator failure returns without Stop ever firing, so the stream must be
	// closed here or the recorder would keep us waiting forever.
	f.closeHist()
	f.wg.Wait() // Don't return until we're done writing all the files.
	if err != nil {
		return f.rec, err
	}
	return f.rec, nil
}

// closeHist closes the export stream exactly once; safe to call on any path.
func (f *Flight) closeHist() {
	if f.histChan != nil {
		close(f.histChan)
		f.histChan = nil
	}
}

// StopRun is used to stop the simulation before it is completed.
func (f *Flight) StopRun() {
	f.stopChan <- true
}

// Stop implements the stop call of the integrator. To stop the run, call StopRun().
func (f *Flight) Stop(t float64) bool {
	r := f.Rocket
	select {
	case <-f.stopChan:
		f.closeHist()
		return true // Stop because there is a request to stop.
	default:
		if PosI2Alt(r.PosI, r.Time) < r.LaunchSite.GroundAlt() {
			f.closeHist()
			return true // Stop, we're back on the ground.
		}
		if r.Time > f.MaxTime {
			r.logger.Log("level", "critical", "subsys", "flight", "status", "killed", "t(s)", r.Time)
			f.closeHist()
			return true
		}
	}
	return false
}

// GetState returns the state for the integrator.
func (f *Flight) GetState() (s []float64) {
	s = make([]float64, 18)
	r := f.Rocket
	xb, yb, zb := RotationAxes(r.B2I)
	for i := 0; i < 3; i++ {
		s[i] = r.PosI[i]
		s[i+3] = r.VelI[i]
		s[i+6] = r.WB[i]
		s[i+9] = xb[i]
		s[i+12] = yb[i]
		s[i+15] = zb[i]
	}
	return
}

// SetState sets the updated state, runs the phase state machine, and records the
// step. Under canopy the integrated orientation is discarded and the vehicle is
// re-oriented to trail the apparent wind, keeping the old z axis as a reference.
func (f *Flight) SetState(t float64, s []float64) {
	r := f.Rocket
	deployed := r.parachuteDeployed // must match what FDot saw during the step
	if f.Variable {
		r.Time = t
	} else {
		r.Time += f.Step
	}

	r.PosI = []float64{s[0], s[1], s[2]}
	r.VelI = []float64{s[3], s[4], s[5]}
	r.WB = []float64{s[6], s[7], s[8]}
	if deployed && !r.Parachute.IsZero() {
		lat, long, alt := I2LLA(r.PosI, r.Time)
		wind := r.LaunchSite.Wind.Wind(lat, long, clampF(alt, minModelAlt, maxModelAlt))
		vRelWindI := DirectionL2I(subV(I2Airspeed(r.PosI, r.VelI, r.LaunchSite, r.Time), wind), r.LaunchSite, r.Time)
		if norm(vRelWindI) > velocityε {
			_, _, zbOld := RotationAxes(r.B2I)
			xb := scaleV(-1, unit(vRelWindI))
			r.B2I = RotationFromAxes(xb, cross(zbOld, xb), zbOld)
		}
	} else {
		r.B2I = RotationFromAxes(s[9:12], s[12:15], s[15:18])
	}

	events := r.checkPhase()
	f.rec.append(r, events)
	if f.histChan != nil {
		f.histChan <- f.snapshot(events)
	}
}

// Func is the integration function, which delegates to the force and moment
// aggregation of the rocket.
func (f *Flight) Func(t float64, s []float64) []float64 {
	return f.Rocket.FDot(t, s)
}

func (f *Flight) snapshot(events []string) FlightState {
	r := f.Rocket
	b2i := mat64.DenseCopyOf(r.B2I)
	return FlightState{r.Time, append([]float64{}, r.PosI...), append([]float64{}, r.VelI...), append([]float64{}, r.WB...), b2i, events}
}

// FlightState stores one propagated step for streaming export.
type FlightState struct {
	T          float64
	PosI, VelI []float64
	WB         []float64
	B2I        *mat64.Dense
	Events     []string
}

// Record is the full time history of a flight, as parallel columns so it
// serializes into a compact column-oriented JSON document.
type Record struct {
	Time   []float64   `json:"time"`
	PosI   [][]float64 `json:"pos_i"`
	VelI   [][]float64 `json:"vel_i"`
	B2IMat [][]float64 `json:"b2imat"` // row-major 3x3
	WB     [][]float64 `json:"w_b"`
	Events [][]string  `json:"events"`
}

// NewRecord returns an empty flight record.
func NewRecord() *Record {
	return &Record{}
}

func (rec *Record) append(r *Rocket, events []string) {
	rec.Time = append(rec.Time, r.Time)
	rec.PosI = append(rec.PosI, append([]float64{}, r.PosI...))
	rec.VelI = append(rec.VelI, append([]float64{}, r.VelI...))
	b2i := make([]float64, 9)
	copy(b2i, r.B2I.RawMatrix().Data)
	rec.B2IMat = append(rec.B2IMat, b2i)
	rec.WB = append(rec.WB, append([]float64{}, r.WB...))
	if events == nil {
		events = []string{}
	}
	rec.Events = append(rec.Events, events)
}

// Len returns the number of recorded steps.
func (rec *Record) Len() int {
	return len(rec.Time)
}

// Altitudes returns the geodetic altitude of every recorded step.
func (rec *Record) Altitudes() []float64 {
	alts := make([]float64, rec.Len())
	for i, p := range rec.PosI {
		alts[i] = PosI2Alt(p, rec.Time[i])
	}
	return alts
}

// Apogee returns the highest recorded altitude.
func (rec *Record) Apogee() float64 {
	apogee := 0.0
	for _, alt := range rec.Altitudes() {
		if alt > apogee {
			apogee = alt
		}
	}
	return apogee
}
