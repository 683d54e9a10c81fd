package campyros

import (
	"fmt"
	"math"
	"os"

	kitlog "github.com/go-kit/kit/log"
	"github.com/gonum/matrix/mat64"
)

const (
	// velocityε guards divisions by the apparent airspeed magnitude.
	velocityε = 1e-6
)

// Flight events, recorded on the step at which the transition was detected.
const (
	EventClearedRail = "Cleared rail"
	EventBurnout     = "Burnout"
	EventParachute   = "Parachute deployed"
)

// ErrorFactors scales the environment lookups of a single run, to support
// sensitivity and uncertainty studies. All factors default to 1.
type ErrorFactors struct {
	Gravity      float64
	Pressure     float64
	Density      float64
	SpeedOfSound float64
}

// NominalFactors returns error factors which leave the environment untouched.
func NominalFactors() ErrorFactors {
	return ErrorFactors{1, 1, 1, 1}
}

// Rocket is the vehicle being simulated. It aggregates the immutable input models
// and owns the mutable flight state, which the run loop updates every accepted
// integrator step. Nothing else retains a writable reference to it, so independent
// rockets may be flown concurrently.
type Rocket struct {
	MassModel  MassModel
	Motor      *Motor
	Aero       AeroModel
	LaunchSite LaunchSite
	Atmosphere Atmosphere
	Parachute  Parachute

	// ThrustVector is the thrust direction in body coordinates. It is normalized
	// before use and defaults to the body x axis.
	ThrustVector []float64
	// AltPollInterval is the period in seconds of the apogee-detection altitude poll.
	AltPollInterval float64
	Errors          ErrorFactors

	Time float64     // s since ignition
	PosI []float64   // m, inertial
	VelI []float64   // m/s, inertial
	WB   []float64   // rad/s, body
	B2I  *mat64.Dense // body-to-inertial rotation

	onRail            bool
	burnOut           bool
	parachuteDeployed bool
	altPollWatch      float64
	altRecord         float64

	logger kitlog.Logger
}

// NewRocket returns a rocket at rest on the rail, oriented along the rail direction
// and co-rotating with Earth. A nil atmosphere defaults to the 1976 standard
// atmosphere.
func NewRocket(massModel MassModel, motor *Motor, aero AeroModel, site LaunchSite, atm Atmosphere, chute Parachute, errs ErrorFactors) *Rocket {
	if atm == nil {
		atm = ISA76{}
	}
	r := &Rocket{
		MassModel:       massModel,
		Motor:           motor,
		Aero:            aero,
		LaunchSite:      site,
		Atmosphere:      atm,
		Parachute:       chute,
		ThrustVector:    []float64{1, 0, 0},
		AltPollInterval: 1,
		Errors:          errs,
		onRail:          true,
		logger:          kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout)),
	}

	xbL, ybL, zbL := railDirections(site.RailYaw, site.RailPitch)
	r.B2I = RotationFromAxes(
		DirectionL2I(xbL, site, 0),
		DirectionL2I(ybL, site, 0),
		DirectionL2I(zbL, site, 0))

	// The launch-frame origin is at altitude zero, so the rocket starts the site
	// altitude above it, at rest relative to the rotating Earth.
	r.PosI = PosL2I([]float64{0, 0, site.Alt}, site, 0)
	r.VelI = VelL2I([]float64{0, 0, 0}, site, 0)
	r.WB = []float64{0, 0, 0}

	r.altRecord = PosI2Alt(r.PosI, 0)
	r.altPollWatch = r.AltPollInterval
	return r
}

// OnRail returns whether the rocket is still constrained by the launch rail.
func (r *Rocket) OnRail() bool { return r.onRail }

// BurnOut returns whether the motor has burned out.
func (r *Rocket) BurnOut() bool { return r.burnOut }

// ParachuteDeployed returns whether the recovery system is out.
func (r *Rocket) ParachuteDeployed() bool { return r.parachuteDeployed }

// SetLogger replaces the rocket's logger.
func (r *Rocket) SetLogger(l kitlog.Logger) { r.logger = l }

// FDot returns the time derivative of the 18-component state vector
// [posI, velI, wB, xb, yb, zb] at time t. It queries the environment and vehicle
// models, aggregates forces and moments, and applies the rail constraint or Euler's
// rigid-body equations depending on the flight phase. It is pure: the phase flags
// are only read here, never written.
func (r *Rocket) FDot(t float64, f []float64) []float64 {
	posI := []float64{f[0], f[1], f[2]}
	velI := []float64{f[3], f[4], f[5]}
	wB := []float64{f[6], f[7], f[8]}
	b2i := RotationFromAxes(f[9:12], f[12:15], f[15:18])
	wI := MxV33(b2i, wB)

	// Forces in body or inertial coordinates, summed at the end after rotating the
	// body contributions. Moments stay in body coordinates.
	fB := []float64{0, 0, 0}
	fI := []float64{0, 0, 0}
	mB := []float64{0, 0, 0}

	lat, long, alt := I2LLA(posI, t)
	cog := r.MassModel.CoG(t)
	mass := r.MassModel.Mass(t)
	ixx := r.MassModel.Ixx(t)
	iyy := r.MassModel.Iyy(t)
	izz := r.MassModel.Izz(t)

	// Clamp the altitude before any atmosphere lookup. Extrapolating the tables near
	// the ground otherwise produces multi-second steps and sub-surface excursions.
	alt = clampF(alt, minModelAlt, maxModelAlt)

	density, pressure, soundSpeed := r.Atmosphere.Lookup(alt)
	density *= r.Errors.Density
	pressure *= r.Errors.Pressure
	soundSpeed *= r.Errors.SpeedOfSound

	wind := r.LaunchSite.Wind.Wind(lat, long, alt)
	vRelWindI := DirectionL2I(subV(I2Airspeed(posI, velI, r.LaunchSite, t), wind), r.LaunchSite, t)
	vRelWindB := MTxV33(b2i, vRelWindI)
	airSpeed := norm(vRelWindB)
	q := 0.5 * density * airSpeed * airSpeed

	if r.parachuteDeployed && !r.Parachute.IsZero() {
		if airSpeed > velocityε {
			// Under canopy the vehicle is a drag body trailing the apparent wind; no
			// moments are computed (the orientation is forced kinematically each step).
			cd, area := r.Parachute.Drag(alt)
			fI = addV(fI, scaleV(-q*area*cd/airSpeed, vRelWindI))
		}
	} else if airSpeed > velocityε {
		mach := airSpeed / soundSpeed
		alpha := math.Acos(clampF(vRelWindB[0]/airSpeed, -1, 1))
		cop := r.Aero.COP(mach, alpha)
		refArea := r.Aero.RefArea()

		// COP and CoG are measured from the nose toward the tail, i.e. along -x.
		rCopCog := []float64{-(cop - cog), 0, 0}
		xAxis := []float64{1, 0, 0}
		fAxialB := []float64{-sign(vRelWindB[0]) * r.Aero.CA(mach, alpha) * q * refArea, 0, 0}
		fNormalB := scaleV(r.Aero.CN(mach, alpha)*q*refArea,
			cross(xAxis, cross(xAxis, scaleV(1/airSpeed, vRelWindB))))
		fAeroB := addV(fAxialB, fNormalB)
		mAeroB := cross(rCopCog, fAeroB)

		// Angular-rate damping, opposing each body rate: M = -sign(w) C rho w^2.
		mDampingB := []float64{
			-sign(wB[0]) * density * wB[0] * wB[0] * r.Aero.RollDamping(),
			-sign(wB[1]) * density * wB[1] * wB[1] * r.Aero.PitchDamping(),
			-sign(wB[2]) * density * wB[2] * wB[2] * r.Aero.PitchDamping(),
		}

		fB = addV(fB, fAeroB)
		mB = addV(mB, addV(mAeroB, mDampingB))
	}

	if r.Motor != nil && t < r.Motor.BurnTime() {
		thrust := r.Motor.Thrust(t) + (r.Motor.AmbientPressure-pressure)*r.Motor.ExitArea
		fThrustB := scaleV(thrust, unit(r.ThrustVector))
		rEngineCog := []float64{-(r.Motor.Position - cog), 0, 0}
		mThrustB := cross(rEngineCog, fThrustB)

		// Jet damping on the pitch and yaw rates only: the propellant flow carries
		// angular momentum out of the nozzle. The mass flow rate is negative during
		// the burn, which gives the moment its opposing sign.
		mdot := r.MassModel.MassFlowRate(t)
		arm := cog - r.Motor.Position
		mJetDampingB := scaleV(mdot*arm*arm, []float64{0, wB[1], wB[2]})

		fB = addV(fB, fThrustB)
		mB = addV(mB, addV(mThrustB, mJetDampingB))
	}

	rNorm := norm(posI)
	fI = addV(fI, scaleV(-r.Errors.Gravity*MuEarth*mass/(rNorm*rNorm*rNorm), posI))

	fTotalI := addV(fI, MxV33(b2i, fB))
	accI := scaleV(1/mass, fTotalI)

	var wdotB []float64
	if r.onRail {
		// The rail only lets the rocket accelerate along its own forward axis.
		xbI := unit(MxV33(b2i, []float64{1, 0, 0}))
		accI = scaleV(dot(accI, xbI), xbI)
		wdotB = []float64{0, 0, 0}
	} else {
		wdotB = []float64{
			(mB[0] + (iyy-izz)*wB[1]*wB[2]) / ixx,
			(mB[1] + (izz-ixx)*wB[2]*wB[0]) / iyy,
			(mB[2] + (ixx-iyy)*wB[0]*wB[1]) / izz,
		}
	}

	// A vector fixed in a frame rotating at wI satisfies dr/dt = wI x r.
	xbdot := cross(wI, f[9:12])
	ybdot := cross(wI, f[12:15])
	zbdot := cross(wI, f[15:18])

	fDot := make([]float64, 18)
	copy(fDot[0:3], velI)
	copy(fDot[3:6], accI)
	copy(fDot[6:9], wdotB)
	copy(fDot[9:12], xbdot)
	copy(fDot[12:15], ybdot)
	copy(fDot[15:18], zbdot)
	for i := 0; i < 18; i++ {
		if math.IsNaN(fDot[i]) {
			panic(fmt.Errorf("fDot[%d]=NaN @ t=%f s\npos=%+v\tvel=%+v\tw=%+v", i, t, posI, velI, wB))
		}
	}
	return fDot
}

// checkPhase runs the flight-phase state machine once per accepted integrator step
// and returns the events fired during that step. Every transition is one-way.
func (r *Rocket) checkPhase() []string {
	var events []string

	if r.onRail {
		posL := PosI2L(r.PosI, r.LaunchSite, r.Time)
		travelled := norm(subV(posL, []float64{0, 0, r.LaunchSite.Alt}))
		if travelled >= r.LaunchSite.RailLength {
			r.onRail = false
			events = append(events, EventClearedRail)
			r.logger.Log("level", "info", "subsys", "flight", "event", "cleared rail", "t(s)", r.Time, "alt(m)", PosI2Alt(r.PosI, r.Time))
		}
	}

	if !r.burnOut && r.Motor != nil && r.Time >= r.Motor.BurnTime() {
		r.burnOut = true
		events = append(events, EventBurnout)
		r.logger.Log("level", "info", "subsys", "flight", "event", "burnout", "t(s)", r.Time)
	}

	if !r.parachuteDeployed {
		// Poll the altitude at a fixed interval rather than every step; the first
		// poll that comes back lower than the previous one is apogee.
		if r.altPollWatch < r.Time-r.AltPollInterval {
			alt := PosI2Alt(r.PosI, r.Time)
			if r.altRecord > alt {
				r.parachuteDeployed = true
				r.WB = []float64{0, 0, 0}
				events = append(events, EventParachute)
				r.logger.Log("level", "info", "subsys", "flight", "event", "parachute deployed", "t(s)", r.Time, "alt(m)", alt)
			} else {
				r.altPollWatch = r.Time
				r.altRecord = alt
			}
		}
	}

	return events
}
