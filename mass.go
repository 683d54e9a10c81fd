package campyros

import (
	"fmt"
	"math"
)

// MassModel describes the vehicle mass distribution as a function of the elapsed
// time since ignition. All methods panic on a negative time and clamp to the
// boundary values outside the supplied time-data range. MassFlowRate is the analytic
// rate of change of the total mass (non-positive while propellant burns), which the
// jet damping moment consumes directly instead of finite-differencing Mass.
type MassModel interface {
	Mass(t float64) float64         // kg
	Ixx(t float64) float64          // kg m^2 about the body x (roll) axis
	Iyy(t float64) float64          // kg m^2
	Izz(t float64) float64          // kg m^2
	CoG(t float64) float64          // m from the nose
	MassFlowRate(t float64) float64 // kg/s, dm/dt
}

func checkMassTime(t float64) {
	if t < 0 {
		panic(fmt.Errorf("mass model queried at negative time t=%f s", t))
	}
}

// CylindricalMassModel approximates the vehicle as a uniform solid cylinder whose
// mass follows a time-indexed propellant burn on top of a fixed dry mass.
type CylindricalMassModel struct {
	DryMass float64 // kg
	Radius  float64 // m
	Length  float64 // m

	timeData []float64
	propMass []float64
}

// NewCylindricalMassModel returns a cylindrical mass model. The time data must be
// strictly increasing and match the propellant mass column.
func NewCylindricalMassModel(dryMass, radius, length float64, timeData, propMass []float64) (*CylindricalMassModel, error) {
	if dryMass <= 0 || radius <= 0 || length <= 0 {
		return nil, fmt.Errorf("cylindrical mass model needs positive dry mass, radius and length")
	}
	if len(timeData) < 2 {
		return nil, fmt.Errorf("propellant mass table needs at least two rows, got %d", len(timeData))
	}
	if len(propMass) != len(timeData) {
		return nil, fmt.Errorf("propellant mass table has %d times but %d masses", len(timeData), len(propMass))
	}
	if !increasing(timeData) {
		return nil, fmt.Errorf("propellant mass table times must be strictly increasing")
	}
	return &CylindricalMassModel{dryMass, radius, length, timeData, propMass}, nil
}

// Mass implements the MassModel interface.
func (m *CylindricalMassModel) Mass(t float64) float64 {
	checkMassTime(t)
	return m.DryMass + interp1(t, m.timeData, m.propMass)
}

// Ixx implements the MassModel interface.
func (m *CylindricalMassModel) Ixx(t float64) float64 {
	return 0.5 * m.Mass(t) * m.Radius * m.Radius
}

// Iyy implements the MassModel interface.
func (m *CylindricalMassModel) Iyy(t float64) float64 {
	return m.Mass(t) * (m.Length*m.Length/12 + m.Radius*m.Radius/4)
}

// Izz implements the MassModel interface.
func (m *CylindricalMassModel) Izz(t float64) float64 {
	return m.Iyy(t)
}

// CoG implements the MassModel interface. A uniform cylinder keeps its center of
// gravity at the midpoint for the whole burn.
func (m *CylindricalMassModel) CoG(t float64) float64 {
	checkMassTime(t)
	return m.Length / 2
}

// MassFlowRate implements the MassModel interface, returning the slope of the
// interpolated propellant mass at t.
func (m *CylindricalMassModel) MassFlowRate(t float64) float64 {
	checkMassTime(t)
	return interp1Slope(t, m.timeData, m.propMass)
}

// ConstantMassModel is a mass model with no propellant flow, mostly useful for
// unpowered or ballast test flights.
type ConstantMassModel struct {
	M, IxxC, IyyC, IzzC, CoGC float64
}

// Mass implements the MassModel interface.
func (m ConstantMassModel) Mass(t float64) float64 {
	checkMassTime(t)
	return m.M
}

// Ixx implements the MassModel interface.
func (m ConstantMassModel) Ixx(t float64) float64 {
	checkMassTime(t)
	return m.IxxC
}

// Iyy implements the MassModel interface.
func (m ConstantMassModel) Iyy(t float64) float64 {
	checkMassTime(t)
	return m.IyyC
}

// Izz implements the MassModel interface.
func (m ConstantMassModel) Izz(t float64) float64 {
	checkMassTime(t)
	return m.IzzC
}

// CoG implements the MassModel interface.
func (m ConstantMassModel) CoG(t float64) float64 {
	checkMassTime(t)
	return m.CoGC
}

// MassFlowRate implements the MassModel interface.
func (m ConstantMassModel) MassFlowRate(t float64) float64 {
	checkMassTime(t)
	return 0
}

// LinearBurnTable builds a linear propellant burn table, a convenience for motors
// with near-constant mass flow.
func LinearBurnTable(propMass, burnTime float64, steps int) (times, masses []float64) {
	if steps < 2 {
		steps = 2
	}
	times = make([]float64, steps)
	masses = make([]float64, steps)
	for i := 0; i < steps; i++ {
		f := float64(i) / float64(steps-1)
		times[i] = f * burnTime
		masses[i] = propMass * (1 - f)
	}
	// Guard against float accumulation leaving a sliver of propellant.
	masses[steps-1] = math.Max(0, masses[steps-1])
	return
}
