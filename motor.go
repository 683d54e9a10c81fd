package campyros

import "fmt"

// Motor holds the time-indexed performance data of a solid or hybrid motor: the
// thrust curve, the design ambient pressure of the nozzle, its exit area and its
// position along the body from the nose.
type Motor struct {
	AmbientPressure float64 // Pa, nozzle design ambient pressure
	ExitArea        float64 // m^2
	Position        float64 // m from the nose

	timeData   []float64
	thrustData []float64
}

// NewMotor returns a motor from a thrust curve. The time data must start at or
// after ignition, be strictly increasing, and match the thrust column.
func NewMotor(timeData, thrustData []float64, ambientPressure, exitArea, position float64) (*Motor, error) {
	if len(timeData) < 2 {
		return nil, fmt.Errorf("thrust curve needs at least two rows, got %d", len(timeData))
	}
	if len(thrustData) != len(timeData) {
		return nil, fmt.Errorf("thrust curve has %d times but %d thrust values", len(timeData), len(thrustData))
	}
	if timeData[0] < 0 {
		return nil, fmt.Errorf("thrust curve starts before ignition (t=%f s)", timeData[0])
	}
	if !increasing(timeData) {
		return nil, fmt.Errorf("thrust curve times must be strictly increasing")
	}
	for i, f := range thrustData {
		if f < 0 {
			return nil, fmt.Errorf("negative thrust %f N at row %d", f, i)
		}
	}
	return &Motor{ambientPressure, exitArea, position, timeData, thrustData}, nil
}

// Thrust returns the vacuum-referenced thrust at t seconds after ignition, zero
// after burnout. It panics on a negative time.
func (m *Motor) Thrust(t float64) float64 {
	if t < 0 {
		panic(fmt.Errorf("motor queried at negative time t=%f s", t))
	}
	if t > m.BurnTime() {
		return 0
	}
	return interp1(t, m.timeData, m.thrustData)
}

// BurnTime returns the burn duration in seconds.
func (m *Motor) BurnTime() float64 {
	return m.timeData[len(m.timeData)-1]
}

// ConstantThrustMotor returns a motor with a flat thrust curve, a convenience for
// tests and sizing studies.
func ConstantThrustMotor(thrust, burnTime, ambientPressure, exitArea, position float64) *Motor {
	m, err := NewMotor([]float64{0, burnTime}, []float64{thrust, thrust}, ambientPressure, exitArea, position)
	if err != nil {
		panic(err)
	}
	return m
}
