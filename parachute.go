package campyros

// Parachute holds the drogue and main recovery stages. The simulated vehicle does
// not integrate its attitude under canopy; it is re-oriented each step to trail the
// apparent wind, so the parachute contributes drag only.
type Parachute struct {
	MainArea       float64 // m^2
	MainCd         float64
	DrogueArea     float64 // m^2
	DrogueCd       float64
	MainAlt        float64 // m, altitude below which the main is out
	AttachDistance float64 // m from the nose
}

// Drag returns the drag coefficient and reference area of whichever stage is out at
// the given altitude.
func (p Parachute) Drag(alt float64) (cd, area float64) {
	if alt < p.MainAlt {
		return p.MainCd, p.MainArea
	}
	return p.DrogueCd, p.DrogueArea
}

// IsZero returns whether this parachute produces no drag at all, in which case the
// aerodynamic model keeps acting after apogee.
func (p Parachute) IsZero() bool {
	return p.MainCd == 0
}
