package campyros

import "fmt"

// AeroModel provides the aerodynamic force coefficients and the center of pressure
// of the bare airframe as functions of Mach number and absolute angle of attack
// (radians), plus the reference area the coefficients were normalized with and the
// angular-rate damping coefficients.
type AeroModel interface {
	CA(mach, alpha float64) float64  // axial force coefficient
	CN(mach, alpha float64) float64  // normal force coefficient
	COP(mach, alpha float64) float64 // center of pressure, m from the nose
	RefArea() float64                // m^2
	RollDamping() float64            // kg m^2 per (rad/s)^2 per (kg/m^3)
	PitchDamping() float64
}

// TabulatedAeroModel bilinearly interpolates coefficient grids over
// (Mach x angle of attack), clamping lookups at the grid edges. This is the shape of
// a RASAero-style aero plot export.
type TabulatedAeroModel struct {
	machs  []float64
	alphas []float64 // radians
	ca     [][]float64
	cn     [][]float64
	cop    [][]float64

	refArea      float64
	rollDamping  float64
	pitchDamping float64
}

// NewTabulatedAeroModel returns an aero model from coefficient grids. Each grid must
// have one row per angle of attack and one column per Mach number, and both
// abscissae must be strictly increasing.
func NewTabulatedAeroModel(machs, alphas []float64, ca, cn, cop [][]float64, refArea, rollDamping, pitchDamping float64) (*TabulatedAeroModel, error) {
	if len(machs) < 2 || len(alphas) < 2 {
		return nil, fmt.Errorf("aero grids need at least 2x2 points, got %dx%d", len(alphas), len(machs))
	}
	if !increasing(machs) || !increasing(alphas) {
		return nil, fmt.Errorf("aero grid abscissae must be strictly increasing")
	}
	if refArea <= 0 {
		return nil, fmt.Errorf("aero reference area must be positive, got %f", refArea)
	}
	for name, grid := range map[string][][]float64{"CA": ca, "CN": cn, "COP": cop} {
		if len(grid) != len(alphas) {
			return nil, fmt.Errorf("%s grid has %d rows, expected %d", name, len(grid), len(alphas))
		}
		for i, row := range grid {
			if len(row) != len(machs) {
				return nil, fmt.Errorf("%s grid row %d has %d columns, expected %d", name, i, len(row), len(machs))
			}
		}
	}
	return &TabulatedAeroModel{machs, alphas, ca, cn, cop, refArea, rollDamping, pitchDamping}, nil
}

func (a *TabulatedAeroModel) lookup(grid [][]float64, mach, alpha float64) float64 {
	mach = clampF(mach, a.machs[0], a.machs[len(a.machs)-1])
	alpha = clampF(alpha, a.alphas[0], a.alphas[len(a.alphas)-1])
	j := clampI(searchFloats(a.machs, mach), 1, len(a.machs)-1)
	i := clampI(searchFloats(a.alphas, alpha), 1, len(a.alphas)-1)
	tm := (mach - a.machs[j-1]) / (a.machs[j] - a.machs[j-1])
	ta := (alpha - a.alphas[i-1]) / (a.alphas[i] - a.alphas[i-1])
	lo := grid[i-1][j-1] + tm*(grid[i-1][j]-grid[i-1][j-1])
	hi := grid[i][j-1] + tm*(grid[i][j]-grid[i][j-1])
	return lo + ta*(hi-lo)
}

// CA implements the AeroModel interface.
func (a *TabulatedAeroModel) CA(mach, alpha float64) float64 {
	return a.lookup(a.ca, mach, alpha)
}

// CN implements the AeroModel interface.
func (a *TabulatedAeroModel) CN(mach, alpha float64) float64 {
	return a.lookup(a.cn, mach, alpha)
}

// COP implements the AeroModel interface.
func (a *TabulatedAeroModel) COP(mach, alpha float64) float64 {
	return a.lookup(a.cop, mach, alpha)
}

// RefArea implements the AeroModel interface.
func (a *TabulatedAeroModel) RefArea() float64 { return a.refArea }

// RollDamping implements the AeroModel interface.
func (a *TabulatedAeroModel) RollDamping() float64 { return a.rollDamping }

// PitchDamping implements the AeroModel interface.
func (a *TabulatedAeroModel) PitchDamping() float64 { return a.pitchDamping }

// NullAeroModel is an aero model with zero coefficients, for drag-free studies.
type NullAeroModel struct {
	Area float64
}

// CA implements the AeroModel interface.
func (n NullAeroModel) CA(mach, alpha float64) float64 { return 0 }

// CN implements the AeroModel interface.
func (n NullAeroModel) CN(mach, alpha float64) float64 { return 0 }

// COP implements the AeroModel interface.
func (n NullAeroModel) COP(mach, alpha float64) float64 { return 0 }

// RefArea implements the AeroModel interface.
func (n NullAeroModel) RefArea() float64 { return n.Area }

// RollDamping implements the AeroModel interface.
func (n NullAeroModel) RollDamping() float64 { return 0 }

// PitchDamping implements the AeroModel interface.
func (n NullAeroModel) PitchDamping() float64 { return 0 }

// clampI bounds an index to [lo, hi].
func clampI(i, lo, hi int) int {
	if i < lo {
		return lo
	}
	if i > hi {
		return hi
	}
	return i
}
