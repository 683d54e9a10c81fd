package campyros

import (
	"fmt"
	"math"
)

// Atmosphere returns the ambient air properties at a geometric altitude in meters.
// Implementations must be defined (or safely clamped) over at least
// [minModelAlt, maxModelAlt].
type Atmosphere interface {
	Lookup(alt float64) (density, pressure, speedOfSound float64)
}

// TabulatedAtmosphere interpolates altitude-indexed atmosphere data, clamping
// lookups to the table domain.
type TabulatedAtmosphere struct {
	alts        []float64
	densities   []float64
	pressures   []float64
	soundSpeeds []float64
}

// NewTabulatedAtmosphere returns an atmosphere from parallel data columns. The
// altitudes must be strictly increasing and all columns the same length.
func NewTabulatedAtmosphere(alts, densities, pressures, soundSpeeds []float64) (*TabulatedAtmosphere, error) {
	if len(alts) < 2 {
		return nil, fmt.Errorf("atmosphere table needs at least two rows, got %d", len(alts))
	}
	if len(densities) != len(alts) || len(pressures) != len(alts) || len(soundSpeeds) != len(alts) {
		return nil, fmt.Errorf("atmosphere table columns have mismatched lengths (%d alts, %d densities, %d pressures, %d sound speeds)",
			len(alts), len(densities), len(pressures), len(soundSpeeds))
	}
	if !increasing(alts) {
		return nil, fmt.Errorf("atmosphere table altitudes must be strictly increasing")
	}
	return &TabulatedAtmosphere{alts, densities, pressures, soundSpeeds}, nil
}

// Lookup implements the Atmosphere interface.
func (a *TabulatedAtmosphere) Lookup(alt float64) (density, pressure, speedOfSound float64) {
	alt = clampF(alt, a.alts[0], a.alts[len(a.alts)-1])
	return interp1(alt, a.alts, a.densities),
		interp1(alt, a.alts, a.pressures),
		interp1(alt, a.alts, a.soundSpeeds)
}

/* US Standard Atmosphere 1976, evaluated analytically layer by layer. */

const (
	isaG     = 9.80665   // m/s^2
	isaR     = 287.05287 // J/(kg K)
	isaGamma = 1.4
	// isaREarth is the effective Earth radius for the geometric to geopotential
	// altitude conversion.
	isaREarth = 6356766.0
)

// isaLayer is a geopotential layer base of the 1976 standard atmosphere.
type isaLayer struct {
	baseAlt  float64 // geopotential m
	lapse    float64 // K/m
	baseTemp float64 // K, filled in at init
	basePres float64 // Pa, filled in at init
}

var isaLayers = []isaLayer{
	{0, -0.0065, 288.15, 101325},
	{11000, 0, 0, 0},
	{20000, 0.001, 0, 0},
	{32000, 0.0028, 0, 0},
	{47000, 0, 0, 0},
	{51000, -0.0028, 0, 0},
	{71000, -0.002, 0, 0},
}

func init() {
	// Propagate the base temperature and pressure up through the layers.
	for i := 1; i < len(isaLayers); i++ {
		below := isaLayers[i-1]
		dh := isaLayers[i].baseAlt - below.baseAlt
		isaLayers[i].baseTemp = below.baseTemp + below.lapse*dh
		if below.lapse == 0 {
			isaLayers[i].basePres = below.basePres * math.Exp(-isaG*dh/(isaR*below.baseTemp))
		} else {
			isaLayers[i].basePres = below.basePres * math.Pow(isaLayers[i].baseTemp/below.baseTemp, -isaG/(below.lapse*isaR))
		}
	}
}

// ISA76 is the analytic US Standard Atmosphere 1976, valid over the whole altitude
// clamp domain (the tropospheric law is extended below sea level).
type ISA76 struct{}

// Lookup implements the Atmosphere interface.
func (ISA76) Lookup(alt float64) (density, pressure, speedOfSound float64) {
	// Geometric to geopotential altitude.
	h := isaREarth * alt / (isaREarth + alt)
	layer := isaLayers[0]
	for _, l := range isaLayers[1:] {
		if h < l.baseAlt {
			break
		}
		layer = l
	}
	dh := h - layer.baseAlt
	temp := layer.baseTemp + layer.lapse*dh
	if layer.lapse == 0 {
		pressure = layer.basePres * math.Exp(-isaG*dh/(isaR*layer.baseTemp))
	} else {
		pressure = layer.basePres * math.Pow(temp/layer.baseTemp, -isaG/(layer.lapse*isaR))
	}
	density = pressure / (isaR * temp)
	speedOfSound = math.Sqrt(isaGamma * isaR * temp)
	return
}
