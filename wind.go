package campyros

import "fmt"

// Wind returns the wind velocity in launch-frame coordinates at a geodetic position.
// Implementations must tolerate out-of-range coordinates (see validLatLong).
type Wind interface {
	Wind(lat, long, alt float64) []float64
}

// ConstantWind is a wind provider returning the same launch-frame vector everywhere.
type ConstantWind [3]float64

// Wind implements the Wind interface.
func (w ConstantWind) Wind(lat, long, alt float64) []float64 {
	return []float64{w[0], w[1], w[2]}
}

// LayeredWind interpolates a vertical wind profile, the in-memory equivalent of a
// forecast sounding. Vectors are in launch-frame coordinates; lookups clamp to the
// boundary layers outside the profile.
type LayeredWind struct {
	alts  []float64
	windX []float64
	windY []float64
	windZ []float64
}

// NewLayeredWind returns a wind profile from per-altitude launch-frame vectors.
func NewLayeredWind(alts []float64, vectors [][]float64) (*LayeredWind, error) {
	if len(alts) < 2 {
		return nil, fmt.Errorf("wind profile needs at least two layers, got %d", len(alts))
	}
	if len(vectors) != len(alts) {
		return nil, fmt.Errorf("wind profile has %d altitudes but %d vectors", len(alts), len(vectors))
	}
	if !increasing(alts) {
		return nil, fmt.Errorf("wind profile altitudes must be strictly increasing")
	}
	w := &LayeredWind{alts: alts}
	for i, v := range vectors {
		if len(v) != 3 {
			return nil, fmt.Errorf("wind vector %d has %d components, expected 3", i, len(v))
		}
		w.windX = append(w.windX, v[0])
		w.windY = append(w.windY, v[1])
		w.windZ = append(w.windZ, v[2])
	}
	return w, nil
}

// Wind implements the Wind interface.
func (w *LayeredWind) Wind(lat, long, alt float64) []float64 {
	// The profile is a single vertical column, so only the altitude matters, but the
	// coordinates are still normalized to honor the Wind contract.
	validLatLong(lat, long)
	return []float64{
		interp1(alt, w.alts, w.windX),
		interp1(alt, w.alts, w.windY),
		interp1(alt, w.alts, w.windZ),
	}
}
