package campyros

const (
	// REarth is Earth's semi-major axis in meters.
	REarth = 6378137.0
	// MuEarth is Earth's gravitational parameter in m^3/s^2.
	MuEarth = 3.986004418e14
	// EarthRotationRate is the average Earth rotation rate in radians per second.
	EarthRotationRate = 7.2921158553e-5
	// FlatteningEarth is the WGS84 flattening factor.
	FlatteningEarth = 1 / 298.257223563
	// EccentricityEarth is the eccentricity used by the frame transforms. Zero selects
	// the spherical projection; a non-zero value selects the closed-form ellipsoidal
	// inversion in I2LLA.
	EccentricityEarth = 0.0
)

const (
	// altEpsilon offsets the launch site altitude to avoid a degenerate origin in the
	// frame transforms.
	altEpsilon = 1e-5
	// minModelAlt and maxModelAlt bound the altitude passed to the atmosphere. Without
	// the clamp, steps near the ground can grow to several seconds and push the state
	// far below the surface before the termination check runs.
	minModelAlt = -5000.0
	maxModelAlt = 81020.0
)
