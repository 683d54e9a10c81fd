package campyros

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

/* Frame transforms between the launch-site frame (x south, y east, z up, origin at
the site latitude/longitude and altitude zero, co-rotating with Earth) and the
inertial frame (Earth-centered, non-rotating, aligned with the launch meridian at
t=0). All functions are pure and parametrized by the elapsed time since ignition. */

// launchFrameBasis returns the launch-frame basis at time t as a matrix whose
// columns are the south, east and up directions in inertial coordinates.
func launchFrameBasis(site LaunchSite, t float64) *mat64.Dense {
	sφ, cφ := math.Sincos(site.Lat * deg2rad)
	sλ, cλ := math.Sincos(site.Long*deg2rad + EarthRotationRate*t)
	return mat64.NewDense(3, 3, []float64{
		sφ * cλ, -sλ, cφ * cλ,
		sφ * sλ, cλ, cφ * sλ,
		-cφ, 0, sφ})
}

// siteOriginI returns the inertial position of the launch-frame origin (altitude
// zero) at time t, using the configured eccentricity for the geodetic projection.
func siteOriginI(site LaunchSite, t float64) []float64 {
	sφ, cφ := math.Sincos(site.Lat * deg2rad)
	sλ, cλ := math.Sincos(site.Long*deg2rad + EarthRotationRate*t)
	e2 := EccentricityEarth * EccentricityEarth
	n := REarth / math.Sqrt(1-e2*sφ*sφ)
	return []float64{n * cφ * cλ, n * cφ * sλ, n * (1 - e2) * sφ}
}

// earthRotVelI returns the inertial velocity of a point fixed to the launch site,
// i.e. the eastward tangential velocity due to Earth's rotation at the site radius
// and latitude.
func earthRotVelI(site LaunchSite, t float64) []float64 {
	sλ, cλ := math.Sincos(site.Long*deg2rad + EarthRotationRate*t)
	vEast := EarthRotationRate * (REarth + site.Alt) * math.Cos(site.Lat*deg2rad)
	return []float64{-vEast * sλ, vEast * cλ, 0}
}

// DirectionL2I rotates a direction vector from launch-frame to inertial
// coordinates. No translation nor velocity correction is applied.
func DirectionL2I(v []float64, site LaunchSite, t float64) []float64 {
	return MxV33(launchFrameBasis(site, t), v)
}

// DirectionI2L rotates a direction vector from inertial to launch-frame
// coordinates.
func DirectionI2L(v []float64, site LaunchSite, t float64) []float64 {
	return MTxV33(launchFrameBasis(site, t), v)
}

// PosL2I converts a launch-frame position to inertial coordinates.
func PosL2I(pos []float64, site LaunchSite, t float64) []float64 {
	return addV(siteOriginI(site, t), DirectionL2I(pos, site, t))
}

// PosI2L converts an inertial position to launch-frame coordinates.
func PosI2L(pos []float64, site LaunchSite, t float64) []float64 {
	return DirectionI2L(subV(pos, siteOriginI(site, t)), site, t)
}

// VelL2I converts a launch-frame velocity to inertial coordinates, adding the
// tangential velocity of the rotating launch site.
func VelL2I(vel []float64, site LaunchSite, t float64) []float64 {
	return addV(DirectionL2I(vel, site, t), earthRotVelI(site, t))
}

// VelI2L converts an inertial velocity to launch-frame coordinates, removing the
// tangential velocity of the rotating launch site.
func VelI2L(vel []float64, site LaunchSite, t float64) []float64 {
	return DirectionI2L(subV(vel, earthRotVelI(site, t)), site, t)
}

// I2Airspeed returns the velocity relative to the co-rotating atmosphere, expressed
// in launch-frame coordinates. Unlike VelI2L, the atmosphere velocity is evaluated
// at the vehicle position rather than at the site origin.
func I2Airspeed(posI, velI []float64, site LaunchSite, t float64) []float64 {
	vAtm := cross([]float64{0, 0, EarthRotationRate}, posI)
	return DirectionI2L(subV(velI, vAtm), site, t)
}

// I2LLA converts an inertial position to geodetic latitude, longitude (degrees) and
// altitude (meters). With EccentricityEarth set to zero the spherical inversion is
// used; otherwise the closed-form ellipsoidal inversion. Both are iteration-free and
// continuous through the poles and the equator.
func I2LLA(posI []float64, t float64) (lat, long, alt float64) {
	if EccentricityEarth == 0 {
		r := norm(posI)
		lat = math.Asin(clampF(posI[2]/r, -1, 1)) * rad2deg
		long = normLong(math.Atan2(posI[1], posI[0])*rad2deg - EarthRotationRate*t*rad2deg)
		alt = r - REarth
		return
	}
	return i2llaEllipsoidal(posI, t)
}

// i2llaEllipsoidal implements the closed-form (non-iterative) geodetic inversion of
// Vermeille for an ellipsoid of eccentricity EccentricityEarth.
func i2llaEllipsoidal(posI []float64, t float64) (lat, long, alt float64) {
	a := REarth
	e2 := EccentricityEarth * EccentricityEarth
	x, y, z := posI[0], posI[1], posI[2]

	p := (x*x + y*y) / (a * a)
	q := (1 - e2) * z * z / (a * a)
	r := (p + q - e2*e2) / 6
	s := e2 * e2 * p * q / (4 * r * r * r)
	tt := math.Cbrt(1 + s + math.Sqrt(s*(2+s)))
	u := r * (1 + tt + 1/tt)
	v := math.Sqrt(u*u + e2*e2*q)
	w := e2 * (u + v - q) / (2 * v)
	k := math.Sqrt(u + v + w*w) - w
	d := k * math.Sqrt(x*x+y*y) / (k + e2)

	lat = 2 * math.Atan2(z, d+math.Sqrt(d*d+z*z)) * rad2deg
	long = normLong(math.Atan2(y, x)*rad2deg - EarthRotationRate*t*rad2deg)
	alt = (k + e2 - 1) / k * math.Sqrt(d*d+z*z)
	return
}

// PosI2Alt returns the geodetic altitude of an inertial position.
func PosI2Alt(posI []float64, t float64) float64 {
	_, _, alt := I2LLA(posI, t)
	return alt
}

// normLong normalizes a longitude in degrees into (-180, 180].
func normLong(long float64) float64 {
	long = math.Mod(long, 360)
	if long > 180 {
		long -= 360
	} else if long <= -180 {
		long += 360
	}
	return long
}

// validLatLong normalizes a latitude/longitude pair (degrees) into the ranges a wind
// provider expects: latitude folded into [-90, 90] and longitude into [0, 360).
func validLatLong(lat, long float64) (float64, float64) {
	if math.Abs(lat) > 90 {
		lat = sign(lat) * (180 - math.Abs(lat))
		long += 180
	}
	long = math.Mod(long, 360)
	if long < 0 {
		long += 360
	}
	return lat, long
}
