package campyros

import "time"

// LaunchSite holds the immutable launch geometry: the geodetic origin, the rail, and
// the wind provider used for the whole flight.
type LaunchSite struct {
	RailLength float64 // m
	RailYaw    float64 // degrees about the launch-frame z axis, 0 points South, 90 East
	RailPitch  float64 // degrees from the launch-frame z axis, 0 points up
	Alt        float64 // m, offset by a small epsilon (see NewLaunchSite)
	Long       float64 // degrees
	Lat        float64 // degrees
	Wind       Wind
	LaunchTime time.Time // epoch of ignition, used to stamp exports

	groundAlt float64
}

// NewLaunchSite returns a launch site at the given geodetic origin. The altitude is
// offset by a small epsilon to avoid a degenerate origin in the frame transforms.
// A nil wind defaults to still air.
func NewLaunchSite(railLength, railYaw, railPitch, alt, long, lat float64, wind Wind) LaunchSite {
	if wind == nil {
		wind = ConstantWind{0, 0, 0}
	}
	return LaunchSite{
		RailLength: railLength,
		RailYaw:    railYaw,
		RailPitch:  railPitch,
		Alt:        alt + altEpsilon,
		Long:       long,
		Lat:        lat,
		Wind:       wind,
		LaunchTime: time.Now().UTC(),
		groundAlt:  alt,
	}
}

// GroundAlt returns the reference ground altitude below which the flight terminates.
func (s LaunchSite) GroundAlt() float64 {
	return s.groundAlt
}
