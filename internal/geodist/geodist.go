// Package geodist computes great-circle distances between geocoded points.
package geodist

import "math"

// earthRadiusM is the mean Earth radius in meters.
const earthRadiusM = 6371000.0

// Meters returns the great-circle distance between two points using the
// spherical law of cosines. The acos argument is clamped to 1.0 because
// floating-point overshoot on near-identical points can push it fractionally
// above the domain.
func Meters(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	dlon := (lon2 - lon1) * math.Pi / 180

	arg := math.Sin(rlat1)*math.Sin(rlat2) + math.Cos(rlat1)*math.Cos(rlat2)*math.Cos(dlon)
	if arg > 1.0 {
		arg = 1.0
	}
	return earthRadiusM * math.Acos(arg)
}
