package mission

import "math"

// GeofenceRadiusMeters is the verification radius around a mission's target
// location.
const GeofenceRadiusMeters = 200

// DistanceMeters returns the great-circle distance between two coordinates in
// meters, using the spherical law of cosines scaled through the
// nautical-mile-per-degree approximation.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	theta := lon1 - lon2
	dist := math.Sin(deg2rad(lat1))*math.Sin(deg2rad(lat2)) +
		math.Cos(deg2rad(lat1))*math.Cos(deg2rad(lat2))*math.Cos(deg2rad(theta))

	// Rounding can push the cosine just outside [-1, 1] for near-identical
	// points, which would make Acos return NaN.
	if dist > 1 {
		dist = 1
	} else if dist < -1 {
		dist = -1
	}

	dist = rad2deg(math.Acos(dist))
	return dist * 60 * 1.1515 * 1609.344
}

// WithinGeofence reports whether the truncated distance falls inside the
// verification radius.
func WithinGeofence(distanceMeters float64) bool {
	return int(distanceMeters) <= GeofenceRadiusMeters
}

func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func rad2deg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}
