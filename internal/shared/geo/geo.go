package geo

import "math"

// EarthRadiusKm is the mean spherical radius used for all route distances.
const EarthRadiusKm = 6372.8

// HaversineKm returns the great-circle distance between two coordinates
// given in degrees.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := toRadians(lat1)
	phi2 := toRadians(lat2)
	dPhi := phi2 - phi1
	dLambda := toRadians(lng2) - toRadians(lng1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(a))
}

func toRadians(deg float64) float64 {
	return deg / 180.0 * math.Pi
}
