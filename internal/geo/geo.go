// Package geo provides coordinate types and great-circle distance math.
package geo

import "math"

// earthRadiusKm is the mean earth radius used for great-circle distances.
const earthRadiusKm = 6371.0088

// Coordinate is a latitude/longitude pair in decimal degrees.
//
// An unknown location is represented by a nil *Coordinate. A zero-valued
// Coordinate (0, 0) is a real point and is never treated as unset.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// DistanceKm returns the great-circle distance between a and b in kilometers
// using the haversine formula.
func DistanceKm(a, b Coordinate) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
