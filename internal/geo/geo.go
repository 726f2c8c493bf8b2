// Package geo provides great-circle distance math for proximity queries.
// All functions are pure; the package holds no state.
package geo

import "math"

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// Point is a WGS84 coordinate pair in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// DistanceKm returns the great-circle distance between a and b in
// kilometers using the haversine formula.
func DistanceKm(a, b Point) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(latA)*math.Cos(latB)*sinLon*sinLon

	// Floating rounding can push h a hair outside [0, 1] for coincident or
	// antipodal points; clamp before the sqrt so Asin stays in domain.
	if h < 0 {
		h = 0
	} else if h > 1 {
		h = 1
	}
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// WithinRadius reports whether p lies within radiusKm of center,
// boundary inclusive.
func WithinRadius(center, p Point, radiusKm float64) bool {
	return DistanceKm(center, p) <= radiusKm
}
