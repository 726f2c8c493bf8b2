package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm_CoincidentPoints(t *testing.T) {
	p := Point{Lat: 40.7128, Lon: -74.0060}
	assert.Equal(t, 0.0, DistanceKm(p, p))
}

func TestDistanceKm_NewYorkLosAngeles(t *testing.T) {
	ny := Point{Lat: 40.7128, Lon: -74.0060}
	la := Point{Lat: 34.0522, Lon: -118.2437}
	d := DistanceKm(ny, la)
	assert.InDelta(t, 3936, d, 10)
	// distance is symmetric
	assert.InDelta(t, d, DistanceKm(la, ny), 1e-9)
}

func TestDistanceKm_Antipodal(t *testing.T) {
	a := Point{Lat: 0, Lon: 0}
	b := Point{Lat: 0, Lon: 180}
	// half the Earth's circumference, and no NaN from domain overflow
	d := DistanceKm(a, b)
	assert.False(t, d != d, "distance must not be NaN")
	assert.InDelta(t, 20015, d, 5)
}

func TestWithinRadius(t *testing.T) {
	origin := Point{}
	assert.True(t, WithinRadius(origin, origin, 0))

	near := Point{Lat: 0.001, Lon: 0.001}
	assert.True(t, WithinRadius(origin, near, 1))
	assert.False(t, WithinRadius(origin, Point{Lat: 1, Lon: 1}, 1))
}

func TestWithinRadius_BoundaryInclusive(t *testing.T) {
	a := Point{Lat: 0, Lon: 0}
	b := Point{Lat: 0, Lon: 1}
	d := DistanceKm(a, b)
	assert.True(t, WithinRadius(a, b, d))
}
