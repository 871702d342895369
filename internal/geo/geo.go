// Package geo provides great-circle distance math for filtering spots by
// proximity to a reference point.
package geo

import "math"

// EarthRadiusMiles is the mean radius of the Earth in miles.
const EarthRadiusMiles = 3958.8

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Distance returns the haversine great-circle distance between two
// coordinates, in miles.
func Distance(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	deltaLat := (b.Lat - a.Lat) * math.Pi / 180
	deltaLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLng/2)*math.Sin(deltaLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMiles * c
}

// Locatable is anything with a map position.
type Locatable interface {
	Coordinate() Coordinate
}

// FilterNearby returns the items whose distance from origin is at most
// radiusMiles. The filter is stable: output preserves input order.
func FilterNearby[T Locatable](origin Coordinate, items []T, radiusMiles float64) []T {
	nearby := make([]T, 0, len(items))
	for _, item := range items {
		if Distance(origin, item.Coordinate()) <= radiusMiles {
			nearby = append(nearby, item)
		}
	}
	return nearby
}
