// Package geo provides common geographic types and calculations.
// It centralizes location-based data structures and algorithms to ensure
// consistency across the codebase.
package geo

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"
)

// EarthRadiusKm is the mean radius of Earth in kilometers, the value
// conventionally used for great-circle distance on a spherical model.
const EarthRadiusKm = 6371.0

// Location represents a WGS84 geographic coordinate (latitude and longitude)
// with standardized JSON field names.
//
// Example:
//
//	loc := geo.Location{Latitude: 55.9533, Longitude: -3.1866}
//	km := geo.DistanceKm(loc, geo.Location{Latitude: 51.5074, Longitude: -0.1278})
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// UKBounds is the coverage envelope of the BGS borehole index. Queries and
// transformed record coordinates outside this box are treated as out of
// coverage rather than passed to or returned from the upstream service.
var UKBounds = BoundingBox{
	MinLat: 49.0,
	MinLon: -8.0,
	MaxLat: 61.0,
	MaxLon: 2.0,
}

// IsWithinUKBounds reports whether the point falls inside the UK coverage
// envelope.
func IsWithinUKBounds(loc Location) bool {
	return UKBounds.Contains(loc.Latitude, loc.Longitude)
}

// BoundingBox represents a geographic bounding box with southwest and
// northeast corners.
type BoundingBox struct {
	MinLat float64 `json:"min_latitude"`  // Southern edge
	MinLon float64 `json:"min_longitude"` // Western edge
	MaxLat float64 `json:"max_latitude"`  // Northern edge
	MaxLon float64 `json:"max_longitude"` // Eastern edge
}

// Contains reports whether the given latitude and longitude fall inside the
// bounding box (edges inclusive).
func (bb BoundingBox) Contains(lat, lon float64) bool {
	return lat >= bb.MinLat && lat <= bb.MaxLat &&
		lon >= bb.MinLon && lon <= bb.MaxLon
}

// Valid reports whether the box is well-formed: corners in coordinate range
// and the minimum corner south-west of the maximum corner.
func (bb BoundingBox) Valid() bool {
	if bb.MinLat < -90 || bb.MaxLat > 90 || bb.MinLon < -180 || bb.MaxLon > 180 {
		return false
	}
	return bb.MinLat <= bb.MaxLat && bb.MinLon <= bb.MaxLon
}

// Overlaps reports whether the two boxes share any area.
func (bb BoundingBox) Overlaps(other BoundingBox) bool {
	return bb.MinLat <= other.MaxLat && bb.MaxLat >= other.MinLat &&
		bb.MinLon <= other.MaxLon && bb.MaxLon >= other.MinLon
}

// FromCenter returns a bounding box covering a radius around a center point.
// Longitude extent widens with latitude so the box edges stay approximately
// radiusKm from the center across the UK's latitude range.
func FromCenter(center Location, radiusKm float64) BoundingBox {
	latBuffer := radiusKm / 111.0
	lonBuffer := radiusKm / (111.0 * math.Cos(center.Latitude*math.Pi/180.0))
	return BoundingBox{
		MinLat: center.Latitude - latBuffer,
		MinLon: center.Longitude - lonBuffer,
		MaxLat: center.Latitude + latBuffer,
		MaxLon: center.Longitude + lonBuffer,
	}
}

// String returns the box in OGC API bbox parameter order
// (minLon,minLat,maxLon,maxLat).
func (bb BoundingBox) String() string {
	return fmt.Sprintf("%f,%f,%f,%f", bb.MinLon, bb.MinLat, bb.MaxLon, bb.MaxLat)
}

// DistanceKm calculates the great-circle distance between two points on the
// Earth's surface. The result is returned in kilometers. Adequate for
// proximity ranking; not survey-grade.
func DistanceKm(a, b Location) float64 {
	p1 := s2.LatLngFromDegrees(a.Latitude, a.Longitude)
	p2 := s2.LatLngFromDegrees(b.Latitude, b.Longitude)
	return p1.Distance(p2).Radians() * EarthRadiusKm
}
