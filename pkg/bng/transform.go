// Package bng converts British National Grid easting/northing coordinates
// to WGS84 latitude/longitude.
//
// The conversion is the standard two-stage chain: the grid coordinate is
// first inverted through the National Grid's transverse Mercator projection
// onto the Airy 1830 ellipsoid (giving an OSGB36 geodetic position), then
// shifted onto the WGS84 ellipsoid with the published 7-parameter Helmert
// transformation. Collapsing the two stages into a single linear formula
// introduces errors of tens of meters, which is enough to corrupt proximity
// ranking between neighboring boreholes.
package bng

import (
	"errors"
	"fmt"
	"math"

	"github.com/ukgeotools/bgsmcp/pkg/geo"
)

// ErrInvalidCoordinate is returned for easting/northing values that cannot
// represent a grid position at all (non-finite, or far outside the grid).
var ErrInvalidCoordinate = errors.New("invalid grid coordinate")

// Airy 1830 ellipsoid, the reference surface of OSGB36.
const (
	airyA = 6377563.396
	airyB = 6356256.909
)

// WGS84 ellipsoid.
const (
	wgs84A = 6378137.000
	wgs84B = 6356752.3141
)

// National Grid transverse Mercator parameters: central meridian scale,
// true origin (49°N 2°W) and false origin offsets in meters.
const (
	gridScale    = 0.9996012717
	gridLat0     = 49.0 * math.Pi / 180.0
	gridLon0     = -2.0 * math.Pi / 180.0
	gridEasting0 = 400000.0
	gridNorth0   = -100000.0
)

// OSGB36 -> WGS84 Helmert parameters: translations in meters, rotations in
// arc-seconds, scale in parts per million.
const (
	helmertTX = 446.448
	helmertTY = -125.157
	helmertTZ = 542.060
	helmertRX = 0.1502
	helmertRY = 0.2470
	helmertRZ = 0.8421
	helmertS  = -20.4894
)

// The National Grid proper spans 0-700km easting and 0-1300km northing.
// Inputs well beyond that envelope cannot be a misplaced UK grid reference
// and are rejected outright; marginal values are allowed through so the
// transformed result can be bounds-checked against the coverage envelope.
const (
	minEasting  = -1e6
	maxEasting  = 2e6
	minNorthing = -1e6
	maxNorthing = 3e6
)

// ToWGS84 converts a BNG easting/northing pair in meters to a WGS84
// latitude/longitude in decimal degrees. The function is pure and safe for
// concurrent use. It never clamps: out-of-range input fails with
// ErrInvalidCoordinate and in-range input propagates exactly.
func ToWGS84(easting, northing float64) (geo.Location, error) {
	if !isFinite(easting) || !isFinite(northing) {
		return geo.Location{}, fmt.Errorf("%w: easting=%v northing=%v", ErrInvalidCoordinate, easting, northing)
	}
	if easting < minEasting || easting > maxEasting || northing < minNorthing || northing > maxNorthing {
		return geo.Location{}, fmt.Errorf("%w: easting=%.1f northing=%.1f outside representable grid range", ErrInvalidCoordinate, easting, northing)
	}

	lat, lon := gridToOSGB36(easting, northing)
	x, y, z := geodeticToCartesian(lat, lon, airyA, airyB)
	x, y, z = helmertOSGB36ToWGS84(x, y, z)
	lat, lon = cartesianToGeodetic(x, y, z, wgs84A, wgs84B)

	return geo.Location{
		Latitude:  lat * 180.0 / math.Pi,
		Longitude: lon * 180.0 / math.Pi,
	}, nil
}

// gridToOSGB36 inverts the transverse Mercator projection, returning OSGB36
// geodetic latitude/longitude in radians. This is the standard Ordnance
// Survey series expansion.
func gridToOSGB36(easting, northing float64) (lat, lon float64) {
	a, b := airyA, airyB
	e2 := 1 - (b*b)/(a*a)
	n := (a - b) / (a + b)

	// Iterate the meridional arc until the northing residual is below 10µm.
	// Convergence takes a handful of rounds anywhere in the accepted input
	// range; the cap only rules out an unbounded loop.
	lat = gridLat0
	m := 0.0
	for i := 0; i < 100; i++ {
		lat = (northing-gridNorth0-m)/(a*gridScale) + lat

		ma := (1 + n + 1.25*n*n + 1.25*n*n*n) * (lat - gridLat0)
		mb := (3*n + 3*n*n + 2.625*n*n*n) * math.Sin(lat-gridLat0) * math.Cos(lat+gridLat0)
		mc := (1.875*n*n + 1.875*n*n*n) * math.Sin(2*(lat-gridLat0)) * math.Cos(2*(lat+gridLat0))
		md := (35.0 / 24.0) * n * n * n * math.Sin(3*(lat-gridLat0)) * math.Cos(3*(lat+gridLat0))
		m = b * gridScale * (ma - mb + mc - md)

		if math.Abs(northing-gridNorth0-m) < 0.00001 {
			break
		}
	}

	sinLat := math.Sin(lat)
	nu := a * gridScale / math.Sqrt(1-e2*sinLat*sinLat)
	rho := a * gridScale * (1 - e2) * math.Pow(1-e2*sinLat*sinLat, -1.5)
	eta2 := nu/rho - 1

	tanLat := math.Tan(lat)
	tan2 := tanLat * tanLat
	secLat := 1 / math.Cos(lat)

	vii := tanLat / (2 * rho * nu)
	viii := tanLat / (24 * rho * nu * nu * nu) * (5 + 3*tan2 + eta2 - 9*tan2*eta2)
	ix := tanLat / (720 * rho * math.Pow(nu, 5)) * (61 + 90*tan2 + 45*tan2*tan2)
	x := secLat / nu
	xi := secLat / (6 * nu * nu * nu) * (nu/rho + 2*tan2)
	xii := secLat / (120 * math.Pow(nu, 5)) * (5 + 28*tan2 + 24*tan2*tan2)
	xiia := secLat / (5040 * math.Pow(nu, 7)) * (61 + 662*tan2 + 1320*tan2*tan2 + 720*tan2*tan2*tan2)

	de := easting - gridEasting0
	de2 := de * de

	lat = lat - vii*de2 + viii*de2*de2 - ix*de2*de2*de2
	lon = gridLon0 + x*de - xi*de*de2 + xii*de*de2*de2 - xiia*de*de2*de2*de2
	return lat, lon
}

// geodeticToCartesian converts geodetic coordinates (radians, height zero)
// on the given ellipsoid to earth-centered cartesian coordinates.
func geodeticToCartesian(lat, lon, a, b float64) (x, y, z float64) {
	e2 := 1 - (b*b)/(a*a)
	sinLat := math.Sin(lat)
	nu := a / math.Sqrt(1-e2*sinLat*sinLat)

	x = nu * math.Cos(lat) * math.Cos(lon)
	y = nu * math.Cos(lat) * math.Sin(lon)
	z = (1 - e2) * nu * sinLat
	return x, y, z
}

// helmertOSGB36ToWGS84 applies the 7-parameter datum shift to cartesian
// coordinates on the Airy ellipsoid.
func helmertOSGB36ToWGS84(x, y, z float64) (float64, float64, float64) {
	const arcsec = math.Pi / (180.0 * 3600.0)
	rx := helmertRX * arcsec
	ry := helmertRY * arcsec
	rz := helmertRZ * arcsec
	s := 1 + helmertS*1e-6

	x2 := helmertTX + s*x - rz*y + ry*z
	y2 := helmertTY + rz*x + s*y - rx*z
	z2 := helmertTZ - ry*x + rx*y + s*z
	return x2, y2, z2
}

// cartesianToGeodetic converts earth-centered cartesian coordinates back to
// geodetic latitude/longitude (radians) on the given ellipsoid by fixed-point
// iteration, which converges to sub-millimeter well within the iteration cap.
func cartesianToGeodetic(x, y, z, a, b float64) (lat, lon float64) {
	e2 := 1 - (b*b)/(a*a)
	p := math.Hypot(x, y)

	lat = math.Atan2(z, p*(1-e2))
	for i := 0; i < 20; i++ {
		sinLat := math.Sin(lat)
		nu := a / math.Sqrt(1-e2*sinLat*sinLat)
		next := math.Atan2(z+e2*nu*sinLat, p)
		if math.Abs(next-lat) < 1e-12 {
			lat = next
			break
		}
		lat = next
	}
	return lat, math.Atan2(y, x)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
