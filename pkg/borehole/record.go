// Package borehole implements the geospatial query core over BGS borehole
// index records: normalization of raw upstream features, location and area
// searches, depth filtering, and summary statistics.
package borehole

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ukgeotools/bgsmcp/pkg/bgs"
	"github.com/ukgeotools/bgsmcp/pkg/bng"
	"github.com/ukgeotools/bgsmcp/pkg/geo"
)

// Record is the canonical borehole entity. It is constructed fresh from
// each raw upstream feature and immutable after construction. Location is
// always derived from the easting/northing pair, never supplied
// independently, so the two representations cannot diverge.
//
// FinalDepthM is the total drilled depth. This is not the depth to bedrock;
// bedrock depth is a distinct quantity that only the stratigraphy log
// (LogURL) can provide.
type Record struct {
	ID          string       `json:"id"`
	Easting     float64      `json:"easting"`
	Northing    float64      `json:"northing"`
	Location    geo.Location `json:"location"`
	FinalDepthM *float64     `json:"final_depth_m,omitempty"`
	LogURL      string       `json:"log_url,omitempty"`
	ProjectName string       `json:"project_name,omitempty"`

	// DistanceKm is the great-circle distance from the query point, set
	// only when the record was produced for a point-radius query. It is
	// query context, not part of the record's identity.
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// Diagnostics counts records dropped or degraded during normalization.
// Per-record problems never abort a query; they are recovered locally and
// reported here.
type Diagnostics struct {
	// Skipped counts features missing a usable identifier or the
	// easting/northing pair.
	Skipped int `json:"skipped,omitempty"`

	// OutOfBounds counts features whose transformed coordinate fell
	// outside the UK coverage envelope. The upstream index occasionally
	// contains erroneous grid references; returning them would silently
	// corrupt proximity results.
	OutOfBounds int `json:"out_of_bounds,omitempty"`

	// InvalidDepth counts records whose depth attribute was negative or
	// unparseable. Such records are kept for spatial queries but excluded
	// from depth filtering and statistics.
	InvalidDepth int `json:"invalid_depth,omitempty"`
}

func (d *Diagnostics) add(other Diagnostics) {
	d.Skipped += other.Skipped
	d.OutOfBounds += other.OutOfBounds
	d.InvalidDepth += other.InvalidDepth
}

// Upstream attribute names in the AGS borehole index.
const (
	propID      = "loca_id"
	propEasting = "x"
	propNorth   = "y"
	propDepth   = "loca_fdep"
	propLogURL  = "ags_log_url"
	propProject = "proj_name"
)

// Normalize converts raw upstream features into canonical records,
// attaching derived WGS84 coordinates and, when ref is non-nil, the
// great-circle distance from ref. Features that cannot be normalized are
// dropped and counted rather than failing the batch.
func Normalize(features []bgs.Feature, ref *geo.Location) ([]Record, Diagnostics) {
	records := make([]Record, 0, len(features))
	var diags Diagnostics

	for _, f := range features {
		rec, d, ok := normalizeOne(f, ref)
		diags.add(d)
		if ok {
			records = append(records, rec)
		}
	}
	return records, diags
}

func normalizeOne(f bgs.Feature, ref *geo.Location) (Record, Diagnostics, bool) {
	var diags Diagnostics

	id := stringProp(f.Properties, propID)
	if id == "" && f.ID != nil {
		id = fmt.Sprintf("%v", f.ID)
	}
	easting, okE := floatProp(f.Properties, propEasting)
	northing, okN := floatProp(f.Properties, propNorth)
	if id == "" || !okE || !okN {
		diags.Skipped++
		return Record{}, diags, false
	}

	loc, err := bng.ToWGS84(easting, northing)
	if err != nil || !geo.IsWithinUKBounds(loc) {
		diags.OutOfBounds++
		return Record{}, diags, false
	}

	rec := Record{
		ID:          id,
		Easting:     easting,
		Northing:    northing,
		Location:    loc,
		LogURL:      stringProp(f.Properties, propLogURL),
		ProjectName: stringProp(f.Properties, propProject),
	}

	if raw, present := f.Properties[propDepth]; present && raw != nil {
		if depth, ok := toFloat(raw); ok && depth >= 0 {
			rec.FinalDepthM = &depth
		} else {
			diags.InvalidDepth++
		}
	}

	if ref != nil {
		dist := geo.DistanceKm(*ref, loc)
		rec.DistanceKm = &dist
	}

	return rec, diags, true
}

// floatProp extracts a numeric attribute. The upstream service is loosely
// typed and has been observed returning both JSON numbers and numeric
// strings for the same field.
func floatProp(props map[string]any, key string) (float64, bool) {
	raw, ok := props[key]
	if !ok || raw == nil {
		return 0, false
	}
	return toFloat(raw)
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func stringProp(props map[string]any, key string) string {
	if raw, ok := props[key]; ok {
		if s, ok := raw.(string); ok {
			return s
		}
	}
	return ""
}
