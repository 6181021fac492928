package borehole

import (
	"math"
	"testing"

	"github.com/ukgeotools/bgsmcp/pkg/bgs"
	"github.com/ukgeotools/bgsmcp/pkg/geo"
)

func feature(props map[string]any) bgs.Feature {
	return bgs.Feature{Type: "Feature", Properties: props}
}

func TestNormalize(t *testing.T) {
	features := []bgs.Feature{
		feature(map[string]any{"loca_id": "A", "x": 325000.0, "y": 673000.0, "loca_fdep": 15.2,
			"proj_name": "Tram Extension", "ags_log_url": "https://example.org/logs/A"}),
		feature(map[string]any{"loca_id": "B", "x": 326000.0, "y": 674000.0, "loca_fdep": 42.0}),
	}

	records, diags := Normalize(features, nil)
	if diags != (Diagnostics{}) {
		t.Errorf("Diagnostics = %+v, want zero", diags)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	a := records[0]
	if a.ID != "A" {
		t.Errorf("ID = %q, want A", a.ID)
	}
	if a.FinalDepthM == nil || *a.FinalDepthM != 15.2 {
		t.Errorf("FinalDepthM = %v, want 15.2", a.FinalDepthM)
	}
	if a.ProjectName != "Tram Extension" || a.LogURL == "" {
		t.Errorf("optional fields not extracted: %+v", a)
	}
	if a.DistanceKm != nil {
		t.Error("DistanceKm set without a reference point")
	}

	// Derived WGS84 coordinate for easting 325000 / northing 673000.
	if math.Abs(a.Location.Latitude-55.9441670) > 2e-5 || math.Abs(a.Location.Longitude+3.2023862) > 2e-5 {
		t.Errorf("Location = %+v, want ~(55.94417, -3.20239)", a.Location)
	}
}

func TestNormalizeWithReferencePoint(t *testing.T) {
	ref := geo.Location{Latitude: 55.9441670, Longitude: -3.2023862}
	features := []bgs.Feature{
		feature(map[string]any{"loca_id": "A", "x": 325000.0, "y": 673000.0}),
		feature(map[string]any{"loca_id": "B", "x": 326000.0, "y": 674000.0}),
	}

	records, _ := Normalize(features, &ref)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].DistanceKm == nil || *records[0].DistanceKm > 0.01 {
		t.Errorf("record A distance = %v, want ~0", records[0].DistanceKm)
	}
	// B is one grid kilometer northeast of A.
	if records[1].DistanceKm == nil || math.Abs(*records[1].DistanceKm-1.41) > 0.02 {
		t.Errorf("record B distance = %v, want ~1.41 km", records[1].DistanceKm)
	}
}

func TestNormalizeDiagnostics(t *testing.T) {
	tests := []struct {
		name  string
		props map[string]any
		want  Diagnostics
		kept  bool
	}{
		{
			name:  "missing coordinates",
			props: map[string]any{"loca_id": "NOXY", "loca_fdep": 10.0},
			want:  Diagnostics{Skipped: 1},
		},
		{
			name:  "missing id",
			props: map[string]any{"x": 325000.0, "y": 673000.0},
			want:  Diagnostics{Skipped: 1},
		},
		{
			name:  "erroneous grid reference",
			props: map[string]any{"loca_id": "BAD", "x": -999999.0, "y": 0.0},
			want:  Diagnostics{OutOfBounds: 1},
		},
		{
			name:  "transform lands outside coverage",
			props: map[string]any{"loca_id": "SEA", "x": 1500000.0, "y": 0.0},
			want:  Diagnostics{OutOfBounds: 1},
		},
		{
			name:  "negative depth kept without depth",
			props: map[string]any{"loca_id": "NEG", "x": 325000.0, "y": 673000.0, "loca_fdep": -5.0},
			want:  Diagnostics{InvalidDepth: 1},
			kept:  true,
		},
		{
			name:  "unparseable depth string",
			props: map[string]any{"loca_id": "STR", "x": 325000.0, "y": 673000.0, "loca_fdep": "unknown"},
			want:  Diagnostics{InvalidDepth: 1},
			kept:  true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			records, diags := Normalize([]bgs.Feature{feature(tc.props)}, nil)
			if diags != tc.want {
				t.Errorf("Diagnostics = %+v, want %+v", diags, tc.want)
			}
			if kept := len(records) == 1; kept != tc.kept {
				t.Errorf("record kept = %v, want %v", kept, tc.kept)
			}
			if tc.kept && records[0].FinalDepthM != nil {
				t.Error("invalid depth was not nilled")
			}
		})
	}
}

func TestNormalizeLooseTyping(t *testing.T) {
	// Coordinates and depth as numeric strings, id from the feature
	// envelope rather than properties.
	f := bgs.Feature{
		ID:   "bh-77",
		Type: "Feature",
		Properties: map[string]any{
			"x": "325000", "y": "673000", "loca_fdep": "12.5",
		},
	}

	records, diags := Normalize([]bgs.Feature{f}, nil)
	if diags != (Diagnostics{}) || len(records) != 1 {
		t.Fatalf("records = %d, diags = %+v", len(records), diags)
	}
	if records[0].ID != "bh-77" {
		t.Errorf("ID = %q, want bh-77", records[0].ID)
	}
	if records[0].FinalDepthM == nil || *records[0].FinalDepthM != 12.5 {
		t.Errorf("FinalDepthM = %v, want 12.5", records[0].FinalDepthM)
	}
}
