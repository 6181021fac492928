package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ukgeotools/bgsmcp/pkg/bgs"
	"github.com/ukgeotools/bgsmcp/pkg/borehole"
	"github.com/ukgeotools/bgsmcp/pkg/geo"
	"github.com/ukgeotools/bgsmcp/pkg/testutil"
)

type stubFetcher struct {
	features []bgs.Feature
	err      error
}

func (s *stubFetcher) FetchFeatures(ctx context.Context, bbox geo.BoundingBox, limit int) ([]bgs.Feature, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.features, nil
}

type stubProber struct {
	status *bgs.Status
	err    error
}

func (s *stubProber) CollectionStatus(ctx context.Context) (*bgs.Status, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.status, nil
}

// Two boreholes near Edinburgh city centre. The first sits at the search
// center, the second roughly 1.4 km northeast of it.
func edinburghFeatures() []bgs.Feature {
	return []bgs.Feature{
		{
			ID:   "f1",
			Type: "Feature",
			Properties: map[string]any{
				"loca_id":     "BH-A",
				"x":           325000.0,
				"y":           673000.0,
				"loca_fdep":   15.2,
				"ags_log_url": "https://example.org/logs/a",
				"proj_name":   "Tram Extension",
			},
		},
		{
			ID:   "f2",
			Type: "Feature",
			Properties: map[string]any{
				"loca_id":   "BH-B",
				"x":         326000.0,
				"y":         674000.0,
				"loca_fdep": 42.0,
				"proj_name": "Tram Extension",
			},
		},
	}
}

func newTestRegistry(t *testing.T, fetcher *stubFetcher, prober *stubProber) *Registry {
	t.Helper()
	logger := testutil.DiscardLogger()
	engine := borehole.NewEngine(fetcher, logger)
	return NewRegistry(logger, engine, prober)
}

func newToolRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

// resultText extracts the text payload from a tool result.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("expected a tool result, got nil")
	}
	for _, content := range result.Content {
		if text, ok := content.(mcp.TextContent); ok {
			return text.Text
		}
	}
	t.Fatal("tool result has no text content")
	return ""
}

func decodeResult(t *testing.T, result *mcp.CallToolResult, out any) {
	t.Helper()
	text := resultText(t, result)
	if err := json.Unmarshal([]byte(text), out); err != nil {
		t.Fatalf("failed to decode tool result %q: %v", text, err)
	}
}

func TestHandleCheckServiceStatus(t *testing.T) {
	t.Run("healthy upstream", func(t *testing.T) {
		prober := &stubProber{status: &bgs.Status{
			Healthy:   true,
			Title:     "AGS Borehole Index",
			LatencyMS: 42,
		}}
		r := newTestRegistry(t, &stubFetcher{}, prober)

		result, err := r.HandleCheckServiceStatus(context.Background(), newToolRequest("check_bgs_service_status", nil))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var out bgs.Status
		decodeResult(t, result, &out)
		if !out.Healthy {
			t.Error("expected healthy status")
		}
		if out.Title != "AGS Borehole Index" {
			t.Errorf("title = %q, want %q", out.Title, "AGS Borehole Index")
		}
	})

	t.Run("unreachable upstream is a payload, not a tool error", func(t *testing.T) {
		prober := &stubProber{err: &bgs.RequestError{URL: "https://example.org", Err: errors.New("connection refused")}}
		r := newTestRegistry(t, &stubFetcher{}, prober)

		result, err := r.HandleCheckServiceStatus(context.Background(), newToolRequest("check_bgs_service_status", nil))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Error("probe failure should not be reported as a tool error")
		}

		var out map[string]any
		decodeResult(t, result, &out)
		if healthy, ok := out["healthy"].(bool); !ok || healthy {
			t.Errorf("healthy = %v, want false", out["healthy"])
		}
		if _, ok := out["error"]; !ok {
			t.Error("expected an error field in the payload")
		}
	})
}

func TestHandleBoreholesAtLocation(t *testing.T) {
	t.Run("orders by distance", func(t *testing.T) {
		r := newTestRegistry(t, &stubFetcher{features: edinburghFeatures()}, &stubProber{})

		req := newToolRequest("get_boreholes_at_location", map[string]any{
			"latitude":  55.9441670,
			"longitude": -3.2023862,
			"radius_km": 5.0,
		})
		result, err := r.HandleBoreholesAtLocation(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %s", resultText(t, result))
		}

		var out locationSearchOutput
		decodeResult(t, result, &out)
		if out.Count != 2 {
			t.Fatalf("count = %d, want 2", out.Count)
		}
		if out.Boreholes[0].ID != "BH-A" || out.Boreholes[1].ID != "BH-B" {
			t.Errorf("order = %s, %s; want BH-A, BH-B", out.Boreholes[0].ID, out.Boreholes[1].ID)
		}
		if d := out.Boreholes[1].DistanceKm; d == nil || math.Abs(*d-1.41) > 0.1 {
			t.Errorf("BH-B distance = %v, want ~1.41 km", d)
		}
		if out.SearchParams.RadiusKm != 5.0 {
			t.Errorf("echoed radius = %f, want 5.0", out.SearchParams.RadiusKm)
		}
	})

	t.Run("rejects coordinates outside coverage", func(t *testing.T) {
		r := newTestRegistry(t, &stubFetcher{features: edinburghFeatures()}, &stubProber{})

		req := newToolRequest("get_boreholes_at_location", map[string]any{
			"latitude":  48.8566,
			"longitude": 2.3522,
		})
		result, err := r.HandleBoreholesAtLocation(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Fatal("expected a tool error for out-of-coverage coordinates")
		}
		if text := resultText(t, result); !strings.Contains(text, "UK") {
			t.Errorf("error text should mention UK coverage, got %q", text)
		}
	})

	t.Run("upstream failure maps to guidance", func(t *testing.T) {
		fetchErr := &bgs.StatusError{StatusCode: 503, URL: "https://example.org"}
		r := newTestRegistry(t, &stubFetcher{err: fetchErr}, &stubProber{})

		req := newToolRequest("get_boreholes_at_location", map[string]any{
			"latitude":  55.9441670,
			"longitude": -3.2023862,
		})
		result, err := r.HandleBoreholesAtLocation(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Fatal("expected a tool error for upstream failure")
		}
		if text := resultText(t, result); !strings.Contains(text, "unavailable") {
			t.Errorf("error text should carry service guidance, got %q", text)
		}
	})
}

func TestHandleBoreholesInArea(t *testing.T) {
	t.Run("returns boreholes inside the box", func(t *testing.T) {
		r := newTestRegistry(t, &stubFetcher{features: edinburghFeatures()}, &stubProber{})

		req := newToolRequest("search_boreholes_in_area", map[string]any{
			"min_latitude":  55.9,
			"min_longitude": -3.3,
			"max_latitude":  56.0,
			"max_longitude": -3.1,
		})
		result, err := r.HandleBoreholesInArea(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %s", resultText(t, result))
		}

		var out areaSearchOutput
		decodeResult(t, result, &out)
		if out.Count != 2 {
			t.Errorf("count = %d, want 2", out.Count)
		}
		for _, rec := range out.Boreholes {
			if rec.DistanceKm != nil {
				t.Errorf("area search record %s should carry no distance", rec.ID)
			}
		}
		if out.SearchArea.MinLatitude != 55.9 {
			t.Errorf("echoed min latitude = %f, want 55.9", out.SearchArea.MinLatitude)
		}
	})

	t.Run("rejects inverted box", func(t *testing.T) {
		r := newTestRegistry(t, &stubFetcher{features: edinburghFeatures()}, &stubProber{})

		req := newToolRequest("search_boreholes_in_area", map[string]any{
			"min_latitude":  56.0,
			"min_longitude": -3.1,
			"max_latitude":  55.9,
			"max_longitude": -3.3,
		})
		result, err := r.HandleBoreholesInArea(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Fatal("expected a tool error for an inverted bounding box")
		}
	})
}

func TestHandleDeepBoreholes(t *testing.T) {
	r := newTestRegistry(t, &stubFetcher{features: edinburghFeatures()}, &stubProber{})

	req := newToolRequest("find_deep_boreholes", map[string]any{
		"latitude":    55.9441670,
		"longitude":   -3.2023862,
		"radius_km":   5.0,
		"min_depth_m": 20.0,
	})
	result, err := r.HandleDeepBoreholes(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}

	var out deepSearchOutput
	decodeResult(t, result, &out)
	if out.Count != 1 {
		t.Fatalf("count = %d, want 1", out.Count)
	}
	if out.DeepBoreholes[0].ID != "BH-B" {
		t.Errorf("deep result = %s, want BH-B", out.DeepBoreholes[0].ID)
	}
	if out.TotalSearched != 2 {
		t.Errorf("total_searched = %d, want 2", out.TotalSearched)
	}
	if out.Criteria.MinDepthM != 20.0 {
		t.Errorf("echoed min depth = %f, want 20.0", out.Criteria.MinDepthM)
	}
	if !strings.Contains(out.Note, "bedrock") {
		t.Errorf("note should carry the bedrock caveat, got %q", out.Note)
	}
}

func TestHandleBoreholeSummary(t *testing.T) {
	t.Run("location mode", func(t *testing.T) {
		r := newTestRegistry(t, &stubFetcher{features: edinburghFeatures()}, &stubProber{})

		req := newToolRequest("get_borehole_summary", map[string]any{
			"latitude":  55.9441670,
			"longitude": -3.2023862,
			"radius_km": 5.0,
		})
		result, err := r.HandleBoreholeSummary(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %s", resultText(t, result))
		}

		var out summaryOutput
		decodeResult(t, result, &out)
		if out.SearchMode != "location" {
			t.Errorf("search_mode = %q, want location", out.SearchMode)
		}
		if out.Summary.Count != 2 {
			t.Errorf("summary count = %d, want 2", out.Summary.Count)
		}
		if out.Summary.MaxDepthM != 42.0 {
			t.Errorf("max depth = %f, want 42.0", out.Summary.MaxDepthM)
		}
		if out.Summary.TotalDrilledM != 57.2 {
			t.Errorf("total drilled = %f, want 57.2", out.Summary.TotalDrilledM)
		}
		if out.SearchPoint == nil || out.SearchPoint.RadiusKm != 5.0 {
			t.Errorf("search_params not echoed: %+v", out.SearchPoint)
		}
	})

	t.Run("area mode counts every fetched record", func(t *testing.T) {
		// More in-box boreholes than any shaped search result would carry;
		// the statistics must not be computed over a truncated subset.
		const total = borehole.MaxResultLimit + 100
		features := make([]bgs.Feature, 0, total)
		for i := 0; i < total; i++ {
			features = append(features, bgs.Feature{
				ID:   fmt.Sprintf("f%d", i),
				Type: "Feature",
				Properties: map[string]any{
					"loca_id":   fmt.Sprintf("BH-%03d", i),
					"x":         325000.0 + float64(i)*3,
					"y":         673000.0,
					"loca_fdep": float64(i%40 + 1),
				},
			})
		}
		r := newTestRegistry(t, &stubFetcher{features: features}, &stubProber{})

		req := newToolRequest("get_borehole_summary", map[string]any{
			"min_latitude":  55.9,
			"min_longitude": -3.3,
			"max_latitude":  56.0,
			"max_longitude": -3.1,
		})
		result, err := r.HandleBoreholeSummary(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %s", resultText(t, result))
		}

		var out summaryOutput
		decodeResult(t, result, &out)
		if out.Summary.Count != total {
			t.Errorf("summary count = %d, want %d", out.Summary.Count, total)
		}
	})

	t.Run("area mode", func(t *testing.T) {
		r := newTestRegistry(t, &stubFetcher{features: edinburghFeatures()}, &stubProber{})

		req := newToolRequest("get_borehole_summary", map[string]any{
			"min_latitude":  55.9,
			"min_longitude": -3.3,
			"max_latitude":  56.0,
			"max_longitude": -3.1,
		})
		result, err := r.HandleBoreholeSummary(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %s", resultText(t, result))
		}

		var out summaryOutput
		decodeResult(t, result, &out)
		if out.SearchMode != "area" {
			t.Errorf("search_mode = %q, want area", out.SearchMode)
		}
		if out.SearchArea == nil || out.SearchArea.MaxLongitude != -3.1 {
			t.Errorf("search_area not echoed: %+v", out.SearchArea)
		}
		if len(out.Summary.Projects) != 1 || out.Summary.Projects[0] != "Tram Extension" {
			t.Errorf("projects = %v, want [Tram Extension]", out.Summary.Projects)
		}
	})
}

func TestHandleConvertBNG(t *testing.T) {
	r := newTestRegistry(t, &stubFetcher{}, &stubProber{})

	t.Run("valid grid reference", func(t *testing.T) {
		req := newToolRequest("convert_bng_to_wgs84", map[string]any{
			"easting":  530047.0,
			"northing": 180422.0,
		})
		result, err := r.HandleConvertBNG(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %s", resultText(t, result))
		}

		var out conversionOutput
		decodeResult(t, result, &out)
		if out.Easting != 530047.0 || out.Northing != 180422.0 {
			t.Errorf("input not echoed: %+v", out)
		}
		if math.Abs(out.Latitude-51.5077724) > 2e-5 {
			t.Errorf("latitude = %f, want ~51.5077724", out.Latitude)
		}
		if math.Abs(out.Longitude-(-0.1275217)) > 2e-5 {
			t.Errorf("longitude = %f, want ~-0.1275217", out.Longitude)
		}
	})

	t.Run("out-of-range grid reference", func(t *testing.T) {
		req := newToolRequest("convert_bng_to_wgs84", map[string]any{
			"easting":  -9999999.0,
			"northing": 0.0,
		})
		result, err := r.HandleConvertBNG(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Fatal("expected a tool error for an out-of-range grid reference")
		}
		if text := resultText(t, result); !strings.Contains(text, "northing") {
			t.Errorf("error text should explain the valid ranges, got %q", text)
		}
	})
}
