package tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ukgeotools/bgsmcp/pkg/borehole"
	"github.com/ukgeotools/bgsmcp/pkg/geo"
)

// BoreholeSummaryTool returns a tool definition for depth statistics over a
// search area. The tool runs in one of two modes: pass latitude, longitude
// and radius_km for a point-radius summary, or the four bounding-box corners
// for an area summary.
func BoreholeSummaryTool() mcp.Tool {
	return mcp.NewTool("get_borehole_summary",
		mcp.WithDescription("Summarize borehole depth statistics for an area. Provide latitude, longitude and radius_km for a point search, or min/max latitude and longitude for a bounding box."),
		mcp.WithNumber("latitude",
			mcp.Description("Center latitude for a point-radius summary"),
		),
		mcp.WithNumber("longitude",
			mcp.Description("Center longitude for a point-radius summary"),
		),
		mcp.WithNumber("radius_km",
			mcp.Description("Search radius in kilometers; set to enable point-radius mode"),
		),
		mcp.WithNumber("min_latitude",
			mcp.Description("Southern boundary for a bounding-box summary"),
		),
		mcp.WithNumber("min_longitude",
			mcp.Description("Western boundary for a bounding-box summary"),
		),
		mcp.WithNumber("max_latitude",
			mcp.Description("Northern boundary for a bounding-box summary"),
		),
		mcp.WithNumber("max_longitude",
			mcp.Description("Eastern boundary for a bounding-box summary"),
		),
		mcp.WithNumber("bucket_width_m",
			mcp.Description("Depth histogram bucket width in meters"),
			mcp.DefaultNumber(borehole.DefaultBucketWidthM),
		),
	)
}

// summaryOutput is the JSON payload for borehole summaries.
type summaryOutput struct {
	Summary     borehole.Summary     `json:"summary"`
	Diagnostics borehole.Diagnostics `json:"diagnostics"`
	SearchMode  string               `json:"search_mode"`
	SearchArea  *AreaParams          `json:"search_area,omitempty"`
	SearchPoint *SearchParams        `json:"search_params,omitempty"`
}

// HandleBoreholeSummary runs a point-radius or bounding-box search and
// reduces the results to depth statistics.
func (r *Registry) HandleBoreholeSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := r.logger.With("tool", "get_borehole_summary")

	radiusKm := mcp.ParseFloat64(req, "radius_km", 0)
	bucketWidthM := mcp.ParseFloat64(req, "bucket_width_m", borehole.DefaultBucketWidthM)

	var (
		summary borehole.Summary
		diags   borehole.Diagnostics
		err     error
		output  summaryOutput
	)

	if radiusKm > 0 {
		center := geo.Location{
			Latitude:  mcp.ParseFloat64(req, "latitude", 0),
			Longitude: mcp.ParseFloat64(req, "longitude", 0),
		}
		summary, diags, err = r.engine.SummarizeLocation(ctx, center, radiusKm, bucketWidthM)
		output.SearchMode = "location"
		output.SearchPoint = &SearchParams{
			Latitude:  center.Latitude,
			Longitude: center.Longitude,
			RadiusKm:  radiusKm,
		}
	} else {
		bbox := geo.BoundingBox{
			MinLat: mcp.ParseFloat64(req, "min_latitude", 0),
			MinLon: mcp.ParseFloat64(req, "min_longitude", 0),
			MaxLat: mcp.ParseFloat64(req, "max_latitude", 0),
			MaxLon: mcp.ParseFloat64(req, "max_longitude", 0),
		}
		summary, diags, err = r.engine.SummarizeArea(ctx, bbox, bucketWidthM)
		output.SearchMode = "area"
		output.SearchArea = &AreaParams{
			MinLatitude:  bbox.MinLat,
			MinLongitude: bbox.MinLon,
			MaxLatitude:  bbox.MaxLat,
			MaxLongitude: bbox.MaxLon,
		}
	}
	if err != nil {
		return searchErrorResponse(err), nil
	}

	output.Summary = summary
	output.Diagnostics = diags

	resultBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal result", "error", err)
		return ErrorResponse("Failed to generate result"), nil
	}
	return mcp.NewToolResultText(string(resultBytes)), nil
}
