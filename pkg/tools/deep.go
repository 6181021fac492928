package tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ukgeotools/bgsmcp/pkg/borehole"
	"github.com/ukgeotools/bgsmcp/pkg/geo"
)

// DeepBoreholesTool returns a tool definition for the depth-filtered
// proximity search.
func DeepBoreholesTool() mcp.Tool {
	return mcp.NewTool("find_deep_boreholes",
		mcp.WithDescription("Find boreholes deeper than a threshold near a location, deepest first. Useful for bedrock analysis, as deeper boreholes are more likely to reach bedrock."),
		mcp.WithNumber("latitude",
			mcp.Required(),
			mcp.Description("Latitude in decimal degrees (WGS84)"),
		),
		mcp.WithNumber("longitude",
			mcp.Required(),
			mcp.Description("Longitude in decimal degrees (WGS84)"),
		),
		mcp.WithNumber("radius_km",
			mcp.Description("Search radius in kilometers"),
			mcp.DefaultNumber(5.0),
		),
		mcp.WithNumber("min_depth_m",
			mcp.Description("Minimum final drilled depth in meters"),
			mcp.DefaultNumber(10.0),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return"),
			mcp.DefaultNumber(borehole.DefaultLocationLimit),
		),
	)
}

// deepSearchOutput is the JSON payload for deep-borehole searches.
type deepSearchOutput struct {
	DeepBoreholes []borehole.Record    `json:"deep_boreholes"`
	Count         int                  `json:"count"`
	TotalSearched int                  `json:"total_searched"`
	Diagnostics   borehole.Diagnostics `json:"diagnostics"`
	Criteria      deepSearchCriteria   `json:"criteria"`
	Note          string               `json:"note"`
}

type deepSearchCriteria struct {
	MinDepthM float64      `json:"min_depth_m"`
	RadiusKm  float64      `json:"search_radius_km"`
	Location  geo.Location `json:"location"`
}

// HandleDeepBoreholes implements the depth-filtered proximity search.
func (r *Registry) HandleDeepBoreholes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := r.logger.With("tool", "find_deep_boreholes")

	latitude := mcp.ParseFloat64(req, "latitude", 0)
	longitude := mcp.ParseFloat64(req, "longitude", 0)
	radiusKm := mcp.ParseFloat64(req, "radius_km", 5.0)
	minDepthM := mcp.ParseFloat64(req, "min_depth_m", 10.0)
	limit := int(mcp.ParseFloat64(req, "limit", borehole.DefaultLocationLimit))

	center := geo.Location{Latitude: latitude, Longitude: longitude}
	result, err := r.engine.DeepBoreholeSearch(ctx, center, radiusKm, minDepthM, limit)
	if err != nil {
		return searchErrorResponse(err), nil
	}

	output := deepSearchOutput{
		DeepBoreholes: result.Records,
		Count:         result.Count,
		TotalSearched: result.TotalSearched,
		Diagnostics:   result.Diagnostics,
		Criteria: deepSearchCriteria{
			MinDepthM: minDepthM,
			RadiusKm:  radiusKm,
			Location:  center,
		},
		Note: bedrockNote,
	}

	resultBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal result", "error", err)
		return ErrorResponse("Failed to generate result"), nil
	}
	return mcp.NewToolResultText(string(resultBytes)), nil
}
