package tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ukgeotools/bgsmcp/pkg/borehole"
	"github.com/ukgeotools/bgsmcp/pkg/geo"
)

// BoreholesInAreaTool returns a tool definition for bounding-box borehole
// search.
func BoreholesInAreaTool() mcp.Tool {
	return mcp.NewTool("search_boreholes_in_area",
		mcp.WithDescription("Search for boreholes within a bounding box area"),
		mcp.WithNumber("min_latitude",
			mcp.Required(),
			mcp.Description("Southern boundary in decimal degrees"),
		),
		mcp.WithNumber("min_longitude",
			mcp.Required(),
			mcp.Description("Western boundary in decimal degrees"),
		),
		mcp.WithNumber("max_latitude",
			mcp.Required(),
			mcp.Description("Northern boundary in decimal degrees"),
		),
		mcp.WithNumber("max_longitude",
			mcp.Required(),
			mcp.Description("Eastern boundary in decimal degrees"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return"),
			mcp.DefaultNumber(borehole.DefaultAreaLimit),
		),
	)
}

// areaSearchOutput is the JSON payload for bounding-box searches.
type areaSearchOutput struct {
	Boreholes   []borehole.Record    `json:"boreholes"`
	Count       int                  `json:"count"`
	Diagnostics borehole.Diagnostics `json:"diagnostics"`
	SearchArea  AreaParams           `json:"search_area"`
}

// HandleBoreholesInArea implements the bounding-box search.
func (r *Registry) HandleBoreholesInArea(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := r.logger.With("tool", "search_boreholes_in_area")

	bbox := geo.BoundingBox{
		MinLat: mcp.ParseFloat64(req, "min_latitude", 0),
		MinLon: mcp.ParseFloat64(req, "min_longitude", 0),
		MaxLat: mcp.ParseFloat64(req, "max_latitude", 0),
		MaxLon: mcp.ParseFloat64(req, "max_longitude", 0),
	}
	limit := int(mcp.ParseFloat64(req, "limit", borehole.DefaultAreaLimit))

	result, err := r.engine.BoundingBoxSearch(ctx, bbox, limit)
	if err != nil {
		return searchErrorResponse(err), nil
	}

	output := areaSearchOutput{
		Boreholes:   result.Records,
		Count:       result.Count,
		Diagnostics: result.Diagnostics,
		SearchArea: AreaParams{
			MinLatitude:  bbox.MinLat,
			MinLongitude: bbox.MinLon,
			MaxLatitude:  bbox.MaxLat,
			MaxLongitude: bbox.MaxLon,
			Limit:        limit,
		},
	}

	resultBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal result", "error", err)
		return ErrorResponse("Failed to generate result"), nil
	}
	return mcp.NewToolResultText(string(resultBytes)), nil
}
