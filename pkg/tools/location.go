package tools

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ukgeotools/bgsmcp/pkg/borehole"
	"github.com/ukgeotools/bgsmcp/pkg/geo"
)

// BoreholesAtLocationTool returns a tool definition for point-radius
// borehole search.
func BoreholesAtLocationTool() mcp.Tool {
	return mcp.NewTool("get_boreholes_at_location",
		mcp.WithDescription("Get boreholes within a radius of a WGS84 point, nearest first"),
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
			mcp.DefaultNumber(1.0),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return"),
			mcp.DefaultNumber(borehole.DefaultLocationLimit),
		),
	)
}

// locationSearchOutput is the JSON payload for point-radius searches.
type locationSearchOutput struct {
	Boreholes    []borehole.Record    `json:"boreholes"`
	Count        int                  `json:"count"`
	Diagnostics  borehole.Diagnostics `json:"diagnostics"`
	SearchParams SearchParams         `json:"search_params"`
}

// HandleBoreholesAtLocation implements the point-radius search.
func (r *Registry) HandleBoreholesAtLocation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := r.logger.With("tool", "get_boreholes_at_location")

	latitude := mcp.ParseFloat64(req, "latitude", 0)
	longitude := mcp.ParseFloat64(req, "longitude", 0)
	radiusKm := mcp.ParseFloat64(req, "radius_km", 1.0)
	limit := int(mcp.ParseFloat64(req, "limit", borehole.DefaultLocationLimit))

	center := geo.Location{Latitude: latitude, Longitude: longitude}
	result, err := r.engine.LocationSearch(ctx, center, radiusKm, limit)
	if err != nil {
		return searchErrorResponse(err), nil
	}

	output := locationSearchOutput{
		Boreholes:   result.Records,
		Count:       result.Count,
		Diagnostics: result.Diagnostics,
		SearchParams: SearchParams{
			Latitude:  latitude,
			Longitude: longitude,
			RadiusKm:  radiusKm,
			Limit:     limit,
		},
	}

	resultBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal result", "error", err)
		return ErrorResponse("Failed to generate result"), nil
	}
	return mcp.NewToolResultText(string(resultBytes)), nil
}

// searchErrorResponse converts engine errors into tool error responses,
// keeping validation failures distinct from upstream fetch failures.
func searchErrorResponse(err error) *mcp.CallToolResult {
	if errors.Is(err, borehole.ErrOutOfCoverage) {
		return ErrorWithGuidance(&APIError{
			Service:     "Validation",
			Message:     err.Error(),
			Recoverable: true,
			Guidance:    GuidanceOutOfCoverage,
		})
	}
	if errors.Is(err, borehole.ErrInvalidQuery) {
		return ErrorWithGuidance(&APIError{
			Service:     "Validation",
			Message:     err.Error(),
			Recoverable: true,
			Guidance:    "Please correct the parameters and try again.",
		})
	}
	return FetchErrorResponse(err)
}
