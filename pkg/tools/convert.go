package tools

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ukgeotools/bgsmcp/pkg/bng"
)

// ConvertBNGTool returns a tool definition for the grid-to-WGS84 coordinate
// utility.
func ConvertBNGTool() mcp.Tool {
	return mcp.NewTool("convert_bng_to_wgs84",
		mcp.WithDescription("Convert British National Grid easting/northing to WGS84 latitude/longitude"),
		mcp.WithNumber("easting",
			mcp.Required(),
			mcp.Description("BNG easting in meters"),
		),
		mcp.WithNumber("northing",
			mcp.Required(),
			mcp.Description("BNG northing in meters"),
		),
	)
}

// conversionOutput echoes the grid input alongside the converted position.
type conversionOutput struct {
	Easting   float64 `json:"easting"`
	Northing  float64 `json:"northing"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// HandleConvertBNG implements the coordinate conversion tool.
func (r *Registry) HandleConvertBNG(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := r.logger.With("tool", "convert_bng_to_wgs84")

	easting := mcp.ParseFloat64(req, "easting", 0)
	northing := mcp.ParseFloat64(req, "northing", 0)

	loc, err := bng.ToWGS84(easting, northing)
	if err != nil {
		if errors.Is(err, bng.ErrInvalidCoordinate) {
			return ErrorWithGuidance(&APIError{
				Service:     "Validation",
				Message:     err.Error(),
				Recoverable: true,
				Guidance:    GuidanceBNGRange,
			}), nil
		}
		return ErrorResponse(err.Error()), nil
	}

	output := conversionOutput{
		Easting:   easting,
		Northing:  northing,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
	}

	resultBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal result", "error", err)
		return ErrorResponse("Failed to generate result"), nil
	}
	return mcp.NewToolResultText(string(resultBytes)), nil
}
