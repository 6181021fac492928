// Package prompts provides prompt templates for use with the MCP server.
package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterBoreholePrompts registers all borehole-related prompts with the MCP server
func RegisterBoreholePrompts(s *server.MCPServer) {
	// Register the main borehole search prompt
	s.AddPrompt(mcp.NewPrompt("borehole_search",
		mcp.WithPromptDescription("Instructions for properly using borehole search tools"),
	), BoreholeSearchPromptHandler)

	// Register examples for coordinate handling
	s.AddPrompt(mcp.NewPrompt("coordinate_examples",
		mcp.WithPromptDescription("Examples of handling UK coordinates and grid references"),
	), CoordinateExamplesHandler)

	// Register examples for depth analysis
	s.AddPrompt(mcp.NewPrompt("depth_analysis_examples",
		mcp.WithPromptDescription("Examples of depth-filtered searches and summaries"),
	), DepthAnalysisExamplesHandler)
}

// BoreholeSearchPromptHandler returns the main prompt for borehole search tools
func BoreholeSearchPromptHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	systemPrompt := `You have access to tools for searching British Geological Survey (BGS) borehole records.
When using these tools:

1. All searches take WGS84 decimal degrees; the data covers the UK only (49-61°N, 8°W-2°E)
2. Borehole positions are stored as British National Grid easting/northing and converted for you; use convert_bng_to_wgs84 if a user supplies grid coordinates
3. An empty result set means no boreholes were recorded in the area, not a failure
4. Result sets carry a diagnostics block counting records that were skipped or fell outside UK bounds; mention it when counts look low
5. final_depth_m is total drilled depth in meters, NOT depth to bedrock; the linked log_url holds the geological stratigraphy

CHOOSING A TOOL:
- "near", "around", "close to" a point: get_boreholes_at_location
- a named region or rectangle: search_boreholes_in_area
- "deep", "bedrock", "how far down": find_deep_boreholes
- "how many", "average depth", "statistics": get_borehole_summary

ERROR HANDLING GUIDELINES:
When you receive error responses from the borehole tools:
1. Out-of-coverage errors usually mean swapped latitude/longitude or non-UK coordinates
2. Grid reference errors usually mean swapped or truncated easting/northing values
3. If the upstream service is unavailable, run check_bgs_service_status before retrying
4. For very large areas, reduce the radius or bounding box rather than raising the limit`

	return mcp.NewGetPromptResult(
		"Borehole Search Tool Usage Guidelines",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(
				mcp.RoleAssistant,
				mcp.NewTextContent(systemPrompt),
			),
		},
	), nil
}

// CoordinateExamplesHandler returns examples for coordinate handling
func CoordinateExamplesHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	examplesPrompt := `EXAMPLES OF EFFECTIVE COORDINATE HANDLING:

User: "What boreholes are near Edinburgh Castle?"
AI: *uses get_boreholes_at_location with latitude: 55.9486, longitude: -3.1999*

User: "Find boreholes at grid reference 530047, 180422"
AI: *uses convert_bng_to_wgs84 with easting: 530047, northing: 180422, then searches at the returned position*

User: "Search NT2673 for boreholes"
AI: *expands the grid letters first (NT -> 300000, 600000), giving easting: 326000, northing: 673000, then converts and searches*

ERROR CORRECTION PATTERN:
1. If a search reports coordinates outside UK coverage, check whether latitude and longitude were swapped
2. A longitude of 55.9 with a latitude of -3.2 is swapped; the UK sits near latitude 50-60
3. Grid eastings run roughly 0-700000 and northings 0-1300000; a six-figure value in one and a three-figure value in the other is usually a truncation`

	return mcp.NewGetPromptResult(
		"Coordinate Handling Examples",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(
				mcp.RoleAssistant,
				mcp.NewTextContent(examplesPrompt),
			),
		},
	), nil
}

// DepthAnalysisExamplesHandler returns examples for depth-filtered searches
func DepthAnalysisExamplesHandler(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	examplesPrompt := `EXAMPLES OF EFFECTIVE DEPTH ANALYSIS:

User: "Are there any deep boreholes near Glasgow that might reach bedrock?"
AI: *uses find_deep_boreholes with latitude: 55.8642, longitude: -4.2518, min_depth_m: 30*

User: "What's the average borehole depth in central London?"
AI: *uses get_borehole_summary with latitude: 51.5074, longitude: -0.1278, radius_km: 2*

User: "Summarize drilling activity across the Cardiff bay area"
AI: *uses get_borehole_summary with min_latitude: 51.44, min_longitude: -3.20, max_latitude: 51.48, max_longitude: -3.12*

INTERPRETATION GUIDELINES:
1. Deep results are ordered deepest first; the note in the response explains that final depth is not bedrock depth
2. Summaries include a depth histogram; quote bucket ranges rather than raw bucket indexes
3. excluded_count in a summary counts boreholes with no usable depth value; they are still real boreholes
4. Always point users at log_url for the actual geological stratigraphy`

	return mcp.NewGetPromptResult(
		"Depth Analysis Examples",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(
				mcp.RoleAssistant,
				mcp.NewTextContent(examplesPrompt),
			),
		},
	), nil
}
