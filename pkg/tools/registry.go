// Package tools provides the BGS borehole MCP tool implementations.
package tools

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ukgeotools/bgsmcp/pkg/bgs"
	"github.com/ukgeotools/bgsmcp/pkg/borehole"
)

// StatusProber checks upstream availability. Implemented by bgs.Client.
type StatusProber interface {
	CollectionStatus(ctx context.Context) (*bgs.Status, error)
}

// Registry holds the MCP tool registrations for the borehole service and
// the collaborators the handlers need. All dependencies are injected; no
// handler reaches for global state.
type Registry struct {
	logger *slog.Logger
	engine *borehole.Engine
	prober StatusProber
}

// NewRegistry creates a new MCP tool registry.
func NewRegistry(logger *slog.Logger, engine *borehole.Engine, prober StatusProber) *Registry {
	return &Registry{
		logger: logger,
		engine: engine,
		prober: prober,
	}
}

// ToolDefinition represents a borehole MCP tool definition.
type ToolDefinition struct {
	Name        string
	Description string
	Tool        mcp.Tool
	Handler     func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// GetToolDefinitions returns all borehole MCP tool definitions.
func (r *Registry) GetToolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		{
			Name:        "check_bgs_service_status",
			Description: "Check whether the BGS OGC API service is available and responding",
			Tool:        CheckServiceStatusTool(),
			Handler:     r.HandleCheckServiceStatus,
		},
		{
			Name:        "get_boreholes_at_location",
			Description: "Get boreholes within a radius of a WGS84 point, nearest first",
			Tool:        BoreholesAtLocationTool(),
			Handler:     r.HandleBoreholesAtLocation,
		},
		{
			Name:        "search_boreholes_in_area",
			Description: "Search for boreholes within a bounding box area",
			Tool:        BoreholesInAreaTool(),
			Handler:     r.HandleBoreholesInArea,
		},
		{
			Name:        "find_deep_boreholes",
			Description: "Find boreholes deeper than a threshold near a location, deepest first",
			Tool:        DeepBoreholesTool(),
			Handler:     r.HandleDeepBoreholes,
		},
		{
			Name:        "get_borehole_summary",
			Description: "Compute depth statistics for boreholes in an area or around a point",
			Tool:        BoreholeSummaryTool(),
			Handler:     r.HandleBoreholeSummary,
		},
		{
			Name:        "convert_bng_to_wgs84",
			Description: "Convert British National Grid easting/northing to WGS84 latitude/longitude",
			Tool:        ConvertBNGTool(),
			Handler:     r.HandleConvertBNG,
		},
	}
}

// RegisterTools registers all tools with the MCP server.
func (r *Registry) RegisterTools(mcpServer *server.MCPServer) {
	for _, def := range r.GetToolDefinitions() {
		r.logger.Info("registering tool", "name", def.Name)
		mcpServer.AddTool(def.Tool, def.Handler)
	}
}
