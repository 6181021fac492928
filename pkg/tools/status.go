package tools

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

// CheckServiceStatusTool returns a tool definition for the upstream status
// probe.
func CheckServiceStatusTool() mcp.Tool {
	return mcp.NewTool("check_bgs_service_status",
		mcp.WithDescription("Check whether the BGS OGC API service is available and responding"),
	)
}

// HandleCheckServiceStatus passes the probe result through to the caller.
// An unreachable upstream is a meaningful answer here, not a tool failure,
// so it is reported as a normal payload.
func (r *Registry) HandleCheckServiceStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := r.logger.With("tool", "check_bgs_service_status")

	status, err := r.prober.CollectionStatus(ctx)
	if err != nil {
		logger.Warn("status probe failed", "error", err)
		out := map[string]any{
			"healthy": false,
			"error":   err.Error(),
		}
		resultBytes, merr := json.Marshal(out)
		if merr != nil {
			return ErrorResponse("Failed to generate result"), nil
		}
		return mcp.NewToolResultText(string(resultBytes)), nil
	}

	resultBytes, err := json.Marshal(status)
	if err != nil {
		logger.Error("failed to marshal result", "error", err)
		return ErrorResponse("Failed to generate result"), nil
	}
	return mcp.NewToolResultText(string(resultBytes)), nil
}
