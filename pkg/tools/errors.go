package tools

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ukgeotools/bgsmcp/pkg/bgs"
)

// APIError represents an error that occurred while communicating with the
// BGS OGC API, with information to help users recover.
type APIError struct {
	Service     string // The API service name
	StatusCode  int    // HTTP status code, 0 when no response arrived
	Message     string // Error message
	Recoverable bool   // Whether the error can be recovered from
	Guidance    string // Guidance for users on how to recover
}

// Error implements the error interface and provides a formatted error message.
func (e *APIError) Error() string {
	if e.Guidance != "" {
		return fmt.Sprintf("%s error (%d): %s. %s", e.Service, e.StatusCode, e.Message, e.Guidance)
	}
	return fmt.Sprintf("%s error (%d): %s", e.Service, e.StatusCode, e.Message)
}

// Common error guidance messages
const (
	GuidanceOutOfCoverage = "BGS data covers UK territory only (49-61°N, 8°W-2°E). Check the coordinates, and that latitude/longitude are not swapped."
	GuidanceBNGRange      = "Easting must be roughly 0-700000 and northing 0-1300000 meters. Check for swapped or truncated grid values."
	GuidanceReduceArea    = "Try a smaller search radius or bounding box, or a lower result limit."
	GuidanceUnavailable   = "The BGS service is temporarily unavailable. Please try again in a few minutes, or run check_bgs_service_status."
	GuidanceNetworkError  = "Check your internet connection and try again."
	GuidanceDataError     = "The data received from BGS was incomplete or malformed. Try different search parameters."
	GuidanceGeneral       = "Please try again later or modify your request parameters."
)

// ErrorResponse is used for consistent error reporting.
func ErrorResponse(message string) *mcp.CallToolResult {
	return mcp.NewToolResultError(message)
}

// ErrorWithGuidance returns a properly formatted error response with user
// guidance.
func ErrorWithGuidance(err *APIError) *mcp.CallToolResult {
	errorText := fmt.Sprintf("Error: %s\n\nGuidance: %s", err.Message, err.Guidance)
	return mcp.NewToolResultError(errorText)
}

// FetchErrorResponse maps a fetch failure onto an error response that keeps
// the upstream failure category visible to the caller. It must never be
// used for an empty result set, which is a success.
func FetchErrorResponse(err error) *mcp.CallToolResult {
	var statusErr *bgs.StatusError
	if errors.As(err, &statusErr) {
		guidance := GuidanceUnavailable
		if statusErr.StatusCode == http.StatusBadRequest {
			guidance = GuidanceReduceArea
		}
		return ErrorWithGuidance(&APIError{
			Service:     "BGS OGC API",
			StatusCode:  statusErr.StatusCode,
			Message:     fmt.Sprintf("upstream service returned HTTP %d", statusErr.StatusCode),
			Recoverable: statusErr.StatusCode != http.StatusBadRequest,
			Guidance:    guidance,
		})
	}

	var decodeErr *bgs.DecodeError
	if errors.As(err, &decodeErr) {
		return ErrorWithGuidance(&APIError{
			Service:     "BGS OGC API",
			Message:     "upstream response could not be parsed",
			Recoverable: true,
			Guidance:    GuidanceDataError,
		})
	}

	var reqErr *bgs.RequestError
	if errors.As(err, &reqErr) {
		return ErrorWithGuidance(&APIError{
			Service:     "BGS OGC API",
			Message:     "failed to reach the upstream service",
			Recoverable: true,
			Guidance:    GuidanceNetworkError,
		})
	}

	return ErrorWithGuidance(&APIError{
		Service:     "BGS OGC API",
		Message:     err.Error(),
		Recoverable: true,
		Guidance:    GuidanceGeneral,
	})
}
