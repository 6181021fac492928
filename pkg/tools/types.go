package tools

// bedrockNote is attached to deep-borehole results. Final drilled depth is
// not the depth to bedrock; only the linked stratigraphy log can confirm
// what a hole reached.
const bedrockNote = "These boreholes may have reached bedrock. Check log_url for detailed geological stratigraphy; final depth is total drilled depth, not bedrock depth."

// SearchParams echoes the point-radius query back to the caller.
type SearchParams struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	RadiusKm  float64 `json:"radius_km"`
	Limit     int     `json:"limit,omitempty"`
}

// AreaParams echoes the bounding-box query back to the caller.
type AreaParams struct {
	MinLatitude  float64 `json:"min_latitude"`
	MinLongitude float64 `json:"min_longitude"`
	MaxLatitude  float64 `json:"max_latitude"`
	MaxLongitude float64 `json:"max_longitude"`
	Limit        int     `json:"limit,omitempty"`
}
