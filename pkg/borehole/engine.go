package borehole

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/ukgeotools/bgsmcp/pkg/bgs"
	"github.com/ukgeotools/bgsmcp/pkg/geo"
)

// Fetcher supplies raw candidate features for a bounding box. Implemented
// by bgs.Client; test code substitutes stubs. The engine imposes no retry
// policy of its own.
type Fetcher interface {
	FetchFeatures(ctx context.Context, bbox geo.BoundingBox, limit int) ([]bgs.Feature, error)
}

// ErrOutOfCoverage is returned when a query point or area falls outside the
// UK coverage envelope. The query is rejected before any upstream call.
var ErrOutOfCoverage = fmt.Errorf("coordinates outside UK coverage bounds (%.0f-%.0f°N, %.0f-%.0f°E)",
	geo.UKBounds.MinLat, geo.UKBounds.MaxLat, geo.UKBounds.MinLon, geo.UKBounds.MaxLon)

// ErrInvalidQuery is wrapped by malformed-parameter rejections.
var ErrInvalidQuery = errors.New("invalid query")

const (
	// DefaultLocationLimit caps point-radius results when the caller does
	// not specify a limit.
	DefaultLocationLimit = 50

	// DefaultAreaLimit caps bounding-box results.
	DefaultAreaLimit = 100

	// MaxResultLimit is the hard cap on any single response.
	MaxResultLimit = 200

	// Upstream candidate fetch sizes, following the source API's
	// per-request limits for point and area queries.
	pointFetchLimit = 100
	areaFetchLimit  = 1000
)

// Engine executes borehole queries over records fetched per call. It holds
// no state between queries beyond its injected collaborator, so it is safe
// for concurrent use.
type Engine struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// NewEngine creates a query engine backed by the given fetcher.
func NewEngine(fetcher Fetcher, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{fetcher: fetcher, logger: logger}
}

// SearchResult is the shaped output of a search operation.
type SearchResult struct {
	Records []Record `json:"boreholes"`
	Count   int      `json:"count"`

	// TotalSearched is the number of candidates examined before
	// filtering, set by depth-filtered searches.
	TotalSearched int `json:"total_searched,omitempty"`

	Diagnostics Diagnostics `json:"diagnostics"`
}

// LocationSearch finds boreholes within radiusKm of center, ordered by
// ascending distance. Ties preserve upstream arrival order so identical
// upstream responses produce identical results.
func (e *Engine) LocationSearch(ctx context.Context, center geo.Location, radiusKm float64, limit int) (*SearchResult, error) {
	if !geo.IsWithinUKBounds(center) {
		return nil, ErrOutOfCoverage
	}
	if radiusKm <= 0 {
		return nil, fmt.Errorf("%w: radius must be greater than 0, got %f", ErrInvalidQuery, radiusKm)
	}
	limit = clampLimit(limit, DefaultLocationLimit)

	records, diags, err := e.fetchAndNormalize(ctx, geo.FromCenter(center, radiusKm), pointFetchLimit, &center)
	if err != nil {
		return nil, err
	}

	matches := make([]Record, 0, len(records))
	for _, rec := range records {
		if rec.DistanceKm != nil && *rec.DistanceKm <= radiusKm {
			matches = append(matches, rec)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return *matches[i].DistanceKm < *matches[j].DistanceKm
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	e.logger.Debug("location search complete",
		"radius_km", radiusKm,
		"matches", len(matches),
		"skipped", diags.Skipped,
		"out_of_bounds", diags.OutOfBounds)

	return &SearchResult{Records: matches, Count: len(matches), Diagnostics: diags}, nil
}

// BoundingBoxSearch finds boreholes inside the box. Results carry no
// distance because there is no reference point.
func (e *Engine) BoundingBoxSearch(ctx context.Context, bbox geo.BoundingBox, limit int) (*SearchResult, error) {
	if !bbox.Valid() {
		return nil, fmt.Errorf("%w: malformed bounding box %s", ErrInvalidQuery, bbox)
	}
	if !bbox.Overlaps(geo.UKBounds) {
		return nil, ErrOutOfCoverage
	}
	limit = clampLimit(limit, DefaultAreaLimit)

	records, diags, err := e.fetchAndNormalize(ctx, bbox, areaFetchLimit, nil)
	if err != nil {
		return nil, err
	}

	matches := make([]Record, 0, len(records))
	for _, rec := range records {
		if bbox.Contains(rec.Location.Latitude, rec.Location.Longitude) {
			matches = append(matches, rec)
		}
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}

	return &SearchResult{Records: matches, Count: len(matches), Diagnostics: diags}, nil
}

// DeepBoreholeSearch finds boreholes within radiusKm of center whose final
// depth is at least minDepthM, ordered by descending depth. Deeper holes
// are more likely to have reached bedrock, though final depth itself is not
// bedrock depth.
func (e *Engine) DeepBoreholeSearch(ctx context.Context, center geo.Location, radiusKm, minDepthM float64, limit int) (*SearchResult, error) {
	if !geo.IsWithinUKBounds(center) {
		return nil, ErrOutOfCoverage
	}
	if radiusKm <= 0 {
		return nil, fmt.Errorf("%w: radius must be greater than 0, got %f", ErrInvalidQuery, radiusKm)
	}
	if minDepthM < 0 {
		return nil, fmt.Errorf("%w: minimum depth must not be negative, got %f", ErrInvalidQuery, minDepthM)
	}
	limit = clampLimit(limit, DefaultLocationLimit)

	records, diags, err := e.fetchAndNormalize(ctx, geo.FromCenter(center, radiusKm), pointFetchLimit, &center)
	if err != nil {
		return nil, err
	}

	matches := make([]Record, 0, len(records))
	for _, rec := range records {
		if rec.DistanceKm == nil || *rec.DistanceKm > radiusKm {
			continue
		}
		if rec.FinalDepthM != nil && *rec.FinalDepthM >= minDepthM {
			matches = append(matches, rec)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return *matches[i].FinalDepthM > *matches[j].FinalDepthM
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	return &SearchResult{
		Records:       matches,
		Count:         len(matches),
		TotalSearched: len(records),
		Diagnostics:   diags,
	}, nil
}

// SummarizeLocation computes depth statistics over every borehole within
// radiusKm of center. Unlike LocationSearch the record set is never capped,
// so the statistics cover the full filtered set.
func (e *Engine) SummarizeLocation(ctx context.Context, center geo.Location, radiusKm, bucketWidthM float64) (Summary, Diagnostics, error) {
	if !geo.IsWithinUKBounds(center) {
		return Summary{}, Diagnostics{}, ErrOutOfCoverage
	}
	if radiusKm <= 0 {
		return Summary{}, Diagnostics{}, fmt.Errorf("%w: radius must be greater than 0, got %f", ErrInvalidQuery, radiusKm)
	}

	records, diags, err := e.fetchAndNormalize(ctx, geo.FromCenter(center, radiusKm), pointFetchLimit, &center)
	if err != nil {
		return Summary{}, Diagnostics{}, err
	}

	matches := make([]Record, 0, len(records))
	for _, rec := range records {
		if rec.DistanceKm != nil && *rec.DistanceKm <= radiusKm {
			matches = append(matches, rec)
		}
	}
	return Summarize(matches, bucketWidthM), diags, nil
}

// SummarizeArea computes depth statistics over every borehole inside the
// box, with the same uncapped semantics as SummarizeLocation.
func (e *Engine) SummarizeArea(ctx context.Context, bbox geo.BoundingBox, bucketWidthM float64) (Summary, Diagnostics, error) {
	if !bbox.Valid() {
		return Summary{}, Diagnostics{}, fmt.Errorf("%w: malformed bounding box %s", ErrInvalidQuery, bbox)
	}
	if !bbox.Overlaps(geo.UKBounds) {
		return Summary{}, Diagnostics{}, ErrOutOfCoverage
	}

	records, diags, err := e.fetchAndNormalize(ctx, bbox, areaFetchLimit, nil)
	if err != nil {
		return Summary{}, Diagnostics{}, err
	}

	matches := make([]Record, 0, len(records))
	for _, rec := range records {
		if bbox.Contains(rec.Location.Latitude, rec.Location.Longitude) {
			matches = append(matches, rec)
		}
	}
	return Summarize(matches, bucketWidthM), diags, nil
}

func (e *Engine) fetchAndNormalize(ctx context.Context, bbox geo.BoundingBox, fetchLimit int, ref *geo.Location) ([]Record, Diagnostics, error) {
	features, err := e.fetcher.FetchFeatures(ctx, bbox, fetchLimit)
	if err != nil {
		// Upstream failures surface as-is; they must stay distinct from
		// an empty result set.
		return nil, Diagnostics{}, err
	}
	records, diags := Normalize(features, ref)
	return records, diags, nil
}

func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > MaxResultLimit {
		return MaxResultLimit
	}
	return limit
}
