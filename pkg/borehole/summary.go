package borehole

import (
	"math"
	"sort"
)

// DefaultBucketWidthM is the depth histogram bucket width when the caller
// does not specify one.
const DefaultBucketWidthM = 10.0

// maxDepthBuckets caps the histogram size. The bucket width is caller
// supplied, so a width far smaller than the depth range would otherwise
// blow up the payload.
const maxDepthBuckets = 100

// DepthBucket is one fixed-width histogram bin over final depths.
type DepthBucket struct {
	FromM float64 `json:"from_m"`
	ToM   float64 `json:"to_m"`
	Count int     `json:"count"`
}

// Summary holds depth statistics over a record set. Records without a
// valid depth are excluded from the statistics and reported in
// ExcludedCount.
type Summary struct {
	Count         int           `json:"count"`
	ExcludedCount int           `json:"excluded_count"`
	MinDepthM     float64       `json:"min_depth_m"`
	MaxDepthM     float64       `json:"max_depth_m"`
	MeanDepthM    float64       `json:"mean_depth_m"`
	TotalDrilledM float64       `json:"total_drilled_m"`
	DepthBuckets  []DepthBucket `json:"depth_buckets,omitempty"`
	Projects      []string      `json:"projects,omitempty"`
	WithLogURL    int           `json:"with_log_url"`

	// Empty flags a summary over zero valid depths. The statistics are
	// zeroed rather than the operation failing.
	Empty bool `json:"empty"`
}

// Summarize computes depth statistics and a fixed-width histogram over the
// record set. It never fails: an input with no valid depths yields zeroed
// statistics with the Empty flag set.
func Summarize(records []Record, bucketWidthM float64) Summary {
	if bucketWidthM <= 0 {
		bucketWidthM = DefaultBucketWidthM
	}

	depths := make([]float64, 0, len(records))
	projects := make(map[string]struct{})
	withLog := 0

	for _, rec := range records {
		if rec.FinalDepthM != nil {
			depths = append(depths, *rec.FinalDepthM)
		}
		if rec.ProjectName != "" {
			projects[rec.ProjectName] = struct{}{}
		}
		if rec.LogURL != "" {
			withLog++
		}
	}

	summary := Summary{
		Count:         len(depths),
		ExcludedCount: len(records) - len(depths),
		Projects:      sortedKeys(projects),
		WithLogURL:    withLog,
	}

	if len(depths) == 0 {
		summary.Empty = true
		return summary
	}

	minDepth, maxDepth, total := depths[0], depths[0], 0.0
	for _, d := range depths {
		if d < minDepth {
			minDepth = d
		}
		if d > maxDepth {
			maxDepth = d
		}
		total += d
	}

	summary.MinDepthM = round2(minDepth)
	summary.MaxDepthM = round2(maxDepth)
	summary.MeanDepthM = round2(total / float64(len(depths)))
	summary.TotalDrilledM = round2(total)
	summary.DepthBuckets = bucketize(depths, maxDepth, bucketWidthM)
	return summary
}

func bucketize(depths []float64, maxDepth, width float64) []DepthBucket {
	n := int(math.Floor(maxDepth/width)) + 1
	if n > maxDepthBuckets {
		// Widen the buckets so they still cover the full depth range.
		n = maxDepthBuckets
		width = maxDepth / float64(maxDepthBuckets)
	}
	buckets := make([]DepthBucket, n)
	for i := range buckets {
		buckets[i].FromM = float64(i) * width
		buckets[i].ToM = float64(i+1) * width
	}
	for _, d := range depths {
		i := int(math.Floor(d / width))
		if i >= n {
			i = n - 1 // depth exactly at the top edge
		}
		buckets[i].Count++
	}
	return buckets
}

// sortedKeys returns map keys in sorted order so summaries are
// deterministic for identical inputs.
func sortedKeys(m map[string]struct{}) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
