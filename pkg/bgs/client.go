// Package bgs provides the client for the British Geological Survey
// OGC API Features service that serves the AGS borehole index.
package bgs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/ukgeotools/bgsmcp/pkg/geo"
)

const (
	// DefaultBaseURL is the public BGS OGC API endpoint.
	DefaultBaseURL = "https://ogcapi.bgs.ac.uk"

	// DefaultCollection is the AGS borehole index collection.
	DefaultCollection = "agsboreholeindex"

	// DefaultUserAgent identifies this client to the BGS service.
	DefaultUserAgent = "bgsmcp/0.1.0"
)

// Config holds the client settings. Zero values fall back to defaults.
type Config struct {
	BaseURL    string
	Collection string
	UserAgent  string

	// RateLimit is the sustained request rate in requests per second.
	// Burst is the rate limiter burst size.
	RateLimit float64
	Burst     int

	Logger *slog.Logger
}

// Client is an injected collaborator: it fetches raw borehole features for
// a bounding box and probes service availability. It holds no query state,
// so a single instance is safe for concurrent use.
type Client struct {
	baseURL    string
	collection string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a BGS OGC API client with pooled connections and
// request rate limiting.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 2
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 2
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		collection: cfg.Collection,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
		logger:  cfg.Logger,
	}
}

// Feature is a single raw GeoJSON feature from the borehole index. The
// attribute mapping is kept loose here; typed extraction happens during
// normalization.
type Feature struct {
	ID         any            `json:"id,omitempty"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
}

// featureCollection is the upstream response envelope.
type featureCollection struct {
	Type           string    `json:"type"`
	Features       []Feature `json:"features"`
	NumberReturned int       `json:"numberReturned"`
}

// Status describes the upstream collection metadata returned by the
// service status probe.
type Status struct {
	Healthy     bool   `json:"healthy"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	LatencyMS   int64  `json:"latency_ms"`
}

// FetchFeatures retrieves raw borehole features intersecting the bounding
// box, up to limit. An empty feature list is a successful result, never an
// error; fetch failures are reported as typed errors so callers can
// distinguish them from zero records found.
func (c *Client) FetchFeatures(ctx context.Context, bbox geo.BoundingBox, limit int) ([]Feature, error) {
	reqURL := fmt.Sprintf("%s/collections/%s/items", c.baseURL, c.collection)

	q := url.Values{}
	q.Set("bbox", bbox.String())
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("f", "json")
	reqURL = reqURL + "?" + q.Encode()

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	var fc featureCollection
	if err := json.Unmarshal(body, &fc); err != nil {
		observeRequest(outcomeMalformed)
		return nil, &DecodeError{Err: err}
	}

	c.logger.Debug("fetched borehole features",
		"bbox", bbox,
		"limit", limit,
		"returned", len(fc.Features))

	return fc.Features, nil
}

// CollectionStatus probes the collection metadata endpoint and reports
// availability and latency.
func (c *Client) CollectionStatus(ctx context.Context) (*Status, error) {
	reqURL := fmt.Sprintf("%s/collections/%s", c.baseURL, c.collection)

	start := time.Now()
	body, err := c.get(ctx, reqURL)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return nil, err
	}

	var meta struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(body, &meta); err != nil {
		observeRequest(outcomeMalformed)
		return nil, &DecodeError{Err: err}
	}

	return &Status{
		Healthy:     true,
		Title:       meta.Title,
		Description: truncate(meta.Description, 200),
		URL:         reqURL,
		LatencyMS:   latency,
	}, nil
}

// get performs a rate-limited GET and returns the response body, mapping
// failures onto the typed error taxonomy.
func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &RequestError{URL: reqURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &RequestError{URL: reqURL, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observeRequest(outcomeNetworkError)
		return nil, &RequestError{URL: reqURL, Err: err}
	}
	defer resp.Body.Close()
	upstreamRequestDuration.Observe(time.Since(start).Seconds())

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		observeRequest(outcomeNetworkError)
		return nil, &RequestError{URL: reqURL, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		observeRequest(outcomeUpstreamError)
		c.logger.Error("upstream returned error status",
			"url", reqURL,
			"status", resp.StatusCode)
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       truncate(string(body), 200),
			URL:        reqURL,
		}
	}

	observeRequest(outcomeOK)
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
