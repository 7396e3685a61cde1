package dashboard

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/thepack/dashboard-go/pkg/dashboard/transport"
)

// Environment fallbacks for construction.
const (
	EnvBaseURL  = "DASHBOARD_URL"
	EnvWriteKey = "DASHBOARD_KEY"
)

const apiPrefix = "/api/v1"

// Config holds client construction options.
type Config struct {
	// BaseURL is the dashboard root, e.g. "http://localhost:3008".
	// Falls back to the DASHBOARD_URL environment variable. A trailing
	// slash is stripped.
	BaseURL string

	// WriteKey authorizes mutating operations (Submit, Delete, Prune).
	// Falls back to the DASHBOARD_KEY environment variable. Read
	// operations need no key.
	WriteKey string

	// Timeout bounds each request. Defaults to 10 seconds.
	Timeout time.Duration

	// HTTPClient overrides the underlying HTTP client.
	HTTPClient *http.Client
}

// Client is a dashboard API client. It holds no state beyond its
// configuration and is safe for concurrent use.
type Client struct {
	transport *transport.HTTP
}

// New creates a dashboard client.
func New(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = os.Getenv(EnvBaseURL)
	}
	if baseURL == "" {
		return nil, fmt.Errorf("base URL required (or set %s)", EnvBaseURL)
	}

	writeKey := cfg.WriteKey
	if writeKey == "" {
		writeKey = os.Getenv(EnvWriteKey)
	}

	t, err := transport.New(transport.Config{
		BaseURL:    baseURL,
		WriteKey:   writeKey,
		Timeout:    cfg.Timeout,
		HTTPClient: cfg.HTTPClient,
	})
	if err != nil {
		return nil, err
	}
	return &Client{transport: t}, nil
}

// BaseURL returns the normalized dashboard root.
func (c *Client) BaseURL() string { return c.transport.BaseURL() }

// Health fetches service status and storage counts. No auth required.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var out HealthStatus
	err := c.transport.JSON(ctx, http.MethodGet, apiPrefix+"/health", nil, nil, false, &out)
	return out, err
}

type statsResponse struct {
	Stats []StatSummary `json:"stats"`
}

// Stats fetches every tracked metric with its latest value, trends, and
// sparkline, ordered by key.
func (c *Client) Stats(ctx context.Context) ([]StatSummary, error) {
	var out statsResponse
	if err := c.transport.JSON(ctx, http.MethodGet, apiPrefix+"/stats", nil, nil, false, &out); err != nil {
		return nil, err
	}
	return out.Stats, nil
}

// Stat fetches a single metric's summary by scanning the stats listing.
// Returns nil when the key is not tracked. There is no dedicated server
// lookup; this is O(n) in the number of tracked keys.
func (c *Client) Stat(ctx context.Context, key string) (*StatSummary, error) {
	stats, err := c.Stats(ctx)
	if err != nil {
		return nil, err
	}
	for i := range stats {
		if stats[i].Key == key {
			return &stats[i], nil
		}
	}
	return nil, nil
}

type historyResponse struct {
	Points []HistoryPoint `json:"points"`
}

// History fetches a metric's time series, oldest first. An unknown key
// yields an empty slice, not an error.
func (c *Client) History(ctx context.Context, key string, opts HistoryOptions) ([]HistoryPoint, error) {
	var out historyResponse
	if err := c.transport.JSON(ctx, http.MethodGet, statPath(key), opts.query(), nil, false, &out); err != nil {
		return nil, err
	}
	return out.Points, nil
}

type submitResponse struct {
	Accepted int `json:"accepted"`
}

// Submit posts a batch of samples (1..100 items, server-enforced) and
// returns the server's accepted count. The server may accept fewer items
// than submitted; the count is reported verbatim. Requires the write key.
func (c *Client) Submit(ctx context.Context, samples []Sample) (int, error) {
	var out submitResponse
	if err := c.transport.JSON(ctx, http.MethodPost, apiPrefix+"/stats", nil, samples, true, &out); err != nil {
		return 0, err
	}
	return out.Accepted, nil
}

// SubmitValues submits a key→value mapping as one batch. Requires the
// write key.
func (c *Client) SubmitValues(ctx context.Context, values map[string]float64) (int, error) {
	return c.Submit(ctx, SamplesFromValues(values))
}

type deleteResponse struct {
	Deleted int `json:"deleted"`
}

// Delete removes all data for a key and returns the number of deleted
// points. Fails NotFound when the key holds no data. Requires the write
// key.
func (c *Client) Delete(ctx context.Context, key string) (int, error) {
	var out deleteResponse
	if err := c.transport.JSON(ctx, http.MethodDelete, statPath(key), nil, nil, true, &out); err != nil {
		return 0, err
	}
	return out.Deleted, nil
}

// Prune triggers server-side retention cleanup. Idempotent: an immediate
// second call deletes nothing further. Requires the write key.
func (c *Client) Prune(ctx context.Context) (PruneResult, error) {
	var out PruneResult
	err := c.transport.JSON(ctx, http.MethodPost, apiPrefix+"/stats/prune", nil, nil, true, &out)
	return out, err
}

type alertsResponse struct {
	Alerts []AlertEvent `json:"alerts"`
	Total  int          `json:"total"`
}

// Alerts fetches recorded alerts, newest first. No auth required.
func (c *Client) Alerts(ctx context.Context, opts AlertOptions) ([]AlertEvent, error) {
	var out alertsResponse
	if err := c.transport.JSON(ctx, http.MethodGet, apiPrefix+"/alerts", opts.query(), nil, false, &out); err != nil {
		return nil, err
	}
	return out.Alerts, nil
}

// AlertCount returns the total number of recorded alerts, taken from the
// listing's reported total rather than a page length.
func (c *Client) AlertCount(ctx context.Context) (int, error) {
	var out alertsResponse
	q := AlertOptions{Limit: 1}.query()
	if err := c.transport.JSON(ctx, http.MethodGet, apiPrefix+"/alerts", q, nil, false, &out); err != nil {
		return 0, err
	}
	return out.Total, nil
}
