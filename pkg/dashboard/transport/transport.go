// Package transport issues single HTTP exchanges against the dashboard.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/thepack/dashboard-go/pkg/dashboard/apierr"
)

// DefaultTimeout bounds each request when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// Config holds transport construction options.
type Config struct {
	// BaseURL is the dashboard root, e.g. "http://localhost:3008".
	// A trailing slash is stripped.
	BaseURL string

	// WriteKey is sent as a bearer credential on authenticated requests.
	WriteKey string

	// Timeout bounds each request. Defaults to DefaultTimeout.
	Timeout time.Duration

	// HTTPClient overrides the underlying client. Its Timeout is left
	// untouched when set; Timeout above is ignored in that case.
	HTTPClient *http.Client
}

// HTTP performs JSON and plain-text requests with bearer auth.
type HTTP struct {
	baseURL  string
	writeKey string
	client   *http.Client
}

// New creates a transport for the given dashboard.
func New(cfg Config) (*HTTP, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		return nil, fmt.Errorf("base URL required")
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	return &HTTP{baseURL: base, writeKey: cfg.WriteKey, client: client}, nil
}

// BaseURL returns the normalized dashboard root.
func (t *HTTP) BaseURL() string { return t.baseURL }

// JSON performs one request and decodes the JSON response into out.
//
// body is JSON-encoded when non-nil. auth attaches the write key as a
// bearer token. A 2xx response with an empty body leaves out untouched,
// matching the wire contract's "empty body means empty object". Non-2xx
// responses and connectivity failures return *apierr.Error.
func (t *HTTP) JSON(ctx context.Context, method, path string, query url.Values, body any, auth bool, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	raw, _, err := t.do(ctx, method, path, query, reader, auth)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(raw)) == 0 || out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &apierr.Error{
			Kind:    apierr.Generic,
			Message: fmt.Sprintf("invalid JSON in response: %v", err),
			Status:  http.StatusOK,
			Body:    string(raw),
		}
	}
	return nil
}

// Text performs a GET and returns the response body verbatim.
func (t *HTTP) Text(ctx context.Context, path string) (string, error) {
	raw, _, err := t.do(ctx, http.MethodGet, path, nil, nil, false)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (t *HTTP) do(ctx context.Context, method, path string, query url.Values, body io.Reader, auth bool) ([]byte, int, error) {
	u := t.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+t.writeKey)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, 0, apierr.NewTransport(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, apierr.NewTransport(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, apierr.FromResponse(resp.StatusCode, resp.Header, raw)
	}
	return raw, resp.StatusCode, nil
}
