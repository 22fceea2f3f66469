// Package feeds provides the upstream data clients for gridpulse widgets:
// stock quotes from Stooq, weather from wttr.in, and public activity from
// the GitHub events API. All fetchers take a context and go through a
// shared Client so timeouts and the User-Agent are set in one place.
package feeds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// userAgent identifies gridpulse to upstream services. wttr.in in
// particular varies its output format based on this header.
const userAgent = "gridpulse/1.0"

// maxBodyBytes caps the size of any upstream response body.
const maxBodyBytes = 1 << 20

// ErrUpstreamStatus is returned when an upstream responds with a non-200
// status code.
var ErrUpstreamStatus = errors.New("feeds: unexpected upstream status")

// Client wraps an http.Client with the request conventions shared by all
// feed fetchers.
type Client struct {
	http *http.Client
}

// NewClient creates a feed client with the given per-request timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		http: &http.Client{Timeout: timeout},
	}
}

// get performs a GET request and returns the response body, enforcing the
// status and size conventions.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("feeds: build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("feeds: %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s from %s", ErrUpstreamStatus, resp.Status, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("feeds: read body: %w", err)
	}
	return body, nil
}

// getJSON performs a GET request and decodes the JSON body into v.
func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	body, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("feeds: decode %s: %w", url, err)
	}
	return nil
}
