// Package api is the typed HTTP wrapper over the backend's REST surface.
// It builds URLs, serializes bodies, fails on non-2xx responses with the
// raw body as error detail, and deserializes JSON responses. No retry or
// backoff: failures propagate to callers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// BaseURL is the REST base, e.g. "http://localhost:8000/api/v1".
	BaseURL string
	// HTTPClient is used for all requests. If nil, http.DefaultClient is
	// used. Tests inject an httptest transport here.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Client is the console's connection to the backend. A single Client is
// shared by every view controller for the process lifetime.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient validates the base URL and creates a Client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("api: BaseURL is required")
	}
	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, fmt.Errorf("api: invalid BaseURL %q: %w", config.BaseURL, err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// URL returns the absolute URL for a path and optional query under the
// client's base. Stream endpoints use this to derive their connection
// URL from the same base as the REST calls.
func (c *Client) URL(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// HTTPClient exposes the underlying transport so the stream factory
// opens its long-lived connections through the same client.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// do performs one request. A nil body sends no payload; a non-nil out
// receives the decoded JSON response. Non-2xx responses return *Error
// carrying the status and raw body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path, query), reader)
	if err != nil {
		return fmt.Errorf("api: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("api: read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("request failed", "method", method, "path", path, "status", resp.StatusCode)
		return &Error{Status: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("api: decode response for %s %s: %w", method, path, err)
		}
	}
	return nil
}
