// Package client provides an HTTP client for the showbridge relay API
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/showbridge/showbridge/api/types/v1alpha1"
)

// Client provides methods for interacting with the relay server API
type Client struct {
	// baseURL is the root URL for all API requests
	baseURL string
	// httpClient is the underlying HTTP client
	httpClient *http.Client
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithTimeout overrides the default request timeout
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a new API client
func NewClient(baseURL string, options ...ClientOption) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("invalid base URL %q: missing scheme", baseURL)
	}
	u.Path = ""

	c := &Client{
		baseURL: u.String(),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range options {
		opt(c)
	}

	return c, nil
}

// doRequest performs an HTTP request with automatic error handling
func (c *Client) doRequest(ctx context.Context, method, pathStr string, body interface{}) (*http.Response, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = path.Join(u.Path, pathStr)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("error encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error performing request: %w", err)
	}

	return resp, nil
}

// GetConfig fetches the current display configuration
func (c *Client) GetConfig(ctx context.Context) (*v1alpha1.DisplayConfig, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/config", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var cfg v1alpha1.DisplayConfig
	if err := decodeResponse(resp, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UpdateConfig applies a partial configuration update and returns the merged
// result as the server now sees it.
func (c *Client) UpdateConfig(ctx context.Context, partial map[string]interface{}) (*v1alpha1.DisplayConfig, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/config", partial)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var cfg v1alpha1.DisplayConfig
	if err := decodeResponse(resp, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Status fetches the relay server status report
func (c *Client) Status(ctx context.Context) (*v1alpha1.StatusReport, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/status", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var status v1alpha1.StatusReport
	if err := decodeResponse(resp, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
