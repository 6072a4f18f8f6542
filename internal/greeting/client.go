// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package greeting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the greeting client.
type ClientError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Cause      error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeStatus
	ErrTypeInvalidResponse
)

// ErrTimeout is returned when the request deadline passes.
var ErrTimeout = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}

// IsStatus reports whether err is an HTTP status failure with the given code.
func IsStatus(err error, code int) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrTypeStatus && ce.StatusCode == code
}

// maxBody caps how much of a response body is read.
const maxBody = 64 << 10

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://127.0.0.1:5000"

// ClientConfig holds configuration options for the greeting client.
type ClientConfig struct {
	// BaseURL is the API origin (default: http://127.0.0.1:5000).
	BaseURL string

	// Timeout bounds every request (default: 10s).
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:   DefaultBaseURL,
		Timeout:   10 * time.Second,
		UserAgent: "bouncer",
	}
}

// NormalizeBaseURL trims whitespace and trailing slashes. Empty input and the
// literal "undefined" (left behind by some env templating) yield "".
func NormalizeBaseURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "undefined" {
		return ""
	}
	return strings.TrimRight(s, "/")
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the greeting API. Safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
}

// NewClient creates a client for baseURL, using defaults for everything else.
func NewClient(baseURL string) *Client {
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	return NewClientWithConfig(cfg)
}

// NewClientWithConfig creates a client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	config.BaseURL = NormalizeBaseURL(config.BaseURL)
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "bouncer"
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// BaseURL returns the resolved API origin.
func (c *Client) BaseURL() string { return c.config.BaseURL }

// Fetch calls GET /api/hello.
func (c *Client) Fetch(ctx context.Context) (*Hello, error) {
	body, err := c.get(ctx, "/api/hello")
	if err != nil {
		return nil, err
	}
	h, err := decodeHello(body)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return h, nil
}

// FetchMessage returns just the display text from /api/hello.
func (c *Client) FetchMessage(ctx context.Context) (string, error) {
	h, err := c.Fetch(ctx)
	if err != nil {
		return "", err
	}
	return h.Message, nil
}

// Health calls GET /api/health.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	body, err := c.get(ctx, "/api/health")
	if err != nil {
		return nil, err
	}
	var h Health
	if err := json.Unmarshal(body, &h); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return &h, nil
}

// get performs a GET and returns the body of a 2xx response. Other statuses
// become "HTTP <code>: <body>" errors, with the status text standing in for
// an empty body.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return nil, ErrTimeout
		}
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to fetch", Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to read response", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := strings.TrimSpace(string(body))
		if detail == "" {
			detail = http.StatusText(resp.StatusCode)
		}
		return nil, &ClientError{
			Type:       ErrTypeStatus,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, detail),
		}
	}
	return body, nil
}
