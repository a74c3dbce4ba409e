// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the agent client.
type ClientError struct {
	Type       ErrorType
	Message    string
	StatusCode int // Set for ErrTypeStatus
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

// Is matches sentinel errors by type so errors.Is(err, ErrTimeout) works for
// any timeout error, not just the sentinel value itself.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	return t.Type == e.Type && t.StatusCode == 0 && t.Cause == nil
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeStatus
	ErrTypeInvalidRequest
	ErrTypeRateLimited
	ErrTypeTooLarge
)

// String returns the display string for the error type.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeConnection:
		return "connection"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeStatus:
		return "status"
	case ErrTypeInvalidRequest:
		return "invalid_request"
	case ErrTypeRateLimited:
		return "rate_limited"
	case ErrTypeTooLarge:
		return "too_large"
	default:
		return "unknown"
	}
}

// Sentinel errors for easy checking.
var (
	ErrUnreachable = &ClientError{Type: ErrTypeConnection, Message: "agent endpoint is unreachable"}
	ErrTimeout     = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrBadStatus   = &ClientError{Type: ErrTypeStatus, Message: "agent returned an error status"}
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// DefaultPath is the agent request endpoint, relative to BaseURL.
const DefaultPath = "/api/agent/request"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// ClientConfig holds configuration options for the agent client.
type ClientConfig struct {
	// BaseURL is the scheme and host the request path is appended to
	// (default: http://127.0.0.1:8787)
	BaseURL string

	// Path of the request endpoint (default: /api/agent/request)
	Path string

	// APIKey is sent in APIKeyHeader on every request. Empty disables the header.
	APIKey string

	// APIKeyHeader names the static API-key header (default: x-api-key)
	APIKeyHeader string

	// Timeout for a whole request (default: 120s)
	Timeout time.Duration

	// RequestsPerMinute paces requests client-side. 0 means unlimited.
	RequestsPerMinute int
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:      "http://127.0.0.1:8787",
		Path:         DefaultPath,
		APIKeyHeader: "x-api-key",
		Timeout:      120 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client sends user questions to the agent endpoint.
// The Client is safe for concurrent use.
type Client struct {
	mu         sync.RWMutex
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new agent client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new agent client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	defaults := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.Path == "" {
		config.Path = defaults.Path
	}
	if config.APIKeyHeader == "" {
		config.APIKeyHeader = defaults.APIKeyHeader
	}
	if config.Timeout == 0 {
		config.Timeout = defaults.Timeout
	}

	limit := rate.Inf
	if config.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(config.RequestsPerMinute))
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// Endpoint returns the full request URL.
func (c *Client) Endpoint() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return strings.TrimRight(c.config.BaseURL, "/") + c.config.Path
}

// SetAPIKey replaces the API key used for subsequent requests.
func (c *Client) SetAPIKey(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.config.APIKey = key
}

// =============================================================================
// REQUEST
// =============================================================================

// Request posts the user's raw input to the agent and returns the raw response
// body. Any non-2xx status is an error of type ErrTypeStatus.
func (c *Client) Request(ctx context.Context, input string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", &ClientError{Type: ErrTypeRateLimited, Message: "request pacing aborted", Cause: err}
	}

	body, err := json.Marshal(Request{Input: input})
	if err != nil {
		return "", &ClientError{Type: ErrTypeInvalidRequest, Message: "failed to marshal request", Cause: err}
	}

	c.mu.RLock()
	endpoint := strings.TrimRight(c.config.BaseURL, "/") + c.config.Path
	keyHeader, key := c.config.APIKeyHeader, c.config.APIKey
	c.mu.RUnlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &ClientError{Type: ErrTypeInvalidRequest, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(keyHeader, key)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return "", &ClientError{Type: ErrTypeTimeout, Message: "request timed out", Cause: err}
		}
		return "", &ClientError{Type: ErrTypeConnection, Message: "agent endpoint is unreachable", Cause: err}
	}
	defer drainAndClose(resp.Body)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return "", &ClientError{Type: ErrTypeConnection, Message: "failed to read response", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &ClientError{
			Type:       ErrTypeStatus,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("agent request failed: %s", resp.Status),
		}
	}
	if len(data) > maxBodyBytes {
		return "", &ClientError{
			Type:    ErrTypeTooLarge,
			Message: fmt.Sprintf("agent response exceeds %d bytes", maxBodyBytes),
		}
	}

	return string(data), nil
}

// =============================================================================
// HELPERS
// =============================================================================

// IsStatus reports whether err is a non-2xx response error.
func IsStatus(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrTypeStatus
}

// IsTimeout reports whether err is a timeout error.
func IsTimeout(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrTypeTimeout
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.StatusCode
	}
	return 0
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

// drainAndClose discards the rest of the body so the connection can be reused.
func drainAndClose(r io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, maxBodyBytes))
	_ = r.Close()
}
