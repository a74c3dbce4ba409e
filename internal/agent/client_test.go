// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// CLIENT TESTS
// =============================================================================

func TestNewClientWithConfig_Defaults(t *testing.T) {
	c := NewClientWithConfig(&ClientConfig{})

	assert.Equal(t, "http://127.0.0.1:8787/api/agent/request", c.Endpoint())
	assert.Equal(t, "x-api-key", c.config.APIKeyHeader)
	assert.Equal(t, 120*time.Second, c.config.Timeout)
}

func TestClientRequest_SendsExpectedRequest(t *testing.T) {
	var (
		gotMethod, gotPath, gotType, gotKey string
		gotBody                             Request
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotKey = r.Header.Get("x-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"data":{"output":[{"text":"ok"}]}}`))
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL, APIKey: "secret"})
	body, err := c.Request(context.Background(), "  What is Starknet?  ")

	require.NoError(t, err)
	assert.Equal(t, `{"data":{"output":[{"text":"ok"}]}}`, body)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/agent/request", gotPath)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "  What is Starknet?  ", gotBody.Input, "input is sent raw")
}

func TestClientRequest_CustomKeyHeader(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Agent-Key")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL, APIKey: "k1", APIKeyHeader: "X-Agent-Key"})
	c.SetAPIKey("k2")

	_, err := c.Request(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "k2", gotKey)
}

func TestClientRequest_NonSuccessStatus(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusInternalServerError, http.StatusBadGateway} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":"boom"}`))
		}))

		c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
		_, err := c.Request(context.Background(), "hi")
		srv.Close()

		require.Error(t, err, "status %d", status)
		assert.True(t, IsStatus(err))
		assert.True(t, errors.Is(err, ErrBadStatus))
		assert.Equal(t, status, StatusCode(err))
		assert.Contains(t, err.Error(), "agent request failed")
	}
}

func TestClientRequest_OversizedBody(t *testing.T) {
	body := `{"data":{"output":[{"text":"` + strings.Repeat("a", maxBodyBytes) + `"}]}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	got, err := c.Request(context.Background(), "hi")

	require.Error(t, err)
	assert.Empty(t, got)
	var ce *ClientError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ErrTypeTooLarge, ce.Type)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestClientRequest_BodyAtLimit(t *testing.T) {
	body := strings.Repeat("a", maxBodyBytes)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	got, err := c.Request(context.Background(), "hi")

	require.NoError(t, err)
	assert.Len(t, got, maxBodyBytes)
}

func TestClientRequest_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: url})
	_, err := c.Request(context.Background(), "hi")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnreachable))
	assert.False(t, IsStatus(err))
}

func TestClientRequest_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Request(context.Background(), "hi")

	require.Error(t, err)
	assert.True(t, IsTimeout(err), "got %v", err)
}

func TestClientRequest_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL})
	_, err := c.Request(ctx, "hi")
	require.Error(t, err)
}

func TestClientRequest_RateLimitHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := NewClientWithConfig(&ClientConfig{BaseURL: srv.URL, RequestsPerMinute: 1})

	_, err := c.Request(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Request(ctx, "second")

	var ce *ClientError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrTypeRateLimited, ce.Type)
}

func TestErrorTypeString(t *testing.T) {
	tests := []struct {
		typ  ErrorType
		want string
	}{
		{ErrTypeUnknown, "unknown"},
		{ErrTypeConnection, "connection"},
		{ErrTypeTimeout, "timeout"},
		{ErrTypeStatus, "status"},
		{ErrTypeInvalidRequest, "invalid_request"},
		{ErrTypeRateLimited, "rate_limited"},
		{ErrTypeTooLarge, "too_large"},
	}

	for _, tc := range tests {
		if got := tc.typ.String(); got != tc.want {
			t.Errorf("ErrorType(%d).String() = %q, want %q", tc.typ, got, tc.want)
		}
	}
}
