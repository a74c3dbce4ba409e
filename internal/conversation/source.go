// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"context"
	"time"

	"github.com/MarcusDavidG/AI-agent/internal/agent"
	"github.com/MarcusDavidG/AI-agent/internal/config"
)

// =============================================================================
// RESPONSE SOURCES
// =============================================================================

// Source produces the raw reply body for one submitted input.
type Source interface {
	// Respond blocks until a reply is available or ctx is done.
	Respond(ctx context.Context, input string) (string, error)

	// Name identifies the source in logs and the navbar badge.
	Name() string
}

// AgentSource answers by calling the remote agent endpoint.
type AgentSource struct {
	client *agent.Client
}

// NewAgentSource wraps client.
func NewAgentSource(client *agent.Client) *AgentSource {
	return &AgentSource{client: client}
}

// Respond implements Source.
func (s *AgentSource) Respond(ctx context.Context, input string) (string, error) {
	return s.client.Request(ctx, input)
}

// Name implements Source.
func (s *AgentSource) Name() string {
	return "agent"
}

// Client returns the wrapped client.
func (s *AgentSource) Client() *agent.Client {
	return s.client
}

// DefaultCannedReply is the fixed reply of the offline mock.
const DefaultCannedReply = "This is a response from the AI."

// DefaultCannedDelay is how long the offline mock "thinks".
const DefaultCannedDelay = time.Second

// CannedSource answers every input with the same reply after a fixed
// delay. It makes no network calls.
type CannedSource struct {
	Reply string
	Delay time.Duration
}

// NewCannedSource creates a canned source. An empty reply selects
// DefaultCannedReply and a negative delay selects DefaultCannedDelay.
func NewCannedSource(reply string, delay time.Duration) *CannedSource {
	if reply == "" {
		reply = DefaultCannedReply
	}
	if delay < 0 {
		delay = DefaultCannedDelay
	}
	return &CannedSource{Reply: reply, Delay: delay}
}

// Respond implements Source.
func (s *CannedSource) Respond(ctx context.Context, input string) (string, error) {
	if s.Delay <= 0 {
		return s.Reply, ctx.Err()
	}

	timer := time.NewTimer(s.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
		return s.Reply, nil
	}
}

// Name implements Source.
func (s *CannedSource) Name() string {
	return "mock"
}

// SourceFromConfig picks the canned source in mock mode and the agent
// endpoint otherwise.
func SourceFromConfig(cfg *config.Config) Source {
	if cfg == nil {
		cfg = config.Default()
	}
	if cfg.UI.Mock {
		return NewCannedSource(cfg.UI.MockReply, cfg.MockDelay())
	}
	return NewAgentSource(agent.NewClientWithConfig(&agent.ClientConfig{
		BaseURL:           cfg.Agent.BaseURL,
		Path:              cfg.Agent.Path,
		APIKey:            cfg.Agent.APIKey,
		APIKeyHeader:      cfg.Agent.APIKeyHeader,
		Timeout:           cfg.AgentTimeout(),
		RequestsPerMinute: cfg.Agent.RequestsPerMinute,
	}))
}
