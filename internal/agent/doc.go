// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package agent provides the HTTP client for the remote agent endpoint and the
// decoder that turns its JSON envelope into display text.
//
// # Key Types
//
//   - Client: posts a question to /api/agent/request and returns the raw body
//   - ClientError: typed error (connection, timeout, status, ...)
//   - Envelope: the {data: {output: [{text}]}} response shape
//
// # Usage
//
//	client := agent.NewClientWithConfig(&agent.ClientConfig{
//	    BaseURL: "https://agent.example.com",
//	    APIKey:  key,
//	})
//	body, err := client.Request(ctx, "What is Starknet?")
//	if err != nil {
//	    // non-2xx and transport failures both land here
//	}
//	text := agent.Decode(body)
//
// Decode tolerates anything: a body that is not the expected envelope is
// returned verbatim.
package agent
