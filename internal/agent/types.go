// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

// Request is the JSON body posted to the agent endpoint.
type Request struct {
	Input string `json:"input"`
}

// Envelope is the expected shape of a successful agent response:
//
//	{"data": {"output": [{"text": "..."}]}}
//
// Decode does not require it; anything else passes through as plain text.
type Envelope struct {
	Data *EnvelopeData `json:"data"`
}

// EnvelopeData holds the agent's output list.
type EnvelopeData struct {
	Input  string   `json:"input,omitempty"`
	Output []Output `json:"output"`
}

// Output is one output entry.
type Output struct {
	Text *string `json:"text"`
}

// NewEnvelope builds a single-output envelope. Used by the mock agent server.
func NewEnvelope(input, text string) Envelope {
	return Envelope{
		Data: &EnvelopeData{
			Input:  input,
			Output: []Output{{Text: &text}},
		},
	}
}
