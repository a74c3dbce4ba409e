// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who wrote a message.
type Sender string

const (
	SenderUser  Sender = "user"
	SenderAgent Sender = "agent"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the sender.
func (s Sender) DisplayName() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderAgent:
		return "Agent"
	default:
		return string(s)
	}
}

// Valid reports whether s is a known sender.
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderAgent
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// ClockFormat renders timestamps the way a browser's toLocaleTimeString does
// in the en-US locale.
const ClockFormat = "3:04:05 PM"

// ChatMessage is a single message in a conversation.
// Messages are values and are never modified after creation.
type ChatMessage struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// NewChatMessage creates a message stamped with the current time.
func NewChatMessage(sender Sender, text string) ChatMessage {
	return ChatMessage{
		ID:        uuid.New().String(),
		Text:      text,
		Sender:    sender,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a user message.
func NewUserMessage(text string) ChatMessage {
	return NewChatMessage(SenderUser, text)
}

// NewAgentMessage creates an agent message.
func NewAgentMessage(text string) ChatMessage {
	return NewChatMessage(SenderAgent, text)
}

// Clock returns the message time as a local wall-clock string.
func (m ChatMessage) Clock() string {
	return m.Timestamp.Local().Format(ClockFormat)
}

// IsZero reports whether m is the zero message.
func (m ChatMessage) IsZero() bool {
	return m.ID == ""
}
