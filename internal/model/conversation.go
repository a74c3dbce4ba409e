// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is an append-only message log. Insertion order is display
// order. It lives for the lifetime of the process and is never persisted.
//
// Conversation is safe for concurrent use.
type Conversation struct {
	mu        sync.RWMutex
	id        string
	createdAt time.Time
	updatedAt time.Time
	messages  []ChatMessage
}

// NewConversation creates an empty conversation with a generated ID.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		id:        uuid.New().String(),
		createdAt: now,
		updatedAt: now,
		messages:  make([]ChatMessage, 0),
	}
}

// ID returns the conversation ID.
func (c *Conversation) ID() string {
	return c.id
}

// CreatedAt returns when the conversation started.
func (c *Conversation) CreatedAt() time.Time {
	return c.createdAt
}

// UpdatedAt returns when the last message was appended.
func (c *Conversation) UpdatedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.updatedAt
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Append adds msg to the end of the log and returns it.
func (c *Conversation) Append(msg ChatMessage) ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
	c.updatedAt = time.Now()
	return msg
}

// AppendUser creates and appends a user message.
func (c *Conversation) AppendUser(text string) ChatMessage {
	return c.Append(NewUserMessage(text))
}

// AppendAgent creates and appends an agent message.
func (c *Conversation) AppendAgent(text string) ChatMessage {
	return c.Append(NewAgentMessage(text))
}

// Messages returns a copy of the log in insertion order.
func (c *Conversation) Messages() []ChatMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return c.Len() == 0
}

// Last returns the most recent message, if any.
func (c *Conversation) Last() (ChatMessage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.messages) == 0 {
		return ChatMessage{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// LastFrom returns the most recent message from sender, if any.
func (c *Conversation) LastFrom(sender Sender) (ChatMessage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Sender == sender {
			return c.messages[i], true
		}
	}
	return ChatMessage{}, false
}

// ByID returns the message with the given ID, if any.
func (c *Conversation) ByID(id string) (ChatMessage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, m := range c.messages {
		if m.ID == id {
			return m, true
		}
	}
	return ChatMessage{}, false
}
