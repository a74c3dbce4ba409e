// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/MarcusDavidG/AI-agent/internal/model"
	"github.com/MarcusDavidG/AI-agent/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one chat message with its sender and timestamp.
type MessageBubble struct {
	Message       model.ChatMessage
	Width         int
	ShowTimestamp bool
	Render        RenderOptions
	theme         *styles.Theme
}

// NewMessageBubble creates a bubble for msg.
func NewMessageBubble(msg model.ChatMessage, theme *styles.Theme) *MessageBubble {
	if theme == nil {
		theme = styles.DefaultTheme
	}
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		Render:        RenderOptions{Hyperlinks: true, Theme: theme},
		theme:         theme,
	}
}

// SetWidth sets the bubble width
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the bubble. Agent text is linkified; user text is shown as typed.
func (b *MessageBubble) View() string {
	t := b.theme

	style := t.AgentBubble
	body := RenderText(b.Message.Text, b.Render)
	if b.Message.Sender == model.SenderUser {
		style = t.UserBubble
		body = b.Message.Text
	}

	header := t.Sender.Render(b.Message.Sender.DisplayName())
	if b.ShowTimestamp && !b.Message.Timestamp.IsZero() {
		header += " " + t.Timestamp.Render(b.Message.Clock())
	}

	// Border (2) + padding (2)
	contentWidth := b.Width - 4
	if contentWidth < 10 {
		contentWidth = 10
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		style.Width(contentWidth).Render(body),
	)
}

// ResponseView renders the live reply being revealed. An empty text while
// typing shows a cursor so the bubble does not collapse.
func ResponseView(text string, typing bool, width int, opts RenderOptions) string {
	t := opts.Theme
	if t == nil {
		t = styles.DefaultTheme
		opts.Theme = t
	}
	body := RenderText(text, opts)
	if typing {
		body += "_"
	}
	contentWidth := width - 4
	if contentWidth < 10 {
		contentWidth = 10
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		t.Sender.Render(model.SenderAgent.DisplayName()),
		t.AgentBubble.Width(contentWidth).Render(body),
	)
}
