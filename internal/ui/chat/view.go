// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/MarcusDavidG/AI-agent/internal/model"
	"github.com/MarcusDavidG/AI-agent/internal/ui/components"
)

// =============================================================================
// LAYOUT
// =============================================================================

// setSize records the terminal size and resizes every component.
func (m *Model) setSize(width, height int) {
	if width < minWidth {
		width = minWidth
	}
	if height < minHeight {
		height = minHeight
	}
	m.width = width
	m.height = height
	m.ready = true

	m.navbar.SetWidth(width)
	m.footer.SetWidth(width)
	// Prompt plus container border and padding
	m.input.Width = width - lipgloss.Width(m.input.Prompt) - 5
	m.layout()
}

// layout gives the transcript whatever height the chrome leaves over.
func (m *Model) layout() {
	chrome := lipgloss.Height(m.navbar.View()) +
		lipgloss.Height(m.renderInputArea()) +
		lipgloss.Height(m.footer.View())

	h := m.height - chrome
	if h < 1 {
		h = 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = h
	if m.follow {
		m.viewport.GotoBottom()
	}
}

// refresh re-renders the transcript (or the help overlay) into the viewport.
func (m *Model) refresh() {
	if m.showHelp {
		m.viewport.SetContent(m.renderHelp())
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	if m.follow {
		m.viewport.GotoBottom()
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return components.LoadingText
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.navbar.View(),
		m.viewport.View(),
		m.renderInputArea(),
		m.footer.View(),
	)
}

// renderTranscript draws every message. While a reply is being revealed the
// last agent message is replaced by its partially typed form.
func (m *Model) renderTranscript() string {
	messages := m.ctrl.Messages()
	resp := m.ctrl.Response()
	opts := m.renderOptions()

	var b strings.Builder
	if len(messages) == 0 && !m.loading.Active() {
		b.WriteString(m.theme.InfoStyle.Render("Ask the Starknet agent anything. Press F1 for help."))
		return b.String()
	}

	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		last := i == len(messages)-1
		if last && resp.IsTyping && msg.Sender == model.SenderAgent {
			b.WriteString(components.ResponseView(resp.Text, true, m.width, opts))
			continue
		}
		bubble := components.NewMessageBubble(msg, m.theme)
		bubble.Render = opts
		bubble.SetWidth(m.width)
		b.WriteString(bubble.View())
	}

	if m.loading.Active() {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.loading.View())
	}
	return b.String()
}

// renderInputArea draws the input field, the character counter with the
// send hint, and any notice.
func (m *Model) renderInputArea() string {
	t := m.theme

	send := t.FooterKey.Render("enter") + " " + t.FooterDesc.Render("send")
	if !m.canSend() {
		send = t.InputPlaceholder.Render("enter send")
	}
	status := m.counter.View() + "  " + send

	lines := []string{
		t.InputContainer.Width(m.width - 2).Render(m.input.View()),
		status,
	}
	if m.notice != "" {
		style := t.InfoStyle
		if m.noticeError {
			style = t.ErrorStyle
		}
		lines = append(lines, style.Render(m.notice))
	}
	return strings.Join(lines, "\n")
}

// canSend mirrors the disabled state of the send action: nothing to send,
// or a request already in flight.
func (m *Model) canSend() bool {
	return !m.ctrl.Loading() && strings.TrimSpace(m.input.Value()) != ""
}
