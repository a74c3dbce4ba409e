// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"log"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MarcusDavidG/AI-agent/internal/conversation"
	"github.com/MarcusDavidG/AI-agent/internal/model"
	"github.com/MarcusDavidG/AI-agent/internal/reveal"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		cmd := m.loading.Update(msg)
		if m.loading.Active() {
			m.refresh()
		}
		return m, cmd

	case conversation.ResponseMsg, conversation.StillLoadingMsg, reveal.TickMsg:
		return m.handleConversation(msg)

	case ConfigReloadedMsg:
		return m.handleConfigReloaded(msg)

	case noticeClearMsg:
		if msg.gen == m.noticeGen {
			m.notice = ""
			m.noticeError = false
			m.layout()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.showHelp && msg.String() == "esc" {
			m.showHelp = false
			m.refresh()
			return m, nil
		}
		m.ctrl.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.viewport.GotoTop()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		m.follow = m.viewport.AtBottom()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		m.follow = m.viewport.AtBottom()
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		m.follow = m.viewport.AtBottom()
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		m.follow = true
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		cmd := m.copyLastReply()
		return m, cmd
	}

	if m.showHelp {
		return m, nil
	}

	if key.Matches(msg, m.keys.Submit) {
		return m.submit()
	}

	// The input is blurred while a request is in flight, so typing is dropped.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.counter.SetText(m.input.Value())
	return m, cmd
}

// submit hands the input to the controller. Blank input and submissions
// while a request is in flight are ignored; the send hint already shows
// them as unavailable.
func (m Model) submit() (tea.Model, tea.Cmd) {
	cmd, err := m.ctrl.Submit(m.input.Value())
	if err != nil {
		switch {
		case errors.Is(err, conversation.ErrEmptyInput), errors.Is(err, conversation.ErrBusy):
			return m, nil
		case errors.Is(err, conversation.ErrInputTooLong):
			cmd := m.setNotice(err.Error(), true)
			return m, cmd
		default:
			log.Printf("SUBMIT_ERROR | error=%v", err)
			cmd := m.setNotice(err.Error(), true)
			return m, cmd
		}
	}

	m.input.Reset()
	m.input.Blur()
	m.counter.SetText("")
	m.follow = true
	m.showHelp = false

	spin := m.loading.Start()
	m.layout()
	m.refresh()
	return m, tea.Batch(cmd, spin)
}

// =============================================================================
// CONVERSATION MESSAGES
// =============================================================================

func (m Model) handleConversation(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd, handled := m.ctrl.Update(msg)
	if !handled {
		return m, nil
	}

	var focus tea.Cmd
	if m.ctrl.Loading() {
		m.loading.SetStillLoading(m.ctrl.StillLoading())
	} else if m.loading.Active() {
		m.loading.Stop()
		focus = m.input.Focus()
	}

	m.refresh()
	return m, tea.Batch(cmd, focus)
}

// =============================================================================
// CONFIG RELOAD
// =============================================================================

func (m Model) handleConfigReloaded(msg ConfigReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		cmd := m.setNotice("Config reload failed: "+msg.Err.Error(), true)
		return m, cmd
	}
	if msg.Config == nil {
		return m, nil
	}

	// Requests already in flight keep the source they started with.
	m.ctrl.SetOptions(conversation.OptionsFromConfig(msg.Config))
	m.ctrl.SetSource(conversation.SourceFromConfig(msg.Config))
	max := m.ctrl.MaxInputChars()
	m.input.CharLimit = max
	m.counter.Max = max
	m.counter.SetText(m.input.Value())

	view := OptionsFromConfig(msg.Config)
	m.hyperlinks = view.Hyperlinks
	m.footer.Hyperlinks = view.Hyperlinks
	m.navbar.SetMode(view.Mode)
	m.navbar.SetDevelopment(view.Development)
	m.navbar.SetHost(view.Host)

	m.refresh()
	cmd := m.setNotice("Configuration reloaded", false)
	return m, cmd
}

// =============================================================================
// CLIPBOARD
// =============================================================================

// copyLastReply copies the newest agent message in full, even while it is
// still being revealed.
func (m *Model) copyLastReply() tea.Cmd {
	msg, ok := m.ctrl.Conversation().LastFrom(model.SenderAgent)
	if !ok {
		return m.setNotice("No reply to copy yet", true)
	}
	if err := m.copyToClipboard(msg.Text); err != nil {
		log.Printf("CLIPBOARD_ERROR | error=%v", err)
		return m.setNotice("Copy failed: "+err.Error(), true)
	}
	return m.setNotice("Reply copied to clipboard", false)
}

// setNotice shows text under the input and schedules its removal.
func (m *Model) setNotice(text string, isError bool) tea.Cmd {
	m.noticeGen++
	m.notice = text
	m.noticeError = isError
	m.layout()
	return clearNoticeAfter(m.noticeGen)
}
