// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MarcusDavidG/AI-agent/internal/ui/styles"
)

// =============================================================================
// LOADING INDICATOR
// =============================================================================

// Loading indicator copy.
const (
	LoadingText      = "Loading..."
	StillLoadingText = "The agent is still processing your request. This can take a while..."
)

// LoadingIndicator shows a spinner while a reply is awaited, plus a second
// line once the request has been pending for a while.
type LoadingIndicator struct {
	spinner      spinner.Model
	active       bool
	stillLoading bool
	theme        *styles.Theme
}

// NewLoadingIndicator creates an inactive indicator.
func NewLoadingIndicator(theme *styles.Theme) *LoadingIndicator {
	if theme == nil {
		theme = styles.DefaultTheme
	}
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: styles.SpinnerFrames,
		FPS:    time.Second / 10,
	}
	s.Style = theme.Spinner

	return &LoadingIndicator{spinner: s, theme: theme}
}

// Start activates the indicator and returns the first spinner tick.
func (l *LoadingIndicator) Start() tea.Cmd {
	wasActive := l.active
	l.active = true
	l.stillLoading = false
	if wasActive {
		return nil
	}
	return l.spinner.Tick
}

// Stop hides the indicator. In-flight spinner ticks are dropped by Update.
func (l *LoadingIndicator) Stop() {
	l.active = false
	l.stillLoading = false
}

// SetStillLoading toggles the second line.
func (l *LoadingIndicator) SetStillLoading(v bool) {
	l.stillLoading = v
}

// Active reports whether the indicator is shown.
func (l *LoadingIndicator) Active() bool {
	return l.active
}

// StillLoading reports whether the second line is shown.
func (l *LoadingIndicator) StillLoading() bool {
	return l.stillLoading
}

// Update advances the spinner while active.
func (l *LoadingIndicator) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(spinner.TickMsg); !ok || !l.active {
		return nil
	}
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return cmd
}

// View renders the indicator, or "" when inactive.
func (l *LoadingIndicator) View() string {
	if !l.active {
		return ""
	}
	out := l.spinner.View() + " " + l.theme.LoadingText.Render(LoadingText)
	if l.stillLoading {
		out += "\n" + l.theme.StillLoading.Render(StillLoadingText)
	}
	return out
}
