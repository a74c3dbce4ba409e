// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"net/url"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MarcusDavidG/AI-agent/internal/config"
	"github.com/MarcusDavidG/AI-agent/internal/conversation"
	"github.com/MarcusDavidG/AI-agent/internal/ui/components"
	"github.com/MarcusDavidG/AI-agent/internal/ui/styles"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// InputPlaceholder is shown in the empty input field.
	InputPlaceholder = "Type your message..."

	// InputPrompt precedes the input field.
	InputPrompt = "> "

	// minWidth and minHeight are the smallest layout the view renders into.
	minWidth  = 30
	minHeight = 10
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures the chat view chrome.
type Options struct {
	Theme       *styles.Theme
	Mode        components.Mode
	Host        string
	Development bool
	Hyperlinks  bool
}

// OptionsFromConfig derives view options from cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		cfg = config.Default()
	}
	opts := Options{
		Mode:        components.ModeAgent,
		Development: cfg.IsDevelopment(),
		Hyperlinks:  cfg.UI.Hyperlinks,
	}
	if cfg.UI.Mock {
		opts.Mode = components.ModeMock
	}
	if u, err := url.Parse(cfg.Agent.BaseURL); err == nil {
		opts.Host = u.Host
	}
	return opts
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	ctrl  *conversation.Controller
	theme *styles.Theme
	keys  KeyMap

	// Components
	input    textinput.Model
	viewport viewport.Model
	loading  *components.LoadingIndicator
	counter  *components.CharCounter
	navbar   *components.Navbar
	footer   *components.Footer

	hyperlinks bool

	// Help overlay
	showHelp bool
	helpView string
	helpKey  helpCacheKey

	// Transient notice under the input
	notice      string
	noticeError bool
	noticeGen   int

	// follow keeps the transcript pinned to the newest line until the user
	// scrolls away.
	follow bool

	width  int
	height int
	ready  bool

	copyToClipboard func(string) error
}

// New creates the chat model around ctrl.
func New(ctrl *conversation.Controller, opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.DefaultTheme
	}

	ti := textinput.New()
	ti.Prompt = InputPrompt
	ti.Placeholder = InputPlaceholder
	ti.CharLimit = ctrl.MaxInputChars()
	ti.PromptStyle = theme.InputPrompt
	ti.PlaceholderStyle = theme.InputPlaceholder
	ti.Focus()

	navbar := components.NewNavbar(theme)
	navbar.SetMode(opts.Mode)
	navbar.SetHost(opts.Host)
	navbar.SetDevelopment(opts.Development)

	footer := components.NewFooter(theme)
	footer.Hyperlinks = opts.Hyperlinks

	m := Model{
		ctrl:            ctrl,
		theme:           theme,
		keys:            DefaultKeyMap(),
		input:           ti,
		viewport:        viewport.New(minWidth, minHeight),
		loading:         components.NewLoadingIndicator(theme),
		counter:         components.NewCharCounter(theme, ctrl.MaxInputChars()),
		navbar:          navbar,
		footer:          footer,
		hyperlinks:      opts.Hyperlinks,
		follow:          true,
		copyToClipboard: clipboard.WriteAll,
	}
	m.setSize(80, 24)
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Controller returns the conversation controller behind the view.
func (m Model) Controller() *conversation.Controller {
	return m.ctrl
}

// Input returns the current input text.
func (m Model) Input() string {
	return m.input.Value()
}

// Notice returns the transient notice text, if any.
func (m Model) Notice() string {
	return m.notice
}

// ShowingHelp reports whether the help overlay is open.
func (m Model) ShowingHelp() bool {
	return m.showHelp
}

// renderOptions returns the link rendering options for the transcript.
func (m Model) renderOptions() components.RenderOptions {
	return components.RenderOptions{Hyperlinks: m.hyperlinks, Theme: m.theme}
}
