// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// PAGE SHELL STYLES
	// ==========================================================================

	Navbar      lipgloss.Style
	NavbarTitle lipgloss.Style
	NavbarLink  lipgloss.Style
	NavbarHost  lipgloss.Style
	Footer      lipgloss.Style
	FooterLink  lipgloss.Style
	FooterKey   lipgloss.Style
	FooterDesc  lipgloss.Style

	// Mode badges
	BadgeAgent lipgloss.Style
	BadgeMock  lipgloss.Style
	BadgeDev   lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble  lipgloss.Style
	AgentBubble lipgloss.Style
	Sender      lipgloss.Style
	Timestamp   lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style
	CharCount        lipgloss.Style
	CharCountWarning lipgloss.Style
	CharCountDanger  lipgloss.Style

	// ==========================================================================
	// LOADING STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	LoadingText  lipgloss.Style
	StillLoading lipgloss.Style

	// ==========================================================================
	// LINKS AND NOTICES
	// ==========================================================================

	// LinkStyle - Used for links with underline for visual distinction
	LinkStyle lipgloss.Style
	// LinkHref - The bracketed target shown when hyperlinks are off
	LinkHref lipgloss.Style
	// ErrorStyle - Input validation and clipboard notices
	ErrorStyle lipgloss.Style
	// InfoStyle - Transient confirmations
	InfoStyle lipgloss.Style
	// HelpBox - Frame around the help overlay
	HelpBox lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Page shell
	t.Navbar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextPrimary).
		Padding(0, 1)

	t.NavbarTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.NavbarLink = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.NavbarHost = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.Footer = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.FooterLink = lipgloss.NewStyle().
		Foreground(Cyan).
		Underline(true)

	t.FooterKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.FooterDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.BadgeAgent = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Emerald).
		Bold(true).
		Padding(0, 1)

	t.BadgeMock = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Amber).
		Bold(true).
		Padding(0, 1)

	t.BadgeDev = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Rose).
		Bold(true).
		Padding(0, 1)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1)

	t.AgentBubble = lipgloss.NewStyle().
		Foreground(AgentBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AgentBubbleBorder).
		Padding(0, 1)

	t.Sender = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.CharCount = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.CharCountWarning = lipgloss.NewStyle().
		Foreground(Amber)

	t.CharCountDanger = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	// Loading
	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)

	t.LoadingText = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.StillLoading = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Links and notices
	t.LinkStyle = lipgloss.NewStyle().
		Foreground(Cyan).
		Underline(true)

	t.LinkHref = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(Rose)

	t.InfoStyle = lipgloss.NewStyle().
		Foreground(Emerald)

	t.HelpBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 1)
}

// DefaultTheme is shared by components constructed without an explicit theme.
var DefaultTheme = NewTheme()

// SpinnerFrames is the ASCII spinner used by the loading indicator.
var SpinnerFrames = []string{"|", "/", "-", "\\"}
