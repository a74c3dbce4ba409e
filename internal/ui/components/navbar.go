// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/MarcusDavidG/AI-agent/internal/ui/styles"
)

// =============================================================================
// NAVBAR COMPONENT - Title bar with agent branding
// =============================================================================

// Mode represents where replies come from.
type Mode int

const (
	ModeAgent Mode = iota
	ModeMock
)

// String returns the display string for the mode
func (m Mode) String() string {
	switch m {
	case ModeAgent:
		return "AGENT"
	case ModeMock:
		return "MOCK"
	default:
		return "UNKNOWN"
	}
}

// DefaultTitle is the brand shown in the navbar and footer.
const DefaultTitle = "Starknet Agent"

// NavLinks are the static navigation entries of the page shell.
var NavLinks = []string{"Features", "About", "Contact"}

// Navbar is the single-line title bar.
type Navbar struct {
	Title       string // Brand title (default: "Starknet Agent")
	Host        string // Agent endpoint host, shown in agent mode
	Mode        Mode
	Development bool
	Width       int
	theme       *styles.Theme
}

// NewNavbar creates a Navbar with default values.
func NewNavbar(theme *styles.Theme) *Navbar {
	if theme == nil {
		theme = styles.DefaultTheme
	}
	return &Navbar{
		Title: DefaultTitle,
		Mode:  ModeAgent,
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the navbar width
func (n *Navbar) SetWidth(width int) {
	n.Width = width
}

// SetMode updates the reply source badge
func (n *Navbar) SetMode(mode Mode) {
	n.Mode = mode
}

// SetHost updates the endpoint host
func (n *Navbar) SetHost(host string) {
	n.Host = host
}

// SetDevelopment toggles the DEV badge
func (n *Navbar) SetDevelopment(dev bool) {
	n.Development = dev
}

// View renders the navbar. Narrow terminals drop the nav links, then the host.
func (n *Navbar) View() string {
	t := n.theme
	width := n.Width
	if width < 20 {
		width = 20
	}
	inner := width - 2 // navbar padding

	left := t.NavbarTitle.Render(n.Title) + " " + n.badges()

	links := make([]string, len(NavLinks))
	for i, l := range NavLinks {
		links[i] = t.NavbarLink.Render(l)
	}
	right := strings.Join(links, "  ")
	if n.Mode == ModeAgent && n.Host != "" {
		right = t.NavbarHost.Render(n.Host) + "  " + right
	}

	line := spread(left, right, inner)
	if line == left && n.Mode == ModeAgent && n.Host != "" {
		line = spread(left, t.NavbarHost.Render(n.Host), inner)
	}

	return t.Navbar.Width(width).Render(line)
}

func (n *Navbar) badges() string {
	t := n.theme
	var badge string
	switch n.Mode {
	case ModeMock:
		badge = t.BadgeMock.Render(n.Mode.String())
	default:
		badge = t.BadgeAgent.Render(n.Mode.String())
	}
	if n.Development {
		badge += " " + t.BadgeDev.Render("DEV")
	}
	return badge
}
