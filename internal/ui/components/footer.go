// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/MarcusDavidG/AI-agent/internal/ui/styles"
)

// =============================================================================
// FOOTER COMPONENT - Credits line plus key hints
// =============================================================================

// Social links shown in the credits line.
const (
	TwitterURL = "https://twitter.com/starknet"
	DiscordURL = "https://discord.gg/starknet"
)

// KeyHint is one shortcut shown in the footer.
type KeyHint struct {
	Key  string
	Desc string
}

// DefaultKeyHints are the chat view shortcuts.
var DefaultKeyHints = []KeyHint{
	{"enter", "send"},
	{"pgup/pgdn", "scroll"},
	{"ctrl+y", "copy reply"},
	{"f1", "help"},
	{"esc", "quit"},
}

// Footer renders the static credits and the key hints.
type Footer struct {
	Brand      string
	Year       int
	Hints      []KeyHint
	Hyperlinks bool
	Width      int
	theme      *styles.Theme
}

// NewFooter creates a Footer with default values.
func NewFooter(theme *styles.Theme) *Footer {
	if theme == nil {
		theme = styles.DefaultTheme
	}
	return &Footer{
		Brand:      DefaultTitle,
		Year:       2025,
		Hints:      DefaultKeyHints,
		Hyperlinks: true,
		Width:      80,
		theme:      theme,
	}
}

// SetWidth updates the footer width
func (f *Footer) SetWidth(width int) {
	f.Width = width
}

// Credits returns the copyright and social line without key hints.
func (f *Footer) Credits() string {
	t := f.theme
	ropts := RenderOptions{Hyperlinks: f.Hyperlinks, Theme: t, HideHref: true}
	twitter := renderLink("Twitter", TwitterURL, ropts, t.FooterLink)
	discord := renderLink("Discord", DiscordURL, ropts, t.FooterLink)
	return "(c) " + toStr(f.Year) + " " + f.Brand + ". All rights reserved. " +
		"Follow us on " + twitter + " and " + discord
}

// Hint renders the key hints, dropping trailing ones that do not fit width.
func (f *Footer) Hint(width int) string {
	t := f.theme
	var parts []string
	used := 0
	for _, h := range f.Hints {
		part := t.FooterKey.Render(h.Key) + " " + t.FooterDesc.Render(h.Desc)
		w := runewidth.StringWidth(h.Key) + 1 + runewidth.StringWidth(h.Desc)
		if used > 0 {
			w += 3
		}
		if width > 0 && used+w > width {
			break
		}
		parts = append(parts, part)
		used += w
	}
	return strings.Join(parts, t.FooterDesc.Render(" | "))
}

// View renders the footer as two lines: credits, then key hints.
func (f *Footer) View() string {
	width := f.Width
	if width < 20 {
		width = 20
	}
	inner := width - 2

	credits := spread(f.Credits(), "", inner)
	hints := f.Hint(inner)

	return f.theme.Footer.Width(width).Render(credits + "\n" + hints)
}
