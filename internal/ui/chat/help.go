// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// HELP OVERLAY
// =============================================================================

type helpCacheKey struct {
	width int
	dark  bool
}

// helpMarkdown builds the help text from the active key map.
func helpMarkdown(keys KeyMap) string {
	var b strings.Builder
	b.WriteString("# Starknet Agent\n\n")
	b.WriteString("Ask questions about Starknet. Replies are typed out as they arrive.\n\n")

	b.WriteString("## Keys\n\n")
	b.WriteString("| Key | Action |\n|---|---|\n")
	for _, group := range keys.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "| `%s` | %s |\n", h.Key, h.Desc)
		}
	}

	b.WriteString("\n## Links\n\n")
	b.WriteString("- Transaction hashes (`0x` followed by 64 hex digits) link to Starkscan and are shown as `0x04...dc7`.\n")
	b.WriteString("- Web addresses are shortened to their host, for example `docs.starknet.io/...`.\n")
	b.WriteString("- Terminals without hyperlink support show the full target in angle brackets.\n")

	b.WriteString("\n## Modes\n\n")
	b.WriteString("- **AGENT** sends every message to the configured agent endpoint.\n")
	b.WriteString("- **MOCK** answers locally with a canned reply after a short delay.\n")
	b.WriteString("- **DEV** shows request errors in full instead of a generic apology.\n")
	return b.String()
}

// renderHelp renders the help overlay, caching the result per width and
// background.
func (m *Model) renderHelp() string {
	width := m.width - 4
	if width < 20 {
		width = 20
	}
	k := helpCacheKey{width: width, dark: m.theme.IsDark}
	if m.helpView != "" && m.helpKey == k {
		return m.helpView
	}

	md := helpMarkdown(m.keys)
	out, err := renderMarkdown(md, width, k.dark)
	if err != nil {
		log.Printf("HELP_RENDER_ERROR | error=%v", err)
		out = md
	}
	m.helpView = m.theme.HelpBox.Render(strings.TrimRight(out, "\n"))
	m.helpKey = k
	return m.helpView
}

func renderMarkdown(md string, width int, dark bool) (string, error) {
	style := "light"
	if dark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
