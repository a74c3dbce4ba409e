// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/MarcusDavidG/AI-agent/internal/linkify"
	"github.com/MarcusDavidG/AI-agent/internal/ui/styles"
)

// =============================================================================
// LINKIFIED TEXT RENDERING
// =============================================================================

// RenderOptions controls how link segments are drawn.
type RenderOptions struct {
	// Hyperlinks emits OSC 8 escape sequences so terminals that support them
	// make the shortened label clickable.
	Hyperlinks bool

	// HideHref suppresses the "<href>" suffix used when Hyperlinks is off.
	HideHref bool

	Theme *styles.Theme
}

// RenderSegments draws formatted text. Plain segments are written verbatim;
// link segments show their shortened label, either as a terminal hyperlink
// or followed by the full target in angle brackets.
func RenderSegments(segments []linkify.Segment, opts RenderOptions) string {
	if opts.Theme == nil {
		opts.Theme = styles.DefaultTheme
	}

	var sb strings.Builder
	for _, seg := range segments {
		if !seg.IsLink() {
			sb.WriteString(seg.Display)
			continue
		}
		sb.WriteString(renderLink(seg.Display, seg.Href, opts, opts.Theme.LinkStyle))
	}
	return sb.String()
}

// RenderText formats and draws text in one step.
func RenderText(text string, opts RenderOptions) string {
	return RenderSegments(linkify.Format(text), opts)
}

func renderLink(label, href string, opts RenderOptions, style lipgloss.Style) string {
	if opts.Hyperlinks {
		return termenv.Hyperlink(href, style.Render(label))
	}
	if opts.HideHref {
		return style.Render(label)
	}
	return style.Render(label) + " " + opts.Theme.LinkHref.Render("<"+href+">")
}
