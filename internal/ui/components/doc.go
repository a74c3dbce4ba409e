// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the page shell and reusable UI pieces of the
agentchat TUI.

# Page Shell

Navbar (navbar.go) - Brand title, endpoint host, AGENT/MOCK and DEV badges.
Footer (footer.go) - Credits line with social links, plus key hints.

# Display Components

MessageBubble (message.go) - Styled bubble with sender and timestamp.
RenderSegments (segments.go) - Draws linkified text; links become OSC 8
terminal hyperlinks, or "label <href>" when hyperlinks are disabled.
LoadingIndicator (loading.go) - Spinner with the still-processing line.
CharCounter (charcounter.go) - "n/max characters" under the input.

# Theme Integration

All components accept a *styles.Theme; nil selects styles.DefaultTheme:

	theme := styles.NewTheme()
	nav := components.NewNavbar(theme)
	nav.SetWidth(80)
	nav.SetMode(components.ModeMock)
	view := nav.View()
*/
package components
