// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the agentchat TUI.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection.

# Color System (colors.go)

  - Purple - Brand accent, navbar title, spinner
  - Cyan - Links, prompts
  - Emerald - Agent mode badge
  - Amber - Mock badge, character count warning
  - Rose - Dev badge, errors, character limit reached

# Theme System (theme.go)

The Theme struct provides runtime color adaptation:

	theme := styles.NewTheme()
	if theme.IsDark {
		// Dark terminal detected
	}
	link := theme.LinkStyle.Render("starkscan.co/...")
*/
package styles
