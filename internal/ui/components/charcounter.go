// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/MarcusDavidG/AI-agent/internal/ui/styles"
	"github.com/MarcusDavidG/AI-agent/internal/util"
)

// =============================================================================
// CHARACTER COUNTER
// =============================================================================

// warnRatio is the share of the limit above which the counter turns amber.
const warnRatio = 0.9

// CharCounter renders "n/max characters" under the input.
type CharCounter struct {
	Max   int
	count int
	theme *styles.Theme
}

// NewCharCounter creates a counter for the given limit.
func NewCharCounter(theme *styles.Theme, max int) *CharCounter {
	if theme == nil {
		theme = styles.DefaultTheme
	}
	return &CharCounter{Max: max, theme: theme}
}

// SetText recounts from the current input value.
func (c *CharCounter) SetText(text string) {
	c.count = util.CharCount(text)
}

// Count returns the current character count.
func (c *CharCounter) Count() int {
	return c.count
}

// Text returns the unstyled counter text.
func (c *CharCounter) Text() string {
	return toStr(c.count) + "/" + toStr(c.Max) + " characters"
}

// View renders the counter, colored by how close it is to the limit.
func (c *CharCounter) View() string {
	switch {
	case c.Max > 0 && c.count >= c.Max:
		return c.theme.CharCountDanger.Render(c.Text())
	case c.Max > 0 && float64(c.count) >= warnRatio*float64(c.Max):
		return c.theme.CharCountWarning.Render(c.Text())
	default:
		return c.theme.CharCount.Render(c.Text())
	}
}
