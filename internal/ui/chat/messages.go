// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MarcusDavidG/AI-agent/internal/config"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// ConfigReloadedMsg delivers a configuration reloaded from disk. Err is set
// when the file changed but could not be loaded; Config is nil then.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}

// noticeClearMsg hides the transient notice it was scheduled for.
type noticeClearMsg struct {
	gen int
}

// noticeDuration is how long transient notices stay visible.
const noticeDuration = 3 * time.Second

func clearNoticeAfter(gen int) tea.Cmd {
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return noticeClearMsg{gen: gen}
	})
}
