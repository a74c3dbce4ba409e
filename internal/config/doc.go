// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for agentchat.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - AgentConfig: Remote agent endpoint, credentials and pacing
//   - UIConfig: Reveal speed, loading notice, input limit, mock mode
//   - LoggingConfig: Debug log file
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (AGENTCHAT_*)
//   - ~/.agentchat/config.toml
//   - ~/.agentchat/config.json
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Watch for edits while the TUI is running:
//
//	go config.Watch(ctx, config.ActivePath(), func(cfg *config.Config, err error) {
//	    program.Send(chat.ConfigReloadedMsg{Config: cfg, Err: err})
//	})
package config
