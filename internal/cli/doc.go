// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-TUI commands of
// agentchat.
//
// # Usage
//
//	cmd, args := cli.Parse()
//	switch cmd {
//	case cli.CmdAsk:
//	    cli.HandleAsk(args)
//	case cli.CmdChat:
//	    cli.HandleChat(args)
//	}
//
// # Commands
//
//   - (none), tui: full-screen chat (run by main)
//   - ask: single question, question from arguments or stdin
//   - chat: line-mode REPL with history
//   - config: show, path, init or reset the config file
//   - version, help
//
// Global flags --config, --mock, --dev, --endpoint and --no-links are
// applied on top of the loaded configuration by LoadConfig.
package cli
