// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the main chat screen of the agentchat TUI.

The Model composes a conversation.Controller with the page chrome from the
components package:

	navbar        title, endpoint host, AGENT/MOCK and DEV badges
	viewport      transcript, live reply and loading indicator
	input area    text input, n/max character counter, notices
	footer        credits and key hints

# Message Flow

Enter hands the input to Controller.Submit; the returned command runs the
request and the still-loading timer. The input is blurred while a request is
in flight and refocused once the reply starts revealing. Every
conversation.ResponseMsg, conversation.StillLoadingMsg and reveal.TickMsg is
routed back through Controller.Update, which drops anything stale.

# Keys

	Enter     send message
	PgUp/PgDn scroll the transcript
	Ctrl+Y    copy the latest agent reply
	F1        toggle the help overlay (markdown rendered with glamour)
	Esc/C-c   quit; the controller is closed so pending work is dropped

ConfigReloadedMsg applies a configuration reloaded by config.Watch.
*/
package chat
