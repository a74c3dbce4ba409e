// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation drives the submit → await → reveal cycle of a chat.
//
// A Controller owns the message log, the single live reply and the timers
// around one in-flight request. It is parameterised by a Source, so the real
// agent view (AgentSource) and the offline mock (CannedSource) share one
// implementation.
//
// # Cycle
//
//	Idle --Submit--> Submitting --ResponseMsg--> Revealing --last tick--> Idle
//
// Every request and timer carries a generation number. Submitting again, or
// closing the controller, bumps the generation so stale replies, still-loading
// timers and reveal ticks become no-ops.
//
// # Usage
//
//	ctrl := conversation.New(conversation.NewAgentSource(client), opts)
//	cmd, err := ctrl.Submit("What is Starknet?")
//	// in Update: next, handled := ctrl.Update(msg)
package conversation
