// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// # Key Types
//
//   - ChatMessage: one immutable message with sender, text and timestamp
//   - Sender: who wrote a message (user or agent)
//   - Conversation: append-only, insertion-ordered message log
//
// # Usage
//
//	conv := model.NewConversation()
//	conv.Append(model.NewChatMessage(model.SenderUser, "What is Starknet?"))
//	for _, msg := range conv.Messages() {
//	    fmt.Printf("[%s] %s: %s\n", msg.Clock(), msg.Sender.DisplayName(), msg.Text)
//	}
package model
