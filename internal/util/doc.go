// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small string and file helpers shared by agentchat.
//
// # Key Functions
//
// String Utilities:
//   - CharCount: NFC-normalised character count used for the input limit
//   - RuneLen: rune count
//   - TruncateRunes: UTF-8 safe string truncation with ellipsis
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file replacement (temp file, fsync, rename)
//
// # Usage
//
//	// Enforce the input limit in characters, not bytes
//	if util.CharCount(input) > max { ... }
//
//	// Write files atomically to prevent data loss
//	err := util.AtomicWriteFile(path, data, 0600, 0755)
package util
