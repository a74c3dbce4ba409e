// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import "golang.org/x/text/unicode/norm"

// UNICODE: Rune-aware helpers preserve multi-byte characters.
// These functions count and cut characters, never bytes, so UTF-8 text is
// never split mid-character.

// CharCount returns the number of user-perceived characters in s, counted as
// runes after NFC normalisation. A decomposed "é" (e + combining accent) and
// a precomposed one therefore count the same.
func CharCount(s string) int {
	if s == "" {
		return 0
	}
	return len([]rune(norm.NFC.String(s)))
}

// RuneLen returns the number of runes (characters) in a string.
func RuneLen(s string) int {
	return len([]rune(s))
}

// TruncateRunes truncates a string to a maximum number of runes (characters).
// If the string is truncated, "..." is appended.
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}
