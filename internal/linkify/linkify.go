// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package linkify detects transaction hashes and URLs in agent replies and
// turns them into shortened, clickable display segments.
package linkify

import (
	"net/url"
	"regexp"
	"strings"
)

// ExplorerTxURL is the block explorer prefix used for bare transaction hashes.
const ExplorerTxURL = "https://starkscan.co/tx/"

// =============================================================================
// SEGMENT TYPES
// =============================================================================

// Kind classifies a display segment.
type Kind int

const (
	KindPlain       Kind = iota // Verbatim text
	KindTransaction             // Transaction hash or explorer URL
	KindLink                    // Any other http(s) URL
)

// String returns the display string for the kind.
func (k Kind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindTransaction:
		return "transaction-link"
	case KindLink:
		return "generic-link"
	default:
		return "unknown"
	}
}

// Segment is one piece of formatted text.
// Raw is the exact input span; Display is what gets drawn.
type Segment struct {
	Kind    Kind
	Raw     string
	Display string
	Href    string // Empty for plain segments
}

// IsLink reports whether the segment renders as a hyperlink.
func (s Segment) IsLink() bool {
	return s.Kind != KindPlain
}

// =============================================================================
// SCANNER
// =============================================================================

// The alternation order is the match precedence: Go's regexp is leftmost-first,
// so at any position the explorer URL wins over the bare hash, which wins over
// a generic URL.
var linkPattern = regexp.MustCompile(
	`(https?://starkscan\.co/tx/0x[0-9a-fA-F]{64}\b)` +
		`|(\b0x[0-9a-fA-F]{64}\b)` +
		`|(https?://\S+)`,
)

var txHashPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// Format splits text into plain and link segments.
// Concatenating the Raw field of every segment yields text again.
func Format(text string) []Segment {
	matches := linkPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []Segment{plain(text)}
	}

	segments := make([]Segment, 0, 2*len(matches)+1)
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		segments = append(segments, plain(text[last:start]))

		raw := text[start:end]
		switch {
		case m[2] >= 0:
			segments = append(segments, explorerURL(raw))
		case m[4] >= 0:
			segments = append(segments, Segment{
				Kind:    KindTransaction,
				Raw:     raw,
				Display: ShortenTransactionHash(raw),
				Href:    ExplorerTxURL + raw,
			})
		default:
			segments = append(segments, Segment{
				Kind:    KindLink,
				Raw:     raw,
				Display: ShortenURL(raw),
				Href:    raw,
			})
		}
		last = end
	}
	segments = append(segments, plain(text[last:]))

	return segments
}

// Plain joins the display text of every segment.
func Plain(segments []Segment) string {
	var sb strings.Builder
	for _, s := range segments {
		sb.WriteString(s.Display)
	}
	return sb.String()
}

// Raw joins the raw text of every segment.
func Raw(segments []Segment) string {
	var sb strings.Builder
	for _, s := range segments {
		sb.WriteString(s.Raw)
	}
	return sb.String()
}

func plain(text string) Segment {
	return Segment{Kind: KindPlain, Raw: text, Display: text}
}

func explorerURL(raw string) Segment {
	seg := Segment{Kind: KindTransaction, Raw: raw, Href: raw}

	hash := raw
	if idx := strings.LastIndex(raw, "/tx/"); idx >= 0 {
		hash = raw[idx+len("/tx/"):]
	}
	if IsTransactionHash(hash) {
		seg.Display = ShortenTransactionHash(hash)
	} else {
		seg.Display = ShortenURL(raw)
	}
	return seg
}

// =============================================================================
// SHORTENING
// =============================================================================

// IsTransactionHash reports whether s is "0x" followed by exactly 64 hex digits.
func IsTransactionHash(s string) bool {
	return txHashPattern.MatchString(s)
}

// ShortenTransactionHash renders a hash as "0x" + first two hex digits + "..." +
// last three characters. Anything that is not a transaction hash is returned as is.
func ShortenTransactionHash(hash string) string {
	if !IsTransactionHash(hash) {
		return hash
	}
	return "0x" + hash[2:4] + "..." + hash[len(hash)-3:]
}

// ShortenURL renders a URL as "<host>/...".
// Malformed URLs, including ones without a host, are returned unchanged.
func ShortenURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host + "/..."
}
