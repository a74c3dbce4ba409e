// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package agent

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Some agent deployments echo their own serialized envelope inside the text
// field. These trim that wrapper off both ends.
var (
	wrapperPrefix = regexp.MustCompile(`(?s)^\{"input":.*?"output":\[.*?"text":"`)
	wrapperSuffix = regexp.MustCompile(`"\}?\]\}$`)
)

var unescaper = strings.NewReplacer(`\n`, "\n", `\"`, `"`)

// Decode extracts display text from a raw agent response body.
//
// If body is JSON with a string at data.output[0].text, that string is
// returned after cleanup. Any other body, including invalid JSON, is returned
// unchanged. Decode never fails.
func Decode(body string) string {
	text, ok := extractText(body)
	if !ok {
		return body
	}
	return cleanText(text)
}

func extractText(body string) (string, bool) {
	var env Envelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return "", false
	}
	if env.Data == nil || len(env.Data.Output) == 0 || env.Data.Output[0].Text == nil {
		return "", false
	}
	return *env.Data.Output[0].Text, true
}

func cleanText(text string) string {
	text = wrapperPrefix.ReplaceAllString(text, "")
	text = wrapperSuffix.ReplaceAllString(text, "")
	return unescaper.Replace(text)
}
