// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mockagent is a stand-in for the agent endpoint, used for local
// development and tests. It answers POST {path} with a canned reply wrapped
// in the {"data":{"output":[{"text":...}]}} envelope and serves GET /health.
//
//	app := mockagent.New(mockagent.DefaultConfig())
//	log.Fatal(app.Listen("127.0.0.1:8787"))
package mockagent
