// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package main runs the mock agent server for local agentchat development.
//
// By default it reads the agentchat config file and listens on the host and
// port of agent.base_url, so a plain `agentchat` talks to it unchanged.
package main

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/MarcusDavidG/AI-agent/internal/config"
	"github.com/MarcusDavidG/AI-agent/internal/mockagent"
)

func main() {
	cfg := config.Global()

	server := mockagent.ConfigFromApp(cfg)
	addr := listenAddr(cfg.Agent.BaseURL)

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		arg := args[i]
		next := func() string {
			if i+1 < len(args) {
				i++
				return args[i]
			}
			fmt.Fprintf(os.Stderr, "%s requires a value\n", arg)
			os.Exit(2)
			return ""
		}

		switch arg {
		case "--addr":
			addr = next()
		case "--reply":
			server.Reply = next()
		case "--delay-ms":
			ms, err := strconv.Atoi(next())
			if err != nil || ms < 0 {
				fmt.Fprintln(os.Stderr, "--delay-ms must be a non-negative integer")
				os.Exit(2)
			}
			server.Delay = time.Duration(ms) * time.Millisecond
		case "--rpm":
			n, err := strconv.Atoi(next())
			if err != nil || n < 0 {
				fmt.Fprintln(os.Stderr, "--rpm must be a non-negative integer")
				os.Exit(2)
			}
			server.RequestsPerMinute = n
		case "--help", "-h":
			printHelp()
			return
		default:
			fmt.Fprintf(os.Stderr, "unknown flag %s\n", arg)
			printHelp()
			os.Exit(2)
		}
	}

	app := mockagent.New(server)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(addr); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	log.Printf("Mock agent listening on %s%s", addr, server.Path)

	<-quit
	log.Println("Shutting down...")
	_ = app.ShutdownWithTimeout(5 * time.Second)
}

// listenAddr derives host:port from the agent base URL.
func listenAddr(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return "127.0.0.1:8787"
	}
	if u.Port() != "" {
		return u.Host
	}
	if strings.EqualFold(u.Scheme, "https") {
		return u.Hostname() + ":443"
	}
	return u.Hostname() + ":80"
}

func printHelp() {
	fmt.Println(`mockagent - canned-reply stand-in for the agent endpoint

Usage: mockagent [OPTIONS]

Options:
  --addr HOST:PORT   Listen address (default: host of agent.base_url)
  --reply TEXT       Canned reply; {input} is replaced by the question
  --delay-ms N       Delay before answering (default: ui.mock_delay_ms)
  --rpm N            Requests per minute per client, 0 for unlimited
  --help, -h         Show this help`)
}
