// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command handlers for agentchat.
package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdConfig
	CmdVersion
	CmdHelp
)

// String returns the command name as typed on the command line.
func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdAsk:
		return "ask"
	case CmdChat:
		return "chat"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	ConfigPath string // --config: explicit config file
	Mock       bool   // --mock: answer with the canned reply
	Dev        bool   // --dev: development error reporting
	Endpoint   string // --endpoint: agent base URL
	NoLinks    bool   // --no-links: print link targets instead of OSC 8 hyperlinks
	Quiet      bool

	// Command-specific
	Query      string
	Subcommand string // config: show, path, init, reset

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `agentchat - terminal chat for the Starknet agent

Usage:
  agentchat                     Start the chat TUI (default)
  agentchat ask "question"      Ask a single question
  agentchat chat                Line-mode chat with input history
  agentchat config [show|path|init|reset]
                                Inspect or create the config file
  agentchat version             Show version information
  agentchat help                Show this help

Global Flags:
  --config PATH                 Config file (default: ~/.agentchat/config.toml)
  --mock                        Answer locally with a canned reply
  --dev                         Show request errors in full
  --endpoint URL                Agent base URL (e.g. https://agent.example.com)
  --no-links                    Print link targets instead of terminal hyperlinks
  -q, --quiet                   Suppress banners and animation

Ask:
  agentchat ask "What is Starknet?"
  echo "What is a felt?" | agentchat ask
  agentchat ask -               Read the question from stdin

Environment:
  AGENTCHAT_ENV                 development | production
  AGENTCHAT_BASE_URL            Agent base URL
  AGENTCHAT_API_KEY             Value for the API-key header
  AGENTCHAT_MOCK                1 or true enables mock mode
  AGENTCHAT_LOG_FILE            Debug log file for the TUI
`

// PrintUsage writes the usage text.
func PrintUsage(w io.Writer) {
	fmt.Fprint(w, usageText)
}

// PrintVersion writes version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "agentchat %s\n", Version)
	fmt.Fprintf(w, "  Commit:  %s\n", GitCommit)
	fmt.Fprintf(w, "  Built:   %s\n", BuildDate)
	fmt.Fprintf(w, "  Go:      %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Parse parses os.Args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses a command line without the program name.
func ParseArgs(argv []string) (Command, Args) {
	// Parse global flags first
	remaining, parsedArgs := parseGlobalFlags(argv)

	// If no remaining args, default to TUI
	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	word := remaining[0]
	cmd := strings.ToLower(word)
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "ask", "a":
		parseAskArgs(&parsedArgs, remaining)
		return CmdAsk, parsedArgs

	case "chat":
		return CmdChat, parsedArgs

	case "config":
		if len(remaining) > 0 {
			parsedArgs.Subcommand = strings.ToLower(remaining[0])
		}
		return CmdConfig, parsedArgs

	case "version", "-v", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		// Unknown command: treat the whole line as a question
		parsedArgs.Raw = append([]string{word}, remaining...)
		parseAskArgs(&parsedArgs, parsedArgs.Raw)
		return CmdAsk, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "--mock":
			parsedArgs.Mock = true
		case "--dev":
			parsedArgs.Dev = true
		case "--no-links":
			parsedArgs.NoLinks = true
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "--config":
			if i+1 < len(args) {
				i++
				parsedArgs.ConfigPath = args[i]
			}
		case "--endpoint":
			if i+1 < len(args) {
				i++
				parsedArgs.Endpoint = args[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--config="):
				parsedArgs.ConfigPath = strings.TrimPrefix(arg, "--config=")
			case strings.HasPrefix(arg, "--endpoint="):
				parsedArgs.Endpoint = strings.TrimPrefix(arg, "--endpoint=")
			default:
				remaining = append(remaining, arg)
			}
		}
	}

	return remaining, parsedArgs
}

// parseAskArgs joins the question words. A lone "-" selects stdin.
func parseAskArgs(args *Args, remaining []string) {
	var query []string
	for _, arg := range remaining {
		if arg == "-" {
			continue
		}
		query = append(query, arg)
	}
	args.Query = strings.Join(query, " ")
}

// =============================================================================
// COMMAND HANDLERS
// =============================================================================

// HandleAsk handles the "ask" command.
func HandleAsk(args Args) {
	if err := HandleAskCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleChat handles the "chat" command.
func HandleChat(args Args) {
	if err := HandleChatCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleConfig handles the "config" command.
func HandleConfig(args Args) {
	if err := HandleConfigCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleVersion handles the "version" command.
func HandleVersion() {
	PrintVersion(os.Stdout)
}

// HandleHelp handles the "help" command.
func HandleHelp() {
	PrintUsage(os.Stdout)
}
