// agentchat - terminal chat for the Starknet agent.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MarcusDavidG/AI-agent/internal/cli"
	"github.com/MarcusDavidG/AI-agent/internal/config"
	"github.com/MarcusDavidG/AI-agent/internal/conversation"
	"github.com/MarcusDavidG/AI-agent/internal/ui/chat"
	"github.com/MarcusDavidG/AI-agent/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdAsk:
		cli.HandleAsk(args)
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdConfig:
		cli.HandleConfig(args)
	case cli.CmdVersion:
		cli.HandleVersion()
	case cli.CmdHelp:
		cli.HandleHelp()
	default:
		if err := runTUI(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(cli.GetExitCode(err))
		}
	}
}

// runTUI starts the full-screen chat.
func runTUI(args cli.Args) error {
	cfg, err := cli.LoadConfig(args)
	if err != nil {
		return err
	}
	config.SetGlobal(cfg)

	// The TUI owns the terminal, so logs go to a file or nowhere.
	if cfg.Logging.File != "" {
		f, err := tea.LogToFile(cfg.Logging.File, "agentchat")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	ctrl := conversation.New(conversation.SourceFromConfig(cfg), conversation.OptionsFromConfig(cfg))
	defer ctrl.Close()

	opts := chat.OptionsFromConfig(cfg)
	opts.Theme = styles.NewTheme()

	p := tea.NewProgram(
		chat.New(ctrl, opts),
		tea.WithAltScreen(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	watchConfig(ctx, p, args)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running agentchat: %w", err)
	}
	return nil
}

// watchConfig forwards config file changes to the running program. Flags
// given on the command line keep precedence over the reloaded file.
func watchConfig(ctx context.Context, p *tea.Program, args cli.Args) {
	path := args.ConfigPath
	if path == "" {
		path = config.ActivePath()
	}
	if path == "" {
		return
	}

	go func() {
		err := config.Watch(ctx, path, func(cfg *config.Config, err error) {
			if cfg != nil {
				cli.ApplyFlags(cfg, args)
				config.SetGlobal(cfg)
			}
			p.Send(chat.ConfigReloadedMsg{Config: cfg, Err: err})
		})
		if err != nil {
			log.Printf("CONFIG_WATCH_ERROR | path=%s error=%v", path, err)
		}
	}()
}
