// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"

	"github.com/MarcusDavidG/AI-agent/internal/config"
)

// =============================================================================
// CONFIG LOADING
// =============================================================================

// LoadConfig loads the configuration for a command and applies the global
// flags on top of it. A broken default config file is reported on stderr and
// replaced by defaults; a broken --config file is an error.
func LoadConfig(args Args) (*config.Config, error) {
	return loadConfig(args, os.Stderr)
}

func loadConfig(args Args, warn io.Writer) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if args.ConfigPath != "" {
		cfg, err = config.LoadFromPath(args.ConfigPath)
		if err != nil {
			return nil, NewCommandError("config", "load", args.ConfigPath, err)
		}
	} else {
		cfg, err = config.Load()
		if cfg == nil {
			return nil, NewCommandError("config", "load", "defaults", err)
		}
		if err != nil {
			fmt.Fprintf(warn, "%s %v (using defaults)\n", WarningStyle.Render("Warning:"), err)
		}
	}

	ApplyFlags(cfg, args)
	if err := cfg.Validate(); err != nil {
		return nil, &ValidationError{Field: "flags", Reason: err.Error()}
	}
	return cfg, nil
}

// ApplyFlags overrides cfg with the global command-line flags.
func ApplyFlags(cfg *config.Config, args Args) {
	if args.Mock {
		cfg.UI.Mock = true
	}
	if args.Dev {
		cfg.Environment = config.EnvDevelopment
	}
	if args.Endpoint != "" {
		cfg.Agent.BaseURL = args.Endpoint
	}
	if args.NoLinks {
		cfg.UI.Hyperlinks = false
	}
}

// =============================================================================
// CONFIG COMMAND
// =============================================================================

// HandleConfigCommand handles "agentchat config [show|path|init|reset]".
func HandleConfigCommand(args Args) error {
	return runConfig(args, os.Stdout, os.Stderr)
}

func runConfig(args Args, out, errOut io.Writer) error {
	switch args.Subcommand {
	case "", "show":
		return configShow(args, out, errOut)
	case "path":
		return configPath(args, out, errOut)
	case "init":
		return configInit(args, out, false)
	case "reset":
		return configInit(args, out, true)
	default:
		return &ValidationError{Field: "config", Reason: "unknown subcommand " + args.Subcommand}
	}
}

// configFilePath returns --config when given, else the default TOML path.
func configFilePath(args Args) (string, error) {
	if args.ConfigPath != "" {
		return args.ConfigPath, nil
	}
	return config.ConfigPathTOML()
}

// configShow prints the effective configuration, flags included, with the
// API key masked.
func configShow(args Args, out, errOut io.Writer) error {
	cfg, err := loadConfig(args, errOut)
	if err != nil {
		return err
	}

	shown := cfg.Clone()
	shown.Agent.APIKey = maskAPIKey(cfg.Agent.APIKey)
	return config.EncodeTOML(shown, out)
}

func configPath(args Args, out, errOut io.Writer) error {
	path, err := configFilePath(args)
	if err != nil {
		return NewCommandError("config", "path", "", err)
	}
	fmt.Fprintln(out, path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(errOut, "%s file does not exist; run 'agentchat config init'\n", DimStyle.Render("Note:"))
	}
	return nil
}

// configInit writes a default config file. Without overwrite an existing
// file is left alone.
func configInit(args Args, out io.Writer, overwrite bool) error {
	path, err := configFilePath(args)
	if err != nil {
		return NewCommandError("config", "init", "", err)
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return NewCommandError("config", "init", path,
				fmt.Errorf("file exists (use 'agentchat config reset' to overwrite)"))
		}
	}

	if args.ConfigPath == "" {
		err = config.Save(config.Default())
	} else {
		err = config.SaveTOML(config.Default(), path)
	}
	if err != nil {
		return NewCommandError("config", "init", path, err)
	}

	fmt.Fprintf(out, "%s Wrote default configuration to %s\n", SuccessStyle.Render("[OK]"), path)
	return nil
}

// maskAPIKey shows only a short fingerprint of the key.
func maskAPIKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) < 8 {
		return "[set]"
	}
	hash := sha256.Sum256([]byte(key))
	return fmt.Sprintf("sha256:%x...", hash[:4])
}
