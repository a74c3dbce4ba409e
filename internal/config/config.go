// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/MarcusDavidG/AI-agent/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config represents the complete agentchat configuration.
type Config struct {
	// Environment selects how request failures are reported:
	// "development" shows the error, "production" a generic apology.
	Environment string `toml:"environment" json:"environment"`

	// Agent endpoint configuration
	Agent AgentConfig `toml:"agent" json:"agent"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`

	// Logging configuration
	Logging LoggingConfig `toml:"logging" json:"logging"`
}

// AgentConfig contains settings for the remote agent endpoint.
type AgentConfig struct {
	BaseURL           string `toml:"base_url" json:"base_url"`
	Path              string `toml:"path" json:"path"`
	APIKey            string `toml:"api_key" json:"api_key"`
	APIKeyHeader      string `toml:"api_key_header" json:"api_key_header"`
	TimeoutSecs       int    `toml:"timeout_secs" json:"timeout_secs"`
	RequestsPerMinute int    `toml:"requests_per_minute" json:"requests_per_minute"`
}

// UIConfig contains user interface settings.
type UIConfig struct {
	RevealIntervalMs int    `toml:"reveal_interval_ms" json:"reveal_interval_ms"`
	StillLoadingSecs int    `toml:"still_loading_secs" json:"still_loading_secs"`
	MaxInputChars    int    `toml:"max_input_chars" json:"max_input_chars"`
	Hyperlinks       bool   `toml:"hyperlinks" json:"hyperlinks"`
	Mock             bool   `toml:"mock" json:"mock"`
	MockDelayMs      int    `toml:"mock_delay_ms" json:"mock_delay_ms"`
	MockReply        string `toml:"mock_reply" json:"mock_reply"`
}

// LoggingConfig controls the debug log file.
type LoggingConfig struct {
	File  string `toml:"file" json:"file"`
	Debug bool   `toml:"debug" json:"debug"`
}

// Default returns a new Config with sensible defaults.
func Default() *Config {
	return &Config{
		Environment: EnvProduction,
		Agent: AgentConfig{
			BaseURL:      "http://127.0.0.1:8787",
			Path:         "/api/agent/request",
			APIKeyHeader: "x-api-key",
			TimeoutSecs:  120,
		},
		UI: UIConfig{
			RevealIntervalMs: 10,
			StillLoadingSecs: 5,
			MaxInputChars:    10000,
			Hyperlinks:       true,
			MockDelayMs:      1000,
			MockReply:        "This is a response from the AI.",
		},
	}
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// IsDevelopment reports whether detailed errors should be shown.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, EnvDevelopment)
}

// RevealInterval returns the typewriter tick interval.
func (c *Config) RevealInterval() time.Duration {
	return time.Duration(c.UI.RevealIntervalMs) * time.Millisecond
}

// StillLoadingAfter returns how long a request may run before the
// "still processing" notice appears.
func (c *Config) StillLoadingAfter() time.Duration {
	return time.Duration(c.UI.StillLoadingSecs) * time.Second
}

// MockDelay returns the canned reply delay.
func (c *Config) MockDelay() time.Duration {
	return time.Duration(c.UI.MockDelayMs) * time.Millisecond
}

// AgentTimeout returns the whole-request timeout.
func (c *Config) AgentTimeout() time.Duration {
	return time.Duration(c.Agent.TimeoutSecs) * time.Second
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the agentchat configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".agentchat"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ActivePath returns the config file Load would read, or "" if none exists.
func ActivePath() string {
	for _, pathFn := range []func() (string, error){ConfigPathTOML, ConfigPathJSON} {
		path, err := pathFn()
		if err != nil {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ensureSecurePermissions checks and fixes permissions on config files.
// SECURITY: Config files hold the agent API key and should be 0600.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	mode := info.Mode().Perm()
	if mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}

	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	if path := ActivePath(); path != "" {
		cfg, err := LoadFromPath(path)
		if err == nil {
			return cfg, nil
		}
		// Fall back to defaults but surface the problem
		def, defErr := finish(Default())
		if defErr != nil {
			return nil, defErr
		}
		return def, err
	}

	return finish(Default())
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full validation.
// Keys missing from the file keep their default values.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finish(cfg)
}

// finish applies env overrides, fills defaults and validates.
func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
// SECURITY: Creates config files with 0600 permissions (owner read/write only).
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	if err := EncodeTOML(cfg, &buf); err != nil {
		return err
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600, 0755); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// EncodeTOML writes cfg as a commented TOML document.
func EncodeTOML(cfg *Config, w io.Writer) error {
	fmt.Fprintln(w, "# agentchat configuration file")
	fmt.Fprintln(w, "# Generated by agentchat - edit with care")
	fmt.Fprintln(w, "")

	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file.
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600, 0755); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	env := strings.ToLower(c.Environment)
	if env != EnvDevelopment && env != EnvProduction {
		errs = append(errs, ValidationError{
			Field:   "environment",
			Message: fmt.Sprintf("invalid environment '%s', must be one of: development, production", c.Environment),
		})
	}

	// ==========================================================================
	// Agent Settings Validation
	// ==========================================================================

	if u, err := url.Parse(c.Agent.BaseURL); err != nil {
		errs = append(errs, ValidationError{
			Field:   "agent.base_url",
			Message: fmt.Sprintf("invalid URL: %v", err),
		})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, ValidationError{
			Field:   "agent.base_url",
			Message: fmt.Sprintf("unsupported scheme '%s', must be http or https", u.Scheme),
		})
	}

	if !strings.HasPrefix(c.Agent.Path, "/") {
		errs = append(errs, ValidationError{
			Field:   "agent.path",
			Message: "must start with '/'",
		})
	}

	if c.Agent.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "agent.timeout_secs",
			Message: "cannot be negative",
		})
	}

	if c.Agent.RequestsPerMinute < 0 {
		errs = append(errs, ValidationError{
			Field:   "agent.requests_per_minute",
			Message: "cannot be negative (0 disables pacing)",
		})
	}

	// ==========================================================================
	// UI Settings Validation
	// ==========================================================================

	if c.UI.RevealIntervalMs < 1 || c.UI.RevealIntervalMs > 1000 {
		errs = append(errs, ValidationError{
			Field:   "ui.reveal_interval_ms",
			Message: fmt.Sprintf("must be between 1 and 1000, got %d", c.UI.RevealIntervalMs),
		})
	}

	if c.UI.StillLoadingSecs < 1 {
		errs = append(errs, ValidationError{
			Field:   "ui.still_loading_secs",
			Message: "must be at least 1",
		})
	}

	if c.UI.MaxInputChars < 1 {
		errs = append(errs, ValidationError{
			Field:   "ui.max_input_chars",
			Message: "must be at least 1",
		})
	}

	if c.UI.MockDelayMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "ui.mock_delay_ms",
			Message: "cannot be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills zero values that have no meaningful zero setting.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Environment == "" {
		c.Environment = defaults.Environment
	}
	c.Environment = strings.ToLower(c.Environment)

	if c.Agent.BaseURL == "" {
		c.Agent.BaseURL = defaults.Agent.BaseURL
	}
	if c.Agent.Path == "" {
		c.Agent.Path = defaults.Agent.Path
	}
	if c.Agent.APIKeyHeader == "" {
		c.Agent.APIKeyHeader = defaults.Agent.APIKeyHeader
	}
	if c.Agent.TimeoutSecs == 0 {
		c.Agent.TimeoutSecs = defaults.Agent.TimeoutSecs
	}

	if c.UI.RevealIntervalMs == 0 {
		c.UI.RevealIntervalMs = defaults.UI.RevealIntervalMs
	}
	if c.UI.StillLoadingSecs == 0 {
		c.UI.StillLoadingSecs = defaults.UI.StillLoadingSecs
	}
	if c.UI.MaxInputChars == 0 {
		c.UI.MaxInputChars = defaults.UI.MaxInputChars
	}
	if c.UI.MockReply == "" {
		c.UI.MockReply = defaults.UI.MockReply
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides.
//   - AGENTCHAT_ENV: overrides environment
//   - AGENTCHAT_BASE_URL: overrides agent.base_url
//   - AGENTCHAT_API_KEY: overrides agent.api_key
//   - AGENTCHAT_MOCK: overrides ui.mock
//   - AGENTCHAT_REVEAL_MS: overrides ui.reveal_interval_ms
//   - AGENTCHAT_LOG_FILE: overrides logging.file
//   - AGENTCHAT_DEBUG: overrides logging.debug
func (c *Config) ApplyEnvOverrides() {
	if env := os.Getenv("AGENTCHAT_ENV"); env != "" {
		c.Environment = env
	}

	if baseURL := os.Getenv("AGENTCHAT_BASE_URL"); baseURL != "" {
		c.Agent.BaseURL = baseURL
	}

	if key := os.Getenv("AGENTCHAT_API_KEY"); key != "" {
		c.Agent.APIKey = key
	}

	if mock := os.Getenv("AGENTCHAT_MOCK"); mock != "" {
		c.UI.Mock = parseBool(mock)
	}

	if ms := os.Getenv("AGENTCHAT_REVEAL_MS"); ms != "" {
		if n, err := strconv.Atoi(ms); err == nil {
			c.UI.RevealIntervalMs = n
		}
	}

	if logFile := os.Getenv("AGENTCHAT_LOG_FILE"); logFile != "" {
		c.Logging.File = logFile
	}

	if debug := os.Getenv("AGENTCHAT_DEBUG"); debug != "" {
		c.Logging.Debug = parseBool(debug)
	}
}

func parseBool(s string) bool {
	return s == "1" || strings.EqualFold(s, "true")
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
		if cfg == nil {
			cfg = Default()
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
