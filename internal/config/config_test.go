// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// isolateHome points the config directory at a temp dir and clears overrides.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, key := range []string{
		"AGENTCHAT_ENV", "AGENTCHAT_BASE_URL", "AGENTCHAT_API_KEY", "AGENTCHAT_MOCK",
		"AGENTCHAT_REVEAL_MS", "AGENTCHAT_LOG_FILE", "AGENTCHAT_DEBUG",
	} {
		t.Setenv(key, "")
	}
	return home
}

// TestConfig_ConcurrentAccess tests that Global() and SetGlobal()
// can be safely called concurrently without race conditions.
// Run with: go test -race -v ./internal/config/
func TestConfig_ConcurrentAccess(t *testing.T) {
	isolateHome(t)
	ResetGlobalForTesting()

	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)

		go func() {
			defer wg.Done()
			c := Default()
			c.Environment = EnvDevelopment
			SetGlobal(c)
		}()

		go func() {
			defer wg.Done()
			if Global() == nil {
				t.Error("Global() returned nil")
			}
		}()
	}

	wg.Wait()
}

func TestConfig_GlobalInitialization(t *testing.T) {
	isolateHome(t)
	ResetGlobalForTesting()

	cfg := Global()
	if cfg == nil {
		t.Fatal("Global() returned nil")
	}
	if cfg.Agent.BaseURL == "" {
		t.Error("agent base URL should default")
	}
}

func TestConfig_SetGlobalOverwrites(t *testing.T) {
	isolateHome(t)
	ResetGlobalForTesting()
	_ = Global()

	custom := Default()
	custom.Agent.BaseURL = "https://agent.example.com"
	SetGlobal(custom)

	if got := Global().Agent.BaseURL; got != "https://agent.example.com" {
		t.Errorf("Expected overwritten base URL, got '%s'", got)
	}
}

// =============================================================================
// DEFAULTS
// =============================================================================

func TestConfig_Default(t *testing.T) {
	cfg := Default()

	if cfg.Environment != EnvProduction {
		t.Errorf("Environment = %q, want production", cfg.Environment)
	}
	if cfg.IsDevelopment() {
		t.Error("default config must not be development")
	}
	if cfg.Agent.Path != "/api/agent/request" {
		t.Errorf("Agent.Path = %q", cfg.Agent.Path)
	}
	if cfg.Agent.APIKeyHeader != "x-api-key" {
		t.Errorf("Agent.APIKeyHeader = %q", cfg.Agent.APIKeyHeader)
	}
	if cfg.RevealInterval() != 10*time.Millisecond {
		t.Errorf("RevealInterval() = %v, want 10ms", cfg.RevealInterval())
	}
	if cfg.StillLoadingAfter() != 5*time.Second {
		t.Errorf("StillLoadingAfter() = %v, want 5s", cfg.StillLoadingAfter())
	}
	if cfg.UI.MaxInputChars != 10000 {
		t.Errorf("MaxInputChars = %d, want 10000", cfg.UI.MaxInputChars)
	}
	if cfg.MockDelay() != time.Second {
		t.Errorf("MockDelay() = %v, want 1s", cfg.MockDelay())
	}
	if cfg.UI.MockReply != "This is a response from the AI." {
		t.Errorf("MockReply = %q", cfg.UI.MockReply)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"development", func(c *Config) { c.Environment = EnvDevelopment }, ""},
		{"bad environment", func(c *Config) { c.Environment = "staging" }, "environment"},
		{"bad scheme", func(c *Config) { c.Agent.BaseURL = "ftp://x" }, "agent.base_url"},
		{"relative path", func(c *Config) { c.Agent.Path = "api" }, "agent.path"},
		{"negative timeout", func(c *Config) { c.Agent.TimeoutSecs = -1 }, "agent.timeout_secs"},
		{"negative rpm", func(c *Config) { c.Agent.RequestsPerMinute = -5 }, "agent.requests_per_minute"},
		{"zero reveal", func(c *Config) { c.UI.RevealIntervalMs = 0 }, "ui.reveal_interval_ms"},
		{"huge reveal", func(c *Config) { c.UI.RevealIntervalMs = 5000 }, "ui.reveal_interval_ms"},
		{"zero still loading", func(c *Config) { c.UI.StillLoadingSecs = 0 }, "ui.still_loading_secs"},
		{"zero max input", func(c *Config) { c.UI.MaxInputChars = 0 }, "ui.max_input_chars"},
		{"negative mock delay", func(c *Config) { c.UI.MockDelayMs = -1 }, "ui.mock_delay_ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error mentioning %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.wantErr)
			}
			if _, ok := err.(ValidateErrors); !ok {
				t.Errorf("error type = %T, want ValidateErrors", err)
			}
		})
	}
}

func TestConfig_SetDefaultsFillsZeroes(t *testing.T) {
	cfg := &Config{Environment: "Development"}
	cfg.SetDefaults()

	if cfg.Environment != EnvDevelopment {
		t.Errorf("Environment should be normalised, got %q", cfg.Environment)
	}
	if cfg.Agent.BaseURL == "" || cfg.UI.RevealIntervalMs == 0 || cfg.UI.MockReply == "" {
		t.Errorf("SetDefaults left zero values: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("filled config should validate: %v", err)
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

func TestConfig_ApplyEnvOverrides(t *testing.T) {
	isolateHome(t)
	t.Setenv("AGENTCHAT_ENV", "development")
	t.Setenv("AGENTCHAT_BASE_URL", "https://agent.example.com")
	t.Setenv("AGENTCHAT_API_KEY", "secret")
	t.Setenv("AGENTCHAT_MOCK", "true")
	t.Setenv("AGENTCHAT_REVEAL_MS", "25")
	t.Setenv("AGENTCHAT_LOG_FILE", "/tmp/agentchat.log")
	t.Setenv("AGENTCHAT_DEBUG", "1")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if !cfg.IsDevelopment() {
		t.Error("AGENTCHAT_ENV not applied")
	}
	if cfg.Agent.BaseURL != "https://agent.example.com" {
		t.Errorf("BaseURL = %q", cfg.Agent.BaseURL)
	}
	if cfg.Agent.APIKey != "secret" {
		t.Errorf("APIKey = %q", cfg.Agent.APIKey)
	}
	if !cfg.UI.Mock {
		t.Error("AGENTCHAT_MOCK not applied")
	}
	if cfg.UI.RevealIntervalMs != 25 {
		t.Errorf("RevealIntervalMs = %d", cfg.UI.RevealIntervalMs)
	}
	if cfg.Logging.File != "/tmp/agentchat.log" || !cfg.Logging.Debug {
		t.Errorf("logging overrides not applied: %+v", cfg.Logging)
	}
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	isolateHome(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Agent.BaseURL != Default().Agent.BaseURL {
		t.Errorf("BaseURL = %q", cfg.Agent.BaseURL)
	}
	if ActivePath() != "" {
		t.Errorf("ActivePath() = %q, want empty", ActivePath())
	}
}

func TestLoadFromPath_TOMLPartialKeepsDefaults(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `environment = "development"

[agent]
base_url = "https://agent.example.com"
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if !cfg.IsDevelopment() {
		t.Error("environment not read from file")
	}
	if cfg.Agent.BaseURL != "https://agent.example.com" {
		t.Errorf("BaseURL = %q", cfg.Agent.BaseURL)
	}
	if cfg.Agent.Path != "/api/agent/request" {
		t.Errorf("missing key should keep default, got %q", cfg.Agent.Path)
	}
	if !cfg.UI.Hyperlinks {
		t.Error("hyperlinks default lost")
	}
}

func TestLoadFromPath_Invalid(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("environment = \"staging\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFromPath(path); err == nil {
		t.Error("expected validation error")
	}
}

func TestLoad_BrokenFileFallsBackToDefaults(t *testing.T) {
	home := isolateHome(t)
	dir := filepath.Join(home, ".agentchat")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not = [toml"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err == nil {
		t.Error("expected the parse error to be reported")
	}
	if cfg == nil || cfg.Agent.BaseURL != Default().Agent.BaseURL {
		t.Error("expected defaults alongside the error")
	}
}

func TestSaveTOML_RoundTrip(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Agent.APIKey = "k"
	cfg.UI.Mock = true
	if err := SaveTOML(cfg, path); err != nil {
		t.Fatalf("SaveTOML() error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 && os.Getenv("OS") != "Windows_NT" {
		t.Errorf("permissions = %o, want 600", perm)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if loaded.Agent.APIKey != "k" || !loaded.UI.Mock {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestSaveJSON_LoadJSON(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := Default()
	cfg.Environment = EnvDevelopment
	if err := SaveJSON(cfg, path); err != nil {
		t.Fatalf("SaveJSON() error: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if !loaded.IsDevelopment() {
		t.Error("environment lost in JSON round trip")
	}
}

func TestConfig_Clone(t *testing.T) {
	cfg := Default()
	clone := cfg.Clone()
	clone.Agent.BaseURL = "https://changed.example.com"

	if cfg.Agent.BaseURL == clone.Agent.BaseURL {
		t.Error("Clone() should not share state with the original")
	}
}

// =============================================================================
// WATCH
// =============================================================================

func TestWatch_ReloadsOnWrite(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("environment = \"production\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- WatchWithDebounce(ctx, path, 20*time.Millisecond, func(cfg *Config, err error) {
			if err == nil {
				reloaded <- cfg
			}
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("environment = \"development\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-reloaded:
		if !cfg.IsDevelopment() {
			t.Errorf("reloaded config environment = %q", cfg.Environment)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no reload observed")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Watch returned error: %v", err)
	}
}

func TestWatch_EmptyPath(t *testing.T) {
	if err := Watch(context.Background(), "", func(*Config, error) {}); err == nil {
		t.Error("expected error for empty path")
	}
}
