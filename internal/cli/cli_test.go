// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MarcusDavidG/AI-agent/internal/agent"
	"github.com/MarcusDavidG/AI-agent/internal/config"
	"github.com/MarcusDavidG/AI-agent/internal/conversation"
)

const testHash = "0x049d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7"

// isolateHome points the config directory at a temp dir and clears the
// environment overrides.
func isolateHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("USERPROFILE", dir)
	for _, k := range []string{"AGENTCHAT_ENV", "AGENTCHAT_BASE_URL", "AGENTCHAT_API_KEY", "AGENTCHAT_MOCK", "AGENTCHAT_REVEAL_MS", "AGENTCHAT_LOG_FILE", "AGENTCHAT_DEBUG"} {
		t.Setenv(k, "")
	}
	return dir
}

// writeConfig writes a TOML config file and returns its path.
func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func mockConfig(t *testing.T, reply string) string {
	return writeConfig(t, fmt.Sprintf(`
environment = "development"
[ui]
mock = true
mock_delay_ms = 0
mock_reply = %q
hyperlinks = false
reveal_interval_ms = 1
`, reply))
}

func testStreams(stdin string) (streams, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return streams{
		in:         strings.NewReader(stdin),
		out:        &out,
		errOut:     &errOut,
		stdinPiped: stdin != "",
	}, &out, &errOut
}

// =============================================================================
// PARSE TESTS
// =============================================================================

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name     string
		argv     []string
		wantCmd  Command
		validate func(*testing.T, Args)
	}{
		{
			name:    "no args starts TUI",
			argv:    nil,
			wantCmd: CmdTUI,
		},
		{
			name:    "ask joins the question",
			argv:    []string{"ask", "what", "is", "starknet?"},
			wantCmd: CmdAsk,
			validate: func(t *testing.T, a Args) {
				if a.Query != "what is starknet?" {
					t.Errorf("Query = %q", a.Query)
				}
			},
		},
		{
			name:    "ask with dash reads stdin",
			argv:    []string{"ask", "-"},
			wantCmd: CmdAsk,
			validate: func(t *testing.T, a Args) {
				if a.Query != "" {
					t.Errorf("Query = %q, want empty", a.Query)
				}
			},
		},
		{
			name:    "global flags anywhere",
			argv:    []string{"--mock", "chat", "--dev", "--no-links", "-q"},
			wantCmd: CmdChat,
			validate: func(t *testing.T, a Args) {
				if !a.Mock || !a.Dev || !a.NoLinks || !a.Quiet {
					t.Errorf("flags not parsed: %+v", a)
				}
			},
		},
		{
			name:    "flag values",
			argv:    []string{"--config", "/tmp/c.toml", "--endpoint=https://agent.example.com", "ask", "hi"},
			wantCmd: CmdAsk,
			validate: func(t *testing.T, a Args) {
				if a.ConfigPath != "/tmp/c.toml" {
					t.Errorf("ConfigPath = %q", a.ConfigPath)
				}
				if a.Endpoint != "https://agent.example.com" {
					t.Errorf("Endpoint = %q", a.Endpoint)
				}
			},
		},
		{
			name:    "unknown word is a question",
			argv:    []string{"What", "is", "a", "felt?"},
			wantCmd: CmdAsk,
			validate: func(t *testing.T, a Args) {
				if a.Query != "What is a felt?" {
					t.Errorf("Query = %q", a.Query)
				}
			},
		},
		{name: "version", argv: []string{"--version"}, wantCmd: CmdVersion},
		{name: "help", argv: []string{"help"}, wantCmd: CmdHelp},
		{name: "explicit tui", argv: []string{"TUI"}, wantCmd: CmdTUI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := ParseArgs(tt.argv)
			if cmd != tt.wantCmd {
				t.Errorf("command = %v, want %v", cmd, tt.wantCmd)
			}
			if tt.validate != nil {
				tt.validate(t, args)
			}
		})
	}
}

func TestCommandString(t *testing.T) {
	for cmd, want := range map[Command]string{
		CmdTUI: "tui", CmdAsk: "ask", CmdChat: "chat", CmdConfig: "config", CmdVersion: "version", CmdHelp: "help", Command(99): "unknown",
	} {
		if got := cmd.String(); got != want {
			t.Errorf("Command(%d).String() = %q, want %q", cmd, got, want)
		}
	}
}

func TestPrintUsageAndVersion(t *testing.T) {
	var buf bytes.Buffer
	PrintUsage(&buf)
	for _, want := range []string{"agentchat ask", "--endpoint", "AGENTCHAT_API_KEY"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("usage missing %q", want)
		}
	}

	buf.Reset()
	PrintVersion(&buf)
	if !strings.Contains(buf.String(), "agentchat "+Version) {
		t.Errorf("version output = %q", buf.String())
	}
}

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestApplyFlags(t *testing.T) {
	cfg := config.Default()
	ApplyFlags(cfg, Args{Mock: true, Dev: true, Endpoint: "https://agent.example.com", NoLinks: true})

	if !cfg.UI.Mock {
		t.Error("--mock not applied")
	}
	if !cfg.IsDevelopment() {
		t.Error("--dev not applied")
	}
	if cfg.Agent.BaseURL != "https://agent.example.com" {
		t.Errorf("BaseURL = %q", cfg.Agent.BaseURL)
	}
	if cfg.UI.Hyperlinks {
		t.Error("--no-links not applied")
	}
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	isolateHome(t)
	path := mockConfig(t, "canned")

	cfg, err := LoadConfig(Args{ConfigPath: path})
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !cfg.UI.Mock || cfg.UI.MockReply != "canned" || cfg.UI.MockDelayMs != 0 {
		t.Errorf("config not loaded: %+v", cfg.UI)
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	isolateHome(t)

	_, err := LoadConfig(Args{ConfigPath: filepath.Join(t.TempDir(), "nope.toml")})
	if err == nil {
		t.Fatal("expected an error for a missing --config file")
	}
	if code := GetExitCode(err); code != ExitConfigError {
		t.Errorf("exit code = %d, want %d", code, ExitConfigError)
	}
}

func TestLoadConfig_BrokenDefaultFileWarns(t *testing.T) {
	home := isolateHome(t)
	dir := filepath.Join(home, ".agentchat")
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not = [valid"), 0600); err != nil {
		t.Fatal(err)
	}

	var warn bytes.Buffer
	cfg, err := loadConfig(Args{}, &warn)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Agent.BaseURL != config.Default().Agent.BaseURL {
		t.Error("expected defaults after a broken config file")
	}
	if !strings.Contains(warn.String(), "using defaults") {
		t.Errorf("warning = %q", warn.String())
	}
}

func TestLoadConfig_InvalidEndpoint(t *testing.T) {
	isolateHome(t)

	_, err := LoadConfig(Args{Endpoint: "ftp://agent.example.com"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if code := GetExitCode(err); code != ExitUsageError {
		t.Errorf("exit code = %d, want %d", code, ExitUsageError)
	}
}

// =============================================================================
// ERROR TESTS
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"validation", ErrMissingArgument("question", askUsage), ExitUsageError},
		{"too long", fmt.Errorf("%w: 11/10 characters", conversation.ErrInputTooLong), ExitUsageError},
		{"config", NewCommandError("config", "load", "x", errors.New("boom")), ExitConfigError},
		{"timeout", agent.ErrTimeout, ExitTimeoutError},
		{"status", &agent.ClientError{Type: agent.ErrTypeStatus, Message: "bad", StatusCode: 500}, ExitNetworkError},
		{"other", errors.New("boom"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCommandErrorUnwrap(t *testing.T) {
	inner := errors.New("inner")
	err := NewCommandError("ask", "read", "stdin", inner)
	if !errors.Is(err, inner) {
		t.Error("CommandError should unwrap to its cause")
	}
	if err.Error() != "ask read failed: stdin: inner" {
		t.Errorf("Error() = %q", err.Error())
	}
}

// =============================================================================
// ASK TESTS
// =============================================================================

func TestRunAsk_Mock(t *testing.T) {
	isolateHome(t)
	s, out, _ := testStreams("")

	err := runAsk(context.Background(), Args{Query: "hi", ConfigPath: mockConfig(t, "hello from the mock")}, s)
	if err != nil {
		t.Fatalf("runAsk() error = %v", err)
	}
	if out.String() != "hello from the mock\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunAsk_Stdin(t *testing.T) {
	isolateHome(t)
	s, out, _ := testStreams("question from a pipe\n")

	if err := runAsk(context.Background(), Args{ConfigPath: mockConfig(t, "piped")}, s); err != nil {
		t.Fatalf("runAsk() error = %v", err)
	}
	if out.String() != "piped\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestRunAsk_NoQuestion(t *testing.T) {
	isolateHome(t)
	s, _, _ := testStreams("")

	err := runAsk(context.Background(), Args{}, s)
	if GetExitCode(err) != ExitUsageError {
		t.Errorf("expected a usage error, got %v", err)
	}
}

func TestRunAsk_AnimatedWithLinks(t *testing.T) {
	isolateHome(t)
	s, out, _ := testStreams("")
	s.animate = true

	err := runAsk(context.Background(), Args{Query: "tx?", ConfigPath: mockConfig(t, "done: "+testHash)}, s)
	if err != nil {
		t.Fatalf("runAsk() error = %v", err)
	}

	got := out.String()
	if !strings.HasPrefix(got, "done: "+testHash+"\n") {
		t.Errorf("animated output should end with the full reply, got %q", got)
	}
	if !strings.Contains(got, "Links:") || !strings.Contains(got, "<https://starkscan.co/tx/"+testHash+">") {
		t.Errorf("link list missing: %q", got)
	}
}

func TestRunAsk_AgentFailure(t *testing.T) {
	isolateHome(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	s, out, _ := testStreams("")
	err := runAsk(context.Background(), Args{Query: "hi", Endpoint: srv.URL, Dev: true}, s)
	if err == nil {
		t.Fatal("expected an error for a 500 response")
	}
	if code := GetExitCode(err); code != ExitNetworkError {
		t.Errorf("exit code = %d, want %d", code, ExitNetworkError)
	}
	if !strings.HasPrefix(out.String(), "Error: ") {
		t.Errorf("development output should show the error, got %q", out.String())
	}
}

func TestRunAsk_AgentFailureProduction(t *testing.T) {
	isolateHome(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s, out, _ := testStreams("")
	_ = runAsk(context.Background(), Args{Query: "hi", Endpoint: srv.URL}, s)
	if out.String() != conversation.ProductionFailureText+"\n" {
		t.Errorf("output = %q", out.String())
	}
}

// =============================================================================
// CHAT TESTS
// =============================================================================

func newTestSession(t *testing.T, reply string) (*chatSession, *bytes.Buffer) {
	t.Helper()
	isolateHome(t)
	cfg, err := LoadConfig(Args{ConfigPath: mockConfig(t, reply)})
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	s := newChatSession(cfg, &out, false)
	t.Cleanup(s.ctrl.Close)
	return s, &out
}

func TestChatSession_Exit(t *testing.T) {
	s, _ := newTestSession(t, "x")
	for _, line := range []string{"/quit", "/QUIT", "/q", "/exit"} {
		if s.handleLine(context.Background(), line) {
			t.Errorf("handleLine(%q) should end the chat", line)
		}
	}
	if !s.handleLine(context.Background(), "   ") {
		t.Error("blank line should be ignored")
	}
}

func TestChatSession_BareExitIsAQuestion(t *testing.T) {
	s, out := newTestSession(t, "pong")
	for _, line := range []string{"exit", "quit"} {
		if !s.handleLine(context.Background(), line) {
			t.Errorf("handleLine(%q) should not end the chat", line)
		}
	}
	if n := len(s.ctrl.Messages()); n != 4 {
		t.Errorf("expected two questions and two replies, got %d messages", n)
	}
	if strings.Count(out.String(), "pong") != 2 {
		t.Errorf("expected two agent replies, got %q", out.String())
	}
}

func TestChatSession_CancelOnInterrupt(t *testing.T) {
	s, _ := newTestSession(t, "x")
	sig := make(chan os.Signal, 1)
	var warn bytes.Buffer

	cancelled := make(chan struct{})
	s.setCancel(func() { close(cancelled) })

	stop := s.cancelOnInterrupt(sig, &warn)
	sig <- os.Interrupt

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("interrupt did not cancel the pending request")
	}

	returned := make(chan struct{})
	go func() {
		stop()
		stop()
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("stop() did not end the interrupt watcher")
	}
	if !strings.Contains(warn.String(), "[Cancelled]") {
		t.Errorf("warning = %q", warn.String())
	}
}

func TestChatSession_AskAndHistory(t *testing.T) {
	s, out := newTestSession(t, "gm")

	if !s.handleLine(context.Background(), "hello") {
		t.Fatal("chat ended unexpectedly")
	}
	if !strings.Contains(out.String(), "gm") {
		t.Errorf("reply missing: %q", out.String())
	}
	if n := len(s.ctrl.Messages()); n != 2 {
		t.Errorf("messages = %d, want 2", n)
	}

	out.Reset()
	s.handleLine(context.Background(), "/history")
	for _, want := range []string{"You", "hello", "Agent", "gm"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("history missing %q: %q", want, out.String())
		}
	}

	s.handleLine(context.Background(), "/clear")
	if len(s.ctrl.Messages()) != 0 {
		t.Error("/clear should start a new conversation")
	}
}

func TestChatSession_Copy(t *testing.T) {
	s, out := newTestSession(t, "copy me")
	var copied string
	s.copyToClipboard = func(text string) error {
		copied = text
		return nil
	}

	s.handleLine(context.Background(), "/copy")
	if copied != "" || !strings.Contains(out.String(), "No reply to copy yet") {
		t.Errorf("copy before any reply: copied=%q out=%q", copied, out.String())
	}

	s.handleLine(context.Background(), "q")
	s.handleLine(context.Background(), "/copy")
	if copied != "copy me" {
		t.Errorf("copied = %q", copied)
	}
}

func TestChatSession_UnknownCommand(t *testing.T) {
	s, out := newTestSession(t, "x")
	if !s.handleLine(context.Background(), "/frobnicate") {
		t.Error("unknown command should not end the chat")
	}
	if !strings.Contains(out.String(), "unknown command /frobnicate") {
		t.Errorf("output = %q", out.String())
	}

	out.Reset()
	s.handleLine(context.Background(), "/help")
	if !strings.Contains(out.String(), "/history") {
		t.Errorf("help output = %q", out.String())
	}
}

func TestChatSession_Interrupt(t *testing.T) {
	s, _ := newTestSession(t, "x")
	if s.interrupt() {
		t.Error("interrupt() with nothing pending should report false")
	}

	cancelled := false
	s.setCancel(func() { cancelled = true })
	if !s.interrupt() || !cancelled {
		t.Error("interrupt() should cancel the pending request")
	}
	if s.interrupt() {
		t.Error("second interrupt() should be a no-op")
	}
}

func TestElapsed(t *testing.T) {
	if got := elapsed(250 * time.Millisecond); got != "250ms" {
		t.Errorf("elapsed(250ms) = %q", got)
	}
	if got := elapsed(1500 * time.Millisecond); got != "1.5s" {
		t.Errorf("elapsed(1.5s) = %q", got)
	}
}

// =============================================================================
// CONFIG COMMAND TESTS
// =============================================================================

func TestParseArgs_Config(t *testing.T) {
	cmd, args := ParseArgs([]string{"--config", "x.toml", "config", "INIT"})
	if cmd != CmdConfig {
		t.Fatalf("cmd = %v, want config", cmd)
	}
	if args.Subcommand != "init" || args.ConfigPath != "x.toml" {
		t.Errorf("args = %+v", args)
	}

	if _, args := ParseArgs([]string{"config"}); args.Subcommand != "" {
		t.Errorf("bare config should default to show, got %q", args.Subcommand)
	}
}

func TestRunConfig_InitShowReset(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	args := Args{ConfigPath: path, Subcommand: "init"}

	var out, errOut bytes.Buffer
	if err := runConfig(args, &out, &errOut); err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out.String(), path) {
		t.Errorf("init output = %q", out.String())
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}

	if err := runConfig(args, &out, &errOut); GetExitCode(err) != ExitConfigError {
		t.Errorf("second init should refuse to overwrite, got %v", err)
	}

	args.Subcommand = "reset"
	if err := runConfig(args, &out, &errOut); err != nil {
		t.Fatalf("reset: %v", err)
	}

	out.Reset()
	args.Subcommand = "show"
	args.Dev = true
	if err := runConfig(args, &out, &errOut); err != nil {
		t.Fatalf("show: %v", err)
	}
	for _, want := range []string{"# agentchat configuration file", `environment = "development"`, `path = "/api/agent/request"`} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("show output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRunConfig_ShowMasksAPIKey(t *testing.T) {
	isolateHome(t)
	path := writeConfig(t, `
[agent]
api_key = "super-secret-key-123"
`)

	var out, errOut bytes.Buffer
	if err := runConfig(Args{ConfigPath: path}, &out, &errOut); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), "super-secret-key-123") {
		t.Error("show must not print the API key")
	}
	if !strings.Contains(out.String(), "sha256:") {
		t.Errorf("expected a key fingerprint:\n%s", out.String())
	}
}

func TestRunConfig_Path(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "missing.toml")

	var out, errOut bytes.Buffer
	if err := runConfig(Args{ConfigPath: path, Subcommand: "path"}, &out, &errOut); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != path {
		t.Errorf("path output = %q", out.String())
	}
	if !strings.Contains(errOut.String(), "does not exist") {
		t.Errorf("expected a missing-file note, got %q", errOut.String())
	}
}

func TestRunConfig_UnknownSubcommand(t *testing.T) {
	isolateHome(t)
	var out, errOut bytes.Buffer
	err := runConfig(Args{Subcommand: "frobnicate"}, &out, &errOut)
	if GetExitCode(err) != ExitUsageError {
		t.Errorf("exit code = %d, want usage", GetExitCode(err))
	}
}

func TestMaskAPIKey(t *testing.T) {
	if maskAPIKey("") != "" {
		t.Error("empty key should stay empty")
	}
	if maskAPIKey("short") != "[set]" {
		t.Error("short keys should not be fingerprinted")
	}
	if got := maskAPIKey("abcdefghijkl"); !strings.HasPrefix(got, "sha256:") || strings.Contains(got, "abcdefgh") {
		t.Errorf("maskAPIKey() = %q", got)
	}
}
