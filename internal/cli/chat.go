// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Line-mode chat for agentchat.
//
// A REPL for terminals where the full-screen TUI is unwanted. Input history
// is kept in ~/.agentchat/chat_history.
//
// Commands:
//
//	/help, /h, /?       Show commands
//	/clear, /c          Start a new conversation
//	/history            Show the conversation so far
//	/copy               Copy the latest reply to the clipboard
//	/quit, /exit, /q    Leave (also: Ctrl+D)
//
// Any other line, including a bare "exit", is sent to the agent.

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/peterh/liner"

	"github.com/MarcusDavidG/AI-agent/internal/config"
	"github.com/MarcusDavidG/AI-agent/internal/conversation"
	"github.com/MarcusDavidG/AI-agent/internal/model"
	"github.com/MarcusDavidG/AI-agent/internal/ui/components"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// historyFileName is the liner history file inside the config directory.
const historyFileName = "chat_history"

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a new ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		// Fallback to temp directory if config dir unavailable
		configDir = os.TempDir()
	}

	cli := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, historyFileName),
	}
	cli.LoadHistory()
	return cli
}

// LoadHistory loads command history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists command history to file with secure permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}

	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// CHAT SESSION
// =============================================================================

// chatSession holds the state of one line-mode chat.
type chatSession struct {
	cfg     *config.Config
	ctrl    *conversation.Controller
	out     io.Writer
	animate bool

	copyToClipboard func(string) error

	mu     sync.Mutex
	cancel context.CancelFunc
}

func newChatSession(cfg *config.Config, out io.Writer, animate bool) *chatSession {
	return &chatSession{
		cfg:             cfg,
		ctrl:            newController(cfg),
		out:             out,
		animate:         animate,
		copyToClipboard: clipboard.WriteAll,
	}
}

func newController(cfg *config.Config) *conversation.Controller {
	return conversation.New(conversation.SourceFromConfig(cfg), conversation.OptionsFromConfig(cfg))
}

// interrupt cancels the request in progress, if any. It reports whether
// there was one.
func (s *chatSession) interrupt() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil {
		return false
	}
	s.cancel()
	s.cancel = nil
	return true
}

// cancelOnInterrupt cancels the pending request for every signal on sig
// until the returned stop func is called. stop waits for the watcher to exit.
func (s *chatSession) cancelOnInterrupt(sig <-chan os.Signal, warn io.Writer) (stop func()) {
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		for {
			select {
			case <-done:
				return
			case <-sig:
				if s.interrupt() {
					fmt.Fprintln(warn, "\n"+WarningStyle.Render("[Cancelled]"))
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
		<-exited
	}
}

func (s *chatSession) setCancel(cancel context.CancelFunc) {
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChatCommand runs the line-mode chat until the user leaves.
func HandleChatCommand(args Args) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}

	session := newChatSession(cfg, os.Stdout, IsStdoutTTY() && !args.Quiet)
	defer session.ctrl.Close()

	if !args.Quiet {
		printWelcome(session.out, cfg)
	}

	input := NewChatCLI()
	defer input.Close()

	// First Ctrl+C while a reply is pending cancels it; liner handles the
	// prompt itself.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	stopInterrupts := session.cancelOnInterrupt(sigChan, os.Stderr)
	defer func() {
		signal.Stop(sigChan)
		stopInterrupts()
	}()

	for {
		line, err := input.ReadInput("you> ")
		if err != nil {
			// Ctrl+C at the prompt, Ctrl+D or a closed stdin
			fmt.Println()
			return nil
		}
		if !session.handleLine(context.Background(), line) {
			return nil
		}
	}
}

// handleLine processes one line of input. It returns false when the user
// asked to leave.
func (s *chatSession) handleLine(ctx context.Context, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return true
	}

	if strings.HasPrefix(input, "/") {
		return s.handleSlashCommand(input)
	}
	s.ask(ctx, line)
	return true
}

// ask sends line to the agent and prints the reply.
func (s *chatSession) ask(ctx context.Context, line string) {
	ctx, cancel := context.WithCancel(ctx)
	s.setCancel(cancel)
	defer func() {
		s.setCancel(nil)
		cancel()
	}()

	start := time.Now()
	text, err := s.ctrl.Fetch(ctx, line)
	if isInputError(err) {
		fmt.Fprintf(s.out, "%s %v\n", ErrorStyle.Render("[Error]"), err)
		return
	}

	fmt.Fprint(s.out, AgentStyle.Render("agent> "))
	if perr := printReply(ctx, s.out, text, s.cfg, s.animate); perr != nil {
		return
	}
	if s.animate {
		fmt.Fprintln(s.out, DimStyle.Render(elapsed(time.Since(start))))
	}
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

func (s *chatSession) handleSlashCommand(input string) bool {
	cmd := strings.ToLower(strings.Fields(input)[0])

	switch cmd {
	case "/quit", "/exit", "/q":
		return false

	case "/help", "/h", "/?":
		printChatHelp(s.out)

	case "/clear", "/c":
		s.ctrl.Close()
		s.ctrl = newController(s.cfg)
		fmt.Fprintln(s.out, DimStyle.Render("Conversation cleared."))

	case "/history":
		s.printHistory()

	case "/copy":
		msg, ok := s.ctrl.Conversation().LastFrom(model.SenderAgent)
		if !ok {
			fmt.Fprintln(s.out, WarningStyle.Render("No reply to copy yet."))
			break
		}
		if err := s.copyToClipboard(msg.Text); err != nil {
			fmt.Fprintf(s.out, "%s %v\n", ErrorStyle.Render("[Error]"), err)
			break
		}
		fmt.Fprintln(s.out, DimStyle.Render("Reply copied to clipboard."))

	default:
		fmt.Fprintf(s.out, "%s unknown command %s (try /help)\n", ErrorStyle.Render("[Error]"), cmd)
	}
	return true
}

func (s *chatSession) printHistory() {
	messages := s.ctrl.Messages()
	if len(messages) == 0 {
		fmt.Fprintln(s.out, DimStyle.Render("No messages yet."))
		return
	}
	opts := components.RenderOptions{Hyperlinks: s.cfg.UI.Hyperlinks && s.animate}
	for _, msg := range messages {
		text := msg.Text
		if msg.Sender == model.SenderAgent {
			text = components.RenderText(text, opts)
		}
		fmt.Fprintf(s.out, "%s %s\n%s\n\n",
			DimStyle.Render(msg.Clock()),
			TitleStyle.Render(msg.Sender.DisplayName()),
			text)
	}
}

func printWelcome(w io.Writer, cfg *config.Config) {
	mode := components.ModeAgent
	target := strings.TrimRight(cfg.Agent.BaseURL, "/") + cfg.Agent.Path
	if cfg.UI.Mock {
		mode = components.ModeMock
		target = "canned reply"
	}
	fmt.Fprintf(w, "%s %s\n", TitleStyle.Render(components.DefaultTitle), DimStyle.Render("["+mode.String()+"] "+target))
	fmt.Fprintln(w, DimStyle.Render("Type a question, /help for commands, /quit to leave."))
	fmt.Fprintln(w, RenderSeparator(GetTerminalWidth()/2))
}

func printChatHelp(w io.Writer) {
	commands := []struct{ name, desc string }{
		{"/help, /h, /?", "Show this help"},
		{"/clear, /c", "Start a new conversation"},
		{"/history", "Show the conversation so far"},
		{"/copy", "Copy the latest reply to the clipboard"},
		{"/quit, /exit, /q", "Leave the chat"},
	}
	for _, c := range commands {
		fmt.Fprintf(w, "  %-20s %s\n", c.name, DimStyle.Render(c.desc))
	}
}
