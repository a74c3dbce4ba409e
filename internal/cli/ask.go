// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question command for agentchat.
//
// Usage:
//
//	agentchat ask "What is Starknet?"
//	echo "What is a felt?" | agentchat ask
//
// On a terminal the reply is typed out at the configured reveal interval and
// followed by a list of the links it contains. Piped output gets the plain
// reply so scripts see exactly what the agent sent.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/MarcusDavidG/AI-agent/internal/config"
	"github.com/MarcusDavidG/AI-agent/internal/conversation"
	"github.com/MarcusDavidG/AI-agent/internal/linkify"
	"github.com/MarcusDavidG/AI-agent/internal/reveal"
	"github.com/MarcusDavidG/AI-agent/internal/ui/components"
)

// maxStdinBytes caps a question read from stdin.
const maxStdinBytes = 1 << 20

// askUsage is shown when no question was given.
const askUsage = `agentchat ask "What is Starknet?"`

// streams bundles the I/O an ask or chat run uses.
type streams struct {
	in         io.Reader
	out        io.Writer
	errOut     io.Writer
	stdinPiped bool // Question may be read from in
	animate    bool // Out is a terminal: reveal replies
}

func osStreams() streams {
	return streams{
		in:         os.Stdin,
		out:        os.Stdout,
		errOut:     os.Stderr,
		stdinPiped: !IsTTY(),
		animate:    IsStdoutTTY(),
	}
}

// =============================================================================
// ASK HANDLER
// =============================================================================

// HandleAskCommand answers a single question and exits.
func HandleAskCommand(args Args) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return runAsk(ctx, args, osStreams())
}

func runAsk(ctx context.Context, args Args, s streams) error {
	query := args.Query
	if strings.TrimSpace(query) == "" && s.stdinPiped {
		data, err := io.ReadAll(io.LimitReader(s.in, maxStdinBytes))
		if err != nil {
			return NewCommandError("ask", "read", "stdin", err)
		}
		query = strings.TrimRight(string(data), "\r\n")
	}
	if strings.TrimSpace(query) == "" {
		return ErrMissingArgument("question", askUsage)
	}

	cfg, err := loadConfig(args, s.errOut)
	if err != nil {
		return err
	}

	ctrl := conversation.New(conversation.SourceFromConfig(cfg), conversation.OptionsFromConfig(cfg))
	defer ctrl.Close()

	text, err := ctrl.Fetch(ctx, query)
	if isInputError(err) {
		return err
	}

	if perr := printReply(ctx, s.out, text, cfg, s.animate && !args.Quiet); perr != nil {
		return perr
	}
	return err
}

// isInputError reports whether err rejected the input before any request.
func isInputError(err error) bool {
	return errors.Is(err, conversation.ErrEmptyInput) ||
		errors.Is(err, conversation.ErrInputTooLong) ||
		errors.Is(err, conversation.ErrClosed)
}

// =============================================================================
// REPLY OUTPUT
// =============================================================================

// printReply writes text to w. When animate is set the reply is typed out and
// followed by its links; otherwise it is written in one go.
func printReply(ctx context.Context, w io.Writer, text string, cfg *config.Config, animate bool) error {
	if !animate {
		_, err := fmt.Fprintln(w, text)
		return err
	}

	printed := 0
	err := reveal.Play(ctx, text, cfg.RevealInterval(), func(st reveal.State) {
		if len(st.Text) > printed {
			fmt.Fprint(w, st.Text[printed:])
			printed = len(st.Text)
		}
	})
	fmt.Fprintln(w)
	if err != nil {
		return err
	}

	printLinks(w, text, components.RenderOptions{Hyperlinks: cfg.UI.Hyperlinks})
	return nil
}

// printLinks lists the links found in text, one per line.
func printLinks(w io.Writer, text string, opts components.RenderOptions) {
	var links []linkify.Segment
	for _, seg := range linkify.Format(text) {
		if seg.IsLink() {
			links = append(links, seg)
		}
	}
	if len(links) == 0 {
		return
	}

	fmt.Fprintln(w, DimStyle.Render("Links:"))
	for i, seg := range links {
		fmt.Fprintf(w, "  [%d] %s\n", i+1, components.RenderSegments([]linkify.Segment{seg}, opts))
	}
}

// elapsed formats a request duration for the chat status line.
func elapsed(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
