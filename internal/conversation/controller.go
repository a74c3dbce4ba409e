// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MarcusDavidG/AI-agent/internal/agent"
	"github.com/MarcusDavidG/AI-agent/internal/config"
	"github.com/MarcusDavidG/AI-agent/internal/model"
	"github.com/MarcusDavidG/AI-agent/internal/reveal"
	"github.com/MarcusDavidG/AI-agent/internal/util"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEmptyInput is returned for input that is blank after trimming.
	ErrEmptyInput = errors.New("input is empty")

	// ErrInputTooLong is returned for input above the character limit.
	ErrInputTooLong = errors.New("input exceeds the character limit")

	// ErrBusy is returned while a request is still awaiting its reply.
	ErrBusy = errors.New("a request is already in progress")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("conversation is closed")
)

// ProductionFailureText is shown for any request failure outside development.
const ProductionFailureText = "Sorry, something went wrong while contacting the agent. Please try again."

// FailureText converts a request failure into the text revealed to the user.
func FailureText(err error, development bool) string {
	if !development {
		return ProductionFailureText
	}
	if err == nil {
		return "Error: unknown error"
	}
	return "Error: " + err.Error()
}

// =============================================================================
// PHASE
// =============================================================================

// Phase is the controller's position in the submit cycle.
type Phase int

const (
	// PhaseIdle accepts input and has no pending reply.
	PhaseIdle Phase = iota

	// PhaseSubmitting awaits the reply; input is disabled.
	PhaseSubmitting

	// PhaseRevealing types out the latest reply. Input is enabled and a new
	// submission supersedes the reveal.
	PhaseRevealing
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSubmitting:
		return "submitting"
	case PhaseRevealing:
		return "revealing"
	default:
		return "unknown"
	}
}

// =============================================================================
// MESSAGES
// =============================================================================

// ResponseState is the single live reply shown under the transcript.
type ResponseState struct {
	Text      string
	IsTyping  bool
	CreatedAt time.Time
}

// StillLoadingMsg fires once a request has been pending for the
// still-loading threshold.
type StillLoadingMsg struct {
	ID  int
	Gen int
}

// ResponseMsg carries the outcome of one request back to the update loop.
type ResponseMsg struct {
	ID       int
	Gen      int
	Body     string
	Err      error
	Duration time.Duration
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options tunes a Controller.
type Options struct {
	MaxInputChars     int
	StillLoadingAfter time.Duration
	RevealInterval    time.Duration
	Development       bool
}

// DefaultOptions returns the stock limits and timings.
func DefaultOptions() Options {
	return Options{
		MaxInputChars:     10000,
		StillLoadingAfter: 5 * time.Second,
		RevealInterval:    reveal.DefaultInterval,
	}
}

// OptionsFromConfig derives controller options from cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MaxInputChars:     cfg.UI.MaxInputChars,
		StillLoadingAfter: cfg.StillLoadingAfter(),
		RevealInterval:    cfg.RevealInterval(),
		Development:       cfg.IsDevelopment(),
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.MaxInputChars <= 0 {
		o.MaxInputChars = def.MaxInputChars
	}
	if o.StillLoadingAfter <= 0 {
		o.StillLoadingAfter = def.StillLoadingAfter
	}
	if o.RevealInterval <= 0 {
		o.RevealInterval = def.RevealInterval
	}
	return o
}

// =============================================================================
// CONTROLLER
// =============================================================================

var lastID int64

// Controller owns one conversation: the message log, the live reply, the
// in-flight request and every timer. All methods except Close and Fetch must
// be called from a single goroutine (the Bubble Tea update loop).
type Controller struct {
	id     int
	source Source
	opts   Options

	conv     *model.Conversation
	revealer *reveal.Revealer

	phase        Phase
	gen          int
	stillLoading bool
	response     ResponseState
	closed       atomic.Bool

	cancelMgr *cancelManager
}

// New creates a controller answering from source.
func New(source Source, opts Options) *Controller {
	opts = opts.withDefaults()
	return &Controller{
		id:        int(atomic.AddInt64(&lastID, 1)),
		source:    source,
		opts:      opts,
		conv:      model.NewConversation(),
		revealer:  reveal.New(opts.RevealInterval),
		cancelMgr: newCancelManager(),
	}
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Loading reports whether a reply is being awaited. Input is disabled
// exactly while Loading is true.
func (c *Controller) Loading() bool {
	return c.phase == PhaseSubmitting
}

// StillLoading reports whether the still-processing notice should show.
func (c *Controller) StillLoading() bool {
	return c.stillLoading && c.phase == PhaseSubmitting
}

// Response returns the live reply state.
func (c *Controller) Response() ResponseState {
	return c.response
}

// Messages returns the message log in display order.
func (c *Controller) Messages() []model.ChatMessage {
	return c.conv.Messages()
}

// Conversation exposes the underlying log.
func (c *Controller) Conversation() *model.Conversation {
	return c.conv
}

// Source returns the active response source.
func (c *Controller) Source() Source {
	return c.source
}

// SetSource replaces the response source for later submissions.
func (c *Controller) SetSource(source Source) {
	c.source = source
}

// Options returns the active options.
func (c *Controller) Options() Options {
	return c.opts
}

// SetOptions applies new options to later submissions and reveals.
func (c *Controller) SetOptions(opts Options) {
	c.opts = opts.withDefaults()
	c.revealer.SetInterval(c.opts.RevealInterval)
}

// MaxInputChars returns the input limit.
func (c *Controller) MaxInputChars() int {
	return c.opts.MaxInputChars
}

// FailureText renders err for the configured environment.
func (c *Controller) FailureText(err error) string {
	return FailureText(err, c.opts.Development)
}

// Validate checks input without submitting it.
func (c *Controller) Validate(input string) error {
	if strings.TrimSpace(input) == "" {
		return ErrEmptyInput
	}
	if n := util.CharCount(input); n > c.opts.MaxInputChars {
		return fmt.Errorf("%w: %d/%d characters", ErrInputTooLong, n, c.opts.MaxInputChars)
	}
	return nil
}

// =============================================================================
// SUBMIT CYCLE
// =============================================================================

// Submit starts a request for input. The user message is appended to the
// log, the live reply is reset and the request is issued with the raw
// (untrimmed) input. A reveal still in progress is superseded.
func (c *Controller) Submit(input string) (tea.Cmd, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	if err := c.Validate(input); err != nil {
		return nil, err
	}
	if c.phase == PhaseSubmitting {
		return nil, ErrBusy
	}

	if c.phase == PhaseRevealing {
		log.Printf("REVEAL_SUPERSEDED | conversation=%s shown=%d total=%d",
			c.conv.ID(), util.RuneLen(c.response.Text), util.RuneLen(c.revealer.Target()))
		c.revealer.Cancel()
	}

	c.conv.AppendUser(input)

	c.gen++
	c.phase = PhaseSubmitting
	c.stillLoading = false
	c.response = ResponseState{CreatedAt: time.Now()}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancelMgr.set(cancel)

	return tea.Batch(
		c.request(ctx, c.gen, input),
		c.stillLoadingTimer(c.gen),
	), nil
}

func (c *Controller) request(ctx context.Context, gen int, input string) tea.Cmd {
	id, source := c.id, c.source
	convID := c.conv.ID()
	return func() tea.Msg {
		start := time.Now()
		log.Printf("REQUEST_START | conversation=%s source=%s chars=%d preview=%q",
			convID, source.Name(), util.CharCount(input), util.TruncateRunes(input, 40))

		body, err := source.Respond(ctx, input)
		elapsed := time.Since(start)
		if err != nil {
			log.Printf("REQUEST_ERROR | conversation=%s source=%s duration=%s error=%v", convID, source.Name(), elapsed, err)
		} else {
			log.Printf("REQUEST_COMPLETE | conversation=%s source=%s duration=%s bytes=%d", convID, source.Name(), elapsed, len(body))
		}
		return ResponseMsg{ID: id, Gen: gen, Body: body, Err: err, Duration: elapsed}
	}
}

func (c *Controller) stillLoadingTimer(gen int) tea.Cmd {
	id := c.id
	return tea.Tick(c.opts.StillLoadingAfter, func(time.Time) tea.Msg {
		return StillLoadingMsg{ID: id, Gen: gen}
	})
}

// Update handles the controller's own messages and returns the next command.
// It reports whether msg belonged to this controller and was live.
func (c *Controller) Update(msg tea.Msg) (tea.Cmd, bool) {
	if c.closed.Load() {
		return nil, false
	}

	switch msg := msg.(type) {
	case StillLoadingMsg:
		if msg.ID != c.id || msg.Gen != c.gen || c.phase != PhaseSubmitting {
			return nil, false
		}
		c.stillLoading = true
		return nil, true

	case ResponseMsg:
		if msg.ID != c.id || msg.Gen != c.gen || c.phase != PhaseSubmitting {
			return nil, false
		}
		return c.handleResponse(msg), true

	case reveal.TickMsg:
		cmd, ok := c.revealer.Update(msg)
		if !ok {
			return nil, false
		}
		c.syncReveal()
		return cmd, true
	}

	return nil, false
}

func (c *Controller) handleResponse(msg ResponseMsg) tea.Cmd {
	c.cancelMgr.clear()
	c.stillLoading = false

	var text string
	if msg.Err != nil {
		text = c.FailureText(msg.Err)
	} else {
		text = agent.Decode(msg.Body)
	}

	c.conv.AppendAgent(text)
	return c.startReveal(text)
}

func (c *Controller) startReveal(text string) tea.Cmd {
	c.revealer.SetInterval(c.opts.RevealInterval)
	cmd := c.revealer.Start(text)
	c.phase = PhaseRevealing
	c.syncReveal()
	return cmd
}

// syncReveal mirrors the revealer into the live response and ends the cycle
// once the text is fully shown.
func (c *Controller) syncReveal() {
	st := c.revealer.State()
	c.response.Text = st.Text
	c.response.IsTyping = st.IsTyping
	if !st.IsTyping && c.phase == PhaseRevealing {
		c.phase = PhaseIdle
	}
}

// Close cancels the in-flight request and makes every pending timer and
// reply inert. Later submissions fail with ErrClosed. Safe to call from any
// goroutine and more than once.
func (c *Controller) Close() {
	c.closed.Store(true)
	c.cancelMgr.clear()
}

// Closed reports whether Close has been called.
func (c *Controller) Closed() bool {
	return c.closed.Load()
}

// =============================================================================
// LINE MODE
// =============================================================================

// Fetch runs one submit cycle synchronously for the line-mode front ends.
// The user and agent messages are appended to the log and the display text
// is returned; it is the decoded reply on success and FailureText otherwise.
// The request error, if any, is returned alongside so callers can set an
// exit status. Validation errors return an empty text.
func (c *Controller) Fetch(ctx context.Context, input string) (string, error) {
	if c.closed.Load() {
		return "", ErrClosed
	}
	if err := c.Validate(input); err != nil {
		return "", err
	}

	c.conv.AppendUser(input)

	ctx, cancel := context.WithCancel(ctx)
	c.cancelMgr.set(cancel)
	defer c.cancelMgr.clear()

	msg := c.request(ctx, 0, input)().(ResponseMsg)

	var text string
	if msg.Err != nil {
		text = c.FailureText(msg.Err)
	} else {
		text = agent.Decode(msg.Body)
	}
	c.conv.AppendAgent(text)

	return text, msg.Err
}
