// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reveal implements the typewriter effect: an already complete reply is
// shown one character per tick to simulate live generation.
package reveal

import (
	"context"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultInterval is the delay between two revealed characters.
const DefaultInterval = 10 * time.Millisecond

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// =============================================================================
// STATE
// =============================================================================

// State is the externally observed reveal progress.
type State struct {
	Text     string
	IsTyping bool
}

// TickMsg advances the reveal identified by ID and Gen by one character.
// Ticks whose generation is no longer live are ignored.
type TickMsg struct {
	ID  int
	Gen int
}

// =============================================================================
// REVEALER
// =============================================================================

// Revealer owns a single reveal task. Starting a new reveal invalidates the
// previous task handle, so timers still in flight for it become no-ops.
//
// Revealer is not safe for concurrent use; it is driven from the Bubble Tea
// update loop or from Play.
type Revealer struct {
	id       int
	gen      int
	interval time.Duration

	target []rune
	pos    int
	state  State
}

// New creates a revealer that advances one character every interval.
func New(interval time.Duration) *Revealer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Revealer{id: nextID(), interval: interval}
}

// ID returns the revealer's identity, carried in every TickMsg it schedules.
func (r *Revealer) ID() int {
	return r.id
}

// Gen returns the live task generation.
func (r *Revealer) Gen() int {
	return r.gen
}

// Interval returns the tick interval.
func (r *Revealer) Interval() time.Duration {
	return r.interval
}

// SetInterval changes the tick interval for subsequent ticks.
func (r *Revealer) SetInterval(d time.Duration) {
	if d > 0 {
		r.interval = d
	}
}

// State returns the current reveal state.
func (r *Revealer) State() State {
	return r.state
}

// Target returns the full text being revealed.
func (r *Revealer) Target() string {
	return string(r.target)
}

// Active reports whether a reveal is still ticking.
func (r *Revealer) Active() bool {
	return r.state.IsTyping
}

// Start cancels any reveal in flight and begins revealing text from the empty
// prefix. The returned command schedules the first tick; it is nil when text
// is empty, since there is nothing to reveal.
func (r *Revealer) Start(text string) tea.Cmd {
	r.begin(text)
	if !r.state.IsTyping {
		return nil
	}
	return r.tick()
}

// Cancel invalidates the live task. The visible text is left as is.
func (r *Revealer) Cancel() {
	r.gen++
	r.state.IsTyping = false
}

// Update handles TickMsg for this revealer and returns the next tick, if any.
// It reports whether the message advanced the reveal.
func (r *Revealer) Update(msg tea.Msg) (tea.Cmd, bool) {
	tm, ok := msg.(TickMsg)
	if !ok || tm.ID != r.id || tm.Gen != r.gen {
		return nil, false
	}
	if !r.advance() {
		return nil, true
	}
	return r.tick(), true
}

func (r *Revealer) begin(text string) {
	r.gen++
	r.target = []rune(text)
	r.pos = 0
	r.state = State{Text: "", IsTyping: len(r.target) > 0}
}

// advance extends the prefix by one character and reports whether more remain.
func (r *Revealer) advance() bool {
	if !r.state.IsTyping {
		return false
	}
	if r.pos < len(r.target) {
		r.pos++
	}
	r.state = State{
		Text:     string(r.target[:r.pos]),
		IsTyping: r.pos < len(r.target),
	}
	return r.state.IsTyping
}

func (r *Revealer) tick() tea.Cmd {
	id, gen := r.id, r.gen
	return tea.Tick(r.interval, func(time.Time) tea.Msg {
		return TickMsg{ID: id, Gen: gen}
	})
}

// =============================================================================
// LINE-MODE DRIVER
// =============================================================================

// Play reveals text on a ticker outside Bubble Tea, calling fn with every new
// state, the last of which has IsTyping false. It returns ctx.Err() if ctx is
// cancelled first.
func Play(ctx context.Context, text string, interval time.Duration, fn func(State)) error {
	r := New(interval)
	r.begin(text)
	if !r.state.IsTyping {
		fn(r.state)
		return nil
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			more := r.advance()
			fn(r.state)
			if !more {
				return nil
			}
		}
	}
}
