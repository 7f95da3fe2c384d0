// Package proctor implements the best-effort fullscreen lock and input
// suppression used while a quiz is in progress. It is a deterrent, not a
// security boundary: the host environment may refuse to cooperate and the
// quiz must proceed regardless.
package proctor

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const defaultReentryDelay = 500 * time.Millisecond

// Display is the host capability the guard drives. A browser shell maps it
// onto the Fullscreen API; headless targets plug in NoopDisplay.
type Display interface {
	EnterFullscreen(ctx context.Context) error
	ExitFullscreen(ctx context.Context) error
}

// NoopDisplay satisfies Display without doing anything. Non-browser targets
// run unproctored.
type NoopDisplay struct{}

func (NoopDisplay) EnterFullscreen(context.Context) error { return nil }
func (NoopDisplay) ExitFullscreen(context.Context) error  { return nil }

// InputKind classifies host input events the guard may suppress.
type InputKind string

const (
	InputKeyDown     InputKind = "keydown"
	InputContextMenu InputKind = "contextmenu"
	InputCopy        InputKind = "copy"
	InputPaste       InputKind = "paste"
	InputCut         InputKind = "cut"
)

// Input describes one host input event.
type Input struct {
	Kind  InputKind
	Key   string
	Ctrl  bool
	Alt   bool
	Shift bool
}

// Guard keeps the viewport in fullscreen while engaged and answers the host's
// "should this input be swallowed" queries. Engage and Disengage are
// idempotent; every display call is best-effort and never blocks the quiz.
type Guard struct {
	display Display
	delay   time.Duration
	log     zerolog.Logger

	mu      sync.Mutex
	engaged bool
	reentry *time.Timer
}

// Option configures a Guard.
type Option func(*Guard)

// WithReentryDelay overrides the debounce before fullscreen is re-requested
// after an unexpected exit.
func WithReentryDelay(d time.Duration) Option {
	return func(g *Guard) {
		g.delay = d
	}
}

// NewGuard creates a disengaged Guard on top of display.
func NewGuard(display Display, log zerolog.Logger, opts ...Option) *Guard {
	g := &Guard{
		display: display,
		delay:   defaultReentryDelay,
		log:     log.With().Str("component", "proctor_guard").Logger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Engage requests fullscreen and arms the input-suppression policy. A refused
// fullscreen request is logged and otherwise ignored. No-op when already
// engaged.
func (g *Guard) Engage(ctx context.Context) {
	g.mu.Lock()
	if g.engaged {
		g.mu.Unlock()
		return
	}
	g.engaged = true
	g.mu.Unlock()

	if err := g.display.EnterFullscreen(ctx); err != nil {
		g.log.Warn().Err(err).Msg("Fullscreen request failed, quiz continues unproctored")
	}
}

// Disengage exits fullscreen, cancels any pending re-entry and disarms input
// suppression. Called on submission and on session teardown. No-op when
// already disengaged.
func (g *Guard) Disengage(ctx context.Context) {
	g.mu.Lock()
	if !g.engaged {
		g.mu.Unlock()
		return
	}
	g.engaged = false
	if g.reentry != nil {
		g.reentry.Stop()
		g.reentry = nil
	}
	g.mu.Unlock()

	if err := g.display.ExitFullscreen(ctx); err != nil {
		g.log.Warn().Err(err).Msg("Exit fullscreen failed")
	}
}

// Engaged reports whether the guard is currently active.
func (g *Guard) Engaged() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.engaged
}

// NotifyFullscreenExit tells the guard the host reported fullscreen was left
// by any means. While engaged, fullscreen is re-requested after a short
// debounce, unless Disengage lands first.
func (g *Guard) NotifyFullscreenExit() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.engaged {
		return
	}
	if g.reentry != nil {
		g.reentry.Stop()
	}
	g.reentry = time.AfterFunc(g.delay, g.reengage)
}

func (g *Guard) reengage() {
	g.mu.Lock()
	engaged := g.engaged
	g.reentry = nil
	g.mu.Unlock()

	if !engaged {
		return
	}
	if err := g.display.EnterFullscreen(context.Background()); err != nil {
		g.log.Warn().Err(err).Msg("Re-entering fullscreen failed")
	}
}

// Blocks reports whether the guard swallows the given input. While engaged it
// suppresses context-menu invocation, clipboard operations, and the common
// exit combinations: F11, F12, Escape, Alt+Tab, Ctrl+Shift+I and
// Ctrl+C/V/X/A/S.
func (g *Guard) Blocks(in Input) bool {
	if !g.Engaged() {
		return false
	}

	switch in.Kind {
	case InputContextMenu, InputCopy, InputPaste, InputCut:
		return true
	case InputKeyDown:
		return blocksKey(in)
	default:
		return false
	}
}

func blocksKey(in Input) bool {
	switch in.Key {
	case "F11", "F12", "Escape":
		return true
	}
	if in.Alt && in.Key == "Tab" {
		return true
	}
	if in.Ctrl && in.Shift && in.Key == "I" {
		return true
	}
	if in.Ctrl {
		switch in.Key {
		case "c", "v", "x", "a", "s":
			return true
		}
	}
	return false
}
