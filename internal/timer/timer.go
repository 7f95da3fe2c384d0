// Package timer implements the session countdown as an explicit scheduled
// task with start/stop semantics, independent of any host event loop.
package timer

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	// WarningThreshold is the remaining-seconds mark at which the one-time
	// "one minute left" warning fires.
	WarningThreshold = 60
	// FinalCountdownFrom marks the start of the audible-cue window; a final
	// countdown tick fires for every remaining value in [1, FinalCountdownFrom].
	FinalCountdownFrom = 10

	defaultInterval = time.Second
)

// Callbacks receives countdown events. Nil members are skipped. Callbacks are
// invoked from the engine's tick goroutine, never while the engine lock is
// held, so they may call Stop.
type Callbacks struct {
	// OnTick fires every second with the new remaining value.
	OnTick func(secondsLeft int)
	// OnWarning fires exactly once, when remaining crosses down through
	// WarningThreshold.
	OnWarning func()
	// OnFinalCountdownTick fires once per second while remaining is within
	// [1, FinalCountdownFrom].
	OnFinalCountdownTick func(secondsLeft int)
	// OnExpire fires exactly once when remaining reaches zero. No further
	// ticks occur afterwards.
	OnExpire func()
}

// Engine is a 1-second-resolution countdown clock. It has no I/O of its own
// beyond invoking callbacks.
type Engine struct {
	interval time.Duration
	log      zerolog.Logger

	mu        sync.Mutex
	remaining int
	warned    bool
	running   bool
	stopCh    chan struct{}
	cb        Callbacks
}

// Option configures an Engine.
type Option func(*Engine)

// WithInterval overrides the real-time length of one countdown second.
// Tests use a short interval; production keeps the default of one second.
func WithInterval(d time.Duration) Option {
	return func(e *Engine) {
		e.interval = d
	}
}

// New creates a stopped Engine.
func New(log zerolog.Logger, opts ...Option) *Engine {
	e := &Engine{
		interval: defaultInterval,
		log:      log.With().Str("component", "timer_engine").Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start begins counting down from initialSeconds. A session resumed from a
// saved snapshot starts from the saved remainder, not the quiz's full limit.
// Starting an already-running engine or a non-positive value is a no-op.
func (e *Engine) Start(initialSeconds int, cb Callbacks) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running || initialSeconds <= 0 {
		return
	}

	e.remaining = initialSeconds
	e.warned = false
	e.running = true
	e.cb = cb
	e.stopCh = make(chan struct{})

	go e.run(e.stopCh)
}

// Stop halts ticking. Safe to call multiple times or after expiry.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

func (e *Engine) stopLocked() {
	if !e.running {
		return
	}
	e.running = false
	close(e.stopCh)
}

// Remaining returns the current countdown value in seconds.
func (e *Engine) Remaining() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remaining
}

// Running reports whether the countdown is active.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

func (e *Engine) run(stopCh chan struct{}) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !e.tick(stopCh) {
				return
			}
		}
	}
}

// tick advances the countdown by one second and fires callbacks. Returns
// false once the countdown has expired or been stopped.
func (e *Engine) tick(stopCh chan struct{}) bool {
	e.mu.Lock()
	if !e.running || e.stopCh != stopCh {
		e.mu.Unlock()
		return false
	}

	e.remaining--
	left := e.remaining

	warn := false
	if left == WarningThreshold && !e.warned {
		e.warned = true
		warn = true
	}

	expired := left <= 0
	if expired {
		e.stopLocked()
	}
	cb := e.cb
	e.mu.Unlock()

	if cb.OnTick != nil {
		cb.OnTick(left)
	}
	if warn && cb.OnWarning != nil {
		cb.OnWarning()
	}
	if left >= 1 && left <= FinalCountdownFrom && cb.OnFinalCountdownTick != nil {
		cb.OnFinalCountdownTick(left)
	}
	if expired {
		e.log.Debug().Msg("Countdown expired")
		if cb.OnExpire != nil {
			cb.OnExpire()
		}
		return false
	}
	return true
}
