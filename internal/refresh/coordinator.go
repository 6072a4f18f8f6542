// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package refresh

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jeranaias/bouncer/internal/frame"
	"github.com/jeranaias/bouncer/internal/logging"
	"github.com/jeranaias/bouncer/internal/physics"
	"github.com/jeranaias/bouncer/internal/surface"
)

// =============================================================================
// TYPES
// =============================================================================

// Fetcher produces the next message to display.
type Fetcher interface {
	FetchMessage(ctx context.Context) (string, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) (string, error)

// FetchMessage implements Fetcher.
func (f FetcherFunc) FetchMessage(ctx context.Context) (string, error) { return f(ctx) }

// Timings are the fade and retry durations.
type Timings struct {
	// FadeTransition is the opacity transition requested from the text.
	FadeTransition time.Duration
	// FadeOutWait is how long to wait after starting the fade-out.
	FadeOutWait time.Duration
	// FadeInWait is how long the guard stays up after the fade-in starts.
	FadeInWait time.Duration
	// RetryBackoff is the delay before the single retry of a failed fetch.
	RetryBackoff time.Duration
}

// DefaultTimings returns the standard durations.
func DefaultTimings() Timings {
	return Timings{
		FadeTransition: 220 * time.Millisecond,
		FadeOutWait:    240 * time.Millisecond,
		FadeInWait:     260 * time.Millisecond,
		RetryBackoff:   5 * time.Second,
	}
}

// Phase is the coordinator's position in the refresh sequence.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseFadingOut
	PhaseFetching
	PhaseFadingIn
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseFadingOut:
		return "fading-out"
	case PhaseFetching:
		return "fetching"
	case PhaseFadingIn:
		return "fading-in"
	default:
		return "unknown"
	}
}

// Message is what the box displays.
type Message struct {
	Text string
	// Err is the fetch failure that produced Text, nil on success.
	Err error
}

// =============================================================================
// COORDINATOR
// =============================================================================

// Coordinator sequences soft refreshes. All methods must be called from the
// scheduler's loop.
type Coordinator struct {
	state   *physics.State
	surf    surface.Surface
	fetcher Fetcher
	sched   frame.Scheduler
	timings Timings
	log     logrus.FieldLogger

	ctx    context.Context
	cancel context.CancelFunc

	phase    Phase
	msg      Message
	loaded   bool
	closed   bool
	timers   map[int]func()
	timerSeq int
	onUpdate func(Message)
}

// NewCoordinator wires a coordinator. surf may be nil when nothing is drawn.
func NewCoordinator(state *physics.State, surf surface.Surface, fetcher Fetcher, sched frame.Scheduler, timings Timings) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		state:   state,
		surf:    surf,
		fetcher: fetcher,
		sched:   sched,
		timings: timings,
		log:     logging.Component(nil, "refresh"),
		ctx:     ctx,
		cancel:  cancel,
		timers:  make(map[int]func()),
	}
}

// SetLogger replaces the logger.
func (c *Coordinator) SetLogger(log logrus.FieldLogger) {
	c.log = logging.Component(log, "refresh")
}

// OnUpdate registers a callback run whenever the message changes.
func (c *Coordinator) OnUpdate(fn func(Message)) {
	c.onUpdate = fn
}

// Phase returns the current phase.
func (c *Coordinator) Phase() Phase { return c.phase }

// Message returns the current message and whether any fetch has completed.
func (c *Coordinator) Message() (Message, bool) { return c.msg, c.loaded }

// SoftRefresh starts a refresh unless one is already running. It reports
// whether a new refresh was started. It never blocks.
func (c *Coordinator) SoftRefresh() bool {
	if c.closed || c.state.Refreshing {
		return false
	}
	c.state.Refreshing = true
	c.setPhase(PhaseFadingOut)

	if txt, ok := c.text(); ok {
		txt.SetOpacity(0, c.timings.FadeTransition)
		c.after(c.timings.FadeOutWait, c.startFetch)
		return true
	}
	c.startFetch()
	return true
}

// FetchNow fetches a message outside of the refresh sequence. Used once at
// startup. A failure schedules one retry.
func (c *Coordinator) FetchNow() {
	c.fetch(false, nil)
}

// Close stops pending timers and drops any in-flight continuation.
func (c *Coordinator) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
	for id, stop := range c.timers {
		stop()
		delete(c.timers, id)
	}
}

// =============================================================================
// SEQUENCE
// =============================================================================

func (c *Coordinator) startFetch() {
	c.setPhase(PhaseFetching)
	c.fetch(false, c.fadeIn)
}

func (c *Coordinator) fadeIn() {
	c.setPhase(PhaseFadingIn)

	if vis, ok := c.visual(); ok {
		vis.SetBackground(c.state.Color)
	}

	if _, ok := c.text(); !ok {
		c.finish()
		return
	}
	c.sched.NextFrame(func() {
		if c.closed {
			return
		}
		if txt, ok := c.text(); ok {
			txt.SetOpacity(1, c.timings.FadeTransition)
		}
	})
	c.after(c.timings.FadeInWait, c.finish)
}

func (c *Coordinator) finish() {
	c.state.Refreshing = false
	c.setPhase(PhaseIdle)
}

// fetch runs the fetcher off the loop and applies the result on it. then, if
// set, runs after the result is applied whether or not the fetch failed.
// Without a fetcher there is no message source: the message is left alone
// and then runs straight away.
func (c *Coordinator) fetch(isRetry bool, then func()) {
	ctx := c.ctx
	fetcher := c.fetcher
	if fetcher == nil {
		if then != nil {
			then()
		}
		return
	}
	c.sched.Go(func() func() {
		text, err := fetcher.FetchMessage(ctx)
		return func() {
			if c.closed {
				return
			}
			c.apply(text, err, isRetry)
			if then != nil {
				then()
			}
		}
	})
}

func (c *Coordinator) apply(text string, err error, isRetry bool) {
	c.loaded = true
	if err != nil {
		c.msg = Message{Text: "Error: " + err.Error(), Err: err}
		c.log.WithError(err).WithField("retry", isRetry).Warn("message fetch failed")
		if !isRetry {
			c.after(c.timings.RetryBackoff, func() { c.fetch(true, nil) })
		}
	} else {
		c.msg = Message{Text: text}
		c.log.WithField("retry", isRetry).Debug("message updated")
	}
	if c.onUpdate != nil {
		c.onUpdate(c.msg)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func (c *Coordinator) setPhase(p Phase) {
	if c.phase == p {
		return
	}
	c.log.WithField("from", c.phase.String()).WithField("to", p.String()).Debug("phase change")
	c.phase = p
}

func (c *Coordinator) after(d time.Duration, fn func()) {
	id := c.timerSeq
	c.timerSeq++
	c.timers[id] = c.sched.After(d, func() {
		delete(c.timers, id)
		if c.closed {
			return
		}
		fn()
	})
}

func (c *Coordinator) text() (surface.Text, bool) {
	if c.surf == nil {
		return nil, false
	}
	return c.surf.Text()
}

func (c *Coordinator) visual() (surface.Visual, bool) {
	if c.surf == nil {
		return nil, false
	}
	return c.surf.Visual()
}
