// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package frame

import (
	"sort"
	"time"
)

// Scheduler is the host's timer and event-loop surface.
type Scheduler interface {
	// After runs fn on the loop once d has elapsed. cancel stops a pending
	// call and is a no-op afterwards.
	After(d time.Duration, fn func()) (cancel func())

	// NextFrame runs fn on the loop before the next frame is drawn.
	NextFrame(fn func())

	// Go runs work off the loop. The function it returns, if non-nil, is
	// then run on the loop.
	Go(work func() func())
}

// =============================================================================
// MANUAL SCHEDULER
// =============================================================================

type manualTimer struct {
	id       int
	at       time.Duration
	fn       func()
	canceled bool
}

// Manual is a Scheduler driven entirely by the caller.
type Manual struct {
	now    time.Duration
	nextID int
	timers []*manualTimer
	frames []func()
	work   []func() func()
}

// NewManual returns a scheduler at time zero.
func NewManual() *Manual {
	return &Manual{}
}

// After implements Scheduler.
func (m *Manual) After(d time.Duration, fn func()) func() {
	t := &manualTimer{id: m.nextID, at: m.now + d, fn: fn}
	m.nextID++
	m.timers = append(m.timers, t)
	return func() { t.canceled = true }
}

// NextFrame implements Scheduler.
func (m *Manual) NextFrame(fn func()) {
	m.frames = append(m.frames, fn)
}

// Go implements Scheduler. The work is queued until Complete.
func (m *Manual) Go(work func() func()) {
	m.work = append(m.work, work)
}

// Now returns the elapsed virtual time.
func (m *Manual) Now() time.Duration { return m.now }

// Advance moves the clock forward by d, firing due timers in deadline order.
// Timers scheduled by a firing callback fire too if they fall inside d.
func (m *Manual) Advance(d time.Duration) {
	end := m.now + d
	for {
		t := m.nextDue(end)
		if t == nil {
			break
		}
		m.now = t.at
		t.canceled = true
		t.fn()
	}
	m.now = end
	m.compact()
}

func (m *Manual) nextDue(end time.Duration) *manualTimer {
	var best *manualTimer
	for _, t := range m.timers {
		if t.canceled || t.at > end {
			continue
		}
		if best == nil || t.at < best.at || (t.at == best.at && t.id < best.id) {
			best = t
		}
	}
	return best
}

func (m *Manual) compact() {
	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.canceled {
			live = append(live, t)
		}
	}
	m.timers = live
}

// Frame runs the callbacks queued before this call. Callbacks they queue run
// on the following Frame.
func (m *Manual) Frame() int {
	fns := m.frames
	m.frames = nil
	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

// Complete runs the oldest pending work and its continuation. It reports
// false when nothing was pending.
func (m *Manual) Complete() bool {
	if len(m.work) == 0 {
		return false
	}
	w := m.work[0]
	m.work = m.work[1:]
	if cont := w(); cont != nil {
		cont()
	}
	return true
}

// PendingWork returns the number of queued off-loop jobs.
func (m *Manual) PendingWork() int { return len(m.work) }

// PendingTimers returns the deadlines of live timers relative to now,
// soonest first.
func (m *Manual) PendingTimers() []time.Duration {
	var out []time.Duration
	for _, t := range m.timers {
		if !t.canceled {
			out = append(out, t.at-m.now)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// PendingFrames returns the number of queued next-frame callbacks.
func (m *Manual) PendingFrames() int { return len(m.frames) }

// Settle runs frames, work and timers until nothing is pending or maxSteps
// is reached. Timers are advanced to their deadline one at a time.
func (m *Manual) Settle(maxSteps int) {
	for i := 0; i < maxSteps; i++ {
		switch {
		case m.Frame() > 0:
		case m.Complete():
		default:
			pending := m.PendingTimers()
			if len(pending) == 0 {
				return
			}
			m.Advance(pending[0])
		}
	}
}
