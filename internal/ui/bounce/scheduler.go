// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package bounce

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/bouncer/internal/frame"
)

// callbackMsg carries a continuation onto the tea event loop.
type callbackMsg struct {
	fn func()
}

// hostScheduler implements frame.Scheduler on top of the tea event loop.
// Timers and background work run on goroutines and hand their continuations
// to the loop through ch. Everything else is called from Update only.
type hostScheduler struct {
	ch   chan func()
	done chan struct{}
	once sync.Once

	frames []func()
}

var _ frame.Scheduler = (*hostScheduler)(nil)

func newHostScheduler() *hostScheduler {
	return &hostScheduler{
		ch:   make(chan func(), 16),
		done: make(chan struct{}),
	}
}

// After implements frame.Scheduler.
func (s *hostScheduler) After(d time.Duration, fn func()) func() {
	canceled := false
	t := time.AfterFunc(d, func() {
		s.post(func() {
			if !canceled {
				fn()
			}
		})
	})
	return func() {
		canceled = true
		t.Stop()
	}
}

// NextFrame implements frame.Scheduler.
func (s *hostScheduler) NextFrame(fn func()) {
	s.frames = append(s.frames, fn)
}

// Go implements frame.Scheduler.
func (s *hostScheduler) Go(work func() func()) {
	go func() {
		if cont := work(); cont != nil {
			s.post(cont)
		}
	}()
}

// runFrames runs the callbacks queued before this frame. Callbacks queued
// while running wait for the next one.
func (s *hostScheduler) runFrames() {
	pending := s.frames
	s.frames = nil
	for _, fn := range pending {
		fn()
	}
}

// listen waits for the next continuation.
func (s *hostScheduler) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case fn := <-s.ch:
			return callbackMsg{fn: fn}
		case <-s.done:
			return nil
		}
	}
}

// Close drops every continuation that has not been delivered yet.
func (s *hostScheduler) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *hostScheduler) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *hostScheduler) post(fn func()) {
	select {
	case <-s.done:
		return
	default:
	}
	select {
	case s.ch <- fn:
	case <-s.done:
	}
}
