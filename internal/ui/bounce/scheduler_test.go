// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package bounce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nextCallback(t *testing.T, s *hostScheduler) callbackMsg {
	t.Helper()
	msg, ok := s.listen()().(callbackMsg)
	require.True(t, ok)
	return msg
}

func TestHostScheduler_GoDeliversOnLoop(t *testing.T) {
	s := newHostScheduler()
	defer s.Close()

	ran := false
	s.Go(func() func() {
		return func() { ran = true }
	})
	cb := nextCallback(t, s)
	assert.False(t, ran)
	cb.fn()
	assert.True(t, ran)
}

func TestHostScheduler_AfterCancelAfterFiring(t *testing.T) {
	s := newHostScheduler()
	defer s.Close()

	ran := false
	cancel := s.After(time.Millisecond, func() { ran = true })
	cb := nextCallback(t, s)
	cancel()
	cb.fn()
	assert.False(t, ran)
}

func TestHostScheduler_After(t *testing.T) {
	s := newHostScheduler()
	defer s.Close()

	ran := false
	s.After(time.Millisecond, func() { ran = true })
	nextCallback(t, s).fn()
	assert.True(t, ran)
}

func TestHostScheduler_NextFrameRunsOnce(t *testing.T) {
	s := newHostScheduler()
	defer s.Close()

	var order []int
	s.NextFrame(func() {
		order = append(order, 1)
		s.NextFrame(func() { order = append(order, 2) })
	})
	s.runFrames()
	assert.Equal(t, []int{1}, order)
	s.runFrames()
	assert.Equal(t, []int{1, 2}, order)
	s.runFrames()
	assert.Equal(t, []int{1, 2}, order)
}

func TestHostScheduler_Close(t *testing.T) {
	s := newHostScheduler()
	s.Close()
	s.Close()
	assert.True(t, s.closed())
	assert.Nil(t, s.listen()())

	done := make(chan struct{})
	s.Go(func() func() {
		defer close(done)
		return func() {}
	})
	<-done
}
