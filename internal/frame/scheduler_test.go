// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package frame

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManual_AdvanceFiresInOrder(t *testing.T) {
	m := NewManual()
	var got []string
	m.After(300*time.Millisecond, func() { got = append(got, "c") })
	m.After(100*time.Millisecond, func() { got = append(got, "a") })
	m.After(200*time.Millisecond, func() {
		got = append(got, "b")
		m.After(50*time.Millisecond, func() { got = append(got, "b2") })
	})

	m.Advance(260 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "b2"}, got)
	assert.Equal(t, 260*time.Millisecond, m.Now())

	m.Advance(40 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "b2", "c"}, got)
	assert.Empty(t, m.PendingTimers())
}

func TestManual_Cancel(t *testing.T) {
	m := NewManual()
	fired := false
	cancel := m.After(time.Second, func() { fired = true })
	cancel()
	m.Advance(2 * time.Second)
	assert.False(t, fired)
	cancel()
}

func TestManual_FrameRunsSnapshot(t *testing.T) {
	m := NewManual()
	var n int
	m.NextFrame(func() {
		n++
		m.NextFrame(func() { n += 10 })
	})
	assert.Equal(t, 1, m.Frame())
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, m.PendingFrames())
	m.Frame()
	assert.Equal(t, 11, n)
}

func TestManual_Complete(t *testing.T) {
	m := NewManual()
	var order []string
	m.Go(func() func() {
		order = append(order, "work")
		return func() { order = append(order, "cont") }
	})
	assert.Equal(t, 1, m.PendingWork())
	assert.True(t, m.Complete())
	assert.False(t, m.Complete())
	assert.Equal(t, []string{"work", "cont"}, order)
}

func TestManual_Settle(t *testing.T) {
	m := NewManual()
	done := false
	m.After(time.Second, func() {
		m.Go(func() func() {
			return func() { m.NextFrame(func() { done = true }) }
		})
	})
	m.Settle(20)
	assert.True(t, done)
	assert.Equal(t, time.Second, m.Now())
}
