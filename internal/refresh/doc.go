// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package refresh runs the "soft refresh" that follows every bounce.
//
// A soft refresh fades the message out, fetches a new one, applies the
// current box color, and fades the message back in. Only one refresh runs at
// a time; collisions that happen meanwhile are ignored. A failed fetch shows
// an error placeholder and schedules a single retry.
//
// The sequence is a small state machine driven by a frame.Scheduler, so it
// never blocks the render loop and tests can step through it without real
// time passing.
//
// # Key Types
//
//   - Coordinator: the state machine
//   - Phase: Idle, FadingOut, Fetching, FadingIn
//   - Timings: fade and retry durations
//   - Fetcher: anything that can produce the next message
//   - Message: the displayed text and the error that produced it, if any
//
// # Usage
//
//	c := refresh.NewCoordinator(state, surf, client, sched, refresh.DefaultTimings())
//	c.FetchNow()
//	// on collision:
//	c.SoftRefresh()
package refresh
