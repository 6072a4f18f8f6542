// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package frame defines how the animation core asks its host for time.
//
// A Scheduler offers three things: delayed callbacks, next-frame callbacks
// and off-loop work whose continuation comes back onto the loop. Every
// callback a Scheduler runs must run on the host's single event loop, so the
// core never locks its own state.
//
// Manual is a deterministic Scheduler for tests: time only moves when the
// test calls Advance, frames only happen on Frame, and off-loop work only
// completes on Complete.
package frame
