// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package animation drives the bouncing box frame by frame.
//
// The host calls Loop.Tick once per frame with the frame timestamp. The loop
// walks through a short startup sequence and then integrates, resolves
// collisions and writes the result to the render targets:
//
//	Stabilizing -> Setup -> Bootstrapping -> Running -> Disposed
//
// Stabilizing waits for the visual's measured size to settle, Setup places
// the box at a random position with a random velocity, and Bootstrapping
// records the first timestamp so the first real step has a sane delta.
//
// # Key Types
//
//   - Loop: the frame-driven state machine
//   - Config: every tuning constant, built once by DefaultConfig
//   - Deps: the host-provided collaborators
//
// # Usage
//
//	loop := animation.New(animation.DefaultConfig(), animation.Deps{
//	    Surface:   surf,
//	    Tracker:   tracker,
//	    Events:    hub,
//	    Scheduler: sched,
//	    Fetcher:   client,
//	})
//	loop.Start()
//	defer loop.Dispose()
//	// each frame:
//	loop.Tick(now)
package animation
