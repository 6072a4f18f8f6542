// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package physics moves the box and bounces it off the edges of its bounds.
//
// Integration is plain explicit Euler with a clamped frame delta. Collision
// response is per axis: a box that leaves the legal range is pushed back by a
// small epsilon and its velocity component is reflected. Any collision in a
// step also picks a new random color, clamps the speed into
// [MinSpeed, MaxSpeed] and nudges the heading by a small random angle, once
// per step even when both axes hit.
//
// # Key Types
//
//   - Params: immutable tuning constants
//   - State: the mutable animation state owned by the render loop
//   - Result: the outcome of a single Resolve call
//   - Rand: the random source, injectable for tests
//
// # Usage
//
//	dt := physics.ClampStep(last, now, p.MaxStep)
//	pos := physics.Integrate(st.Position, st.Velocity, dt)
//	res := physics.Resolve(pos, st.Velocity, st.Bounds, eff, p, rng)
package physics
