// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package bounce is the bubbletea host for the bouncing box.
//
// The host supplies everything the animation loop needs from a screen: a
// frame clock (tea.Tick at the configured rate), viewport and container
// geometry in virtual pixels, a scheduler whose timers and background work
// deliver their continuations back through the tea event loop, and a
// terminal surface that remembers what the loop wrote so View can paint it.
//
// One terminal cell is CellWidth x CellHeight virtual pixels, so the box's
// 160px side is BoxCols x BoxRows cells.
package bounce
