// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the bouncer TUI.
//
// Besides the usual lipgloss styles, the package owns the small cell
// compositor the bouncing screen is drawn with: a Canvas that is painted
// back to front (backdrop, box, text) and rendered in one pass, grouping
// runs of equal colors into a single lipgloss style.
//
// # Key Types
//
//   - Theme: styled components, built after detecting the terminal
//   - Canvas, Grid, Cell: the cell compositor
//   - BoxParams: one frame of the box (size, color, text, opacity, rotation)
//   - Fade: a time-based opacity transition
//
// # Rotation
//
// The terminal cannot rotate text, so the box art is turned in quarter
// turns. Block glyphs rotate with the grid (▗ -> ▖ -> ▘ -> ▝) and the drop
// shadow moves with them, which is what makes a 180 degree box look
// different from an unrotated one. The message is drawn upright afterwards.
//
// # Usage
//
//	c := styles.NewCanvas(width, height)
//	styles.PaintBackdrop(c, 2)
//	styles.DrawBox(c, col, row, styles.BoxParams{
//	    Width: 20, Height: 10, Color: "#ffcc00",
//	    Text: "Backend is Live!", Opacity: 1, Rotation: 180, Shadow: true,
//	})
//	view := c.Render()
package styles
