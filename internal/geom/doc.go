// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package geom holds the small value types shared by the animation core:
// rectangles, vectors, drawable bounds and rotated extents.
//
// All quantities are virtual pixels. The terminal host decides how many
// pixels a cell is worth; nothing in this package knows about cells.
//
// # Key Types
//
//   - Rect: an axis-aligned rectangle in screen coordinates
//   - Bounds: the drawable region the box must stay inside
//   - Vec: a 2D position or velocity
//   - Extent: a width/height pair, usually a measured size
//
// # Usage
//
//	eff := geom.EffectiveExtent(160, 160, math.Pi)
//	limit := bounds.Width - eff.Width
package geom
