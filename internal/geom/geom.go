// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package geom

import (
	"fmt"
	"math"
)

// =============================================================================
// VECTORS
// =============================================================================

// Vec is a 2D vector. Used for both positions (px) and velocities (px/s).
type Vec struct {
	X float64
	Y float64
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Scale returns v * k.
func (v Vec) Scale(k float64) Vec {
	return Vec{X: v.X * k, Y: v.Y * k}
}

// Len returns the Euclidean magnitude.
func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Angle returns the direction of v in radians.
func (v Vec) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// FromPolar builds a vector from a direction and magnitude.
func FromPolar(angle, length float64) Vec {
	return Vec{X: math.Cos(angle) * length, Y: math.Sin(angle) * length}
}

func (v Vec) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y)
}

// =============================================================================
// RECTANGLES
// =============================================================================

// Rect is an axis-aligned rectangle in screen coordinates.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Intersect returns the overlap of r and o. Non-overlapping rectangles
// produce a zero-sized rect anchored at the larger origin.
func (r Rect) Intersect(o Rect) Rect {
	left := math.Max(r.Left, o.Left)
	top := math.Max(r.Top, o.Top)
	right := math.Min(r.Right(), o.Right())
	bottom := math.Min(r.Bottom(), o.Bottom())
	return Rect{
		Left:   left,
		Top:    top,
		Width:  math.Max(0, right-left),
		Height: math.Max(0, bottom-top),
	}
}

// Inset shrinks r by d on every side. Width and height never go negative.
func (r Rect) Inset(d float64) Rect {
	return Rect{
		Left:   r.Left + d,
		Top:    r.Top + d,
		Width:  math.Max(0, r.Width-2*d),
		Height: math.Max(0, r.Height-2*d),
	}
}

// =============================================================================
// BOUNDS AND EXTENTS
// =============================================================================

// Bounds is the drawable region the box lives in. Positions are relative to
// its top-left corner. Width and Height are always >= 0.
type Bounds Rect

// Rect returns b as a plain Rect.
func (b Bounds) Rect() Rect { return Rect(b) }

// Limit returns the largest legal top-left coordinate for a box of the given
// effective extent. Never negative.
func (b Bounds) Limit(eff Extent) Vec {
	return Vec{
		X: math.Max(0, b.Width-eff.Width),
		Y: math.Max(0, b.Height-eff.Height),
	}
}

// Clamp pulls p inside [0, Limit(eff)] on both axes.
func (b Bounds) Clamp(p Vec, eff Extent) Vec {
	lim := b.Limit(eff)
	return Vec{
		X: math.Min(math.Max(p.X, 0), lim.X),
		Y: math.Min(math.Max(p.Y, 0), lim.Y),
	}
}

// Extent is a width/height pair.
type Extent struct {
	Width  float64
	Height float64
}

// IsZero reports whether either dimension is zero.
func (e Extent) IsZero() bool {
	return e.Width == 0 || e.Height == 0
}

// Or returns e, or fallback when e is zero-sized.
func (e Extent) Or(fallback Extent) Extent {
	if e.IsZero() {
		return fallback
	}
	return e
}

// EffectiveExtent returns the axis-aligned bounding size of a w x h box
// rotated by theta radians about its center.
func EffectiveExtent(w, h, theta float64) Extent {
	c := math.Abs(math.Cos(theta))
	s := math.Abs(math.Sin(theta))
	return Extent{
		Width:  w*c + h*s,
		Height: w*s + h*c,
	}
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}
