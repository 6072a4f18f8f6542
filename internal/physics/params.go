// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package physics

import (
	"math"
	"time"

	"github.com/jeranaias/bouncer/internal/geom"
)

// Params holds the motion constants. Build it once with DefaultParams and
// pass it by value.
type Params struct {
	// MinSpeed and MaxSpeed bound the speed after every collision (px/s).
	MinSpeed float64
	MaxSpeed float64

	// Safety is the inset applied to every side of the visible region (px).
	Safety float64

	// RotationDeg is the fixed visual rotation of the box.
	RotationDeg float64

	// Epsilon is how far inside the bounds a collided box is placed (px).
	Epsilon float64

	// MaxStep caps the integration delta per frame.
	MaxStep time.Duration

	// Jitter is the half-width of the random heading nudge (radians).
	Jitter float64

	// FallbackExtent is used when the visual cannot be measured.
	FallbackExtent geom.Extent
}

// DefaultParams returns the standard motion constants.
func DefaultParams() Params {
	return Params{
		MinSpeed:       50,
		MaxSpeed:       150,
		Safety:         6,
		RotationDeg:    180,
		Epsilon:        0.5,
		MaxStep:        50 * time.Millisecond,
		Jitter:         0.06,
		FallbackExtent: geom.Extent{Width: 160, Height: 160},
	}
}

// Rotation returns the rotation in radians.
func (p Params) Rotation() float64 {
	return geom.Radians(p.RotationDeg)
}

// Effective returns the rotated extent of a measured size, falling back to
// FallbackExtent when the measurement is zero.
func (p Params) Effective(measured geom.Extent) geom.Extent {
	m := measured.Or(p.FallbackExtent)
	return geom.EffectiveExtent(m.Width, m.Height, p.Rotation())
}

// ClampSpeed clamps s into [MinSpeed, MaxSpeed].
func (p Params) ClampSpeed(s float64) float64 {
	return math.Max(p.MinSpeed, math.Min(p.MaxSpeed, s))
}
