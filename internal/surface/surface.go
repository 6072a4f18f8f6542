// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package surface describes the render targets the animation writes to.
//
// A host exposes three targets: a positioner that only translates, a rotated
// visual that carries the background color, and an optional text element
// inside the visual. Each accessor returns ok=false while the target is not
// mounted, and callers check again before every write.
package surface

import (
	"time"

	"github.com/jeranaias/bouncer/internal/geom"
)

// Positioner moves the whole box. Coordinates are screen pixels.
type Positioner interface {
	Translate(x, y float64)
}

// Visual is the rotated, colored box.
type Visual interface {
	// Size returns the measured unrotated size. Zero means not measurable.
	Size() geom.Extent
	SetRotation(deg float64)
	SetBackground(color string)
}

// Text is the message element inside the visual.
type Text interface {
	SetOpacity(v float64, transition time.Duration)
	SetRotation(deg float64)
}

// Surface gives access to the targets.
type Surface interface {
	Positioner() (Positioner, bool)
	Visual() (Visual, bool)
	Text() (Text, bool)
}
