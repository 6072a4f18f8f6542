// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// backdropSteps quantizes the gradient so neighbouring cells share a style.
const backdropSteps = 12

// Blend mixes two #rrggbb colors; t=0 is a, t=1 is b. Unparseable input
// returns the other color.
func Blend(a, b string, t float64) string {
	ca, errA := colorful.Hex(a)
	cb, errB := colorful.Hex(b)
	switch {
	case errA != nil && errB != nil:
		return a
	case errA != nil:
		return b
	case errB != nil:
		return a
	}
	t = math.Max(0, math.Min(1, t))
	return ca.BlendRgb(cb, t).Clamped().Hex()
}

// Luminance returns the perceived lightness of a #rrggbb color in [0, 1].
func Luminance(hex string) float64 {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0
	}
	l, _, _ := c.Lab()
	return l
}

// PaintBackdrop fills the canvas with a radial glow centered at 20% / 20%
// that fades into the outer color at 60% of the farthest-corner radius.
// cellAspect is cell height divided by cell width.
func PaintBackdrop(c *Canvas, cellAspect float64) {
	if c.W == 0 || c.H == 0 {
		return
	}
	inner, _ := colorful.Hex(BackdropInner)
	outer, _ := colorful.Hex(BackdropOuter)

	palette := make([]string, backdropSteps+1)
	for i := range palette {
		palette[i] = inner.BlendLab(outer, float64(i)/backdropSteps).Clamped().Hex()
	}
	palette[0], palette[backdropSteps] = BackdropInner, BackdropOuter

	w := float64(c.W)
	h := float64(c.H) * cellAspect
	cx, cy := 0.2*w, 0.2*h
	radius := math.Hypot(math.Max(cx, w-cx), math.Max(cy, h-cy))
	stop := 0.6 * radius

	for y := 0; y < c.H; y++ {
		py := (float64(y) + 0.5) * cellAspect
		for x := 0; x < c.W; x++ {
			d := math.Hypot(float64(x)+0.5-cx, py-cy)
			t := math.Min(1, d/stop)
			c.cells[y][x].BG = palette[int(math.Round(t*backdropSteps))]
		}
	}
}
