// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"math"
	"time"
)

// =============================================================================
// EASING
// =============================================================================

// EasingFunc maps progress (0-1) to output (0-1).
type EasingFunc func(t float64) float64

// EaseLinear - constant speed
func EaseLinear(t float64) float64 {
	return t
}

// EaseOutQuad - decelerating to zero
func EaseOutQuad(t float64) float64 {
	return t * (2 - t)
}

// EaseInOutQuad - acceleration until halfway, then deceleration
func EaseInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

// EaseOutCubic - decelerating to zero (smoother)
func EaseOutCubic(t float64) float64 {
	t--
	return t*t*t + 1
}

// EaseCSS approximates the CSS "ease" timing function,
// cubic-bezier(0.25, 0.1, 0.25, 1).
func EaseCSS(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	// Solve x(s) = t for the curve parameter by bisection, then return y(s).
	lo, hi := 0.0, 1.0
	s := t
	for i := 0; i < 24; i++ {
		x := bezier(s, 0.25, 0.25)
		if math.Abs(x-t) < 1e-5 {
			break
		}
		if x < t {
			lo = s
		} else {
			hi = s
		}
		s = (lo + hi) / 2
	}
	return bezier(s, 0.1, 1)
}

func bezier(s, p1, p2 float64) float64 {
	u := 1 - s
	return 3*u*u*s*p1 + 3*u*s*s*p2 + s*s*s
}

// =============================================================================
// FADE
// =============================================================================

// Fade interpolates an opacity between two values over time.
type Fade struct {
	From     float64
	To       float64
	Start    time.Time
	Duration time.Duration
	Easing   EasingFunc
}

// Steady returns a fade that is already at v.
func Steady(v float64) Fade {
	return Fade{From: v, To: v}
}

// FadeFrom starts a transition from the value f has at now towards to.
func (f Fade) FadeFrom(now time.Time, to float64, d time.Duration) Fade {
	return Fade{
		From:     f.At(now),
		To:       to,
		Start:    now,
		Duration: d,
		Easing:   EaseCSS,
	}
}

// At returns the value at now.
func (f Fade) At(now time.Time) float64 {
	if f.Duration <= 0 || !now.Before(f.Start.Add(f.Duration)) {
		return f.To
	}
	p := float64(now.Sub(f.Start)) / float64(f.Duration)
	if p < 0 {
		p = 0
	}
	ease := f.Easing
	if ease == nil {
		ease = EaseLinear
	}
	return f.From + (f.To-f.From)*ease(p)
}

// Done reports whether the fade has reached its target.
func (f Fade) Done(now time.Time) bool {
	return f.Duration <= 0 || !now.Before(f.Start.Add(f.Duration))
}
