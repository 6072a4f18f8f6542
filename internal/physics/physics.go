// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package physics

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jeranaias/bouncer/internal/geom"
)

// =============================================================================
// STATE
// =============================================================================

// InitialColor is the box color before the first collision.
const InitialColor = "#ffcc00"

// State is the mutable animation state. The render loop owns it; the refresh
// coordinator only reads Color and flips Refreshing.
type State struct {
	Bounds     geom.Bounds
	Position   geom.Vec
	Velocity   geom.Vec
	Color      string
	Refreshing bool
}

// NewState returns a zeroed state with the initial color.
func NewState() *State {
	return &State{Color: InitialColor}
}

// Rand is the random source used for seeding and collision response.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
}

func between(r Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// RandomColor returns a random #rrggbb color.
func RandomColor(r Rand) string {
	return fmt.Sprintf("#%06x", int(math.Floor(r.Float64()*0xffffff)))
}

// Seed places the box at a random legal position and gives it a random
// heading with a speed in [MinSpeed, MaxSpeed].
func Seed(st *State, eff geom.Extent, p Params, r Rand) {
	lim := st.Bounds.Limit(eff)
	st.Position = geom.Vec{X: between(r, 0, lim.X), Y: between(r, 0, lim.Y)}
	speed := between(r, p.MinSpeed, p.MaxSpeed)
	angle := between(r, 0, 2*math.Pi)
	st.Velocity = geom.FromPolar(angle, speed)
}

// =============================================================================
// INTEGRATION
// =============================================================================

// Integrate advances pos by vel over dt seconds.
func Integrate(pos, vel geom.Vec, dt float64) geom.Vec {
	return pos.Add(vel.Scale(dt))
}

// ClampStep returns the seconds between prev and now, clamped to [0, max].
func ClampStep(prev, now time.Time, max time.Duration) float64 {
	d := now.Sub(prev)
	if d < 0 {
		d = 0
	}
	if d > max {
		d = max
	}
	return d.Seconds()
}

// =============================================================================
// COLLISION
// =============================================================================

// Edge identifies which side of the bounds was hit.
type Edge uint8

const (
	EdgeLeft Edge = 1 << iota
	EdgeRight
	EdgeTop
	EdgeBottom
)

// Has reports whether e contains all bits of o.
func (e Edge) Has(o Edge) bool { return e&o == o }

// String returns a compact form such as "left|top".
func (e Edge) String() string {
	if e == 0 {
		return "none"
	}
	var parts []string
	for _, n := range []struct {
		edge Edge
		name string
	}{{EdgeLeft, "left"}, {EdgeRight, "right"}, {EdgeTop, "top"}, {EdgeBottom, "bottom"}} {
		if e.Has(n.edge) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// Result is the outcome of a Resolve call. Color is only meaningful when
// Collided is true.
type Result struct {
	Position geom.Vec
	Velocity geom.Vec
	Collided bool
	Color    string
	Edges    Edge
}

// Resolve keeps pos inside bounds for a box of effective extent eff.
//
// Each axis checks its lower bound and then its upper bound. A hit places the
// box Epsilon inside the edge and forces the velocity component to point
// back inward, substituting MinSpeed for a zero component. After any hit the
// step draws one new color and one heading jitter, and the speed is clamped.
// Axes that hit keep their inward sign after the jitter.
func Resolve(pos, vel geom.Vec, bounds geom.Bounds, eff geom.Extent, p Params, r Rand) Result {
	res := Result{Position: pos, Velocity: vel}

	limX := bounds.Width - eff.Width
	limY := bounds.Height - eff.Height

	if res.Position.X < 0 {
		res.Position.X = p.Epsilon
		res.Velocity.X = inward(res.Velocity.X, p.MinSpeed)
		res.Edges |= EdgeLeft
	}
	if res.Position.X > limX {
		res.Position.X = math.Max(0, limX-p.Epsilon)
		res.Velocity.X = -inward(res.Velocity.X, p.MinSpeed)
		res.Edges |= EdgeRight
	}
	if res.Position.Y < 0 {
		res.Position.Y = p.Epsilon
		res.Velocity.Y = inward(res.Velocity.Y, p.MinSpeed)
		res.Edges |= EdgeTop
	}
	if res.Position.Y > limY {
		res.Position.Y = math.Max(0, limY-p.Epsilon)
		res.Velocity.Y = -inward(res.Velocity.Y, p.MinSpeed)
		res.Edges |= EdgeBottom
	}

	if res.Edges == 0 {
		return res
	}
	res.Collided = true
	res.Color = RandomColor(r)

	speed := p.ClampSpeed(res.Velocity.Len())
	angle := res.Velocity.Angle() + (r.Float64()-0.5)*2*p.Jitter
	res.Velocity = geom.FromPolar(angle, speed)

	// The jitter can tip a nearly axis-parallel heading back outward.
	switch {
	case res.Edges.Has(EdgeRight):
		res.Velocity.X = -math.Abs(res.Velocity.X)
	case res.Edges.Has(EdgeLeft):
		res.Velocity.X = math.Abs(res.Velocity.X)
	}
	switch {
	case res.Edges.Has(EdgeBottom):
		res.Velocity.Y = -math.Abs(res.Velocity.Y)
	case res.Edges.Has(EdgeTop):
		res.Velocity.Y = math.Abs(res.Velocity.Y)
	}
	return res
}

// inward returns |v|, or min when v is zero.
func inward(v, min float64) float64 {
	if a := math.Abs(v); a != 0 {
		return a
	}
	return min
}

// Apply copies a Resolve result into st. Color changes only on collision.
func (st *State) Apply(res Result) {
	st.Position = res.Position
	st.Velocity = res.Velocity
	if res.Collided {
		st.Color = res.Color
	}
}
