// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package animation

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jeranaias/bouncer/internal/frame"
	"github.com/jeranaias/bouncer/internal/geom"
	"github.com/jeranaias/bouncer/internal/logging"
	"github.com/jeranaias/bouncer/internal/physics"
	"github.com/jeranaias/bouncer/internal/refresh"
	"github.com/jeranaias/bouncer/internal/surface"
	"github.com/jeranaias/bouncer/internal/viewport"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config bundles the constants of every component.
type Config struct {
	Physics physics.Params
	Refresh refresh.Timings
	// StabilizeRetries is how many changing size samples are tolerated
	// before the loop starts anyway.
	StabilizeRetries int
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Physics:          physics.DefaultParams(),
		Refresh:          refresh.DefaultTimings(),
		StabilizeRetries: 6,
	}
}

// Deps are the collaborators a Loop needs from its host.
type Deps struct {
	Surface   surface.Surface
	Tracker   *viewport.Tracker
	Events    viewport.Events
	Scheduler frame.Scheduler
	// Fetcher may be nil: the box still bounces and recolors, with no text.
	Fetcher refresh.Fetcher
	// Rand defaults to a time-seeded PCG source.
	Rand   physics.Rand
	Logger logrus.FieldLogger
}

// Phase is the loop's lifecycle stage.
type Phase int

const (
	PhaseStabilizing Phase = iota
	PhaseSetup
	PhaseBootstrapping
	PhaseRunning
	PhaseDisposed
)

func (p Phase) String() string {
	switch p {
	case PhaseStabilizing:
		return "stabilizing"
	case PhaseSetup:
		return "setup"
	case PhaseBootstrapping:
		return "bootstrapping"
	case PhaseRunning:
		return "running"
	case PhaseDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// =============================================================================
// LOOP
// =============================================================================

// Loop owns the animation state. It is not safe for concurrent use; every
// method must be called from the host's event loop.
type Loop struct {
	cfg     Config
	state   *physics.State
	surf    surface.Surface
	tracker *viewport.Tracker
	events  viewport.Events
	refresh *refresh.Coordinator
	rng     physics.Rand
	log     logrus.FieldLogger

	phase      Phase
	started    bool
	sampled    bool
	prevSize   geom.Extent
	tries      int
	last       time.Time
	collisions int
}

// New builds a loop. Nothing happens until Start.
func New(cfg Config, deps Deps) *Loop {
	rng := deps.Rand
	if rng == nil {
		now := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now>>17|1))
	}
	log := logging.Component(deps.Logger, "animation")

	state := physics.NewState()
	coord := refresh.NewCoordinator(state, deps.Surface, deps.Fetcher, deps.Scheduler, cfg.Refresh)
	coord.SetLogger(deps.Logger)

	return &Loop{
		cfg:     cfg,
		state:   state,
		surf:    deps.Surface,
		tracker: deps.Tracker,
		events:  deps.Events,
		refresh: coord,
		rng:     rng,
		log:     log,
	}
}

// Start subscribes to geometry changes, computes the first bounds and kicks
// off the initial message fetch. Calling it twice is a no-op.
func (l *Loop) Start() {
	if l.started || l.phase == PhaseDisposed {
		return
	}
	l.started = true
	l.phase = PhaseStabilizing

	if l.tracker != nil {
		l.tracker.Attach(l.events, l.ViewportChanged, l.ContainerResized)
	}
	l.updateBounds()
	l.refresh.FetchNow()
	l.log.WithField("bounds", l.state.Bounds).Debug("loop started")
}

// Tick advances the loop by one frame.
func (l *Loop) Tick(now time.Time) {
	if !l.started {
		return
	}
	switch l.phase {
	case PhaseStabilizing:
		l.stabilize()
	case PhaseSetup:
		l.setup()
	case PhaseBootstrapping:
		if l.targetsReady() {
			l.last = now
			l.setPhase(PhaseRunning)
		}
	case PhaseRunning:
		l.step(now)
	}
}

// ViewportChanged recomputes the bounds and pulls the box back inside them
// right away.
func (l *Loop) ViewportChanged() {
	if l.phase == PhaseDisposed {
		return
	}
	l.updateBounds()
	// The box has no position until setup seeds it.
	if l.phase < PhaseBootstrapping {
		return
	}
	vis, ok := l.visual()
	if !ok {
		return
	}
	l.state.Position = l.state.Bounds.Clamp(l.state.Position, l.effective(vis))
	if pos, ok := l.positioner(); ok {
		l.translate(pos)
	}
}

// ContainerResized recomputes the bounds. The next step clamps the box.
func (l *Loop) ContainerResized() {
	if l.phase == PhaseDisposed {
		return
	}
	l.updateBounds()
}

// Dispose unsubscribes from every event source and stops the loop and any
// in-flight refresh.
func (l *Loop) Dispose() {
	if l.phase == PhaseDisposed {
		return
	}
	if l.tracker != nil {
		l.tracker.Detach()
	}
	l.refresh.Close()
	l.setPhase(PhaseDisposed)
}

// Phase returns the lifecycle stage.
func (l *Loop) Phase() Phase { return l.phase }

// State returns the live animation state. Callers must not mutate it.
func (l *Loop) State() *physics.State { return l.state }

// Refresh returns the refresh coordinator.
func (l *Loop) Refresh() *refresh.Coordinator { return l.refresh }

// Collisions returns the number of collision steps so far.
func (l *Loop) Collisions() int { return l.collisions }

// Config returns the loop configuration.
func (l *Loop) Config() Config { return l.cfg }

// =============================================================================
// PHASES
// =============================================================================

func (l *Loop) stabilize() {
	vis, ok := l.visual()
	if !ok {
		return
	}
	size := vis.Size()
	if !l.sampled {
		l.prevSize = size
		l.sampled = true
		return
	}
	if size == l.prevSize {
		l.beginSetup()
		return
	}
	l.prevSize = size
	l.tries++
	if l.tries > l.cfg.StabilizeRetries {
		l.log.WithField("tries", l.tries).Debug("size never settled, starting anyway")
		l.beginSetup()
	}
}

func (l *Loop) beginSetup() {
	l.updateBounds()
	l.setPhase(PhaseSetup)
}

func (l *Loop) setup() {
	l.updateBounds()
	vis, ok := l.visual()
	if !ok || !l.containerReady() {
		return
	}
	physics.Seed(l.state, l.effective(vis), l.cfg.Physics, l.rng)
	if pos, ok := l.positioner(); ok {
		l.translate(pos)
	}
	l.log.WithFields(logrus.Fields{
		"position": l.state.Position,
		"velocity": l.state.Velocity,
	}).Debug("box placed")
	l.setPhase(PhaseBootstrapping)
}

func (l *Loop) step(now time.Time) {
	if !l.targetsReady() {
		return
	}
	vis, _ := l.visual()
	p := l.cfg.Physics

	dt := physics.ClampStep(l.last, now, p.MaxStep)
	l.last = now

	eff := l.effective(vis)
	next := physics.Integrate(l.state.Position, l.state.Velocity, dt)
	res := physics.Resolve(next, l.state.Velocity, l.state.Bounds, eff, p, l.rng)
	l.state.Apply(res)

	if res.Collided {
		l.collisions++
		started := l.refresh.SoftRefresh()
		l.log.WithFields(logrus.Fields{
			"edges":   res.Edges.String(),
			"color":   res.Color,
			"speed":   math.Round(res.Velocity.Len()),
			"refresh": started,
		}).Debug("collision")
	}

	l.render()
}

// =============================================================================
// RENDERING
// =============================================================================

func (l *Loop) render() {
	if pos, ok := l.positioner(); ok {
		l.translate(pos)
	}
	if vis, ok := l.visual(); ok {
		vis.SetRotation(l.cfg.Physics.RotationDeg)
		vis.SetBackground(l.state.Color)
	}
	if txt, ok := l.text(); ok {
		txt.SetRotation(-l.cfg.Physics.RotationDeg)
	}
}

func (l *Loop) translate(pos surface.Positioner) {
	b := l.state.Bounds
	pos.Translate(math.Round(b.Left+l.state.Position.X), math.Round(b.Top+l.state.Position.Y))
}

// =============================================================================
// HELPERS
// =============================================================================

func (l *Loop) updateBounds() {
	if l.tracker == nil {
		return
	}
	l.tracker.Update(&l.state.Bounds)
}

func (l *Loop) effective(vis surface.Visual) geom.Extent {
	return l.cfg.Physics.Effective(vis.Size())
}

func (l *Loop) setPhase(p Phase) {
	if l.phase == p {
		return
	}
	l.log.WithField("from", l.phase.String()).WithField("to", p.String()).Debug("phase change")
	l.phase = p
}

func (l *Loop) containerReady() bool {
	if l.tracker == nil {
		return true
	}
	_, ok := l.tracker.Compute()
	return ok
}

func (l *Loop) targetsReady() bool {
	_, okPos := l.positioner()
	_, okVis := l.visual()
	return okPos && okVis && l.containerReady()
}

func (l *Loop) positioner() (surface.Positioner, bool) {
	if l.surf == nil {
		return nil, false
	}
	return l.surf.Positioner()
}

func (l *Loop) visual() (surface.Visual, bool) {
	if l.surf == nil {
		return nil, false
	}
	return l.surf.Visual()
}

func (l *Loop) text() (surface.Text, bool) {
	if l.surf == nil {
		return nil, false
	}
	return l.surf.Text()
}
