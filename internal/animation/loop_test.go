// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package animation

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/bouncer/internal/frame"
	"github.com/jeranaias/bouncer/internal/geom"
	"github.com/jeranaias/bouncer/internal/physics"
	"github.com/jeranaias/bouncer/internal/refresh"
	"github.com/jeranaias/bouncer/internal/surface/surfacetest"
	"github.com/jeranaias/bouncer/internal/viewport"
)

type screen struct {
	container geom.Rect
	view      geom.Rect
	mounted   bool
}

func (s *screen) ContainerRect() (geom.Rect, bool) { return s.container, s.mounted }
func (s *screen) ViewportRect() (geom.Rect, bool)  { return s.view, s.mounted }

type harness struct {
	loop    *Loop
	rec     *surfacetest.Recorder
	screen  *screen
	hub     *viewport.Hub
	sched   *frame.Manual
	fetches int
	now     time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		rec: surfacetest.NewRecorder(geom.Extent{Width: 160, Height: 160}),
		screen: &screen{
			container: geom.Rect{Width: 812, Height: 612},
			view:      geom.Rect{Width: 812, Height: 612},
			mounted:   true,
		},
		hub:   viewport.NewHub(),
		sched: frame.NewManual(),
		now:   time.Unix(1700000000, 0),
	}
	cfg := DefaultConfig()
	h.loop = New(cfg, Deps{
		Surface:   h.rec,
		Tracker:   viewport.NewTracker(h.screen, h.screen, cfg.Physics.Safety),
		Events:    h.hub,
		Scheduler: h.sched,
		Fetcher: refresh.FetcherFunc(func(ctx context.Context) (string, error) {
			h.fetches++
			return "Backend is Live!", nil
		}),
		Rand: rand.New(rand.NewPCG(3, 4)),
	})
	return h
}

func (h *harness) tick(d time.Duration) {
	h.now = h.now.Add(d)
	h.loop.Tick(h.now)
}

// run starts the loop and ticks it into the running phase.
func (h *harness) run(t *testing.T) {
	t.Helper()
	h.loop.Start()
	for i := 0; i < 10 && h.loop.Phase() != PhaseRunning; i++ {
		h.tick(16 * time.Millisecond)
	}
	require.Equal(t, PhaseRunning, h.loop.Phase())
}

func TestLoop_StartupSequence(t *testing.T) {
	h := newHarness(t)

	h.tick(16 * time.Millisecond)
	assert.Equal(t, PhaseStabilizing, h.loop.Phase(), "ticks before Start are ignored")

	h.loop.Start()
	assert.Equal(t, geom.Bounds{Left: 6, Top: 6, Width: 800, Height: 600}, h.loop.State().Bounds)
	assert.Equal(t, 1, h.sched.PendingWork(), "initial fetch starts immediately")

	h.tick(16 * time.Millisecond) // first size sample
	assert.Equal(t, PhaseStabilizing, h.loop.Phase())
	h.tick(16 * time.Millisecond) // same size
	assert.Equal(t, PhaseSetup, h.loop.Phase())
	h.tick(16 * time.Millisecond)
	assert.Equal(t, PhaseBootstrapping, h.loop.Phase())
	assert.Equal(t, 1, h.rec.Translations)

	st := h.loop.State()
	lim := st.Bounds.Limit(geom.Extent{Width: 160, Height: 160})
	assert.GreaterOrEqual(t, st.Position.X, 0.0)
	assert.LessOrEqual(t, st.Position.X, lim.X)
	speed := st.Velocity.Len()
	assert.GreaterOrEqual(t, speed, 50.0)
	assert.LessOrEqual(t, speed, 150.0)

	before := st.Position
	h.tick(16 * time.Millisecond)
	assert.Equal(t, PhaseRunning, h.loop.Phase())
	assert.Equal(t, before, st.Position, "bootstrap tick only records the timestamp")

	h.sched.Complete()
	msg, loaded := h.loop.Refresh().Message()
	assert.True(t, loaded)
	assert.Equal(t, "Backend is Live!", msg.Text)
}

func TestLoop_StabilizeGivesUp(t *testing.T) {
	h := newHarness(t)
	h.rec.Sizes = nil
	for i := 1; i <= 20; i++ {
		h.rec.Sizes = append(h.rec.Sizes, geom.Extent{Width: float64(100 + i), Height: 160})
	}
	h.loop.Start()

	// One baseline sample plus six tolerated changes.
	for i := 0; i < 7; i++ {
		h.tick(16 * time.Millisecond)
	}
	assert.Equal(t, PhaseStabilizing, h.loop.Phase())
	h.tick(16 * time.Millisecond)
	assert.Equal(t, PhaseSetup, h.loop.Phase())
}

func TestLoop_WaitsForVisual(t *testing.T) {
	h := newHarness(t)
	h.rec.HasVisual = false
	h.loop.Start()
	for i := 0; i < 20; i++ {
		h.tick(16 * time.Millisecond)
	}
	assert.Equal(t, PhaseStabilizing, h.loop.Phase())

	h.rec.HasVisual = true
	h.tick(16 * time.Millisecond)
	h.tick(16 * time.Millisecond)
	assert.Equal(t, PhaseSetup, h.loop.Phase())
}

func TestLoop_SetupDeferredUntilContainerMounted(t *testing.T) {
	h := newHarness(t)
	h.loop.Start()
	h.tick(16 * time.Millisecond)
	h.tick(16 * time.Millisecond)
	require.Equal(t, PhaseSetup, h.loop.Phase())

	h.screen.mounted = false
	h.tick(16 * time.Millisecond)
	h.tick(16 * time.Millisecond)
	assert.Equal(t, PhaseSetup, h.loop.Phase())
	assert.Zero(t, h.rec.Translations)

	h.screen.mounted = true
	h.tick(16 * time.Millisecond)
	assert.Equal(t, PhaseBootstrapping, h.loop.Phase())
}

func TestLoop_LongFrameIsClamped(t *testing.T) {
	h := newHarness(t)
	h.run(t)

	st := h.loop.State()
	st.Position = geom.Vec{X: 100, Y: 100}
	st.Velocity = geom.Vec{X: 100, Y: 0}

	h.tick(500 * time.Millisecond)
	assert.InDelta(t, 105, st.Position.X, 1e-9)
	assert.InDelta(t, 100, st.Position.Y, 1e-9)
	assert.Equal(t, float64(6+105), h.rec.X)
	assert.Equal(t, float64(6+100), h.rec.Y)
	assert.Equal(t, 180.0, h.rec.Rotation)
	assert.Equal(t, -180.0, h.rec.TextRotation)
}

func TestLoop_CollisionTriggersRefresh(t *testing.T) {
	h := newHarness(t)
	h.run(t)
	h.sched.Complete() // initial fetch
	require.Equal(t, 1, h.fetches)

	st := h.loop.State()
	st.Position = geom.Vec{X: 2, Y: 200}
	st.Velocity = geom.Vec{X: -100, Y: 0}

	h.tick(50 * time.Millisecond)
	assert.Equal(t, 1, h.loop.Collisions())
	assert.Equal(t, 0.5, st.Position.X)
	assert.Greater(t, st.Velocity.X, 0.0)
	assert.NotEqual(t, physics.InitialColor, st.Color)
	assert.True(t, st.Refreshing)
	assert.Equal(t, st.Color, h.rec.Background)

	// A second hit while the refresh runs does not start another fetch.
	st.Position = geom.Vec{X: 1, Y: 200}
	st.Velocity = geom.Vec{X: -100, Y: 0}
	h.tick(16 * time.Millisecond)
	require.Equal(t, 2, h.loop.Collisions())
	require.True(t, st.Refreshing)

	h.sched.Settle(50)
	assert.Equal(t, 2, h.fetches)
	assert.False(t, st.Refreshing)
}

func TestLoop_ViewportChangeBeforeSeed(t *testing.T) {
	h := newHarness(t)
	h.loop.Start()
	require.Equal(t, PhaseStabilizing, h.loop.Phase())

	h.screen.view = geom.Rect{Width: 600, Height: 400}
	h.hub.FireViewport()
	assert.Less(t, h.loop.State().Bounds.Width, 800.0, "bounds follow the viewport")
	assert.Zero(t, h.rec.Translations, "nothing is placed before setup")

	h.run(t)
	st := h.loop.State()
	lim := st.Bounds.Limit(geom.Extent{Width: 160, Height: 160})
	assert.Positive(t, h.rec.Translations)
	assert.LessOrEqual(t, st.Position.X, lim.X)
	assert.LessOrEqual(t, st.Position.Y, lim.Y)
}

func TestLoop_WithoutFetcher(t *testing.T) {
	h := newHarness(t)
	cfg := DefaultConfig()
	h.loop = New(cfg, Deps{
		Surface:   h.rec,
		Tracker:   viewport.NewTracker(h.screen, h.screen, cfg.Physics.Safety),
		Events:    h.hub,
		Scheduler: h.sched,
		Rand:      rand.New(rand.NewPCG(5, 6)),
	})
	h.run(t)
	assert.Zero(t, h.sched.PendingWork())

	st := h.loop.State()
	hits := h.loop.Collisions()
	st.Position = geom.Vec{X: 2, Y: 200}
	st.Velocity = geom.Vec{X: -100, Y: 0}
	h.tick(50 * time.Millisecond)
	require.Equal(t, hits+1, h.loop.Collisions())
	require.True(t, st.Refreshing)

	h.sched.Settle(50)
	assert.False(t, st.Refreshing)
	_, loaded := h.loop.Refresh().Message()
	assert.False(t, loaded)
}

func TestLoop_PositionStaysInBounds(t *testing.T) {
	h := newHarness(t)
	h.run(t)
	st := h.loop.State()
	eff := geom.Extent{Width: 160, Height: 160}

	for i := 0; i < 3000; i++ {
		h.tick(16 * time.Millisecond)
		if i%97 == 0 {
			h.sched.Settle(10)
		}
		lim := st.Bounds.Limit(eff)
		require.GreaterOrEqual(t, st.Position.X, 0.0)
		require.LessOrEqual(t, st.Position.X, lim.X+1e-6)
		require.GreaterOrEqual(t, st.Position.Y, 0.0)
		require.LessOrEqual(t, st.Position.Y, lim.Y+1e-6)
	}
	assert.Positive(t, h.loop.Collisions())
}

func TestLoop_ViewportShrinkClamps(t *testing.T) {
	h := newHarness(t)
	h.run(t)
	st := h.loop.State()
	st.Position = geom.Vec{X: 600, Y: 400}

	h.screen.view = geom.Rect{Width: 412, Height: 312}
	h.hub.FireViewport()

	assert.Equal(t, geom.Bounds{Left: 6, Top: 6, Width: 400, Height: 300}, st.Bounds)
	assert.InDelta(t, 240, st.Position.X, 1e-6)
	assert.InDelta(t, 140, st.Position.Y, 1e-6)
	assert.Equal(t, float64(6+240), h.rec.X)
}

func TestLoop_ContainerResize(t *testing.T) {
	h := newHarness(t)
	h.run(t)
	h.screen.container = geom.Rect{Top: 32, Width: 812, Height: 580}
	h.hub.FireContainer()
	assert.Equal(t, geom.Bounds{Left: 6, Top: 38, Width: 800, Height: 568}, h.loop.State().Bounds)
}

func TestLoop_DegenerateBounds(t *testing.T) {
	h := newHarness(t)
	h.run(t)
	h.screen.view = geom.Rect{Width: 10, Height: 10}
	h.hub.FireViewport()

	st := h.loop.State()
	assert.Equal(t, 0.0, st.Bounds.Width)
	for i := 0; i < 10; i++ {
		h.tick(16 * time.Millisecond)
		assert.Equal(t, 0.0, st.Position.X)
		assert.Equal(t, 0.0, st.Position.Y)
	}
}

func TestLoop_Dispose(t *testing.T) {
	h := newHarness(t)
	h.run(t)
	require.Equal(t, 2, h.hub.Listeners())

	h.loop.Dispose()
	assert.Equal(t, PhaseDisposed, h.loop.Phase())
	assert.Zero(t, h.hub.Listeners())

	translations := h.rec.Translations
	h.tick(16 * time.Millisecond)
	h.loop.ViewportChanged()
	assert.Equal(t, translations, h.rec.Translations)

	h.loop.Dispose()
	h.loop.Start()
	assert.Equal(t, PhaseDisposed, h.loop.Phase())
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "bootstrapping", PhaseBootstrapping.String())
	assert.Equal(t, "unknown", Phase(-1).String())
}
