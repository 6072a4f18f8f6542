// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package bounce

import (
	"math"
	"time"

	"github.com/jeranaias/bouncer/internal/geom"
	"github.com/jeranaias/bouncer/internal/physics"
	"github.com/jeranaias/bouncer/internal/surface"
	"github.com/jeranaias/bouncer/internal/ui/styles"
)

// Cell geometry in virtual pixels.
const (
	CellWidth  = 8
	CellHeight = 16

	BoxCols = 20
	BoxRows = 10
)

// termSurface records what the animation loop writes so View can paint it.
// The box is mounted once the terminal has reported its size.
type termSurface struct {
	now     func() time.Time
	mounted bool
	placed  bool

	x, y         float64
	rotation     float64
	background   string
	textRotation float64
	opacity      styles.Fade
}

var _ surface.Surface = (*termSurface)(nil)

func newTermSurface(now func() time.Time) *termSurface {
	return &termSurface{
		now:        now,
		background: physics.InitialColor,
		opacity:    styles.Steady(1),
	}
}

func (s *termSurface) Positioner() (surface.Positioner, bool) { return termPositioner{s}, s.mounted }
func (s *termSurface) Visual() (surface.Visual, bool)         { return termVisual{s}, s.mounted }
func (s *termSurface) Text() (surface.Text, bool)             { return termText{s}, s.mounted }

// cell returns the top-left cell of the box.
func (s *termSurface) cell() (int, int) {
	return int(math.Round(s.x / CellWidth)), int(math.Round(s.y / CellHeight))
}

// textOpacity returns the current text opacity.
func (s *termSurface) textOpacity() float64 {
	return s.opacity.At(s.now())
}

type termPositioner struct{ s *termSurface }

func (p termPositioner) Translate(x, y float64) {
	p.s.x, p.s.y = x, y
	p.s.placed = true
}

type termVisual struct{ s *termSurface }

func (v termVisual) Size() geom.Extent {
	return geom.Extent{Width: BoxCols * CellWidth, Height: BoxRows * CellHeight}
}

func (v termVisual) SetRotation(deg float64)    { v.s.rotation = deg }
func (v termVisual) SetBackground(color string) { v.s.background = color }

type termText struct{ s *termSurface }

func (t termText) SetOpacity(v float64, transition time.Duration) {
	t.s.opacity = t.s.opacity.FadeFrom(t.s.now(), v, transition)
}

func (t termText) SetRotation(deg float64) { t.s.textRotation = deg }

// =============================================================================
// GEOMETRY
// =============================================================================

// layout converts the terminal size into viewport and container rectangles.
type layout struct {
	width, height int
	headerRows    int
	footerRows    int
}

// ViewportRect implements viewport.ViewportSource.
func (l *layout) ViewportRect() (geom.Rect, bool) {
	if l.width <= 0 || l.height <= 0 {
		return geom.Rect{}, false
	}
	return geom.Rect{Width: float64(l.width * CellWidth), Height: float64(l.height * CellHeight)}, true
}

// ContainerRect implements viewport.ContainerSource. The container is the
// area between the header and the footer.
func (l *layout) ContainerRect() (geom.Rect, bool) {
	if l.width <= 0 || l.height <= 0 {
		return geom.Rect{}, false
	}
	rows := l.height - l.headerRows - l.footerRows
	if rows < 0 {
		rows = 0
	}
	return geom.Rect{
		Top:    float64(l.headerRows * CellHeight),
		Width:  float64(l.width * CellWidth),
		Height: float64(rows * CellHeight),
	}, true
}

// bodyRows is the number of rows above the footer.
func (l *layout) bodyRows() int {
	rows := l.height - l.footerRows
	if rows < 0 {
		return 0
	}
	return rows
}
