// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package surfacetest provides an in-memory surface.Surface for tests.
package surfacetest

import (
	"time"

	"github.com/jeranaias/bouncer/internal/geom"
	"github.com/jeranaias/bouncer/internal/surface"
)

// Recorder is an in-memory surface.Surface that remembers the last write to
// every target.
type Recorder struct {
	HasPositioner bool
	HasVisual     bool
	HasText       bool

	// Sizes is consumed one entry per Size call; the last entry repeats.
	Sizes []geom.Extent

	X, Y           float64
	Translations   int
	Rotation       float64
	TextRotation   float64
	Background     string
	Backgrounds    []string
	Opacity        float64
	OpacityHistory []float64
	Transition     time.Duration
}

// NewRecorder returns a Recorder with every target mounted and a fixed size.
func NewRecorder(size geom.Extent) *Recorder {
	return &Recorder{
		HasPositioner: true,
		HasVisual:     true,
		HasText:       true,
		Sizes:         []geom.Extent{size},
		Opacity:       1,
	}
}

func (r *Recorder) Positioner() (surface.Positioner, bool) { return recPositioner{r}, r.HasPositioner }
func (r *Recorder) Visual() (surface.Visual, bool)         { return recVisual{r}, r.HasVisual }
func (r *Recorder) Text() (surface.Text, bool)             { return recText{r}, r.HasText }

var _ surface.Surface = (*Recorder)(nil)

type recPositioner struct{ r *Recorder }

func (p recPositioner) Translate(x, y float64) {
	p.r.X, p.r.Y = x, y
	p.r.Translations++
}

type recVisual struct{ r *Recorder }

func (v recVisual) Size() geom.Extent {
	if len(v.r.Sizes) == 0 {
		return geom.Extent{}
	}
	s := v.r.Sizes[0]
	if len(v.r.Sizes) > 1 {
		v.r.Sizes = v.r.Sizes[1:]
	}
	return s
}

func (v recVisual) SetRotation(deg float64) { v.r.Rotation = deg }

func (v recVisual) SetBackground(color string) {
	v.r.Background = color
	v.r.Backgrounds = append(v.r.Backgrounds, color)
}

type recText struct{ r *Recorder }

func (t recText) SetOpacity(o float64, transition time.Duration) {
	t.r.Opacity = o
	t.r.Transition = transition
	t.r.OpacityHistory = append(t.r.OpacityHistory, o)
}

func (t recText) SetRotation(deg float64) { t.r.TextRotation = deg }
