// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package viewport

import (
	"sync"

	"github.com/jeranaias/bouncer/internal/geom"
)

// ContainerSource reports the container rectangle in screen coordinates.
// ok is false when the container is not laid out yet.
type ContainerSource interface {
	ContainerRect() (r geom.Rect, ok bool)
}

// ViewportSource reports the visible region of the screen.
type ViewportSource interface {
	ViewportRect() (r geom.Rect, ok bool)
}

// Events is the host's change notification surface. Each subscription
// returns a function that removes it.
type Events interface {
	OnViewportChange(fn func()) (unsubscribe func())
	ObserveContainer(fn func()) (unsubscribe func())
}

// Tracker recomputes bounds from its sources.
type Tracker struct {
	container ContainerSource
	screen    ViewportSource
	safety    float64

	mu     sync.Mutex
	unsubs []func()
}

// NewTracker creates a tracker with the given safety inset.
func NewTracker(container ContainerSource, screen ViewportSource, safety float64) *Tracker {
	return &Tracker{container: container, screen: screen, safety: safety}
}

// Compute returns the current bounds. ok is false when either source has no
// geometry yet.
func (t *Tracker) Compute() (geom.Bounds, bool) {
	if t.container == nil || t.screen == nil {
		return geom.Bounds{}, false
	}
	c, ok := t.container.ContainerRect()
	if !ok {
		return geom.Bounds{}, false
	}
	v, ok := t.screen.ViewportRect()
	if !ok {
		return geom.Bounds{}, false
	}
	return geom.Bounds(c.Intersect(v).Inset(t.safety)), true
}

// Update writes the current bounds into dst. When geometry is unavailable dst
// is left untouched and Update returns false.
func (t *Tracker) Update(dst *geom.Bounds) bool {
	b, ok := t.Compute()
	if !ok {
		return false
	}
	*dst = b
	return true
}

// Attach subscribes to viewport and container changes. Calling Attach again
// drops the previous subscriptions first.
func (t *Tracker) Attach(ev Events, onViewport, onContainer func()) {
	t.Detach()
	if ev == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if onViewport != nil {
		t.unsubs = append(t.unsubs, ev.OnViewportChange(onViewport))
	}
	if onContainer != nil {
		t.unsubs = append(t.unsubs, ev.ObserveContainer(onContainer))
	}
}

// Detach removes every subscription made by Attach. Safe to call twice.
func (t *Tracker) Detach() {
	t.mu.Lock()
	unsubs := t.unsubs
	t.unsubs = nil
	t.mu.Unlock()

	for _, u := range unsubs {
		if u != nil {
			u()
		}
	}
}

// Attached reports whether any subscription is live.
func (t *Tracker) Attached() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.unsubs) > 0
}
