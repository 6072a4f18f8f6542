// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package viewport

import "sync"

// Hub is a minimal Events implementation. Hosts embed it and call
// FireViewport / FireContainer when their geometry changes.
type Hub struct {
	mu        sync.Mutex
	nextID    int
	viewport  map[int]func()
	container map[int]func()
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		viewport:  make(map[int]func()),
		container: make(map[int]func()),
	}
}

// OnViewportChange implements Events.
func (h *Hub) OnViewportChange(fn func()) func() {
	return h.add(h.viewport, fn)
}

// ObserveContainer implements Events.
func (h *Hub) ObserveContainer(fn func()) func() {
	return h.add(h.container, fn)
}

func (h *Hub) add(set map[int]func(), fn func()) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	set[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(set, id)
	}
}

// FireViewport notifies viewport listeners.
func (h *Hub) FireViewport() { h.fire(h.viewport) }

// FireContainer notifies container observers.
func (h *Hub) FireContainer() { h.fire(h.container) }

func (h *Hub) fire(set map[int]func()) {
	h.mu.Lock()
	fns := make([]func(), 0, len(set))
	for _, fn := range set {
		fns = append(fns, fn)
	}
	h.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Listeners returns the number of live subscriptions.
func (h *Hub) Listeners() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.viewport) + len(h.container)
}
