// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package viewport tracks the drawable bounds of the bouncing box.
//
// The bounds are the intersection of the container rectangle and the visible
// viewport, shrunk by a safety margin on every side. Both inputs come from the
// host through small interfaces so the tracker can be driven by a terminal, a
// test, or anything else that knows its own geometry.
//
// # Usage
//
//	tr := viewport.NewTracker(container, screen, 6)
//	tr.Attach(events, onViewport, onContainer)
//	defer tr.Detach()
//	tr.Update(&state.Bounds)
package viewport
