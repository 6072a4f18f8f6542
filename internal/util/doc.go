// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util holds small helpers shared by the CLI and the TUI.
//
// # Key Functions
//
//   - StringWidth, TruncateWidth, PadCenter: column-aware text fitting
//     backed by go-runewidth
//   - TruncateRunes, RuneLen, SingleLine: rune-safe string helpers
//   - AtomicWriteFile: crash-safe file writes
//
// # Usage
//
//	line := util.TruncateWidth(msg, 16)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
