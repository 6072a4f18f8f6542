// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - Terminal detection for the one-shot commands.
//
// Output that is not a terminal (pipes, files, test buffers) gets no colors
// and no markdown rendering. NO_COLOR beats FORCE_COLOR.
package cli

import (
	"io"
	"os"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const (
	// DefaultTerminalWidth is used when the width cannot be read.
	DefaultTerminalWidth = 80

	// MinTerminalWidth keeps glamour from wrapping every word.
	MinTerminalWidth = 40
)

// fdWriter is satisfied by *os.File.
type fdWriter interface {
	io.Writer
	Fd() uintptr
}

// isTerminal reports whether w writes to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(fdWriter)
	return ok && term.IsTerminal(int(f.Fd()))
}

// IsStdoutTTY reports whether command output goes to a terminal.
func IsStdoutTTY() bool {
	return isTerminal(stdout)
}

// GetTerminalWidth returns the width of the output terminal, at least
// MinTerminalWidth, or DefaultTerminalWidth when unknown.
func GetTerminalWidth() int {
	f, ok := stdout.(fdWriter)
	if !ok {
		return DefaultTerminalWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	switch {
	case err != nil || width <= 0:
		return DefaultTerminalWidth
	case width < MinTerminalWidth:
		return MinTerminalWidth
	}
	return width
}

// colorMode is decided once per process from the environment.
type colorMode int

const (
	colorAuto colorMode = iota
	colorOn
	colorOff
)

var (
	colorModeOnce sync.Once
	colorModeVal  colorMode
	colorMu       sync.Mutex
)

func envColorMode() colorMode {
	switch {
	case os.Getenv("NO_COLOR") != "":
		return colorOff
	case os.Getenv("FORCE_COLOR") != "":
		return colorOn
	}
	return colorAuto
}

// ColorsEnabled reports whether output should be colored.
// See https://no-color.org/.
func ColorsEnabled() bool {
	colorMu.Lock()
	colorModeOnce.Do(func() { colorModeVal = envColorMode() })
	mode := colorModeVal
	colorMu.Unlock()

	switch mode {
	case colorOn:
		return true
	case colorOff:
		return false
	}
	return IsStdoutTTY()
}

// ForceColorsEnabled overrides the environment. Tests only.
func ForceColorsEnabled(enabled bool) {
	colorMu.Lock()
	defer colorMu.Unlock()
	colorModeOnce.Do(func() {})
	colorModeVal = colorOff
	if enabled {
		colorModeVal = colorOn
	}
}

// GetColorProfile returns the termenv profile for command output: Ascii
// when colors are off.
func GetColorProfile() termenv.Profile {
	if !ColorsEnabled() {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}
