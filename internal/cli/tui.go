// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// tui.go - Runs the bouncing box screen.
package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/bouncer/internal/logging"
	"github.com/jeranaias/bouncer/internal/ui/bounce"
)

// RunTUI runs the bubbletea program until the user quits. Logs go to the
// configured file because the screen belongs to the program.
func RunTUI(args Args) error {
	cfg := effectiveConfig(args)

	log, closeLog, err := logging.New(logging.Options{
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
	})
	if err != nil {
		return &ConfigError{Err: err}
	}
	defer closeLog()

	client := newClient(cfg)
	log.WithField("api", client.BaseURL()).Info("starting bouncer")

	model := bounce.New(bounce.Options{
		FPS:        cfg.UI.FPS,
		ShowHeader: cfg.UI.ShowHeader,
		ShowHelp:   cfg.UI.ShowHelp,
		Fetcher:    client,
		Logger:     log,
	})

	var opts []tea.ProgramOption
	if cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	log.Info("bouncer stopped")
	return nil
}
