// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the logrus loggers used across bouncer.
//
// The TUI owns the terminal, so its logs go to a file. The greeting API logs
// to stderr. Components receive a logrus.FieldLogger and tag their entries
// with a "component" field.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options controls logger construction.
type Options struct {
	// Level is a logrus level name ("debug", "info", "warn", ...).
	Level string
	// File is the log destination. Empty means Output (or stderr).
	File string
	// Output is used when File is empty.
	Output io.Writer
	// JSON selects the JSON formatter instead of the text formatter.
	JSON bool
}

// New returns a configured logger and a function that releases its output.
func New(opts Options) (*logrus.Logger, func() error, error) {
	log := logrus.New()

	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}
	log.SetLevel(level)

	if opts.JSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			DisableColors:   opts.File != "",
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	}

	closer := func() error { return nil }
	switch {
	case opts.File != "":
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		log.SetOutput(f)
		closer = f.Close
	case opts.Output != nil:
		log.SetOutput(opts.Output)
	default:
		log.SetOutput(os.Stderr)
	}

	return log, closer, nil
}

// NewDefault returns an info-level stderr logger tagged with component.
func NewDefault(component string) logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	return log.WithField("component", component)
}

// Discard returns a logger that drops everything.
func Discard() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// Component tags log with the component name, falling back to Discard when
// log is nil.
func Component(log logrus.FieldLogger, name string) logrus.FieldLogger {
	if log == nil {
		log = Discard()
	}
	return log.WithField("component", name)
}
