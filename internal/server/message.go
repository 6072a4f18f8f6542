// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DefaultReloadDebounce coalesces the burst of events an editor produces
// when saving.
const DefaultReloadDebounce = 100 * time.Millisecond

// MessageSource supplies the greeting text. With a file configured the text
// is the trimmed file content, reloaded when the file changes; an empty or
// unreadable file falls back to the configured message.
type MessageSource struct {
	fallback string
	path     string
	debounce time.Duration
	logger   logrus.FieldLogger

	mu      sync.RWMutex
	current string

	// onReload observes every reload attempt. Set before Watch.
	onReload func(error)
}

// NewMessageSource creates a source and performs the initial load. A
// missing file is not an error: the fallback is served until it appears.
func NewMessageSource(fallback, path string, logger logrus.FieldLogger) *MessageSource {
	s := &MessageSource{
		fallback: fallback,
		path:     path,
		debounce: DefaultReloadDebounce,
		logger:   logger,
		current:  fallback,
	}
	if path != "" {
		if err := s.Reload(); err != nil && !os.IsNotExist(err) {
			logger.WithError(err).WithField("file", path).Warn("Could not read message file")
		}
	}
	return s
}

// Message returns the text to greet with.
func (s *MessageSource) Message() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Path returns the watched file, or "".
func (s *MessageSource) Path() string {
	return s.path
}

// Reload re-reads the file. On error the fallback is served.
func (s *MessageSource) Reload() error {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	text := strings.TrimSpace(string(data))
	if err != nil || text == "" {
		text = s.fallback
	}

	s.mu.Lock()
	changed := s.current != text
	s.current = text
	s.mu.Unlock()

	if changed {
		s.logger.WithField("file", s.path).Info("Greeting message updated")
	}
	return err
}

// Watch reloads the message whenever the file is written, created, renamed
// or removed, until ctx is done. The parent directory is watched so editors
// that replace the file are handled.
func (s *MessageSource) Watch(ctx context.Context) error {
	if s.path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	go s.processEvents(ctx, watcher)
	return nil
}

func (s *MessageSource) processEvents(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	target := filepath.Clean(s.path)
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(s.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(s.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			err := s.Reload()
			if err != nil && !os.IsNotExist(err) {
				s.logger.WithError(err).WithField("file", s.path).Warn("Could not reload message file")
			}
			if s.onReload != nil {
				s.onReload(err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.WithError(err).Warn("Message watcher error")
		}
	}
}
