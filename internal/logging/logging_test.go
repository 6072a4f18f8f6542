// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Output(t *testing.T) {
	var buf bytes.Buffer
	log, closeFn, err := New(Options{Level: "debug", Output: &buf})
	require.NoError(t, err)
	defer closeFn()

	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	Component(log, "physics").WithField("edges", "left").Debug("collision")

	out := buf.String()
	assert.Contains(t, out, "component=physics")
	assert.Contains(t, out, "edges=left")
	assert.Contains(t, out, "collision")
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, _, err := New(Options{Output: &buf, JSON: true})
	require.NoError(t, err)
	log.Info("hello")
	assert.True(t, strings.HasPrefix(buf.String(), "{"))
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "bouncer.log")
	log, closeFn, err := New(Options{File: path})
	require.NoError(t, err)
	log.Warn("written to file")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestNew_BadLevel(t *testing.T) {
	_, _, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestComponent_NilLogger(t *testing.T) {
	// Must not panic.
	Component(nil, "x").Info("dropped")
}
