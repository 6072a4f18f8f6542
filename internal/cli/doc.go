// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and command handlers for bouncer.
//
// # Commands
//
//   - (none) / tui: the bouncing box screen
//   - fetch: fetch the greeting once and print it
//   - status: check the greeting API's health endpoint
//   - config: show, get, set, path, init
//   - version: build information
//   - help: usage
//
// fetch, status, config show and version accept --json. JSON output goes
// to stdout; human-readable notes go to stderr.
//
// Handlers return errors rather than exiting. main maps them to exit codes
// with GetExitCode.
package cli
