// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for bouncer.
//
// Supports both TOML and JSON configuration formats, with defaults,
// environment variable overrides, and validation.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (BOUNCER_*), optionally seeded from ./.env
//   - ~/.bouncer/config.toml
//   - ~/.bouncer/config.json
//   - Built-in defaults
//
// The animation's physical constants are not configurable; see
// animation.DefaultConfig.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := greeting.NewClient(cfg.API.BaseURL)
package config
