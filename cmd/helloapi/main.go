// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Command helloapi serves the greeting API the bouncing box polls.
//
// Usage:
//
//	helloapi [--addr :5000] [--env Development] [--json-logs]
//
// Everything else comes from the [server] section of ~/.bouncer/config.toml
// and the BOUNCER_* environment variables (a .env file is read first).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jeranaias/bouncer/internal/cli"
	"github.com/jeranaias/bouncer/internal/config"
	"github.com/jeranaias/bouncer/internal/logging"
	"github.com/jeranaias/bouncer/internal/server"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "helloapi: %v\n", err)
		os.Exit(1)
	}
}

func run(argv []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	p := cli.NewArgParser(argv, "json-logs", "help")
	if p.BoolFlag("help") {
		fmt.Println("usage: helloapi [--config FILE] [--addr ADDR] [--env NAME] [--json-logs]")
		return nil
	}

	cfg := config.Global().Clone()
	if path := p.Flag("config"); path != "" {
		loaded, err := config.LoadFromPath(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if addr := p.Flag("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	if env := p.Flag("env"); env != "" {
		cfg.Server.Environment = env
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log, closeLog, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Output: os.Stderr,
		JSON:   p.BoolFlag("json-logs"),
	})
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.OptionsFromConfig(cfg.Server, log))
	return srv.Serve(ctx)
}
