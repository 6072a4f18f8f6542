// bouncer - a bouncing box that greets you from an API.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	"github.com/jeranaias/bouncer/internal/cli"
	"github.com/jeranaias/bouncer/internal/config"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	// .env must be read before the config singleton applies env overrides.
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	cmd, args := cli.Parse()

	var err error
	switch cmd {
	case cli.CmdTUI:
		err = cli.RunTUI(args)
	case cli.CmdFetch:
		err = cli.HandleFetch(args)
	case cli.CmdStatus:
		err = cli.HandleStatus(args)
	case cli.CmdConfig:
		err = cli.HandleConfig(args)
	case cli.CmdVersion:
		err = cli.HandleVersion(args)
	case cli.CmdHelp:
		err = cli.HandleHelp(args)
	default:
		err = cli.RunTUI(args)
	}

	if err != nil {
		// JSON handlers already printed their envelope to stdout.
		if !args.JSON || cmd == cli.CmdTUI || cmd == cli.CmdConfig || cmd == cli.CmdHelp {
			cli.DisplayError(os.Stderr, err, args.JSON)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
