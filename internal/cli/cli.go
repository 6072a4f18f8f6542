// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and the small command handlers.
package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// stdout and stderr are swapped by tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdFetch
	CmdStatus
	CmdConfig
	CmdVersion
	CmdHelp
)

func (c Command) String() string {
	switch c {
	case CmdTUI:
		return "tui"
	case CmdFetch:
		return "fetch"
	case CmdStatus:
		return "status"
	case CmdConfig:
		return "config"
	case CmdVersion:
		return "version"
	case CmdHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	JSON    bool
	Quiet   bool
	Verbose bool
	// APIURL overrides api.base_url for this run.
	APIURL string

	// Command-specific
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Unknown is set when the command word was not recognized.
	Unknown string

	// Raw args (remaining after the command word)
	Raw []string
}

const usageText = `bouncer - a bouncing box that greets you from an API
Version: %s

USAGE:
    bouncer [flags] [command]

COMMANDS:
    tui                 Run the bouncing box (default)
    fetch               Fetch the greeting once and print it
    status, s           Check the greeting API's health
    config show         Show the effective configuration
    config get KEY      Print one value (e.g. ui.fps)
    config set KEY VAL  Change a value and save it
    config path         Print the config file path
    config init         Write a default config file
    version             Show version information
    help                Show this help

FLAGS:
    --api URL           Greeting API base URL (overrides BOUNCER_API_URL)
    --json              Machine-readable output (fetch, status, config show, version)
    -q, --quiet         Less output
    -v, --verbose       Debug logging

KEYS (tui):
    r  refresh message    h  toggle header    ?  help    q  quit

ENVIRONMENT:
    BOUNCER_API_URL, BOUNCER_FPS, BOUNCER_LOG_LEVEL, BOUNCER_LOG_FILE
    (a .env file in the working directory is read first)
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Fprintf(stdout, usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Fprintf(stdout, "bouncer version %s\n", Version)
	fmt.Fprintf(stdout, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(stdout, "  Build date: %s\n", BuildDate)
}

// Parse parses os.Args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses command-line arguments and returns the command and args.
func ParseArgs(args []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(args)
	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs
	case "fetch", "get", "hello":
		return CmdFetch, parsedArgs
	case "status", "s":
		return CmdStatus, parsedArgs
	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs
	case "version", "-v", "--version":
		return CmdVersion, parsedArgs
	case "help", "-h", "--help":
		return CmdHelp, parsedArgs
	default:
		parsedArgs.Unknown = cmd
		return CmdHelp, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
// Flags are accepted anywhere on the line.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsed Args

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--json":
			parsed.JSON = true
		case "-q", "--quiet":
			parsed.Quiet = true
		case "--verbose":
			parsed.Verbose = true
		case "-v":
			// -v alone is --version; after a command it means verbose.
			if len(remaining) == 0 {
				remaining = append(remaining, arg)
			} else {
				parsed.Verbose = true
			}
		case "--api":
			if i+1 < len(args) {
				i++
				parsed.APIURL = args[i]
			}
		default:
			if strings.HasPrefix(arg, "--api=") {
				parsed.APIURL = strings.TrimPrefix(arg, "--api=")
			} else {
				remaining = append(remaining, arg)
			}
		}
	}
	return remaining, parsed
}

// parseConfigArgs fills the config subcommand and its key/value.
func parseConfigArgs(args *Args, remaining []string) {
	p := NewArgParser(remaining)
	args.Subcommand = strings.ToLower(p.Subcommand())
	args.ConfigKey = p.Positional(1)
	args.ConfigVal = strings.Join(p.PositionalFrom(2), " ")
}

// HandleVersion handles the "version" command with JSON output support.
func HandleVersion(args Args) error {
	if args.JSON {
		return NewJSONResponse("version", VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}).Print()
	}
	PrintVersion()
	return nil
}

// HandleHelp handles the "help" command. An unknown command word gets a
// suggestion and a usage error.
func HandleHelp(args Args) error {
	if args.Unknown == "" {
		PrintUsage()
		return nil
	}
	if s := SuggestCommand(args.Unknown); s != "" {
		fmt.Fprintf(stderr, "Unknown command %q. Did you mean %q?\n", args.Unknown, s)
	} else {
		PrintUsage()
	}
	return &ValidationError{Field: "command", Value: args.Unknown, Reason: "unknown command", Example: "bouncer help"}
}
