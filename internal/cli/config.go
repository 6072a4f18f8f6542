// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - The "config" command.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jeranaias/bouncer/internal/config"
)

// HandleConfig dispatches config subcommands.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return handleConfigShow(args)
	case "get":
		return handleConfigGet(args)
	case "set":
		return handleConfigSet(args)
	case "path":
		return handleConfigPath(args)
	case "init":
		return handleConfigInit(args)
	default:
		example := "bouncer config [show|get|set|path|init]"
		if s := SuggestConfigSubcommand(args.Subcommand); s != "" {
			example = "bouncer config " + s
		}
		return &ValidationError{
			Field:   "subcommand",
			Value:   args.Subcommand,
			Reason:  "unknown config subcommand",
			Example: example,
		}
	}
}

func handleConfigShow(args Args) error {
	cfg := config.Global()
	path, _ := config.ConfigPathTOML()

	if args.JSON {
		return NewJSONResponse("config", ConfigData{Path: path, Config: cfg}).Print()
	}

	fmt.Fprintln(stdout, TitleStyle.Render("bouncer configuration"))
	fmt.Fprintln(stdout, DimStyle.Render(path))
	for _, key := range config.GetAllKeys() {
		v, err := cfg.Get(key)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, RenderLabel(key)+"  "+ValueStyle.Render(formatValue(v)))
	}
	return nil
}

func handleConfigGet(args Args) error {
	if args.ConfigKey == "" {
		return ErrMissingArgument("key", "bouncer config get ui.fps")
	}
	v, err := config.Global().Get(args.ConfigKey)
	if err != nil {
		return &NotFoundError{Resource: "config key", ID: args.ConfigKey}
	}
	fmt.Fprintln(stdout, formatValue(v))
	return nil
}

// handleConfigSet changes one key in the file on disk. Environment
// overrides are not written back.
func handleConfigSet(args Args) error {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		return ErrMissingArgument("key and value", "bouncer config set ui.fps 30")
	}

	cfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
		if errors.Is(err, config.ErrUnknownKey) {
			return &NotFoundError{Resource: "config key", ID: args.ConfigKey}
		}
		return &ValidationError{Field: args.ConfigKey, Value: args.ConfigVal, Reason: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return &CommandError{Command: "config", Action: "set", Reason: "could not save config", Err: err}
	}
	config.SetGlobal(cfg)

	if !args.Quiet {
		fmt.Fprintf(stdout, "%s %s = %s\n", RenderStatus("ok"), args.ConfigKey, args.ConfigVal)
	}
	return nil
}

func handleConfigPath(args Args) error {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, path)
	return nil
}

// handleConfigInit writes the defaults unless a file already exists.
func handleConfigInit(args Args) error {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return err
	}
	force := NewArgParser(args.Raw, "force").BoolFlag("force")
	if _, err := os.Stat(path); err == nil && !force {
		return &CommandError{Command: "config", Action: "init", Reason: path + " already exists (use --force)"}
	}
	if err := config.Save(config.Default()); err != nil {
		return &CommandError{Command: "config", Action: "init", Reason: "could not save config", Err: err}
	}
	if !args.Quiet {
		fmt.Fprintf(stdout, "%s wrote %s\n", RenderStatus("ok"), path)
	}
	return nil
}

// loadFileConfig loads the file config without env overrides. A missing
// file yields the defaults.
func loadFileConfig() (*config.Config, error) {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return nil, err
	}
	cfg := config.Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err := config.LoadTOML(cfg, path); err != nil {
		return nil, &ConfigError{Err: err}
	}
	return cfg, nil
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case []string:
		return strings.Join(val, ",")
	case string:
		if val == "" {
			return `""`
		}
		return val
	default:
		return fmt.Sprint(val)
	}
}
