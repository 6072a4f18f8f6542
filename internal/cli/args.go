// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// args.go - Argument parsing shared by the bouncer commands.
package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// flagValue is one parsed flag. A flag seen without a value, or with an
// explicit =true/=false, is a switch.
type flagValue struct {
	text   string
	on     bool
	toggle bool
}

// ArgParser splits raw arguments into flags and positionals. It accepts
// "--name value", "--name=value", "-n value", bare switches, and "--" to end
// flag parsing. The first positional is the subcommand.
type ArgParser struct {
	flags      map[string]flagValue
	positional []string
}

// NewArgParser parses raw. Names listed in switches never consume the next
// argument, so "--json show" keeps "show" as a positional.
//
//	p := NewArgParser([]string{"get", "ui.fps", "--json"}, "json")
//	p.Subcommand()     // "get"
//	p.Positional(1)    // "ui.fps"
//	p.BoolFlag("json") // true
func NewArgParser(raw []string, switches ...string) *ArgParser {
	p := &ArgParser{flags: make(map[string]flagValue)}
	isSwitch := func(name string) bool {
		for _, s := range switches {
			if s == name {
				return true
			}
		}
		return false
	}

	for i := 0; i < len(raw); i++ {
		arg := raw[i]
		switch {
		case arg == "--":
			p.positional = append(p.positional, raw[i+1:]...)
			return p
		case arg == "-" || !strings.HasPrefix(arg, "-"):
			p.positional = append(p.positional, arg)
			continue
		}

		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		switch {
		case hasValue && (value == "true" || value == "false"):
			p.flags[name] = flagValue{on: value == "true", toggle: true}
		case hasValue:
			p.flags[name] = flagValue{text: value}
		case !isSwitch(name) && i+1 < len(raw) && !strings.HasPrefix(raw[i+1], "-"):
			i++
			p.flags[name] = flagValue{text: raw[i]}
		default:
			p.flags[name] = flagValue{on: true, toggle: true}
		}
	}
	return p
}

// Subcommand returns the first positional argument.
func (p *ArgParser) Subcommand() string {
	return p.Positional(0)
}

// Flag returns the value of a valued flag, or "".
func (p *ArgParser) Flag(name string) string {
	return p.flags[strings.TrimLeft(name, "-")].text
}

// FlagInt returns a valued flag as an integer.
func (p *ArgParser) FlagInt(name string) (int, error) {
	v := p.Flag(name)
	if v == "" {
		return 0, fmt.Errorf("flag %s not found", name)
	}
	return strconv.Atoi(v)
}

// BoolFlag reports whether a switch is on.
func (p *ArgParser) BoolFlag(name string) bool {
	f := p.flags[strings.TrimLeft(name, "-")]
	return f.toggle && f.on
}

// HasFlag reports whether the flag appeared at all.
func (p *ArgParser) HasFlag(name string) bool {
	_, ok := p.flags[strings.TrimLeft(name, "-")]
	return ok
}

// Positional returns positional argument i, or "".
func (p *ArgParser) Positional(i int) string {
	if i < 0 || i >= len(p.positional) {
		return ""
	}
	return p.positional[i]
}

// PositionalFrom returns the positionals from index i on.
func (p *ArgParser) PositionalFrom(i int) []string {
	if i < 0 || i >= len(p.positional) {
		return nil
	}
	return p.positional[i:]
}

// ParseBoolString accepts true/false, yes/no, y/n, 1/0 and on/off in any case.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1", "on":
		return true, nil
	case "false", "no", "n", "0", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean value: %s", s)
}
