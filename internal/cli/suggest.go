// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// suggest.go - "Did you mean" hints for mistyped words.
package cli

import "strings"

// commandWords maps every accepted command word to the command it runs.
// Suggestions always name the canonical word.
var commandWords = map[string]string{
	"tui":     "tui",
	"fetch":   "fetch",
	"get":     "fetch",
	"hello":   "fetch",
	"status":  "status",
	"s":       "status",
	"config":  "config",
	"version": "version",
	"help":    "help",
}

// configWords are the config subcommands.
var configWords = map[string]string{
	"show": "show",
	"get":  "get",
	"set":  "set",
	"path": "path",
	"init": "init",
}

// SuggestCommand returns the command input most likely meant, or "" when
// input is already valid or nothing is close.
func SuggestCommand(input string) string {
	return nearest(input, commandWords)
}

// SuggestConfigSubcommand is SuggestCommand for "bouncer config <word>".
func SuggestConfigSubcommand(input string) string {
	return nearest(input, configWords)
}

// nearest picks the canonical target of the closest word. One edit is
// allowed below four characters, two from four on so that swapped letters
// ("hepl") still match. On a tie a canonical word beats an alias, then the
// alphabetically first word wins.
func nearest(input string, words map[string]string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	if len(input) < 2 {
		return ""
	}
	if _, ok := words[input]; ok {
		return ""
	}

	limit := 1
	if len(input) >= 4 {
		limit = 2
	}

	best, bestWord, bestDist := "", "", limit+1
	for word, target := range words {
		d := editDistance(input, word)
		if d > bestDist {
			continue
		}
		if d == bestDist {
			canon, bestCanon := word == target, bestWord == best
			if canon != bestCanon {
				if !canon {
					continue
				}
			} else if word > bestWord {
				continue
			}
		}
		best, bestWord, bestDist = target, word, d
	}
	if bestDist > limit {
		return ""
	}
	return best
}

// editDistance is the Levenshtein distance over bytes, kept to two rows.
func editDistance(a, b string) int {
	if a == "" || b == "" {
		return len(a) + len(b)
	}
	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(a); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			sub := diag
			if a[i-1] != b[j-1] {
				sub++
			}
			diag = row[j]
			row[j] = min(row[j]+1, row[j-1]+1, sub)
		}
	}
	return row[len(b)]
}
