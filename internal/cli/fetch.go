// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// fetch.go - One-shot greeting fetch.
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/bouncer/internal/config"
	"github.com/jeranaias/bouncer/internal/greeting"
)

// HandleFetch fetches the greeting once.
//
//	bouncer fetch           message, rendered as markdown on a terminal
//	bouncer fetch --raw     response body, pretty-printed and highlighted
//	bouncer fetch --json    JSON envelope
func HandleFetch(args Args) error {
	cfg := effectiveConfig(args)
	raw := NewArgParser(args.Raw, "raw").BoolFlag("raw")
	client := newClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout(cfg))
	defer cancel()

	start := time.Now()
	hello, err := client.Fetch(ctx)
	latency := time.Since(start)

	if args.JSON {
		if err != nil {
			_ = NewJSONErrorResponse("fetch", err, FetchData{BaseURL: client.BaseURL()}).Print()
			return err
		}
		return NewJSONResponse("fetch", FetchData{
			BaseURL:   client.BaseURL(),
			Message:   hello.Message,
			Timestamp: hello.Timestamp,
			Body:      hello.Raw,
			LatencyMs: latency.Milliseconds(),
		}).Print()
	}

	if err != nil {
		return &CommandError{Command: "fetch", Action: "get", Reason: client.BaseURL() + "/api/hello", Err: err}
	}

	if raw {
		fmt.Fprintln(stdout, highlightJSON(hello.Raw))
		return nil
	}
	fmt.Fprintln(stdout, renderMessage(hello.Message))
	if !args.Quiet && hello.Timestamp != "" {
		fmt.Fprintln(stderr, DimStyle.Render("server time: "+hello.Timestamp))
	}
	return nil
}

// renderMessage renders markdown on a terminal and leaves piped output
// untouched.
func renderMessage(msg string) string {
	if !IsStdoutTTY() {
		return msg
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(GetTerminalWidth()-4),
	)
	if err != nil {
		return msg
	}
	out, err := r.Render(msg)
	if err != nil {
		return msg
	}
	return strings.TrimRight(out, "\n")
}

// highlightJSON indents body and colors it when colors are enabled.
func highlightJSON(body []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return string(body)
	}
	code := buf.String()
	if !ColorsEnabled() {
		return code
	}

	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var out strings.Builder
	if err := formatter.Format(&out, style, iterator); err != nil {
		return code
	}
	return out.String()
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// effectiveConfig returns the global config with per-run flag overrides.
func effectiveConfig(args Args) *config.Config {
	cfg := config.Global().Clone()
	if u := greeting.NormalizeBaseURL(args.APIURL); u != "" {
		cfg.API.BaseURL = u
	}
	if args.Verbose {
		cfg.Log.Level = "debug"
	}
	return cfg
}

func requestTimeout(cfg *config.Config) time.Duration {
	return time.Duration(cfg.API.TimeoutSecs) * time.Second
}

func newClient(cfg *config.Config) *greeting.Client {
	return greeting.NewClientWithConfig(&greeting.ClientConfig{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   requestTimeout(cfg),
		UserAgent: "bouncer/" + Version,
	})
}
