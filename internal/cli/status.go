// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Health check against the greeting API.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// HandleStatus queries /api/health and reports the result. An unreachable
// or unhealthy API is an error.
func HandleStatus(args Args) error {
	cfg := effectiveConfig(args)
	client := newClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout(cfg))
	defer cancel()

	start := time.Now()
	health, err := client.Health(ctx)
	data := StatusData{
		BaseURL:   client.BaseURL(),
		Reachable: err == nil,
		LatencyMs: time.Since(start).Milliseconds(),
	}
	if err == nil {
		data.Status = health.Status
		data.Environment = health.Environment
		if !health.Timestamp.IsZero() {
			data.ServerTime = health.Timestamp.UTC().Format(time.RFC3339)
		}
		if !health.Healthy() {
			err = &CommandError{Command: "status", Action: "check", Reason: fmt.Sprintf("API reports %q", health.Status)}
		}
	}

	if args.JSON {
		if err != nil {
			_ = NewJSONErrorResponse("status", err, data).Print()
			return err
		}
		return NewJSONResponse("status", data).Print()
	}

	fmt.Fprintln(stdout, TitleStyle.Render("bouncer status"))
	fmt.Fprintln(stdout, renderField("API", data.BaseURL))
	if !data.Reachable {
		fmt.Fprintln(stdout, renderField("Health", RenderStatus("error")+" unreachable"))
		return err
	}
	fmt.Fprintln(stdout, renderField("Health", RenderStatus(data.Status)+" "+data.Status))
	fmt.Fprintln(stdout, renderField("Environment", data.Environment))
	if !health.Timestamp.IsZero() {
		fmt.Fprintln(stdout, renderField("Server time", fmt.Sprintf("%s (%s)", data.ServerTime, humanize.Time(health.Timestamp))))
	}
	fmt.Fprintln(stdout, renderField("Latency", fmt.Sprintf("%d ms", data.LatencyMs)))
	return err
}
