// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// # Middleware
//
//   - Panic recovery logged as "Unhandled exception" with the stack
//   - X-Request-Id on every response (client UUIDs are kept)
//   - logrus access log per request
//   - Security headers (X-Content-Type-Options, X-Frame-Options, ...)
//   - CORS allow-list from server.allowed_origins
//   - Per-client token bucket (golang.org/x/time/rate)
//
// Request counts and latencies per route are exported through a Prometheus
// registry owned by the server.
//
// # Message
//
// The greeting is server.message, or the content of server.message_file
// when set. The file is watched with fsnotify and reloaded on change.
//
// # Usage
//
//	srv := server.New(server.OptionsFromConfig(cfg.Server, log))
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	if err := srv.Serve(ctx); err != nil {
//		log.Fatal(err)
//	}
package server
