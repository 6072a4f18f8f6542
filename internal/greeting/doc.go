// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package greeting provides the HTTP client for the greeting API.
//
// The API has two endpoints the client cares about:
//
//   - GET /api/hello  returns {"message": "...", "timestamp": "..."}
//   - GET /api/health returns {"status": "...", "environment": "...", "timestamp": "..."}
//
// # Key Types
//
//   - Client: thread-safe API client
//   - ClientConfig: base URL and timeout
//   - ClientError: typed error carrying the HTTP status when there is one
//
// # Usage
//
//	client := greeting.NewClient(os.Getenv("BOUNCER_API_URL"))
//	msg, err := client.FetchMessage(ctx)
//	if err != nil {
//	    fmt.Println("Error:", err)
//	}
package greeting
