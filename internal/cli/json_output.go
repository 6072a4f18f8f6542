// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// json_output.go - JSON output for scripting.
package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jeranaias/bouncer/internal/config"
)

// JSONResponse is the response envelope of every --json command.
type JSONResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	// Error is null on success.
	Error     *string `json:"error"`
	Timestamp string  `json:"timestamp"`
	Command   string  `json:"command,omitempty"`
}

// NewJSONResponse creates a new successful JSON response.
func NewJSONResponse(command string, data interface{}) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a new error JSON response. data may carry
// whatever was collected before the failure.
func NewJSONErrorResponse(command string, err error, data interface{}) *JSONResponse {
	msg := err.Error()
	return &JSONResponse{
		Success:   false,
		Data:      data,
		Error:     &msg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Print outputs the JSON response to stdout.
func (r *JSONResponse) Print() error {
	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// String returns the JSON response as a string.
func (r *JSONResponse) String() string {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"success":false,"error":"failed to marshal response: %s","timestamp":"%s"}`,
			err.Error(), time.Now().UTC().Format(time.RFC3339))
	}
	return string(data)
}

// StderrPrint prints a message to stderr (for human-readable output in JSON mode).
func StderrPrint(format string, args ...interface{}) {
	fmt.Fprintf(stderr, format, args...)
}

// =============================================================================
// COMMAND-SPECIFIC DATA STRUCTURES
// =============================================================================

// FetchData is returned by the fetch command.
type FetchData struct {
	BaseURL   string          `json:"base_url"`
	Message   string          `json:"message"`
	Timestamp string          `json:"timestamp,omitempty"`
	Body      json.RawMessage `json:"body,omitempty"`
	LatencyMs int64           `json:"latency_ms"`
}

// StatusData is returned by the status command.
type StatusData struct {
	BaseURL     string `json:"base_url"`
	Reachable   bool   `json:"reachable"`
	Status      string `json:"status,omitempty"`
	Environment string `json:"environment,omitempty"`
	ServerTime  string `json:"server_time,omitempty"`
	LatencyMs   int64  `json:"latency_ms"`
}

// ConfigData is returned by config show.
type ConfigData struct {
	Path   string         `json:"path"`
	Config *config.Config `json:"config"`
}

// VersionData represents the data returned by the version command.
type VersionData struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version,omitempty"`
}
