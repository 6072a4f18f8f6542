// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error types and exit codes for the CLI.
//
// Handlers always return errors and let main decide how to display them.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jeranaias/bouncer/internal/config"
	"github.com/jeranaias/bouncer/internal/greeting"
)

// =============================================================================
// EXIT CODES
// =============================================================================

// Process exit codes. 4 and 6 are unused so scripts can tell these apart
// from the shell's own codes.
const (
	ExitSuccess       = 0
	ExitGeneralError  = 1
	ExitUsageError    = 2 // bad command, flag, or argument
	ExitConfigError   = 3 // config file or value rejected
	ExitNetworkError  = 5 // API unreachable or answered with an error
	ExitNotFoundError = 7 // unknown config key, or a 404 from the API
	ExitTimeoutError  = 8
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string // Command that failed (e.g., "fetch", "config")
	Action  string // Action being performed (e.g., "set")
	Reason  string // Human-readable reason
	Err     error  // Underlying error (if any)
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Command, e.Action, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Command, e.Action, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation failure for user input.
type ValidationError struct {
	Field   string
	Value   string
	Reason  string
	Example string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got: %s)", e.Value)
	}
	if e.Example != "" {
		msg += fmt.Sprintf("\nExample: %s", e.Example)
	}
	return msg
}

// ConfigError wraps a config file or setting that could not be used.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return "config: " + e.Err.Error() }

func (e *ConfigError) Unwrap() error { return e.Err }

// NotFoundError represents a resource not found error.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrMissingArgument creates an error for missing required arguments.
func ErrMissingArgument(argName, usage string) error {
	return &ValidationError{Field: argName, Reason: "required argument missing", Example: usage}
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

// classification is what main and the JSON envelope need to know about an
// error.
type classification struct {
	code   int
	kind   string
	fields map[string]interface{}
}

// classify walks the error chain. Typed errors win over sentinel checks.
func classify(err error) classification {
	var (
		valErr    *ValidationError
		nfErr     *NotFoundError
		cfgErrs   config.ValidateErrors
		cfgErr    *ConfigError
		clientErr *greeting.ClientError
		cmdErr    *CommandError
	)
	switch {
	case errors.As(err, &valErr):
		return classification{ExitUsageError, "validation_error", map[string]interface{}{"field": valErr.Field}}
	case errors.As(err, &nfErr):
		return classification{ExitNotFoundError, "not_found_error", map[string]interface{}{"resource": nfErr.Resource}}
	case errors.As(err, &cfgErrs), errors.As(err, &cfgErr):
		return classification{ExitConfigError, "config_error", nil}
	case errors.As(err, &clientErr):
		c := classification{ExitNetworkError, "api_error", map[string]interface{}{}}
		if clientErr.StatusCode != 0 {
			c.fields["status_code"] = clientErr.StatusCode
		}
		switch {
		case clientErr.Type == greeting.ErrTypeTimeout:
			c.code = ExitTimeoutError
		case greeting.IsStatus(err, http.StatusNotFound):
			c.code = ExitNotFoundError
		}
		return c
	case errors.Is(err, context.DeadlineExceeded):
		return classification{ExitTimeoutError, "timeout_error", nil}
	case errors.As(err, &cmdErr):
		return classification{ExitGeneralError, "command_error", map[string]interface{}{"command": cmdErr.Command}}
	}
	return classification{ExitGeneralError, "generic_error", nil}
}

// GetExitCode maps err to a process exit code.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	return classify(err).code
}

// DisplayError writes err to w, as a JSON envelope in JSON mode.
func DisplayError(w io.Writer, err error, jsonMode bool) {
	if err == nil {
		return
	}
	if !jsonMode {
		fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("[ERROR]"), err.Error())
		return
	}

	c := classify(err)
	out := map[string]interface{}{
		"success":    false,
		"error":      err.Error(),
		"error_type": c.kind,
		"exit_code":  c.code,
	}
	for k, v := range c.fields {
		out[k] = v
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}
