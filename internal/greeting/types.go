// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package greeting

import (
	"bytes"
	"encoding/json"
	"time"
)

// Hello is the decoded /api/hello response.
type Hello struct {
	// Message is the display text. When the body has no usable message
	// field this is the compact JSON body itself.
	Message string `json:"message"`
	// Timestamp is optional and passed through as sent.
	Timestamp string `json:"timestamp,omitempty"`
	// Raw is the response body.
	Raw json.RawMessage `json:"-"`
}

// Health is the decoded /api/health response.
type Health struct {
	Status      string    `json:"status"`
	Environment string    `json:"environment"`
	Timestamp   time.Time `json:"timestamp"`
}

// Healthy reports whether the server says it is healthy.
func (h *Health) Healthy() bool {
	return h != nil && h.Status == "Healthy"
}

type helloWire struct {
	Message   json.RawMessage `json:"message"`
	Timestamp json.RawMessage `json:"timestamp"`
}

// decodeHello accepts any JSON value. A string "message" is used as is; a
// missing or null one falls back to the whole body, and any other JSON
// value is shown as its JSON text.
func decodeHello(body []byte) (*Hello, error) {
	var compact bytes.Buffer
	if err := json.Compact(&compact, body); err != nil {
		return nil, err
	}
	h := &Hello{Raw: json.RawMessage(compact.Bytes())}

	var wire helloWire
	if err := json.Unmarshal(body, &wire); err != nil {
		// Valid JSON that is not an object, e.g. a bare string or array.
		h.Message = compact.String()
		return h, nil
	}
	if len(wire.Timestamp) > 0 && wire.Timestamp[0] == '"' {
		_ = json.Unmarshal(wire.Timestamp, &h.Timestamp)
	}

	switch {
	case len(wire.Message) == 0 || string(wire.Message) == "null":
		h.Message = compact.String()
	case wire.Message[0] == '"':
		if err := json.Unmarshal(wire.Message, &h.Message); err != nil {
			return nil, err
		}
	default:
		h.Message = string(wire.Message)
	}
	return h, nil
}
