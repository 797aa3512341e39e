package client

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingContext is returned by Search when the request carries no context
// or the context lacks the mandatory "runtime" key.
var ErrMissingContext = errors.New(`search context must include a "runtime" key`)

// Envelope is the server's standard response wrapper. The client core never
// interprets it; callers (CLI, tools) decode it from the raw response.
type Envelope struct {
	OK    bool            `json:"ok"`
	Error string          `json:"error,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// DecodeEnvelope parses a raw response body into an Envelope. A nil body (an
// empty response, e.g. from Retract) decodes as a successful empty envelope.
func DecodeEnvelope(raw json.RawMessage) (*Envelope, error) {
	if len(raw) == 0 {
		return &Envelope{OK: true}, nil
	}
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode response envelope: %w", err)
	}
	return &env, nil
}
