// Package tools exposes the Prior client operations as invocable tools: a
// name, a description, a JSON input schema and an Invoke function. Framework
// integrations (MCP, agent runtimes) adapt these externally; nothing here
// depends on any particular adapter.
package tools

import (
	"context"
	"strings"
)

// JSONSchema is a minimal JSON-Schema subset, enough to describe tool inputs.
type JSONSchema struct {
	Type        string                `json:"type,omitempty"`
	Description string                `json:"description,omitempty"`
	Properties  map[string]JSONSchema `json:"properties,omitempty"`
	Required    []string              `json:"required,omitempty"`
	Items       *JSONSchema           `json:"items,omitempty"`
	Default     any                   `json:"default,omitempty"`
}

// Tool is one invocable capability over the Prior client.
type Tool struct {
	Name        string
	Description string
	Schema      JSONSchema
	Invoke      func(ctx context.Context, input map[string]any) (any, error)
}

// -- input accessors --

func str(input map[string]any, key string) string {
	s, _ := input[key].(string)
	return s
}

func num(input map[string]any, key string) float64 {
	f, _ := input[key].(float64)
	return f
}

func stringSlice(input map[string]any, key string) []string {
	raw, ok := input[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func anyMap(input map[string]any, key string) map[string]any {
	m, _ := input[key].(map[string]any)
	return m
}

func stringMap(input map[string]any, key string) map[string]string {
	raw, ok := input[key].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
