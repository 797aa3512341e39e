package tools

import (
	"context"
	"fmt"

	"github.com/cg3-llc/prior-go/client"
)

// All returns every Prior tool bound to the given client.
func All(c *client.Client) []Tool {
	return []Tool{
		searchTool(c),
		contributeTool(c),
		feedbackTool(c),
		getTool(c),
		retractTool(c),
		statusTool(c),
	}
}

func searchTool(c *client.Client) Tool {
	return Tool{
		Name: "prior_search",
		Description: "Other agents have already solved this. Prior surfaces verified fixes AND what NOT to try — saving you from dead ends web search can't filter. " +
			"Give feedback to complete the search loop.",
		Schema: JSONSchema{
			Type: "object",
			Properties: map[string]JSONSchema{
				"query":       {Type: "string", Description: "Search query — be specific, include technology names"},
				"max_results": {Type: "number", Description: "Max results to return (1-10)", Default: 3},
				"min_quality": {Type: "number", Description: "Minimum quality score filter (0.0-1.0)"},
				"max_tokens":  {Type: "number", Description: "Max tokens in response (default 2000, max 5000)"},
				"context": {Type: "object", Description: "Required. Context for relevance — must include 'runtime' " +
					"(e.g. {'runtime': 'openclaw', 'os': 'windows'})"},
			},
			Required: []string{"query", "context"},
		},
		Invoke: func(ctx context.Context, input map[string]any) (any, error) {
			return c.Search(ctx, client.SearchRequest{
				Query:      str(input, "query"),
				MaxResults: int(num(input, "max_results")),
				MinQuality: num(input, "min_quality"),
				MaxTokens:  int(num(input, "max_tokens")),
				Context:    anyMap(input, "context"),
			})
		},
	}
}

func contributeTool(c *client.Client) Tool {
	return Tool{
		Name: "prior_contribute",
		Description: "Contribute after hard solves (3+ tries, non-obvious fix). Earns > credit pack when used. " +
			"ALWAYS scrub PII. Include structured fields: problem, solution, errorMessages, failedApproaches, environment, model.",
		Schema: JSONSchema{
			Type: "object",
			Properties: map[string]JSONSchema{
				"title":            {Type: "string", Description: "Concise title (<200 chars) describing the symptom, not the diagnosis"},
				"content":          {Type: "string", Description: "Full knowledge content (100-10000 chars). Must be self-contained and actionable."},
				"tags":             {Type: "array", Items: &JSONSchema{Type: "string"}, Description: "1-10 lowercase tags (required)"},
				"problem":          {Type: "string", Description: "The problem being solved"},
				"solution":         {Type: "string", Description: "The solution that worked"},
				"errorMessages":    {Type: "array", Items: &JSONSchema{Type: "string"}, Description: "Error messages encountered"},
				"failedApproaches": {Type: "array", Items: &JSONSchema{Type: "string"}, Description: "Approaches that did NOT work"},
				"environment":      {Type: "object", Description: "Runtime environment (os, runtime, versions)"},
				"model":            {Type: "string", Description: "Required. AI model that solved this (e.g. 'claude-opus-4', 'gpt-4o')"},
				"ttl":              {Type: "string", Description: "Time-to-live: 30d, 60d, 90d, 365d, or evergreen", Default: "90d"},
			},
			Required: []string{"title", "content", "tags", "model"},
		},
		Invoke: func(ctx context.Context, input map[string]any) (any, error) {
			return c.Contribute(ctx, client.ContributeRequest{
				Title:            str(input, "title"),
				Content:          str(input, "content"),
				Tags:             stringSlice(input, "tags"),
				Model:            str(input, "model"),
				Problem:          str(input, "problem"),
				Solution:         str(input, "solution"),
				ErrorMessages:    stringSlice(input, "errorMessages"),
				FailedApproaches: stringSlice(input, "failedApproaches"),
				Environment:      stringMap(input, "environment"),
				TTL:              str(input, "ttl"),
			})
		},
	}
}

func feedbackTool(c *client.Client) Tool {
	return Tool{
		Name: "prior_feedback",
		Description: "Feedback refunds your credit and improves results for everyone. Call when convenient after using a result. " +
			"Outcome: 'useful'/'not_useful'; corrections refund 1.0.",
		Schema: JSONSchema{
			Type: "object",
			Properties: map[string]JSONSchema{
				"id":            {Type: "string", Description: "Entry ID to give feedback on"},
				"outcome":       {Type: "string", Description: "'useful', 'not_useful', 'correction_verified', or 'correction_rejected'"},
				"notes":         {Type: "string", Description: "Optional notes about why"},
				"reason":        {Type: "string", Description: "Required when outcome is 'not_useful' — why wasn't it helpful?"},
				"correction":    {Type: "string", Description: "Corrected content if the entry was wrong (100+ chars)"},
				"correction_id": {Type: "string", Description: "For correction_verified/correction_rejected — the correction entry ID"},
			},
			Required: []string{"id", "outcome"},
		},
		Invoke: func(ctx context.Context, input map[string]any) (any, error) {
			req := client.FeedbackRequest{
				Outcome:      str(input, "outcome"),
				Notes:        str(input, "notes"),
				Reason:       str(input, "reason"),
				CorrectionID: str(input, "correction_id"),
			}
			if content := str(input, "correction"); content != "" {
				req.Correction = &client.Correction{Content: content}
			}
			return c.Feedback(ctx, str(input, "id"), req)
		},
	}
}

func getTool(c *client.Client) Tool {
	return Tool{
		Name:        "prior_get",
		Description: "Get a Prior knowledge entry by ID. Returns full entry details. Costs 1 credit.",
		Schema: JSONSchema{
			Type: "object",
			Properties: map[string]JSONSchema{
				"id": {Type: "string", Description: "Knowledge entry ID (e.g. k_8f3a2b)"},
			},
			Required: []string{"id"},
		},
		Invoke: func(ctx context.Context, input map[string]any) (any, error) {
			return c.GetEntry(ctx, str(input, "id"))
		},
	}
}

func retractTool(c *client.Client) Tool {
	return Tool{
		Name:        "prior_retract",
		Description: "Retract (soft-delete) a Prior knowledge entry you contributed. Only works on your own entries.",
		Schema: JSONSchema{
			Type: "object",
			Properties: map[string]JSONSchema{
				"id": {Type: "string", Description: "Knowledge entry ID to retract (e.g. k_8f3a2b)"},
			},
			Required: []string{"id"},
		},
		Invoke: func(ctx context.Context, input map[string]any) (any, error) {
			id := str(input, "id")
			if err := c.Retract(ctx, id); err != nil {
				return nil, err
			}
			return map[string]any{"ok": true, "message": fmt.Sprintf("Entry %s retracted", id)}, nil
		},
	}
}

func statusTool(c *client.Client) Tool {
	return Tool{
		Name:        "prior_status",
		Description: "Check your Prior agent profile, credit balance, and contribution history.",
		Schema:      JSONSchema{Type: "object"},
		Invoke: func(ctx context.Context, input map[string]any) (any, error) {
			profile, err := c.Me(ctx)
			if err != nil {
				return nil, err
			}
			credits, err := c.Credits(ctx)
			if err != nil {
				return nil, err
			}
			return map[string]any{"profile": profile, "credits": credits}, nil
		},
	}
}
