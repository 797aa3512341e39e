package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

const defaultMaxResults = 3

// Search runs a query against the shared knowledge base. Costs credits; see
// the cost object in the response. The context map is mandatory and must
// include "runtime".
func (c *Client) Search(ctx context.Context, req SearchRequest) (json.RawMessage, error) {
	if req.Context == nil {
		return nil, ErrMissingContext
	}
	if rt, ok := req.Context["runtime"].(string); !ok || rt == "" {
		return nil, ErrMissingContext
	}
	if req.MaxResults <= 0 {
		req.MaxResults = defaultMaxResults
	}
	return c.do(ctx, "search", http.MethodPost, "/v1/knowledge/search", req)
}

// Contribute submits a new knowledge entry. TTL defaults to "90d";
// "public" visibility is the server default and is omitted from the payload.
func (c *Client) Contribute(ctx context.Context, req ContributeRequest) (json.RawMessage, error) {
	if req.TTL == "" {
		req.TTL = "90d"
	}
	if req.Visibility == "public" {
		req.Visibility = ""
	}
	return c.do(ctx, "contribute", http.MethodPost, "/v1/knowledge/contribute", req)
}

// Feedback records an outcome for the given entry.
func (c *Client) Feedback(ctx context.Context, entryID string, req FeedbackRequest) (json.RawMessage, error) {
	return c.do(ctx, "feedback", http.MethodPost, "/v1/knowledge/"+url.PathEscape(entryID)+"/feedback", req)
}

// GetEntry retrieves a single entry by its k_-prefixed ID.
func (c *Client) GetEntry(ctx context.Context, entryID string) (json.RawMessage, error) {
	return c.do(ctx, "get_entry", http.MethodGet, "/v1/knowledge/"+url.PathEscape(entryID), nil)
}

// Retract soft-deletes one of the caller's own entries.
func (c *Client) Retract(ctx context.Context, entryID string) error {
	_, err := c.do(ctx, "retract", http.MethodDelete, "/v1/knowledge/"+url.PathEscape(entryID), nil)
	return err
}
