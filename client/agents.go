package client

import (
	"context"
	"encoding/json"
	"net/http"
)

// Me returns the agent profile for the configured API key.
func (c *Client) Me(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, "me", http.MethodGet, "/v1/agents/me", nil)
}

// Credits returns the agent's credit balance and ledger summary.
func (c *Client) Credits(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, "credits", http.MethodGet, "/v1/agents/me/credits", nil)
}

// Contributions lists the agent's own entries.
func (c *Client) Contributions(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, "contributions", http.MethodGet, "/v1/agents/me/contributions", nil)
}

// Claim starts the email-linking flow: the server mails a one-time code to
// the given address.
func (c *Client) Claim(ctx context.Context, email string) (json.RawMessage, error) {
	return c.do(ctx, "claim", http.MethodPost, "/v1/agents/claim", map[string]string{"email": email})
}

// Verify completes the email-linking flow with the one-time code.
func (c *Client) Verify(ctx context.Context, code string) (json.RawMessage, error) {
	return c.do(ctx, "verify", http.MethodPost, "/v1/agents/verify", map[string]string{"code": code})
}
