// Package client is the low-level SDK for the Prior knowledge exchange API.
//
// It resolves credentials from an injected config provider, auto-registers a
// new agent when no API key is available, and exposes one method per remote
// operation. All business logic (ranking, credit accounting, feedback
// semantics) lives server-side; methods return the response body verbatim.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cg3-llc/prior-go/config"
)

// UserAgent identifies this SDK on every request.
const UserAgent = "prior-go/0.1.0"

const defaultTimeout = 30 * time.Second

type Client struct {
	baseURL string
	apiKey  string
	agentID string
	http    *http.Client
	cfg     config.Provider
}

// New constructs a Client. The effective base URL is the WithBaseURL option,
// falling back to the loaded config record and then the built-in default; a
// trailing slash is stripped. The API key comes from WithAPIKey or the record.
// When no key resolves, New performs exactly one auto-registration before
// returning; a registration failure fails construction.
func New(opts ...Option) (*Client, error) {
	c := &Client{http: &http.Client{Timeout: defaultTimeout}}

	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.cfg == nil {
		c.cfg = config.NewStore()
	}

	rec := c.cfg.Load()
	if c.baseURL == "" {
		c.baseURL = rec.BaseURL
	}
	if c.baseURL == "" {
		c.baseURL = config.DefaultBaseURL
	}
	c.baseURL = strings.TrimSuffix(c.baseURL, "/")
	if c.apiKey == "" {
		c.apiKey = rec.APIKey
	}
	c.agentID = rec.AgentID

	if c.apiKey == "" {
		if err := c.register(context.Background()); err != nil {
			return nil, fmt.Errorf("auto-registration: %w", err)
		}
	}

	c.wrapTransportWithAPIKey()
	return c, nil
}

// BaseURL returns the resolved server URL.
func (c *Client) BaseURL() string { return c.baseURL }

// AgentID returns the agent identity loaded from config or obtained during
// auto-registration. It may be empty for keys configured out of band.
func (c *Client) AgentID() string { return c.agentID }

// register creates a new agent identity and persists it. It runs at most once,
// from New, and only when no API key resolved.
func (c *Client) register(ctx context.Context) error {
	name := "prior-go-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	payload, err := json.Marshal(map[string]string{"name": name, "runtime": "go"})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/agents/register", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("register: status %d", resp.StatusCode)
	}

	// The server may answer with a flat body or a {data: {...}} envelope.
	var body struct {
		APIKey  string `json:"apiKey"`
		AgentID string `json:"agentId"`
		Data    struct {
			APIKey  string `json:"apiKey"`
			AgentID string `json:"agentId"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return err
	}
	if body.APIKey == "" {
		body.APIKey = body.Data.APIKey
		body.AgentID = body.Data.AgentID
	}
	if body.APIKey == "" {
		return fmt.Errorf("register: response missing apiKey")
	}

	c.apiKey = body.APIKey
	c.agentID = body.AgentID
	return c.cfg.Save(config.Record{
		BaseURL: c.baseURL,
		APIKey:  c.apiKey,
		AgentID: c.agentID,
	})
}

// wrapTransportWithAPIKey wraps the HTTP transport so every request carries
// the Authorization and User-Agent headers.
func (c *Client) wrapTransportWithAPIKey() {
	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.http.Transport = &apiKeyTransport{base: base, apiKey: c.apiKey}
}

type apiKeyTransport struct {
	base   http.RoundTripper
	apiKey string
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+t.apiKey)
	cloned.Header.Set("User-Agent", UserAgent)
	return t.base.RoundTrip(cloned)
}

// do issues one authenticated request. No retries: a network failure, a
// non-2xx status or an undecodable body is terminal for the invocation.
// An empty response body yields a nil RawMessage.
func (c *Client) do(ctx context.Context, op, method, path string, payload any) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	requestsTotal.WithLabelValues(op).Inc()
	resp, err := c.http.Do(req)
	if err != nil {
		requestFailuresTotal.WithLabelValues(op).Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		requestFailuresTotal.WithLabelValues(op).Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		requestFailuresTotal.WithLabelValues(op).Inc()
		return nil, fmt.Errorf("%s: status %d", op, resp.StatusCode)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	if !json.Valid(data) {
		requestFailuresTotal.WithLabelValues(op).Inc()
		return nil, fmt.Errorf("%s: response is not valid JSON", op)
	}
	return json.RawMessage(data), nil
}
