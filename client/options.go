package client

// Functional options applied during construction in New. Options run before
// credential resolution and before the authorization transport wrapper is
// installed, so transport-related options sit underneath the API-key wrapper.

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cg3-llc/prior-go/config"
)

// Option configures a Client during construction in New.
type Option func(*Client) error

// WithBaseURL sets an explicit server URL, taking precedence over the config
// record and the built-in default.
func WithBaseURL(u string) Option {
	return func(c *Client) error {
		c.baseURL = u
		return nil
	}
}

// WithAPIKey sets an explicit API key, taking precedence over the config
// record and suppressing auto-registration.
func WithAPIKey(key string) Option {
	return func(c *Client) error {
		c.apiKey = key
		return nil
	}
}

// WithConfigProvider injects the credential source. Defaults to the
// file-backed store at ~/.prior/config.json.
func WithConfigProvider(p config.Provider) Option {
	return func(c *Client) error {
		if p == nil {
			return fmt.Errorf("nil config provider")
		}
		c.cfg = p
		return nil
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("nil http client")
		}
		c.http = hc
		return nil
	}
}

// WithHTTPTimeout sets the underlying http.Client timeout. This is a coarse
// safety net bounding the total time of a single request; prefer per-request
// context deadlines where possible.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.http.Timeout = d
		return nil
	}
}

// WithDebugLogging wraps the transport so each request and response is dumped
// to the log. Not for production use.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		if enabled {
			base := c.http.Transport
			if base == nil {
				base = http.DefaultTransport
			}
			c.http.Transport = &debugTransport{base: base}
		}
		return nil
	}
}
