package httpx

import (
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each attempt.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRetry sets the number of retries after the first attempt and the base delay.
func WithRetry(max int, delay time.Duration) Option {
	return func(c *Client) {
		if max >= 0 {
			c.retryMax = uint(max)
		}
		if delay > 0 {
			c.retryDelay = delay
		}
	}
}

// WithUserAgent overrides the default User-Agent.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithMaxBody caps the number of body bytes read.
func WithMaxBody(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// WithHTTPClient replaces the underlying client, e.g. with httptest's.
// The configured timeout is kept when the replacement has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc == nil {
			return
		}
		if hc.Timeout == 0 {
			hc.Timeout = c.http.Timeout
		}
		c.http = hc
	}
}
