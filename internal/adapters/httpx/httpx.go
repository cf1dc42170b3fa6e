// Package httpx is the shared outbound HTTP layer for third-party providers:
// a bounded timeout, a browser-like User-Agent, bounded retries for
// transient failures and per-provider metrics.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/sureshchouksey8/MOVIERATINGS/pkg/metrics"
)

const (
	defaultTimeout    = 8 * time.Second
	defaultRetryMax   = 2
	defaultRetryDelay = 150 * time.Millisecond
	defaultMaxBody    = 8 << 20
	defaultUserAgent  = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// Response is a fully read upstream response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Client performs GET requests against one provider.
type Client struct {
	provider   string
	http       *http.Client
	retryMax   uint
	retryDelay time.Duration
	maxBody    int64
	userAgent  string
}

// New creates a Client labelled with provider in errors and metrics.
func New(provider string, opts ...Option) *Client {
	c := &Client{
		provider:   provider,
		retryMax:   defaultRetryMax,
		retryDelay: defaultRetryDelay,
		maxBody:    defaultMaxBody,
		userAgent:  defaultUserAgent,
	}
	c.http = &http.Client{Timeout: defaultTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Provider returns the provider label.
func (c *Client) Provider() string { return c.provider }

// Get fetches rawURL. Network errors and 5xx answers are retried; any other
// non-2xx answer is returned as *UpstreamError without retrying.
func (c *Client) Get(ctx context.Context, operation, rawURL string, header http.Header) (*Response, error) {
	start := time.Now()
	var resp *Response

	err := retry.Do(
		func() error {
			r, err := c.once(ctx, rawURL, header)
			if err != nil {
				return err
			}
			resp = r
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.retryMax+1),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.OnRetry(func(uint, error) { metrics.RecordUpstreamRetry(c.provider) }),
	)

	latency := float64(time.Since(start).Milliseconds())
	if err != nil {
		metrics.RecordUpstreamRequest(c.provider, operation, outcomeOf(err), latency)
		return nil, err
	}
	metrics.RecordUpstreamRequest(c.provider, operation, "ok", latency)
	return resp, nil
}

// GetJSON fetches rawURL and decodes a 2xx JSON body into v.
func (c *Client) GetJSON(ctx context.Context, operation, rawURL string, header http.Header, v any) error {
	resp, err := c.Get(ctx, operation, rawURL, header)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return fmt.Errorf("%s: decode %s: %w", c.provider, operation, err)
	}
	return nil
}

func (c *Client) once(ctx context.Context, rawURL string, header http.Header) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("%s: build request: %w", c.provider, err))
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	res, err := c.http.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = redact(ue.URL)
		}
		return nil, fmt.Errorf("%s: %w", c.provider, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4<<10))
		return nil, &UpstreamError{Provider: c.provider, URL: redact(rawURL), StatusCode: res.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", c.provider, err)
	}
	if int64(len(body)) > c.maxBody {
		return nil, retry.Unrecoverable(fmt.Errorf("%s: %w", c.provider, ErrBodyTooLarge))
	}
	return &Response{StatusCode: res.StatusCode, Header: res.Header, Body: body}, nil
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.StatusCode >= 500 || ue.StatusCode == http.StatusTooManyRequests
	}
	return true
}

func outcomeOf(err error) string {
	var ue *UpstreamError
	switch {
	case errors.As(err, &ue):
		return fmt.Sprintf("status_%d", ue.StatusCode)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}

// redact drops credentials from query strings before they reach logs.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	for _, k := range []string{"apikey", "api_key"} {
		if q.Has(k) {
			q.Set(k, "REDACTED")
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
