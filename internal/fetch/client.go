package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/storyhound/storyhound/internal/apperr"
)

const (
	// DefaultTimeout bounds one feed retrieval end to end.
	DefaultTimeout   = 10 * time.Second
	defaultUserAgent = "storyhound/1.0 (+https://github.com/storyhound/storyhound)"
)

// Client retrieves raw feed payloads over HTTP. The underlying
// *http.Client is injected so tests can point it at a fake server; one
// feed's failure never propagates past the returned FetchError.
type Client struct {
	http      *http.Client
	timeout   time.Duration
	userAgent string
}

type ClientOption func(*Client)

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

func NewClient(httpClient *http.Client, opts ...ClientOption) *Client {
	c := &Client{
		http:      httpClient,
		timeout:   DefaultTimeout,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch performs a GET against the feed's source URL and returns the raw
// payload. Transport errors, timeouts and non-2xx statuses all come back
// as *apperr.FetchError carrying the feed name for the caller's report.
func (c *Client) Fetch(ctx context.Context, feedName, sourceURL string) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, apperr.NewFetch(feedName, sourceURL, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperr.NewFetch(feedName, sourceURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperr.NewFetchStatus(feedName, sourceURL, resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.NewFetch(feedName, sourceURL, fmt.Errorf("failed to read response body: %w", err))
	}

	return payload, nil
}
