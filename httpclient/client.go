package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kroma-labs/stellate-go/delivery"
)

// maxResponseBody caps how much of a collector response is read. The
// collector answers with short status messages.
const maxResponseBody = 64 * 1024

// Compile-time interface check.
var _ delivery.Sender = (*Client)(nil)

// Client POSTs delivery descriptors to the collector.
//
// Create a Client using New():
//
//	client := httpclient.New(httpclient.WithServiceName("graphql-api"))
//	resp, err := client.Send(ctx, desc)
type Client struct {
	// httpClient is the underlying HTTP client with transport chain.
	httpClient *http.Client

	// config holds all client configuration.
	config *internalConfig
}

// New creates a Client. The transport chain is, outermost first:
// tracing/metrics, circuit breaker, rate limit, network.
func New(opts ...Option) *Client {
	cfg := newConfig(opts...)

	var base http.RoundTripper
	if cfg.MockTransport != nil {
		base = cfg.MockTransport
	} else {
		base = cfg.buildTransport()
	}

	limited := newRateLimitTransport(base, cfg)
	withBreaker := newCircuitBreakerTransport(limited, cfg)
	instrumented := newOtelTransport(withBreaker, cfg)

	return &Client{
		httpClient: &http.Client{
			Transport: instrumented,
			Timeout:   cfg.httpConfig.Timeout,
		},
		config: cfg,
	}
}

// HTTP returns the underlying *http.Client.
func (c *Client) HTTP() *http.Client {
	return c.httpClient
}

// Send performs one POST for d and returns the collector's answer.
//
// The returned error covers transport failures only (including an open
// circuit breaker or a rate limit rejection). Status codes are reported in
// the Response and left to the caller to judge.
func (c *Client) Send(ctx context.Context, d delivery.Descriptor) (*delivery.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.URL, strings.NewReader(d.Body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	for k, v := range d.Headers {
		req.Header.Set(k, v)
	}
	if req.Header.Get("User-Agent") == "" && c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	if c.config.Debug {
		logRequest(c.config.Logger, req, d.Body, c.config.GenerateCurl)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if c.config.Debug {
		logResponse(c.config.Logger, resp, time.Since(start))
	}

	return &delivery.Response{
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}
