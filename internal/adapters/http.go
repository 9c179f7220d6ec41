package adapters

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPClient is the transport capability the registry fetcher uses to reach
// a registry's HTTP endpoint. The core never opens sockets directly; tests
// substitute a fake implementation.
type HTTPClient interface {
	// Get issues a GET request and returns the status code and full body.
	Get(ctx context.Context, url string) (status int, body []byte, err error)
	// Head issues a HEAD request and returns only the status code, checking
	// accessibility without downloading anything. Nothing in this module
	// calls it; the resolver has no validate-only mode and always fetches.
	Head(ctx context.Context, url string) (status int, err error)
}

// NetHTTPClient is the production HTTPClient, backed by net/http.
type NetHTTPClient struct {
	client *http.Client
}

// NewNetHTTPClient creates an HTTPClient with a bounded request timeout.
func NewNetHTTPClient(timeout time.Duration) *NetHTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &NetHTTPClient{client: &http.Client{Timeout: timeout}}
}

func (c *NetHTTPClient) Get(ctx context.Context, url string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, nil
}

func (c *NetHTTPClient) Head(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}
