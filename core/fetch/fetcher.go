// Package fetch implements the Fetcher interface.
// It performs HTTP GET requests for pages whose selection is copied by URL.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gaurav-prasanna/copymd/core"
	"github.com/gaurav-prasanna/copymd/internal/logger"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "copymd/1.0 (https://github.com/gaurav-prasanna/copymd)"

	// maxBodySize caps how much of a response is read.
	maxBodySize = 20 << 20
)

// HTTPFetcher fetches web pages via HTTP.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// New creates an HTTPFetcher. Zero values select the defaults.
func New(timeout time.Duration, userAgent string) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Fetch retrieves the HTML content of the given URL.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*core.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	logger.DebugContext(ctx, "fetching page", "url", url)
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &core.FetchResult{
		URL:        resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		HTML:       string(body),
	}, nil
}
