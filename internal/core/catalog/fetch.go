package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Source selects which endpoint Fetch reads.
type Source string

const (
	SourcePrimary Source = "primary"
	SourceMirror  Source = "mirror"
)

// ParseSource validates a source name.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourcePrimary, SourceMirror:
		return Source(s), nil
	default:
		return "", fmt.Errorf("unknown catalog source %q (valid: primary, mirror)", s)
	}
}

// StatusError is returned when the endpoint answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Fetcher issues plain GET requests to the catalog endpoints.
type Fetcher struct {
	client     *http.Client
	primaryURL string
	mirrorURL  string
}

// NewFetcher creates a Fetcher with the given endpoints and request timeout.
func NewFetcher(primaryURL, mirrorURL string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:     &http.Client{Timeout: timeout},
		primaryURL: primaryURL,
		mirrorURL:  mirrorURL,
	}
}

// URL returns the endpoint for src.
func (f *Fetcher) URL(src Source) string {
	if src == SourceMirror {
		return f.mirrorURL
	}
	return f.primaryURL
}

// Fetch returns the raw response body from src. No parsing, caching or retry.
func (f *Fetcher) Fetch(ctx context.Context, src Source) ([]byte, error) {
	url := f.URL(src)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s catalog: %w", src, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s catalog: %w", src, err)
	}
	return body, nil
}
