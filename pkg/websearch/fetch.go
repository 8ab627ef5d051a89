package websearch

import (
	"context"
	"fmt"
	"time"

	readability "github.com/go-shiori/go-readability"
)

const defaultFetchTimeout = 10 * time.Second

// ReadabilityFetcher extracts the readable text of a web page, stripping
// navigation and boilerplate.
type ReadabilityFetcher struct {
	timeout time.Duration
}

// NewReadabilityFetcher builds a fetcher with the given per-page timeout.
func NewReadabilityFetcher(timeout time.Duration) *ReadabilityFetcher {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &ReadabilityFetcher{timeout: timeout}
}

// FetchText downloads the page and returns its article text. The context
// deadline caps the configured timeout when it is tighter.
func (f *ReadabilityFetcher) FetchText(ctx context.Context, url string) (string, error) {
	timeout := f.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		return "", context.DeadlineExceeded
	}

	article, err := readability.FromURL(url, timeout)
	if err != nil {
		return "", fmt.Errorf("readability extraction failed: %w", err)
	}

	return article.TextContent, nil
}
