// Package websearch wraps the external search provider used for web
// corroboration. The provider is a capability the engine injects, so it can
// be mocked in tests and disabled without touching the numeric pipeline.
package websearch

import "context"

// Result is one search hit returned by a provider.
type Result struct {
	URL     string
	Title   string
	Snippet string
}

// Provider issues one outbound search query and returns ranked results.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}

// PageFetcher retrieves the readable text of a result page.
type PageFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}
