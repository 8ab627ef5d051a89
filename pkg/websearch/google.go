package websearch

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	customsearch "google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// GoogleProvider implements Provider on top of the Google Custom Search API.
type GoogleProvider struct {
	service  *customsearch.Service
	engineID string
	logger   zerolog.Logger
}

// NewGoogleProvider builds a Custom Search client from an API key and search
// engine identifier.
func NewGoogleProvider(ctx context.Context, apiKey, engineID string, logger zerolog.Logger) (*GoogleProvider, error) {
	if apiKey == "" || engineID == "" {
		return nil, fmt.Errorf("search api key and engine id must be provided")
	}

	service, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create search client: %w", err)
	}

	return &GoogleProvider{
		service:  service,
		engineID: engineID,
		logger:   logger.With().Str("component", "google_search").Logger(),
	}, nil
}

// Search runs one query and returns up to limit results.
func (p *GoogleProvider) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit <= 0 || limit > 10 {
		limit = 10
	}

	response, err := p.service.Cse.List().
		Cx(p.engineID).
		Q(query).
		Num(int64(limit)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}

	results := make([]Result, 0, len(response.Items))
	for _, item := range response.Items {
		results = append(results, Result{
			URL:     item.Link,
			Title:   item.Title,
			Snippet: item.Snippet,
		})
	}

	p.logger.Debug().Str("query", query).Int("results", len(results)).Msg("search query completed")

	return results, nil
}
