package plagiarism

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/simcheck-go-api/internal/observability"
	"github.com/noah-isme/simcheck-go-api/pkg/textnorm"
	"github.com/noah-isme/simcheck-go-api/pkg/websearch"
)

const (
	defaultMaxSnippets   = 3
	defaultSnippetTokens = 12
	defaultQueryTimeout  = 8 * time.Second
	defaultBudget        = 30 * time.Second
)

// WebCorroborator implements Corroborator against an external search
// provider. Each snippet is an independent unit of work: a failed query or
// fetch costs only that snippet's matches. The whole call runs under an
// aggregate deadline and returns whatever was collected when it expires.
type WebCorroborator struct {
	provider      websearch.Provider
	fetcher       websearch.PageFetcher
	maxSnippets   int
	snippetTokens int
	queryTimeout  time.Duration
	budget        time.Duration
	logger        zerolog.Logger
}

// WebCorroboratorConfig tunes snippet sampling and time limits. Zero values
// fall back to defaults.
type WebCorroboratorConfig struct {
	MaxSnippets   int
	SnippetTokens int
	QueryTimeout  time.Duration
	Budget        time.Duration
}

// NewWebCorroborator builds the web corroboration adapter.
func NewWebCorroborator(provider websearch.Provider, fetcher websearch.PageFetcher, cfg WebCorroboratorConfig, logger zerolog.Logger) *WebCorroborator {
	if cfg.MaxSnippets <= 0 {
		cfg.MaxSnippets = defaultMaxSnippets
	}
	if cfg.SnippetTokens <= 0 {
		cfg.SnippetTokens = defaultSnippetTokens
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = defaultQueryTimeout
	}
	if cfg.Budget <= 0 {
		cfg.Budget = defaultBudget
	}

	return &WebCorroborator{
		provider:      provider,
		fetcher:       fetcher,
		maxSnippets:   cfg.MaxSnippets,
		snippetTokens: cfg.SnippetTokens,
		queryTimeout:  cfg.QueryTimeout,
		budget:        cfg.Budget,
		logger:        logger.With().Str("component", "web_corroborator").Logger(),
	}
}

// Corroborate samples representative snippets from the normalized text,
// queries the provider once per snippet and scores word-set Jaccard overlap
// between snippet and fetched page text.
func (w *WebCorroborator) Corroborate(ctx context.Context, tokens []string, maxResults int) ([]WebMatch, error) {
	snippets := sampleSnippets(tokens, w.maxSnippets, w.snippetTokens)
	if len(snippets) == 0 {
		return nil, nil
	}

	budgetCtx, cancel := context.WithTimeout(ctx, w.budget)
	defer cancel()

	var (
		mu      sync.Mutex
		matches []WebMatch
	)

	group := new(errgroup.Group)
	for _, snippet := range snippets {
		group.Go(func() error {
			found := w.corroborateSnippet(budgetCtx, snippet, maxResults)
			if len(found) == 0 {
				return nil
			}
			mu.Lock()
			matches = append(matches, found...)
			mu.Unlock()
			return nil
		})
	}
	// Snippet workers never return errors; failures only shrink the result.
	_ = group.Wait()

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Overlap != matches[j].Overlap {
			return matches[i].Overlap > matches[j].Overlap
		}
		return matches[i].URL < matches[j].URL
	})

	return matches, nil
}

// corroborateSnippet runs one search query and scores every fetched result.
func (w *WebCorroborator) corroborateSnippet(ctx context.Context, snippet string, maxResults int) []WebMatch {
	queryCtx, cancel := context.WithTimeout(ctx, w.queryTimeout)
	defer cancel()

	results, err := w.provider.Search(queryCtx, snippet, maxResults)
	if err != nil {
		observability.WebSearchQueries().WithLabelValues("error").Inc()
		w.logger.Debug().Err(err).Str("snippet", snippet).Msg("snippet query failed")
		return nil
	}
	observability.WebSearchQueries().WithLabelValues("ok").Inc()

	snippetSet := wordSet(strings.Fields(snippet))

	matches := make([]WebMatch, 0, len(results))
	for _, result := range results {
		if ctx.Err() != nil {
			break
		}

		pageText, err := w.fetcher.FetchText(ctx, result.URL)
		if err != nil {
			// Fall back to the provider's own result snippet.
			pageText = result.Snippet
		}
		if pageText == "" {
			continue
		}

		overlap := jaccard(snippetSet, wordSet(textnorm.Normalize(pageText)))
		if overlap == 0 {
			continue
		}

		matches = append(matches, WebMatch{
			Snippet: snippet,
			URL:     result.URL,
			Overlap: overlap,
		})
	}

	return matches
}

// sampleSnippets picks up to maxSnippets evenly spaced windows of the token
// sequence so external query volume stays bounded for any document size.
func sampleSnippets(tokens []string, maxSnippets, snippetTokens int) []string {
	if len(tokens) == 0 {
		return nil
	}

	if len(tokens) <= snippetTokens {
		return []string{strings.Join(tokens, " ")}
	}

	windows := len(tokens) / snippetTokens
	if windows > maxSnippets {
		windows = maxSnippets
	}

	stride := (len(tokens) - snippetTokens) / windows
	snippets := make([]string, 0, windows)
	for i := 0; i < windows; i++ {
		start := i * stride
		snippets = append(snippets, strings.Join(tokens[start:start+snippetTokens], " "))
	}

	return snippets
}

func wordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		set[word] = struct{}{}
	}
	return set
}

// jaccard computes |A∩B| / |A∪B| for two word sets.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	intersection := 0
	for word := range a {
		if _, ok := b[word]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}
