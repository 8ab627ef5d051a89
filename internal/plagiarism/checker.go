// Package plagiarism implements the check orchestrator: it resolves every
// submission to normalized text, scores pairwise TF-IDF cosine similarity,
// layers in optional web corroboration and applies the threshold policy.
package plagiarism

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/simcheck-go-api/pkg/extract"
	"github.com/noah-isme/simcheck-go-api/pkg/similarity"
	"github.com/noah-isme/simcheck-go-api/pkg/textnorm"
)

// ErrInvalidComparisonSet indicates the target appears in its own comparison set.
var ErrInvalidComparisonSet = errors.New("comparison set must not contain the target submission")

// Source identifies one submission entering a check, with its raw content and
// declared format. ExtractedText carries a previously cached extraction; when
// nil the resolver extracts from Content.
type Source struct {
	SubmissionID  uint
	Format        extract.Format
	Content       []byte
	ExtractedText *string
}

// CheckOptions tunes preprocessing of the comparison text. Both flags strip
// material from every document before normalization; web corroboration always
// runs over the unstripped text.
type CheckOptions struct {
	ExcludeReferences bool
	ExcludeQuotes     bool
}

func (o CheckOptions) active() bool {
	return o.ExcludeReferences || o.ExcludeQuotes
}

func (o CheckOptions) apply(text string) string {
	if o.ExcludeReferences {
		text = textnorm.StripReferences(text)
	}
	if o.ExcludeQuotes {
		text = textnorm.StripQuotes(text)
	}
	return text
}

// SimilarityPair scores the target against one comparable submission.
type SimilarityPair struct {
	SubmissionID uint    `json:"submission_id"`
	Percentage   float64 `json:"percentage"`
}

// WebMatch scores the overlap between a target snippet and one fetched web page.
type WebMatch struct {
	Snippet string  `json:"snippet"`
	URL     string  `json:"url"`
	Overlap float64 `json:"overlap"`
}

// Report is the authoritative output of one plagiarism check.
type Report struct {
	TargetID         uint             `json:"target_id"`
	Pairs            []SimilarityPair `json:"pairs"`
	WebMatches       []WebMatch       `json:"web_matches"`
	Threshold        float64          `json:"threshold"`
	ExceedsThreshold bool             `json:"exceeds_threshold"`
	CheckedAt        time.Time        `json:"checked_at"`
}

// TextResolver turns a source into plain text. The caller may back it with an
// extraction cache; re-resolving identical content must yield identical text.
type TextResolver interface {
	ResolveText(ctx context.Context, src Source) (string, error)
}

// Corroborator gathers best-effort external evidence for the target text.
type Corroborator interface {
	Corroborate(ctx context.Context, tokens []string, maxResults int) ([]WebMatch, error)
}

// ExtractResolver resolves text straight through the document extractor,
// honouring any pre-extracted text on the source.
type ExtractResolver struct {
	Extractor *extract.Extractor
}

// ResolveText implements TextResolver.
func (r ExtractResolver) ResolveText(_ context.Context, src Source) (string, error) {
	if src.ExtractedText != nil {
		return *src.ExtractedText, nil
	}
	return r.Extractor.Extract(src.Content, src.Format)
}

// Checker orchestrates plagiarism checks. It holds no per-check state and is
// safe for concurrent use across disjoint submission sets.
type Checker struct {
	resolver      TextResolver
	corroborator  Corroborator
	maxWebResults int
	logger        zerolog.Logger
}

// NewChecker constructs a Checker. The corroborator may be nil to disable web
// corroboration entirely.
func NewChecker(resolver TextResolver, corroborator Corroborator, maxWebResults int, logger zerolog.Logger) *Checker {
	if maxWebResults <= 0 {
		maxWebResults = 5
	}
	return &Checker{
		resolver:      resolver,
		corroborator:  corroborator,
		maxWebResults: maxWebResults,
		logger:        logger.With().Str("component", "plagiarism_checker").Logger(),
	}
}

// Check compares the target against every comparable submission and returns
// the ranked report. An empty comparison set is valid and yields an empty
// pair list. Web corroboration failures degrade to an empty match list; only
// malformed input or a failed similarity computation is an error.
func (c *Checker) Check(ctx context.Context, target Source, comparables []Source, threshold float64, opts CheckOptions) (Report, error) {
	for _, comparable := range comparables {
		if comparable.SubmissionID == target.SubmissionID {
			return Report{}, fmt.Errorf("%w: submission %d", ErrInvalidComparisonSet, target.SubmissionID)
		}
	}

	// Normalize input order so identity, not position, keys the matrix.
	ordered := make([]Source, len(comparables))
	copy(ordered, comparables)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].SubmissionID < ordered[j].SubmissionID
	})

	documents, indexByID, targetText, err := c.normalizeAll(ctx, target, ordered, opts)
	if err != nil {
		return Report{}, err
	}

	matrix := similarity.NewMatrix(documents)
	targetRow := indexByID[target.SubmissionID]

	pairs := make([]SimilarityPair, 0, len(ordered))
	for _, comparable := range ordered {
		score := matrix.Score(targetRow, indexByID[comparable.SubmissionID])
		pairs = append(pairs, SimilarityPair{
			SubmissionID: comparable.SubmissionID,
			Percentage:   score * 100,
		})
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].Percentage != pairs[j].Percentage {
			return pairs[i].Percentage > pairs[j].Percentage
		}
		return pairs[i].SubmissionID < pairs[j].SubmissionID
	})

	// External evidence is gathered from the full text even when references
	// or quotes are excluded from the pairwise comparison.
	webTokens := documents[targetRow]
	if opts.active() {
		webTokens = textnorm.Normalize(targetText)
	}
	webMatches := c.corroborate(ctx, webTokens)

	return Report{
		TargetID:         target.SubmissionID,
		Pairs:            pairs,
		WebMatches:       webMatches,
		Threshold:        threshold,
		ExceedsThreshold: exceedsThreshold(pairs, webMatches, threshold),
		CheckedAt:        time.Now().UTC(),
	}, nil
}

// normalizeAll resolves and normalizes the target plus every comparable in
// parallel, applying the exclusion options before normalization. Position 0
// is the target; the returned map carries the explicit submission-id to
// matrix-index assignment, and the target's unstripped text is returned for
// the corroboration path.
func (c *Checker) normalizeAll(ctx context.Context, target Source, comparables []Source, opts CheckOptions) ([][]string, map[uint]int, string, error) {
	sources := append([]Source{target}, comparables...)
	documents := make([][]string, len(sources))

	var targetText string
	group, groupCtx := errgroup.WithContext(ctx)
	for i, src := range sources {
		group.Go(func() error {
			text, err := c.resolver.ResolveText(groupCtx, src)
			if err != nil {
				return fmt.Errorf("submission %d: %w", src.SubmissionID, err)
			}
			if i == 0 {
				targetText = text
			}
			documents[i] = textnorm.Normalize(opts.apply(text))
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, nil, "", err
	}

	indexByID := make(map[uint]int, len(sources))
	for i, src := range sources {
		indexByID[src.SubmissionID] = i
	}

	return documents, indexByID, targetText, nil
}

// corroborate runs the optional web step. Any failure is absorbed: the report
// simply carries no web matches.
func (c *Checker) corroborate(ctx context.Context, targetTokens []string) []WebMatch {
	if c.corroborator == nil || len(targetTokens) == 0 {
		return nil
	}

	matches, err := c.corroborator.Corroborate(ctx, targetTokens, c.maxWebResults)
	if err != nil {
		c.logger.Warn().Err(err).Msg("web corroboration unavailable, continuing without it")
		return nil
	}

	return matches
}

// exceedsThreshold applies the auto-fail policy: the maximum pair percentage,
// or any web overlap percentage, strictly greater than the threshold.
func exceedsThreshold(pairs []SimilarityPair, matches []WebMatch, threshold float64) bool {
	var maxPercentage float64
	for _, pair := range pairs {
		maxPercentage = math.Max(maxPercentage, pair.Percentage)
	}
	if maxPercentage > threshold {
		return true
	}

	for _, match := range matches {
		if match.Overlap*100 > threshold {
			return true
		}
	}

	return false
}
