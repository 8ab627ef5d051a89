package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/simcheck-go-api/internal/plagiarism"
	"github.com/noah-isme/simcheck-go-api/pkg/extract"
)

// CachedTextResolver resolves submission text through the document extractor
// with a Redis cache in front, keyed by the content hash. Identical bytes and
// format always map to the same key, so concurrent writes are idempotent and
// a changed file simply misses the old entry.
type CachedTextResolver struct {
	extractor *extract.Extractor
	cache     *redis.Client
	ttl       time.Duration
	logger    zerolog.Logger
}

// NewCachedTextResolver builds the resolver. The cache client may be nil, in
// which case every resolve extracts from scratch.
func NewCachedTextResolver(extractor *extract.Extractor, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) *CachedTextResolver {
	return &CachedTextResolver{
		extractor: extractor,
		cache:     cache,
		ttl:       ttl,
		logger:    logger.With().Str("component", "extract_cache").Logger(),
	}
}

// ResolveText implements plagiarism.TextResolver.
func (r *CachedTextResolver) ResolveText(ctx context.Context, src plagiarism.Source) (string, error) {
	if src.ExtractedText != nil {
		return *src.ExtractedText, nil
	}

	key := "extract:" + ContentHash(src.Content, src.Format)

	if r.cache != nil {
		if cached, err := r.cache.Get(ctx, key).Result(); err == nil {
			r.logger.Debug().Uint("submission_id", src.SubmissionID).Msg("extraction cache hit")
			return cached, nil
		} else if err != redis.Nil {
			r.logger.Warn().Err(err).Msg("failed to read extraction cache")
		}
	}

	text, err := r.extractor.Extract(src.Content, src.Format)
	if err != nil {
		return "", err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, key, text, r.ttl).Err(); err != nil {
			r.logger.Warn().Err(err).Msg("failed to store extraction cache")
		}
	}

	return text, nil
}
