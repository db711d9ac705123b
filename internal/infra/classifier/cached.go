package classifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"newsagent/internal/config"
	"newsagent/internal/domain/entity"
	"newsagent/internal/observability/metrics"
	"newsagent/pkg/ttlcache"
)

// Cached wraps a primary classifier with a result cache, an outbound
// rate limit and a local fallback. The same article title tends to be
// classified repeatedly across candidate refreshes, so the cache absorbs
// most of the call volume. When the limiter has no budget or the primary
// fails, the keyword fallback answers instead; a classification is always
// produced.
type Cached struct {
	primary  Classifier
	fallback Classifier
	cache    *ttlcache.Cache[entity.Category]
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// NewCached composes a primary classifier with caching, rate limiting and
// the keyword fallback. requestsPerMinute <= 0 disables throttling.
func NewCached(primary Classifier, fallback Classifier, ttl time.Duration, capacity, requestsPerMinute int, logger *slog.Logger) *Cached {
	if logger == nil {
		logger = slog.Default()
	}

	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Limit(float64(requestsPerMinute) / 60.0)
	}

	return &Cached{
		primary:  primary,
		fallback: fallback,
		cache:    ttlcache.New[entity.Category]("classifications", ttl, capacity),
		limiter:  rate.NewLimiter(limit, max(requestsPerMinute, 1)),
		logger:   logger,
	}
}

// New builds the classifier chain described by the configuration.
// The keyword provider is returned bare; LLM providers are wrapped
// with caching, rate limiting and the keyword fallback.
func New(cfg config.ClassifierConfig, vocab entity.Vocabulary, logger *slog.Logger) Classifier {
	keyword := NewKeyword(vocab)

	var primary Classifier
	switch cfg.Provider {
	case config.ProviderClaude:
		primary = NewClaude(cfg.AnthropicAPIKey, cfg.Model, cfg.RequestTimeout)
	case config.ProviderOpenAI:
		primary = NewOpenAI(cfg.OpenAIAPIKey, cfg.Model, cfg.RequestTimeout)
	default:
		return keyword
	}

	return NewCached(primary, keyword, cfg.CacheTTL, cfg.CacheCapacity, cfg.RequestsPerMinute, logger)
}

// Classify returns a cached result when available, otherwise consults the
// primary classifier and falls back to the local one on throttling or error.
func (c *Cached) Classify(ctx context.Context, title, summary string) (entity.Category, error) {
	key := contentKey(title, summary)

	if cat, ok := c.cache.Get(key); ok {
		metrics.RecordCacheHit("classifications")
		return cat, nil
	}
	metrics.RecordCacheMiss("classifications")

	if !c.limiter.Allow() {
		c.logger.DebugContext(ctx, "classifier rate limit exceeded, using fallback",
			slog.String("title", title))
		metrics.RecordUpstreamFallback("classifier")
		return c.fallback.Classify(ctx, title, summary)
	}

	cat, err := c.primary.Classify(ctx, title, summary)
	if err != nil {
		c.logger.WarnContext(ctx, "primary classifier failed, using fallback",
			slog.String("title", title),
			slog.String("error", err.Error()))
		metrics.RecordUpstreamFallback("classifier")
		return c.fallback.Classify(ctx, title, summary)
	}

	c.cache.Set(key, cat)
	return cat, nil
}

// Stats exposes the classification cache counters.
func (c *Cached) Stats() ttlcache.Stats {
	return c.cache.Stats()
}

func contentKey(title, summary string) string {
	sum := sha256.Sum256([]byte(title + "\x00" + summary))
	return hex.EncodeToString(sum[:])[:16]
}
