package recommend

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"newsagent/internal/domain/entity"
	"newsagent/internal/observability/metrics"
	"newsagent/pkg/ttlcache"
)

// Cache tier names, used for stats, metrics labels and ClearCache.
const (
	TierCandidates      = "candidates"
	TierScores          = "scores"
	TierRecommendations = "recommendations"
)

// ContentSource supplies candidate items from an upstream system.
type ContentSource interface {
	Fetch(ctx context.Context) ([]entity.CandidateItem, error)
}

// PreferenceReader exposes the learned state the ranking engine needs. The
// preference learning service satisfies it.
type PreferenceReader interface {
	Preferences(userID string) entity.PreferenceVector
	Interests(userID string) []entity.Category
}

// Config holds the ranking engine's cache and relevance tunables.
type Config struct {
	CandidateTTL      time.Duration
	ScoreTTL          time.Duration
	RecommendationTTL time.Duration
	CacheCapacity     int

	// MinScore drops candidates at or below this relevance before ranking.
	MinScore float64
}

// DefaultConfig returns the production cache TTLs and relevance threshold.
func DefaultConfig() Config {
	return Config{
		CandidateTTL:      30 * time.Minute,
		ScoreTTL:          5 * time.Minute,
		RecommendationTTL: 10 * time.Minute,
		CacheCapacity:     100,
		MinScore:          0.1,
	}
}

// scoredSet is a score-cache entry: the scored items together with the ID
// set they were computed from, so staleness is detectable.
type scoredSet struct {
	Items []entity.CandidateItem
	IDs   []string
}

// Service is the cached ranking engine.
type Service struct {
	cfg        Config
	clock      func() time.Time
	logger     *slog.Logger
	source     ContentSource
	prefs      PreferenceReader
	fallback   []entity.CandidateItem
	vocabulary entity.Vocabulary

	candidates      *ttlcache.Cache[[]entity.CandidateItem]
	scores          *ttlcache.Cache[scoredSet]
	recommendations *ttlcache.Cache[[]entity.CandidateItem]
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source. Used by tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithPreferenceReader wires the learning engine for the userID-only entry
// point.
func WithPreferenceReader(prefs PreferenceReader) Option {
	return func(s *Service) { s.prefs = prefs }
}

// WithFallback sets the static items served when the content source fails.
func WithFallback(items []entity.CandidateItem) Option {
	return func(s *Service) { s.fallback = items }
}

// WithVocabulary overrides the keyword vocabulary used for overlap scoring.
func WithVocabulary(vocab entity.Vocabulary) Option {
	return func(s *Service) { s.vocabulary = vocab }
}

// NewService creates a ranking engine backed by the given content source.
func NewService(cfg Config, source ContentSource, opts ...Option) *Service {
	s := &Service{
		cfg:        cfg,
		clock:      time.Now,
		logger:     slog.Default(),
		source:     source,
		vocabulary: entity.DefaultVocabulary(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.candidates = ttlcache.New(TierCandidates, cfg.CandidateTTL, cfg.CacheCapacity, ttlcache.WithClock[[]entity.CandidateItem](s.clock))
	s.scores = ttlcache.New(TierScores, cfg.ScoreTTL, cfg.CacheCapacity, ttlcache.WithClock[scoredSet](s.clock))
	s.recommendations = ttlcache.New(TierRecommendations, cfg.RecommendationTTL, cfg.CacheCapacity, ttlcache.WithClock[[]entity.CandidateItem](s.clock))
	return s
}

// Candidates returns the current candidate set, served from cache when
// fresh. A failing source degrades to the static fallback set instead of an
// error; only live fetches are cached.
func (s *Service) Candidates(ctx context.Context) []entity.CandidateItem {
	const key = "all"
	if cached, ok := s.candidates.Get(key); ok {
		metrics.RecordCacheHit(TierCandidates)
		return cloneItems(cached)
	}
	metrics.RecordCacheMiss(TierCandidates)

	start := s.clock()
	items, err := s.source.Fetch(ctx)
	if err != nil {
		metrics.RecordUpstreamFailure("content_source", s.clock().Sub(start))
		metrics.RecordUpstreamFallback("content_source")
		s.logger.WarnContext(ctx, "content source unavailable, serving fallback",
			slog.Int("fallback_items", len(s.fallback)),
			slog.Any("error", err),
		)
		return cloneItems(s.fallback)
	}
	metrics.RecordUpstreamSuccess("content_source", s.clock().Sub(start))

	s.candidates.Set(key, cloneItems(items))
	return items
}

// Score computes the personalized score for every candidate and drops the
// ones below the relevance threshold. Results are cached per (interests,
// weights) key; a cached entry is only honored when it covers exactly the
// current candidate ID set.
func (s *Service) Score(ctx context.Context, candidates []entity.CandidateItem, interests []entity.Category, weights entity.PreferenceVector) []entity.CandidateItem {
	if len(candidates) == 0 {
		return nil
	}

	key := cacheKey(scoreKeyPayload{Interests: sortedCategories(interests), Weights: weights})
	currentIDs := sortedIDs(candidates)

	if cached, ok := s.scores.Get(key); ok {
		if equalIDs(cached.IDs, currentIDs) {
			metrics.RecordCacheHit(TierScores)
			return cloneItems(cached.Items)
		}
		metrics.RecordCacheStale(TierScores)
		s.logger.DebugContext(ctx, "score cache stale, candidate set drifted", slog.String("key", key))
	} else {
		metrics.RecordCacheMiss(TierScores)
	}

	now := s.clock()
	scored := make([]entity.CandidateItem, 0, len(candidates))
	for _, item := range candidates {
		item.Score = s.scoreItem(&item, interests, weights, now)
		if item.Score <= s.cfg.MinScore {
			continue
		}
		scored = append(scored, item)
	}
	metrics.RecordCandidatesScored(len(candidates))

	s.scores.Set(key, scoredSet{Items: cloneItems(scored), IDs: currentIDs})
	return scored
}

// Rank is the top-level entry point: fetch, score, sort, diversify. A fresh
// cached result for the same (interests, weights, limit) is returned
// verbatim without a scoring pass.
func (s *Service) Rank(ctx context.Context, userID string, interests []entity.Category, weights entity.PreferenceVector, limit int) []entity.CandidateItem {
	if limit <= 0 {
		return nil
	}
	start := s.clock()
	defer func() { metrics.RecordRank(s.clock().Sub(start)) }()

	key := cacheKey(rankKeyPayload{Interests: sortedCategories(interests), Weights: weights, Limit: limit})
	if cached, ok := s.recommendations.Get(key); ok {
		metrics.RecordCacheHit(TierRecommendations)
		return cloneItems(cached)
	}
	metrics.RecordCacheMiss(TierRecommendations)

	candidates := s.Candidates(ctx)
	scored := s.Score(ctx, candidates, interests, weights)
	sortByScore(scored)
	ranked := diversify(scored, interests, limit)

	s.recommendations.Set(key, cloneItems(ranked))
	s.logger.DebugContext(ctx, "recommendations computed",
		slog.String("user_id", userID),
		slog.Int("candidates", len(candidates)),
		slog.Int("returned", len(ranked)),
	)
	return ranked
}

// RankForUser derives interests and weights from the learning engine and
// ranks with them. Requires a wired PreferenceReader.
func (s *Service) RankForUser(ctx context.Context, userID string, limit int) []entity.CandidateItem {
	if s.prefs == nil {
		return nil
	}
	weights := s.prefs.Preferences(userID)
	interests := s.prefs.Interests(userID)
	return s.Rank(ctx, userID, interests, weights, limit)
}

// WarmUp pre-populates the candidate cache so the first recommendation
// request does not pay the upstream fetch.
func (s *Service) WarmUp(ctx context.Context) int {
	items := s.Candidates(ctx)
	s.logger.InfoContext(ctx, "cache warmed", slog.Int("candidates", len(items)))
	return len(items)
}

// CacheStats reports per-tier cache statistics.
func (s *Service) CacheStats() map[string]ttlcache.Stats {
	stats := map[string]ttlcache.Stats{
		TierCandidates:      s.candidates.Stats(),
		TierScores:          s.scores.Stats(),
		TierRecommendations: s.recommendations.Stats(),
	}
	metrics.UpdateCacheEntries(stats[TierCandidates], stats[TierScores], stats[TierRecommendations])
	return stats
}

// ClearCache empties one tier, or all of them for "all".
func (s *Service) ClearCache(tier string) error {
	switch tier {
	case TierCandidates:
		s.candidates.Clear()
	case TierScores:
		s.scores.Clear()
	case TierRecommendations:
		s.recommendations.Clear()
	case "all":
		s.candidates.Clear()
		s.scores.Clear()
		s.recommendations.Clear()
	default:
		return fmt.Errorf("unknown cache tier %q: %w", tier, entity.ErrInvalidInput)
	}
	return nil
}

// Sweep drops expired entries from every tier. Run by the maintenance
// worker.
func (s *Service) Sweep() int {
	return s.candidates.Sweep() + s.scores.Sweep() + s.recommendations.Sweep()
}

type scoreKeyPayload struct {
	Interests []entity.Category       `json:"interests"`
	Weights   entity.PreferenceVector `json:"weights"`
}

type rankKeyPayload struct {
	Interests []entity.Category       `json:"interests"`
	Weights   entity.PreferenceVector `json:"weights"`
	Limit     int                     `json:"limit"`
}

// cacheKey derives a short stable key from a JSON-serializable payload.
// Map keys serialize in sorted order, so identical inputs always collide.
func cacheKey(payload any) string {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("raw:%v", payload)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])[:12]
}

func sortedCategories(cats []entity.Category) []entity.Category {
	out := make([]entity.Category, len(cats))
	copy(out, cats)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedIDs(items []entity.CandidateItem) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	sort.Strings(ids)
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func cloneItems(items []entity.CandidateItem) []entity.CandidateItem {
	if items == nil {
		return nil
	}
	out := make([]entity.CandidateItem, len(items))
	copy(out, items)
	return out
}
