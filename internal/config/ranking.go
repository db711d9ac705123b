package config

import (
	"fmt"

	"newsagent/internal/usecase/recommend"
	"newsagent/pkg/config"
)

// LoadRankingConfig builds the ranking engine configuration from environment
// variables, starting from the production defaults.
//
// Recognized variables:
//   - CACHE_CANDIDATE_TTL: raw candidate cache TTL (default 30m)
//   - CACHE_SCORE_TTL: per-user score cache TTL (default 5m)
//   - CACHE_RECOMMENDATION_TTL: ranked result cache TTL (default 10m)
//   - CACHE_CAPACITY: per-tier entry ceiling (default 100)
//   - RANKING_MIN_SCORE: relevance threshold for dropping items (default 0.1)
func LoadRankingConfig() (recommend.Config, error) {
	cfg := recommend.DefaultConfig()

	cfg.CandidateTTL = config.GetEnvDuration("CACHE_CANDIDATE_TTL", cfg.CandidateTTL)
	cfg.ScoreTTL = config.GetEnvDuration("CACHE_SCORE_TTL", cfg.ScoreTTL)
	cfg.RecommendationTTL = config.GetEnvDuration("CACHE_RECOMMENDATION_TTL", cfg.RecommendationTTL)
	cfg.CacheCapacity = config.GetEnvInt("CACHE_CAPACITY", cfg.CacheCapacity)
	cfg.MinScore = config.GetEnvFloat("RANKING_MIN_SCORE", cfg.MinScore)

	if err := validateRanking(cfg); err != nil {
		return recommend.Config{}, fmt.Errorf("invalid ranking configuration: %w", err)
	}
	return cfg, nil
}

func validateRanking(cfg recommend.Config) error {
	if err := config.ValidatePositiveDuration(cfg.CandidateTTL); err != nil {
		return fmt.Errorf("candidate TTL: %w", err)
	}
	if err := config.ValidatePositiveDuration(cfg.ScoreTTL); err != nil {
		return fmt.Errorf("score TTL: %w", err)
	}
	if err := config.ValidatePositiveDuration(cfg.RecommendationTTL); err != nil {
		return fmt.Errorf("recommendation TTL: %w", err)
	}
	if cfg.CacheCapacity <= 0 {
		return fmt.Errorf("cache capacity must be positive, got %d", cfg.CacheCapacity)
	}
	if cfg.MinScore < 0 || cfg.MinScore >= 1 {
		return fmt.Errorf("min score must be in [0, 1), got %g", cfg.MinScore)
	}
	return nil
}
