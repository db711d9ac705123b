package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLearningConfig_Defaults(t *testing.T) {
	cfg, err := LoadLearningConfig()
	require.NoError(t, err)

	assert.InDelta(t, 0.12, cfg.BaseLearningRate, 1e-9)
	assert.InDelta(t, 0.02, cfg.MinWeight, 1e-9)
	assert.InDelta(t, 0.45, cfg.MaxWeight, 1e-9)
	assert.Equal(t, 1000, cfg.AnomalyLimit)
	assert.Equal(t, time.Hour, cfg.AnomalyWindow)
	assert.Equal(t, 100, cfg.HistoryLimit)
}

func TestLoadLearningConfig_Overrides(t *testing.T) {
	t.Setenv("LEARNING_BASE_RATE", "0.2")
	t.Setenv("ANOMALY_LIMIT", "50")
	t.Setenv("ANOMALY_WINDOW", "10m")

	cfg, err := LoadLearningConfig()
	require.NoError(t, err)

	assert.InDelta(t, 0.2, cfg.BaseLearningRate, 1e-9)
	assert.Equal(t, 50, cfg.AnomalyLimit)
	assert.Equal(t, 10*time.Minute, cfg.AnomalyWindow)
}

func TestLoadLearningConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"rate above one", "LEARNING_BASE_RATE", "1.5"},
		{"inverted weight bounds", "LEARNING_MIN_WEIGHT", "0.9"},
		{"zero anomaly limit", "ANOMALY_LIMIT", "0"},
		{"negative window", "ANOMALY_WINDOW", "-1h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := LoadLearningConfig()
			assert.Error(t, err)
		})
	}
}

func TestLoadRankingConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadRankingConfig()
		require.NoError(t, err)
		assert.Equal(t, 30*time.Minute, cfg.CandidateTTL)
		assert.Equal(t, 5*time.Minute, cfg.ScoreTTL)
		assert.Equal(t, 10*time.Minute, cfg.RecommendationTTL)
		assert.Equal(t, 100, cfg.CacheCapacity)
		assert.InDelta(t, 0.1, cfg.MinScore, 1e-9)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("CACHE_SCORE_TTL", "90s")
		t.Setenv("CACHE_CAPACITY", "500")
		cfg, err := LoadRankingConfig()
		require.NoError(t, err)
		assert.Equal(t, 90*time.Second, cfg.ScoreTTL)
		assert.Equal(t, 500, cfg.CacheCapacity)
	})

	t.Run("invalid capacity", func(t *testing.T) {
		t.Setenv("CACHE_CAPACITY", "-1")
		_, err := LoadRankingConfig()
		assert.Error(t, err)
	})
}

func TestLoadClassifierConfig(t *testing.T) {
	t.Run("keyword provider needs no key", func(t *testing.T) {
		cfg, err := LoadClassifierConfig()
		require.NoError(t, err)
		assert.Equal(t, ProviderKeyword, cfg.Provider)
	})

	t.Run("claude provider requires key", func(t *testing.T) {
		t.Setenv("CLASSIFIER_PROVIDER", "claude")
		t.Setenv("ANTHROPIC_API_KEY", "")
		_, err := LoadClassifierConfig()
		assert.Error(t, err)

		t.Setenv("ANTHROPIC_API_KEY", "sk-test")
		cfg, err := LoadClassifierConfig()
		require.NoError(t, err)
		assert.Equal(t, ProviderClaude, cfg.Provider)
	})

	t.Run("unknown provider rejected", func(t *testing.T) {
		t.Setenv("CLASSIFIER_PROVIDER", "oracle")
		_, err := LoadClassifierConfig()
		assert.Error(t, err)
	})
}
