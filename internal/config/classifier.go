package config

import (
	"fmt"
	"time"

	"newsagent/pkg/config"
)

// Classifier provider names.
const (
	ProviderClaude  = "claude"
	ProviderOpenAI  = "openai"
	ProviderKeyword = "keyword"
)

// ClassifierConfig holds configuration for the content classification
// collaborator. An LLM provider is optional; keyword classification is
// always available as the local fallback.
type ClassifierConfig struct {
	// Provider selects the classifier backend: "claude", "openai" or
	// "keyword". Default: "keyword"
	Provider string

	// AnthropicAPIKey authenticates the Claude provider.
	AnthropicAPIKey string

	// OpenAIAPIKey authenticates the OpenAI provider.
	OpenAIAPIKey string

	// Model overrides the provider's default model name.
	Model string

	// RequestTimeout bounds a single classification call. Default: 30s
	RequestTimeout time.Duration

	// RequestsPerMinute throttles outbound classification calls.
	// Default: 60
	RequestsPerMinute int

	// CacheTTL bounds how long a classification result is reused.
	// Default: 24h
	CacheTTL time.Duration

	// CacheCapacity bounds the classification cache. Default: 1000
	CacheCapacity int
}

// LoadClassifierConfig loads the classifier configuration from environment
// variables. Selecting an LLM provider without its API key is a
// configuration error.
func LoadClassifierConfig() (ClassifierConfig, error) {
	cfg := ClassifierConfig{
		Provider:          config.GetEnvString("CLASSIFIER_PROVIDER", ProviderKeyword),
		AnthropicAPIKey:   config.GetEnvString("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:      config.GetEnvString("OPENAI_API_KEY", ""),
		Model:             config.GetEnvString("CLASSIFIER_MODEL", ""),
		RequestTimeout:    config.GetEnvDuration("CLASSIFIER_TIMEOUT", 30*time.Second),
		RequestsPerMinute: config.GetEnvInt("CLASSIFIER_REQUESTS_PER_MINUTE", 60),
		CacheTTL:          config.GetEnvDuration("CLASSIFIER_CACHE_TTL", 24*time.Hour),
		CacheCapacity:     config.GetEnvInt("CLASSIFIER_CACHE_CAPACITY", 1000),
	}

	switch cfg.Provider {
	case ProviderClaude:
		if cfg.AnthropicAPIKey == "" {
			return ClassifierConfig{}, fmt.Errorf("classifier provider %q requires ANTHROPIC_API_KEY", cfg.Provider)
		}
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return ClassifierConfig{}, fmt.Errorf("classifier provider %q requires OPENAI_API_KEY", cfg.Provider)
		}
	case ProviderKeyword:
	default:
		return ClassifierConfig{}, fmt.Errorf("unknown classifier provider %q", cfg.Provider)
	}

	if err := config.ValidatePositiveDuration(cfg.RequestTimeout); err != nil {
		return ClassifierConfig{}, fmt.Errorf("classifier timeout: %w", err)
	}
	if cfg.RequestsPerMinute <= 0 {
		return ClassifierConfig{}, fmt.Errorf("requests per minute must be positive, got %d", cfg.RequestsPerMinute)
	}
	if cfg.CacheCapacity <= 0 {
		return ClassifierConfig{}, fmt.Errorf("classifier cache capacity must be positive, got %d", cfg.CacheCapacity)
	}
	return cfg, nil
}
