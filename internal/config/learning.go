package config

import (
	"fmt"
	"time"

	"newsagent/internal/usecase/preference"
	"newsagent/pkg/config"
)

// LoadLearningConfig builds the preference learning configuration from
// environment variables, starting from the production defaults.
//
// Recognized variables:
//   - LEARNING_BASE_RATE: base learning rate (default 0.12)
//   - LEARNING_MIN_WEIGHT / LEARNING_MAX_WEIGHT: weight bounds
//   - LEARNING_DECAY_FACTOR: per-day decay factor (default 0.95)
//   - ANOMALY_LIMIT: accepted events per user per window (default 1000)
//   - ANOMALY_WINDOW: rolling window size (default 1h)
//   - HISTORY_LIMIT: in-memory events kept per user (default 100)
//   - HISTORY_MAX_AGE: history retention (default 720h)
func LoadLearningConfig() (preference.Config, error) {
	cfg := preference.DefaultConfig()

	cfg.BaseLearningRate = config.GetEnvFloat("LEARNING_BASE_RATE", cfg.BaseLearningRate)
	cfg.MinWeight = config.GetEnvFloat("LEARNING_MIN_WEIGHT", cfg.MinWeight)
	cfg.MaxWeight = config.GetEnvFloat("LEARNING_MAX_WEIGHT", cfg.MaxWeight)
	cfg.DecayFactor = config.GetEnvFloat("LEARNING_DECAY_FACTOR", cfg.DecayFactor)
	cfg.AnomalyLimit = config.GetEnvInt("ANOMALY_LIMIT", cfg.AnomalyLimit)
	cfg.AnomalyWindow = config.GetEnvDuration("ANOMALY_WINDOW", cfg.AnomalyWindow)
	cfg.HistoryLimit = config.GetEnvInt("HISTORY_LIMIT", cfg.HistoryLimit)
	cfg.HistoryMaxAge = config.GetEnvDuration("HISTORY_MAX_AGE", cfg.HistoryMaxAge)

	if err := validateLearning(cfg); err != nil {
		return preference.Config{}, fmt.Errorf("invalid learning configuration: %w", err)
	}
	return cfg, nil
}

func validateLearning(cfg preference.Config) error {
	if cfg.BaseLearningRate <= 0 || cfg.BaseLearningRate > 1 {
		return fmt.Errorf("base learning rate must be in (0, 1], got %g", cfg.BaseLearningRate)
	}
	if cfg.MinWeight <= 0 || cfg.MaxWeight <= cfg.MinWeight {
		return fmt.Errorf("weight bounds must satisfy 0 < min < max, got [%g, %g]", cfg.MinWeight, cfg.MaxWeight)
	}
	if cfg.MaxWeight > 1 {
		return fmt.Errorf("max weight must not exceed 1, got %g", cfg.MaxWeight)
	}
	if cfg.DecayFactor <= 0 || cfg.DecayFactor > 1 {
		return fmt.Errorf("decay factor must be in (0, 1], got %g", cfg.DecayFactor)
	}
	if cfg.AnomalyLimit <= 0 {
		return fmt.Errorf("anomaly limit must be positive, got %d", cfg.AnomalyLimit)
	}
	if err := config.ValidatePositiveDuration(cfg.AnomalyWindow); err != nil {
		return fmt.Errorf("anomaly window: %w", err)
	}
	if cfg.HistoryLimit <= 0 {
		return fmt.Errorf("history limit must be positive, got %d", cfg.HistoryLimit)
	}
	if cfg.HistoryMaxAge < time.Hour {
		return fmt.Errorf("history max age must be at least 1h, got %v", cfg.HistoryMaxAge)
	}
	return nil
}
