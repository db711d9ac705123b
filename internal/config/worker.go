package config

import (
	pkgconfig "newsagent/internal/pkg/config"
	"newsagent/pkg/config"
)

// WorkerConfigMetrics tracks maintenance worker configuration loading.
var WorkerConfigMetrics = pkgconfig.NewConfigMetrics("worker")

// WorkerConfig holds the maintenance worker schedules. Invalid schedules
// fall back to defaults with a warning instead of failing startup.
type WorkerConfig struct {
	// SweepSchedule runs cache expiry sweeps. Default: every 5 minutes.
	SweepSchedule string

	// FlushSchedule persists in-memory preference vectors.
	// Default: every 10 minutes.
	FlushSchedule string

	// CleanupSchedule prunes stale history, anomaly windows, and old
	// persisted events. Default: hourly.
	CleanupSchedule string

	// WarmUpOnStart pre-populates the candidate cache at startup.
	// Default: true.
	WarmUpOnStart bool

	// Warnings lists fallbacks applied while loading.
	Warnings []string
}

// LoadWorkerConfig loads the maintenance worker configuration from
// environment variables, validating every cron expression.
func LoadWorkerConfig() WorkerConfig {
	cfg := WorkerConfig{
		WarmUpOnStart: config.GetEnvBool("WORKER_WARMUP_ON_START", true),
	}

	schedules := []struct {
		field    string
		envKey   string
		fallback string
		target   *string
	}{
		{"sweep_schedule", "WORKER_SWEEP_SCHEDULE", "*/5 * * * *", &cfg.SweepSchedule},
		{"flush_schedule", "WORKER_FLUSH_SCHEDULE", "*/10 * * * *", &cfg.FlushSchedule},
		{"cleanup_schedule", "WORKER_CLEANUP_SCHEDULE", "0 * * * *", &cfg.CleanupSchedule},
	}

	fallbackActive := false
	for _, s := range schedules {
		result := pkgconfig.LoadEnvWithFallback(s.envKey, s.fallback, pkgconfig.ValidateCronSchedule)
		*s.target = result.Value.(string)
		if result.FallbackApplied {
			fallbackActive = true
			cfg.Warnings = append(cfg.Warnings, result.Warnings...)
			WorkerConfigMetrics.RecordValidationError(s.field)
			WorkerConfigMetrics.RecordFallback(s.field)
		}
	}

	WorkerConfigMetrics.SetFallbackActive(fallbackActive)
	WorkerConfigMetrics.RecordLoadTimestamp()
	return cfg
}
