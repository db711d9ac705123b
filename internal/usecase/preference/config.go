package preference

import "time"

// Config holds the learning engine's tunables. Defaults reproduce the
// production behavior; tests narrow windows and rates where convenient.
type Config struct {
	// BaseLearningRate is the learning rate before confidence scaling.
	BaseLearningRate float64

	// NewUserRateBoost scales the learning rate up for low-confidence users.
	NewUserRateBoost float64

	// ExperiencedRateDamp scales the learning rate down for high-confidence users.
	ExperiencedRateDamp float64

	// LowConfidence and HighConfidence bound the band in which the base
	// rate applies unscaled.
	LowConfidence  float64
	HighConfidence float64

	// ConfidenceThreshold is the event count at which volume-based
	// confidence saturates.
	ConfidenceThreshold int

	// DecayFactor is the per-day exponential decay applied to an event's
	// contribution based on its age.
	DecayFactor float64

	// DecayFloor is the minimum decay multiplier regardless of age.
	DecayFloor float64

	// MinWeight and MaxWeight bound every category weight.
	MinWeight float64
	MaxWeight float64

	// AnomalyLimit is the hard ceiling of accepted events per user within
	// AnomalyWindow. The event that would exceed it is rejected.
	AnomalyLimit  int
	AnomalyWindow time.Duration

	// HistoryLimit caps the in-memory interaction history per user.
	HistoryLimit int

	// HistoryMaxAge drops history entries older than this during cleanup.
	HistoryMaxAge time.Duration

	// Thresholds drive deterministic action refinement and the engagement
	// score multipliers.
	Thresholds EngagementThresholds
}

// EngagementThresholds are the duration/scroll boundaries for action
// refinement and engagement scoring.
type EngagementThresholds struct {
	// DeepReadDuration promotes a read to deep_read (with high scroll).
	DeepReadDuration time.Duration

	// SkipDuration degrades a read to skip.
	SkipDuration time.Duration

	// QualityReading promotes a click to read.
	QualityReading time.Duration

	// Bounce degrades a click to skip.
	Bounce time.Duration

	// HighScroll and LowScroll are scroll-percentage boundaries.
	HighScroll float64
	LowScroll  float64
}

// DefaultConfig returns the production learning parameters.
func DefaultConfig() Config {
	return Config{
		BaseLearningRate:    0.12,
		NewUserRateBoost:    1.4,
		ExperiencedRateDamp: 0.8,
		LowConfidence:       0.3,
		HighConfidence:      0.7,
		ConfidenceThreshold: 10,
		DecayFactor:         0.95,
		DecayFloor:          0.1,
		MinWeight:           0.02,
		MaxWeight:           0.45,
		AnomalyLimit:        1000,
		AnomalyWindow:       time.Hour,
		HistoryLimit:        100,
		HistoryMaxAge:       30 * 24 * time.Hour,
		Thresholds: EngagementThresholds{
			DeepReadDuration: 90 * time.Second,
			SkipDuration:     15 * time.Second,
			QualityReading:   60 * time.Second,
			Bounce:           5 * time.Second,
			HighScroll:       75,
			LowScroll:        25,
		},
	}
}
