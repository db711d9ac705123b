// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Learning engine metrics track event ingestion and preference updates
var (
	// EventsTrackedTotal counts accepted interaction events by refined action
	EventsTrackedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_tracked_total",
			Help: "Total number of accepted interaction events",
		},
		[]string{"action"},
	)

	// EventsRejectedTotal counts rejected interaction events by reason
	// (validation, unknown_category, anomaly)
	EventsRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_rejected_total",
			Help: "Total number of rejected interaction events",
		},
		[]string{"reason"},
	)

	// EngagementScore observes the engagement score distribution of
	// accepted events
	EngagementScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "engagement_score",
			Help:    "Engagement score of accepted interaction events",
			Buckets: []float64{-0.3, -0.2, -0.1, -0.05, 0, 0.05, 0.1, 0.2, 0.3, 0.5},
		},
	)

	// LearningUpdatesTotal counts preference vector updates
	LearningUpdatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "learning_updates_total",
			Help: "Total number of preference vector updates",
		},
	)

	// TrackedUsers tracks how many users currently hold a learned vector
	TrackedUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tracked_users",
			Help: "Number of users with an in-memory preference vector",
		},
	)
)

// Ranking engine metrics track recommendation latency and cache behavior
var (
	// RankDuration measures end-to-end recommendation generation in seconds
	RankDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rank_duration_seconds",
			Help:    "Recommendation generation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// CacheRequestsTotal counts cache lookups by tier and outcome
	// (hit, miss, stale)
	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "Total number of cache lookups by tier and outcome",
		},
		[]string{"tier", "outcome"},
	)

	// CacheEntries tracks the current entry count per cache tier
	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of entries per cache tier",
		},
		[]string{"tier"},
	)

	// CandidatesScoredTotal counts candidate items run through the scorer
	CandidatesScoredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "candidates_scored_total",
			Help: "Total number of candidate items scored",
		},
	)
)

// Upstream collaborator metrics track the content source, the classifier
// and the persistence write-behind
var (
	// UpstreamRequestsTotal counts upstream calls by collaborator and status
	// (success, failure, fallback)
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of upstream collaborator calls",
		},
		[]string{"collaborator", "status"},
	)

	// UpstreamDuration measures upstream call duration in seconds
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_duration_seconds",
			Help:    "Upstream collaborator call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"collaborator"},
	)

	// PersistenceWritesTotal counts write-behind operations by status
	PersistenceWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persistence_writes_total",
			Help: "Total number of write-behind persistence operations",
		},
		[]string{"kind", "status"},
	)
)
