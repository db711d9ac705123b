package metrics

import (
	"time"

	"newsagent/pkg/ttlcache"
)

// RecordEventTracked records one accepted interaction event together with
// its engagement score. The action label carries the refined action, not
// the raw one, so reclassification shows up in the metrics.
func RecordEventTracked(action string, engagementScore float64) {
	EventsTrackedTotal.WithLabelValues(action).Inc()
	EngagementScore.Observe(engagementScore)
	LearningUpdatesTotal.Inc()
}

// RecordEventRejected records a rejected event.
// Reason should be one of "validation", "unknown_category", "anomaly".
func RecordEventRejected(reason string) {
	EventsRejectedTotal.WithLabelValues(reason).Inc()
}

// UpdateTrackedUsers updates the gauge of users holding a learned vector.
func UpdateTrackedUsers(count int) {
	TrackedUsers.Set(float64(count))
}

// RecordRank records the duration of one recommendation generation pass.
func RecordRank(duration time.Duration) {
	RankDuration.Observe(duration.Seconds())
}

// RecordCacheHit records a cache lookup that was served from the tier.
func RecordCacheHit(tier string) {
	CacheRequestsTotal.WithLabelValues(tier, "hit").Inc()
}

// RecordCacheMiss records a cache lookup that required recomputation.
func RecordCacheMiss(tier string) {
	CacheRequestsTotal.WithLabelValues(tier, "miss").Inc()
}

// RecordCacheStale records a cache hit that was discarded because its
// candidate ID set no longer matched the live candidates.
func RecordCacheStale(tier string) {
	CacheRequestsTotal.WithLabelValues(tier, "stale").Inc()
}

// RecordCandidatesScored records how many items one scoring pass handled.
func RecordCandidatesScored(count int) {
	CandidatesScoredTotal.Add(float64(count))
}

// UpdateCacheEntries publishes the entry count of each cache tier.
func UpdateCacheEntries(stats ...ttlcache.Stats) {
	for _, s := range stats {
		CacheEntries.WithLabelValues(s.Name).Set(float64(s.Size))
	}
}

// RecordUpstreamSuccess records a successful upstream call.
func RecordUpstreamSuccess(collaborator string, duration time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(collaborator, "success").Inc()
	UpstreamDuration.WithLabelValues(collaborator).Observe(duration.Seconds())
}

// RecordUpstreamFailure records a failed upstream call.
func RecordUpstreamFailure(collaborator string, duration time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(collaborator, "failure").Inc()
	UpstreamDuration.WithLabelValues(collaborator).Observe(duration.Seconds())
}

// RecordUpstreamFallback records that a local fallback absorbed an
// upstream failure (fixture candidates, keyword classification).
func RecordUpstreamFallback(collaborator string) {
	UpstreamRequestsTotal.WithLabelValues(collaborator, "fallback").Inc()
}

// RecordPersistenceWrite records the outcome of one write-behind operation.
// Kind is "preferences" or "event"; success selects the status label.
func RecordPersistenceWrite(kind string, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	PersistenceWritesTotal.WithLabelValues(kind, status).Inc()
}
