package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsagent/internal/observability/metrics"
	"newsagent/pkg/ttlcache"
)

// counterValue reads the current value of a labeled counter.
func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

func TestRecordEventTracked(t *testing.T) {
	before := counterValue(t, metrics.EventsTrackedTotal.WithLabelValues("deep_read"))

	metrics.RecordEventTracked("deep_read", 0.18)
	metrics.RecordEventTracked("deep_read", 0.21)

	after := counterValue(t, metrics.EventsTrackedTotal.WithLabelValues("deep_read"))
	assert.Equal(t, before+2, after)
}

func TestRecordEventRejected(t *testing.T) {
	before := counterValue(t, metrics.EventsRejectedTotal.WithLabelValues("anomaly"))

	metrics.RecordEventRejected("anomaly")

	after := counterValue(t, metrics.EventsRejectedTotal.WithLabelValues("anomaly"))
	assert.Equal(t, before+1, after)
}

func TestRecordCacheOutcomes(t *testing.T) {
	hitBefore := counterValue(t, metrics.CacheRequestsTotal.WithLabelValues("scores", "hit"))
	staleBefore := counterValue(t, metrics.CacheRequestsTotal.WithLabelValues("scores", "stale"))

	metrics.RecordCacheHit("scores")
	metrics.RecordCacheStale("scores")

	assert.Equal(t, hitBefore+1, counterValue(t, metrics.CacheRequestsTotal.WithLabelValues("scores", "hit")))
	assert.Equal(t, staleBefore+1, counterValue(t, metrics.CacheRequestsTotal.WithLabelValues("scores", "stale")))
}

func TestUpdateCacheEntries(t *testing.T) {
	metrics.UpdateCacheEntries(
		ttlcache.Stats{Name: "candidates", Size: 3},
		ttlcache.Stats{Name: "recommendations", Size: 7},
	)

	m := &dto.Metric{}
	g, err := metrics.CacheEntries.GetMetricWithLabelValues("recommendations")
	require.NoError(t, err)
	require.NoError(t, g.Write(m))
	assert.Equal(t, 7.0, m.GetGauge().GetValue())
}

func TestRecordUpstream(t *testing.T) {
	before := counterValue(t, metrics.UpstreamRequestsTotal.WithLabelValues("content-source", "fallback"))

	metrics.RecordUpstreamSuccess("content-source", 120*time.Millisecond)
	metrics.RecordUpstreamFallback("content-source")

	after := counterValue(t, metrics.UpstreamRequestsTotal.WithLabelValues("content-source", "fallback"))
	assert.Equal(t, before+1, after)
}

func TestRecordPersistenceWrite(t *testing.T) {
	okBefore := counterValue(t, metrics.PersistenceWritesTotal.WithLabelValues("preferences", "success"))
	failBefore := counterValue(t, metrics.PersistenceWritesTotal.WithLabelValues("event", "failure"))

	metrics.RecordPersistenceWrite("preferences", true)
	metrics.RecordPersistenceWrite("event", false)

	assert.Equal(t, okBefore+1, counterValue(t, metrics.PersistenceWritesTotal.WithLabelValues("preferences", "success")))
	assert.Equal(t, failBefore+1, counterValue(t, metrics.PersistenceWritesTotal.WithLabelValues("event", "failure")))
}
