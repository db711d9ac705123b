package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"newsagent/internal/handler/http/responsewriter"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// Buckets cover cache hits (sub-millisecond), scoring passes and
	// cold upstream fetches.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)
)

// Metrics returns middleware that records Prometheus metrics for each
// request. The path label uses a normalized route, not the raw URL, to
// keep cardinality bounded.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			httpRequestsInFlight.Inc()
			defer httpRequestsInFlight.Dec()

			wrapped := responsewriter.Wrap(w)
			next.ServeHTTP(wrapped, r)

			path := routeLabel(r.URL.Path)
			status := strconv.Itoa(wrapped.StatusCode())

			httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, path, status).
				Observe(time.Since(start).Seconds())
		})
	}
}

// routeLabel collapses per-user paths to their route template.
func routeLabel(path string) string {
	switch {
	case strings.HasPrefix(path, "/preferences/"):
		return "/preferences/{user_id}"
	case strings.HasPrefix(path, "/confidence/"):
		return "/confidence/{user_id}"
	case strings.HasPrefix(path, "/patterns/"):
		return "/patterns/{user_id}"
	case strings.HasPrefix(path, "/recommendations/"):
		return "/recommendations/{user_id}"
	}
	return path
}

// MetricsHandler exposes the Prometheus scrape endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
