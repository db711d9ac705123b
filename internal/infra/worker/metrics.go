package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides Prometheus metrics for the maintenance worker.
//
// Metrics:
//   - worker_maintenance_job_runs_total: Total job runs by job and status
//   - worker_maintenance_job_duration_seconds: Duration histogram per job
//   - worker_maintenance_last_success_timestamp: Unix timestamp of last
//     successful run per job
type Metrics struct {
	JobRunsTotal         *prometheus.CounterVec
	JobDurationSeconds   *prometheus.HistogramVec
	LastSuccessTimestamp *prometheus.GaugeVec
}

// NewMetrics creates worker metrics registered with the default registerer.
func NewMetrics() *Metrics {
	return &Metrics{
		JobRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_maintenance_job_runs_total",
			Help: "Total number of maintenance job runs by job and status",
		}, []string{"job", "status"}),

		JobDurationSeconds: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "worker_maintenance_job_duration_seconds",
			Help:    "Duration of maintenance job execution in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30, 60},
		}, []string{"job"}),

		LastSuccessTimestamp: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "worker_maintenance_last_success_timestamp",
			Help: "Unix timestamp of the last successful run per maintenance job",
		}, []string{"job"}),
	}
}

// RecordJobRun increments the run counter for the given job and status.
func (m *Metrics) RecordJobRun(job, status string) {
	m.JobRunsTotal.WithLabelValues(job, status).Inc()
}

// RecordJobDuration observes the duration of one job run.
func (m *Metrics) RecordJobDuration(job string, seconds float64) {
	m.JobDurationSeconds.WithLabelValues(job).Observe(seconds)
}

// RecordLastSuccess records the current time as the job's last success.
func (m *Metrics) RecordLastSuccess(job string) {
	m.LastSuccessTimestamp.WithLabelValues(job).SetToCurrentTime()
}
