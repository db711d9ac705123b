// Package worker runs the periodic maintenance jobs: cache sweeping,
// preference write-behind flushing and history cleanup. Jobs are scheduled
// with cron expressions loaded from the environment and run inside the API
// process rather than a separate binary.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"newsagent/internal/config"
	"newsagent/internal/observability/metrics"
	"newsagent/internal/repository"
	"newsagent/pkg/ttlcache"
)

// jobTimeout bounds one maintenance job run.
const jobTimeout = 2 * time.Minute

// Job names used in logs and metrics labels.
const (
	jobSweep   = "sweep"
	jobFlush   = "flush"
	jobCleanup = "cleanup"
	jobWarmUp  = "warmup"
)

// CacheMaintainer is the slice of the ranking service the worker needs.
type CacheMaintainer interface {
	Sweep() int
	WarmUp(ctx context.Context) int
	CacheStats() map[string]ttlcache.Stats
}

// LearningMaintainer is the slice of the learning service the worker needs.
type LearningMaintainer interface {
	Flush(ctx context.Context) error
	Cleanup()
}

// Maintenance owns the cron scheduler and the registered jobs.
type Maintenance struct {
	cfg         config.WorkerConfig
	caches      CacheMaintainer
	learner     LearningMaintainer
	events      repository.EventRepository
	eventMaxAge time.Duration
	cron        *cron.Cron
	logger      *slog.Logger
	metrics     *Metrics
}

// NewMaintenance builds the maintenance scheduler. events may be nil when
// the service runs without persistence; eventMaxAge bounds how long stored
// events are retained. Jobs are registered but not started.
func NewMaintenance(
	cfg config.WorkerConfig,
	caches CacheMaintainer,
	learner LearningMaintainer,
	events repository.EventRepository,
	eventMaxAge time.Duration,
	logger *slog.Logger,
	workerMetrics *Metrics,
) (*Maintenance, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if workerMetrics == nil {
		workerMetrics = NewMetrics()
	}

	m := &Maintenance{
		cfg:         cfg,
		caches:      caches,
		learner:     learner,
		events:      events,
		eventMaxAge: eventMaxAge,
		cron:        cron.New(),
		logger:      logger,
		metrics:     workerMetrics,
	}

	if _, err := m.cron.AddFunc(cfg.SweepSchedule, m.runSweep); err != nil {
		return nil, fmt.Errorf("register sweep job: %w", err)
	}
	if _, err := m.cron.AddFunc(cfg.FlushSchedule, m.runFlush); err != nil {
		return nil, fmt.Errorf("register flush job: %w", err)
	}
	if _, err := m.cron.AddFunc(cfg.CleanupSchedule, m.runCleanup); err != nil {
		return nil, fmt.Errorf("register cleanup job: %w", err)
	}

	return m, nil
}

// Start runs the optional warm-up and starts the scheduler.
func (m *Maintenance) Start(ctx context.Context) {
	if m.cfg.WarmUpOnStart {
		m.runWarmUp(ctx)
	}

	m.cron.Start()
	m.logger.Info("maintenance worker started",
		slog.String("sweep_schedule", m.cfg.SweepSchedule),
		slog.String("flush_schedule", m.cfg.FlushSchedule),
		slog.String("cleanup_schedule", m.cfg.CleanupSchedule))
}

// Stop stops the scheduler and waits for any running job to finish.
func (m *Maintenance) Stop() {
	<-m.cron.Stop().Done()
	m.logger.Info("maintenance worker stopped")
}

// RunAll executes every job once, outside the schedule. Used at shutdown
// to flush pending state and by operational tooling.
func (m *Maintenance) RunAll() {
	m.runSweep()
	m.runFlush()
	m.runCleanup()
}

func (m *Maintenance) runWarmUp(ctx context.Context) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	count := m.caches.WarmUp(ctx)
	m.metrics.RecordJobRun(jobWarmUp, "success")
	m.metrics.RecordJobDuration(jobWarmUp, time.Since(start).Seconds())
	m.metrics.RecordLastSuccess(jobWarmUp)
	m.logger.Info("cache warm-up completed",
		slog.Int("candidates", count),
		slog.Duration("duration", time.Since(start)))
}

func (m *Maintenance) runSweep() {
	start := time.Now()

	removed := m.caches.Sweep()

	stats := m.caches.CacheStats()
	snapshots := make([]ttlcache.Stats, 0, len(stats))
	for _, st := range stats {
		snapshots = append(snapshots, st)
	}
	metrics.UpdateCacheEntries(snapshots...)

	m.metrics.RecordJobRun(jobSweep, "success")
	m.metrics.RecordJobDuration(jobSweep, time.Since(start).Seconds())
	m.metrics.RecordLastSuccess(jobSweep)
	m.logger.Debug("cache sweep completed",
		slog.Int("removed", removed),
		slog.Duration("duration", time.Since(start)))
}

func (m *Maintenance) runFlush() {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := m.learner.Flush(ctx); err != nil {
		m.metrics.RecordJobRun(jobFlush, "failure")
		m.metrics.RecordJobDuration(jobFlush, time.Since(start).Seconds())
		m.logger.Error("preference flush failed", slog.Any("error", err))
		return
	}

	m.metrics.RecordJobRun(jobFlush, "success")
	m.metrics.RecordJobDuration(jobFlush, time.Since(start).Seconds())
	m.metrics.RecordLastSuccess(jobFlush)
	m.logger.Debug("preference flush completed",
		slog.Duration("duration", time.Since(start)))
}

func (m *Maintenance) runCleanup() {
	start := time.Now()

	m.learner.Cleanup()

	if m.events != nil && m.eventMaxAge > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		cutoff := time.Now().Add(-m.eventMaxAge)
		removed, err := m.events.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			m.metrics.RecordJobRun(jobCleanup, "failure")
			m.metrics.RecordJobDuration(jobCleanup, time.Since(start).Seconds())
			m.logger.Error("event cleanup failed", slog.Any("error", err))
			return
		}
		if removed > 0 {
			m.logger.Info("expired events removed",
				slog.Int64("removed", removed),
				slog.Time("cutoff", cutoff))
		}
	}

	m.metrics.RecordJobRun(jobCleanup, "success")
	m.metrics.RecordJobDuration(jobCleanup, time.Since(start).Seconds())
	m.metrics.RecordLastSuccess(jobCleanup)
	m.logger.Debug("cleanup completed",
		slog.Duration("duration", time.Since(start)))
}
