// Package observability provides logging and metrics infrastructure.
//
// Subpackages:
//   - logging: structured logging built on log/slog
//   - metrics: centralized Prometheus metrics for learning, ranking,
//     caching and upstream collaborators
package observability
