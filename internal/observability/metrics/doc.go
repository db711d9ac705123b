// Package metrics provides centralized Prometheus metrics.
//
// Metric definitions live in registry.go as promauto package variables;
// recording helpers in business.go keep label conventions in one place so
// call sites never hand-build label values.
package metrics
