// Package resilience groups reliability patterns for external calls.
//
// Subpackages:
//   - circuitbreaker: gobreaker-based circuit breakers for the content
//     source, the classification APIs, and the persistence collaborator
//   - retry: retry with exponential backoff and jitter
//
// The core algorithms never call out of process; these patterns wrap the
// boundary collaborators only, so a slow or failing upstream degrades to
// the documented fallback instead of propagating.
package resilience
