// Package logging provides slog-based structured logging helpers.
package logging
