package logging_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"newsagent/internal/handler/http/requestid"
	"newsagent/internal/observability/logging"
)

func TestNewLogger(t *testing.T) {
	logger := logging.NewLogger()
	assert.NotNil(t, logger)
}

func TestWithRequestID(t *testing.T) {
	t.Parallel()

	base := slog.Default()

	// Without a request ID in the context the logger is returned unchanged.
	same := logging.WithRequestID(context.Background(), base)
	assert.Same(t, base, same)

	ctx := requestid.WithRequestID(context.Background(), "req-123")
	derived := logging.WithRequestID(ctx, base)
	assert.NotSame(t, base, derived)
}

func TestLoggerContextRoundTrip(t *testing.T) {
	t.Parallel()

	logger := slog.Default().With("component", "test")
	ctx := logging.WithLogger(context.Background(), logger)

	got := logging.FromContext(ctx)
	assert.Same(t, logger, got)

	// Missing logger falls back to the default.
	fallback := logging.FromContext(context.Background())
	assert.NotNil(t, fallback)
}
