package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"newsagent/internal/domain/entity"
	"newsagent/internal/observability/metrics"
	"newsagent/internal/resilience/circuitbreaker"
	"newsagent/internal/resilience/retry"
)

const (
	claudeDefaultModel = string(anthropic.ModelClaudeSonnet4_5_20250929)

	// claudeMaxTokens bounds the response. A category slug fits in a
	// handful of tokens; the headroom absorbs chatty responses.
	claudeMaxTokens = 64

	// maxSummaryChars bounds the summary text sent in the prompt.
	maxSummaryChars = 2000
)

// Claude implements Classifier using Anthropic's Claude API.
// It includes circuit breaker and retry logic for improved reliability.
type Claude struct {
	client         anthropic.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	model          string
	timeout        time.Duration
}

// NewClaude creates a new Claude classifier with the given API key.
// An empty model selects the default. It automatically configures
// circuit breaker and retry logic.
func NewClaude(apiKey, model string, timeout time.Duration) *Claude {
	if model == "" {
		model = claudeDefaultModel
	}

	slog.Info("Initialized Claude classifier",
		slog.String("model", model),
		slog.Duration("timeout", timeout))

	return &Claude{
		client:         anthropic.NewClient(option.WithAPIKey(apiKey)),
		circuitBreaker: circuitbreaker.New(circuitbreaker.ClassifierAPIConfig()),
		retryConfig:    retry.ClassifierAPIConfig(),
		model:          model,
		timeout:        timeout,
	}
}

// Classify assigns a category to the given content using Claude.
// It uses circuit breaker and retry logic for improved reliability.
func (c *Claude) Classify(ctx context.Context, title, summary string) (entity.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var result entity.Category

	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.doClassify(ctx, title, summary)
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("claude api circuit breaker open, request rejected",
					slog.String("service", "claude-api"),
					slog.String("state", c.circuitBreaker.State().String()))
				return fmt.Errorf("claude api unavailable: circuit breaker open")
			}
			return err
		}

		result = cbResult.(entity.Category)
		return nil
	})

	if retryErr != nil {
		return "", fmt.Errorf("claude classify failed after retries: %w", retryErr)
	}

	return result, nil
}

// doClassify performs the actual API call without retry or circuit breaker.
func (c *Claude) doClassify(ctx context.Context, title, summary string) (entity.Category, error) {
	requestID := uuid.New().String()
	prompt := categoryPrompt(title, truncateForPrompt(summary, maxSummaryChars))

	slog.DebugContext(ctx, "Starting classification",
		slog.String("request_id", requestID),
		slog.String("provider", "claude"),
		slog.String("title", title))

	start := time.Now()

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(claudeMaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
			),
		},
	})

	duration := time.Since(start)

	if err != nil {
		metrics.RecordUpstreamFailure("classifier", duration)
		slog.ErrorContext(ctx, "Classification failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("claude api error: %w", err)
	}

	if len(message.Content) == 0 {
		metrics.RecordUpstreamFailure("classifier", duration)
		slog.ErrorContext(ctx, "Claude API returned empty response",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration))
		return "", fmt.Errorf("claude api returned empty response")
	}

	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		metrics.RecordUpstreamFailure("classifier", duration)
		slog.ErrorContext(ctx, "Claude API returned unexpected response type",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration))
		return "", fmt.Errorf("claude api returned unexpected response type")
	}

	category, err := parseCategory(textBlock.Text)
	if err != nil {
		metrics.RecordUpstreamFailure("classifier", duration)
		slog.ErrorContext(ctx, "Claude API returned unparseable category",
			slog.String("request_id", requestID),
			slog.String("response", textBlock.Text))
		return "", fmt.Errorf("claude classify: %w", err)
	}

	metrics.RecordUpstreamSuccess("classifier", duration)
	slog.DebugContext(ctx, "Classification completed",
		slog.String("request_id", requestID),
		slog.String("category", string(category)),
		slog.Duration("duration", duration))

	return category, nil
}
