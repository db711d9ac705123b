package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"newsagent/internal/domain/entity"
	"newsagent/internal/observability/metrics"
	"newsagent/internal/resilience/circuitbreaker"
	"newsagent/internal/resilience/retry"
)

const openaiDefaultModel = openai.GPT4oMini

// OpenAI implements Classifier using OpenAI's chat completion API.
// It includes circuit breaker and retry logic for improved reliability.
type OpenAI struct {
	client         *openai.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	model          string
	timeout        time.Duration
}

// NewOpenAI creates a new OpenAI classifier with the given API key.
// An empty model selects the default.
func NewOpenAI(apiKey, model string, timeout time.Duration) *OpenAI {
	if model == "" {
		model = openaiDefaultModel
	}

	slog.Info("Initialized OpenAI classifier",
		slog.String("model", model),
		slog.Duration("timeout", timeout))

	return &OpenAI{
		client:         openai.NewClient(apiKey),
		circuitBreaker: circuitbreaker.New(circuitbreaker.ClassifierAPIConfig()),
		retryConfig:    retry.ClassifierAPIConfig(),
		model:          model,
		timeout:        timeout,
	}
}

// Classify assigns a category to the given content using OpenAI.
func (o *OpenAI) Classify(ctx context.Context, title, summary string) (entity.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	var result entity.Category

	retryErr := retry.WithBackoff(ctx, o.retryConfig, func() error {
		cbResult, err := o.circuitBreaker.Execute(func() (interface{}, error) {
			return o.doClassify(ctx, title, summary)
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("openai api circuit breaker open, request rejected",
					slog.String("service", "openai-api"),
					slog.String("state", o.circuitBreaker.State().String()))
				return fmt.Errorf("openai api unavailable: circuit breaker open")
			}
			return err
		}

		result = cbResult.(entity.Category)
		return nil
	})

	if retryErr != nil {
		return "", fmt.Errorf("openai classify failed after retries: %w", retryErr)
	}

	return result, nil
}

// doClassify performs the actual API call without retry or circuit breaker.
func (o *OpenAI) doClassify(ctx context.Context, title, summary string) (entity.Category, error) {
	requestID := uuid.New().String()
	prompt := categoryPrompt(title, truncateForPrompt(summary, maxSummaryChars))

	slog.DebugContext(ctx, "Starting classification",
		slog.String("request_id", requestID),
		slog.String("provider", "openai"),
		slog.String("title", title))

	start := time.Now()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    "system",
			Content: prompt,
		}},
	})

	duration := time.Since(start)

	if err != nil {
		metrics.RecordUpstreamFailure("classifier", duration)
		slog.ErrorContext(ctx, "Classification failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		metrics.RecordUpstreamFailure("classifier", duration)
		slog.ErrorContext(ctx, "OpenAI API returned empty response",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration))
		return "", fmt.Errorf("openai api returned empty response")
	}

	category, err := parseCategory(resp.Choices[0].Message.Content)
	if err != nil {
		metrics.RecordUpstreamFailure("classifier", duration)
		slog.ErrorContext(ctx, "OpenAI API returned unparseable category",
			slog.String("request_id", requestID),
			slog.String("response", resp.Choices[0].Message.Content))
		return "", fmt.Errorf("openai classify: %w", err)
	}

	metrics.RecordUpstreamSuccess("classifier", duration)
	slog.DebugContext(ctx, "Classification completed",
		slog.String("request_id", requestID),
		slog.String("category", string(category)),
		slog.Duration("duration", duration))

	return category, nil
}
