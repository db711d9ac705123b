// Package source provides implementations for fetching candidate content
// items from upstream systems, with reliability patterns around every
// network call.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"newsagent/internal/domain/entity"
	"newsagent/internal/resilience/circuitbreaker"
	"newsagent/internal/resilience/retry"
)

// Classifier assigns a category to a piece of content. Upstream events do
// not always carry a usable category.
type Classifier interface {
	Classify(ctx context.Context, title, summary string) (entity.Category, error)
}

// maxResponseSize bounds upstream response bodies.
const maxResponseSize = 10 << 20

// EventsAPIClient fetches candidate items from the events API.
// It includes circuit breaker and retry logic for improved reliability.
type EventsAPIClient struct {
	baseURL        string
	client         *http.Client
	classifier     Classifier
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewEventsAPIClient creates a client for the events API at baseURL.
// It automatically configures circuit breaker and retry logic.
func NewEventsAPIClient(baseURL string, client *http.Client, classifier Classifier) *EventsAPIClient {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &EventsAPIClient{
		baseURL:        baseURL,
		client:         client,
		classifier:     classifier,
		circuitBreaker: circuitbreaker.New(circuitbreaker.ContentSourceConfig()),
		retryConfig:    retry.ContentSourceConfig(),
	}
}

// eventRecord is the upstream wire shape of one grouped event.
type eventRecord struct {
	ID           string    `json:"id"`
	GroupTitle   string    `json:"group_title"`
	GroupSummary string    `json:"group_summary"`
	Category     string    `json:"category"`
	Importance   float64   `json:"importance"`
	Source       string    `json:"source"`
	URL          string    `json:"url"`
	PublishedAt  time.Time `json:"published_at"`
}

type eventsResponse struct {
	Events []eventRecord `json:"events"`
}

// Fetch retrieves the current event set and converts it to candidate items.
// It uses circuit breaker and retry logic for improved reliability.
func (c *EventsAPIClient) Fetch(ctx context.Context) ([]entity.CandidateItem, error) {
	var records []eventRecord

	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.doFetch(ctx)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("events API circuit breaker open, request rejected",
					slog.String("service", "content-source"),
					slog.String("state", c.circuitBreaker.State().String()))
			}
			return err
		}

		records = cbResult.([]eventRecord)
		return nil
	})
	if retryErr != nil {
		return nil, retryErr
	}

	return c.convert(ctx, records), nil
}

func (c *EventsAPIClient) doFetch(ctx context.Context) ([]eventRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/events", nil)
	if err != nil {
		return nil, fmt.Errorf("build events request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode}
	}

	var body eventsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode events response: %w", err)
	}
	return body.Events, nil
}

// convert maps event records to candidate items, deriving popularity from
// relative importance and filling missing categories via the classifier.
func (c *EventsAPIClient) convert(ctx context.Context, records []eventRecord) []entity.CandidateItem {
	var maxImportance float64
	for _, r := range records {
		if r.Importance > maxImportance {
			maxImportance = r.Importance
		}
	}

	items := make([]entity.CandidateItem, 0, len(records))
	for _, r := range records {
		cat := entity.Category(r.Category)
		if !cat.Valid() {
			cat = c.classify(ctx, r.GroupTitle, r.GroupSummary)
		}

		items = append(items, entity.CandidateItem{
			ID:          r.ID,
			Title:       r.GroupTitle,
			Summary:     r.GroupSummary,
			Category:    cat,
			Source:      r.Source,
			URL:         r.URL,
			Popularity:  importanceToPopularity(r.Importance, maxImportance),
			PublishedAt: r.PublishedAt,
		})
	}
	return items
}

func (c *EventsAPIClient) classify(ctx context.Context, title, summary string) entity.Category {
	if c.classifier == nil {
		return entity.CategoryProgramming
	}
	cat, err := c.classifier.Classify(ctx, title, summary)
	if err != nil {
		slog.Warn("event classification failed, using default category",
			slog.String("title", title),
			slog.Any("error", err))
		return entity.CategoryProgramming
	}
	return cat
}

// importanceToPopularity maps a raw importance signal onto [0.3, 1.0] with a
// logarithmic curve, so the long tail of low-importance events still ranks
// above zero while standout events saturate.
func importanceToPopularity(importance, maxImportance float64) float64 {
	if importance <= 0 || maxImportance <= 0 {
		return 0.3
	}
	normalized := importance / maxImportance
	popularity := 0.3 + math.Log10(normalized*9+1)*0.7
	if popularity > 1 {
		return 1
	}
	if popularity < 0.3 {
		return 0.3
	}
	return popularity
}
