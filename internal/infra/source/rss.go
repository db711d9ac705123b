package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"

	"newsagent/internal/domain/entity"
	"newsagent/internal/resilience/circuitbreaker"
	"newsagent/internal/resilience/retry"
)

// rssDefaultPopularity is used for feed items, which carry no importance
// signal of their own.
const rssDefaultPopularity = 0.5

// RSSSource fetches candidate items from one or more RSS/Atom feeds using
// the gofeed library. It includes circuit breaker and retry logic for
// improved reliability.
type RSSSource struct {
	feedURLs       []string
	client         *http.Client
	classifier     Classifier
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewRSSSource creates an RSS source over the given feed URLs.
func NewRSSSource(feedURLs []string, client *http.Client, classifier Classifier) *RSSSource {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &RSSSource{
		feedURLs:       feedURLs,
		client:         client,
		classifier:     classifier,
		circuitBreaker: circuitbreaker.New(circuitbreaker.ContentSourceConfig()),
		retryConfig:    retry.ContentSourceConfig(),
	}
}

// Fetch retrieves and merges all configured feeds, newest first. A feed
// failing individually is logged and skipped; Fetch fails only when every
// feed fails.
func (s *RSSSource) Fetch(ctx context.Context) ([]entity.CandidateItem, error) {
	var merged []entity.CandidateItem
	var failures int

	for _, feedURL := range s.feedURLs {
		items, err := s.fetchFeed(ctx, feedURL)
		if err != nil {
			failures++
			slog.Warn("feed fetch failed",
				slog.String("url", feedURL),
				slog.Any("error", err))
			continue
		}
		merged = append(merged, items...)
	}

	if len(s.feedURLs) > 0 && failures == len(s.feedURLs) {
		return nil, fmt.Errorf("all %d feeds failed", failures)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PublishedAt.After(merged[j].PublishedAt)
	})
	return merged, nil
}

func (s *RSSSource) fetchFeed(ctx context.Context, feedURL string) ([]entity.CandidateItem, error) {
	var items []entity.CandidateItem

	retryErr := retry.WithBackoff(ctx, s.retryConfig, func() error {
		cbResult, err := s.circuitBreaker.Execute(func() (interface{}, error) {
			return s.doFetch(ctx, feedURL)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("feed circuit breaker open, request rejected",
					slog.String("service", "content-source"),
					slog.String("url", feedURL),
					slog.String("state", s.circuitBreaker.State().String()))
			}
			return err
		}

		items = cbResult.([]entity.CandidateItem)
		return nil
	})
	if retryErr != nil {
		return nil, retryErr
	}
	return items, nil
}

// doFetch performs the actual feed fetch without retry or circuit breaker.
func (s *RSSSource) doFetch(ctx context.Context, feedURL string) ([]entity.CandidateItem, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = "NewsAgentBot"
	fp.Client = s.client

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}

	items := make([]entity.CandidateItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		pubAt := time.Now()
		if it.PublishedParsed != nil {
			pubAt = *it.PublishedParsed
		}

		summary := it.Description
		if summary == "" {
			summary = it.Content
		}

		items = append(items, entity.CandidateItem{
			ID:          itemID(it),
			Title:       it.Title,
			Summary:     summary,
			Category:    s.classify(ctx, it.Title, summary),
			Source:      feed.Title,
			URL:         it.Link,
			Popularity:  rssDefaultPopularity,
			PublishedAt: pubAt,
		})
	}
	return items, nil
}

func (s *RSSSource) classify(ctx context.Context, title, summary string) entity.Category {
	if s.classifier == nil {
		return entity.CategoryProgramming
	}
	cat, err := s.classifier.Classify(ctx, title, summary)
	if err != nil {
		return entity.CategoryProgramming
	}
	return cat
}

func itemID(it *gofeed.Item) string {
	if it.GUID != "" {
		return it.GUID
	}
	return it.Link
}
