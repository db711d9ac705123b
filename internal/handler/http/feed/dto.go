// Package feed provides the HTTP handlers for the personalization API:
// interaction tracking, per-user recommendations, preference inspection
// and cache administration.
package feed

import (
	"context"
	"time"

	"newsagent/internal/domain/entity"
	"newsagent/internal/usecase/preference"
	"newsagent/pkg/ttlcache"
)

// LearningService is the slice of the learning engine the handlers use.
type LearningService interface {
	Track(ctx context.Context, ev *entity.InteractionEvent) (*preference.LearningResult, error)
	Preferences(userID string) entity.PreferenceVector
	Confidence(userID string) float64
	Interests(userID string) []entity.Category
	Reset(ctx context.Context, userID string)
	Stats() preference.SystemStats
	AnalyzePatterns(userID string, days int) preference.PatternReport
}

// RankingService is the slice of the ranking engine the handlers use.
type RankingService interface {
	RankForUser(ctx context.Context, userID string, limit int) []entity.CandidateItem
	CacheStats() map[string]ttlcache.Stats
	ClearCache(tier string) error
}

// TrackRequest is the JSON body of POST /track.
type TrackRequest struct {
	UserID          string  `json:"user_id"`
	Action          string  `json:"action"`
	ContentID       string  `json:"content_id"`
	Category        string  `json:"category"`
	Title           string  `json:"title,omitempty"`
	ReadingSeconds  float64 `json:"reading_duration_seconds,omitempty"`
	ScrollPercent   float64 `json:"scroll_percent,omitempty"`
	Timestamp       string  `json:"timestamp,omitempty"`
}

// toEvent converts the request into a domain event. A missing timestamp
// means "now"; a malformed one is a validation error surfaced by Track.
func (r TrackRequest) toEvent() (*entity.InteractionEvent, error) {
	ts := time.Now()
	if r.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, r.Timestamp)
		if err != nil {
			return nil, &entity.ValidationError{
				Field:   "timestamp",
				Message: "timestamp must be RFC 3339",
			}
		}
		ts = parsed
	}

	return &entity.InteractionEvent{
		UserID:          r.UserID,
		Action:          entity.Action(r.Action),
		ContentID:       r.ContentID,
		Category:        entity.Category(r.Category),
		Title:           r.Title,
		ReadingDuration: time.Duration(r.ReadingSeconds * float64(time.Second)),
		ScrollPercent:   r.ScrollPercent,
		Timestamp:       ts,
	}, nil
}

// ItemDTO is one recommended item in API responses.
type ItemDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary,omitempty"`
	Category    string    `json:"category"`
	Source      string    `json:"source,omitempty"`
	URL         string    `json:"url,omitempty"`
	Score       float64   `json:"score"`
	Popularity  float64   `json:"popularity"`
	PublishedAt time.Time `json:"published_at"`
}

func toItemDTOs(items []entity.CandidateItem) []ItemDTO {
	out := make([]ItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, ItemDTO{
			ID:          it.ID,
			Title:       it.Title,
			Summary:     it.Summary,
			Category:    string(it.Category),
			Source:      it.Source,
			URL:         it.URL,
			Score:       it.Score,
			Popularity:  it.Popularity,
			PublishedAt: it.PublishedAt,
		})
	}
	return out
}

// PreferencesDTO is the response of GET /preferences/{user_id}.
type PreferencesDTO struct {
	UserID      string             `json:"user_id"`
	Preferences map[string]float64 `json:"preferences"`
	Confidence  float64            `json:"confidence"`
	Interests   []string           `json:"interests"`
}
