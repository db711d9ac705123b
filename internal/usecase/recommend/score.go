package recommend

import (
	"math"
	"sort"
	"strings"
	"time"

	"newsagent/internal/domain/entity"
)

// Score formula component weights.
const (
	categoryWeight   = 0.4
	keywordWeight    = 0.3
	popularityWeight = 0.2
	recencyWeight    = 0.1
)

// scoreItem computes the personalized score for one candidate.
func (s *Service) scoreItem(item *entity.CandidateItem, interests []entity.Category, weights entity.PreferenceVector, now time.Time) float64 {
	score := categoryWeight*categoryMatch(item.Category, interests, weights) +
		keywordWeight*s.keywordOverlap(item, interests) +
		popularityWeight*clampUnit(item.Popularity) +
		recencyWeight*recency(item.PublishedAt, now)
	return math.Round(score*10000) / 10000
}

// categoryMatch gives full credit, scaled by the learned weight, when the
// item's category is one of the user's interests, and partial credit when it
// is merely related to one.
func categoryMatch(cat entity.Category, interests []entity.Category, weights entity.PreferenceVector) float64 {
	for _, interest := range interests {
		if cat == interest {
			return math.Min(weights[cat]*5, 1.0)
		}
	}

	var related float64
	for _, interest := range interests {
		if cat.RelatedTo(interest) {
			related += weights[interest]
		}
	}
	if related > 0 {
		return math.Min(related*2, 1.0)
	}
	return 0
}

// keywordOverlap measures how much of the interest categories' vocabulary
// appears in the item text. Title hits count double, and the result is the
// matched share of the combined vocabulary, capped at 1.
func (s *Service) keywordOverlap(item *entity.CandidateItem, interests []entity.Category) float64 {
	title := strings.ToLower(item.Title)
	summary := strings.ToLower(item.Summary)

	var total, hits float64
	seen := make(map[string]struct{})
	for _, interest := range interests {
		for _, kw := range s.vocabulary[interest] {
			if _, dup := seen[kw]; dup {
				continue
			}
			seen[kw] = struct{}{}
			total++
			switch {
			case strings.Contains(title, kw):
				hits += 2
			case strings.Contains(summary, kw):
				hits++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return math.Min(hits/total, 1.0)
}

// recency is a step function of the item's age.
func recency(publishedAt, now time.Time) float64 {
	if publishedAt.IsZero() {
		return 0.5
	}
	age := now.Sub(publishedAt)
	switch {
	case age <= 24*time.Hour:
		return 1.0
	case age <= 48*time.Hour:
		return 0.8
	case age <= 72*time.Hour:
		return 0.6
	default:
		return 0.4
	}
}

// sortByScore orders items by score descending, breaking ties by ID so the
// output is reproducible.
func sortByScore(items []entity.CandidateItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].ID < items[j].ID
	})
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
