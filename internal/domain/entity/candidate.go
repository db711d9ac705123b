package entity

import "time"

// CandidateItem is one rankable piece of content sourced from the content
// collaborator. The ranking engine owns a candidate only for the duration
// of a scoring pass; the upstream record is never mutated.
type CandidateItem struct {
	ID          string
	Title       string
	Summary     string
	Category    Category
	Source      string
	URL         string
	Popularity  float64 // normalized popularity signal in [0,1]
	PublishedAt time.Time

	// Score is the computed personalized score, populated during a
	// scoring pass. Zero until the item has been scored.
	Score float64
}
