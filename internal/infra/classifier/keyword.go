package classifier

import (
	"context"
	"strings"

	"newsagent/internal/domain/entity"
)

// Keyword classifies content by scanning it against the per-category
// keyword vocabulary. It needs no network access and never fails, which
// makes it the fallback of last resort for the LLM providers.
//
// Title hits count double since titles carry more categorical signal
// than summaries. Ties resolve in category registry order so results
// are deterministic. Content matching nothing defaults to programming.
type Keyword struct {
	vocab entity.Vocabulary
}

// NewKeyword creates a keyword classifier over the given vocabulary.
// A nil vocabulary uses the built-in default.
func NewKeyword(vocab entity.Vocabulary) *Keyword {
	if vocab == nil {
		vocab = entity.DefaultVocabulary()
	}
	return &Keyword{vocab: vocab}
}

// Classify assigns the best-matching category. The error is always nil;
// it exists to satisfy the Classifier interface.
func (k *Keyword) Classify(_ context.Context, title, summary string) (entity.Category, error) {
	title = strings.ToLower(title)
	summary = strings.ToLower(summary)

	best := entity.CategoryProgramming
	bestScore := 0

	for _, cat := range entity.Categories() {
		score := 0
		for _, word := range k.vocab[cat] {
			if strings.Contains(title, word) {
				score += 2
			}
			if strings.Contains(summary, word) {
				score++
			}
		}
		if score > bestScore {
			best = cat
			bestScore = score
		}
	}

	return best, nil
}
