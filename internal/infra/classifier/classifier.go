// Package classifier assigns one of the known content categories to a
// piece of content. It provides LLM-backed adapters for Claude (Anthropic)
// and OpenAI with reliability patterns, plus a local keyword classifier
// that needs no network and serves as the fallback of last resort.
package classifier

import (
	"context"
	"fmt"
	"strings"

	"newsagent/internal/domain/entity"
)

// Classifier assigns a category to a piece of content.
type Classifier interface {
	Classify(ctx context.Context, title, summary string) (entity.Category, error)
}

// parseCategory extracts a category slug from a raw LLM response.
// The model is instructed to answer with exactly one slug, but responses
// occasionally arrive quoted, capitalized or wrapped in a sentence, so
// parsing is lenient: an exact match after trimming wins, otherwise the
// first known slug found anywhere in the response is used.
func parseCategory(raw string) (entity.Category, error) {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	cleaned = strings.Trim(cleaned, "\"'`.")

	if cat := entity.Category(cleaned); cat.Valid() {
		return cat, nil
	}

	for _, cat := range entity.Categories() {
		if strings.Contains(cleaned, string(cat)) {
			return cat, nil
		}
	}

	return "", fmt.Errorf("no known category in response %q", raw)
}

// categoryPrompt builds the classification prompt shared by both LLM
// providers. The slug list is generated from the category registry so the
// prompt never drifts from the accepted set.
func categoryPrompt(title, summary string) string {
	slugs := make([]string, 0, entity.CategoryCount())
	for _, cat := range entity.Categories() {
		slugs = append(slugs, string(cat))
	}

	var b strings.Builder
	b.WriteString("Classify the following tech news item into exactly one category.\n")
	b.WriteString("Answer with only the category slug, nothing else.\n\n")
	b.WriteString("Categories: ")
	b.WriteString(strings.Join(slugs, ", "))
	b.WriteString("\n\nTitle: ")
	b.WriteString(title)
	if summary != "" {
		b.WriteString("\nSummary: ")
		b.WriteString(summary)
	}
	return b.String()
}

// truncateForPrompt bounds the summary text sent to the LLM. Classification
// needs far less context than summarization, so the limit is tight.
func truncateForPrompt(s string, maxChars int) string {
	if len(s) <= maxChars {
		return s
	}
	return s[:maxChars] + "..."
}
