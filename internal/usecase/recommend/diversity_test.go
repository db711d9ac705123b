package recommend

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsagent/internal/domain/entity"
)

func makeItems(category entity.Category, count int, baseScore float64) []entity.CandidateItem {
	items := make([]entity.CandidateItem, count)
	for i := range items {
		items[i] = entity.CandidateItem{
			ID:         fmt.Sprintf("%s-%02d", category, i),
			Category:   category,
			Score:      baseScore - float64(i)*0.01,
			Popularity: 0.5,
		}
	}
	return items
}

func TestDiversify_QuotaCapsDominantCategory(t *testing.T) {
	t.Parallel()

	// 20 high-scoring interest items competing with weaker alternatives.
	items := makeItems(entity.CategoryAIML, 20, 0.9)
	items = append(items, makeItems(entity.CategoryHardwareChips, 10, 0.5)...)
	items = append(items, makeItems(entity.CategorySocialMedia, 10, 0.3)...)
	sortByScore(items)

	got := diversify(items, []entity.Category{entity.CategoryAIML}, 10)
	require.Len(t, got, 10)

	counts := make(map[entity.Category]int)
	for _, item := range got {
		counts[item.Category]++
	}
	assert.LessOrEqual(t, counts[entity.CategoryAIML], 7, "interest quota is 70%% of limit")
	assert.Positive(t, counts[entity.CategoryHardwareChips], "related bucket must be represented")
	assert.Positive(t, counts[entity.CategorySocialMedia], "exploration bucket must be represented")
}

func TestDiversify_NoConsecutiveRepeatsWhileAlternativesRemain(t *testing.T) {
	t.Parallel()

	items := makeItems(entity.CategoryAIML, 8, 0.9)
	items = append(items, makeItems(entity.CategoryProgramming, 8, 0.8)...)
	items = append(items, makeItems(entity.CategoryConsumerTech, 8, 0.7)...)
	sortByScore(items)

	got := diversify(items, []entity.Category{entity.CategoryAIML, entity.CategoryProgramming}, 12)
	require.NotEmpty(t, got)

	remaining := make(map[entity.Category]int)
	for _, item := range got {
		remaining[item.Category]++
	}
	for i := 1; i < len(got); i++ {
		if got[i].Category != got[i-1].Category {
			continue
		}
		// A repeat is only legal when every other category is exhausted
		// at this point in the output.
		seen := make(map[entity.Category]int)
		for _, item := range got[:i] {
			seen[item.Category]++
		}
		for cat, total := range remaining {
			if cat == got[i].Category {
				continue
			}
			assert.Equal(t, total, seen[cat],
				"consecutive %s at position %d while %s still had items", got[i].Category, i, cat)
		}
	}
}

func TestDiversify_BalancesAcrossInterests(t *testing.T) {
	t.Parallel()

	// ai_ml items all outscore programming items; balancing must still
	// reserve interest slots for programming.
	items := makeItems(entity.CategoryAIML, 10, 0.9)
	items = append(items, makeItems(entity.CategoryProgramming, 10, 0.4)...)
	sortByScore(items)

	got := diversify(items, []entity.Category{entity.CategoryAIML, entity.CategoryProgramming}, 10)
	require.Len(t, got, 10)

	counts := make(map[entity.Category]int)
	for _, item := range got {
		counts[item.Category]++
	}
	assert.Positive(t, counts[entity.CategoryProgramming])
	assert.GreaterOrEqual(t, counts[entity.CategoryAIML], counts[entity.CategoryProgramming]-1)
}

func TestDiversify_Degenerate(t *testing.T) {
	t.Parallel()

	items := makeItems(entity.CategoryAIML, 5, 0.9)

	assert.Nil(t, diversify(items, nil, 0))
	assert.Nil(t, diversify(items, nil, -3))
	assert.Nil(t, diversify(nil, nil, 10))

	// Short lists skip the interleave pass and keep score order.
	got := diversify(items[:3], []entity.Category{entity.CategoryAIML}, 3)
	require.Len(t, got, 3)
	assert.Equal(t, "ai_ml-00", got[0].ID)
}

func TestDiversify_BackfillWhenBucketsUnderfilled(t *testing.T) {
	t.Parallel()

	// No interest or related items at all: everything is exploration, and
	// backfill must still return a full page.
	items := makeItems(entity.CategorySocialMedia, 10, 0.6)
	sortByScore(items)

	got := diversify(items, []entity.Category{entity.CategoryHardwareChips}, 8)
	assert.Len(t, got, 8)
}

func TestDiversify_Deterministic(t *testing.T) {
	t.Parallel()

	items := makeItems(entity.CategoryAIML, 6, 0.9)
	items = append(items, makeItems(entity.CategoryStartupVenture, 6, 0.6)...)
	sortByScore(items)
	interests := []entity.Category{entity.CategoryAIML}

	first := diversify(cloneItems(items), interests, 8)
	second := diversify(cloneItems(items), interests, 8)
	assert.Equal(t, first, second)
}
