package entity_test

import (
	"math"
	"testing"

	"newsagent/internal/domain/entity"
)

func TestCategories_ClosedSet(t *testing.T) {
	t.Parallel()

	cats := entity.Categories()
	if len(cats) != entity.CategoryCount() {
		t.Fatalf("Categories() returned %d entries, want %d", len(cats), entity.CategoryCount())
	}
	seen := map[entity.Category]bool{}
	for _, c := range cats {
		if !c.Valid() {
			t.Errorf("category %q not valid", c)
		}
		if seen[c] {
			t.Errorf("category %q duplicated", c)
		}
		seen[c] = true
	}
	if entity.Category("astrology").Valid() {
		t.Error("unexpected valid() for category outside the set")
	}
}

func TestCategory_RelatedTo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  entity.Category
		interest entity.Category
		want     bool
	}{
		{"ai related to programming", entity.CategoryAIML, entity.CategoryProgramming, true},
		{"ai related to hardware", entity.CategoryAIML, entity.CategoryHardwareChips, true},
		{"ai not related to social", entity.CategoryAIML, entity.CategorySocialMedia, false},
		{"social has no relations", entity.CategorySocialMedia, entity.CategoryAIML, false},
		{"web3 related to startup", entity.CategoryWeb3Crypto, entity.CategoryStartupVenture, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.content.RelatedTo(tt.interest); got != tt.want {
				t.Errorf("%s.RelatedTo(%s) = %v, want %v", tt.content, tt.interest, got, tt.want)
			}
		})
	}
}

func TestUniformPreferences(t *testing.T) {
	t.Parallel()

	prefs := entity.UniformPreferences()
	if len(prefs) != entity.CategoryCount() {
		t.Fatalf("uniform vector has %d entries, want %d", len(prefs), entity.CategoryCount())
	}
	want := 1.0 / float64(entity.CategoryCount())
	for cat, w := range prefs {
		if math.Abs(w-want) > 1e-9 {
			t.Errorf("weight for %s = %v, want %v", cat, w, want)
		}
	}
	if math.Abs(prefs.Sum()-1.0) > 1e-9 {
		t.Errorf("uniform vector sums to %v, want 1.0", prefs.Sum())
	}
}

func TestPreferenceVector_TopInterests(t *testing.T) {
	t.Parallel()

	prefs := entity.UniformPreferences()
	for cat := range prefs {
		prefs[cat] = 0.05
	}
	prefs[entity.CategoryAIML] = 0.45
	prefs[entity.CategoryProgramming] = 0.25
	prefs[entity.CategoryWeb3Crypto] = 0.12

	got := prefs.TopInterests(0.1, 3)
	want := []entity.Category{entity.CategoryAIML, entity.CategoryProgramming, entity.CategoryWeb3Crypto}
	if len(got) != len(want) {
		t.Fatalf("TopInterests returned %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("TopInterests returned %v, want %v", got, want)
		}
	}

	// Uniform vector at 0.125 per category: nothing clears the 0.1 floor... except everything.
	uniform := entity.UniformPreferences()
	if got := uniform.TopInterests(0.2, 3); len(got) != 0 {
		t.Errorf("TopInterests above uniform weight = %v, want empty", got)
	}
}

func TestPreferenceVector_Clone(t *testing.T) {
	t.Parallel()

	orig := entity.UniformPreferences()
	clone := orig.Clone()
	clone[entity.CategoryAIML] = 0.9
	if orig[entity.CategoryAIML] == 0.9 {
		t.Error("mutating a clone changed the original vector")
	}
}
