package classifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsagent/internal/domain/entity"
)

func TestParseCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    entity.Category
		wantErr bool
	}{
		{name: "exact slug", raw: "ai_ml", want: entity.CategoryAIML},
		{name: "trailing newline", raw: "programming\n", want: entity.CategoryProgramming},
		{name: "quoted", raw: `"web3_crypto"`, want: entity.CategoryWeb3Crypto},
		{name: "uppercase", raw: "HARDWARE_CHIPS", want: entity.CategoryHardwareChips},
		{name: "wrapped in sentence", raw: "The category is startup_venture.", want: entity.CategoryStartupVenture},
		{name: "no slug present", raw: "I cannot classify this.", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseCategory(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategoryPrompt_ListsAllSlugs(t *testing.T) {
	t.Parallel()

	prompt := categoryPrompt("Nvidia ships new GPU", "Datacenter accelerators")

	for _, cat := range entity.Categories() {
		assert.Contains(t, prompt, string(cat))
	}
	assert.Contains(t, prompt, "Nvidia ships new GPU")
	assert.Contains(t, prompt, "Datacenter accelerators")
}

func TestCategoryPrompt_OmitsEmptySummary(t *testing.T) {
	t.Parallel()

	prompt := categoryPrompt("Title only", "")
	assert.NotContains(t, prompt, "Summary:")
}

func TestTruncateForPrompt(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 5000)
	got := truncateForPrompt(long, 2000)
	assert.Len(t, got, 2003)
	assert.True(t, strings.HasSuffix(got, "..."))

	assert.Equal(t, "short", truncateForPrompt("short", 2000))
}
