package classifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsagent/internal/domain/entity"
)

func TestKeyword_Classify(t *testing.T) {
	t.Parallel()

	k := NewKeyword(nil)

	tests := []struct {
		name    string
		title   string
		summary string
		want    entity.Category
	}{
		{
			name:    "ai content",
			title:   "OpenAI releases new GPT model",
			summary: "The large language model improves reasoning.",
			want:    entity.CategoryAIML,
		},
		{
			name:    "crypto content",
			title:   "Bitcoin crosses new high",
			summary: "Ethereum and Solana follow the rally.",
			want:    entity.CategoryWeb3Crypto,
		},
		{
			name:    "hardware content",
			title:   "TSMC starts 2nm wafer production",
			summary: "The semiconductor foundry ramps its new fab.",
			want:    entity.CategoryHardwareChips,
		},
		{
			name:  "title outweighs summary",
			title: "Salesforce launches new CRM workflow",
			// Two summary hits score 2, one title hit scores 2 and the
			// second title hit breaks the tie.
			summary: "Built with python and react.",
			want:    entity.CategoryEnterpriseSaaS,
		},
		{
			name:    "no match defaults to programming",
			title:   "Quarterly weather report",
			summary: "Sunny with light clouds.",
			want:    entity.CategoryProgramming,
		},
		{
			name:  "case insensitive",
			title: "TIKTOK Updates Its ALGORITHM FEED",
			want:  entity.CategorySocialMedia,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := k.Classify(context.Background(), tt.title, tt.summary)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeyword_CustomVocabulary(t *testing.T) {
	t.Parallel()

	vocab := entity.Vocabulary{
		entity.CategoryConsumerTech: {"widget"},
	}
	k := NewKeyword(vocab)

	got, err := k.Classify(context.Background(), "New widget announced", "")
	require.NoError(t, err)
	assert.Equal(t, entity.CategoryConsumerTech, got)

	// Words outside the custom vocabulary no longer match.
	got, err = k.Classify(context.Background(), "Bitcoin crosses new high", "")
	require.NoError(t, err)
	assert.Equal(t, entity.CategoryProgramming, got)
}

func TestKeyword_Deterministic(t *testing.T) {
	t.Parallel()

	k := NewKeyword(nil)

	first, err := k.Classify(context.Background(), "Apple launches iphone with new chip", "")
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		got, err := k.Classify(context.Background(), "Apple launches iphone with new chip", "")
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}
