package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsagent/internal/domain/entity"
)

func writeVocabularyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vocabulary.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadVocabulary_DefaultWithoutPath(t *testing.T) {
	vocab, err := LoadVocabulary()
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultVocabulary(), vocab)
}

func TestLoadVocabulary_OverridesFromFile(t *testing.T) {
	path := writeVocabularyFile(t, `
categories:
  programming:
    keywords: ["golang", "zig", "borrow checker"]
`)
	t.Setenv("VOCABULARY_PATH", path)

	vocab, err := LoadVocabulary()
	require.NoError(t, err)

	assert.Equal(t, []string{"golang", "zig", "borrow checker"}, vocab[entity.CategoryProgramming])
	// Untouched categories keep defaults.
	assert.Equal(t, entity.DefaultVocabulary()[entity.CategoryAIML], vocab[entity.CategoryAIML])
}

func TestLoadVocabulary_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "unknown category",
			content: `
categories:
  astrology:
    keywords: ["mars"]
`,
		},
		{
			name: "empty keyword list",
			content: `
categories:
  programming:
    keywords: []
`,
		},
		{
			name:    "malformed yaml",
			content: "categories: [",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("VOCABULARY_PATH", writeVocabularyFile(t, tt.content))
			_, err := LoadVocabulary()
			assert.Error(t, err)
		})
	}
}

func TestLoadVocabulary_MissingFile(t *testing.T) {
	t.Setenv("VOCABULARY_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := LoadVocabulary()
	assert.Error(t, err)
}
