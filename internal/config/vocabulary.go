package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"newsagent/internal/domain/entity"
	"newsagent/pkg/config"
)

// vocabularyFile is the on-disk shape of a keyword vocabulary override.
//
// Example:
//
//	categories:
//	  ai_ml:
//	    keywords: ["ai", "machine learning", "neural network"]
//	  programming:
//	    keywords: ["golang", "rust", "compiler"]
type vocabularyFile struct {
	Categories map[string]struct {
		Keywords []string `yaml:"keywords"`
	} `yaml:"categories"`
}

// LoadVocabulary returns the keyword vocabulary used for classification and
// keyword-overlap scoring. When VOCABULARY_PATH points at a YAML file, its
// per-category keyword lists replace the built-in ones; categories absent
// from the file keep their defaults. An unset path returns the defaults.
func LoadVocabulary() (entity.Vocabulary, error) {
	path := config.GetEnvString("VOCABULARY_PATH", "")
	if path == "" {
		return entity.DefaultVocabulary(), nil
	}
	return loadVocabularyFile(path)
}

func loadVocabularyFile(path string) (entity.Vocabulary, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator's environment
	if err != nil {
		return nil, fmt.Errorf("read vocabulary file: %w", err)
	}

	var file vocabularyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse vocabulary file %s: %w", path, err)
	}

	vocab := entity.DefaultVocabulary()
	for name, spec := range file.Categories {
		cat := entity.Category(name)
		if !cat.Valid() {
			return nil, fmt.Errorf("vocabulary file %s: unknown category %q", path, name)
		}
		if len(spec.Keywords) == 0 {
			return nil, fmt.Errorf("vocabulary file %s: category %q has no keywords", path, name)
		}
		vocab[cat] = append([]string(nil), spec.Keywords...)
	}
	return vocab, nil
}
