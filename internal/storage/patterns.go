package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"breathe/internal/core/model"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnsupportedFormat indicates a pattern file with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported pattern file format")
	// ErrDuplicatePattern indicates two patterns sharing a name in one file.
	ErrDuplicatePattern = errors.New("duplicate pattern name")
)

type patternFile struct {
	Patterns []model.Pattern `yaml:"patterns" toml:"patterns"`
}

// LoadPatterns reads custom patterns from a .yaml, .yml or .toml file.
// Every pattern is validated; the first invalid or repeated one fails the
// whole file.
func LoadPatterns(path string) ([]model.Pattern, error) {
	rawData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pattern file: %w", err)
	}

	var fileData patternFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(rawData, &fileData); err != nil {
			return nil, fmt.Errorf("parse pattern yaml: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(rawData, &fileData); err != nil {
			return nil, fmt.Errorf("parse pattern toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}

	seen := make(map[string]struct{}, len(fileData.Patterns))
	for index := range fileData.Patterns {
		pattern := &fileData.Patterns[index]
		if pattern.Name == "" {
			return nil, fmt.Errorf("pattern %d: name is empty", index)
		}
		if _, ok := seen[pattern.Name]; ok {
			return nil, fmt.Errorf("pattern %d %q: %w", index, pattern.Name, ErrDuplicatePattern)
		}
		seen[pattern.Name] = struct{}{}
		if pattern.Title == "" {
			pattern.Title = pattern.Name
		}
		for phaseIndex := range pattern.Phases {
			phase := &pattern.Phases[phaseIndex]
			if phase.Label == "" {
				phase.Label = phase.Key
			}
		}
		if err := pattern.Validate(); err != nil {
			return nil, err
		}
	}
	return fileData.Patterns, nil
}
