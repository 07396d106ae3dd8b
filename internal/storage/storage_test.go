package storage

import (
	"os"
	"path/filepath"
	"testing"

	"breathe/internal/core/model"
	"breathe/internal/core/phasetimer"
	"breathe/internal/ui/preferences"
	"breathe/internal/ui/theme"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsMissingFile(t *testing.T) {
	settings, err := LoadSettingsFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Breathe", settingsFileName)
	saved := preferences.Settings{
		PatternName:      "4-7-8",
		ProgressStyle:    phasetimer.ProgressCumulative,
		HapticsEnabled:   false,
		AnalyticsEnabled: false,
		Autostart:        true,
		Theme:            theme.Params{BackgroundColor: "#17212b", LinkColor: "#6ab3f3"},
	}

	require.NoError(t, SaveSettingsFile(path, saved))
	loaded, err := LoadSettingsFile(path)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestLoadSettingsPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsFileName)
	content := "pattern: triangle\nprogress_style: sideways\ntheme:\n  bg_color: '#000000'\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	settings, err := LoadSettingsFile(path)
	require.NoError(t, err)
	assert.Equal(t, "triangle", settings.PatternName)
	assert.Equal(t, phasetimer.ProgressPerPhase, settings.ProgressStyle)
	assert.True(t, settings.HapticsEnabled)
	assert.True(t, settings.AnalyticsEnabled)
	assert.Equal(t, "#000000", settings.Theme.BackgroundColor)
}

func TestLoadSettingsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsFileName)
	require.NoError(t, os.WriteFile(path, []byte("pattern: [unterminated"), 0o644))

	settings, err := LoadSettingsFile(path)
	assert.ErrorContains(t, err, "parse settings yaml")
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestLoadPatternsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	content := `patterns:
  - name: box-6
    phases:
      - {key: inhale, label: Вдох, seconds: 6}
      - {key: exhale, seconds: 6}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	patterns, err := LoadPatterns(path)
	require.NoError(t, err)
	require.Len(t, patterns, 1)
	assert.Equal(t, "box-6", patterns[0].Title)
	assert.Equal(t, "exhale", patterns[0].Phases[1].Label)
	assert.Equal(t, 12, patterns[0].CycleSeconds())
}

func TestLoadPatternsTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.toml")
	content := `[[patterns]]
name = "long-exhale"
title = "Long exhale"

[[patterns.phases]]
key = "inhale"
seconds = 4

[[patterns.phases]]
key = "exhale"
seconds = 8
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	patterns, err := LoadPatterns(path)
	require.NoError(t, err)
	require.Len(t, patterns, 1)
	assert.Equal(t, "Long exhale", patterns[0].Title)
	assert.Equal(t, []model.Phase{
		{Key: "inhale", Label: "inhale", Seconds: 4},
		{Key: "exhale", Label: "exhale", Seconds: 8},
	}, patterns[0].Phases)
}

func TestLoadPatternsRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("patterns:\n  - name: zero\n    phases:\n      - {key: hold, seconds: 0}\n"), 0o644))
	_, err := LoadPatterns(invalid)
	assert.ErrorIs(t, err, model.ErrInvalidDuration)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("patterns:\n  - name: nothing\n"), 0o644))
	_, err = LoadPatterns(empty)
	assert.ErrorIs(t, err, model.ErrEmptyPattern)

	duplicate := filepath.Join(dir, "duplicate.yaml")
	require.NoError(t, os.WriteFile(duplicate, []byte(`patterns:
  - name: calm
    phases:
      - {key: inhale, seconds: 3}
  - name: calm
    phases:
      - {key: inhale, seconds: 5}
`), 0o644))
	_, err = LoadPatterns(duplicate)
	assert.ErrorIs(t, err, ErrDuplicatePattern)
	assert.ErrorContains(t, err, `"calm"`)

	unknown := filepath.Join(dir, "patterns.json")
	require.NoError(t, os.WriteFile(unknown, []byte("{}"), 0o644))
	_, err = LoadPatterns(unknown)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
