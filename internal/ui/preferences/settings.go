package preferences

import (
	"breathe/internal/core/model"
	"breathe/internal/core/phasetimer"
	"breathe/internal/ui/theme"
)

// Settings defines editable user preferences.
type Settings struct {
	PatternName      string
	ProgressStyle    phasetimer.ProgressStyle
	HapticsEnabled   bool
	AnalyticsEnabled bool
	Autostart        bool

	Theme theme.Params
}

// DefaultSettings returns default settings for Breathe.
func DefaultSettings() Settings {
	return Settings{
		PatternName:      model.DefaultPatternName,
		ProgressStyle:    phasetimer.ProgressPerPhase,
		HapticsEnabled:   true,
		AnalyticsEnabled: true,
	}
}

// Pattern resolves the configured pattern against the catalog and custom
// patterns, falling back to the default pattern.
func (settings Settings) Pattern(custom []model.Pattern) model.Pattern {
	if pattern, ok := model.LookupPattern(settings.PatternName, custom...); ok {
		return pattern
	}
	return model.DefaultPattern()
}
