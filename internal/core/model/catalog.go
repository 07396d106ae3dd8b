package model

const (
	labelInhale = "Вдох"
	labelHold   = "Задержка"
	labelExhale = "Выдох"
)

// DefaultPatternName is the pattern used when none is configured.
const DefaultPatternName = "square"

// Patterns returns the built-in pattern catalog in display order.
func Patterns() []Pattern {
	return []Pattern{
		{
			Name:  "square",
			Title: "Квадрат 4-4-4-4",
			Phases: []Phase{
				{Key: "inhale", Label: labelInhale, Seconds: 4},
				{Key: "hold1", Label: labelHold, Seconds: 4},
				{Key: "exhale", Label: labelExhale, Seconds: 4},
				{Key: "hold2", Label: labelHold, Seconds: 4},
			},
		},
		{
			Name:  "4-7-8",
			Title: "4-7-8",
			Phases: []Phase{
				{Key: "inhale", Label: labelInhale, Seconds: 4},
				{Key: "hold", Label: labelHold, Seconds: 7},
				{Key: "exhale", Label: labelExhale, Seconds: 8},
			},
		},
		{
			Name:  "triangle",
			Title: "Треугольник 4-4-4",
			Phases: []Phase{
				{Key: "inhale", Label: labelInhale, Seconds: 4},
				{Key: "hold", Label: labelHold, Seconds: 4},
				{Key: "exhale", Label: labelExhale, Seconds: 4},
			},
		},
		{
			Name:  "coherent",
			Title: "Резонансное 5-5",
			Phases: []Phase{
				{Key: "inhale", Label: labelInhale, Seconds: 5},
				{Key: "exhale", Label: labelExhale, Seconds: 5},
			},
		},
	}
}

// DefaultPattern returns the square 4-4-4-4 pattern.
func DefaultPattern() Pattern {
	return Patterns()[0]
}

// LookupPattern finds a pattern by name in the catalog and any extra patterns.
// Extra patterns take precedence over built-ins with the same name.
func LookupPattern(name string, extra ...Pattern) (Pattern, bool) {
	for _, pattern := range extra {
		if pattern.Name == name {
			return pattern.Clone(), true
		}
	}
	for _, pattern := range Patterns() {
		if pattern.Name == name {
			return pattern, true
		}
	}
	return Pattern{}, false
}

// MergePatterns returns the catalog followed by extra patterns, with extras
// replacing built-ins that share a name.
func MergePatterns(extra []Pattern) []Pattern {
	replaced := make(map[string]Pattern, len(extra))
	for _, pattern := range extra {
		replaced[pattern.Name] = pattern
	}
	merged := make([]Pattern, 0, len(extra)+4)
	for _, pattern := range Patterns() {
		if custom, ok := replaced[pattern.Name]; ok {
			merged = append(merged, custom.Clone())
			delete(replaced, pattern.Name)
			continue
		}
		merged = append(merged, pattern)
	}
	for _, pattern := range extra {
		if _, ok := replaced[pattern.Name]; ok {
			merged = append(merged, pattern.Clone())
			delete(replaced, pattern.Name)
		}
	}
	return merged
}
