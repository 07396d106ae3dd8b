package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEmptyPattern indicates a pattern without phases.
	ErrEmptyPattern = errors.New("pattern has no phases")
	// ErrInvalidDuration indicates a phase with a non-positive duration.
	ErrInvalidDuration = errors.New("phase duration must be positive")
)

// Phase is one labeled segment of a breathing pattern.
type Phase struct {
	Key     string `yaml:"key" toml:"key"`
	Label   string `yaml:"label" toml:"label"`
	Seconds int    `yaml:"seconds" toml:"seconds"`
}

// Duration returns the phase length.
func (phase Phase) Duration() time.Duration {
	return time.Duration(phase.Seconds) * time.Second
}

// Pattern is a named, ordered sequence of phases repeated indefinitely.
type Pattern struct {
	Name   string  `yaml:"name" toml:"name"`
	Title  string  `yaml:"title" toml:"title"`
	Phases []Phase `yaml:"phases" toml:"phases"`
}

// Validate reports whether the pattern can drive a timer.
func (pattern Pattern) Validate() error {
	if len(pattern.Phases) == 0 {
		return fmt.Errorf("pattern %q: %w", pattern.Name, ErrEmptyPattern)
	}
	for index, phase := range pattern.Phases {
		if phase.Seconds <= 0 {
			return fmt.Errorf("pattern %q phase %d (%s): %w", pattern.Name, index, phase.Key, ErrInvalidDuration)
		}
	}
	return nil
}

// CycleSeconds returns the length of one full traversal of the pattern.
func (pattern Pattern) CycleSeconds() int {
	total := 0
	for _, phase := range pattern.Phases {
		total += phase.Seconds
	}
	return total
}

// Equal reports whether both patterns have the same name, title and phases.
func (pattern Pattern) Equal(other Pattern) bool {
	if pattern.Name != other.Name || pattern.Title != other.Title || len(pattern.Phases) != len(other.Phases) {
		return false
	}
	for index := range pattern.Phases {
		if pattern.Phases[index] != other.Phases[index] {
			return false
		}
	}
	return true
}

// Clone returns a copy that does not share the phase slice.
func (pattern Pattern) Clone() Pattern {
	clone := pattern
	clone.Phases = append([]Phase(nil), pattern.Phases...)
	return clone
}
