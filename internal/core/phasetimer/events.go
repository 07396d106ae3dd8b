package phasetimer

import "time"

// Mode represents the current engine mode.
type Mode string

const (
	ModeCountdown Mode = "countdown"
	ModeBreathing Mode = "breathing"
)

// EventType defines the type of engine event.
type EventType string

const (
	EventTick             EventType = "tick"
	EventBreathingStarted EventType = "breathing_started"
	EventPhaseAdvance     EventType = "phase_advance"
	EventCycleComplete    EventType = "cycle_complete"
	EventPaused           EventType = "paused"
	EventResumed          EventType = "resumed"
	EventRestarted        EventType = "restarted"
)

// Snapshot is a read-only view of the display-relevant state.
type Snapshot struct {
	Mode               Mode
	PatternName        string
	PhaseKey           string
	PhaseLabel         string
	PhaseIndex         int
	PhaseCount         int
	SecondsRemaining   int
	CountdownRemaining int
	Paused             bool
}

// Event represents an engine update for observers.
type Event struct {
	Type     EventType
	Snapshot Snapshot
	// PhaseKey is the key of the phase just entered, set for phase_advance.
	PhaseKey string
	At       time.Time
}

// ProgressStyle selects how progress is presented.
type ProgressStyle string

const (
	ProgressPerPhase   ProgressStyle = "per_phase"
	ProgressCumulative ProgressStyle = "cumulative"
)

// ParseProgressStyle returns the style for value, falling back to per-phase.
func ParseProgressStyle(value string) ProgressStyle {
	if ProgressStyle(value) == ProgressCumulative {
		return ProgressCumulative
	}
	return ProgressPerPhase
}

// Progress holds both fraction views of the same instant.
type Progress struct {
	PerPhase   float64
	Cumulative float64
	PhaseIndex int
	Paused     bool
}

// For returns the fraction matching style.
func (progress Progress) For(style ProgressStyle) float64 {
	if style == ProgressCumulative {
		return progress.Cumulative
	}
	return progress.PerPhase
}
