package breathing

import (
	"strconv"

	"breathe/internal/core/phasetimer"
)

// Sides is the number of square sides the progress is drawn on.
const Sides = 4

// Side identifies one edge of the square, in drawing order.
type Side int

const (
	SideLeft Side = iota
	SideTop
	SideRight
	SideBottom
)

// SideFills maps progress onto the four square sides. Each value is the
// filled fraction of that side in [0, 1].
//
// Per-phase style lights only the current phase's side. Cumulative style
// treats the square perimeter as the whole cycle.
func SideFills(style phasetimer.ProgressStyle, progress phasetimer.Progress) [Sides]float64 {
	var fills [Sides]float64
	if style == phasetimer.ProgressCumulative {
		total := progress.Cumulative * Sides
		for side := range fills {
			fills[side] = clampUnit(total - float64(side))
		}
		return fills
	}
	fills[progress.PhaseIndex%Sides] = clampUnit(progress.PerPhase)
	return fills
}

// PauseLabel returns the pause button caption.
func PauseLabel(paused bool) string {
	if paused {
		return "Продолжить"
	}
	return "Пауза"
}

// CountdownText renders the countdown digit.
func CountdownText(snapshot phasetimer.Snapshot) string {
	return strconv.Itoa(snapshot.CountdownRemaining)
}

// SecondsText renders the seconds left in the phase.
func SecondsText(snapshot phasetimer.Snapshot) string {
	return strconv.Itoa(snapshot.SecondsRemaining)
}

func clampUnit(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
