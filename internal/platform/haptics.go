package platform

import "errors"

// ErrHapticsUnsupported indicates no feedback device or player is available.
var ErrHapticsUnsupported = errors.New("haptic feedback unsupported")

// PulseKind selects the feedback strength.
type PulseKind string

const (
	// PulseSoft marks an ordinary phase change.
	PulseSoft PulseKind = "soft"
	// PulseCycle marks the end of a full cycle.
	PulseCycle PulseKind = "cycle"
)

// Haptics emits short feedback pulses. Desktops have no vibration motor, so
// implementations fall back to the system sound for the event.
type Haptics interface {
	Pulse(kind PulseKind) error
}

// NewHaptics returns a platform-specific feedback provider.
func NewHaptics() Haptics {
	return newHaptics()
}

type unsupportedHaptics struct{}

func (unsupportedHaptics) Pulse(PulseKind) error {
	return ErrHapticsUnsupported
}
