package animation

import "time"

// DefaultConfig returns timings tuned for a 60Hz display.
func DefaultConfig() Config {
	return Config{
		FrameInterval: 16 * time.Millisecond,
		PulseOn:       140 * time.Millisecond,
		PulseOff:      90 * time.Millisecond,
		CyclePulses:   2,
		ResetDuration: 450 * time.Millisecond,
	}
}
