package platform

import (
	"fmt"
	"os/exec"
)

const systemSoundsDir = "/System/Library/Sounds/"

type afplayHaptics struct {
	playerPath string
}

func newHaptics() Haptics {
	path, err := exec.LookPath("afplay")
	if err != nil {
		return unsupportedHaptics{}
	}
	return &afplayHaptics{playerPath: path}
}

func (haptics *afplayHaptics) Pulse(kind PulseKind) error {
	sound := "Tink.aiff"
	if kind == PulseCycle {
		sound = "Glass.aiff"
	}
	if err := exec.Command(haptics.playerPath, "-v", "0.4", systemSoundsDir+sound).Run(); err != nil {
		return fmt.Errorf("afplay: %w", err)
	}
	return nil
}
