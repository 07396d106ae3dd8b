package platform

import (
	"fmt"
	"os/exec"
)

type canberraHaptics struct {
	playerPath string
}

func newHaptics() Haptics {
	path, err := exec.LookPath("canberra-gtk-play")
	if err != nil {
		return unsupportedHaptics{}
	}
	return &canberraHaptics{playerPath: path}
}

func (haptics *canberraHaptics) Pulse(kind PulseKind) error {
	eventID := "message"
	if kind == PulseCycle {
		eventID = "complete"
	}
	if err := exec.Command(haptics.playerPath, "--id", eventID).Run(); err != nil {
		return fmt.Errorf("canberra-gtk-play: %w", err)
	}
	return nil
}
