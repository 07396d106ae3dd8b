package platform

import (
	"fmt"
	"syscall"
)

const (
	mbOK           = 0x00000000
	mbIconAsterisk = 0x00000040
)

type beepHaptics struct {
	messageBeep *syscall.LazyProc
}

func newHaptics() Haptics {
	user32 := syscall.NewLazyDLL("user32.dll")
	proc := user32.NewProc("MessageBeep")
	if err := proc.Find(); err != nil {
		return unsupportedHaptics{}
	}
	return &beepHaptics{messageBeep: proc}
}

func (haptics *beepHaptics) Pulse(kind PulseKind) error {
	beepType := uintptr(mbOK)
	if kind == PulseCycle {
		beepType = mbIconAsterisk
	}
	result, _, err := haptics.messageBeep.Call(beepType)
	if result == 0 {
		return fmt.Errorf("message beep: %w", err)
	}
	return nil
}
