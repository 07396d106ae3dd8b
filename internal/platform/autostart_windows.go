//go:build windows

package platform

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

const registryRunKey = `HKCU\Software\Microsoft\Windows\CurrentVersion\Run`

func (service *platformService) EnableAutostart(appName, execPath string) error {
	if execPath == "" {
		return fmt.Errorf("enable autostart: exec path is empty")
	}
	command := `"` + strings.Trim(execPath, `"`) + `"`
	if err := runKey("add", appName, "/t", "REG_SZ", "/d", command, "/f"); err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	return nil
}

func (service *platformService) DisableAutostart(appName string) error {
	if err := runKey("delete", appName, "/f"); err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	return nil
}

func (service *platformService) AutostartEnabled(appName string) (bool, error) {
	err := runKey("query", appName)
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return true, nil
	case errors.As(err, &exitErr):
		return false, nil
	default:
		return false, fmt.Errorf("check autostart: %w", err)
	}
}

// runKey runs reg against the value named appName under the Run key.
func runKey(verb, appName string, args ...string) error {
	if autostartSlug(appName) == "" {
		return errEmptyAppName
	}
	args = append([]string{verb, registryRunKey, "/v", appName}, args...)
	output, err := exec.Command("reg", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("reg %s: %w: %s", verb, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "AppData", "Roaming")
}
