//go:build linux

package platform

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (service *platformService) EnableAutostart(appName, execPath string) error {
	item, err := service.desktopEntry(appName)
	return enableLoginFile(item, err, execPath, func(execPath string) string {
		return renderDesktopEntry(appName, execPath)
	})
}

func (service *platformService) DisableAutostart(appName string) error {
	return disableLoginFile(service.desktopEntry(appName))
}

func (service *platformService) AutostartEnabled(appName string) (bool, error) {
	return loginFileEnabled(service.desktopEntry(appName))
}

// desktopEntry locates the XDG autostart entry for appName.
func (service *platformService) desktopEntry(appName string) (loginFile, error) {
	if autostartSlug(appName) == "" {
		return loginFile{}, errEmptyAppName
	}
	configDir, err := service.GetConfigDir()
	if err != nil {
		return loginFile{}, err
	}
	return loginFile{path: filepath.Join(configDir, "autostart", autostartSlug(appName)+".desktop")}, nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config")
}

func renderDesktopEntry(appName, execPath string) string {
	if strings.ContainsRune(execPath, ' ') {
		execPath = `"` + strings.Trim(execPath, `"`) + `"`
	}
	return fmt.Sprintf("[Desktop Entry]\nType=Application\nName=%s\nExec=%s\nTerminal=false\n", appName, execPath)
}
