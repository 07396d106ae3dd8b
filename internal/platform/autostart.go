package platform

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

var errEmptyAppName = errors.New("app name is empty")

// Service defines OS-specific helpers needed by the application.
type Service interface {
	GetConfigDir() (string, error)
	EnableAutostart(appName, execPath string) error
	DisableAutostart(appName string) error
	AutostartEnabled(appName string) (bool, error)
}

type platformService struct{}

// NewService returns a platform-specific implementation.
func NewService() Service {
	return &platformService{}
}

// GetConfigDir returns the OS-standard configuration directory.
func (service *platformService) GetConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err == nil && configDir != "" {
		return configDir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}

	return fallbackConfigDir(homeDir), nil
}

// SyncAutostart enables or disables login start so it matches enabled.
// It does nothing when the current registration already matches.
func SyncAutostart(service Service, appName string, enabled bool) error {
	current, err := service.AutostartEnabled(appName)
	if err != nil {
		return err
	}
	if current == enabled {
		return nil
	}
	if !enabled {
		return service.DisableAutostart(appName)
	}

	execPath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	return service.EnableAutostart(appName, execPath)
}

// autostartSlug turns appName into a lowercase identifier usable in file
// names and launchd labels.
func autostartSlug(appName string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(appName)), " ", "-")
}
