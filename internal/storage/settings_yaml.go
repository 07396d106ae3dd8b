package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"breathe/internal/core/phasetimer"
	"breathe/internal/ui/preferences"
	"breathe/internal/ui/theme"

	"gopkg.in/yaml.v3"
)

const (
	settingsFileName = "settings.yaml"
	statsFileName    = "stats.db"
	logFileName      = "breathe.log"
)

type yamlSettings struct {
	Pattern          string       `yaml:"pattern"`
	ProgressStyle    string       `yaml:"progress_style"`
	HapticsEnabled   *bool        `yaml:"haptics_enabled"`
	AnalyticsEnabled *bool        `yaml:"analytics_enabled"`
	Autostart        bool         `yaml:"autostart"`
	Theme            theme.Params `yaml:"theme"`
}

// LoadSettings reads user preferences from the application config directory.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return preferences.DefaultSettings(), err
	}
	return LoadSettingsFile(configPath)
}

// LoadSettingsFile reads user preferences from configPath.
func LoadSettingsFile(configPath string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to the application config directory.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := SettingsPath(appName)
	if err != nil {
		return err
	}
	return SaveSettingsFile(configPath, settings)
}

// SaveSettingsFile writes user preferences to configPath.
func SaveSettingsFile(configPath string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	haptics := settings.HapticsEnabled
	analytics := settings.AnalyticsEnabled
	fileData := yamlSettings{
		Pattern:          settings.PatternName,
		ProgressStyle:    string(settings.ProgressStyle),
		HapticsEnabled:   &haptics,
		AnalyticsEnabled: &analytics,
		Autostart:        settings.Autostart,
		Theme:            settings.Theme,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

// SettingsPath returns the settings file location for appName.
func SettingsPath(appName string) (string, error) {
	return resolveConfigPath(appName, settingsFileName)
}

// StatsPath returns the analytics database location for appName.
func StatsPath(appName string) (string, error) {
	return resolveConfigPath(appName, statsFileName)
}

// LogPath returns the log file used when stderr is owned by the terminal UI.
func LogPath(appName string) (string, error) {
	return resolveConfigPath(appName, logFileName)
}

func resolveConfigPath(appName, fileName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, fileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.Pattern != "" {
		settings.PatternName = fileData.Pattern
	}
	if fileData.ProgressStyle != "" {
		settings.ProgressStyle = phasetimer.ParseProgressStyle(fileData.ProgressStyle)
	}
	if fileData.HapticsEnabled != nil {
		settings.HapticsEnabled = *fileData.HapticsEnabled
	}
	if fileData.AnalyticsEnabled != nil {
		settings.AnalyticsEnabled = *fileData.AnalyticsEnabled
	}

	settings.Autostart = fileData.Autostart
	settings.Theme = fileData.Theme
}
