//go:build darwin

package platform

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
)

func (service *platformService) EnableAutostart(appName, execPath string) error {
	item, err := launchAgent(appName)
	return enableLoginFile(item, err, execPath, func(execPath string) string {
		return renderLaunchAgent(launchAgentLabel(appName), execPath)
	})
}

func (service *platformService) DisableAutostart(appName string) error {
	return disableLoginFile(launchAgent(appName))
}

func (service *platformService) AutostartEnabled(appName string) (bool, error) {
	return loginFileEnabled(launchAgent(appName))
}

// launchAgent locates the per-user launchd agent for appName.
func launchAgent(appName string) (loginFile, error) {
	if autostartSlug(appName) == "" {
		return loginFile{}, errEmptyAppName
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return loginFile{}, fmt.Errorf("get home dir: %w", err)
	}
	name := launchAgentLabel(appName) + ".plist"
	return loginFile{path: filepath.Join(homeDir, "Library", "LaunchAgents", name)}, nil
}

func fallbackConfigDir(homeDir string) string {
	return filepath.Join(homeDir, "Library", "Application Support")
}

func launchAgentLabel(appName string) string {
	return "com.breathe." + autostartSlug(appName)
}

func renderLaunchAgent(label, execPath string) string {
	escape := func(value string) string {
		var buf bytes.Buffer
		_ = xml.EscapeText(&buf, []byte(value))
		return buf.String()
	}
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>%s</string>
	<key>ProgramArguments</key>
	<array><string>%s</string></array>
	<key>RunAtLoad</key>
	<true/>
</dict>
</plist>
`, escape(label), escape(execPath))
}
