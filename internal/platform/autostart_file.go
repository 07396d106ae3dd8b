//go:build !windows

package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// loginFile is a login item registered by the presence of a single file.
type loginFile struct {
	path string
}

func (item loginFile) write(content string) error {
	if err := os.MkdirAll(filepath.Dir(item.path), 0o755); err != nil {
		return fmt.Errorf("create login item dir: %w", err)
	}
	if err := os.WriteFile(item.path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write login item: %w", err)
	}
	return nil
}

func (item loginFile) remove() error {
	if err := os.Remove(item.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove login item: %w", err)
	}
	return nil
}

func (item loginFile) exists() (bool, error) {
	_, err := os.Stat(item.path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat login item: %w", err)
	}
}

func enableLoginFile(item loginFile, err error, execPath string, render func(execPath string) string) error {
	if err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	if execPath == "" {
		return fmt.Errorf("enable autostart: exec path is empty")
	}
	if err := item.write(render(execPath)); err != nil {
		return fmt.Errorf("enable autostart: %w", err)
	}
	return nil
}

func disableLoginFile(item loginFile, err error) error {
	if err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	if err := item.remove(); err != nil {
		return fmt.Errorf("disable autostart: %w", err)
	}
	return nil
}

func loginFileEnabled(item loginFile, err error) (bool, error) {
	if err != nil {
		return false, fmt.Errorf("check autostart: %w", err)
	}
	enabled, err := item.exists()
	if err != nil {
		return false, fmt.Errorf("check autostart: %w", err)
	}
	return enabled, nil
}
