package tray

import (
	"fmt"

	"breathe/internal/core/model"
	"breathe/internal/core/phasetimer"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

const menuTitle = "Breathe"

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow          func()
	OnPreferences   func()
	OnTogglePause   func()
	OnRestart       func()
	OnSelectPattern func(name string)
	OnQuit          func()
}

// Manager handles system tray state.
type Manager struct {
	app         desktop.App
	statusItem  *fyne.MenuItem
	pauseItem   *fyne.MenuItem
	restartItem *fyne.MenuItem
	patternItem *fyne.MenuItem
	callbacks   Callbacks
	patterns    []model.Pattern
	selected    string
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, patterns []model.Pattern, selected string, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		patterns:  patterns,
		selected:  selected,
	}

	manager.statusItem = fyne.NewMenuItem(StatusText(phasetimer.Snapshot{Mode: phasetimer.ModeCountdown, CountdownRemaining: phasetimer.CountdownSeconds}), nil)
	manager.statusItem.Disabled = true

	manager.pauseItem = fyne.NewMenuItem("Пауза", func() {
		if manager.callbacks.OnTogglePause != nil {
			manager.callbacks.OnTogglePause()
		}
	})
	manager.pauseItem.Disabled = true

	manager.restartItem = fyne.NewMenuItem("Начать заново", func() {
		if manager.callbacks.OnRestart != nil {
			manager.callbacks.OnRestart()
		}
	})

	manager.patternItem = fyne.NewMenuItem("Техника", nil)
	manager.patternItem.ChildMenu = manager.patternMenu()

	manager.refreshMenu()
	return manager
}

// Render updates status and pause items from a snapshot.
func (manager *Manager) Render(snapshot phasetimer.Snapshot) {
	manager.statusItem.Label = StatusText(snapshot)
	manager.pauseItem.Disabled = snapshot.Mode != phasetimer.ModeBreathing
	if snapshot.Paused {
		manager.pauseItem.Label = "Продолжить"
	} else {
		manager.pauseItem.Label = "Пауза"
	}
	manager.refreshMenu()
}

// SetPattern marks name as the active pattern.
func (manager *Manager) SetPattern(name string) {
	if manager.selected == name {
		return
	}
	manager.selected = name
	manager.patternItem.ChildMenu = manager.patternMenu()
	manager.refreshMenu()
}

// SetPatterns replaces the pattern submenu entries.
func (manager *Manager) SetPatterns(patterns []model.Pattern) {
	manager.patterns = patterns
	manager.patternItem.ChildMenu = manager.patternMenu()
	manager.refreshMenu()
}

// StatusText renders the tray status line for a snapshot.
func StatusText(snapshot phasetimer.Snapshot) string {
	if snapshot.Mode == phasetimer.ModeCountdown {
		return fmt.Sprintf("Старт через %d", snapshot.CountdownRemaining)
	}
	status := fmt.Sprintf("%s: %d", snapshot.PhaseLabel, snapshot.SecondsRemaining)
	if snapshot.Paused {
		status = fmt.Sprintf("%s (пауза)", status)
	}
	return status
}

func (manager *Manager) patternMenu() *fyne.Menu {
	items := make([]*fyne.MenuItem, 0, len(manager.patterns))
	for _, pattern := range manager.patterns {
		name := pattern.Name
		item := fyne.NewMenuItem(pattern.Title, func() {
			if manager.callbacks.OnSelectPattern != nil {
				manager.callbacks.OnSelectPattern(name)
			}
		})
		item.Checked = name == manager.selected
		items = append(items, item)
	}
	return fyne.NewMenu("", items...)
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu(menuTitle,
		manager.statusItem,
		fyne.NewMenuItem("Открыть", func() {
			if manager.callbacks.OnShow != nil {
				manager.callbacks.OnShow()
			}
		}),
		fyne.NewMenuItemSeparator(),
		manager.pauseItem,
		manager.restartItem,
		manager.patternItem,
		fyne.NewMenuItem("Настройки", func() {
			if manager.callbacks.OnPreferences != nil {
				manager.callbacks.OnPreferences()
			}
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Выход", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	))
}
