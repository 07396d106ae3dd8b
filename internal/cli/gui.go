package cli

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"breathe/internal/core/model"
	"breathe/internal/core/phasetimer"
	"breathe/internal/platform"
	"breathe/internal/ui/animation"
	"breathe/internal/ui/breathing"
	"breathe/internal/ui/preferences"
	"breathe/internal/ui/theme"
	"breathe/internal/ui/tray"
	"breathe/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"go.uber.org/zap"
)

func runGUI(ctx context.Context, opts *options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			if activateErr := platform.ActivateRunning(appName); activateErr != nil {
				return fmt.Errorf("activate running instance: %w", activateErr)
			}
			return nil
		}
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	env, err := loadEnvironment(opts, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = env.logger.Sync()
	}()

	host := newDesktopHost(env, platform.NewHaptics())
	return host.run(ctx, guard)
}

// breathingScreen is the part of the breathing window driven by the host.
type breathingScreen interface {
	Window() fyne.Window
	Show()
	Hide()
	SetPattern(name string)
	SetPatterns(patterns []model.Pattern)
	Render(snapshot phasetimer.Snapshot)
	SetProgress(progress phasetimer.Progress)
	Pulse(kind animation.PulseKind)
	CycleCompleted()
	UpdateConfig(config breathing.Config)
}

var _ breathingScreen = (*breathing.Window)(nil)

// desktopHost wires the engine to the Fyne window, tray, haptics and
// analytics. UI fields are only touched on the Fyne main goroutine.
type desktopHost struct {
	env     *environment
	logger  *zap.Logger
	app     fyne.App
	desktop desktop.App

	engine  *phasetimer.Engine
	screen  breathingScreen
	prefs   *preferences.Window
	tray    *tray.Manager
	haptics platform.Haptics

	hapticsEnabled atomic.Bool
	stopRecorder   func()

	activeIcon fyne.Resource
	pausedIcon fyne.Resource
}

func newDesktopHost(env *environment, haptics platform.Haptics) *desktopHost {
	return &desktopHost{
		env:          env,
		logger:       env.logger,
		haptics:      haptics,
		stopRecorder: func() {},
		activeIcon:   resources.MustLogo(resources.LogoActive),
		pausedIcon:   resources.MustLogo(resources.LogoPaused),
	}
}

func (host *desktopHost) run(ctx context.Context, guard *platform.InstanceGuard) error {
	settings := host.env.settings
	host.hapticsEnabled.Store(settings.HapticsEnabled)

	host.app = app.NewWithID(appID)
	host.app.SetIcon(host.activeIcon)
	host.app.Settings().SetTheme(theme.New(settings.Theme))

	patterns := host.env.book.All()
	host.screen = breathing.New(host.app, host.windowConfig(settings), patterns, breathing.Callbacks{
		OnTogglePause:   host.togglePause,
		OnRestart:       host.restart,
		OnSelectPattern: host.selectPattern,
	})

	engine, err := host.env.newEngine(host.screen.SetProgress)
	if err != nil {
		return err
	}
	host.engine = engine
	defer engine.Close()

	host.prefs = preferences.New(host.app, settings, patterns, host.applySettings)

	if desktopApp, ok := host.app.(desktop.App); ok {
		host.desktop = desktopApp
		host.tray = tray.New(desktopApp, patterns, engine.Pattern().Name, tray.Callbacks{
			OnShow:          host.screen.Show,
			OnPreferences:   host.prefs.Show,
			OnTogglePause:   host.togglePause,
			OnRestart:       host.restart,
			OnSelectPattern: host.selectPattern,
			OnQuit:          host.app.Quit,
		})
		desktopApp.SetSystemTrayIcon(host.activeIcon)
		host.screen.Window().SetCloseIntercept(host.screen.Hide)
	} else {
		host.logger.Info("system tray unsupported on this platform")
	}

	host.screen.SetPattern(engine.Pattern().Name)
	if err := platform.SyncAutostart(platform.NewService(), appName, settings.Autostart); err != nil {
		host.logger.Warn("sync autostart", zap.Error(err))
	}

	host.stopRecorder = host.env.startRecorder(ctx, engine)
	defer func() { host.stopRecorder() }()

	stopWatcher := host.env.startWatcher(ctx, func(patterns []model.Pattern) {
		fyne.Do(func() { host.reloadPatterns(patterns) })
	})
	defer stopWatcher()

	events := engine.Subscribe(16)
	go host.dispatch(events)

	guard.Serve(func() {
		fyne.Do(host.screen.Show)
	})
	go func() {
		<-ctx.Done()
		fyne.Do(host.app.Quit)
	}()

	engine.Start()
	host.screen.Show()
	host.app.Run()
	return nil
}

func (host *desktopHost) windowConfig(settings preferences.Settings) breathing.Config {
	return breathing.Config{
		Style:   settings.ProgressStyle,
		Palette: theme.Resolve(settings.Theme),
	}
}

// dispatch forwards engine events to the UI until the engine closes.
func (host *desktopHost) dispatch(events <-chan phasetimer.Event) {
	for event := range events {
		host.screen.Render(event.Snapshot)
		host.updateTray(event)

		switch event.Type {
		case phasetimer.EventPhaseAdvance:
			host.screen.Pulse(animation.PulseSoft)
			host.pulse(platform.PulseSoft)
		case phasetimer.EventCycleComplete:
			host.screen.CycleCompleted()
			host.screen.Pulse(animation.PulseCycle)
			host.pulse(platform.PulseCycle)
		}
	}
}

func (host *desktopHost) updateTray(event phasetimer.Event) {
	if host.tray == nil {
		return
	}
	snapshot := event.Snapshot
	fyne.Do(func() {
		host.tray.Render(snapshot)
		switch event.Type {
		case phasetimer.EventPaused:
			host.desktop.SetSystemTrayIcon(host.pausedIcon)
		case phasetimer.EventResumed, phasetimer.EventRestarted:
			host.desktop.SetSystemTrayIcon(host.activeIcon)
		}
	})
}

func (host *desktopHost) pulse(kind platform.PulseKind) {
	if !host.hapticsEnabled.Load() {
		return
	}
	go func() {
		err := host.haptics.Pulse(kind)
		if errors.Is(err, platform.ErrHapticsUnsupported) {
			host.logger.Debug("haptics unsupported, disabling")
			host.hapticsEnabled.Store(false)
			return
		}
		if err != nil {
			host.logger.Debug("haptic pulse", zap.Error(err))
		}
	}()
}

func (host *desktopHost) togglePause() {
	host.engine.TogglePause()
}

func (host *desktopHost) restart() {
	host.engine.Restart()
}

func (host *desktopHost) selectPattern(name string) {
	pattern, ok := host.env.book.Lookup(name)
	if !ok {
		host.logger.Warn("select unknown pattern", zap.String("pattern", name))
		return
	}
	if err := host.engine.SwitchPattern(pattern); err != nil {
		host.logger.Warn("switch pattern", zap.String("pattern", name), zap.Error(err))
		return
	}

	host.screen.SetPattern(name)
	if host.tray != nil {
		host.tray.SetPattern(name)
	}
	if host.env.settings.PatternName != name {
		host.env.settings.PatternName = name
		host.prefs.UpdateSettings(host.env.settings)
		host.env.saveSettings()
	}
}

func (host *desktopHost) applySettings(updated preferences.Settings) {
	previous := host.env.settings
	host.env.settings = updated
	host.env.saveSettings()

	host.hapticsEnabled.Store(updated.HapticsEnabled)
	host.app.Settings().SetTheme(theme.New(updated.Theme))
	host.screen.UpdateConfig(host.windowConfig(updated))

	if updated.Autostart != previous.Autostart {
		if err := platform.SyncAutostart(platform.NewService(), appName, updated.Autostart); err != nil {
			host.logger.Warn("sync autostart", zap.Error(err))
		}
	}
	if updated.AnalyticsEnabled != previous.AnalyticsEnabled {
		host.stopRecorder()
		host.stopRecorder = host.env.startRecorder(context.Background(), host.engine)
	}
	if updated.PatternName != previous.PatternName {
		host.selectPattern(updated.PatternName)
	}
}

// reloadPatterns refreshes pattern lists and re-applies the active pattern,
// which restarts the engine only when its definition changed.
func (host *desktopHost) reloadPatterns(custom []model.Pattern) {
	patterns := model.MergePatterns(custom)
	host.screen.SetPatterns(patterns)
	if host.tray != nil {
		host.tray.SetPatterns(patterns)
	}

	name := host.engine.Pattern().Name
	if _, ok := host.env.book.Lookup(name); !ok {
		name = model.DefaultPatternName
	}
	host.selectPattern(name)
}
