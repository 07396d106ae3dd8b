package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"breathe/internal/analytics"
	"breathe/internal/core/model"
	"breathe/internal/core/phasetimer"
	"breathe/internal/logging"
	"breathe/internal/storage"
	"breathe/internal/ui/preferences"

	"go.uber.org/zap"
)

var (
	errUnknownPattern = errors.New("unknown pattern")
	errInvalidStyle   = errors.New("invalid progress style")
)

// environment is the state shared by every host: logger, settings and the
// pattern catalog.
type environment struct {
	logger   *zap.Logger
	settings preferences.Settings
	book     *patternBook
	opts     *options
}

func loadEnvironment(opts *options, logOutput []string) (*environment, error) {
	logger, err := logging.New(logging.Options{Debug: opts.debug, OutputPaths: logOutput})
	if err != nil {
		return nil, err
	}

	settings, err := storage.LoadSettings(appName)
	if err != nil {
		logger.Warn("load settings, using defaults", zap.Error(err))
	}

	var custom []model.Pattern
	if opts.patternsFile != "" {
		custom, err = storage.LoadPatterns(opts.patternsFile)
		if err != nil {
			return nil, err
		}
		logger.Debug("custom patterns loaded", zap.String("path", opts.patternsFile), zap.Int("count", len(custom)))
	}
	book := newPatternBook(custom)

	if opts.patternName != "" {
		if _, ok := book.Lookup(opts.patternName); !ok {
			return nil, fmt.Errorf("%w: %s", errUnknownPattern, opts.patternName)
		}
		settings.PatternName = opts.patternName
	}
	if opts.style != "" {
		style := phasetimer.ProgressStyle(opts.style)
		if style != phasetimer.ProgressPerPhase && style != phasetimer.ProgressCumulative {
			return nil, fmt.Errorf("%w: %q", errInvalidStyle, opts.style)
		}
		settings.ProgressStyle = style
	}
	if opts.noAnalytics {
		settings.AnalyticsEnabled = false
	}

	return &environment{
		logger:   logger,
		settings: settings,
		book:     book,
		opts:     opts,
	}, nil
}

// pattern resolves the configured pattern, falling back to the default.
func (env *environment) pattern() model.Pattern {
	if pattern, ok := env.book.Lookup(env.settings.PatternName); ok {
		return pattern
	}
	return model.DefaultPattern()
}

func (env *environment) newEngine(onFrame func(phasetimer.Progress)) (*phasetimer.Engine, error) {
	return phasetimer.New(env.pattern(), phasetimer.Options{
		Scheduler: phasetimer.NewScheduler(phasetimer.DefaultFrameInterval),
		OnFrame:   onFrame,
		Logger:    env.logger.Named("phasetimer"),
	})
}

// startRecorder records sessions from engine until the returned stop func is
// called. Failures disable recording instead of failing the host.
func (env *environment) startRecorder(ctx context.Context, engine *phasetimer.Engine) (stop func()) {
	if !env.settings.AnalyticsEnabled {
		return func() {}
	}

	store, err := openStatsStore("")
	if err != nil {
		env.logger.Warn("analytics disabled", zap.Error(err))
		return func() {}
	}

	runCtx, cancel := context.WithCancel(ctx)
	recorder := analytics.NewRecorder(store, env.logger.Named("analytics"))
	events := engine.Subscribe(64)
	done := make(chan struct{})
	go func() {
		defer close(done)
		recorder.Run(runCtx, events)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
			engine.Unsubscribe(events)
			if err := store.Close(); err != nil {
				env.logger.Warn("close analytics store", zap.Error(err))
			}
		})
	}
}

// startWatcher reloads the custom pattern file when --watch is set.
func (env *environment) startWatcher(ctx context.Context, onChange func([]model.Pattern)) (stop func()) {
	if !env.opts.watch || env.opts.patternsFile == "" {
		return func() {}
	}

	watcher, err := storage.WatchPatterns(ctx, env.opts.patternsFile, env.logger.Named("patterns"), func(patterns []model.Pattern) {
		env.book.Replace(patterns)
		onChange(patterns)
	})
	if err != nil {
		env.logger.Warn("pattern watcher disabled", zap.Error(err))
		return func() {}
	}
	return func() {
		if err := watcher.Close(); err != nil {
			env.logger.Warn("close pattern watcher", zap.Error(err))
		}
	}
}

func (env *environment) saveSettings() {
	if err := storage.SaveSettings(appName, env.settings); err != nil {
		env.logger.Warn("save settings", zap.Error(err))
	}
}

func openStatsStore(path string) (*analytics.Store, error) {
	if path == "" {
		resolved, err := storage.StatsPath(appName)
		if err != nil {
			return nil, err
		}
		path = resolved
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create stats directory: %w", err)
	}
	return analytics.Open(path)
}

// patternBook is the catalog plus custom patterns, replaceable at runtime.
type patternBook struct {
	mu     sync.RWMutex
	custom []model.Pattern
}

func newPatternBook(custom []model.Pattern) *patternBook {
	return &patternBook{custom: custom}
}

func (book *patternBook) Lookup(name string) (model.Pattern, bool) {
	book.mu.RLock()
	defer book.mu.RUnlock()
	return model.LookupPattern(name, book.custom...)
}

func (book *patternBook) All() []model.Pattern {
	book.mu.RLock()
	defer book.mu.RUnlock()
	return model.MergePatterns(book.custom)
}

func (book *patternBook) Replace(custom []model.Pattern) {
	book.mu.Lock()
	book.custom = custom
	book.mu.Unlock()
}
