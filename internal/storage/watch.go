package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"breathe/internal/core/model"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultWatchDebounce batches the burst of events editors emit on save.
const DefaultWatchDebounce = 250 * time.Millisecond

// PatternWatcher reloads a pattern file whenever it changes on disk.
type PatternWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	onChange func([]model.Pattern)
	logger   *zap.Logger

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

// WatchPatterns starts watching path. onChange receives every successfully
// reloaded pattern list; files that fail to parse are logged and skipped.
func WatchPatterns(ctx context.Context, path string, logger *zap.Logger, onChange func([]model.Pattern)) (*PatternWatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve pattern file path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create pattern watcher: %w", err)
	}
	// The directory is watched so that editors replacing the file by rename
	// keep producing events.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch pattern directory: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	patternWatcher := &PatternWatcher{
		watcher:  watcher,
		path:     absPath,
		debounce: DefaultWatchDebounce,
		onChange: onChange,
		logger:   logger.With(zap.String("patterns_file", absPath)),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go patternWatcher.run(runCtx)
	return patternWatcher, nil
}

// Close stops watching and waits for the event loop to exit.
func (patternWatcher *PatternWatcher) Close() error {
	var err error
	patternWatcher.closeOnce.Do(func() {
		patternWatcher.cancel()
		<-patternWatcher.done
		err = patternWatcher.watcher.Close()
	})
	return err
}

func (patternWatcher *PatternWatcher) run(ctx context.Context) {
	defer close(patternWatcher.done)

	reload := time.NewTimer(patternWatcher.debounce)
	if !reload.Stop() {
		<-reload.C
	}
	defer reload.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-patternWatcher.watcher.Events:
			if !ok {
				return
			}
			if !patternWatcher.relevant(event) {
				continue
			}
			patternWatcher.logger.Debug("pattern file changed", zap.Stringer("op", event.Op))
			reload.Reset(patternWatcher.debounce)
		case err, ok := <-patternWatcher.watcher.Errors:
			if !ok {
				return
			}
			patternWatcher.logger.Warn("pattern watcher error", zap.Error(err))
		case <-reload.C:
			patterns, err := LoadPatterns(patternWatcher.path)
			if err != nil {
				patternWatcher.logger.Warn("reload patterns", zap.Error(err))
				continue
			}
			patternWatcher.logger.Info("patterns reloaded", zap.Int("count", len(patterns)))
			if patternWatcher.onChange != nil {
				patternWatcher.onChange(patterns)
			}
		}
	}
}

func (patternWatcher *PatternWatcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != patternWatcher.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}
