package phasetimer

import (
	"errors"
	"sync"
	"time"

	"breathe/internal/core/model"

	"go.uber.org/zap"
)

const (
	// CountdownSeconds is the preamble before the first phase.
	CountdownSeconds = 3
	// TickInterval is the coarse tick cadence.
	TickInterval = time.Second
)

// ErrClosed is returned by operations on an engine after Close.
var ErrClosed = errors.New("phase timer closed")

// Options contains runtime collaborators for the Engine.
type Options struct {
	Scheduler Scheduler
	// OnFrame receives progress on every frame while breathing. No frames
	// are requested when it is nil.
	OnFrame func(Progress)
	Logger  *zap.Logger
}

// Engine is the countdown-then-breathing state machine.
type Engine struct {
	mu        sync.Mutex
	pattern   model.Pattern
	scheduler Scheduler
	onFrame   func(Progress)
	logger    *zap.Logger

	mode               Mode
	countdownRemaining int
	phaseIndex         int
	secondsRemaining   int
	paused             bool
	phaseStartedAt     time.Time
	pausedAt           time.Time
	pausedTotal        time.Duration

	// generation invalidates callbacks scheduled before the last reset.
	generation  uint64
	cancelTick  CancelFunc
	cancelFrame CancelFunc
	events      []chan Event
	closed      bool
}

// New creates an Engine for pattern. A pattern without phases selects the
// default pattern; an invalid pattern is rejected.
func New(pattern model.Pattern, options Options) (*Engine, error) {
	if pattern.Name == "" && len(pattern.Phases) == 0 {
		pattern = model.DefaultPattern()
	}
	if err := pattern.Validate(); err != nil {
		return nil, err
	}
	if options.Scheduler == nil {
		options.Scheduler = NewScheduler(DefaultFrameInterval)
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}

	engine := &Engine{
		pattern:   pattern.Clone(),
		scheduler: options.Scheduler,
		onFrame:   options.OnFrame,
		logger:    options.Logger,
	}
	engine.resetLocked()
	return engine, nil
}

// Subscribe registers a new observer channel. Events are dropped when the
// channel buffer is full.
func (engine *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		close(ch)
		return ch
	}
	engine.events = append(engine.events, ch)
	return ch
}

// Unsubscribe removes and closes a channel returned by Subscribe. Unknown
// channels are ignored.
func (engine *Engine) Unsubscribe(events <-chan Event) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	for index, ch := range engine.events {
		if ch == events {
			engine.events = append(engine.events[:index], engine.events[index+1:]...)
			close(ch)
			return
		}
	}
}

// Pattern returns the active pattern.
func (engine *Engine) Pattern() model.Pattern {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.pattern.Clone()
}

// Start resets to the countdown and launches the coarse tick.
func (engine *Engine) Start() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return
	}
	engine.startLocked()
}

// Restart is equivalent to Start.
func (engine *Engine) Restart() {
	engine.Start()
}

// SwitchPattern replaces the active pattern and restarts from the countdown.
// Switching to the already active pattern is a no-op.
func (engine *Engine) SwitchPattern(pattern model.Pattern) error {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed {
		return ErrClosed
	}
	if pattern.Equal(engine.pattern) {
		return nil
	}
	if err := pattern.Validate(); err != nil {
		return err
	}

	engine.logger.Info("switching pattern",
		zap.String("from", engine.pattern.Name),
		zap.String("to", pattern.Name))
	engine.pattern = pattern.Clone()
	engine.startLocked()
	return nil
}

// Pause freezes the breathing cycle. It has no effect during the countdown.
func (engine *Engine) Pause() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed || engine.mode != ModeBreathing || engine.paused {
		return
	}
	now := engine.scheduler.Now()
	engine.paused = true
	engine.pausedAt = now
	engine.emitLocked(Event{Type: EventPaused, Snapshot: engine.snapshotLocked(), At: now})
}

// Resume continues a paused cycle.
func (engine *Engine) Resume() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed || !engine.paused {
		return
	}
	now := engine.scheduler.Now()
	if gap := now.Sub(engine.pausedAt); gap > 0 {
		engine.pausedTotal += gap
	}
	engine.paused = false
	engine.pausedAt = time.Time{}
	engine.emitLocked(Event{Type: EventResumed, Snapshot: engine.snapshotLocked(), At: now})
}

// TogglePause pauses a running cycle or resumes a paused one.
func (engine *Engine) TogglePause() {
	engine.mu.Lock()
	paused := engine.paused
	engine.mu.Unlock()
	if paused {
		engine.Resume()
		return
	}
	engine.Pause()
}

// Snapshot returns the current display state.
func (engine *Engine) Snapshot() Snapshot {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.snapshotLocked()
}

// PerPhaseFraction returns how far the current phase has progressed.
func (engine *Engine) PerPhaseFraction() float64 {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.perPhaseLocked(engine.scheduler.Now())
}

// CumulativeFraction returns how far the current cycle has progressed.
func (engine *Engine) CumulativeFraction() float64 {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.progressLocked(engine.scheduler.Now()).Cumulative
}

// Progress returns both fractions sampled at the same instant.
func (engine *Engine) Progress() Progress {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.progressLocked(engine.scheduler.Now())
}

// Close cancels all scheduled callbacks and closes observers.
func (engine *Engine) Close() {
	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		return
	}
	engine.closed = true
	engine.cancelLoopsLocked()
	events := engine.events
	engine.events = nil
	engine.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (engine *Engine) startLocked() {
	engine.cancelLoopsLocked()
	engine.resetLocked()

	now := engine.scheduler.Now()
	generation := engine.generation
	engine.cancelTick = engine.scheduler.Every(TickInterval, func() {
		engine.tick(generation)
	})

	engine.logger.Debug("countdown started", zap.String("pattern", engine.pattern.Name))
	engine.emitLocked(Event{Type: EventRestarted, Snapshot: engine.snapshotLocked(), At: now})
}

func (engine *Engine) resetLocked() {
	engine.mode = ModeCountdown
	engine.countdownRemaining = CountdownSeconds
	engine.phaseIndex = 0
	engine.secondsRemaining = 0
	engine.paused = false
	engine.phaseStartedAt = time.Time{}
	engine.pausedAt = time.Time{}
	engine.pausedTotal = 0
}

func (engine *Engine) cancelLoopsLocked() {
	engine.generation++
	if engine.cancelTick != nil {
		engine.cancelTick()
		engine.cancelTick = nil
	}
	if engine.cancelFrame != nil {
		engine.cancelFrame()
		engine.cancelFrame = nil
	}
}

func (engine *Engine) tick(generation uint64) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed || generation != engine.generation {
		return
	}

	now := engine.scheduler.Now()
	switch engine.mode {
	case ModeCountdown:
		engine.countdownRemaining--
		if engine.countdownRemaining <= 0 {
			engine.enterBreathingLocked(now)
		}
	case ModeBreathing:
		if !engine.paused {
			engine.secondsRemaining--
			if engine.secondsRemaining <= 0 {
				engine.advancePhaseLocked(now)
			}
		}
	}

	engine.emitLocked(Event{Type: EventTick, Snapshot: engine.snapshotLocked(), At: now})
}

func (engine *Engine) enterBreathingLocked(now time.Time) {
	engine.mode = ModeBreathing
	engine.countdownRemaining = 0
	engine.phaseIndex = 0
	engine.secondsRemaining = engine.pattern.Phases[0].Seconds
	engine.paused = false
	engine.pausedAt = time.Time{}
	engine.pausedTotal = 0
	engine.phaseStartedAt = now

	engine.logger.Debug("breathing started", zap.String("pattern", engine.pattern.Name))
	engine.emitLocked(Event{
		Type:     EventBreathingStarted,
		Snapshot: engine.snapshotLocked(),
		PhaseKey: engine.pattern.Phases[0].Key,
		At:       now,
	})
	if engine.onFrame != nil {
		engine.requestFrameLocked(engine.generation)
	}
}

func (engine *Engine) advancePhaseLocked(now time.Time) {
	count := len(engine.pattern.Phases)
	engine.phaseIndex = (engine.phaseIndex + 1) % count
	phase := engine.pattern.Phases[engine.phaseIndex]
	engine.secondsRemaining = phase.Seconds
	engine.phaseStartedAt = now
	engine.pausedTotal = 0

	snapshot := engine.snapshotLocked()
	engine.emitLocked(Event{Type: EventPhaseAdvance, Snapshot: snapshot, PhaseKey: phase.Key, At: now})
	if engine.phaseIndex == 0 {
		engine.emitLocked(Event{Type: EventCycleComplete, Snapshot: snapshot, At: now})
	}
}

func (engine *Engine) requestFrameLocked(generation uint64) {
	engine.cancelFrame = engine.scheduler.RequestFrame(func() {
		engine.frame(generation)
	})
}

func (engine *Engine) frame(generation uint64) {
	engine.mu.Lock()
	if engine.closed || generation != engine.generation || engine.mode != ModeBreathing {
		engine.mu.Unlock()
		return
	}
	progress := engine.progressLocked(engine.scheduler.Now())
	engine.requestFrameLocked(generation)
	onFrame := engine.onFrame
	engine.mu.Unlock()

	if onFrame != nil {
		onFrame(progress)
	}
}

func (engine *Engine) perPhaseLocked(now time.Time) float64 {
	if engine.mode != ModeBreathing {
		return 0
	}
	if engine.paused {
		now = engine.pausedAt
	}
	elapsed := now.Sub(engine.phaseStartedAt) - engine.pausedTotal
	duration := engine.pattern.Phases[engine.phaseIndex].Duration()
	return clamp(float64(elapsed) / float64(duration))
}

func (engine *Engine) progressLocked(now time.Time) Progress {
	progress := Progress{PhaseIndex: engine.phaseIndex, Paused: engine.paused}
	if engine.mode != ModeBreathing {
		return progress
	}
	progress.PerPhase = engine.perPhaseLocked(now)
	progress.Cumulative = clamp((float64(engine.phaseIndex) + progress.PerPhase) / float64(len(engine.pattern.Phases)))
	return progress
}

func (engine *Engine) snapshotLocked() Snapshot {
	snapshot := Snapshot{
		Mode:               engine.mode,
		PatternName:        engine.pattern.Name,
		PhaseCount:         len(engine.pattern.Phases),
		CountdownRemaining: engine.countdownRemaining,
		Paused:             engine.paused,
	}
	if engine.mode == ModeBreathing {
		phase := engine.pattern.Phases[engine.phaseIndex]
		snapshot.PhaseKey = phase.Key
		snapshot.PhaseLabel = phase.Label
		snapshot.PhaseIndex = engine.phaseIndex
		snapshot.SecondsRemaining = engine.secondsRemaining
	}
	return snapshot
}

func (engine *Engine) emitLocked(event Event) {
	for _, ch := range engine.events {
		select {
		case ch <- event:
		default:
		}
	}
}

func clamp(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
