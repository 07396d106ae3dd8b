package animation

import (
	"context"
	"math"
	"sync"
	"time"
)

// PulseKind selects the pulse sequence.
type PulseKind int

const (
	// PulseSoft is a single flash for an ordinary phase change.
	PulseSoft PulseKind = iota
	// PulseCycle repeats the flash CyclePulses times.
	PulseCycle
)

// Config contains animation timing values.
type Config struct {
	FrameInterval time.Duration

	PulseOn     time.Duration
	PulseOff    time.Duration
	CyclePulses int

	ResetDuration time.Duration
}

// Engine runs one cancellable animation at a time. Starting a new animation
// cancels the running one.
type Engine struct {
	mu      sync.Mutex
	config  Config
	cancel  context.CancelFunc
	running sync.WaitGroup
}

// New creates a new animation engine.
func New(config Config) *Engine {
	if config.FrameInterval <= 0 {
		config.FrameInterval = DefaultConfig().FrameInterval
	}
	if config.CyclePulses <= 0 {
		config.CyclePulses = 1
	}
	return &Engine{config: config}
}

// Pulse flashes apply between 1 and 0 intensity.
func (engine *Engine) Pulse(ctx context.Context, kind PulseKind, apply func(intensity float64)) {
	count := 1
	if kind == PulseCycle {
		count = engine.config.CyclePulses
	}
	engine.start(ctx, func(runCtx context.Context) {
		defer apply(0)
		for index := 0; index < count; index++ {
			apply(1)
			if !sleepWithContext(runCtx, engine.config.PulseOn) {
				return
			}
			apply(0)
			if !sleepWithContext(runCtx, engine.config.PulseOff) {
				return
			}
		}
	})
}

// Ease moves a value from from to to over ResetDuration with an ease-out
// curve. done runs after the last step unless the animation was cancelled.
func (engine *Engine) Ease(ctx context.Context, from, to float64, apply func(value float64), done func()) {
	engine.start(ctx, func(runCtx context.Context) {
		steps := int(engine.config.ResetDuration / engine.config.FrameInterval)
		if steps < 1 {
			steps = 1
		}
		for step := 1; step <= steps; step++ {
			apply(from + (to-from)*easeOut(float64(step)/float64(steps)))
			if step == steps {
				break
			}
			if !sleepWithContext(runCtx, engine.config.FrameInterval) {
				return
			}
		}
		if done != nil {
			done()
		}
	})
}

// Stop terminates any active animation.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.cancel != nil {
		engine.cancel()
		engine.cancel = nil
	}
}

// Wait blocks until every started animation has returned.
func (engine *Engine) Wait() {
	engine.running.Wait()
}

func (engine *Engine) start(parent context.Context, run func(context.Context)) {
	engine.mu.Lock()
	if engine.cancel != nil {
		engine.cancel()
	}
	runCtx, cancel := context.WithCancel(parent)
	engine.cancel = cancel
	engine.running.Add(1)
	engine.mu.Unlock()

	go func() {
		defer engine.running.Done()
		run(runCtx)
	}()
}

func easeOut(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
