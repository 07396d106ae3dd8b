package phasetimer

import (
	"context"
	"time"
)

// DefaultFrameInterval approximates a 60Hz display refresh.
const DefaultFrameInterval = 16 * time.Millisecond

// CancelFunc cancels a scheduled callback. Calling it more than once is safe.
type CancelFunc func()

// Clock provides monotonic time readings.
type Clock interface {
	Now() time.Time
}

// Scheduler is the timing capability the engine runs on.
type Scheduler interface {
	Clock
	// Every calls fn repeatedly, once per interval, until cancelled.
	Every(interval time.Duration, fn func()) CancelFunc
	// RequestFrame calls fn once on the next frame.
	RequestFrame(fn func()) CancelFunc
}

type realScheduler struct {
	frameInterval time.Duration
}

// NewScheduler returns a wall-clock scheduler backed by tickers and timers.
func NewScheduler(frameInterval time.Duration) Scheduler {
	if frameInterval <= 0 {
		frameInterval = DefaultFrameInterval
	}
	return &realScheduler{frameInterval: frameInterval}
}

func (scheduler *realScheduler) Now() time.Time {
	return time.Now()
}

func (scheduler *realScheduler) Every(interval time.Duration, fn func()) CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
	return CancelFunc(cancel)
}

func (scheduler *realScheduler) RequestFrame(fn func()) CancelFunc {
	timer := time.AfterFunc(scheduler.frameInterval, fn)
	return func() {
		timer.Stop()
	}
}
