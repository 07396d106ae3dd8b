// Package phasetimertest provides a deterministic scheduler for engine tests.
package phasetimertest

import (
	"sort"
	"sync"
	"time"

	"breathe/internal/core/phasetimer"
)

var _ phasetimer.Scheduler = (*FakeScheduler)(nil)

type repeater struct {
	interval  time.Duration
	next      time.Time
	fn        func()
	cancelled bool
}

type frame struct {
	fn        func()
	cancelled bool
}

// FakeScheduler simulates time. Repeating callbacks fire during Advance and
// frame callbacks fire during Frame.
type FakeScheduler struct {
	mu        sync.Mutex
	now       time.Time
	repeaters []*repeater
	frames    []*frame
}

// NewFakeScheduler creates a scheduler whose clock starts at start.
func NewFakeScheduler(start time.Time) *FakeScheduler {
	return &FakeScheduler{now: start}
}

// Now returns the simulated time.
func (scheduler *FakeScheduler) Now() time.Time {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.now
}

// Every registers a repeating callback.
func (scheduler *FakeScheduler) Every(interval time.Duration, fn func()) phasetimer.CancelFunc {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	entry := &repeater{interval: interval, next: scheduler.now.Add(interval), fn: fn}
	scheduler.repeaters = append(scheduler.repeaters, entry)
	return func() {
		scheduler.mu.Lock()
		entry.cancelled = true
		scheduler.mu.Unlock()
	}
}

// RequestFrame queues fn for the next Frame call.
func (scheduler *FakeScheduler) RequestFrame(fn func()) phasetimer.CancelFunc {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	entry := &frame{fn: fn}
	scheduler.frames = append(scheduler.frames, entry)
	return func() {
		scheduler.mu.Lock()
		entry.cancelled = true
		scheduler.mu.Unlock()
	}
}

// Advance moves the clock forward by delta, firing due repeating callbacks
// in order at their scheduled instants.
func (scheduler *FakeScheduler) Advance(delta time.Duration) {
	scheduler.mu.Lock()
	target := scheduler.now.Add(delta)
	scheduler.mu.Unlock()

	for {
		scheduler.mu.Lock()
		due := scheduler.nextDueLocked(target)
		if due == nil {
			scheduler.now = target
			scheduler.mu.Unlock()
			return
		}
		scheduler.now = due.next
		due.next = due.next.Add(due.interval)
		fn := due.fn
		scheduler.mu.Unlock()

		fn()
	}
}

// Frame runs every frame callback queued before the call and returns how
// many ran. Frames requested by those callbacks wait for the next call.
func (scheduler *FakeScheduler) Frame() int {
	scheduler.mu.Lock()
	queued := scheduler.frames
	scheduler.frames = nil
	scheduler.mu.Unlock()

	ran := 0
	for _, entry := range queued {
		scheduler.mu.Lock()
		cancelled := entry.cancelled
		scheduler.mu.Unlock()
		if cancelled {
			continue
		}
		entry.fn()
		ran++
	}
	return ran
}

// ActiveRepeaters returns the number of uncancelled repeating callbacks.
func (scheduler *FakeScheduler) ActiveRepeaters() int {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	count := 0
	for _, entry := range scheduler.repeaters {
		if !entry.cancelled {
			count++
		}
	}
	return count
}

// PendingFrames returns the number of uncancelled queued frames.
func (scheduler *FakeScheduler) PendingFrames() int {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	count := 0
	for _, entry := range scheduler.frames {
		if !entry.cancelled {
			count++
		}
	}
	return count
}

func (scheduler *FakeScheduler) nextDueLocked(target time.Time) *repeater {
	live := scheduler.repeaters[:0]
	for _, entry := range scheduler.repeaters {
		if !entry.cancelled {
			live = append(live, entry)
		}
	}
	scheduler.repeaters = live

	sort.SliceStable(live, func(i, j int) bool {
		return live[i].next.Before(live[j].next)
	})
	if len(live) == 0 || live[0].next.After(target) {
		return nil
	}
	return live[0]
}
