package phasetimer_test

import (
	"sync"
	"testing"
	"time"

	"breathe/internal/core/model"
	"breathe/internal/core/phasetimer"
	"breathe/internal/core/phasetimer/phasetimertest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var epoch = time.Unix(0, 0)

func newEngine(t *testing.T, pattern model.Pattern) (*phasetimer.Engine, *phasetimertest.FakeScheduler) {
	t.Helper()
	scheduler := phasetimertest.NewFakeScheduler(epoch)
	engine, err := phasetimer.New(pattern, phasetimer.Options{Scheduler: scheduler})
	require.NoError(t, err)
	t.Cleanup(engine.Close)
	return engine, scheduler
}

func drain(ch <-chan phasetimer.Event) []phasetimer.Event {
	var events []phasetimer.Event
	for {
		select {
		case event, ok := <-ch:
			if !ok {
				return events
			}
			events = append(events, event)
		default:
			return events
		}
	}
}

func countType(events []phasetimer.Event, eventType phasetimer.EventType) int {
	count := 0
	for _, event := range events {
		if event.Type == eventType {
			count++
		}
	}
	return count
}

func enterBreathing(engine *phasetimer.Engine, scheduler *phasetimertest.FakeScheduler) {
	engine.Start()
	scheduler.Advance(phasetimer.CountdownSeconds * time.Second)
}

func TestNewValidatesPattern(t *testing.T) {
	engine, err := phasetimer.New(model.Pattern{}, phasetimer.Options{Scheduler: phasetimertest.NewFakeScheduler(epoch)})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPatternName, engine.Pattern().Name)

	_, err = phasetimer.New(model.Pattern{Name: "empty"}, phasetimer.Options{})
	assert.ErrorIs(t, err, model.ErrEmptyPattern)

	_, err = phasetimer.New(model.Pattern{Name: "bad", Phases: []model.Phase{{Key: "inhale", Seconds: 0}}}, phasetimer.Options{})
	assert.ErrorIs(t, err, model.ErrInvalidDuration)
}

func TestNewDoesNotSchedule(t *testing.T) {
	engine, scheduler := newEngine(t, model.DefaultPattern())

	snapshot := engine.Snapshot()
	assert.Equal(t, phasetimer.ModeCountdown, snapshot.Mode)
	assert.Equal(t, phasetimer.CountdownSeconds, snapshot.CountdownRemaining)
	assert.Zero(t, scheduler.ActiveRepeaters())

	scheduler.Advance(10 * time.Second)
	assert.Equal(t, phasetimer.ModeCountdown, engine.Snapshot().Mode)
}

func TestSquareScenario(t *testing.T) {
	engine, scheduler := newEngine(t, model.DefaultPattern())
	events := engine.Subscribe(64)

	engine.Start()
	scheduler.Advance(2 * time.Second)
	snapshot := engine.Snapshot()
	assert.Equal(t, phasetimer.ModeCountdown, snapshot.Mode)
	assert.Equal(t, 1, snapshot.CountdownRemaining)

	scheduler.Advance(time.Second)
	snapshot = engine.Snapshot()
	assert.Equal(t, phasetimer.ModeBreathing, snapshot.Mode)
	assert.Equal(t, 0, snapshot.PhaseIndex)
	assert.Equal(t, "inhale", snapshot.PhaseKey)
	assert.Equal(t, 4, snapshot.SecondsRemaining)
	assert.Equal(t, 1, countType(drain(events), phasetimer.EventBreathingStarted))

	scheduler.Advance(4 * time.Second)
	snapshot = engine.Snapshot()
	assert.Equal(t, 1, snapshot.PhaseIndex)
	assert.Equal(t, "hold1", snapshot.PhaseKey)
	assert.Equal(t, 4, snapshot.SecondsRemaining)

	received := drain(events)
	assert.Equal(t, 1, countType(received, phasetimer.EventPhaseAdvance))
	assert.Equal(t, 4, countType(received, phasetimer.EventTick))
	assert.Zero(t, countType(received, phasetimer.EventCycleComplete))
}

func TestPhaseAdvancesAfterDurationTicks(t *testing.T) {
	for _, pattern := range model.Patterns() {
		t.Run(pattern.Name, func(t *testing.T) {
			engine, scheduler := newEngine(t, pattern)
			enterBreathing(engine, scheduler)

			count := len(pattern.Phases)
			for step := 0; step < 2*count; step++ {
				index := step % count
				require.Equal(t, index, engine.Snapshot().PhaseIndex)

				for tick := 1; tick < pattern.Phases[index].Seconds; tick++ {
					scheduler.Advance(time.Second)
					snapshot := engine.Snapshot()
					require.Equal(t, index, snapshot.PhaseIndex)
					require.Equal(t, pattern.Phases[index].Seconds-tick, snapshot.SecondsRemaining)
				}
				scheduler.Advance(time.Second)

				snapshot := engine.Snapshot()
				next := (index + 1) % count
				require.Equal(t, next, snapshot.PhaseIndex)
				require.Equal(t, pattern.Phases[next].Seconds, snapshot.SecondsRemaining)
				assert.InDelta(t, 0, engine.PerPhaseFraction(), 1e-9)
			}
		})
	}
}

func TestCycleCompleteOnWrap(t *testing.T) {
	pattern, ok := model.LookupPattern("coherent")
	require.True(t, ok)
	engine, scheduler := newEngine(t, pattern)
	events := engine.Subscribe(128)
	enterBreathing(engine, scheduler)

	scheduler.Advance(5 * time.Second)
	received := drain(events)
	assert.Equal(t, 1, countType(received, phasetimer.EventPhaseAdvance))
	assert.Zero(t, countType(received, phasetimer.EventCycleComplete))

	scheduler.Advance(5 * time.Second)
	received = drain(events)
	assert.Equal(t, 1, countType(received, phasetimer.EventPhaseAdvance))
	assert.Equal(t, 1, countType(received, phasetimer.EventCycleComplete))

	var advance phasetimer.Event
	for _, event := range received {
		if event.Type == phasetimer.EventPhaseAdvance {
			advance = event
		}
	}
	assert.Equal(t, "inhale", advance.PhaseKey)
}

func TestFractionsStayInRange(t *testing.T) {
	engine, scheduler := newEngine(t, model.DefaultPattern())
	assert.Zero(t, engine.PerPhaseFraction())
	assert.Zero(t, engine.CumulativeFraction())

	enterBreathing(engine, scheduler)
	phaseCount := float64(len(model.DefaultPattern().Phases))

	previous := engine.CumulativeFraction()
	wraps := 0
	for step := 0; step < 400; step++ {
		scheduler.Advance(100 * time.Millisecond)
		progress := engine.Progress()

		require.GreaterOrEqual(t, progress.PerPhase, 0.0)
		require.LessOrEqual(t, progress.PerPhase, 1.0)
		require.GreaterOrEqual(t, progress.Cumulative, 0.0)
		require.LessOrEqual(t, progress.Cumulative, 1.0)

		if progress.Cumulative < previous {
			wraps++
			assert.Less(t, progress.Cumulative, 1/phaseCount)
		}
		previous = progress.Cumulative
	}
	assert.Equal(t, 2, wraps, "40s over a 16s cycle wraps twice")
}

func TestCumulativeFraction(t *testing.T) {
	engine, scheduler := newEngine(t, model.DefaultPattern())
	enterBreathing(engine, scheduler)

	scheduler.Advance(6 * time.Second)
	progress := engine.Progress()
	assert.Equal(t, 1, progress.PhaseIndex)
	assert.InDelta(t, 0.5, progress.PerPhase, 1e-9)
	assert.InDelta(t, (1+0.5)/4, progress.Cumulative, 1e-9)
	assert.InDelta(t, progress.Cumulative, progress.For(phasetimer.ProgressCumulative), 1e-9)
	assert.InDelta(t, progress.PerPhase, progress.For(phasetimer.ProgressPerPhase), 1e-9)
}

func TestPauseFreezesProgress(t *testing.T) {
	engine, scheduler := newEngine(t, model.DefaultPattern())
	enterBreathing(engine, scheduler)

	scheduler.Advance(1500 * time.Millisecond)
	engine.Pause()
	require.True(t, engine.Snapshot().Paused)

	perPhase := engine.PerPhaseFraction()
	cumulative := engine.CumulativeFraction()
	seconds := engine.Snapshot().SecondsRemaining

	scheduler.Advance(2 * time.Second)
	assert.Equal(t, perPhase, engine.PerPhaseFraction())
	assert.Equal(t, cumulative, engine.CumulativeFraction())
	assert.Equal(t, seconds, engine.Snapshot().SecondsRemaining)

	engine.Resume()
	assert.False(t, engine.Snapshot().Paused)
	assert.InDelta(t, 0.375, engine.PerPhaseFraction(), 1e-9)
}

func TestPauseResumeIdempotent(t *testing.T) {
	engine, scheduler := newEngine(t, model.DefaultPattern())
	events := engine.Subscribe(64)

	engine.Start()
	engine.Pause()
	assert.False(t, engine.Snapshot().Paused, "pause is ignored during the countdown")

	scheduler.Advance(3 * time.Second)
	engine.Resume()
	scheduler.Advance(time.Second)
	engine.Pause()
	scheduler.Advance(500 * time.Millisecond)
	engine.Pause()
	scheduler.Advance(500 * time.Millisecond)
	engine.Resume()
	engine.Resume()

	received := drain(events)
	assert.Equal(t, 1, countType(received, phasetimer.EventPaused))
	assert.Equal(t, 1, countType(received, phasetimer.EventResumed))
	assert.InDelta(t, 0.25, engine.PerPhaseFraction(), 1e-9)
}

func TestTogglePause(t *testing.T) {
	engine, scheduler := newEngine(t, model.DefaultPattern())
	enterBreathing(engine, scheduler)

	engine.TogglePause()
	assert.True(t, engine.Snapshot().Paused)
	engine.TogglePause()
	assert.False(t, engine.Snapshot().Paused)
}

func TestRestartReturnsToCountdown(t *testing.T) {
	engine, scheduler := newEngine(t, model.DefaultPattern())
	enterBreathing(engine, scheduler)
	scheduler.Advance(5 * time.Second)
	engine.Pause()

	engine.Restart()

	want := phasetimer.Snapshot{
		Mode:               phasetimer.ModeCountdown,
		PatternName:        model.DefaultPatternName,
		PhaseCount:         4,
		CountdownRemaining: phasetimer.CountdownSeconds,
	}
	if diff := cmp.Diff(want, engine.Snapshot()); diff != "" {
		t.Fatalf("snapshot after restart (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, scheduler.ActiveRepeaters())
	assert.Zero(t, scheduler.PendingFrames())
	assert.Zero(t, engine.PerPhaseFraction())

	scheduler.Advance(time.Second)
	assert.Equal(t, 2, engine.Snapshot().CountdownRemaining, "exactly one tick per second after restart")
}

func TestSwitchPattern(t *testing.T) {
	engine, scheduler := newEngine(t, model.DefaultPattern())
	events := engine.Subscribe(64)
	enterBreathing(engine, scheduler)
	scheduler.Advance(9 * time.Second)
	require.Equal(t, 2, engine.Snapshot().PhaseIndex)
	drain(events)

	require.NoError(t, engine.SwitchPattern(model.DefaultPattern()))
	assert.Equal(t, 2, engine.Snapshot().PhaseIndex, "same pattern is a no-op")
	assert.Zero(t, countType(drain(events), phasetimer.EventRestarted))

	triangle, ok := model.LookupPattern("triangle")
	require.True(t, ok)
	require.NoError(t, engine.SwitchPattern(triangle))

	snapshot := engine.Snapshot()
	assert.Equal(t, phasetimer.ModeCountdown, snapshot.Mode)
	assert.Equal(t, phasetimer.CountdownSeconds, snapshot.CountdownRemaining)
	assert.Equal(t, 0, snapshot.PhaseIndex)
	assert.Equal(t, "triangle", snapshot.PatternName)
	assert.Equal(t, 3, snapshot.PhaseCount)
	assert.Equal(t, 1, countType(drain(events), phasetimer.EventRestarted))
	assert.Equal(t, 1, scheduler.ActiveRepeaters())

	err := engine.SwitchPattern(model.Pattern{Name: "broken"})
	assert.ErrorIs(t, err, model.ErrEmptyPattern)
	assert.Equal(t, "triangle", engine.Pattern().Name)
}

func TestFrameLoop(t *testing.T) {
	scheduler := phasetimertest.NewFakeScheduler(epoch)
	var mu sync.Mutex
	var frames []phasetimer.Progress
	engine, err := phasetimer.New(model.DefaultPattern(), phasetimer.Options{
		Scheduler: scheduler,
		OnFrame: func(progress phasetimer.Progress) {
			mu.Lock()
			frames = append(frames, progress)
			mu.Unlock()
		},
	})
	require.NoError(t, err)
	defer engine.Close()

	engine.Start()
	assert.Zero(t, scheduler.PendingFrames(), "no frames during the countdown")

	scheduler.Advance(3 * time.Second)
	require.Equal(t, 1, scheduler.PendingFrames())

	scheduler.Advance(time.Second)
	assert.Equal(t, 1, scheduler.Frame())
	scheduler.Advance(time.Second)
	assert.Equal(t, 1, scheduler.Frame())

	mu.Lock()
	require.Len(t, frames, 2)
	assert.InDelta(t, 0.25, frames[0].PerPhase, 1e-9)
	assert.InDelta(t, 0.5, frames[1].PerPhase, 1e-9)
	mu.Unlock()

	engine.Restart()
	assert.Zero(t, scheduler.Frame(), "restart cancels the frame loop")
}

func TestNoFramesWithoutConsumer(t *testing.T) {
	engine, scheduler := newEngine(t, model.DefaultPattern())
	enterBreathing(engine, scheduler)

	assert.Equal(t, phasetimer.ModeBreathing, engine.Snapshot().Mode)
	assert.Zero(t, scheduler.PendingFrames())

	scheduler.Advance(time.Second)
	assert.InDelta(t, 0.25, engine.PerPhaseFraction(), 1e-9, "fractions are sampled on demand")
}

func TestUnsubscribe(t *testing.T) {
	engine, scheduler := newEngine(t, model.DefaultPattern())
	kept := engine.Subscribe(64)
	dropped := engine.Subscribe(64)

	engine.Unsubscribe(dropped)
	engine.Unsubscribe(dropped)

	_, open := <-dropped
	assert.False(t, open)

	enterBreathing(engine, scheduler)
	assert.NotEmpty(t, drain(kept))

	engine.Close()
	engine.Unsubscribe(kept)
}

func TestCloseStopsEverything(t *testing.T) {
	engine, scheduler := newEngine(t, model.DefaultPattern())
	events := engine.Subscribe(64)
	enterBreathing(engine, scheduler)

	engine.Close()
	engine.Close()

	assert.Zero(t, scheduler.ActiveRepeaters())
	assert.Zero(t, scheduler.Frame())

	drain(events)
	_, open := <-events
	assert.False(t, open)

	snapshot := engine.Snapshot()
	scheduler.Advance(5 * time.Second)
	assert.Equal(t, snapshot, engine.Snapshot())

	engine.Start()
	assert.Zero(t, scheduler.ActiveRepeaters())
	assert.ErrorIs(t, engine.SwitchPattern(model.Patterns()[1]), phasetimer.ErrClosed)

	late := engine.Subscribe(1)
	_, open = <-late
	assert.False(t, open)
}

func TestRealSchedulerDoesNotLeak(t *testing.T) {
	defer goleak.VerifyNone(t)

	pattern := model.Pattern{Name: "quick", Phases: []model.Phase{{Key: "inhale", Seconds: 1}}}
	engine, err := phasetimer.New(pattern, phasetimer.Options{
		Scheduler: phasetimer.NewScheduler(5 * time.Millisecond),
	})
	require.NoError(t, err)

	engine.Start()
	time.Sleep(30 * time.Millisecond)
	engine.Restart()
	time.Sleep(30 * time.Millisecond)
	engine.Close()
}
