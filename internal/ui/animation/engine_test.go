package animation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func testConfig() Config {
	return Config{
		FrameInterval: time.Millisecond,
		PulseOn:       time.Millisecond,
		PulseOff:      time.Millisecond,
		CyclePulses:   2,
		ResetDuration: 10 * time.Millisecond,
	}
}

type recorder struct {
	mu     sync.Mutex
	values []float64
}

func (rec *recorder) apply(value float64) {
	rec.mu.Lock()
	rec.values = append(rec.values, value)
	rec.mu.Unlock()
}

func (rec *recorder) snapshot() []float64 {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return append([]float64(nil), rec.values...)
}

func TestPulseSequences(t *testing.T) {
	defer goleak.VerifyNone(t)
	engine := New(testConfig())

	soft := &recorder{}
	engine.Pulse(context.Background(), PulseSoft, soft.apply)
	engine.Wait()
	assert.Equal(t, []float64{1, 0, 0}, soft.snapshot())

	cycle := &recorder{}
	engine.Pulse(context.Background(), PulseCycle, cycle.apply)
	engine.Wait()
	assert.Equal(t, []float64{1, 0, 1, 0, 0}, cycle.snapshot())
}

func TestEaseReachesTarget(t *testing.T) {
	defer goleak.VerifyNone(t)
	engine := New(testConfig())

	values := &recorder{}
	finished := make(chan struct{})
	engine.Ease(context.Background(), 1, 0, values.apply, func() { close(finished) })
	engine.Wait()

	select {
	case <-finished:
	default:
		t.Fatal("done was not called")
	}
	got := values.snapshot()
	require.Len(t, got, 10)
	assert.InDelta(t, 0, got[len(got)-1], 1e-9)
	for index := 1; index < len(got); index++ {
		assert.LessOrEqual(t, got[index], got[index-1])
	}
}

func TestStartCancelsRunningAnimation(t *testing.T) {
	defer goleak.VerifyNone(t)
	config := testConfig()
	config.ResetDuration = time.Hour
	config.FrameInterval = time.Minute
	engine := New(config)

	called := false
	engine.Ease(context.Background(), 0, 1, func(float64) {}, func() { called = true })

	soft := &recorder{}
	engine.Pulse(context.Background(), PulseSoft, soft.apply)
	engine.Wait()

	assert.False(t, called)
	assert.Equal(t, []float64{1, 0, 0}, soft.snapshot())
	engine.Stop()
}
