package analytics

import (
	"context"
	"time"

	"breathe/internal/core/phasetimer"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sink receives session writes.
type Sink interface {
	Begin(ctx context.Context, session Session) error
	Update(ctx context.Context, session Session) error
}

// Recorder turns engine events into sessions. Write failures are logged and
// never reach the engine.
type Recorder struct {
	sink    Sink
	logger  *zap.Logger
	newID   func() string
	current *Session
}

// NewRecorder creates a Recorder writing to sink.
func NewRecorder(sink Sink, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		sink:   sink,
		logger: logger,
		newID:  uuid.NewString,
	}
}

// Run consumes events until the channel closes or ctx is done, then closes
// the open session.
func (recorder *Recorder) Run(ctx context.Context, events <-chan phasetimer.Event) {
	for {
		select {
		case <-ctx.Done():
			recorder.finish(context.Background(), time.Now())
			return
		case event, ok := <-events:
			if !ok {
				recorder.finish(context.Background(), time.Now())
				return
			}
			recorder.Handle(ctx, event)
		}
	}
}

// Handle applies one event.
func (recorder *Recorder) Handle(ctx context.Context, event phasetimer.Event) {
	switch event.Type {
	case phasetimer.EventBreathingStarted:
		recorder.finish(ctx, event.At)
		session := Session{
			ID:        recorder.newID(),
			Pattern:   event.Snapshot.PatternName,
			StartedAt: event.At,
		}
		if err := recorder.sink.Begin(ctx, session); err != nil {
			recorder.logger.Warn("analytics begin failed", zap.Error(err))
			return
		}
		recorder.current = &session
	case phasetimer.EventPhaseAdvance:
		if recorder.current != nil {
			recorder.current.Phases++
		}
	case phasetimer.EventCycleComplete:
		if recorder.current != nil {
			recorder.current.Cycles++
			recorder.current.EndedAt = event.At
			recorder.write(ctx)
		}
	case phasetimer.EventRestarted:
		recorder.finish(ctx, event.At)
	}
}

// Current returns a copy of the open session.
func (recorder *Recorder) Current() (Session, bool) {
	if recorder.current == nil {
		return Session{}, false
	}
	return *recorder.current, true
}

func (recorder *Recorder) finish(ctx context.Context, at time.Time) {
	if recorder.current == nil {
		return
	}
	recorder.current.EndedAt = at
	recorder.write(ctx)
	recorder.logger.Debug("session recorded",
		zap.String("session", recorder.current.ID),
		zap.Int("cycles", recorder.current.Cycles))
	recorder.current = nil
}

func (recorder *Recorder) write(ctx context.Context) {
	if err := recorder.sink.Update(ctx, *recorder.current); err != nil {
		recorder.logger.Warn("analytics update failed",
			zap.String("session", recorder.current.ID),
			zap.Error(err))
	}
}
