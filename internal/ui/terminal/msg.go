package terminal

import (
	"time"

	"breathe/internal/core/model"
	"breathe/internal/core/phasetimer"
)

// MsgFrame requests a progress redraw.
type MsgFrame struct {
	At time.Time
}

// MsgEvent carries an engine event into the update loop.
type MsgEvent struct {
	Event phasetimer.Event
}

// MsgEventsClosed is sent once the engine subscription is closed.
type MsgEventsClosed struct{}

// MsgPatternsReloaded is sent when the custom pattern file changes.
type MsgPatternsReloaded struct {
	Patterns []model.Pattern
}
