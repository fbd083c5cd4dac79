package playback

import (
	"time"

	"github.com/llehouerou/mysxn/internal/song"
)

// StateChange is emitted when the scheduler state changes.
type StateChange struct {
	Previous State
	Current  State
}

// SectionChange is emitted when a different section becomes active: on start,
// when a handoff is committed, on count-in advance, and on stop (Current is
// NoSection).
type SectionChange struct {
	Previous int
	Current  int
	Section  song.Section
}

// PendingChange is emitted when the queued transition target changes.
// Pending is NoSection once the handoff fired or the request was cleared.
type PendingChange struct {
	Pending int
}

// PositionChange is emitted on every tick while playing, unless a seek
// gesture is in progress.
type PositionChange struct {
	Position  time.Duration
	Remaining time.Duration
	Duration  time.Duration
}

// ErrorEvent is emitted when a tick or a natural end fails and playback had
// to stop.
type ErrorEvent struct {
	Operation string // e.g., "tick", "end"
	Err       error
}
