package playback

import (
	"time"

	"github.com/llehouerou/mysxn/internal/song"
)

// NoSection marks an absent section index.
const NoSection = -1

// State represents the scheduler state.
type State int

const (
	StateStopped State = iota
	StatePlaying
	// StateTransitioning is the bounded window during which the outgoing and
	// incoming units are both alive.
	StateTransitioning
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StatePlaying:
		return "Playing"
	case StateTransitioning:
		return "Transitioning"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a section is sounding.
func (s State) IsActive() bool {
	return s == StatePlaying || s == StateTransitioning
}

// Snapshot is a point-in-time view of the session for the UI.
type Snapshot struct {
	State     State
	IsPlaying bool

	ActiveSectionIndex  int
	PendingSectionIndex int
	// TransitionFrom and TransitionTo are set only while transitioning.
	TransitionFrom int
	TransitionTo   int

	Position  time.Duration
	Remaining time.Duration
	Duration  time.Duration
	Seeking   bool

	// Section is the active section; zero when stopped.
	Section song.Section
}

// HasPending reports whether a transition is queued.
func (s Snapshot) HasPending() bool {
	return s.PendingSectionIndex != NoSection
}

func stoppedSnapshot(seeking bool) Snapshot {
	return Snapshot{
		State:               StateStopped,
		ActiveSectionIndex:  NoSection,
		PendingSectionIndex: NoSection,
		TransitionFrom:      NoSection,
		TransitionTo:        NoSection,
		Seeking:             seeking,
	}
}
