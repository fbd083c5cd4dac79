package playback

import (
	"errors"
	"time"

	"github.com/llehouerou/mysxn/internal/buffers"
	"github.com/llehouerou/mysxn/internal/song"
)

// DefaultTickInterval is how often position is published and transition
// triggers are evaluated.
const DefaultTickInterval = 50 * time.Millisecond

// ErrClosed is returned by commands issued after Close.
var ErrClosed = errors.New("playback service closed")

// Service defines the playback service contract.
type Service interface {
	// Song control
	Load(sg song.Song, store buffers.Store)
	Unload()

	// Playback control
	Start() error
	Stop()
	RequestTransition(index int)
	CancelTransition()
	Seek(offset time.Duration) error
	BeginSeekGesture()
	EndSeekGesture() error

	// State queries
	Snapshot() Snapshot
	Song() (song.Song, bool)

	// Event subscription
	Subscribe() *Subscription

	// Lifecycle
	Close() error
}
