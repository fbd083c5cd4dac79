package app

import (
	"time"

	"github.com/llehouerou/mysxn/internal/buffers"
	"github.com/llehouerou/mysxn/internal/song"
)

// TickMsg is sent periodically to refresh the playback snapshot.
type TickMsg time.Time

// SongsLoadedMsg carries the song list read from the store.
type SongsLoadedMsg struct {
	Songs []song.Song
	Err   error
}

// SongReadyMsg is sent when a song's audio has been decoded.
type SongReadyMsg struct {
	Song  song.Song
	Store *buffers.MemoryStore
	Err   error
}

// ServiceStateChangedMsg is sent when the playback state changes.
type ServiceStateChangedMsg struct {
	Previous int
	Current  int
}

// ServiceSectionChangedMsg is sent when a different section becomes active.
type ServiceSectionChangedMsg struct {
	Previous int
	Current  int
}

// ServicePendingChangedMsg is sent when the queued section changes.
type ServicePendingChangedMsg struct {
	Pending int
}

// ServiceErrorMsg is sent when the playback service reports an error.
type ServiceErrorMsg struct {
	Operation string
	Err       error
}

// ServiceClosedMsg is sent when the playback service shuts down.
type ServiceClosedMsg struct{}
