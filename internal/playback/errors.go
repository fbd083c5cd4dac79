package playback

import "errors"

var (
	// ErrPlaybackUnavailable is returned by Start when there is no song, the
	// song has no sections, or the first section has no buffer.
	ErrPlaybackUnavailable = errors.New("playback unavailable")
	// ErrBufferMissing aborts a transition, seek or auto-advance whose target
	// section has no decoded buffer. Playback is stopped.
	ErrBufferMissing = errors.New("section buffer missing")
	// ErrOutput wraps an audio output failure. Playback is stopped.
	ErrOutput = errors.New("audio output failure")
	// ErrInvalidTransitionTarget describes an ignored transition request.
	ErrInvalidTransitionTarget = errors.New("invalid transition target")
)
