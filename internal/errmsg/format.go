// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Playback operations
	OpPlaybackStart Op = "start playback"
	OpPlaybackSeek  Op = "seek"
	OpTransition    Op = "switch section"
	OpAdvance       Op = "advance to next section"

	// Song operations
	OpSongLoad   Op = "load song"
	OpSongSave   Op = "save song"
	OpSongDelete Op = "delete song"
	OpSongsList  Op = "list songs"

	// Project file operations
	OpProjectImport Op = "import project"
	OpProjectExport Op = "export project"

	// Audio operations
	OpAudioDecode Op = "decode section audio"
	OpAudioOpen   Op = "open audio device"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

// ForPlayback maps the operation name carried by a playback error event to
// an Op.
func ForPlayback(operation string) Op {
	switch operation {
	case "tick", "transition":
		return OpTransition
	case "end", "advance":
		return OpAdvance
	case "seek":
		return OpPlaybackSeek
	default:
		return OpPlaybackStart
	}
}
