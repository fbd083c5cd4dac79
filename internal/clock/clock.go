// Package clock derives the position inside the sounding section from the
// device clock.
//
// The device node's own playhead is never queried: it loops and is not
// reportable from a scheduled gain timeline. Instead the engine records an
// Anchor every time a new unit becomes authoritative (fresh start, seek,
// transition) and computes position arithmetically from it.
package clock

import (
	"fmt"
	"time"
)

// Anchor is the device instant a unit started sounding and the buffer offset
// it started from.
type Anchor struct {
	Start  time.Duration
	Offset time.Duration
}

// Reanchor returns an anchor for a unit that becomes authoritative at start,
// playing from offset.
func Reanchor(start, offset time.Duration) Anchor {
	return Anchor{Start: start, Offset: offset}
}

// Elapsed returns the time since the anchor. It is negative while the anchor
// lies in the future, as it does during a hard cut.
func (a Anchor) Elapsed(now time.Duration) time.Duration {
	return now - a.Start
}

// Position returns the offset inside a buffer of the given duration, wrapped
// into [0, duration). A non-positive duration yields 0.
func (a Anchor) Position(now, duration time.Duration) time.Duration {
	if duration <= 0 {
		return 0
	}
	pos := (a.Offset + a.Elapsed(now)) % duration
	if pos < 0 {
		pos += duration
	}
	return pos
}

// Remaining returns the time until the buffer's boundary.
func (a Anchor) Remaining(now, duration time.Duration) time.Duration {
	if duration <= 0 {
		return 0
	}
	return duration - a.Position(now, duration)
}

// Format renders a duration as m:ss.d, the transport display format.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	tenths := int64(d / (100 * time.Millisecond))
	mins := tenths / 600
	secs := (tenths / 10) % 60
	return fmt.Sprintf("%d:%02d.%d", mins, secs, tenths%10)
}
