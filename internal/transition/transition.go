// Package transition decides when and how one section hands over to the next.
package transition

import (
	"time"

	"github.com/llehouerou/mysxn/internal/output"
)

const (
	// Window is both the lead time before a section boundary at which a
	// pending transition fires and the length of a crossfade.
	Window = 2 * time.Second
	// Tail is the length of the final fade applied to the outgoing unit
	// before it is stopped.
	Tail = 100 * time.Millisecond
	// SilenceFloor is the tail target. Exponential ramps cannot reach zero.
	SilenceFloor = 0.001
)

// Style is the shape of a handoff.
type Style int

const (
	Crossfade Style = iota
	HardCut
)

func (s Style) String() string {
	switch s {
	case Crossfade:
		return "Crossfade"
	case HardCut:
		return "HardCut"
	default:
		return "Unknown"
	}
}

// StyleFor maps the outgoing section's crossfade flag to a style.
func StyleFor(crossfade bool) Style {
	if crossfade {
		return Crossfade
	}
	return HardCut
}

// Due reports whether a pending transition should fire given the time left
// in the active section.
func Due(remaining time.Duration) bool {
	return remaining <= Window
}

// Plan is a handoff fixed at the instant it was decided.
type Plan struct {
	Style Style
	// Now is the device time the plan was made at.
	Now time.Duration
	// StartAt and Offset describe where the incoming unit begins.
	StartAt time.Duration
	Offset  time.Duration
	// ReleaseAt is the end of the window, when the outgoing tail begins.
	ReleaseAt time.Duration
	// StopAt is the end of the tail. The outgoing unit is silent from then on.
	StopAt time.Duration
}

// NewPlan computes the handoff for an incoming buffer of the given duration.
// A crossfade starts the incoming tail right away; a hard cut schedules the
// incoming head at the end of the window.
func NewPlan(style Style, now, incoming time.Duration) Plan {
	p := Plan{Style: style, Now: now, ReleaseAt: now + Window, StopAt: now + Window + Tail}
	if style == Crossfade {
		p.StartAt = now
		p.Offset = max(0, incoming-Window)
	} else {
		p.StartAt = now + Window
	}
	return p
}

// Begin issues the handoff commands. The outgoing unit stops looping and loses
// its end callback, so it plays out its current pass silently for the
// scheduler. Its whole gain curve, tail included, is written here against
// device time; the caller only has to stop it once StopAt has passed. The
// only error comes from starting the incoming unit.
func (p Plan) Begin(outgoing, incoming output.Unit, loop bool) error {
	if outgoing != nil {
		outgoing.SetEndCallback(nil)
		outgoing.SetLoop(false)

		og := outgoing.Gain()
		v := og.Value()
		og.SetValueNow(v)
		if p.Style == Crossfade {
			og.RampLinearTo(0, p.ReleaseAt)
		} else {
			og.RampLinearTo(v, p.ReleaseAt)
		}
		Release(outgoing, p.ReleaseAt)
	}

	in := incoming.Gain()
	if p.Style == Crossfade {
		in.SetValueNow(0)
		in.RampLinearTo(1, p.ReleaseAt)
	} else {
		in.SetValueNow(1)
	}
	return incoming.Start(p.StartAt, p.Offset, loop)
}

// Release appends the outgoing tail to the gain curve: an exponential fall to
// SilenceFloor from at to at+Tail. The curve must already end at at. It
// returns the instant after which the unit can be stopped without a click.
func Release(outgoing output.Unit, at time.Duration) time.Duration {
	outgoing.Gain().RampExponentialTo(SilenceFloor, at+Tail)
	return at + Tail
}
