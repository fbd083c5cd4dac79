// Package output is the boundary to the audio device timeline.
//
// Every command takes effect at a device time rather than immediately, which
// lets a coarse scheduler produce sample-accurate starts and fades.
package output

import (
	"errors"
	"time"

	"github.com/llehouerou/mysxn/internal/buffers"
)

// UnitID identifies a playback unit for the lifetime of its Output.
type UnitID uint64

var (
	// ErrUnsupportedBuffer is returned when an output cannot play a buffer type.
	ErrUnsupportedBuffer = errors.New("buffer type not supported by output")
	// ErrAlreadyStarted is returned when Start is called twice on a unit.
	ErrAlreadyStarted = errors.New("unit already started")
)

// Output creates units and exposes the device clock.
type Output interface {
	// Now returns the monotonic device time, in the same base as Unit.Start.
	Now() time.Duration
	// NewUnit binds a buffer to a fresh unit with its own gain.
	NewUnit(buf buffers.Buffer) (Unit, error)
}

// Unit is one schedulable sound source bound to one buffer and one gain.
type Unit interface {
	ID() UnitID
	// Start schedules playback at device time at, from offset inside the buffer.
	Start(at, offset time.Duration, loop bool) error
	// SetLoop changes looping of a started unit; a unit that stops looping
	// ends at the end of its current pass.
	SetLoop(loop bool)
	// Stop silences the unit immediately. Safe to call repeatedly and before Start.
	Stop()
	// SetEndCallback registers the natural-end notification; nil clears it.
	// Units stopped with Stop never notify.
	SetEndCallback(fn func(UnitID))
	Gain() Gain
}

// Gain is a unit's level automation.
type Gain interface {
	// Value returns the level at the current device time.
	Value() float64
	// SetValueNow cancels scheduled changes and holds level from now on.
	SetValueNow(level float64)
	// RampLinearTo ramps linearly from the previous scheduled point to level at.
	RampLinearTo(level float64, at time.Duration)
	// RampExponentialTo ramps exponentially to level at. The ramp is undefined
	// for non-positive endpoints; such ramps hold the previous level.
	RampExponentialTo(level float64, at time.Duration)
}

// boundGain ties an Automation to a device clock.
type boundGain struct {
	a   *Automation
	now func() time.Duration
}

func (g boundGain) Value() float64 { return g.a.ValueAt(g.now()) }

func (g boundGain) SetValueNow(level float64) { g.a.Set(level, g.now()) }

func (g boundGain) RampLinearTo(level float64, at time.Duration) {
	g.a.Ramp(level, at, curveLinear)
}

func (g boundGain) RampExponentialTo(level float64, at time.Duration) {
	g.a.Ramp(level, at, curveExponential)
}
