package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAnchor_PositionAtStartEqualsOffset(t *testing.T) {
	a := Reanchor(10*time.Second, 3*time.Second)

	assert.Equal(t, 3*time.Second, a.Position(10*time.Second, 8*time.Second))
}

func TestAnchor_PositionWrapsForLoops(t *testing.T) {
	const dur = 4 * time.Second
	a := Reanchor(0, 0)

	tests := []struct {
		now  time.Duration
		want time.Duration
	}{
		{0, 0},
		{1500 * time.Millisecond, 1500 * time.Millisecond},
		{4 * time.Second, 0},
		{9 * time.Second, time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, a.Position(tt.now, dur), "now=%v", tt.now)
	}
}

func TestAnchor_PositionStaysInRange(t *testing.T) {
	const dur = 3700 * time.Millisecond
	a := Reanchor(250*time.Millisecond, 1200*time.Millisecond)

	prev := a.Position(250*time.Millisecond, dur)
	wraps := 0
	for now := 250 * time.Millisecond; now < 30*time.Second; now += 50 * time.Millisecond {
		pos := a.Position(now, dur)
		assert.GreaterOrEqual(t, pos, time.Duration(0))
		assert.Less(t, pos, dur)
		if pos < prev {
			wraps++
		}
		prev = pos
	}
	assert.Positive(t, wraps)
}

func TestAnchor_FutureAnchorCountsDown(t *testing.T) {
	const dur = 10 * time.Second
	// Incoming unit starts at 12s from offset 0; we look at 10.5s.
	a := Reanchor(12*time.Second, 0)

	assert.Equal(t, -1500*time.Millisecond, a.Elapsed(10500*time.Millisecond))
	assert.Equal(t, 8500*time.Millisecond, a.Position(10500*time.Millisecond, dur))
	assert.Equal(t, 1500*time.Millisecond, a.Remaining(10500*time.Millisecond, dur))
}

func TestAnchor_Remaining(t *testing.T) {
	a := Reanchor(0, 0)

	assert.Equal(t, 5*time.Second, a.Remaining(0, 5*time.Second))
	assert.Equal(t, 2*time.Second, a.Remaining(3*time.Second, 5*time.Second))
}

func TestAnchor_ZeroDuration(t *testing.T) {
	a := Reanchor(0, time.Second)

	assert.Equal(t, time.Duration(0), a.Position(5*time.Second, 0))
	assert.Equal(t, time.Duration(0), a.Remaining(5*time.Second, 0))
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00.0"},
		{1500 * time.Millisecond, "0:01.5"},
		{61*time.Second + 990*time.Millisecond, "1:01.9"},
		{10 * time.Minute, "10:00.0"},
		{-time.Second, "0:00.0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.in), "Format(%v)", tt.in)
	}
}
