package output

import (
	"math"
	"sort"
	"sync"
	"time"
)

type curve int

const (
	curveStep curve = iota
	curveLinear
	curveExponential
)

// point is a scheduled level; c describes how the level is reached from the
// previous point.
type point struct {
	at    time.Duration
	level float64
	c     curve
}

// Automation is a gain timeline: an anchor level followed by ramps, evaluated
// at arbitrary device times. Safe for concurrent use, since the audio thread
// reads it while the scheduler writes.
type Automation struct {
	mu     sync.Mutex
	points []point
}

// NewAutomation creates a timeline holding level from the beginning of time.
func NewAutomation(level float64) *Automation {
	return &Automation{points: []point{{at: math.MinInt64, level: level, c: curveStep}}}
}

// Set drops every point after at and holds level from at on.
func (a *Automation) Set(level float64, at time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := sort.Search(len(a.points), func(i int) bool { return a.points[i].at >= at })
	if i == 0 {
		i = 1
	}
	a.points = append(a.points[:i], point{at: at, level: level, c: curveStep})
}

// Ramp appends a ramp ending at the given instant. A ramp ending before the
// last scheduled point is treated as ending at that point.
func (a *Automation) Ramp(level float64, at time.Duration, c curve) {
	a.mu.Lock()
	defer a.mu.Unlock()
	last := a.points[len(a.points)-1]
	if at < last.at {
		at = last.at
	}
	a.points = append(a.points, point{at: at, level: level, c: c})
}

// ValueAt returns the level at device time t.
func (a *Automation) ValueAt(t time.Duration) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.valueAt(t)
}

// Levels fills dst with the levels at start, start+step, ... under one lock.
func (a *Automation) Levels(start, step time.Duration, dst []float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range dst {
		dst[i] = a.valueAt(start + time.Duration(i)*step)
	}
}

func (a *Automation) valueAt(t time.Duration) float64 {
	// index of the first point strictly after t
	i := sort.Search(len(a.points), func(i int) bool { return a.points[i].at > t })
	if i == 0 {
		return a.points[0].level
	}
	prev := a.points[i-1]
	if i == len(a.points) {
		return prev.level
	}
	next := a.points[i]
	span := float64(next.at - prev.at)
	if span <= 0 {
		return prev.level
	}
	frac := float64(t-prev.at) / span
	switch next.c {
	case curveLinear:
		return prev.level + (next.level-prev.level)*frac
	case curveExponential:
		if prev.level <= 0 || next.level <= 0 {
			return prev.level
		}
		return prev.level * math.Pow(next.level/prev.level, frac)
	default:
		return prev.level
	}
}
