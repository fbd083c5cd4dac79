// Package playerbar renders the transport bar: status badge, queued
// section, countdown and seek bar.
package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/mysxn/internal/clock"
	"github.com/llehouerou/mysxn/internal/playback"
	"github.com/llehouerou/mysxn/internal/song"
	"github.com/llehouerou/mysxn/internal/ui/render"
	"github.com/llehouerou/mysxn/internal/ui/styles"
)

// ReadyLabel is the badge shown while a song is loaded but silent.
const ReadyLabel = "READY"

// State holds everything needed to render the bar.
type State struct {
	Playing       bool
	Transitioning bool
	Seeking       bool
	Loaded        bool

	SongName    string
	SectionName string
	SectionType song.Type
	// FromName is the outgoing section while transitioning.
	FromName string
	NextName string

	Position  time.Duration
	Remaining time.Duration
	Duration  time.Duration
}

// Height is the rendered height including borders.
const Height = 4

// NewState builds the bar state from a snapshot of sg's playback.
func NewState(snap playback.Snapshot, sg song.Song, loaded bool) State {
	s := State{
		Loaded:   loaded,
		SongName: sg.Name,
	}
	if !snap.IsPlaying {
		return s
	}
	s.Playing = true
	s.Transitioning = snap.State == playback.StateTransitioning
	s.Seeking = snap.Seeking
	s.SectionName = snap.Section.Name
	s.SectionType = snap.Section.Type
	s.Position = snap.Position
	s.Remaining = snap.Remaining
	s.Duration = snap.Duration
	if sec, ok := sg.Section(snap.TransitionFrom); ok && s.Transitioning {
		s.FromName = sec.Name
	}
	if sec, ok := sg.Section(snap.PendingSectionIndex); ok {
		s.NextName = sec.Name
	}
	return s
}

// Badge returns the status label: the section type while playing, READY
// when a song waits to start.
func (s State) Badge() string {
	switch {
	case s.Playing:
		return s.SectionType.Label()
	case s.Loaded:
		return ReadyLabel
	default:
		return ""
	}
}

// Render returns the bar for the given outer width.
func Render(s State, width int) string {
	inner := max(width-4, 10)
	t := styles.T()

	var top, bottom string
	if badge := s.Badge(); badge != "" {
		color := t.Primary
		if s.Playing {
			color = t.TypeColor(string(s.SectionType))
		}
		top = t.Badge(badge, color) + " "
	}
	top += titleLine(s)
	if s.NextName != "" {
		next := t.Badge("NEXT: "+render.Sanitize(s.NextName), t.Secondary)
		top = render.Row(top, next, inner)
	}

	if s.Playing {
		countdown := "-" + clock.Format(s.Remaining)
		if s.Seeking {
			countdown = t.S().Pending.Render(countdown)
		}
		bottom = RenderProgressBar(s.Position, s.Duration, inner-lipgloss.Width(countdown)-2, s.Seeking) +
			"  " + countdown
	} else {
		bottom = t.S().Subtle.Render(hint(s))
	}

	return barStyle.Width(width - 2).Render(top + "\n" + bottom)
}

func titleLine(s State) string {
	t := styles.T()
	switch {
	case s.Transitioning && s.FromName != "":
		return t.S().Muted.Render(render.Sanitize(s.FromName)+" → ") +
			styles.ApplyBoldGradient(render.Sanitize(s.SectionName), t.Primary, t.Secondary)
	case s.Playing:
		return styles.ApplyBoldGradient(render.Sanitize(s.SectionName), t.Primary, t.Secondary)
	case s.Loaded:
		return t.S().Title.Render(render.Sanitize(s.SongName))
	default:
		return t.S().Muted.Render("No song loaded")
	}
}

func hint(s State) string {
	if !s.Loaded {
		return "enter: load song"
	}
	return fmt.Sprintf("space: start %s", strings.TrimSpace(render.Sanitize(s.SongName)))
}
