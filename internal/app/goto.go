package app

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/mysxn/internal/errmsg"
)

var errBadPosition = errors.New("expected m:ss, seconds or a duration like 1m5s")

// openGoTo starts a seek gesture: position publishing pauses while the user
// types the target.
func (m Model) openGoTo() (tea.Model, tea.Cmd) {
	if !m.Snapshot.IsPlaying {
		return m, nil
	}
	m.Playback.BeginSeekGesture()
	m.GoToActive = true
	m.GoTo.SetValue("")
	cmd := m.GoTo.Focus()
	return m, cmd
}

func (m Model) handleGoToKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeGoTo()
		return m, nil
	case tea.KeyEnter:
		pos, err := ParsePosition(m.GoTo.Value())
		if err != nil {
			m.ErrorMsg = errmsg.Format(errmsg.OpPlaybackSeek, err)
		} else if err := m.Playback.Seek(pos); err != nil {
			m.ErrorMsg = errmsg.Format(errmsg.OpPlaybackSeek, err)
		}
		m.closeGoTo()
		return m, nil
	}
	var cmd tea.Cmd
	m.GoTo, cmd = m.GoTo.Update(msg)
	return m, cmd
}

func (m *Model) closeGoTo() {
	m.GoToActive = false
	m.GoTo.Blur()
	if err := m.Playback.EndSeekGesture(); err != nil {
		m.ErrorMsg = errmsg.Format(errmsg.OpAdvance, err)
	}
	m.Snapshot = m.Playback.Snapshot()
}

// ParsePosition reads a section offset typed as "m:ss", "m:ss.d", plain
// seconds ("12.5") or a Go duration ("1m5s").
func ParsePosition(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errBadPosition
	}
	if mins, secs, ok := strings.Cut(s, ":"); ok {
		m, err := strconv.Atoi(mins)
		if err != nil || m < 0 {
			return 0, fmt.Errorf("%w: %q", errBadPosition, s)
		}
		sec, err := strconv.ParseFloat(secs, 64)
		if err != nil || sec < 0 || sec >= 60 {
			return 0, fmt.Errorf("%w: %q", errBadPosition, s)
		}
		return time.Duration(m)*time.Minute + time.Duration(sec*float64(time.Second)), nil
	}
	if sec, err := strconv.ParseFloat(s, 64); err == nil {
		if sec < 0 {
			return 0, fmt.Errorf("%w: %q", errBadPosition, s)
		}
		return time.Duration(sec * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: %q", errBadPosition, s)
	}
	return d, nil
}
