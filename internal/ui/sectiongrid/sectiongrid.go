// Package sectiongrid renders a song's sections as a grid of numbered
// cells marking the active, queued and selected sections.
package sectiongrid

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/mysxn/internal/playback"
	"github.com/llehouerou/mysxn/internal/song"
	"github.com/llehouerou/mysxn/internal/ui/render"
	"github.com/llehouerou/mysxn/internal/ui/styles"
)

// CellWidth is the width of one section cell including its gap.
const CellWidth = 18

// Marks identifies the sections that get highlighted.
type Marks struct {
	Active  int
	Pending int
	// From is the outgoing section while transitioning.
	From   int
	Cursor int
}

// MarksFrom derives highlights from a snapshot.
func MarksFrom(snap playback.Snapshot, cursor int) Marks {
	m := Marks{
		Active:  playback.NoSection,
		Pending: playback.NoSection,
		From:    playback.NoSection,
		Cursor:  cursor,
	}
	if !snap.IsPlaying {
		return m
	}
	m.Active = snap.ActiveSectionIndex
	m.Pending = snap.PendingSectionIndex
	m.From = snap.TransitionFrom
	return m
}

// Columns returns how many cells fit in width.
func Columns(width int) int {
	return max(width/CellWidth, 1)
}

// Render lays out the sections of sg in rows that fit width.
func Render(sg song.Song, m Marks, width int, focused bool) string {
	if sg.Len() == 0 {
		return styles.T().S().Subtle.Render("No sections")
	}
	cols := Columns(width)
	var rows []string
	for start := 0; start < sg.Len(); start += cols {
		end := min(start+cols, sg.Len())
		cells := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cells = append(cells, cell(i, sg.Sections[i], m, focused))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(rows, "\n")
}

func cell(i int, sec song.Section, m Marks, focused bool) string {
	t := styles.T()
	marker := " "
	switch i {
	case m.Active:
		marker = "▶"
	case m.Pending:
		marker = "»"
	case m.From:
		marker = "◦"
	}
	label := fmt.Sprintf("%s%d %s", marker, i+1, render.Sanitize(sec.Name))
	typ := strings.ToUpper(sec.Type.String())
	if len(typ) > 0 {
		typ = typ[:1]
	}

	inner := CellWidth - 4
	name := render.Fit(label, inner-2)
	style := t.S().Base
	switch i {
	case m.Active:
		style = t.S().Active
	case m.Pending:
		style = t.S().Pending
	case m.From:
		style = t.S().Muted
	}
	if focused && i == m.Cursor {
		style = style.Background(t.BgCursor)
	}
	badge := lipgloss.NewStyle().Foreground(t.TypeColor(sec.Type.String())).Render(typ)
	body := style.Render(name) + " " + badge

	border := t.Border
	if focused && i == m.Cursor {
		border = t.BorderFocus
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border).
		MarginRight(1).
		Width(inner).
		Render(body)
}
