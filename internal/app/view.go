package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize/english"

	"github.com/llehouerou/mysxn/internal/keymap"
	"github.com/llehouerou/mysxn/internal/ui/playerbar"
	"github.com/llehouerou/mysxn/internal/ui/render"
	"github.com/llehouerou/mysxn/internal/ui/sectiongrid"
	"github.com/llehouerou/mysxn/internal/ui/styles"
)

const (
	songPaneWidth = 30
	minWidth      = 60
)

func (m Model) width() int {
	return max(m.Width, minWidth)
}

// gridWidth is the inner width of the sections pane.
func (m Model) gridWidth() int {
	return m.width() - songPaneWidth - 4
}

// View implements tea.Model.
func (m Model) View() string {
	t := styles.T()
	w := m.width()

	header := render.Row(
		styles.ApplyBoldGradient("mysxn", t.Primary, t.Secondary),
		t.S().Muted.Render(english.Plural(len(m.SongList), "song", "")),
		w,
	)

	left := t.Panel(m.Focus == FocusSongs).
		Width(songPaneWidth - 2).
		Render(m.renderSongs(songPaneWidth - 2))

	var right string
	if m.ShowHelp {
		right = m.renderHelp()
	} else {
		right = m.renderSections()
	}
	right = t.Panel(m.Focus == FocusSections).
		Width(m.gridWidth()).
		Render(right)

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	parts := []string{header, body}
	if m.GoToActive {
		parts = append(parts, m.GoTo.View())
	}
	if m.ErrorMsg != "" {
		parts = append(parts, t.S().Error.Render(render.Truncate(m.ErrorMsg, w)))
	}
	parts = append(parts, playerbar.Render(playerbar.NewState(m.Snapshot, m.Loaded, m.HasSong), w))
	return strings.Join(parts, "\n")
}

func (m Model) renderSongs(width int) string {
	t := styles.T()
	if len(m.SongList) == 0 {
		return t.S().Subtle.Render(render.Fit("No songs. Try `mysxn import`.", width))
	}
	lines := make([]string, 0, len(m.SongList))
	for i, sg := range m.SongList {
		marker := "  "
		switch {
		case sg.ID == m.LoadingID:
			marker = "… "
		case m.HasSong && sg.ID == m.Loaded.ID:
			marker = "● "
		}
		count := fmt.Sprintf(" %d", sg.Len())
		line := marker + render.Fit(sg.Name, width-lipgloss.Width(marker)-len(count)) + count

		style := t.S().Base
		if m.HasSong && sg.ID == m.Loaded.ID {
			style = t.S().Active
		}
		if i == m.SongCursor && m.Focus == FocusSongs {
			style = style.Background(t.BgCursor)
		}
		lines = append(lines, style.Render(line))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderSections() string {
	if !m.HasSong {
		return styles.T().S().Subtle.Render("Select a song and press enter")
	}
	marks := sectiongrid.MarksFrom(m.Snapshot, m.SectionCursor)
	return sectiongrid.Render(m.Loaded, marks, m.gridWidth(), m.Focus == FocusSections)
}

func (m Model) renderHelp() string {
	t := styles.T()
	var lines []string
	for _, ctx := range keymap.Contexts() {
		lines = append(lines, t.S().Title.Render(ctx))
		for _, b := range keymap.ByContext(ctx) {
			keys := strings.Join(displayKeys(b.Keys), ", ")
			lines = append(lines, "  "+render.Pad(keys, 18)+t.S().Muted.Render(b.Description))
		}
	}
	lines = append(lines, "  "+render.Pad("1-9", 18)+t.S().Muted.Render("Queue section"))
	return strings.Join(lines, "\n")
}

func displayKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == " " {
			k = "space"
		}
		out = append(out, k)
	}
	return out
}
