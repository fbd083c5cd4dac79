package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/mysxn/internal/errmsg"
	"github.com/llehouerou/mysxn/internal/keymap"
	"github.com/llehouerou/mysxn/internal/ui/sectiongrid"
)

// seekStep is the jump applied by the seek keys.
const seekStep = 5 * time.Second

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil
	case TickMsg:
		m.Snapshot = m.Playback.Snapshot()
		return m, m.TickCmd()
	case SongsLoadedMsg:
		return m.handleSongsLoaded(msg)
	case SongReadyMsg:
		return m.handleSongReady(msg)
	case ServiceStateChangedMsg, ServiceSectionChangedMsg, ServicePendingChangedMsg:
		m.Snapshot = m.Playback.Snapshot()
		return m, m.WatchServiceEvents()
	case ServiceErrorMsg:
		m.ErrorMsg = errmsg.Format(errmsg.ForPlayback(msg.Operation), msg.Err)
		m.Snapshot = m.Playback.Snapshot()
		return m, m.WatchServiceEvents()
	case ServiceClosedMsg:
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m Model) handleSongsLoaded(msg SongsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.ErrorMsg = errmsg.Format(errmsg.OpSongsList, msg.Err)
		return m, nil
	}
	m.SongList = msg.Songs
	m.SongCursor = min(m.SongCursor, max(len(m.SongList)-1, 0))
	return m, nil
}

func (m Model) handleSongReady(msg SongReadyMsg) (tea.Model, tea.Cmd) {
	if msg.Song.ID != m.LoadingID {
		// superseded by a later selection
		return m, nil
	}
	m.LoadingID = ""
	if msg.Err != nil {
		m.ErrorMsg = errmsg.FormatWith(errmsg.OpSongLoad, msg.Song.Name, msg.Err)
		return m, nil
	}
	m.Playback.Load(msg.Song, msg.Store)
	m.Loaded = msg.Song
	m.HasSong = true
	m.SectionCursor = 0
	m.Focus = FocusSections
	m.Snapshot = m.Playback.Snapshot()
	if missing := msg.Song.Len() - msg.Store.Len(); missing > 0 {
		m.log.Warn().Str("song", msg.Song.Name).Int("missing", missing).Msg("sections without audio")
	}
	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	if m.GoToActive {
		return m.handleGoToKey(msg)
	}
	m.ErrorMsg = ""

	if i, ok := keymap.SectionIndex(key); ok {
		m.queueSection(i)
		return m, nil
	}

	switch m.keys.Resolve(key) {
	case keymap.ActionQuit:
		return m, tea.Quit
	case keymap.ActionSwitchFocus:
		if m.Focus == FocusSongs {
			m.Focus = FocusSections
		} else {
			m.Focus = FocusSongs
		}
	case keymap.ActionHelp:
		m.ShowHelp = !m.ShowHelp
	case keymap.ActionReload:
		return m, m.LoadSongsCmd()
	case keymap.ActionPlayStop:
		return m.handlePlayStop()
	case keymap.ActionCancelTransition:
		m.Playback.CancelTransition()
		m.Snapshot = m.Playback.Snapshot()
	case keymap.ActionSeekForward:
		m.seekBy(seekStep)
	case keymap.ActionSeekBack:
		m.seekBy(-seekStep)
	case keymap.ActionGoTo:
		return m.openGoTo()
	case keymap.ActionMoveUp:
		m.moveCursor(-1, true)
	case keymap.ActionMoveDown:
		m.moveCursor(1, true)
	case keymap.ActionMoveLeft:
		m.moveCursor(-1, false)
	case keymap.ActionMoveRight:
		m.moveCursor(1, false)
	case keymap.ActionJumpStart:
		m.jump(false)
	case keymap.ActionJumpEnd:
		m.jump(true)
	case keymap.ActionSelect:
		return m.handleSelect()
	}
	return m, nil
}

func (m Model) handlePlayStop() (tea.Model, tea.Cmd) {
	if m.Snapshot.IsPlaying {
		m.Playback.Stop()
		m.Snapshot = m.Playback.Snapshot()
		return m, nil
	}
	if !m.HasSong {
		return m.handleSelect()
	}
	if err := m.Playback.Start(); err != nil {
		m.ErrorMsg = errmsg.FormatWith(errmsg.OpPlaybackStart, m.Loaded.Name, err)
	}
	m.Snapshot = m.Playback.Snapshot()
	return m, nil
}

func (m Model) handleSelect() (tea.Model, tea.Cmd) {
	if m.Focus == FocusSections && m.HasSong {
		m.queueSection(m.SectionCursor)
		return m, nil
	}
	sg, ok := m.Selected()
	if !ok {
		return m, nil
	}
	m.LoadingID = sg.ID
	return m, m.LoadSongCmd(m.SongCursor)
}

func (m *Model) queueSection(i int) {
	if !m.HasSong || i < 0 || i >= m.Loaded.Len() {
		return
	}
	m.SectionCursor = i
	m.Playback.RequestTransition(i)
	m.Snapshot = m.Playback.Snapshot()
}

func (m *Model) seekBy(delta time.Duration) {
	if !m.Snapshot.IsPlaying {
		return
	}
	m.Snapshot = m.Playback.Snapshot()
	target := max(m.Snapshot.Position+delta, 0)
	if err := m.Playback.Seek(target); err != nil {
		m.ErrorMsg = errmsg.Format(errmsg.OpPlaybackSeek, err)
	}
	m.Snapshot = m.Playback.Snapshot()
}

func (m *Model) moveCursor(delta int, vertical bool) {
	if m.Focus == FocusSongs {
		if !vertical {
			return
		}
		m.SongCursor = clampIndex(m.SongCursor+delta, len(m.SongList))
		return
	}
	if vertical {
		delta *= sectiongrid.Columns(m.gridWidth())
	}
	m.SectionCursor = clampIndex(m.SectionCursor+delta, m.Loaded.Len())
}

func (m *Model) jump(end bool) {
	n := len(m.SongList)
	if m.Focus == FocusSections {
		n = m.Loaded.Len()
	}
	i := 0
	if end {
		i = n - 1
	}
	if m.Focus == FocusSections {
		m.SectionCursor = clampIndex(i, n)
	} else {
		m.SongCursor = clampIndex(i, n)
	}
}

func clampIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	return min(max(i, 0), n-1)
}
