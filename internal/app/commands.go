package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickCmd returns a command that sends TickMsg after the tick interval.
func (m Model) TickCmd() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// LoadSongsCmd reads the song list from the store.
func (m Model) LoadSongsCmd() tea.Cmd {
	store := m.Songs
	return func() tea.Msg {
		list, err := store.List()
		return SongsLoadedMsg{Songs: list, Err: err}
	}
}

// LoadSongCmd decodes the sections of the song at index i. Decoding runs
// outside the update loop; the result is handed to the service on arrival.
func (m Model) LoadSongCmd(i int) tea.Cmd {
	if i < 0 || i >= len(m.SongList) || m.Loader == nil {
		return nil
	}
	sg := m.SongList[i]
	loader := m.Loader
	return func() tea.Msg {
		store, err := loader.Load(context.Background(), sg)
		return SongReadyMsg{Song: sg, Store: store, Err: err}
	}
}

// WatchServiceEvents returns a command that waits for the next playback
// service event. Position updates are not watched; the tick polls them.
func (m Model) WatchServiceEvents() tea.Cmd {
	if m.sub == nil {
		return nil
	}
	sub := m.sub
	return func() tea.Msg {
		select {
		case e := <-sub.StateChanged:
			return ServiceStateChangedMsg{
				Previous: int(e.Previous),
				Current:  int(e.Current),
			}
		case e := <-sub.SectionChanged:
			return ServiceSectionChangedMsg{Previous: e.Previous, Current: e.Current}
		case e := <-sub.PendingChanged:
			return ServicePendingChangedMsg{Pending: e.Pending}
		case e := <-sub.Error:
			return ServiceErrorMsg{Operation: e.Operation, Err: e.Err}
		case <-sub.Done:
			return ServiceClosedMsg{}
		}
	}
}
