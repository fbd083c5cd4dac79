// Package app is the root bubbletea model of the transport UI.
package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/mysxn/internal/buffers"
	"github.com/llehouerou/mysxn/internal/keymap"
	"github.com/llehouerou/mysxn/internal/playback"
	"github.com/llehouerou/mysxn/internal/song"
	"github.com/llehouerou/mysxn/internal/songs"
)

// FocusTarget is the pane receiving navigation keys.
type FocusTarget int

const (
	FocusSongs FocusTarget = iota
	FocusSections
)

// SongLoader decodes the audio of a song's sections.
type SongLoader interface {
	Load(ctx context.Context, s song.Song) (*buffers.MemoryStore, error)
}

// Options wires the model to its collaborators.
type Options struct {
	Playback     playback.Service
	Songs        songs.Interface
	Loader       SongLoader
	TickInterval time.Duration
	Logger       zerolog.Logger
}

// Model is the root application model.
type Model struct {
	Playback playback.Service
	Songs    songs.Interface
	Loader   SongLoader

	keys *keymap.Resolver
	log  zerolog.Logger
	tick time.Duration
	sub  *playback.Subscription

	SongList      []song.Song
	SongCursor    int
	Loaded        song.Song
	HasSong       bool
	LoadingID     string
	SectionCursor int
	Focus         FocusTarget
	Snapshot      playback.Snapshot

	ShowHelp   bool
	ErrorMsg   string
	GoTo       textinput.Model
	GoToActive bool

	Width  int
	Height int
}

// New creates the root model. The playback service stays owned by the
// caller, which closes it after the program exits.
func New(opts Options) Model {
	tick := opts.TickInterval
	if tick <= 0 {
		tick = playback.DefaultTickInterval
	}
	ti := textinput.New()
	ti.Prompt = "go to: "
	ti.Placeholder = "m:ss"
	ti.CharLimit = 12

	return Model{
		Playback: opts.Playback,
		Songs:    opts.Songs,
		Loader:   opts.Loader,
		keys:     keymap.Default(),
		log:      opts.Logger.With().Str("component", "ui").Logger(),
		tick:     tick,
		sub:      opts.Playback.Subscribe(),
		Snapshot: opts.Playback.Snapshot(),
		GoTo:     ti,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.LoadSongsCmd(),
		m.TickCmd(),
		m.WatchServiceEvents(),
	)
}

// Selected returns the song under the list cursor.
func (m Model) Selected() (song.Song, bool) {
	if m.SongCursor < 0 || m.SongCursor >= len(m.SongList) {
		return song.Song{}, false
	}
	return m.SongList[m.SongCursor], true
}
