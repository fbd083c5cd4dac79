package app

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/mysxn/internal/buffers"
	dbutil "github.com/llehouerou/mysxn/internal/db"
	"github.com/llehouerou/mysxn/internal/playback"
	"github.com/llehouerou/mysxn/internal/song"
	"github.com/llehouerou/mysxn/internal/songs"
)

type fakeService struct {
	calls    []string
	targets  []int
	seeks    []time.Duration
	snap     playback.Snapshot
	startErr error
	loaded   *song.Song
	sub      *playback.Subscription
}

func newFakeService() *fakeService {
	return &fakeService{
		snap: playback.Snapshot{
			ActiveSectionIndex:  playback.NoSection,
			PendingSectionIndex: playback.NoSection,
			TransitionFrom:      playback.NoSection,
			TransitionTo:        playback.NoSection,
		},
		sub: &playback.Subscription{},
	}
}

func (f *fakeService) Load(sg song.Song, _ buffers.Store) {
	f.calls = append(f.calls, "load")
	f.loaded = &sg
}
func (f *fakeService) Unload() { f.calls = append(f.calls, "unload") }
func (f *fakeService) Start() error {
	f.calls = append(f.calls, "start")
	if f.startErr != nil {
		return f.startErr
	}
	f.snap.State = playback.StatePlaying
	f.snap.IsPlaying = true
	f.snap.ActiveSectionIndex = 0
	return nil
}
func (f *fakeService) Stop() {
	f.calls = append(f.calls, "stop")
	f.snap.State = playback.StateStopped
	f.snap.IsPlaying = false
}
func (f *fakeService) RequestTransition(i int) {
	f.calls = append(f.calls, "request")
	f.targets = append(f.targets, i)
}
func (f *fakeService) CancelTransition() { f.calls = append(f.calls, "cancel") }
func (f *fakeService) Seek(offset time.Duration) error {
	f.calls = append(f.calls, "seek")
	f.seeks = append(f.seeks, offset)
	return nil
}
func (f *fakeService) BeginSeekGesture() { f.calls = append(f.calls, "begin_seek") }
func (f *fakeService) EndSeekGesture() error {
	f.calls = append(f.calls, "end_seek")
	return nil
}
func (f *fakeService) Snapshot() playback.Snapshot { return f.snap }
func (f *fakeService) Song() (song.Song, bool) {
	if f.loaded == nil {
		return song.Song{}, false
	}
	return *f.loaded, true
}
func (f *fakeService) Subscribe() *playback.Subscription { return f.sub }
func (f *fakeService) Close() error                      { return nil }

var _ playback.Service = (*fakeService)(nil)

type fakeLoader struct {
	err error
}

func (l fakeLoader) Load(_ context.Context, s song.Song) (*buffers.MemoryStore, error) {
	store := buffers.NewMemoryStore()
	for _, sec := range s.Sections {
		store.Put(sec.ID, buffers.Silence(4*time.Second))
	}
	return store, l.err
}

func testSongs() []song.Song {
	return []song.Song{
		{
			ID:   "song_1",
			Name: "Opener",
			Sections: []song.Section{
				{ID: "a", Name: "Intro", Type: song.Intro, Crossfade: true},
				{ID: "b", Name: "Verse", Type: song.Loop, Crossfade: true},
				{ID: "c", Name: "Chorus", Type: song.Loop},
				{ID: "d", Name: "Outro", Type: song.Outro},
			},
		},
		{
			ID:       "song_2",
			Name:     "Closer",
			Sections: []song.Section{{ID: "e", Name: "Loop", Type: song.Loop}},
		},
	}
}

func newTestModel(t *testing.T) (Model, *fakeService) {
	t.Helper()
	store, err := songs.Open(dbutil.Memory)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.SaveAll(testSongs()))

	svc := newFakeService()
	m := New(Options{
		Playback: svc,
		Songs:    store,
		Loader:   fakeLoader{},
		Logger:   zerolog.Nop(),
	})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = update(t, m, m.LoadSongsCmd()())
	return m, svc
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(t *testing.T, m Model, key string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// loadFirstSong selects the first song and delivers its decoded audio.
func loadFirstSong(t *testing.T, m Model) Model {
	t.Helper()
	m, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)
	return update(t, m, cmd())
}

func TestModel_SongsLoaded(t *testing.T) {
	m, _ := newTestModel(t)

	require.Len(t, m.SongList, 2)
	assert.Equal(t, "Opener", m.SongList[0].Name)
	assert.Empty(t, m.ErrorMsg)
}

func TestModel_SongsLoadError(t *testing.T) {
	m, _ := newTestModel(t)

	m = update(t, m, SongsLoadedMsg{Err: errors.New("disk gone")})

	assert.Equal(t, "Failed to list songs: disk gone", m.ErrorMsg)
}

func TestModel_SelectLoadsSong(t *testing.T) {
	m, svc := newTestModel(t)

	m = loadFirstSong(t, m)

	assert.True(t, m.HasSong)
	assert.Equal(t, "song_1", m.Loaded.ID)
	assert.Equal(t, FocusSections, m.Focus)
	assert.Empty(t, m.LoadingID)
	assert.Equal(t, []string{"load"}, svc.calls)
}

func TestModel_StaleSongReadyIgnored(t *testing.T) {
	m, svc := newTestModel(t)
	m, first := press(t, m, "enter")
	m, _ = press(t, m, "j")
	m, second := press(t, m, "enter")

	m = update(t, m, first())
	assert.False(t, m.HasSong)

	m = update(t, m, second())
	assert.Equal(t, "song_2", m.Loaded.ID)
	assert.Equal(t, []string{"load"}, svc.calls)
}

func TestModel_SongLoadError(t *testing.T) {
	m, svc := newTestModel(t)
	m.Loader = fakeLoader{err: context.Canceled}

	m = loadFirstSong(t, m)

	assert.False(t, m.HasSong)
	assert.Equal(t, "Failed to load song 'Opener': context canceled", m.ErrorMsg)
	assert.Empty(t, svc.calls)
}

func TestModel_SpaceStartsAndStops(t *testing.T) {
	m, svc := newTestModel(t)
	m = loadFirstSong(t, m)

	m, _ = press(t, m, " ")
	assert.True(t, m.Snapshot.IsPlaying)

	m, _ = press(t, m, " ")
	assert.False(t, m.Snapshot.IsPlaying)
	assert.Equal(t, []string{"load", "start", "stop"}, svc.calls)
}

func TestModel_StartErrorShown(t *testing.T) {
	m, svc := newTestModel(t)
	m = loadFirstSong(t, m)
	svc.startErr = playback.ErrPlaybackUnavailable

	m, _ = press(t, m, " ")

	assert.Contains(t, m.ErrorMsg, "Failed to start playback 'Opener'")
	assert.False(t, m.Snapshot.IsPlaying)
}

func TestModel_DigitQueuesSection(t *testing.T) {
	m, svc := newTestModel(t)
	m = loadFirstSong(t, m)
	m, _ = press(t, m, " ")

	m, _ = press(t, m, "3")
	_, _ = press(t, m, "9")

	assert.Equal(t, []int{2}, svc.targets)
	assert.Equal(t, 2, m.SectionCursor)
}

func TestModel_EnterQueuesSectionUnderCursor(t *testing.T) {
	m, svc := newTestModel(t)
	m = loadFirstSong(t, m)
	m, _ = press(t, m, " ")

	m, _ = press(t, m, "l")
	m, _ = press(t, m, "l")
	m, _ = press(t, m, "enter")

	assert.Equal(t, 2, m.SectionCursor)
	assert.Equal(t, []int{2}, svc.targets)
}

func TestModel_EscCancelsTransition(t *testing.T) {
	m, svc := newTestModel(t)
	m = loadFirstSong(t, m)

	_, _ = press(t, m, "esc")

	assert.Contains(t, svc.calls, "cancel")
}

func TestModel_SeekKeys(t *testing.T) {
	m, svc := newTestModel(t)
	m = loadFirstSong(t, m)
	m, _ = press(t, m, " ")
	svc.snap.Position = 3 * time.Second

	m, _ = press(t, m, "L")
	_, _ = press(t, m, "H")

	assert.Equal(t, []time.Duration{8 * time.Second, 0}, svc.seeks)
}

func TestModel_GoToSeeksInsideGesture(t *testing.T) {
	m, svc := newTestModel(t)
	m = loadFirstSong(t, m)
	m, _ = press(t, m, " ")

	m, _ = press(t, m, ":")
	require.True(t, m.GoToActive)
	for _, r := range "0:02.5" {
		m, _ = press(t, m, string(r))
	}
	m, _ = press(t, m, "enter")

	assert.False(t, m.GoToActive)
	assert.Equal(t, []time.Duration{2500 * time.Millisecond}, svc.seeks)
	assert.Equal(t, []string{"load", "start", "begin_seek", "seek", "end_seek"}, svc.calls)
}

func TestModel_GoToCancelEndsGesture(t *testing.T) {
	m, svc := newTestModel(t)
	m = loadFirstSong(t, m)
	m, _ = press(t, m, " ")

	m, _ = press(t, m, ":")
	m, _ = press(t, m, "esc")

	assert.False(t, m.GoToActive)
	assert.Empty(t, svc.seeks)
	assert.Equal(t, []string{"load", "start", "begin_seek", "end_seek"}, svc.calls)
}

func TestModel_GoToIgnoredWhileStopped(t *testing.T) {
	m, svc := newTestModel(t)
	m = loadFirstSong(t, m)

	m, _ = press(t, m, ":")

	assert.False(t, m.GoToActive)
	assert.NotContains(t, svc.calls, "begin_seek")
}

func TestModel_ServiceErrorFormatted(t *testing.T) {
	m, _ := newTestModel(t)

	m = update(t, m, ServiceErrorMsg{Operation: "tick", Err: playback.ErrOutput})

	assert.Equal(t, "Failed to switch section: "+playback.ErrOutput.Error(), m.ErrorMsg)
}

func TestModel_TickRefreshesSnapshot(t *testing.T) {
	m, svc := newTestModel(t)
	svc.snap.Position = 1500 * time.Millisecond

	m = update(t, m, TickMsg(time.Now()))

	assert.Equal(t, 1500*time.Millisecond, m.Snapshot.Position)
}

func TestModel_SectionCursorMovesByRows(t *testing.T) {
	m, _ := newTestModel(t)
	m = loadFirstSong(t, m)
	m.Width = 60 // one column

	m, _ = press(t, m, "j")
	assert.Equal(t, 1, m.SectionCursor)

	m, _ = press(t, m, "G")
	assert.Equal(t, 3, m.SectionCursor)
	m, _ = press(t, m, "j")
	assert.Equal(t, 3, m.SectionCursor)

	m, _ = press(t, m, "tab")
	assert.Equal(t, FocusSongs, m.Focus)
}

func TestModel_View(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Contains(t, m.View(), "Opener")
	assert.Contains(t, m.View(), "2 songs")

	m = loadFirstSong(t, m)
	view := m.View()
	assert.Contains(t, view, "READY")
	assert.Contains(t, view, "1 Intro")

	m, _ = press(t, m, "?")
	assert.Contains(t, m.View(), "Queue section")
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"0:05", 5 * time.Second},
		{"1:02.5", time.Minute + 2500*time.Millisecond},
		{"12.5", 12500 * time.Millisecond},
		{"1m5s", 65 * time.Second},
		{" 7 ", 7 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePosition(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "x", "1:75", "-3", "a:10"} {
		_, err := ParsePosition(bad)
		assert.ErrorIs(t, err, errBadPosition, bad)
	}
}
