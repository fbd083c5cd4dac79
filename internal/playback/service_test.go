package playback

import (
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/mysxn/internal/output"
)

func newTestService(t *testing.T) (Service, *output.Mock) {
	t.Helper()
	out := output.NewMock()
	svc := New(out, DefaultTickInterval, zerolog.Nop())
	sg, store := testSong(true)
	svc.Load(sg, store)
	return svc, out
}

// drain returns every event currently buffered on ch.
func drain[T any](ch <-chan T) []T {
	var got []T
	for {
		select {
		case e := <-ch:
			got = append(got, e)
		default:
			return got
		}
	}
}

func TestNewSubscription_ChannelsReadable(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		sub := newSubscription()

		sub.sendState(StateChange{Previous: StateStopped, Current: StatePlaying})
		sub.sendSection(SectionChange{Previous: NoSection, Current: 0})
		sub.sendPending(PendingChange{Pending: 2})
		sub.sendPosition(PositionChange{Position: 3 * time.Second})
		sub.sendError(ErrorEvent{Operation: "tick"})

		assert.Equal(t, StatePlaying, (<-sub.StateChanged).Current)
		assert.Equal(t, 0, (<-sub.SectionChanged).Current)
		assert.Equal(t, 2, (<-sub.PendingChanged).Pending)
		assert.Equal(t, 3*time.Second, (<-sub.PositionChanged).Position)
		assert.Equal(t, "tick", (<-sub.Error).Operation)
	})
}

func TestSubscription_NonBlocking_DropsWhenFull(t *testing.T) {
	sub := newSubscription()

	for range eventBufferSize + 5 {
		sub.sendPosition(PositionChange{})
	}

	assert.Len(t, drain(sub.PositionChanged), eventBufferSize)
}

func TestService_StartEmitsStateAndSection(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, _ := newTestService(t)
		defer svc.Close()
		sub := svc.Subscribe()

		require.NoError(t, svc.Start())

		assert.Equal(t, []StateChange{{Previous: StateStopped, Current: StatePlaying}}, drain(sub.StateChanged))
		sections := drain(sub.SectionChanged)
		require.Len(t, sections, 1)
		assert.Equal(t, NoSection, sections[0].Previous)
		assert.Equal(t, 0, sections[0].Current)
		assert.Equal(t, "intro", sections[0].Section.ID)

		snap := svc.Snapshot()
		assert.True(t, snap.IsPlaying)
		assert.Equal(t, 0, snap.ActiveSectionIndex)
	})
}

func TestService_StartUnavailable(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		out := output.NewMock()
		svc := New(out, 0, zerolog.Nop())
		defer svc.Close()

		err := svc.Start()

		require.ErrorIs(t, err, ErrPlaybackUnavailable)
		assert.False(t, svc.Snapshot().IsPlaying)
	})
}

func TestService_TickPublishesPosition(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, out := newTestService(t)
		defer svc.Close()
		sub := svc.Subscribe()
		require.NoError(t, svc.Start())

		out.SetNow(time.Second)
		time.Sleep(DefaultTickInterval)
		synctest.Wait()

		positions := drain(sub.PositionChanged)
		require.NotEmpty(t, positions)
		last := positions[len(positions)-1]
		assert.Equal(t, time.Second, last.Position)
		assert.Equal(t, 3*time.Second, last.Remaining)
		assert.Equal(t, 4*time.Second, last.Duration)
	})
}

func TestService_SeekGestureSuppressesPosition(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, _ := newTestService(t)
		defer svc.Close()
		sub := svc.Subscribe()
		require.NoError(t, svc.Start())

		svc.BeginSeekGesture()
		drain(sub.PositionChanged)
		time.Sleep(5 * DefaultTickInterval)
		synctest.Wait()
		assert.Empty(t, drain(sub.PositionChanged))

		require.NoError(t, svc.Seek(2*time.Second))
		require.NoError(t, svc.EndSeekGesture())
		time.Sleep(DefaultTickInterval)
		synctest.Wait()
		assert.NotEmpty(t, drain(sub.PositionChanged))
		assert.Equal(t, 2*time.Second, svc.Snapshot().Position)
	})
}

func TestService_NaturalEndAdvances(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, out := newTestService(t)
		defer svc.Close()
		sub := svc.Subscribe()
		require.NoError(t, svc.Start())
		drain(sub.SectionChanged)

		out.Advance(4 * time.Second)
		synctest.Wait()

		sections := drain(sub.SectionChanged)
		require.Len(t, sections, 1)
		assert.Equal(t, 0, sections[0].Previous)
		assert.Equal(t, 1, sections[0].Current)
		assert.Equal(t, 1, svc.Snapshot().ActiveSectionIndex)
	})
}

func TestService_TransitionLifecycleEvents(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, out := newTestService(t)
		defer svc.Close()
		sub := svc.Subscribe()
		require.NoError(t, svc.Start())
		out.Advance(4 * time.Second)
		synctest.Wait()
		drain(sub.StateChanged)

		svc.RequestTransition(2)
		assert.Equal(t, []PendingChange{{Pending: 2}}, drain(sub.PendingChanged))

		// verse began at 4s and lasts 8s
		out.SetNow(10 * time.Second)
		time.Sleep(DefaultTickInterval)
		synctest.Wait()

		assert.Equal(t, []StateChange{{Previous: StatePlaying, Current: StateTransitioning}}, drain(sub.StateChanged))
		assert.Equal(t, []PendingChange{{Pending: NoSection}}, drain(sub.PendingChanged))
		snap := svc.Snapshot()
		assert.Equal(t, 1, snap.TransitionFrom)
		assert.Equal(t, 2, snap.TransitionTo)
	})
}

func TestService_TickErrorIsReported(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, out := newTestService(t)
		defer svc.Close()
		sub := svc.Subscribe()
		require.NoError(t, svc.Start())
		out.Advance(4 * time.Second)
		synctest.Wait()

		svc.RequestTransition(2)
		out.SetNewUnitError(errors.New("no voices left"))
		out.SetNow(10 * time.Second)
		time.Sleep(DefaultTickInterval)
		synctest.Wait()

		errs := drain(sub.Error)
		require.Len(t, errs, 1)
		assert.Equal(t, "tick", errs[0].Operation)
		assert.ErrorIs(t, errs[0].Err, ErrOutput)
		assert.False(t, svc.Snapshot().IsPlaying)
	})
}

func TestService_LoadSwitchesSong(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, out := newTestService(t)
		defer svc.Close()
		require.NoError(t, svc.Start())

		sg, store := loopSong()
		svc.Load(sg, store)

		assert.False(t, svc.Snapshot().IsPlaying)
		assert.Equal(t, 0, out.LiveUnits())
		got, ok := svc.Song()
		require.True(t, ok)
		assert.Equal(t, "song_2", got.ID)

		svc.Unload()
		_, ok = svc.Song()
		assert.False(t, ok)
	})
}

func TestService_CloseStopsAndSignalsDone(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		svc, out := newTestService(t)
		sub := svc.Subscribe()
		require.NoError(t, svc.Start())

		require.NoError(t, svc.Close())
		require.NoError(t, svc.Close())

		<-sub.Done
		assert.Equal(t, 0, out.LiveUnits())
		assert.ErrorIs(t, svc.Start(), ErrClosed)
		assert.Equal(t, StateStopped, svc.Snapshot().State)
	})
}
