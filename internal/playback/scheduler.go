package playback

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/mysxn/internal/buffers"
	"github.com/llehouerou/mysxn/internal/clock"
	"github.com/llehouerou/mysxn/internal/output"
	"github.com/llehouerou/mysxn/internal/song"
	"github.com/llehouerou/mysxn/internal/transition"
)

// session is the mutable state of one performance. It is reset to the zero
// session on stop and when another song is loaded.
type session struct {
	state   State
	active  int
	pending int
	section song.Section

	anchor   clock.Anchor
	duration time.Duration

	current output.Unit
	// ended is set when current ran out with nothing to follow.
	ended bool
	// countIn is true only for the unit Start began at index 0.
	countIn bool

	handoff *handoff

	// deferred holds a natural end that arrived during a seek gesture or
	// while the outgoing side of a handoff was still alive.
	deferred output.UnitID
}

// handoff tracks the outgoing side of a transition in flight. Its gain curve
// reaches the silence floor at stopAt.
type handoff struct {
	from     int
	outgoing output.Unit
	stopAt   time.Duration
}

func newSession() session {
	return session{active: NoSection, pending: NoSection}
}

// Scheduler is the section state machine. It is not safe for concurrent use:
// one goroutine feeds it ticks, commands and natural-end notifications (see
// Service).
type Scheduler struct {
	out    output.Output
	notify func(output.UnitID)
	log    zerolog.Logger

	song  *song.Song
	store buffers.Store

	sess    session
	seeking bool
}

// NewScheduler creates a stopped scheduler. notify receives the natural-end
// notifications of the units it starts and must hand them back through
// HandleEnded on the scheduler's goroutine.
func NewScheduler(out output.Output, notify func(output.UnitID), logger zerolog.Logger) *Scheduler {
	if notify == nil {
		notify = func(output.UnitID) {}
	}
	return &Scheduler{
		out:    out,
		notify: notify,
		log:    logger.With().Str("component", "scheduler").Logger(),
		sess:   newSession(),
	}
}

// Load stops playback and replaces the song and its buffers.
func (s *Scheduler) Load(sg song.Song, store buffers.Store) {
	s.Stop()
	s.song = &sg
	s.store = store
	s.log.Debug().Str("song", sg.ID).Int("sections", sg.Len()).Msg("song loaded")
}

// Unload stops playback and forgets the song.
func (s *Scheduler) Unload() {
	s.Stop()
	s.song = nil
	s.store = nil
}

// Song returns the loaded song.
func (s *Scheduler) Song() (song.Song, bool) {
	if s.song == nil {
		return song.Song{}, false
	}
	return *s.song, true
}

// Start plays the first section from its beginning. It does nothing when
// already playing.
func (s *Scheduler) Start() error {
	if s.sess.state != StateStopped {
		return nil
	}
	if s.song == nil || s.song.Len() == 0 || s.store == nil {
		return fmt.Errorf("%w: no song or no sections", ErrPlaybackUnavailable)
	}
	first := s.song.Sections[0]
	if _, ok := s.store.Get(first.ID); !ok {
		return fmt.Errorf("%w: section %q has no buffer", ErrPlaybackUnavailable, first.ID)
	}
	if err := s.play(0, 0); err != nil {
		s.sess = newSession()
		return err
	}
	s.sess.countIn = true
	s.log.Info().Str("song", s.song.ID).Msg("playback started")
	return nil
}

// Stop silences every live unit and resets the session. It never fails.
func (s *Scheduler) Stop() {
	wasActive := s.sess.state != StateStopped
	s.kill(s.sess.current)
	if h := s.sess.handoff; h != nil {
		s.kill(h.outgoing)
	}
	s.sess = newSession()
	if wasActive {
		s.log.Info().Msg("playback stopped")
	}
}

// RequestTransition queues a move to section i. The handoff happens once the
// active section is within transition.Window of its end. A later request
// replaces an earlier one that has not fired yet.
func (s *Scheduler) RequestTransition(i int) {
	if s.sess.state == StateStopped || s.song == nil {
		s.log.Debug().Int("target", i).Msg("transition request ignored while stopped")
		return
	}
	if i < 0 || i >= s.song.Len() || i == s.sess.active {
		s.log.Debug().Err(ErrInvalidTransitionTarget).Int("target", i).Int("active", s.sess.active).Msg("transition request ignored")
		return
	}
	s.sess.pending = i
	s.log.Debug().Int("target", i).Msg("transition pending")
}

// CancelTransition clears the pending request.
func (s *Scheduler) CancelTransition() {
	s.sess.pending = NoSection
}

// Seek restarts the active section at offset. Offsets are clamped into
// [0, duration). Seeking while stopped or mid-transition does nothing.
func (s *Scheduler) Seek(offset time.Duration) error {
	if s.sess.state != StatePlaying {
		return nil
	}
	countIn := s.sess.countIn
	pending := s.sess.pending
	if err := s.play(s.sess.active, offset); err != nil {
		return s.abort("seek", err)
	}
	s.sess.countIn = countIn
	s.sess.pending = pending
	return nil
}

// BeginSeekGesture freezes triggers and position publishing while the user
// drags the position.
func (s *Scheduler) BeginSeekGesture() {
	s.seeking = true
}

// EndSeekGesture resumes normal operation and delivers a natural end that was
// held back during the gesture.
func (s *Scheduler) EndSeekGesture() error {
	s.seeking = false
	id := s.sess.deferred
	if id == 0 || s.sess.handoff != nil {
		return nil
	}
	s.sess.deferred = 0
	return s.HandleEnded(id)
}

// Seeking reports whether a seek gesture is in progress.
func (s *Scheduler) Seeking() bool { return s.seeking }

// Tick advances the scheduler to device time now. It retires the outgoing side
// of a handoff once its tail has ended, and outside a seek gesture it fires at
// most one pending transition.
func (s *Scheduler) Tick(now time.Duration) error {
	if s.sess.state == StateStopped {
		return nil
	}
	if h := s.sess.handoff; h != nil {
		if now < h.stopAt {
			return nil
		}
		h.outgoing.Stop()
		s.sess.handoff = nil
		s.sess.state = StatePlaying
		s.log.Debug().Int("from", h.from).Int("to", s.sess.active).Msg("transition complete")
		if id := s.sess.deferred; id != 0 && !s.seeking {
			s.sess.deferred = 0
			return s.HandleEnded(id)
		}
		return nil
	}
	if s.seeking || s.sess.pending == NoSection {
		return nil
	}
	if s.sess.ended || transition.Due(s.sess.anchor.Remaining(now, s.sess.duration)) {
		if err := s.beginTransition(now); err != nil {
			return s.abort("transition", err)
		}
	}
	return nil
}

// HandleEnded processes the natural end of a unit. Notifications from units
// that are no longer current are discarded.
func (s *Scheduler) HandleEnded(id output.UnitID) error {
	cur := s.sess.current
	if s.sess.state == StateStopped || cur == nil || cur.ID() != id {
		s.log.Debug().Uint64("unit", uint64(id)).Msg("stale end notification")
		return nil
	}
	if s.seeking {
		s.sess.deferred = id
		return nil
	}
	if s.sess.handoff != nil {
		// incoming ran out before the outgoing tail finished
		s.sess.deferred = id
		return nil
	}

	if s.sess.pending != NoSection {
		if err := s.beginTransition(s.out.Now()); err != nil {
			return s.abort("transition", err)
		}
		return nil
	}

	sec := s.sess.section
	switch {
	case sec.Type == song.Outro:
		s.log.Debug().Int("section", s.sess.active).Msg("outro finished")
		s.Stop()
	case sec.Type == song.Intro && s.sess.countIn && s.sess.active == 0:
		next := s.sess.active + 1
		if next >= s.song.Len() {
			s.Stop()
			return nil
		}
		if err := s.play(next, 0); err != nil {
			return s.abort("advance", err)
		}
		s.log.Debug().Int("section", next).Msg("count-in finished")
	default:
		s.sess.ended = true
		s.log.Debug().Int("section", s.sess.active).Msg("section finished, holding")
	}
	return nil
}

// Snapshot returns the session as of the current device time.
func (s *Scheduler) Snapshot() Snapshot {
	return s.snapshotAt(s.out.Now())
}

func (s *Scheduler) snapshotAt(now time.Duration) Snapshot {
	if s.sess.state == StateStopped {
		return stoppedSnapshot(s.seeking)
	}
	snap := Snapshot{
		State:               s.sess.state,
		IsPlaying:           true,
		ActiveSectionIndex:  s.sess.active,
		PendingSectionIndex: s.sess.pending,
		TransitionFrom:      NoSection,
		TransitionTo:        NoSection,
		Duration:            s.sess.duration,
		Seeking:             s.seeking,
		Section:             s.sess.section,
	}
	if h := s.sess.handoff; h != nil {
		snap.TransitionFrom = h.from
		snap.TransitionTo = s.sess.active
	}
	if s.sess.ended {
		snap.Position = 0
		snap.Remaining = 0
		return snap
	}
	snap.Position = s.sess.anchor.Position(now, s.sess.duration)
	snap.Remaining = s.sess.anchor.Remaining(now, s.sess.duration)
	return snap
}

// play replaces the current unit with a fresh one for section i started now
// at offset. Nothing is torn down before the new unit exists.
func (s *Scheduler) play(i int, offset time.Duration) error {
	sec, buf, err := s.resolve(i)
	if err != nil {
		return err
	}
	u, err := s.out.NewUnit(buf)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOutput, err)
	}
	dur := buf.Duration()
	offset = clampOffset(offset, dur)

	s.kill(s.sess.current)
	s.sess.current = nil

	u.SetEndCallback(s.notify)
	u.Gain().SetValueNow(1)
	now := s.out.Now()
	if err := u.Start(now, offset, sec.Type.Loops()); err != nil {
		s.kill(u)
		return fmt.Errorf("%w: %w", ErrOutput, err)
	}

	s.sess.state = StatePlaying
	s.sess.active = i
	s.sess.pending = NoSection
	s.sess.section = sec
	s.sess.current = u
	s.sess.anchor = clock.Reanchor(now, offset)
	s.sess.duration = dur
	s.sess.ended = false
	s.sess.countIn = false
	s.sess.deferred = 0
	return nil
}

func (s *Scheduler) beginTransition(now time.Duration) error {
	j := s.sess.pending
	sec, buf, err := s.resolve(j)
	if err != nil {
		return err
	}
	in, err := s.out.NewUnit(buf)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOutput, err)
	}

	style := transition.StyleFor(s.sess.section.Crossfade)
	plan := transition.NewPlan(style, now, buf.Duration())
	in.SetEndCallback(s.notify)
	out := s.sess.current
	if err := plan.Begin(out, in, sec.Type.Loops()); err != nil {
		s.kill(in)
		return fmt.Errorf("%w: %w", ErrOutput, err)
	}

	s.log.Debug().
		Int("from", s.sess.active).
		Int("to", j).
		Stringer("style", style).
		Dur("offset", plan.Offset).
		Msg("transition started")

	s.sess.handoff = &handoff{from: s.sess.active, outgoing: out, stopAt: plan.StopAt}
	s.sess.state = StateTransitioning
	s.sess.active = j
	s.sess.pending = NoSection
	s.sess.section = sec
	s.sess.current = in
	s.sess.anchor = clock.Reanchor(plan.StartAt, plan.Offset)
	s.sess.duration = buf.Duration()
	s.sess.ended = false
	s.sess.countIn = false
	s.sess.deferred = 0
	return nil
}

func (s *Scheduler) resolve(i int) (song.Section, buffers.Buffer, error) {
	if s.song == nil || s.store == nil {
		return song.Section{}, nil, ErrPlaybackUnavailable
	}
	sec, ok := s.song.Section(i)
	if !ok {
		return song.Section{}, nil, fmt.Errorf("%w: %d", ErrInvalidTransitionTarget, i)
	}
	buf, ok := s.store.Get(sec.ID)
	if !ok {
		return sec, nil, fmt.Errorf("%w: section %q", ErrBufferMissing, sec.ID)
	}
	return sec, buf, nil
}

// abort stops playback after a failed operation and returns err.
func (s *Scheduler) abort(op string, err error) error {
	s.log.Error().Err(err).Str("op", op).Msg("playback aborted")
	s.Stop()
	return err
}

func (s *Scheduler) kill(u output.Unit) {
	if u == nil {
		return
	}
	u.SetEndCallback(nil)
	u.Stop()
}

// clampOffset maps offset into [0, duration).
func clampOffset(offset, duration time.Duration) time.Duration {
	if offset < 0 || duration <= 0 {
		return 0
	}
	if offset >= duration {
		return duration - 1
	}
	return offset
}
