package playback

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/mysxn/internal/buffers"
	"github.com/llehouerou/mysxn/internal/output"
	"github.com/llehouerou/mysxn/internal/song"
)

// Verify serviceImpl implements Service at compile time.
var _ Service = (*serviceImpl)(nil)

// command is a closure run on the loop goroutine; ran is closed once its
// events are published.
type command struct {
	fn  func()
	ran chan struct{}
}

// serviceImpl runs the scheduler on a single goroutine. Commands, ticks and
// natural-end notifications are serialized through it.
type serviceImpl struct {
	out   output.Output
	sched *Scheduler
	log   zerolog.Logger
	tick  time.Duration

	cmds     chan command
	ends     chan output.UnitID
	done     chan struct{}
	loopDone chan struct{}
	once     sync.Once

	subs   []*Subscription
	subsMu sync.RWMutex

	// owned by the loop goroutine
	last Snapshot
}

// New creates a playback service on out and starts its loop. A non-positive
// tick uses DefaultTickInterval.
func New(out output.Output, tick time.Duration, logger zerolog.Logger) Service {
	if tick <= 0 {
		tick = DefaultTickInterval
	}
	s := &serviceImpl{
		out:      out,
		log:      logger.With().Str("component", "playback").Logger(),
		tick:     tick,
		cmds:     make(chan command),
		ends:     make(chan output.UnitID, eventBufferSize),
		done:     make(chan struct{}),
		loopDone: make(chan struct{}),
		last:     stoppedSnapshot(false),
	}
	s.sched = NewScheduler(out, s.notifyEnded, logger)
	go s.run()
	return s
}

// notifyEnded is handed to every unit; it may be called from any goroutine.
func (s *serviceImpl) notifyEnded(id output.UnitID) {
	select {
	case s.ends <- id:
	case <-s.done:
	}
}

func (s *serviceImpl) run() {
	defer close(s.loopDone)
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			s.sched.Stop()
			return
		case c := <-s.cmds:
			c.fn()
			s.publish(false)
			close(c.ran)
		case id := <-s.ends:
			s.report("end", s.sched.HandleEnded(id))
			s.publish(false)
		case <-ticker.C:
			s.report("tick", s.sched.Tick(s.out.Now()))
			s.publish(true)
		}
	}
}

// do runs fn on the loop goroutine and waits until the resulting events are
// published. It returns false once the service is closed.
func (s *serviceImpl) do(fn func()) bool {
	c := command{fn: fn, ran: make(chan struct{})}
	select {
	case s.cmds <- c:
	case <-s.done:
		return false
	}
	<-c.ran
	return true
}

func (s *serviceImpl) report(op string, err error) {
	if err == nil {
		return
	}
	s.log.Error().Err(err).Str("op", op).Msg("playback error")
	s.broadcast(func(sub *Subscription) {
		sub.sendError(ErrorEvent{Operation: op, Err: err})
	})
}

// publish compares the scheduler with the last published snapshot and emits
// the differences.
func (s *serviceImpl) publish(ticked bool) {
	cur := s.sched.Snapshot()
	prev := s.last
	s.last = cur

	if cur.State != prev.State {
		s.broadcast(func(sub *Subscription) {
			sub.sendState(StateChange{Previous: prev.State, Current: cur.State})
		})
	}
	if cur.ActiveSectionIndex != prev.ActiveSectionIndex {
		s.broadcast(func(sub *Subscription) {
			sub.sendSection(SectionChange{
				Previous: prev.ActiveSectionIndex,
				Current:  cur.ActiveSectionIndex,
				Section:  cur.Section,
			})
		})
	}
	if cur.PendingSectionIndex != prev.PendingSectionIndex {
		s.broadcast(func(sub *Subscription) {
			sub.sendPending(PendingChange{Pending: cur.PendingSectionIndex})
		})
	}
	if ticked && cur.IsPlaying && !cur.Seeking {
		s.broadcast(func(sub *Subscription) {
			sub.sendPosition(PositionChange{
				Position:  cur.Position,
				Remaining: cur.Remaining,
				Duration:  cur.Duration,
			})
		})
	}
}

func (s *serviceImpl) broadcast(send func(*Subscription)) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()
	for _, sub := range s.subs {
		send(sub)
	}
}

// Load stops playback and replaces the song.
func (s *serviceImpl) Load(sg song.Song, store buffers.Store) {
	s.do(func() { s.sched.Load(sg, store) })
}

// Unload stops playback and forgets the song.
func (s *serviceImpl) Unload() {
	s.do(s.sched.Unload)
}

// Start plays the song from its first section.
func (s *serviceImpl) Start() error {
	err := ErrClosed
	s.do(func() { err = s.sched.Start() })
	return err
}

// Stop silences playback immediately.
func (s *serviceImpl) Stop() {
	s.do(s.sched.Stop)
}

// RequestTransition queues a move to another section.
func (s *serviceImpl) RequestTransition(index int) {
	s.do(func() { s.sched.RequestTransition(index) })
}

// CancelTransition clears the queued section.
func (s *serviceImpl) CancelTransition() {
	s.do(s.sched.CancelTransition)
}

// Seek restarts the active section at offset.
func (s *serviceImpl) Seek(offset time.Duration) error {
	err := ErrClosed
	s.do(func() { err = s.sched.Seek(offset) })
	return err
}

// BeginSeekGesture suspends position updates and triggers.
func (s *serviceImpl) BeginSeekGesture() {
	s.do(s.sched.BeginSeekGesture)
}

// EndSeekGesture resumes position updates and triggers.
func (s *serviceImpl) EndSeekGesture() error {
	err := ErrClosed
	s.do(func() { err = s.sched.EndSeekGesture() })
	return err
}

// Snapshot returns the current session view.
func (s *serviceImpl) Snapshot() Snapshot {
	snap := stoppedSnapshot(false)
	s.do(func() { snap = s.sched.Snapshot() })
	return snap
}

// Song returns the loaded song.
func (s *serviceImpl) Song() (song.Song, bool) {
	var (
		sg song.Song
		ok bool
	)
	s.do(func() { sg, ok = s.sched.Song() })
	return sg, ok
}

// Subscribe creates a new event subscription.
func (s *serviceImpl) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	s.subs = append(s.subs, sub)
	return sub
}

// Close stops playback and shuts down the service.
func (s *serviceImpl) Close() error {
	s.once.Do(func() {
		close(s.done)
		<-s.loopDone

		s.subsMu.Lock()
		for _, sub := range s.subs {
			sub.close()
		}
		s.subs = nil
		s.subsMu.Unlock()
	})
	return nil
}
