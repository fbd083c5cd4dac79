package output

import (
	"sync"
	"time"

	"github.com/llehouerou/mysxn/internal/buffers"
)

// Mock is a test double for Output. It keeps a manual device clock, records
// every command and produces no sound.
type Mock struct {
	mu       sync.Mutex
	now      time.Duration
	nextID   UnitID
	units    []*MockUnit
	unitErr  error
	startErr error
}

// NewMock creates a mock output with its clock at zero.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Mock) NewUnit(buf buffers.Buffer) (Unit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unitErr != nil {
		return nil, m.unitErr
	}
	m.nextID++
	u := &MockUnit{
		mock: m,
		id:   m.nextID,
		buf:  buf,
		gain: NewAutomation(1),
	}
	m.units = append(m.units, u)
	return u, nil
}

// Test helpers

// SetNow moves the device clock to t without delivering end notifications.
func (m *Mock) SetNow(t time.Duration) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

// Advance moves the device clock forward and delivers the natural-end
// notifications of units whose buffer ran out in the meantime.
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	m.now += d
	now := m.now
	type ended struct {
		id UnitID
		fn func(UnitID)
	}
	var fired []ended
	for _, u := range m.units {
		if !u.started || u.stopped || u.ended || u.loop || u.endAt > now {
			continue
		}
		u.ended = true
		if u.onEnd != nil {
			fired = append(fired, ended{u.id, u.onEnd})
		}
	}
	m.mu.Unlock()

	for _, e := range fired {
		e.fn(e.id)
	}
}

// SetNewUnitError makes NewUnit fail.
func (m *Mock) SetNewUnitError(err error) {
	m.mu.Lock()
	m.unitErr = err
	m.mu.Unlock()
}

// SetStartError makes Unit.Start fail.
func (m *Mock) SetStartError(err error) {
	m.mu.Lock()
	m.startErr = err
	m.mu.Unlock()
}

// Units returns every unit created so far, oldest first.
func (m *Mock) Units() []*MockUnit {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*MockUnit(nil), m.units...)
}

// Last returns the most recently created unit, or nil.
func (m *Mock) Last() *MockUnit {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.units) == 0 {
		return nil
	}
	return m.units[len(m.units)-1]
}

// LiveUnits counts units that were started and have neither been stopped nor
// ended on their own.
func (m *Mock) LiveUnits() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, u := range m.units {
		if u.started && !u.stopped && !u.ended {
			n++
		}
	}
	return n
}

// AudibleAt counts units producing sound at device time t, as far as the
// recorded commands tell.
func (m *Mock) AudibleAt(t time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, u := range m.units {
		if u.audibleAt(t) {
			n++
		}
	}
	return n
}

// MockUnit records the commands issued to one unit.
type MockUnit struct {
	mock *Mock
	id   UnitID
	buf  buffers.Buffer
	gain *Automation

	started   bool
	startAt   time.Duration
	offset    time.Duration
	loop      bool
	endAt     time.Duration
	ended     bool
	stopped   bool
	stoppedAt time.Duration
	stopCalls int
	onEnd     func(UnitID)
}

func (u *MockUnit) ID() UnitID { return u.id }

func (u *MockUnit) Start(at, offset time.Duration, loop bool) error {
	u.mock.mu.Lock()
	defer u.mock.mu.Unlock()
	if u.mock.startErr != nil {
		return u.mock.startErr
	}
	if u.started {
		return ErrAlreadyStarted
	}
	u.started = true
	u.startAt = at
	u.offset = offset
	u.loop = loop
	u.endAt = at + u.buf.Duration() - offset
	return nil
}

func (u *MockUnit) SetLoop(loop bool) {
	u.mock.mu.Lock()
	defer u.mock.mu.Unlock()
	if u.loop == loop {
		return
	}
	u.loop = loop
	if loop || !u.started {
		return
	}
	// finish the pass in progress
	now := u.mock.now
	dur := u.buf.Duration()
	if now < u.startAt || dur <= 0 {
		u.endAt = u.startAt + dur - u.offset
		return
	}
	pos := (u.offset + now - u.startAt) % dur
	u.endAt = now + dur - pos
}

func (u *MockUnit) Stop() {
	u.mock.mu.Lock()
	defer u.mock.mu.Unlock()
	u.stopCalls++
	if u.stopped {
		return
	}
	u.stopped = true
	u.stoppedAt = u.mock.now
}

func (u *MockUnit) SetEndCallback(fn func(UnitID)) {
	u.mock.mu.Lock()
	u.onEnd = fn
	u.mock.mu.Unlock()
}

func (u *MockUnit) Gain() Gain {
	return boundGain{a: u.gain, now: u.mock.Now}
}

// Test helpers

// Buffer returns the buffer the unit was created with.
func (u *MockUnit) Buffer() buffers.Buffer { return u.buf }

// StartAt returns the device time passed to Start.
func (u *MockUnit) StartAt() time.Duration {
	u.mock.mu.Lock()
	defer u.mock.mu.Unlock()
	return u.startAt
}

// Offset returns the buffer offset passed to Start.
func (u *MockUnit) Offset() time.Duration {
	u.mock.mu.Lock()
	defer u.mock.mu.Unlock()
	return u.offset
}

// Started reports whether Start succeeded.
func (u *MockUnit) Started() bool {
	u.mock.mu.Lock()
	defer u.mock.mu.Unlock()
	return u.started
}

// Looping reports the current loop flag.
func (u *MockUnit) Looping() bool {
	u.mock.mu.Lock()
	defer u.mock.mu.Unlock()
	return u.loop
}

// Stopped reports whether Stop was called, and when.
func (u *MockUnit) Stopped() (bool, time.Duration) {
	u.mock.mu.Lock()
	defer u.mock.mu.Unlock()
	return u.stopped, u.stoppedAt
}

// StopCalls returns how many times Stop was called.
func (u *MockUnit) StopCalls() int {
	u.mock.mu.Lock()
	defer u.mock.mu.Unlock()
	return u.stopCalls
}

// Ended reports whether the unit ran out on its own.
func (u *MockUnit) Ended() bool {
	u.mock.mu.Lock()
	defer u.mock.mu.Unlock()
	return u.ended
}

// HasEndCallback reports whether a natural-end callback is registered.
func (u *MockUnit) HasEndCallback() bool {
	u.mock.mu.Lock()
	defer u.mock.mu.Unlock()
	return u.onEnd != nil
}

// GainAt evaluates the recorded gain timeline at device time t.
func (u *MockUnit) GainAt(t time.Duration) float64 {
	return u.gain.ValueAt(t)
}

func (u *MockUnit) audibleAt(t time.Duration) bool {
	if !u.started || t < u.startAt {
		return false
	}
	if u.stopped && t >= u.stoppedAt {
		return false
	}
	if !u.loop && t >= u.endAt {
		return false
	}
	return u.gain.ValueAt(t) > 0
}

var (
	_ Output = (*Mock)(nil)
	_ Unit   = (*MockUnit)(nil)
)
