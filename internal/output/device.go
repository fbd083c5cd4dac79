package output

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/llehouerou/mysxn/internal/buffers"
)

var _ beep.Streamer = (*Device)(nil)

// Device mixes units onto the speaker. Its clock is the number of frames it
// has produced, so every scheduled instant maps to an exact sample.
type Device struct {
	rate beep.SampleRate

	mu      sync.Mutex
	frames  atomic.Int64
	units   []*deviceUnit
	scratch [][2]float64
	levels  []float64

	nextID atomic.Uint64
}

// NewDevice creates a mixer at the given sample rate. It produces sound only
// once handed to a speaker (see OpenSpeaker); tests drive Stream directly.
func NewDevice(rate beep.SampleRate) *Device {
	return &Device{rate: rate}
}

// OpenSpeaker initializes the speaker and starts mixing into it.
func OpenSpeaker(rate beep.SampleRate, latency time.Duration) (*Device, error) {
	if err := speaker.Init(rate, rate.N(latency)); err != nil {
		return nil, err
	}
	d := NewDevice(rate)
	speaker.Play(d)
	return d, nil
}

// Close detaches every streamer from the speaker.
func (d *Device) Close() {
	speaker.Clear()
	speaker.Close()
}

// SampleRate returns the mixing rate.
func (d *Device) SampleRate() beep.SampleRate { return d.rate }

func (d *Device) Now() time.Duration {
	return d.rate.D(int(d.frames.Load()))
}

func (d *Device) NewUnit(buf buffers.Buffer) (Unit, error) {
	pcm, ok := buf.(*buffers.PCM)
	if !ok {
		return nil, ErrUnsupportedBuffer
	}
	return &deviceUnit{
		dev:  d,
		id:   UnitID(d.nextID.Add(1)),
		pcm:  pcm,
		gain: NewAutomation(1),
	}, nil
}

// Stream implements beep.Streamer. It always fills samples, with silence
// when nothing plays, so the device clock keeps running.
func (d *Device) Stream(samples [][2]float64) (n int, ok bool) {
	d.mu.Lock()
	base := d.frames.Load()
	n = len(samples)
	for i := range samples {
		samples[i] = [2]float64{}
	}
	if cap(d.scratch) < n {
		d.scratch = make([][2]float64, n)
		d.levels = make([]float64, n)
	}
	scratch := d.scratch[:n]
	levels := d.levels[:n]

	var ended []*deviceUnit
	live := d.units[:0]
	for _, u := range d.units {
		if u.stopped {
			continue
		}
		if u.mix(samples, scratch, levels, base) {
			ended = append(ended, u)
			continue
		}
		live = append(live, u)
	}
	for i := len(live); i < len(d.units); i++ {
		d.units[i] = nil
	}
	d.units = live
	d.frames.Add(int64(n))

	type notify struct {
		id UnitID
		fn func(UnitID)
	}
	var notifies []notify
	for _, u := range ended {
		if u.onEnd != nil {
			notifies = append(notifies, notify{u.id, u.onEnd})
		}
	}
	d.mu.Unlock()

	// never call back into the scheduler from the audio thread
	for _, nt := range notifies {
		go nt.fn(nt.id)
	}
	return n, true
}

func (d *Device) Err() error { return nil }

type deviceUnit struct {
	dev  *Device
	id   UnitID
	pcm  *buffers.PCM
	gain *Automation

	// guarded by dev.mu
	src        beep.StreamSeeker
	startFrame int64
	loop       bool
	started    bool
	stopped    bool
	onEnd      func(UnitID)
}

func (u *deviceUnit) ID() UnitID { return u.id }

func (u *deviceUnit) Start(at, offset time.Duration, loop bool) error {
	u.dev.mu.Lock()
	defer u.dev.mu.Unlock()
	if u.started {
		return ErrAlreadyStarted
	}
	buf := u.pcm.Beep()
	src := buf.Streamer(0, buf.Len())
	from := min(max(u.dev.rate.N(offset), 0), buf.Len())
	if err := src.Seek(from); err != nil {
		return err
	}
	u.src = src
	u.startFrame = int64(u.dev.rate.N(at))
	u.loop = loop
	u.started = true
	if !u.stopped {
		u.dev.units = append(u.dev.units, u)
	}
	return nil
}

func (u *deviceUnit) SetLoop(loop bool) {
	u.dev.mu.Lock()
	u.loop = loop
	u.dev.mu.Unlock()
}

func (u *deviceUnit) Stop() {
	u.dev.mu.Lock()
	u.stopped = true
	u.dev.mu.Unlock()
}

func (u *deviceUnit) SetEndCallback(fn func(UnitID)) {
	u.dev.mu.Lock()
	u.onEnd = fn
	u.dev.mu.Unlock()
}

func (u *deviceUnit) Gain() Gain {
	return boundGain{a: u.gain, now: u.dev.Now}
}

// mix adds the unit's contribution for frames [base, base+len(out)) and
// reports whether the unit ran out. Called with dev.mu held.
func (u *deviceUnit) mix(out, scratch [][2]float64, levels []float64, base int64) bool {
	n := int64(len(out))
	first := u.startFrame - base
	if first >= n {
		return false
	}
	i := int(max(first, 0))
	for i < len(out) {
		k, _ := u.src.Stream(scratch[i:])
		if k == 0 {
			if u.loop && u.src.Len() > 0 {
				if err := u.src.Seek(0); err != nil {
					return true
				}
				continue
			}
			return true
		}
		u.gain.Levels(u.dev.rate.D(int(base)+i), u.dev.rate.D(1), levels[i:i+k])
		for j := i; j < i+k; j++ {
			out[j][0] += scratch[j][0] * levels[j]
			out[j][1] += scratch[j][1] * levels[j]
		}
		i += k
	}
	return false
}

var (
	_ Output = (*Device)(nil)
	_ Unit   = (*deviceUnit)(nil)
)
