// Package buffers holds decoded, ready-to-play section audio keyed by section id.
package buffers

import (
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
)

// Buffer is a decoded section. The engine only needs its duration; output
// adapters may type-assert for the samples they know how to play.
type Buffer interface {
	Duration() time.Duration
}

// Store resolves a section id to its decoded buffer.
type Store interface {
	Get(sectionID string) (Buffer, bool)
}

// MemoryStore is a Store backed by a map. Safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	bufs map[string]Buffer
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{bufs: make(map[string]Buffer)}
}

// Get returns the buffer for a section.
func (s *MemoryStore) Get(sectionID string) (Buffer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bufs[sectionID]
	return b, ok
}

// Put stores a buffer, replacing any previous one for the section.
func (s *MemoryStore) Put(sectionID string, b Buffer) {
	s.mu.Lock()
	s.bufs[sectionID] = b
	s.mu.Unlock()
}

// Len returns the number of stored buffers.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bufs)
}

// Clear drops every buffer.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	s.bufs = make(map[string]Buffer)
	s.mu.Unlock()
}

var _ Store = (*MemoryStore)(nil)

// Silence is a sample-less buffer of fixed duration, used where only timing
// matters (tests, placeholders).
type Silence time.Duration

// Duration implements Buffer.
func (s Silence) Duration() time.Duration { return time.Duration(s) }

// PCM is a fully decoded section held in memory.
type PCM struct {
	buf *beep.Buffer
}

// NewPCM wraps a beep buffer.
func NewPCM(buf *beep.Buffer) *PCM {
	return &PCM{buf: buf}
}

// Duration implements Buffer.
func (p *PCM) Duration() time.Duration {
	return p.buf.Format().SampleRate.D(p.buf.Len())
}

// Beep returns the underlying sample buffer.
func (p *PCM) Beep() *beep.Buffer { return p.buf }

// Format returns the sample format.
func (p *PCM) Format() beep.Format { return p.buf.Format() }

// Len returns the number of frames.
func (p *PCM) Len() int { return p.buf.Len() }

// SizeBytes approximates the memory held by the decoded frames.
func (p *PCM) SizeBytes() uint64 {
	return uint64(p.buf.Len()) * 2 * 8 //nolint:gosec // Len is never negative
}
