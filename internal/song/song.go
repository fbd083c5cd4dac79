// Package song defines songs and their sections as read by the playback engine.
package song

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Type determines what a section does when it reaches its natural end.
type Type string

const (
	Intro Type = "intro"
	Loop  Type = "loop"
	Outro Type = "outro"
)

// ErrUnknownType is returned when a section type is not intro, loop or outro.
var ErrUnknownType = errors.New("unknown section type")

// ParseType converts a stored type name into a Type.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case Intro, Loop, Outro:
		return Type(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}

// String returns the type name.
func (t Type) String() string { return string(t) }

// Loops reports whether sections of this type repeat on the device until
// something replaces them.
func (t Type) Loops() bool { return t == Loop }

// Label returns the upper-case badge shown while a section of this type plays.
func (t Type) Label() string {
	switch t {
	case Intro:
		return "INTRO"
	case Outro:
		return "OUTRO"
	case Loop:
		return "LOOPING"
	default:
		return "UNKNOWN"
	}
}

// Section is one labeled segment of a song backed by one audio file.
type Section struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	File string `json:"file"`
	Type Type   `json:"type"`
	// Crossfade selects the transition style used when leaving this section.
	Crossfade bool `json:"crossfade"`
}

// UnmarshalJSON decodes a section, defaulting crossfade to true when the
// field is absent.
func (s *Section) UnmarshalJSON(data []byte) error {
	type raw Section
	aux := struct {
		*raw
		Crossfade *bool `json:"crossfade"`
	}{raw: (*raw)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.Crossfade = aux.Crossfade == nil || *aux.Crossfade
	return nil
}

// Song is an ordered sequence of sections.
type Song struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Sections []Section `json:"sections"`
}

// New creates a song with a default intro/outro pair, the starting point for
// authoring a new project entry.
func New(name string) Song {
	return Song{
		ID:   "song_" + uuid.NewString(),
		Name: name,
		Sections: []Section{
			{ID: NewSectionID(), Name: "Intro", Type: Intro, Crossfade: true},
			{ID: NewSectionID(), Name: "Outro", Type: Outro, Crossfade: true},
		},
	}
}

// NewSectionID returns a fresh section identifier.
func NewSectionID() string {
	return "s_" + uuid.NewString()
}

// Validate checks that the song can be stored and played back.
func (s Song) Validate() error {
	if s.ID == "" {
		return errors.New("song id is empty")
	}
	seen := make(map[string]struct{}, len(s.Sections))
	for i, sec := range s.Sections {
		if sec.ID == "" {
			return fmt.Errorf("section %d: id is empty", i)
		}
		if _, dup := seen[sec.ID]; dup {
			return fmt.Errorf("section %d: duplicate id %q", i, sec.ID)
		}
		seen[sec.ID] = struct{}{}
		if _, err := ParseType(string(sec.Type)); err != nil {
			return fmt.Errorf("section %d: %w", i, err)
		}
	}
	return nil
}

// Section returns the section at index i, or false when out of range.
func (s Song) Section(i int) (Section, bool) {
	if i < 0 || i >= len(s.Sections) {
		return Section{}, false
	}
	return s.Sections[i], true
}

// Len returns the number of sections.
func (s Song) Len() int { return len(s.Sections) }
