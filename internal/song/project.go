package song

import (
	"encoding/json"
	"fmt"
	"io"
)

// Project is the portable form of a song list, as exchanged in JSON files.
type Project struct {
	Songs []Song `json:"songs"`
}

// ReadProject decodes a project file and validates every song in it.
func ReadProject(r io.Reader) (Project, error) {
	var p Project
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Project{}, fmt.Errorf("decode project: %w", err)
	}
	if p.Songs == nil {
		p.Songs = []Song{}
	}
	for i, s := range p.Songs {
		if err := s.Validate(); err != nil {
			return Project{}, fmt.Errorf("song %d (%s): %w", i, s.Name, err)
		}
	}
	return p, nil
}

// WriteProject encodes the project as indented JSON.
func WriteProject(w io.Writer, p Project) error {
	if p.Songs == nil {
		p.Songs = []Song{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	return enc.Encode(p)
}

// Find returns the song with the given id.
func (p Project) Find(id string) (Song, bool) {
	for _, s := range p.Songs {
		if s.ID == id {
			return s, true
		}
	}
	return Song{}, false
}
