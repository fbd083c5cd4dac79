// Package songs persists the song library in SQLite and converts it to and
// from the JSON project file.
package songs

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	dbutil "github.com/llehouerou/mysxn/internal/db"
	"github.com/llehouerou/mysxn/internal/song"
)

const (
	appName    = "mysxn"
	dbFileName = "mysxn.db"
)

// ErrNotFound is returned when a song id is unknown.
var ErrNotFound = errors.New("song not found")

// Interface defines the song store contract.
type Interface interface {
	List() ([]song.Song, error)
	Get(id string) (song.Song, error)
	Save(sg song.Song) error
	SaveAll(songs []song.Song) error
	Delete(id string) error
	Import(r io.Reader) (int, error)
	Export(w io.Writer) error
	Close() error
}

// Verify Store implements Interface at compile time.
var _ Interface = (*Store)(nil)

// Store is the SQLite-backed song library.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens the library at path, creating it if needed.
func Open(path string) (*Store, error) {
	sqlDB, err := dbutil.Open(path)
	if err != nil {
		return nil, err
	}
	if err := initSchema(sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return &Store{db: sqlDB, now: time.Now}, nil
}

// OpenDefault opens the library in the XDG data directory.
func OpenDefault() (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return Open(path)
}

// DefaultPath returns the XDG location of the library.
func DefaultPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}

func (s *Store) Close() error {
	return s.db.Close()
}

// List returns every song in library order.
func (s *Store) List() ([]song.Song, error) {
	rows, err := s.db.Query(`SELECT id, name FROM songs ORDER BY position`)
	if err != nil {
		return nil, err
	}
	var list []song.Song
	for rows.Next() {
		var sg song.Song
		if err := rows.Scan(&sg.ID, &sg.Name); err != nil {
			rows.Close()
			return nil, err
		}
		list = append(list, sg)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range list {
		secs, err := loadSections(s.db, list[i].ID)
		if err != nil {
			return nil, err
		}
		list[i].Sections = secs
	}
	return list, nil
}

// Get returns one song.
func (s *Store) Get(id string) (song.Song, error) {
	sg := song.Song{ID: id}
	err := s.db.QueryRow(`SELECT name FROM songs WHERE id = ?`, id).Scan(&sg.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return song.Song{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return song.Song{}, err
	}
	sg.Sections, err = loadSections(s.db, id)
	if err != nil {
		return song.Song{}, err
	}
	return sg, nil
}

func loadSections(db *sql.DB, songID string) ([]song.Section, error) {
	rows, err := db.Query(`
		SELECT id, name, file, type, crossfade
		FROM sections
		WHERE song_id = ?
		ORDER BY position
	`, songID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	secs := []song.Section{}
	for rows.Next() {
		var sec song.Section
		var typ string
		var crossfade int
		if err := rows.Scan(&sec.ID, &sec.Name, &sec.File, &typ, &crossfade); err != nil {
			return nil, err
		}
		sec.Type, err = song.ParseType(typ)
		if err != nil {
			return nil, fmt.Errorf("song %s: %w", songID, err)
		}
		sec.Crossfade = crossfade != 0
		secs = append(secs, sec)
	}
	return secs, rows.Err()
}

// Save inserts or replaces one song, keeping its place in the library.
func (s *Store) Save(sg song.Song) error {
	if err := sg.Validate(); err != nil {
		return err
	}
	now := s.now().Unix()
	return dbutil.WithTx(s.db, func(tx *sql.Tx) error {
		var pos int
		err := tx.QueryRow(`SELECT position FROM songs WHERE id = ?`, sg.ID).Scan(&pos)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			if err := tx.QueryRow(`SELECT COALESCE(MAX(position) + 1, 0) FROM songs`).Scan(&pos); err != nil {
				return err
			}
		case err != nil:
			return err
		}
		return writeSong(tx, sg, pos, now)
	})
}

// SaveAll replaces the whole library in one transaction.
func (s *Store) SaveAll(songs []song.Song) error {
	for _, sg := range songs {
		if err := sg.Validate(); err != nil {
			return err
		}
	}
	now := s.now().Unix()
	return dbutil.WithTx(s.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM songs`); err != nil {
			return err
		}
		for i, sg := range songs {
			if err := writeSong(tx, sg, i, now); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeSong(tx *sql.Tx, sg song.Song, pos int, now int64) error {
	_, err := tx.Exec(`
		INSERT INTO songs (id, name, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, updated_at = excluded.updated_at
	`, sg.ID, sg.Name, pos, now, now)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM sections WHERE song_id = ?`, sg.ID); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
		INSERT INTO sections (song_id, position, id, name, file, type, crossfade)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, sec := range sg.Sections {
		_, err := stmt.Exec(sg.ID, i, sec.ID, sec.Name, sec.File, sec.Type.String(), dbutil.BoolToInt(sec.Crossfade))
		if err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a song and its sections.
func (s *Store) Delete(id string) error {
	res, err := s.db.Exec(`DELETE FROM songs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Import replaces the library with a JSON project and returns the number of
// songs read.
func (s *Store) Import(r io.Reader) (int, error) {
	p, err := song.ReadProject(r)
	if err != nil {
		return 0, err
	}
	if err := s.SaveAll(p.Songs); err != nil {
		return 0, err
	}
	return len(p.Songs), nil
}

// Export writes the library as a JSON project.
func (s *Store) Export(w io.Writer) error {
	list, err := s.List()
	if err != nil {
		return err
	}
	if list == nil {
		list = []song.Song{}
	}
	return song.WriteProject(w, song.Project{Songs: list})
}
