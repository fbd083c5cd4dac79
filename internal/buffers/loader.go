package buffers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/wav"
	"github.com/rs/zerolog"

	"github.com/llehouerou/mysxn/internal/song"
)

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extWAV  = ".wav"

	resampleQuality = 4
)

// ErrUnsupportedFormat is returned for files the loader cannot decode.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// IsAudioFile reports whether the loader can decode the file.
func IsAudioFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case extMP3, extFLAC, extWAV:
		return true
	}
	return false
}

// Loader decodes section files into in-memory buffers.
type Loader struct {
	// BaseDir anchors relative section paths such as "./sound/in.wav".
	BaseDir string
	// SampleRate is the output rate; buffers at other rates are resampled.
	// Zero keeps each file's own rate.
	SampleRate beep.SampleRate

	log zerolog.Logger
}

// NewLoader creates a loader.
func NewLoader(baseDir string, rate beep.SampleRate, logger zerolog.Logger) *Loader {
	return &Loader{
		BaseDir:    baseDir,
		SampleRate: rate,
		log:        logger.With().Str("component", "loader").Logger(),
	}
}

// Resolve turns a section file reference into a filesystem path.
func (l *Loader) Resolve(file string) string {
	if file == "" || filepath.IsAbs(file) || l.BaseDir == "" {
		return file
	}
	return filepath.Join(l.BaseDir, filepath.Clean(file))
}

// Load decodes every section of s. Sections without a file, or whose file
// fails to decode, are logged and left out of the store; playback of them
// fails later with a missing-buffer error. Only cancellation is returned.
func (l *Loader) Load(ctx context.Context, s song.Song) (*MemoryStore, error) {
	store := NewMemoryStore()
	var total uint64
	for _, sec := range s.Sections {
		if err := ctx.Err(); err != nil {
			return store, err
		}
		if sec.File == "" {
			continue
		}
		path := l.Resolve(sec.File)
		pcm, err := l.Decode(path)
		if err != nil {
			l.log.Error().Err(err).Str("section", sec.Name).Str("path", path).Msg("failed to load audio")
			continue
		}
		store.Put(sec.ID, pcm)
		total += pcm.SizeBytes()
		l.log.Debug().
			Str("section", sec.Name).
			Dur("duration", pcm.Duration()).
			Msg("loaded")
	}
	l.log.Info().
		Str("song", s.Name).
		Int("buffers", store.Len()).
		Str("memory", humanize.IBytes(total)).
		Msg("song audio ready")
	return store, nil
}

// Decode reads a whole file into memory.
func (l *Loader) Decode(path string) (*PCM, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsAudioFile(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch ext {
	case extMP3:
		streamer, format, err = decodeMP3(f)
	case extFLAC:
		if err := skipID3v2(f); err != nil {
			f.Close()
			return nil, err
		}
		streamer, format, err = flac.Decode(f)
	case extWAV:
		streamer, format, err = wav.Decode(f)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	defer streamer.Close()

	var src beep.Streamer = streamer
	if l.SampleRate != 0 && format.SampleRate != l.SampleRate {
		src = beep.Resample(resampleQuality, format.SampleRate, l.SampleRate, streamer)
		format.SampleRate = l.SampleRate
	}

	buf := beep.NewBuffer(format)
	buf.Append(src)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return NewPCM(buf), nil
}

// skipID3v2 skips an ID3v2 tag prepended to a FLAC stream, which the FLAC
// decoder does not understand.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return err
	}
	if n < 10 || string(header[:3]) != "ID3" {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}
	// syncsafe size: 7 bits per byte
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])
	_, err = r.Seek(10+size, io.SeekStart)
	return err
}
