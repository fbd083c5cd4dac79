// Package logging configures zerolog for the process. The TUI owns the
// terminal, so interactive runs log to a file.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures zerolog to write to w at the named level. Unknown or empty
// level names fall back to info.
func Setup(level string, w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	logger := zerolog.New(w).With().Timestamp().Logger().Level(lvl)
	log.Logger = logger
	return logger
}

// Console returns a human-readable writer on stderr, for non-interactive
// commands.
func Console() io.Writer {
	return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
}

// DefaultPath returns the XDG location of the log file.
func DefaultPath() (string, error) {
	return xdg.StateFile(filepath.Join("mysxn", "mysxn.log"))
}

// OpenFile opens path for appending, creating parent directories. An empty
// path uses DefaultPath.
func OpenFile(path string) (*os.File, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
