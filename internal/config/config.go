package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	defaultSampleRate = 44100
	defaultBufferMS   = 100
	defaultTickMS     = 50
	defaultLogLevel   = "info"
)

type Config struct {
	// ProjectFolder is the base for relative section file paths.
	ProjectFolder string `koanf:"project_folder"` // empty means use cwd
	Database      string `koanf:"database"`       // empty means the XDG data dir
	LogFile       string `koanf:"log_file"`       // empty means the XDG state dir
	LogLevel      string `koanf:"log_level"`      // zerolog level name (default: "info")

	Audio    AudioConfig    `koanf:"audio"`
	Playback PlaybackConfig `koanf:"playback"`
}

// AudioConfig holds output device settings.
type AudioConfig struct {
	SampleRate int `koanf:"sample_rate"` // Hz (default: 44100)
	BufferMS   int `koanf:"buffer_ms"`   // speaker buffer length (default: 100)
}

// PlaybackConfig holds scheduler settings.
type PlaybackConfig struct {
	TickMS int `koanf:"tick_ms"` // position/trigger polling period (default: 50)
}

// Load reads the config files from their standard locations.
func Load() (*Config, error) {
	return LoadFiles(getConfigPaths()...)
}

// LoadFiles reads the given config files in order, later files overriding
// earlier ones. Missing files are skipped.
func LoadFiles(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.ProjectFolder = expandPath(cfg.ProjectFolder)
	cfg.Database = expandPath(cfg.Database)
	cfg.LogFile = expandPath(cfg.LogFile)

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/mysxn/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "mysxn", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetLogLevel returns the log level with the default applied.
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return defaultLogLevel
	}
	return c.LogLevel
}

// GetAudioConfig returns the audio configuration with defaults applied.
func (c *Config) GetAudioConfig() AudioConfig {
	cfg := c.Audio

	if cfg.SampleRate < 8000 || cfg.SampleRate > 192000 {
		cfg.SampleRate = defaultSampleRate
	}
	if cfg.BufferMS <= 0 || cfg.BufferMS > 1000 {
		cfg.BufferMS = defaultBufferMS
	}

	return cfg
}

// BufferDuration returns the speaker buffer length.
func (a AudioConfig) BufferDuration() time.Duration {
	return time.Duration(a.BufferMS) * time.Millisecond
}

// GetPlaybackConfig returns the playback configuration with defaults applied.
func (c *Config) GetPlaybackConfig() PlaybackConfig {
	cfg := c.Playback

	if cfg.TickMS <= 0 || cfg.TickMS > 1000 {
		cfg.TickMS = defaultTickMS
	}

	return cfg
}

// TickInterval returns the scheduler polling period.
func (p PlaybackConfig) TickInterval() time.Duration {
	return time.Duration(p.TickMS) * time.Millisecond
}
