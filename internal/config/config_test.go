package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "tilde expands to home",
			input:    "~/music",
			expected: filepath.Join(home, "music"),
		},
		{
			name:     "tilde with nested path",
			input:    "~/music/library/albums",
			expected: filepath.Join(home, "music", "library", "albums"),
		},
		{
			name:     "absolute path unchanged",
			input:    "/usr/local/music",
			expected: "/usr/local/music",
		},
		{
			name:     "relative path unchanged",
			input:    "music/albums",
			expected: "music/albums",
		},
		{
			name:     "empty string unchanged",
			input:    "",
			expected: "",
		},
		{
			name:     "tilde only",
			input:    "~",
			expected: home,
		},
		{
			name:     "tilde with slash",
			input:    "~/",
			expected: filepath.Join(home, ""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandPath(tt.input)
			if result != tt.expected {
				t.Errorf("expandPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()

	// Should have at least one path
	if len(paths) == 0 {
		t.Error("getConfigPaths() returned empty slice")
	}

	// Last path should be local config.toml
	lastPath := paths[len(paths)-1]
	if lastPath != "config.toml" {
		t.Errorf("last config path = %q, want %q", lastPath, "config.toml")
	}

	// If we have home dir, first path should be ~/.config/mysxn/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		expectedFirst := filepath.Join(home, ".config", "mysxn", "config.toml")
		if paths[0] != expectedFirst {
			t.Errorf("first config path = %q, want %q", paths[0], expectedFirst)
		}
	}
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFiles_Defaults(t *testing.T) {
	cfg, err := LoadFiles(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)

	assert.Empty(t, cfg.ProjectFolder)
	assert.Equal(t, "info", cfg.GetLogLevel())
	assert.Equal(t, AudioConfig{SampleRate: 44100, BufferMS: 100}, cfg.GetAudioConfig())
	assert.Equal(t, 100*time.Millisecond, cfg.GetAudioConfig().BufferDuration())
	assert.Equal(t, 50*time.Millisecond, cfg.GetPlaybackConfig().TickInterval())
}

func TestLoadFiles_LaterFileWins(t *testing.T) {
	dir := t.TempDir()
	global := writeConfig(t, dir, "global.toml", `
project_folder = "/srv/sounds"
log_level = "debug"

[audio]
sample_rate = 48000
buffer_ms = 200
`)
	local := writeConfig(t, dir, "local.toml", `
project_folder = "/home/me/set"

[playback]
tick_ms = 20
`)

	cfg, err := LoadFiles(global, local)
	require.NoError(t, err)

	assert.Equal(t, "/home/me/set", cfg.ProjectFolder)
	assert.Equal(t, "debug", cfg.GetLogLevel())
	assert.Equal(t, 48000, cfg.GetAudioConfig().SampleRate)
	assert.Equal(t, 200*time.Millisecond, cfg.GetAudioConfig().BufferDuration())
	assert.Equal(t, 20*time.Millisecond, cfg.GetPlaybackConfig().TickInterval())
}

func TestLoadFiles_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}
	path := writeConfig(t, t.TempDir(), "config.toml", `
project_folder = "~/sets"
database = "~/data/mysxn.db"
log_file = "~/mysxn.log"
`)

	cfg, err := LoadFiles(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "sets"), cfg.ProjectFolder)
	assert.Equal(t, filepath.Join(home, "data", "mysxn.db"), cfg.Database)
	assert.Equal(t, filepath.Join(home, "mysxn.log"), cfg.LogFile)
}

func TestLoadFiles_InvalidTOML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "config.toml", `project_folder = [`)

	_, err := LoadFiles(path)

	assert.Error(t, err)
}

func TestGetAudioConfig_ClampsOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		in   AudioConfig
		want AudioConfig
	}{
		{"zero", AudioConfig{}, AudioConfig{SampleRate: 44100, BufferMS: 100}},
		{"negative buffer", AudioConfig{SampleRate: 48000, BufferMS: -5}, AudioConfig{SampleRate: 48000, BufferMS: 100}},
		{"absurd rate", AudioConfig{SampleRate: 1, BufferMS: 30}, AudioConfig{SampleRate: 44100, BufferMS: 30}},
		{"huge buffer", AudioConfig{SampleRate: 96000, BufferMS: 5000}, AudioConfig{SampleRate: 96000, BufferMS: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Audio: tt.in}
			assert.Equal(t, tt.want, cfg.GetAudioConfig())
		})
	}
}

func TestGetPlaybackConfig_ClampsOutOfRange(t *testing.T) {
	for _, ms := range []int{-1, 0, 5000} {
		cfg := &Config{Playback: PlaybackConfig{TickMS: ms}}
		assert.Equal(t, 50, cfg.GetPlaybackConfig().TickMS, "tick_ms=%d", ms)
	}
}
