package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gopxl/beep/v2"
	"github.com/spf13/cobra"

	"github.com/llehouerou/mysxn/internal/app"
	"github.com/llehouerou/mysxn/internal/buffers"
	"github.com/llehouerou/mysxn/internal/errmsg"
	"github.com/llehouerou/mysxn/internal/logging"
	"github.com/llehouerou/mysxn/internal/output"
	"github.com/llehouerou/mysxn/internal/playback"
	"github.com/llehouerou/mysxn/internal/stderr"
)

func runTUI(_ *cobra.Command, _ []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	// the TUI owns the terminal, so logs go to a file
	logPath := cfg.LogFile
	if logPath == "" {
		var err error
		if logPath, err = logging.DefaultPath(); err != nil {
			return fmt.Errorf("resolve log path: %w", err)
		}
	}
	logFile, err := logging.OpenFile(logPath)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	logger = logging.Setup(cfg.GetLogLevel(), logFile)

	// audio backends print to fd 2, which would tear the TUI
	stderrLog := logger.With().Str("component", "stderr").Logger()
	if err := stderr.Start(func(line string) { stderrLog.Warn().Msg(line) }); err != nil {
		logger.Warn().Err(err).Msg("stderr capture unavailable")
	}
	defer stderr.Stop()

	store, err := openSongs()
	if err != nil {
		return fmt.Errorf("open song library: %w", err)
	}
	defer store.Close()

	audio := cfg.GetAudioConfig()
	rate := beep.SampleRate(audio.SampleRate)
	dev, err := output.OpenSpeaker(rate, audio.BufferDuration())
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpAudioOpen, err))
	}
	defer dev.Close()

	tick := cfg.GetPlaybackConfig().TickInterval()
	svc := playback.New(dev, tick, logger)
	defer svc.Close()

	baseDir := cfg.ProjectFolder
	if baseDir == "" {
		if baseDir, err = os.Getwd(); err != nil {
			return fmt.Errorf("resolve project folder: %w", err)
		}
	}

	logger.Info().
		Int("sample_rate", audio.SampleRate).
		Dur("buffer", audio.BufferDuration()).
		Dur("tick", tick).
		Str("project_folder", baseDir).
		Msg("mysxn starting")

	m := app.New(app.Options{
		Playback:     svc,
		Songs:        store,
		Loader:       buffers.NewLoader(baseDir, rate, logger),
		TickInterval: tick,
		Logger:       logger,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	logger.Info().Msg("mysxn stopped")
	return nil
}
