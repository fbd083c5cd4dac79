package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/llehouerou/mysxn/internal/config"
	"github.com/llehouerou/mysxn/internal/logging"
	"github.com/llehouerou/mysxn/internal/songs"
)

var (
	logger zerolog.Logger
	cfg    *config.Config
	dbPath string
)

var rootCmd = &cobra.Command{
	Use:          "mysxn",
	Short:        "Section-based live playback",
	Long:         "mysxn plays songs as labeled sections: an intro, loops that repeat until you pick the next section, and an outro.",
	SilenceUsage: true,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "song library database (default: XDG data dir)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads configuration and sets up console logging for the
// non-interactive commands.
func loadConfig() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger = logging.Setup(cfg.GetLogLevel(), logging.Console())
	return nil
}

// openSongs opens the library named by --db, the config, or the default
// location, in that order.
func openSongs() (*songs.Store, error) {
	path := dbPath
	if path == "" {
		path = cfg.Database
	}
	if path == "" {
		return songs.OpenDefault()
	}
	return songs.Open(path)
}
