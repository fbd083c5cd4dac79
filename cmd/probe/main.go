// Command probe decodes section audio files the way playback does and
// reports their length, so loop points can be checked before authoring.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/gopxl/beep/v2"
	"github.com/spf13/cobra"

	"github.com/llehouerou/mysxn/internal/buffers"
	"github.com/llehouerou/mysxn/internal/clock"
	"github.com/llehouerou/mysxn/internal/logging"
)

var (
	sampleRate int
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:          "probe FILE...",
	Short:        "Print decoded durations of audio files",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().IntVarP(&sampleRate, "rate", "r", 0, "resample to this rate (default: keep each file's rate)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log decoder details")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	level := "warn"
	if verbose {
		level = "debug"
	}
	logger := logging.Setup(level, logging.Console())
	loader := buffers.NewLoader("", beep.SampleRate(sampleRate), logger)

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tDURATION\tFRAMES\tRATE\tMEMORY")
	failed := 0
	for _, path := range args {
		pcm, err := loader.Decode(path)
		if err != nil {
			logger.Error().Err(err).Str("path", path).Msg("decode failed")
			failed++
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d Hz\t%s\n",
			path,
			clock.Format(pcm.Duration()),
			humanize.Comma(int64(pcm.Len())),
			int(pcm.Format().SampleRate),
			humanize.IBytes(pcm.SizeBytes()),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to decode", failed, len(args))
	}
	return nil
}
