package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vsariola/stepper/version"
)

var (
	logLevel string
	logger   = slog.New(slog.DiscardHandler)
)

var rootCmd = &cobra.Command{
	Use:   "stepper",
	Short: "Step sequencer player",
	Long: `stepper plays and renders songs written for the step sequencer.

A song is a .yml or .json file listing the tempo, the instruments and the
tracks, one pattern line per row:

  bpm: 120
  rowsperbeat: 4
  instruments:
    - {slot: 0, name: lead, waveform: square, gain: 0.5}
  tracks:
    - lines: ["C-4 FF 00", "---", "E-4", "OFF"]

Examples:
  # Play a song
  stepper play song.yml

  # Render a song to song.wav as 16-bit PCM
  stepper render --pcm song.yml
`,
	Version:       version.VersionOrHash,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := ResolveLogLevel(logLevel)
		if err != nil {
			return err
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		return nil
	},
}

// Execute runs the command line.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(infoCmd)
}

// ResolveLogLevel maps a level name to a slog level.
func ResolveLogLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", level)
	}
}
