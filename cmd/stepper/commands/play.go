package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/vsariola/stepper"
	"github.com/vsariola/stepper/oto"
	"github.com/vsariola/stepper/player"
)

var (
	playHeadless bool
	playRate     int
	playBuffer   time.Duration
	playInterval time.Duration
)

var playCmd = &cobra.Command{
	Use:   "play <song|dir>...",
	Short: "Play songs through the default audio device",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		var device stepper.AudioDevice = &oto.Device{}
		if playHeadless {
			device = player.HeadlessDevice{}
		}
		files, err := songFiles(args)
		if err != nil {
			return err
		}
		for _, file := range files {
			if err := playSong(ctx, device, file); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
		}
		return nil
	},
}

func init() {
	playCmd.Flags().BoolVar(&playHeadless, "headless", false, "run without an audio device, at the real speed")
	playCmd.Flags().IntVar(&playRate, "rate", stepper.DefaultSampleRate, "requested sample rate")
	playCmd.Flags().DurationVar(&playBuffer, "buffer", 0, "requested device buffer size (0 lets the device decide)")
	playCmd.Flags().DurationVar(&playInterval, "interval", 10*time.Millisecond, "update interval of the sequencer")
}

func playSong(ctx context.Context, device stepper.AudioDevice, file string) error {
	song, table, err := loadSong(file)
	if err != nil {
		return err
	}
	p, err := player.New(ctx, device, song.Pattern(), table,
		player.WithLogger(logger.With("song", file)),
		player.WithLinesPerSecond(song.LinesPerSecond()),
		player.WithSampleRate(playRate),
		player.WithBufferSize(playBuffer),
		player.WithVolume(song.Volume),
		player.WithPan(song.Pan),
		player.WithTrackPans(song.TrackPans()),
	)
	if err != nil {
		return fmt.Errorf("could not open audio device: %w", err)
	}
	defer p.Close()
	logger.Info("playing", "song", file, "rows", song.Pattern().NumRows(), "rate", p.SampleRate())
	p.Play()
	if err := p.Run(ctx, playInterval); err != nil {
		p.Stop()
		return err
	}
	if err := p.Drain(ctx, playInterval); err != nil {
		p.Stop()
		return err
	}
	if n := p.Underruns(); n > 0 {
		logger.Warn("playback had underruns", "song", file, "count", n)
	}
	return nil
}
