package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vsariola/stepper"
	"github.com/vsariola/stepper/player"
)

var (
	renderDir  string
	renderRaw  bool
	renderPCM  bool
	renderRate int
)

var renderCmd = &cobra.Command{
	Use:   "render <song|dir>...",
	Short: "Render songs to .wav (or .raw) files",
	Long: `Render plays songs offline and writes the result next to the song file,
or into the output directory. By default, the stereo float32 buffer is written
as a .wav file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := songFiles(args)
		if err != nil {
			return err
		}
		failed := 0
		for _, file := range files {
			if err := renderSong(file); err != nil {
				logger.Error("could not render song", "song", file, "err", err)
				fmt.Fprintf(cmd.ErrOrStderr(), "could not process file %v: %v\n", file, err)
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d songs failed", failed, len(files))
		}
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderDir, "output", "o", "", "directory where to output the files (default is the directory of the song)")
	renderCmd.Flags().BoolVarP(&renderRaw, "raw", "r", false, "output a headerless .raw file instead of .wav")
	renderCmd.Flags().BoolVarP(&renderPCM, "pcm", "c", false, "convert audio to 16-bit signed PCM")
	renderCmd.Flags().IntVar(&renderRate, "rate", stepper.DefaultSampleRate, "sample rate")
}

func renderSong(file string) error {
	song, table, err := loadSong(file)
	if err != nil {
		return err
	}
	buffer := player.Render(song.Pattern(), table, renderRate, song.LinesPerSecond(),
		player.WithVolume(song.Volume),
		player.WithPan(song.Pan),
		player.WithTrackPans(song.TrackPans()),
	)
	var contents []byte
	extension := ".wav"
	if renderRaw {
		extension = ".raw"
		contents, err = buffer.Raw(renderPCM)
	} else {
		contents, err = buffer.Wav(renderRate, renderPCM)
	}
	if err != nil {
		return fmt.Errorf("could not generate %v file: %w", extension, err)
	}
	dir := renderDir
	if dir == "" {
		dir = filepath.Dir(file)
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("could not create output directory %v: %w", dir, err)
	}
	name := filepath.Base(file)
	out := filepath.Join(dir, strings.TrimSuffix(name, filepath.Ext(name))+extension)
	if err := os.WriteFile(out, contents, 0644); err != nil {
		return fmt.Errorf("could not write file %v: %w", out, err)
	}
	logger.Info("rendered", "song", file, "output", out, "frames", len(buffer))
	return nil
}
