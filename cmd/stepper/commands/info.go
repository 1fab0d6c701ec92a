package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vsariola/stepper/synth"
)

var infoCmd = &cobra.Command{
	Use:   "info <song|dir>...",
	Short: "Print the tempo, length and instruments of songs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := songFiles(args)
		if err != nil {
			return err
		}
		title := cases.Title(language.English)
		w := cmd.OutOrStdout()
		for _, file := range files {
			song, table, err := loadSong(file)
			if err != nil {
				return err
			}
			pattern := song.Pattern()
			length := time.Duration(pattern.NumRows()) * song.LineDuration()
			fmt.Fprintf(w, "%v\n", file)
			fmt.Fprintf(w, "  tempo:       %d bpm, %d rows per beat (%.2f rows/s)\n", song.BPM, song.RowsPerBeat, song.LinesPerSecond())
			fmt.Fprintf(w, "  pattern:     %d tracks, %d rows, %v\n", pattern.NumTracks(), pattern.NumRows(), length.Round(time.Millisecond))
			fmt.Fprintf(w, "  instruments: %d\n", table.Len())
			for _, c := range song.Instruments {
				waveform, err := synth.ParseWaveform(c.Waveform)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "    %02X %-12s %-9s gain %.2f\n", c.Slot, c.Name, title.String(waveform.String()), c.GainOrDefault())
			}
		}
		return nil
	},
}
