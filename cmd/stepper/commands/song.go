package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vsariola/stepper"
	"github.com/vsariola/stepper/sample"
	"github.com/vsariola/stepper/signal"
	"github.com/vsariola/stepper/synth"
)

// loadSong reads a song file and builds its instrument table. Sample paths
// are relative to the song file.
func loadSong(filename string) (stepper.Song, *synth.InstrumentTable, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return stepper.Song{}, nil, fmt.Errorf("could not read file %v: %w", filename, err)
	}
	song, err := stepper.ReadSong(data)
	if err != nil {
		return stepper.Song{}, nil, fmt.Errorf("could not parse %v: %w", filename, err)
	}
	dir := filepath.Dir(filename)
	table, err := synth.NewInstrumentTable(song.Instruments, func(path string) (*signal.Signal, error) {
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		logger.Debug("loading sample", "path", path)
		return sample.Load(path)
	})
	if err != nil {
		return stepper.Song{}, nil, fmt.Errorf("could not build instruments of %v: %w", filename, err)
	}
	return song, table, nil
}

// songFiles expands directories into the .yml and .json files they contain.
func songFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			files = append(files, arg)
			continue
		}
		for _, pattern := range []string{"*.yml", "*.yaml", "*.json"} {
			matches, err := filepath.Glob(filepath.Join(arg, pattern))
			if err != nil {
				return nil, fmt.Errorf("could not glob the path %v: %w", arg, err)
			}
			files = append(files, matches...)
		}
	}
	return files, nil
}
