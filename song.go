package stepper

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

type (
	// Song is the on-disk description of what to play: the tempo, the master
	// volume and pan, the instrument table and the tracks of the pattern.
	// Songs are stored as YAML (JSON is accepted as well).
	Song struct {
		// BPM and RowsPerBeat together set the tempo: every row lasts
		// 60 / (BPM * RowsPerBeat) seconds.
		BPM         int
		RowsPerBeat int

		// Volume is the master volume, 1 by default. Pan is the master pan
		// in [-1, 1], 0 by default.
		Volume float64
		Pan    float64 `yaml:",omitempty"`

		Instruments []InstrumentConfig
		Tracks      []Track
	}

	// InstrumentConfig describes an instrument bound to one slot of the
	// instrument table.
	InstrumentConfig struct {
		Slot     int
		Name     string `yaml:",omitempty"`
		Waveform string
		// Gain is the static gain of the instrument, 1 if omitted.
		Gain *float64 `yaml:",omitempty"`
		// Sample is the path of the sample played by "sample" instruments,
		// relative to the song file.
		Sample string `yaml:",omitempty"`
		// Reference is the natural pitch of the sample, C4 if omitted.
		Reference *Pitch `yaml:",omitempty"`
	}

	// Track is one lane of the pattern.
	Track struct {
		Pan   float64       `yaml:",omitempty"`
		Lines []PatternLine `yaml:",flow"`
	}
)

const NumInstrumentSlots = 256

var defaultReference = Pitch{Name: C, Octave: 4}

// NewSong returns a song with the default tempo and volume.
func NewSong() Song {
	return Song{BPM: 120, RowsPerBeat: 4, Volume: 1}
}

// ReadSong parses a song from JSON or YAML. Fields missing from the input
// keep the values of NewSong.
func ReadSong(data []byte) (Song, error) {
	song := NewSong()
	if errJSON := json.Unmarshal(data, &song); errJSON != nil {
		song = NewSong()
		if errYaml := yaml.Unmarshal(data, &song); errYaml != nil {
			return Song{}, fmt.Errorf("the song could not be parsed as .json (%v) or .yml (%v)", errJSON, errYaml)
		}
	}
	if err := song.Validate(); err != nil {
		return Song{}, err
	}
	return song, nil
}

// Marshal returns the song as YAML.
func (s *Song) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// LinesPerSecond is the tempo in pattern rows per second.
func (s *Song) LinesPerSecond() float64 {
	return float64(s.BPM*s.RowsPerBeat) / 60
}

// LineDuration is the duration of a single row.
func (s *Song) LineDuration() time.Duration {
	lps := s.LinesPerSecond()
	if lps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / lps)
}

// Pattern builds the pattern of the song. Shorter tracks are padded with
// empty lines.
func (s *Song) Pattern() *Pattern {
	tracks := make([][]PatternLine, len(s.Tracks))
	for i, t := range s.Tracks {
		tracks[i] = t.Lines
	}
	return PatternFromTracks(tracks)
}

// TrackPans returns the pan of each track.
func (s *Song) TrackPans() []float64 {
	ret := make([]float64, len(s.Tracks))
	for i, t := range s.Tracks {
		ret[i] = t.Pan
	}
	return ret
}

func (s *Song) Validate() error {
	if s.BPM <= 0 {
		return fmt.Errorf("bpm must be positive, got %d", s.BPM)
	}
	if s.RowsPerBeat <= 0 {
		return fmt.Errorf("rowsperbeat must be positive, got %d", s.RowsPerBeat)
	}
	if s.Volume < 0 {
		return fmt.Errorf("volume cannot be negative, got %v", s.Volume)
	}
	if s.Pan < -1 || s.Pan > 1 {
		return fmt.Errorf("pan %v outside [-1, 1]", s.Pan)
	}
	if len(s.Tracks) == 0 {
		return errors.New("song has no tracks")
	}
	for i, t := range s.Tracks {
		if t.Pan < -1 || t.Pan > 1 {
			return fmt.Errorf("track %d: pan %v outside [-1, 1]", i, t.Pan)
		}
	}
	var used [NumInstrumentSlots]bool
	for i, instr := range s.Instruments {
		if instr.Slot < 0 || instr.Slot >= NumInstrumentSlots {
			return fmt.Errorf("instrument %d: slot %d outside [0, %d)", i, instr.Slot, NumInstrumentSlots)
		}
		if used[instr.Slot] {
			return fmt.Errorf("instrument %d: slot %d used twice", i, instr.Slot)
		}
		used[instr.Slot] = true
		if instr.Waveform == "" {
			return fmt.Errorf("instrument %d: waveform missing", i)
		}
	}
	return nil
}

// GainOrDefault returns the configured gain, or 1.
func (c InstrumentConfig) GainOrDefault() float64 {
	if c.Gain == nil {
		return 1
	}
	return *c.Gain
}

// ReferenceOrDefault returns the configured reference pitch, or C4.
func (c InstrumentConfig) ReferenceOrDefault() Pitch {
	if c.Reference == nil {
		return defaultReference
	}
	return *c.Reference
}
