package stepper

import (
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

type (
	// NoteName is one of the twelve semitones of an octave, C = 0 ... B = 11.
	NoteName uint8

	// Pitch is a note name in a given octave. Octaves 0-9 are valid; C4 is
	// middle C and A4 is tuned to 440 Hz.
	Pitch struct {
		Name   NoteName
		Octave int
	}

	// NoteKind tells what a note field of a pattern line holds.
	NoteKind uint8

	// Note is the note field of a pattern line: nothing (hold the previous
	// note), a pitched note or a cut that stops the sound.
	Note struct {
		Kind  NoteKind
		Pitch Pitch
	}
)

const (
	C NoteName = iota
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
	A
	ASharp
	B
)

const (
	NoteUnset NoteKind = iota
	NotePitched
	NoteCut
)

const (
	MinOctave = 0
	MaxOctave = 9
)

// CutNote is the note that stops the sound of a channel.
var CutNote = Note{Kind: NoteCut}

var noteNames = [12]string{"C-", "C#", "D-", "D#", "E-", "F-", "F#", "G-", "G#", "A-", "A#", "B-"}

// NewPitch returns the pitch, or an error if the name or octave is out of range.
func NewPitch(name NoteName, octave int) (Pitch, error) {
	if name > B {
		return Pitch{}, fmt.Errorf("invalid note name %d", name)
	}
	if octave < MinOctave || octave > MaxOctave {
		return Pitch{}, fmt.Errorf("octave %d out of range [%d, %d]", octave, MinOctave, MaxOctave)
	}
	return Pitch{Name: name, Octave: octave}, nil
}

// Semitone returns the MIDI note number of the pitch, C4 = 60.
func (p Pitch) Semitone() int {
	return (p.Octave+1)*12 + int(p.Name)
}

// Frequency returns the frequency of the pitch in Hz, in twelve-tone equal
// temperament with A4 = 440 Hz.
func (p Pitch) Frequency() float64 {
	return 440 * math.Pow(2, float64(p.Semitone()-69)/12)
}

func (p Pitch) String() string {
	if p.Name > B {
		return "?" + fmt.Sprint(p.Octave)
	}
	return fmt.Sprintf("%s%d", noteNames[p.Name], p.Octave)
}

// ParsePitch parses pitches written like "C#5", "C-5", "C5" or "Db5".
func ParsePitch(s string) (Pitch, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Pitch{}, fmt.Errorf("invalid pitch %q", s)
	}
	var name NoteName
	switch s[0] {
	case 'C', 'c':
		name = C
	case 'D', 'd':
		name = D
	case 'E', 'e':
		name = E
	case 'F', 'f':
		name = F
	case 'G', 'g':
		name = G
	case 'A', 'a':
		name = A
	case 'B', 'b':
		name = B
	default:
		return Pitch{}, fmt.Errorf("invalid note name in pitch %q", s)
	}
	rest := s[1:]
	octaveShift := 0
	switch rest[0] {
	case '#':
		name = (name + 1) % 12
		if name == C {
			octaveShift = 1
		}
		rest = rest[1:]
	case 'b':
		if name == C {
			octaveShift = -1
		}
		name = (name + 11) % 12
		rest = rest[1:]
	case '-':
		rest = rest[1:]
	}
	if len(rest) != 1 || rest[0] < '0' || rest[0] > '9' {
		return Pitch{}, fmt.Errorf("invalid octave in pitch %q", s)
	}
	return NewPitch(name, int(rest[0]-'0')+octaveShift)
}

func (p Pitch) MarshalYAML() (any, error) {
	return p.String(), nil
}

func (p *Pitch) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParsePitch(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*p = parsed
	return nil
}

func (p Pitch) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Pitch) UnmarshalText(text []byte) error {
	parsed, err := ParsePitch(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// PitchedNote returns a note field playing the given pitch.
func PitchedNote(p Pitch) Note {
	return Note{Kind: NotePitched, Pitch: p}
}

// Unpack returns the pitch and true if the note is pitched.
func (n Note) Unpack() (Pitch, bool) {
	return n.Pitch, n.Kind == NotePitched
}

func (n Note) String() string {
	switch n.Kind {
	case NotePitched:
		return n.Pitch.String()
	case NoteCut:
		return "OFF"
	default:
		return "---"
	}
}

// ParseNote parses the note column of a pattern line: "---" for unset, "OFF"
// or "===" for a cut, otherwise a pitch.
func ParseNote(s string) (Note, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "---", "...":
		return Note{}, nil
	case "OFF", "===", "CUT":
		return CutNote, nil
	}
	p, err := ParsePitch(s)
	if err != nil {
		return Note{}, err
	}
	return PitchedNote(p), nil
}
