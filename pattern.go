package stepper

import (
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

type (
	// PatternLine is one cell of the pattern: the note, velocity and
	// instrument fields of one track on one row. Every field is independently
	// set or unset; an unset field holds the previous value of the track.
	PatternLine struct {
		Note       Note
		Velocity   OptionalByte
		Instrument OptionalByte
	}

	// Pattern is a grid of pattern lines: a fixed number of tracks, each with
	// the same fixed number of rows. The shape cannot change after creation,
	// but the cells can be edited at any time, also while the pattern is
	// being played; access to the cells is synchronized.
	Pattern struct {
		mu     sync.RWMutex
		rows   int
		tracks [][]PatternLine
	}

	// RowSource gives read-only access to the rows of a pattern, one line
	// per track.
	RowSource interface {
		NumTracks() int
		NumRows() int
		// Row copies the lines of the given row into dst, growing it if
		// needed, and returns it. Reading a row outside [0, NumRows()) is an
		// invariant violation and panics.
		Row(row int, dst []PatternLine) []PatternLine
	}
)

// String formats the line like "C#5 5F 03".
func (l PatternLine) String() string {
	return l.Note.String() + " " + l.Velocity.String() + " " + l.Instrument.String()
}

// Empty reports if all fields of the line are unset.
func (l PatternLine) Empty() bool {
	return l.Note.Kind == NoteUnset && l.Velocity.Empty() && l.Instrument.Empty()
}

// ParsePatternLine parses a line written like "C#5 5F 03". Missing trailing
// columns are unset, so "D-8" only sets the note.
func ParsePatternLine(s string) (PatternLine, error) {
	fields := strings.Fields(s)
	if len(fields) > 3 {
		return PatternLine{}, fmt.Errorf("pattern line %q has more than 3 columns", s)
	}
	var (
		line PatternLine
		err  error
	)
	if len(fields) > 0 {
		if line.Note, err = ParseNote(fields[0]); err != nil {
			return PatternLine{}, fmt.Errorf("pattern line %q: %w", s, err)
		}
	}
	if len(fields) > 1 {
		if line.Velocity, err = ParseOptionalByte(fields[1]); err != nil {
			return PatternLine{}, fmt.Errorf("pattern line %q: velocity: %w", s, err)
		}
	}
	if len(fields) > 2 {
		if line.Instrument, err = ParseOptionalByte(fields[2]); err != nil {
			return PatternLine{}, fmt.Errorf("pattern line %q: instrument: %w", s, err)
		}
	}
	return line, nil
}

func (l PatternLine) MarshalYAML() (any, error) {
	return l.String(), nil
}

func (l *PatternLine) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: pattern line must be a string", value.Line)
	}
	parsed, err := ParsePatternLine(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*l = parsed
	return nil
}

func (l PatternLine) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *PatternLine) UnmarshalText(text []byte) error {
	parsed, err := ParsePatternLine(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// NewPattern creates an empty pattern of the given shape.
func NewPattern(tracks, rows int) *Pattern {
	if tracks < 0 || rows < 0 {
		panic(fmt.Sprintf("stepper: invalid pattern shape %dx%d", tracks, rows))
	}
	p := &Pattern{rows: rows, tracks: make([][]PatternLine, tracks)}
	for i := range p.tracks {
		p.tracks[i] = make([]PatternLine, rows)
	}
	return p
}

// PatternFromTracks creates a pattern from the lines of each track. Tracks
// shorter than the longest one are padded with empty lines, which hold
// whatever the track was playing.
func PatternFromTracks(tracks [][]PatternLine) *Pattern {
	rows := 0
	for _, t := range tracks {
		rows = max(rows, len(t))
	}
	p := NewPattern(len(tracks), rows)
	for i, t := range tracks {
		copy(p.tracks[i], t)
	}
	return p
}

func (p *Pattern) NumTracks() int { return len(p.tracks) }
func (p *Pattern) NumRows() int   { return p.rows }

// Row implements RowSource.
func (p *Pattern) Row(row int, dst []PatternLine) []PatternLine {
	if row < 0 || row >= p.rows {
		panic(fmt.Sprintf("stepper: row %d outside pattern of %d rows", row, p.rows))
	}
	dst = dst[:0]
	p.mu.RLock()
	for _, t := range p.tracks {
		dst = append(dst, t[row])
	}
	p.mu.RUnlock()
	return dst
}

// Line returns a single cell.
func (p *Pattern) Line(track, row int) (PatternLine, error) {
	if err := p.check(track, row); err != nil {
		return PatternLine{}, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tracks[track][row], nil
}

// Set replaces a single cell.
func (p *Pattern) Set(track, row int, line PatternLine) error {
	if err := p.check(track, row); err != nil {
		return err
	}
	p.mu.Lock()
	p.tracks[track][row] = line
	p.mu.Unlock()
	return nil
}

// Tracks returns a deep copy of the cells, track by track.
func (p *Pattern) Tracks() [][]PatternLine {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ret := make([][]PatternLine, len(p.tracks))
	for i, t := range p.tracks {
		ret[i] = append([]PatternLine(nil), t...)
	}
	return ret
}

func (p *Pattern) check(track, row int) error {
	if track < 0 || track >= len(p.tracks) {
		return fmt.Errorf("track %d of %d: %w", track, len(p.tracks), ErrOutOfRange)
	}
	if row < 0 || row >= p.rows {
		return fmt.Errorf("row %d of %d: %w", row, p.rows, ErrOutOfRange)
	}
	return nil
}
