package player

import (
	"fmt"
	"math"
	"time"

	"github.com/vsariola/stepper"
	"github.com/vsariola/stepper/signal"
	"github.com/vsariola/stepper/synth"
)

// sequencer advances through the rows of a pattern, feeding each row to the
// channels and mixing their steps. It is the part of the player that runs on
// the update goroutine, and is also used for offline rendering.
type sequencer struct {
	source stepper.RowSource
	table  *synth.InstrumentTable
	rate   int
	pans   []float64

	lps          float64
	lineDuration time.Duration

	channels []*synth.Channel
	mixer    *synth.Mixer
	row      []stepper.PatternLine

	playing  bool
	cursor   int           // next row to play
	acc      time.Duration // time accumulated towards the next row
	framePos float64       // exact position in frames, for rounding the step lengths
}

func newSequencer(source stepper.RowSource, table *synth.InstrumentTable, rate int, lps float64, pans []float64) *sequencer {
	s := &sequencer{
		source: source,
		table:  table,
		rate:   rate,
		pans:   pans,
		mixer:  synth.NewMixer(rate),
	}
	s.setLinesPerSecond(lps)
	return s
}

func (s *sequencer) setLinesPerSecond(lps float64) {
	if !(lps > 0) || math.IsInf(lps, 0) {
		return
	}
	s.lps = lps
	s.lineDuration = time.Duration(float64(time.Second) / lps)
}

// start rewinds to the first row. Fresh channels are created, so nothing of
// a previous playback survives. The first prefill rows are due immediately.
func (s *sequencer) start(prefill int) {
	n := s.source.NumTracks()
	s.channels = make([]*synth.Channel, n)
	for i := range s.channels {
		s.channels[i] = synth.NewChannel(s.table, s.rate)
		if i < len(s.pans) {
			s.channels[i].SetPan(s.pans[i])
		}
	}
	s.row = make([]stepper.PatternLine, 0, n)
	s.cursor = 0
	s.framePos = 0
	s.acc = time.Duration(max(prefill, 1)) * s.lineDuration
	s.playing = s.source.NumRows() > 0
}

func (s *sequencer) stop() {
	s.playing = false
	s.channels = nil
}

// advance accumulates elapsed time and plays every row that became due,
// handing each mixed step to emit. Playback stops after the last row.
func (s *sequencer) advance(elapsed time.Duration, emit func(*signal.Signal) error) error {
	if !s.playing {
		return nil
	}
	s.acc += elapsed
	for s.playing && s.acc >= s.lineDuration {
		s.acc -= s.lineDuration
		if err := emit(s.step()); err != nil {
			return err
		}
	}
	return nil
}

// step plays the row at the cursor and returns the mixed audio, which is
// valid until the next step.
func (s *sequencer) step() *signal.Signal {
	if s.cursor < 0 || s.cursor >= s.source.NumRows() {
		panic(fmt.Sprintf("player: row cursor %d outside pattern of %d rows", s.cursor, s.source.NumRows()))
	}
	s.row = s.source.Row(s.cursor, s.row)
	if len(s.row) != len(s.channels) {
		panic(fmt.Sprintf("player: row has %d tracks, expected %d", len(s.row), len(s.channels)))
	}
	frames := s.nextStepLength()
	s.mixer.Reset()
	for i, ch := range s.channels {
		s.mixer.Mix(ch.Process(s.row[i], frames))
	}
	out := s.mixer.Output()
	if out.Len() < frames { // no tracks
		out.Resize(frames)
	}
	s.cursor++
	if s.cursor >= s.source.NumRows() {
		s.playing = false
	}
	return out
}

// nextStepLength returns the number of frames in the next step. The
// fractional part of frames per line is carried over, so the step lengths
// never drift from the tempo.
func (s *sequencer) nextStepLength() int {
	spl := float64(s.rate) / s.lps
	start := math.Round(s.framePos)
	s.framePos += spl
	return int(math.Round(s.framePos) - start)
}
