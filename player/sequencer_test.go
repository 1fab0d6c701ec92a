package player

import (
	"testing"
	"time"

	"github.com/vsariola/stepper"
	"github.com/vsariola/stepper/signal"
	"github.com/vsariola/stepper/synth"
)

func testTable() *synth.InstrumentTable {
	table := &synth.InstrumentTable{}
	table.Set(0, &synth.Instrument{Name: "square", Source: synth.Source{Waveform: synth.Square}, Gain: 1})
	return table
}

func testPattern(t *testing.T, tracks ...[]string) *stepper.Pattern {
	t.Helper()
	lines := make([][]stepper.PatternLine, len(tracks))
	for i, track := range tracks {
		for _, s := range track {
			l, err := stepper.ParsePatternLine(s)
			if err != nil {
				t.Fatalf("ParsePatternLine(%q): %v", s, err)
			}
			lines[i] = append(lines[i], l)
		}
	}
	return stepper.PatternFromTracks(lines)
}

func TestStepLengthsDoNotDrift(t *testing.T) {
	pattern := testPattern(t, []string{"A-4 FF 00", "---", "---", "---", "---", "---"})
	seq := newSequencer(pattern, testTable(), 1000, 3, nil)
	seq.start(1)
	var lengths []int
	for seq.playing {
		lengths = append(lengths, seq.step().Len())
	}
	expected := []int{333, 334, 333, 333, 334, 333}
	if len(lengths) != len(expected) {
		t.Fatalf("got %v steps, expected %v", len(lengths), len(expected))
	}
	for i := range expected {
		if lengths[i] != expected[i] {
			t.Errorf("step %v: got %v frames, expected %v", i, lengths[i], expected[i])
		}
	}
}

func TestFirstRowIsDueImmediately(t *testing.T) {
	pattern := testPattern(t, []string{"A-4 FF 00", "---", "---"})
	seq := newSequencer(pattern, testTable(), 1000, 10, nil)
	seq.start(1)
	steps := 0
	emit := func(*signal.Signal) error { steps++; return nil }
	if err := seq.advance(0, emit); err != nil {
		t.Fatal(err)
	}
	if steps != 1 || seq.cursor != 1 {
		t.Fatalf("after advancing 0: %v steps, cursor %v; expected 1 and 1", steps, seq.cursor)
	}
	if err := seq.advance(50*time.Millisecond, emit); err != nil {
		t.Fatal(err)
	}
	if steps != 1 {
		t.Fatalf("half a line should not play a row, got %v steps", steps)
	}
	if err := seq.advance(50*time.Millisecond, emit); err != nil {
		t.Fatal(err)
	}
	if steps != 2 {
		t.Fatalf("a full line should play a row, got %v steps", steps)
	}
}

func TestPlaybackStopsAtLastRow(t *testing.T) {
	pattern := testPattern(t, []string{"A-4 FF 00", "---", "---", "OFF"})
	seq := newSequencer(pattern, testTable(), 1000, 10, nil)
	seq.start(1)
	steps := 0
	err := seq.advance(10*time.Second, func(*signal.Signal) error { steps++; return nil })
	if err != nil {
		t.Fatal(err)
	}
	if steps != 4 {
		t.Errorf("got %v steps, expected one per row", steps)
	}
	if seq.playing {
		t.Error("sequencer should stop after the last row")
	}
	if err := seq.advance(time.Second, func(*signal.Signal) error { steps++; return nil }); err != nil || steps != 4 {
		t.Errorf("advancing a stopped sequencer played %v steps, err %v", steps-4, err)
	}
}

func TestSequencerTempoChange(t *testing.T) {
	pattern := testPattern(t, []string{"A-4 FF 00", "---", "---"})
	seq := newSequencer(pattern, testTable(), 1000, 10, nil)
	seq.start(1)
	if n := seq.step().Len(); n != 100 {
		t.Fatalf("got %v frames, expected 100", n)
	}
	seq.setLinesPerSecond(20)
	if n := seq.step().Len(); n != 50 {
		t.Fatalf("got %v frames after doubling the speed, expected 50", n)
	}
	seq.setLinesPerSecond(0)
	if seq.lps != 20 {
		t.Errorf("non-positive speed should be ignored, lps = %v", seq.lps)
	}
}

func TestRender(t *testing.T) {
	pattern := testPattern(t,
		[]string{"A-4 FF 00", "---", "OFF", "---", "---", "---"},
		[]string{"---", "C-5 80 00", "OFF", "---", "---", "---"},
	)
	buffer := Render(pattern, testTable(), 1000, 3)
	if len(buffer) != 2000 {
		t.Fatalf("got %v frames, expected 2000", len(buffer))
	}
	if buffer[10] == (stepper.Frame{}) {
		t.Error("the first row should be audible")
	}
	for i, f := range buffer[667:] {
		if f != (stepper.Frame{}) {
			t.Fatalf("frame %v after the cut is %v, expected silence", 667+i, f)
		}
	}
}

func TestRenderAppliesTrackPans(t *testing.T) {
	pattern := testPattern(t, []string{"A-4 FF 00"})
	buffer := Render(pattern, testTable(), 1000, 10, WithTrackPans([]float64{-1}))
	for i, f := range buffer {
		if f[1] != 0 {
			t.Fatalf("frame %v: right channel is %v, expected silence when panned left", i, f[1])
		}
	}
	if buffer[0][0] == 0 {
		t.Error("left channel should be audible")
	}
}

func TestRenderAppliesMasterVolume(t *testing.T) {
	pattern := testPattern(t, []string{"A-4 FF 00"})
	full := Render(pattern, testTable(), 1000, 10)
	half := Render(pattern, testTable(), 1000, 10, WithVolume(0.5))
	for i := range full {
		if half[i][0] != full[i][0]*0.5 || half[i][1] != full[i][1]*0.5 {
			t.Fatalf("frame %v: got %v, expected half of %v", i, half[i], full[i])
		}
	}
}
