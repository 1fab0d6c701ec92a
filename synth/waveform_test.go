package synth_test

import (
	"math"
	"testing"

	"github.com/vsariola/stepper"
	"github.com/vsariola/stepper/signal"
	"github.com/vsariola/stepper/synth"
)

func TestSquareAndSawtoothStayInRange(t *testing.T) {
	freqs := []float64{0.1, 1, 55, 440, 1234.5, 11025, 22050, 30000}
	phases := []float64{0, 1e-6, 0.25, 0.5, 0.999, 3.7, 1e6, -0.3}
	for _, w := range []synth.Waveform{synth.Square, synth.Sawtooth} {
		src := synth.Source{Waveform: w}
		for _, freq := range freqs {
			for _, start := range phases {
				phase := start
				for i := 0; i < 1000; i++ {
					// pan fully left at volume 1: the left channel is the raw sample
					f := src.Next(freq, 1, -1, &phase, 44100)
					if f[0] < -1 || f[0] > 1 || math.IsNaN(float64(f[0])) {
						t.Fatalf("%v at %v Hz, start phase %v: sample %v out of range", w, freq, start, f[0])
					}
				}
			}
		}
	}
}

func TestSquareShape(t *testing.T) {
	src := synth.Source{Waveform: synth.Square}
	phase := 0.0
	// 4 frames per period at 1 Hz and rate 4
	want := []float32{1, 1, -1, -1, 1, 1, -1, -1}
	for i, w := range want {
		f := src.Next(1, 1, -1, &phase, 4)
		if f[0] != w {
			t.Errorf("frame %v: got %v, expected %v", i, f[0], w)
		}
	}
}

func TestSawtoothShape(t *testing.T) {
	src := synth.Source{Waveform: synth.Sawtooth}
	phase := 0.0
	want := []float32{-1, -0.5, 0, 0.5, -1}
	for i, w := range want {
		f := src.Next(1, 1, -1, &phase, 4)
		if math.Abs(float64(f[0]-w)) > 1e-6 {
			t.Errorf("frame %v: got %v, expected %v", i, f[0], w)
		}
	}
}

func TestSineAdvancesPhase(t *testing.T) {
	src := synth.Source{Waveform: synth.Sine}
	phase := 0.0
	f := src.Next(1, 1, 0, &phase, 4)
	if f != (stepper.Frame{}) {
		t.Errorf("sin(0) should be silent, got %v", f)
	}
	if math.Abs(phase-math.Pi/2) > 1e-12 {
		t.Errorf("phase after one frame = %v, expected pi/2", phase)
	}
	f = src.Next(1, 1, 0, &phase, 4)
	if math.Abs(float64(f[0])-0.5) > 1e-6 || math.Abs(float64(f[1])-0.5) > 1e-6 {
		t.Errorf("centered sine peak = %v, expected volume split equally", f)
	}
}

func TestZeroFrequencyIsSilent(t *testing.T) {
	sample := signal.FromFrames([]stepper.Frame{{1, 1}, {1, 1}}, 10)
	for _, w := range []synth.Waveform{synth.Sine, synth.Square, synth.Sawtooth, synth.Sampled} {
		src := synth.Source{Waveform: w, Sample: sample, ReferenceFreq: 440}
		phase := 0.5
		if f := src.Next(0, 1, 0, &phase, 44100); f != (stepper.Frame{}) {
			t.Errorf("%v at 0 Hz: got %v, expected silence", w, f)
		}
		if phase != 0.5 {
			t.Errorf("%v at 0 Hz changed the phase to %v", w, phase)
		}
	}
}

func TestPanGain(t *testing.T) {
	cases := []struct{ pan, l, r float64 }{
		{0, 0.5, 0.5},
		{-1, 1, 0},
		{1, 0, 1},
		{0.5, 0.25, 0.75},
		{-3, 1, 0},
	}
	for _, c := range cases {
		l, r := synth.PanGain(c.pan)
		if l != c.l || r != c.r {
			t.Errorf("PanGain(%v) = %v, %v; expected %v, %v", c.pan, l, r, c.l, c.r)
		}
	}
}

func TestSampledPlaybackRate(t *testing.T) {
	frames := make([]stepper.Frame, 8)
	for i := range frames {
		frames[i] = stepper.Frame{float32(i), float32(-i)}
	}
	sample := signal.FromFrames(frames, 100)
	src := synth.Source{Waveform: synth.Sampled, Sample: sample, ReferenceFreq: 220}
	phase := 0.0
	// an octave up plays twice as fast
	want := []float32{0, 2, 4, 6}
	for i, w := range want {
		f := src.Next(440, 1, -1, &phase, 100)
		if math.Abs(float64(f[0]-w)) > 1e-5 {
			t.Errorf("frame %v: got %v, expected %v", i, f[0], w)
		}
	}
	// past the end of the sample, playback is silent
	if f := src.Next(440, 1, -1, &phase, 100); f != (stepper.Frame{}) {
		t.Errorf("expected silence past the end of the sample, got %v", f)
	}
}

func TestSampledScalesSampleRate(t *testing.T) {
	frames := make([]stepper.Frame, 16)
	sample := signal.FromFrames(frames, 200)
	src := synth.Source{Waveform: synth.Sampled, Sample: sample, ReferenceFreq: 440}
	phase := 0.0
	src.Next(440, 1, 0, &phase, 100)
	if phase != 2 {
		t.Errorf("a 200 Hz sample played at 100 Hz should advance 2 frames, advanced %v", phase)
	}
}

func TestParseWaveform(t *testing.T) {
	for name, want := range map[string]synth.Waveform{"sine": synth.Sine, "Square": synth.Square, "saw": synth.Sawtooth, "sample": synth.Sampled} {
		got, err := synth.ParseWaveform(name)
		if err != nil || got != want {
			t.Errorf("ParseWaveform(%q) = %v, %v; expected %v", name, got, err, want)
		}
	}
	if _, err := synth.ParseWaveform("noise"); err == nil {
		t.Error("expected an error for an unknown waveform")
	}
}
