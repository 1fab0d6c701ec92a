package synth_test

import (
	"testing"

	"github.com/vsariola/stepper"
	"github.com/vsariola/stepper/signal"
	"github.com/vsariola/stepper/synth"
)

func TestMixerScalesByCount(t *testing.T) {
	s := signal.FromFrames([]stepper.Frame{{0.5, -0.25}, {0.125, 1}, {-1, 0}}, 48000)
	for k := 1; k <= 5; k++ {
		m := synth.NewMixer(48000)
		m.Mix(s) // stale content before reset
		m.Reset()
		for i := 0; i < k; i++ {
			m.Mix(s)
		}
		out := m.Output()
		if out.Len() != s.Len() {
			t.Fatalf("k=%v: output has %v frames, expected %v", k, out.Len(), s.Len())
		}
		for i, f := range out.Frames() {
			want := stepper.Frame{s.Frames()[i][0] * float32(k), s.Frames()[i][1] * float32(k)}
			if f != want {
				t.Errorf("k=%v frame %v: got %v, expected %v", k, i, f, want)
			}
		}
	}
}

func TestMixerExtendsAndDoesNotClip(t *testing.T) {
	m := synth.NewMixer(100)
	m.Mix(signal.FromFrames([]stepper.Frame{{1, 1}}, 100))
	m.Mix(signal.FromFrames([]stepper.Frame{{1, 1}, {0.5, 0.5}}, 100))
	out := m.Output().Frames()
	if len(out) != 2 || out[0] != (stepper.Frame{2, 2}) || out[1] != (stepper.Frame{0.5, 0.5}) {
		t.Errorf("got %v", out)
	}
}
