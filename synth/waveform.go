package synth

import (
	"fmt"
	"math"
	"strings"

	"github.com/vsariola/stepper"
	"github.com/vsariola/stepper/signal"
)

type (
	// Waveform selects how a Source generates samples. The set of waveforms
	// is closed.
	Waveform int

	// Source is a per-sample generator. For Sampled sources, Sample is the
	// decoded stereo signal that is played back and ReferenceFreq is the
	// frequency at which the sample plays at its natural speed.
	Source struct {
		Waveform      Waveform
		Sample        *signal.Signal
		ReferenceFreq float64
	}
)

const (
	Sine Waveform = iota
	Square
	Sawtooth
	Sampled
)

var waveformNames = map[Waveform]string{
	Sine:     "sine",
	Square:   "square",
	Sawtooth: "sawtooth",
	Sampled:  "sample",
}

func (w Waveform) String() string {
	if name, ok := waveformNames[w]; ok {
		return name
	}
	return fmt.Sprintf("Waveform(%d)", int(w))
}

// ParseWaveform parses the waveform names used in song files.
func ParseWaveform(name string) (Waveform, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sine", "sin":
		return Sine, nil
	case "square", "pulse":
		return Square, nil
	case "sawtooth", "saw":
		return Sawtooth, nil
	case "sample", "sampled":
		return Sampled, nil
	}
	return 0, fmt.Errorf("unknown waveform %q", name)
}

// PanGain returns the gains of the left and right channel for pan in [-1, 1]:
// the volume is split between the channels, equally when pan is 0.
func PanGain(pan float64) (left, right float64) {
	pan = min(max(pan, -1), 1)
	return (1 - pan) / 2, (1 + pan) / 2
}

// Next generates one frame at frequency freq (Hz) and advances the phase. The
// unit of phase depends on the waveform: radians for Sine, seconds for Square
// and Sawtooth and sample frames for Sampled. A non-positive frequency is
// silent and leaves the phase untouched.
func (s *Source) Next(freq, volume, pan float64, phase *float64, rate int) stepper.Frame {
	if !(freq > 0) || rate <= 0 || math.IsInf(freq, 0) {
		return stepper.Frame{}
	}
	l, r := PanGain(pan)
	switch s.Waveform {
	case Sine:
		v := math.Sin(*phase)
		*phase += 2 * math.Pi * freq / float64(rate)
		return mono(v, volume, l, r)
	case Square:
		period := 1 / freq
		p := wrap(*phase, period)
		v := -1.0
		if p < period/2 {
			v = 1
		}
		*phase = wrap(p+1/float64(rate), period)
		return mono(v, volume, l, r)
	case Sawtooth:
		period := 1 / freq
		p := wrap(*phase, period)
		v := -1 + 2*p/period
		*phase = wrap(p+1/float64(rate), period)
		return mono(v, volume, l, r)
	case Sampled:
		if s.Sample == nil || !(s.ReferenceFreq > 0) {
			return stepper.Frame{}
		}
		sampleRate := float64(s.Sample.FrameRate())
		if *phase < 0 || *phase >= float64(s.Sample.Len()) {
			return stepper.Frame{}
		}
		f := s.Sample.FrameAt(*phase / sampleRate)
		*phase += freq / s.ReferenceFreq * sampleRate / float64(rate)
		return stepper.Frame{
			float32(float64(f[0]) * volume * l),
			float32(float64(f[1]) * volume * r),
		}
	}
	return stepper.Frame{}
}

func mono(v, volume, l, r float64) stepper.Frame {
	return stepper.Frame{float32(v * volume * l), float32(v * volume * r)}
}

// wrap returns x modulo period, in [0, period).
func wrap(x, period float64) float64 {
	x = math.Mod(x, period)
	if math.IsNaN(x) {
		return 0
	}
	if x < 0 {
		x += period
	}
	if x >= period { // x was a tiny negative number
		x = 0
	}
	return x
}
