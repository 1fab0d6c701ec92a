package synth

import "github.com/vsariola/stepper/signal"

// Mixer sums the step signals of all channels into one output signal. No
// normalization or clipping is applied: the output may exceed [-1, 1].
type Mixer struct {
	out *signal.Signal
}

// NewMixer creates a mixer producing signals of the given frame rate.
func NewMixer(rate int) *Mixer {
	return &Mixer{out: signal.WithLength(0, rate)}
}

// Reset empties the output, keeping its memory for reuse.
func (m *Mixer) Reset() {
	m.out.Resize(0)
}

// Mix adds s into the output, extending the output if s is longer.
func (m *Mixer) Mix(s *signal.Signal) {
	m.out.Mix(s)
}

// Output returns the mixed signal. It is valid until the next Reset.
func (m *Mixer) Output() *signal.Signal {
	return m.out
}
