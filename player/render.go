package player

import (
	"github.com/vsariola/stepper"
	"github.com/vsariola/stepper/signal"
	"github.com/vsariola/stepper/synth"
)

// Render plays the whole source offline, from the first row to the last,
// and returns the mixed audio. Of the options, only the master volume, the
// master pan and the track pans apply.
func Render(source stepper.RowSource, table *synth.InstrumentTable, rate int, lps float64, opts ...Option) stepper.AudioBuffer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if rate <= 0 {
		rate = stepper.DefaultSampleRate
	}
	if !(lps > 0) {
		lps = DefaultLinesPerSecond
	}
	seq := newSequencer(source, table, rate, lps, o.trackPans)
	seq.start(1)
	buffer := make(stepper.AudioBuffer, 0, int(float64(source.NumRows())*float64(rate)/lps)+1)
	for seq.playing {
		buffer = append(buffer, seq.step().Frames()...)
	}
	if o.volume != 1 || o.pan != 0 {
		applyLevels(signal.FromFrames(buffer, rate).Samples(), o.volume, clampPan(o.pan))
	}
	return buffer
}
