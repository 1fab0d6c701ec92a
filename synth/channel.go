package synth

import (
	"github.com/vsariola/stepper"
	"github.com/vsariola/stepper/signal"
)

// ChannelState is the playback state of a Channel.
type ChannelState int

const (
	// Idle channels have no note and render silence.
	Idle ChannelState = iota
	// Sustaining channels hold a note and render it with the selected
	// instrument.
	Sustaining
)

func (s ChannelState) String() string {
	if s == Sustaining {
		return "sustaining"
	}
	return "idle"
}

// Channel is the playback state machine of one track. Every processed row
// updates the state with Apply; Render then produces the audio of one step.
//
// A Channel is not safe for concurrent use; it is owned by the player for
// the duration of playback.
type Channel struct {
	table *InstrumentTable
	rate  int
	pan   float64

	pitch    stepper.Pitch
	hasPitch bool

	gain    float64
	hasGain bool

	instrument    byte
	hasInstrument bool
	phase         float64

	smoother Interpolator
	buf      *signal.Signal
}

// NewChannel creates an idle channel that renders at the given frame rate
// using the instruments of table.
func NewChannel(table *InstrumentTable, rate int) *Channel {
	return &Channel{table: table, rate: rate, buf: signal.WithLength(0, rate)}
}

// Apply updates the state with one pattern line. The fields are evaluated in
// order note, velocity, instrument:
//   - a pitched note changes the pitch but keeps the phase running;
//   - a cut forgets pitch, gain and instrument and makes the channel idle;
//   - a velocity sets the gain to velocity/255;
//   - an instrument in a different slot than the current one resets the
//     phase, the same slot does not.
//
// Unset fields hold the previous values.
func (c *Channel) Apply(line stepper.PatternLine) {
	switch line.Note.Kind {
	case stepper.NotePitched:
		c.pitch = line.Note.Pitch
		c.hasPitch = true
	case stepper.NoteCut:
		c.hasPitch = false
		c.hasGain = false
		c.hasInstrument = false
		c.phase = 0
		c.smoother.Reset()
	}
	if v, ok := line.Velocity.Unpack(); ok {
		c.gain = float64(v) / 255
		c.hasGain = true
	}
	if slot, ok := line.Instrument.Unpack(); ok {
		if !c.hasInstrument || slot != c.instrument {
			c.phase = 0
		}
		c.instrument = slot
		c.hasInstrument = true
	}
}

// Render fills the channel's step buffer with frames frames of audio and
// returns it. The returned signal is reused by the next call to Render.
func (c *Channel) Render(frames int) *signal.Signal {
	c.buf.Resize(frames)
	out := c.buf.Frames()
	instr, ok := c.sounding()
	if !ok {
		c.buf.Zero()
		return c.buf
	}
	freq := c.pitch.Frequency()
	gain := 1.0
	if c.hasGain {
		gain = c.gain
	}
	for i := range out {
		volume := c.smoother.Process(gain, c.rate)
		out[i] = instr.NextFrame(freq, volume, c.pan, &c.phase, c.rate)
	}
	return c.buf
}

// Process applies the line and renders the step.
func (c *Channel) Process(line stepper.PatternLine, frames int) *signal.Signal {
	c.Apply(line)
	return c.Render(frames)
}

func (c *Channel) sounding() (*Instrument, bool) {
	if !c.hasPitch || !c.hasInstrument {
		return nil, false
	}
	return c.table.Lookup(c.instrument)
}

// State returns Sustaining while the channel holds a note.
func (c *Channel) State() ChannelState {
	if c.hasPitch {
		return Sustaining
	}
	return Idle
}

// Pitch returns the current pitch, or false if there is none.
func (c *Channel) Pitch() (stepper.Pitch, bool) { return c.pitch, c.hasPitch }

// Gain returns the current gain, or false if no velocity has been set since
// the start or the last cut.
func (c *Channel) Gain() (float64, bool) { return c.gain, c.hasGain }

// Instrument returns the selected instrument slot, or false if none.
func (c *Channel) Instrument() (byte, bool) { return c.instrument, c.hasInstrument }

// Phase returns the phase of the oscillator or sample playback.
func (c *Channel) Phase() float64 { return c.phase }

// SetPan sets the pan of the channel, in [-1, 1].
func (c *Channel) SetPan(pan float64) { c.pan = min(max(pan, -1), 1) }

// FrameRate returns the frame rate the channel renders at.
func (c *Channel) FrameRate() int { return c.rate }
