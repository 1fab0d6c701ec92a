package synth

import (
	"fmt"

	"github.com/vsariola/stepper"
	"github.com/vsariola/stepper/signal"
)

type (
	// Instrument binds a waveform source to a static gain.
	Instrument struct {
		Name   string
		Source Source
		Gain   float64
	}

	// InstrumentTable holds an instrument for each of the 256 slots that a
	// pattern line can select. Slots may be empty.
	InstrumentTable struct {
		slots [stepper.NumInstrumentSlots]*Instrument
	}

	// SampleLoader loads a decoded stereo sample from a path.
	SampleLoader func(path string) (*signal.Signal, error)
)

// NextFrame generates the next frame of the instrument's source and applies
// the instrument gain.
func (i *Instrument) NextFrame(freq, volume, pan float64, phase *float64, rate int) stepper.Frame {
	f := i.Source.Next(freq, volume, pan, phase, rate)
	g := float32(i.Gain)
	return stepper.Frame{f[0] * g, f[1] * g}
}

// Lookup returns the instrument in the slot, or false if the slot is empty.
func (t *InstrumentTable) Lookup(slot byte) (*Instrument, bool) {
	if t == nil {
		return nil, false
	}
	instr := t.slots[slot]
	return instr, instr != nil
}

// Set puts an instrument in a slot; nil empties the slot.
func (t *InstrumentTable) Set(slot byte, instr *Instrument) {
	t.slots[slot] = instr
}

// Len returns the number of populated slots.
func (t *InstrumentTable) Len() int {
	n := 0
	for _, s := range t.slots {
		if s != nil {
			n++
		}
	}
	return n
}

// NewInstrumentTable builds the instrument table of a song. Samples are
// loaded with load, which may be nil if the song has no sample instruments.
func NewInstrumentTable(configs []stepper.InstrumentConfig, load SampleLoader) (*InstrumentTable, error) {
	t := &InstrumentTable{}
	for _, c := range configs {
		if c.Slot < 0 || c.Slot >= stepper.NumInstrumentSlots {
			return nil, fmt.Errorf("instrument %q: slot %d out of range", c.Name, c.Slot)
		}
		w, err := ParseWaveform(c.Waveform)
		if err != nil {
			return nil, fmt.Errorf("instrument %q in slot %d: %w", c.Name, c.Slot, err)
		}
		instr := &Instrument{Name: c.Name, Source: Source{Waveform: w}, Gain: c.GainOrDefault()}
		if w == Sampled {
			if c.Sample == "" {
				return nil, fmt.Errorf("instrument %q in slot %d: sample path missing", c.Name, c.Slot)
			}
			if load == nil {
				return nil, fmt.Errorf("instrument %q in slot %d: no sample loader", c.Name, c.Slot)
			}
			s, err := load(c.Sample)
			if err != nil {
				return nil, fmt.Errorf("instrument %q in slot %d: %w", c.Name, c.Slot, err)
			}
			instr.Source.Sample = s
			instr.Source.ReferenceFreq = c.ReferenceOrDefault().Frequency()
		}
		t.slots[c.Slot] = instr
	}
	return t, nil
}
