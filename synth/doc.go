// Package synth implements the synthesis side of the engine: waveform
// sources, instruments, click-free parameter smoothing, the per-track
// Channel state machine and the Mixer summing the channels.
package synth
