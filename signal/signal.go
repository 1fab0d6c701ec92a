// Package signal implements Signal, a time-addressable buffer of stereo
// frames at a fixed frame rate.
package signal

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/viterin/vek/vek32"
	"github.com/vsariola/stepper"
)

// Signal is an ordered sequence of stereo frames at a fixed rate. The frame
// rate never changes during the lifetime of a Signal. The zero value is not
// usable; create signals with New or FromFrames.
type Signal struct {
	rate   int
	frames []stepper.Frame
}

// New returns a silent signal of floor(duration*rate) frames. duration is in
// seconds. It panics if rate is not positive or duration is negative.
func New(duration float64, rate int) *Signal {
	if rate <= 0 {
		panic(fmt.Sprintf("signal: frame rate must be positive, got %d", rate))
	}
	if duration < 0 || math.IsNaN(duration) {
		panic(fmt.Sprintf("signal: invalid duration %v", duration))
	}
	n := int(math.Floor(duration * float64(rate)))
	return &Signal{rate: rate, frames: make([]stepper.Frame, n)}
}

// WithLength returns a silent signal of exactly n frames.
func WithLength(n, rate int) *Signal {
	if rate <= 0 {
		panic(fmt.Sprintf("signal: frame rate must be positive, got %d", rate))
	}
	return &Signal{rate: rate, frames: make([]stepper.Frame, max(n, 0))}
}

// FromFrames wraps frames in a signal; the signal takes ownership of the
// slice.
func FromFrames(frames []stepper.Frame, rate int) *Signal {
	if rate <= 0 {
		panic(fmt.Sprintf("signal: frame rate must be positive, got %d", rate))
	}
	return &Signal{rate: rate, frames: frames}
}

func (s *Signal) FrameRate() int { return s.rate }
func (s *Signal) Len() int       { return len(s.frames) }

// Frames returns the underlying frames. Writes to the returned slice are
// visible in the signal.
func (s *Signal) Frames() []stepper.Frame { return s.frames }

// Duration returns the length of the signal in seconds.
func (s *Signal) Duration() float64 {
	return float64(len(s.frames)) / float64(s.rate)
}

// FrameAt returns the value of the signal at time t (in seconds), linearly
// interpolated between the two frames around t. Times before the first frame
// return the first frame and times at or after the last frame return the
// last frame. An empty signal is silent everywhere.
func (s *Signal) FrameAt(t float64) stepper.Frame {
	n := len(s.frames)
	if n == 0 {
		return stepper.Frame{}
	}
	pos := t * float64(s.rate)
	if !(pos > 0) { // also catches NaN
		return s.frames[0]
	}
	if pos >= float64(n-1) {
		return s.frames[n-1]
	}
	i := int(pos)
	frac := float32(pos - float64(i))
	a, b := s.frames[i], s.frames[i+1]
	return stepper.Frame{
		a[0] + (b[0]-a[0])*frac,
		a[1] + (b[1]-a[1])*frac,
	}
}

// WriteAt copies frames into the signal, starting at the frame nearest to
// time t (in seconds). Frames that would land outside the signal are
// silently dropped. It returns the number of frames written.
func (s *Signal) WriteAt(t float64, frames []stepper.Frame) int {
	if math.IsNaN(t) {
		return 0
	}
	start := math.Round(t * float64(s.rate))
	if start >= float64(len(s.frames)) {
		return 0
	}
	if start < 0 {
		skip := -start
		if skip >= float64(len(frames)) {
			return 0
		}
		frames = frames[int(skip):]
		start = 0
	}
	return copy(s.frames[int(start):], frames)
}

// Mix adds other into s, frame by frame. If other is longer, s is extended
// first. Mixing signals of different frame rates is a programming error and
// panics.
func (s *Signal) Mix(other *Signal) {
	if other.rate != s.rate {
		panic(fmt.Sprintf("signal: cannot mix %d Hz signal into %d Hz signal", other.rate, s.rate))
	}
	if len(other.frames) > len(s.frames) {
		s.Resize(len(other.frames))
	}
	if len(other.frames) == 0 {
		return
	}
	vek32.Add_Inplace(samples(s.frames[:len(other.frames)]), samples(other.frames))
}

// Zero silences the signal, keeping its length.
func (s *Signal) Zero() {
	if len(s.frames) == 0 {
		return
	}
	vek32.Zeros_Into(samples(s.frames), len(s.frames)*2)
}

// Resize changes the length of the signal to n frames, reusing the
// capacity when possible. Frames added at the end are silent.
func (s *Signal) Resize(n int) {
	n = max(n, 0)
	if n <= cap(s.frames) {
		old := len(s.frames)
		s.frames = s.frames[:n]
		if n > old {
			clear(s.frames[old:])
		}
		return
	}
	frames := make([]stepper.Frame, n, max(n, 2*cap(s.frames)))
	copy(frames, s.frames)
	s.frames = frames
}

// Samples returns the signal as interleaved float32 samples (L, R, L, R, ...)
// sharing memory with the signal.
func (s *Signal) Samples() []float32 {
	return samples(s.frames)
}

// Clone returns a deep copy of the signal.
func (s *Signal) Clone() *Signal {
	return &Signal{rate: s.rate, frames: append([]stepper.Frame(nil), s.frames...)}
}

func samples(frames []stepper.Frame) []float32 {
	if len(frames) == 0 {
		return nil
	}
	return unsafe.Slice(&frames[0][0], len(frames)*2)
}
