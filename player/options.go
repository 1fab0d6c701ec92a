package player

import (
	"log/slog"
	"time"
)

type (
	// Option configures a Player.
	Option func(*options)

	options struct {
		logger      *slog.Logger
		lps         float64
		sampleRate  int
		bufferSize  time.Duration
		queueLength int
		volume      float64
		pan         float64
		trackPans   []float64
		prefill     int
	}
)

const (
	// DefaultLinesPerSecond is 120 bpm with four lines per beat.
	DefaultLinesPerSecond = 8
	DefaultQueueLength    = 16
	DefaultPrefill        = 2
)

func defaultOptions() options {
	return options{
		logger:      slog.New(slog.DiscardHandler),
		lps:         DefaultLinesPerSecond,
		queueLength: DefaultQueueLength,
		volume:      1,
		prefill:     DefaultPrefill,
	}
}

// WithLogger sets the logger used for device events, underruns and usage
// errors. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithLinesPerSecond sets the playback speed. Non-positive values are ignored.
func WithLinesPerSecond(lps float64) Option {
	return func(o *options) {
		if lps > 0 {
			o.lps = lps
		}
	}
}

// WithSampleRate requests a sample rate from the device. The device may
// negotiate another one; Player.SampleRate reports what was chosen.
func WithSampleRate(rate int) Option {
	return func(o *options) { o.sampleRate = rate }
}

// WithBufferSize requests a device buffer size.
func WithBufferSize(d time.Duration) Option {
	return func(o *options) { o.bufferSize = d }
}

// WithQueueLength sets how many rendered steps can wait for the device
// before Advance blocks.
func WithQueueLength(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.queueLength = n
		}
	}
}

// WithVolume sets the initial master volume.
func WithVolume(v float64) Option {
	return func(o *options) { o.volume = v }
}

// WithPan sets the initial master balance, in [-1, 1].
func WithPan(pan float64) Option {
	return func(o *options) { o.pan = pan }
}

// WithTrackPans sets the pan of each track, by track index.
func WithTrackPans(pans []float64) Option {
	return func(o *options) { o.trackPans = append([]float64(nil), pans...) }
}

// WithPrefill sets how many lines Play renders before starting the stream,
// keeping the device ahead of the update loop. It is capped at the queue
// length.
func WithPrefill(lines int) Option {
	return func(o *options) {
		if lines > 0 {
			o.prefill = lines
		}
	}
}
