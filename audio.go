package stepper

import "time"

type (
	// Frame is one stereo sample pair: left and right.
	Frame [2]float32

	// AudioBuffer is a buffer of stereo frames, in the order they are played.
	AudioBuffer []Frame

	// SampleFormat is the format of a single sample in a stream.
	SampleFormat int

	// StreamConfig describes an output stream. When requesting a stream, the
	// zero values of SampleRate and BufferSize mean "let the device decide".
	// The device reports the negotiated values back through
	// AudioStream.Config.
	StreamConfig struct {
		SampleRate   int
		ChannelCount int
		Format       SampleFormat
		BufferSize   time.Duration
	}

	// FillFunc is the per-buffer fill callback registered with an audio
	// device. It is called from the device's realtime thread with an
	// interleaved stereo buffer (L, R, L, R, ...) that must be completely
	// filled before returning. A FillFunc must never block.
	FillFunc func(out []float32)

	// AudioStream is an open output stream.
	AudioStream interface {
		Config() StreamConfig
		Start() error
		Close() error
	}

	// AudioDevice opens output streams. Open either returns a stream that
	// will call fill once started, or an error wrapping one of
	// ErrDeviceUnavailable, ErrUnsupportedStreamConfig or
	// ErrStreamCreationFailed. No partial stream is left behind on error.
	AudioDevice interface {
		Open(req StreamConfig, fill FillFunc) (AudioStream, error)
	}
)

const (
	FormatUnknown SampleFormat = iota
	FormatFloat32LE
	FormatSignedInt16LE
)

const DefaultSampleRate = 44100

func (f SampleFormat) String() string {
	switch f {
	case FormatFloat32LE:
		return "float32le"
	case FormatSignedInt16LE:
		return "s16le"
	default:
		return "unknown"
	}
}

// Samples returns the buffer as interleaved float32 samples, copying into dst
// (which is grown if needed).
func (b AudioBuffer) Samples(dst []float32) []float32 {
	dst = dst[:0]
	for _, f := range b {
		dst = append(dst, f[0], f[1])
	}
	return dst
}
