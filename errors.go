package stepper

import "errors"

var (
	// ErrDeviceUnavailable is returned when no usable output device was found.
	ErrDeviceUnavailable = errors.New("audio device unavailable")
	// ErrUnsupportedStreamConfig is returned when the negotiated stream is not
	// stereo float32.
	ErrUnsupportedStreamConfig = errors.New("unsupported stream config")
	// ErrStreamCreationFailed is returned when the audio subsystem failed to
	// open the stream.
	ErrStreamCreationFailed = errors.New("stream creation failed")
	// ErrOutOfRange is returned by editing operations given a track or row
	// outside the pattern.
	ErrOutOfRange = errors.New("index out of range")
)
