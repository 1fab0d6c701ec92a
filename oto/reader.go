package oto

import (
	"encoding/binary"
	"math"

	"github.com/vsariola/stepper"
)

const bytesPerFrame = 8 // two float32 samples

// reader adapts a FillFunc to the io.Reader oto pulls from. Read is called
// on oto's audio goroutine.
type reader struct {
	fill stepper.FillFunc
	buf  []float32
}

func (r *reader) Read(p []byte) (int, error) {
	frames := len(p) / bytesPerFrame
	if cap(r.buf) < 2*frames {
		r.buf = make([]float32, 2*frames)
	}
	r.buf = r.buf[:2*frames]
	r.fill(r.buf)
	encodeFloat32LE(p, r.buf)
	clear(p[frames*bytesPerFrame:])
	return len(p), nil
}

// encodeFloat32LE writes the samples to dst as little-endian float32.
func encodeFloat32LE(dst []byte, samples []float32) {
	for i, v := range samples {
		binary.LittleEndian.PutUint32(dst[4*i:], math.Float32bits(v))
	}
}
