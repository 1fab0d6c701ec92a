package sample_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/vsariola/stepper"
	"github.com/vsariola/stepper/sample"
)

func writeWav(t *testing.T, name string, rate, depth, channels int, data []int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	enc := wav.NewEncoder(f, rate, depth, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: depth,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMonoWav(t *testing.T) {
	path := writeWav(t, "mono.wav", 22050, 16, 1, []int{0, 16384, -16384, -32768})
	s, err := sample.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.FrameRate() != 22050 {
		t.Errorf("got rate %v, expected 22050", s.FrameRate())
	}
	expected := []stepper.Frame{{0, 0}, {0.5, 0.5}, {-0.5, -0.5}, {-1, -1}}
	if s.Len() != len(expected) {
		t.Fatalf("got %v frames, expected %v", s.Len(), len(expected))
	}
	for i, f := range s.Frames() {
		if f != expected[i] {
			t.Errorf("frame %v: got %v, expected %v", i, f, expected[i])
		}
	}
}

func TestLoadStereoWav(t *testing.T) {
	path := writeWav(t, "stereo.WAV", 44100, 16, 2, []int{16384, -16384, 8192, 0})
	s, err := sample.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	expected := []stepper.Frame{{0.5, -0.5}, {0.25, 0}}
	for i, f := range s.Frames() {
		if f != expected[i] {
			t.Errorf("frame %v: got %v, expected %v", i, f, expected[i])
		}
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	unsupported := filepath.Join(dir, "sample.ogg")
	if err := os.WriteFile(unsupported, []byte("OggS"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := sample.Load(unsupported); !errors.Is(err, sample.ErrUnsupportedFormat) {
		t.Errorf("got %v, expected ErrUnsupportedFormat", err)
	}
	if _, err := sample.Load(filepath.Join(dir, "missing.wav")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v, expected a missing file error", err)
	}
	garbage := filepath.Join(dir, "garbage.wav")
	if err := os.WriteFile(garbage, []byte("definitely not riff data"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := sample.Load(garbage); err == nil {
		t.Error("expected an error for an invalid wav file")
	}
}

func TestDecodeMP3Empty(t *testing.T) {
	if _, err := sample.DecodeMP3(bytes.NewReader(nil)); err == nil {
		t.Error("expected an error for empty mp3 data")
	}
}

func TestDecodeExportedWav(t *testing.T) {
	buffer := stepper.AudioBuffer{{0.5, -0.5}, {0.25, 0}, {-1, 1}}
	data, err := buffer.Wav(8000, true)
	if err != nil {
		t.Fatal(err)
	}
	s, err := sample.DecodeWAV(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeWAV: %v", err)
	}
	if s.FrameRate() != 8000 || s.Len() != len(buffer) {
		t.Fatalf("got %v frames at %v Hz, expected %v at 8000", s.Len(), s.FrameRate(), len(buffer))
	}
	for i, f := range s.Frames() {
		for c := range f {
			if math.Abs(float64(f[c]-buffer[i][c])) > 1e-3 {
				t.Errorf("frame %v channel %v: got %v, expected %v", i, c, f[c], buffer[i][c])
			}
		}
	}
}

// extensibleWav builds a mono 24-bit WAVE_FORMAT_EXTENSIBLE file.
func extensibleWav(subFormat uint16, samples ...int32) []byte {
	var b bytes.Buffer
	le := func(v any) { binary.Write(&b, binary.LittleEndian, v) }
	dataSize := 3 * len(samples)
	b.WriteString("RIFF")
	le(uint32(4 + 8 + 40 + 8 + dataSize))
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	le(uint32(40))
	le(uint16(0xFFFE)) // WAVE_FORMAT_EXTENSIBLE
	le(uint16(1))      // channels
	le(uint32(8000))   // sample rate
	le(uint32(8000 * 3))
	le(uint16(3))  // block align
	le(uint16(24)) // bits per sample
	le(uint16(22)) // extension size
	le(uint16(24)) // valid bits
	le(uint32(4))  // channel mask
	le(subFormat)
	b.Write([]byte{0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71})
	b.WriteString("data")
	le(uint32(dataSize))
	for _, v := range samples {
		b.Write([]byte{byte(v), byte(v >> 8), byte(v >> 16)})
	}
	return b.Bytes()
}

func TestDecodeExtensibleWav(t *testing.T) {
	s, err := sample.DecodeWAV(bytes.NewReader(extensibleWav(1, 1<<22, -(1 << 22), 0, -(1 << 23))))
	if err != nil {
		t.Fatalf("DecodeWAV: %v", err)
	}
	expected := []stepper.Frame{{0.5, 0.5}, {-0.5, -0.5}, {0, 0}, {-1, -1}}
	if s.FrameRate() != 8000 || s.Len() != len(expected) {
		t.Fatalf("got %v frames at %v Hz, expected %v at 8000", s.Len(), s.FrameRate(), len(expected))
	}
	for i, f := range s.Frames() {
		if f != expected[i] {
			t.Errorf("frame %v: got %v, expected %v", i, f, expected[i])
		}
	}
}

func TestDecodeExtensibleFloatWavIsUnsupported(t *testing.T) {
	_, err := sample.DecodeWAV(bytes.NewReader(extensibleWav(3, 0, 0)))
	if !errors.Is(err, sample.ErrUnsupportedFormat) {
		t.Errorf("got %v, expected ErrUnsupportedFormat", err)
	}
}
