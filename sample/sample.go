// Package sample loads audio files into signals for sampled instruments.
package sample

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/riff"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/vsariola/stepper"
	"github.com/vsariola/stepper/signal"
)

// ErrUnsupportedFormat is returned for files that are neither WAV nor MP3.
var ErrUnsupportedFormat = errors.New("unsupported sample format")

// Load decodes the WAV or MP3 file at path, by extension, into a stereo
// signal with samples in [-1, 1]. It satisfies synth.SampleLoader.
func Load(path string) (*signal.Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open sample: %w", err)
	}
	defer f.Close()
	var s *signal.Signal
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav", ".wave":
		s, err = DecodeWAV(f)
	case ".mp3":
		s, err = DecodeMP3(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("could not decode %v: %w", filepath.Base(path), err)
	}
	return s, nil
}

// DecodeWAV decodes integer PCM WAV data, plain or WAVE_FORMAT_EXTENSIBLE
// with a PCM subformat. Float WAV files are not supported. Mono is
// duplicated to both channels; only the first two channels of multichannel
// files are kept.
func DecodeWAV(r io.ReadSeeker) (*signal.Signal, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, errors.New("not a valid wav file")
	}
	format := d.WavAudioFormat
	if format == wavFormatExtensible {
		// the decoder skips the extension, read the subformat separately
		var err error
		if format, err = extensibleSubFormat(r); err != nil {
			return nil, err
		}
		d = wav.NewDecoder(r)
		if !d.IsValidFile() {
			return nil, errors.New("not a valid wav file")
		}
	}
	if format != wavFormatPCM {
		return nil, fmt.Errorf("%w: wav audio format %d, only integer PCM is supported", ErrUnsupportedFormat, format)
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("could not read wav data: %w", err)
	}
	channels := int(d.NumChans)
	depth := int(d.BitDepth)
	if channels < 1 || depth < 8 || depth > 32 {
		return nil, fmt.Errorf("%w: %d channels, %d bits", ErrUnsupportedFormat, channels, depth)
	}
	scale := 1 / float32(int64(1)<<(depth-1))
	offset := 0
	if depth == 8 { // 8-bit wav is unsigned
		offset = 128
	}
	frames := make([]stepper.Frame, len(buf.Data)/channels)
	for i := range frames {
		l := float32(buf.Data[i*channels]-offset) * scale
		r := l
		if channels > 1 {
			r = float32(buf.Data[i*channels+1]-offset) * scale
		}
		frames[i] = stepper.Frame{l, r}
	}
	return signal.FromFrames(frames, int(d.SampleRate)), nil
}

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

// extensibleSubFormat returns the first two bytes of the subformat GUID of
// a WAVE_FORMAT_EXTENSIBLE file, which hold the actual format code. r is
// rewound before and after.
func extensibleSubFormat(r io.ReadSeeker) (uint16, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	p := riff.New(r)
	if err := p.ParseHeaders(); err != nil {
		return 0, fmt.Errorf("could not read riff header: %w", err)
	}
	for {
		ch, err := p.NextChunk()
		if err != nil {
			return 0, fmt.Errorf("fmt chunk not found: %w", err)
		}
		if ch.ID != riff.FmtID {
			ch.Drain()
			continue
		}
		data := make([]byte, ch.Size)
		if err := ch.ReadLE(data); err != nil {
			return 0, fmt.Errorf("could not read fmt chunk: %w", err)
		}
		if len(data) < 26 {
			return 0, fmt.Errorf("extensible fmt chunk of %d bytes is too short", len(data))
		}
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return 0, err
		}
		return binary.LittleEndian.Uint16(data[24:]), nil
	}
}

// DecodeMP3 decodes MP3 data. The decoder always produces 16-bit stereo.
func DecodeMP3(r io.Reader) (*signal.Signal, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("could not read mp3 header: %w", err)
	}
	data, err := io.ReadAll(d)
	if err != nil {
		return nil, fmt.Errorf("could not decode mp3: %w", err)
	}
	frames := make([]stepper.Frame, len(data)/4)
	for i := range frames {
		l := int16(uint16(data[4*i]) | uint16(data[4*i+1])<<8)
		r := int16(uint16(data[4*i+2]) | uint16(data[4*i+3])<<8)
		frames[i] = stepper.Frame{float32(l) / 32768, float32(r) / 32768}
	}
	return signal.FromFrames(frames, d.SampleRate()), nil
}
