// Package oto implements stepper.AudioDevice on top of
// github.com/ebitengine/oto/v3.
package oto

import (
	"fmt"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/vsariola/stepper"
)

// Device is the system's default audio output. oto allows one context per
// process, so the first Open decides the sample rate and later streams share
// it.
type Device struct {
	mu      sync.Mutex
	context *oto.Context
	rate    int
}

type stream struct {
	config stepper.StreamConfig
	player *oto.Player
}

// Open creates a stereo float32 stream pulling audio from fill. Only stereo
// float32 requests are accepted.
func (d *Device) Open(req stepper.StreamConfig, fill stepper.FillFunc) (stepper.AudioStream, error) {
	if req.ChannelCount != 0 && req.ChannelCount != 2 {
		return nil, fmt.Errorf("%w: %d channels", stepper.ErrUnsupportedStreamConfig, req.ChannelCount)
	}
	if req.Format != stepper.FormatUnknown && req.Format != stepper.FormatFloat32LE {
		return nil, fmt.Errorf("%w: format %v", stepper.ErrUnsupportedStreamConfig, req.Format)
	}
	ctx, rate, err := d.ensureContext(req)
	if err != nil {
		return nil, err
	}
	p := ctx.NewPlayer(&reader{fill: fill})
	if req.BufferSize > 0 {
		p.SetBufferSize(bytesPerFrame * int(req.BufferSize.Seconds()*float64(rate)))
	}
	if err := p.Err(); err != nil {
		p.Close()
		return nil, fmt.Errorf("%w: %v", stepper.ErrStreamCreationFailed, err)
	}
	return &stream{
		config: stepper.StreamConfig{
			SampleRate:   rate,
			ChannelCount: 2,
			Format:       stepper.FormatFloat32LE,
			BufferSize:   req.BufferSize,
		},
		player: p,
	}, nil
}

func (d *Device) ensureContext(req stepper.StreamConfig) (*oto.Context, int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.context != nil {
		return d.context, d.rate, nil
	}
	rate := req.SampleRate
	if rate <= 0 {
		rate = stepper.DefaultSampleRate
	}
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   req.BufferSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", stepper.ErrDeviceUnavailable, err)
	}
	<-ready
	if err := ctx.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", stepper.ErrStreamCreationFailed, err)
	}
	d.context, d.rate = ctx, rate
	return ctx, rate, nil
}

func (s *stream) Config() stepper.StreamConfig { return s.config }

func (s *stream) Start() error {
	s.player.Play()
	return s.player.Err()
}

func (s *stream) Close() error {
	if err := s.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}
