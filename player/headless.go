package player

import (
	"sync"
	"time"

	"github.com/vsariola/stepper"
)

// HeadlessDevice is an AudioDevice without sound hardware. Once started, its
// streams pull audio from the callback at the real rate and hand every
// buffer to Sink, if set. It is useful on machines without a sound card.
type HeadlessDevice struct {
	Sink func(samples []float32)
}

type headlessStream struct {
	config stepper.StreamConfig
	fill   stepper.FillFunc
	sink   func([]float32)

	mu      sync.Mutex
	started bool
	closed  bool
	quit    chan struct{}
	done    chan struct{}
}

const headlessBufferSize = 10 * time.Millisecond

func (d HeadlessDevice) Open(req stepper.StreamConfig, fill stepper.FillFunc) (stepper.AudioStream, error) {
	cfg := stepper.StreamConfig{
		SampleRate:   req.SampleRate,
		ChannelCount: 2,
		Format:       stepper.FormatFloat32LE,
		BufferSize:   req.BufferSize,
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = stepper.DefaultSampleRate
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = headlessBufferSize
	}
	return &headlessStream{
		config: cfg,
		fill:   fill,
		sink:   d.Sink,
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}, nil
}

func (s *headlessStream) Config() stepper.StreamConfig { return s.config }

func (s *headlessStream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.closed {
		return nil
	}
	s.started = true
	go s.loop()
	return nil
}

func (s *headlessStream) loop() {
	defer close(s.done)
	frames := max(int(s.config.BufferSize.Seconds()*float64(s.config.SampleRate)), 1)
	buf := make([]float32, 2*frames)
	ticker := time.NewTicker(s.config.BufferSize)
	defer ticker.Stop()
	for {
		select {
		case <-s.quit:
			return
		case <-ticker.C:
			s.fill(buf)
			if s.sink != nil {
				s.sink(buf)
			}
		}
	}
}

// Close stops the stream and waits until the callback is no longer called.
func (s *headlessStream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.quit)
	started := s.started
	s.mu.Unlock()
	if started {
		<-s.done
	}
	return nil
}
