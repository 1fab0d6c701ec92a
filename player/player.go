// Package player plays a pattern through an audio device in real time.
//
// Three parties are involved. The update goroutine calls Advance (or Run),
// which plays the rows that became due and queues the rendered audio. The
// device calls the realtime callback, which takes queued audio without ever
// blocking and pads with silence when nothing is queued. A stream goroutine
// owns the device stream: it opens it, reports the negotiated format and
// then waits for control messages.
package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vsariola/stepper"
	"github.com/vsariola/stepper/signal"
	"github.com/vsariola/stepper/synth"
)

type (
	// Player plays a RowSource through an AudioDevice.
	Player struct {
		logger *slog.Logger
		config stepper.StreamConfig // negotiated, immutable after New
		opts   options

		mu            sync.Mutex // guards the sequencer
		seq           *sequencer
		lastUnderruns int64

		hand     *handoff
		control  chan any
		done     chan struct{}
		closeErr error // written by the stream goroutine before done is closed

		stopOnce sync.Once
	}

	playMsg struct{}
	stopMsg struct{}

	setupResult struct {
		config stepper.StreamConfig
		err    error
	}
)

var errStopped = errors.New("player stopped")

// New opens a stream on the device and returns a Player ready to Play. The
// call blocks until the device has answered or ctx is done. The device must
// negotiate a stereo float32 stream; anything else is closed again and
// reported as ErrUnsupportedStreamConfig.
func New(ctx context.Context, device stepper.AudioDevice, source stepper.RowSource, table *synth.InstrumentTable, opts ...Option) (*Player, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.prefill = min(o.prefill, o.queueLength)
	p := &Player{
		logger:  o.logger,
		opts:    o,
		hand:    newHandoff(o.queueLength, o.volume, o.pan),
		control: make(chan any, 4),
		done:    make(chan struct{}),
	}
	req := stepper.StreamConfig{
		SampleRate:   o.sampleRate,
		ChannelCount: 2,
		Format:       stepper.FormatFloat32LE,
		BufferSize:   o.bufferSize,
	}
	setup := make(chan setupResult, 1)
	go p.stream(device, req, setup)
	select {
	case res := <-setup:
		if res.err != nil {
			return nil, res.err
		}
		p.config = res.config
	case <-ctx.Done():
		p.control <- stopMsg{}
		return nil, ctx.Err()
	}
	p.seq = newSequencer(source, table, p.config.SampleRate, o.lps, o.trackPans)
	p.logger.Info("audio stream opened",
		"rate", p.config.SampleRate,
		"format", p.config.Format.String(),
		"buffer", p.config.BufferSize)
	return p, nil
}

// stream runs on its own goroutine and owns the device stream.
func (p *Player) stream(device stepper.AudioDevice, req stepper.StreamConfig, setup chan<- setupResult) {
	defer close(p.done)
	s, err := device.Open(req, p.hand.fill)
	if err != nil {
		setup <- setupResult{err: err}
		return
	}
	cfg := s.Config()
	if cfg.ChannelCount != 2 || cfg.Format != stepper.FormatFloat32LE || cfg.SampleRate <= 0 {
		if err := s.Close(); err != nil {
			p.logger.Warn("closing rejected stream", "err", err)
		}
		setup <- setupResult{err: fmt.Errorf("%w: %d channels, %v, %d Hz", stepper.ErrUnsupportedStreamConfig, cfg.ChannelCount, cfg.Format, cfg.SampleRate)}
		return
	}
	setup <- setupResult{config: cfg}
	started := false
	for msg := range p.control {
		switch msg.(type) {
		case playMsg:
			if started {
				continue
			}
			if err := s.Start(); err != nil {
				p.logger.Error("starting audio stream", "err", err)
				continue
			}
			started = true
		case stopMsg:
			p.hand.stop()
			p.closeErr = s.Close()
			return
		}
	}
}

// Play starts the stream and playback from the first row. The prefill rows
// are rendered before the stream starts, so the device never begins on an
// empty queue. Playing again restarts from the first row and drops whatever
// the previous playback had queued.
func (p *Player) Play() {
	if p.hand.closed.Load() {
		return
	}
	p.mu.Lock()
	p.hand.restart()
	p.seq.start(p.opts.prefill)
	err := p.seq.advance(0, func(s *signal.Signal) error {
		return p.hand.push(nil, s)
	})
	p.hand.expecting.Store(p.seq.playing)
	p.mu.Unlock()
	if err != nil {
		p.logger.Debug("prefill interrupted", "err", err)
		return
	}
	p.send(playMsg{})
}

// Stop ends playback, tears down the stream and drops every queued frame.
// The Player cannot be played again afterwards.
func (p *Player) Stop() {
	p.stopOnce.Do(func() {
		p.hand.stop()
		p.mu.Lock()
		p.seq.stop()
		p.mu.Unlock()
		p.send(stopMsg{})
		<-p.done
		p.hand.discard()
		p.logger.Debug("audio stream closed")
	})
}

// Close stops the player and returns the error from closing the stream.
// Closing while rendered frames are still waiting for the device loses
// them; call Stop first to drop them deliberately.
func (p *Player) Close() error {
	if n := p.hand.pending(); n > 0 && !p.hand.closed.Load() {
		if debugAsserts {
			panic(fmt.Sprintf("player: closed with %d frames still queued", n))
		}
		p.logger.Error("player closed with frames still queued", "frames", n)
	}
	p.Stop()
	return p.closeErr
}

func (p *Player) send(msg any) {
	select {
	case p.control <- msg:
	case <-p.done:
	}
}

// Advance plays every row that became due during elapsed and queues the
// rendered audio. It blocks while the queue is full, until the device has
// consumed enough or ctx is done.
func (p *Player) Advance(ctx context.Context, elapsed time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reportUnderruns()
	err := p.seq.advance(elapsed, func(s *signal.Signal) error {
		return p.hand.push(ctx.Done(), s)
	})
	if !p.seq.playing {
		p.hand.expecting.Store(false)
	}
	if errors.Is(err, errStopped) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return nil
	}
	return err
}

// Run calls Advance every interval with the measured elapsed time, until
// the pattern has been played through, the player is stopped or ctx is done.
func (p *Player) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	last := time.Now()
	for p.Playing() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.hand.stopped:
			return nil
		case now := <-ticker.C:
			elapsed := now.Sub(last)
			last = now
			if err := p.Advance(ctx, elapsed); err != nil {
				return err
			}
		}
	}
	return nil
}

// Drain waits until the device has played every queued frame, or ctx is done.
func (p *Player) Drain(ctx context.Context, poll time.Duration) error {
	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	for p.hand.pending() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.hand.stopped:
			return nil
		case <-ticker.C:
		}
	}
	return nil
}

func (p *Player) reportUnderruns() {
	n := p.hand.underruns.Load()
	if n != p.lastUnderruns {
		p.logger.Warn("audio underrun", "count", n-p.lastUnderruns, "total", n)
		p.lastUnderruns = n
	}
}

// SetVolume sets the master volume, applied by the realtime callback.
func (p *Player) SetVolume(v float64) { p.hand.setVolume(v) }

// SetPan sets the master balance in [-1, 1].
func (p *Player) SetPan(pan float64) { p.hand.setPan(pan) }

// SetLinesPerSecond changes the playback speed. It takes effect from the
// next row. Non-positive values are ignored.
func (p *Player) SetLinesPerSecond(lps float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq.setLinesPerSecond(lps)
}

// Playing reports whether rows are still being played.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seq.playing
}

// Cursor returns the index of the next row to be played.
func (p *Player) Cursor() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seq.cursor
}

// SampleRate returns the negotiated sample rate.
func (p *Player) SampleRate() int { return p.config.SampleRate }

// Config returns the negotiated stream configuration.
func (p *Player) Config() stepper.StreamConfig { return p.config }

// Underruns returns how many times the callback ran out of audio while
// playing.
func (p *Player) Underruns() int64 { return p.hand.underruns.Load() }

// Queued returns the number of frames rendered but not yet played.
func (p *Player) Queued() int64 { return p.hand.pending() }
