package player

import (
	"sync"
	"sync/atomic"

	"github.com/viterin/vek/vek32"
	"github.com/vsariola/stepper"
	"github.com/vsariola/stepper/signal"
)

// handoff carries rendered steps from the update goroutine to the realtime
// callback. The callback never blocks: chunks are taken with non-blocking
// receives and the only lock it takes guards two scalars.
type handoff struct {
	mu     sync.Mutex
	volume float64
	pan    float64

	chunks chan *chunk
	pool   sync.Pool
	gen    atomic.Int64 // bumped on every restart; older chunks are dropped

	// owned by the callback
	current *chunk
	pos     int

	queued    atomic.Int64 // frames waiting in chunks
	inflight  atomic.Int64 // frames of current not yet played
	underruns atomic.Int64
	expecting atomic.Bool // an empty queue counts as an underrun
	closed    atomic.Bool

	stopped  chan struct{}
	stopOnce sync.Once
}

// chunk is one rendered step, tagged with the playback it belongs to.
type chunk struct {
	frames stepper.AudioBuffer
	gen    int64
}

func newHandoff(queueLength int, volume, pan float64) *handoff {
	h := &handoff{
		volume:  volume,
		pan:     clampPan(pan),
		chunks:  make(chan *chunk, queueLength),
		stopped: make(chan struct{}),
	}
	h.pool.New = func() any {
		return &chunk{frames: make(stepper.AudioBuffer, 0, 4096)}
	}
	return h
}

func (h *handoff) setVolume(v float64) {
	h.mu.Lock()
	h.volume = v
	h.mu.Unlock()
}

func (h *handoff) setPan(pan float64) {
	h.mu.Lock()
	h.pan = clampPan(pan)
	h.mu.Unlock()
}

func (h *handoff) levels() (volume, pan float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.volume, h.pan
}

// push copies the step into a pooled chunk and queues it, waiting while the
// queue is full.
func (h *handoff) push(done <-chan struct{}, s *signal.Signal) error {
	c := h.pool.Get().(*chunk)
	c.frames = append(c.frames[:0], s.Frames()...)
	c.gen = h.gen.Load()
	h.queued.Add(int64(len(c.frames)))
	select {
	case h.chunks <- c:
		return nil
	case <-done:
	case <-h.stopped:
	}
	h.queued.Add(-int64(len(c.frames)))
	h.pool.Put(c)
	return errStopped
}

// pending returns the frames rendered but not yet played.
func (h *handoff) pending() int64 {
	return h.queued.Load() + h.inflight.Load()
}

func (h *handoff) stale(c *chunk) bool {
	return c.gen != h.gen.Load()
}

// fill is the realtime callback: out is interleaved stereo.
func (h *handoff) fill(out []float32) {
	frames := len(out) / 2
	i := 0
	if h.current != nil && h.stale(h.current) {
		h.pool.Put(h.current)
		h.current = nil
	}
	for !h.closed.Load() && i < frames {
		if h.current == nil {
			select {
			case c := <-h.chunks:
				h.queued.Add(-int64(len(c.frames)))
				if h.stale(c) {
					h.pool.Put(c)
					continue
				}
				h.current, h.pos = c, 0
			default:
			}
			if h.current == nil {
				break
			}
		}
		src := h.current.frames[h.pos:]
		n := min(len(src), frames-i)
		for j, f := range src[:n] {
			out[2*(i+j)] = f[0]
			out[2*(i+j)+1] = f[1]
		}
		i += n
		h.pos += n
		if h.pos >= len(h.current.frames) {
			h.pool.Put(h.current)
			h.current = nil
		}
	}
	if h.current != nil {
		h.inflight.Store(int64(len(h.current.frames) - h.pos))
	} else {
		h.inflight.Store(0)
	}
	if i < frames {
		clear(out[2*i:])
		if h.expecting.Load() {
			h.underruns.Add(1)
		}
	}
	volume, pan := h.levels()
	applyLevels(out[:2*i], volume, pan)
}

// restart starts a new playback: everything queued so far is dropped, here
// or, for the chunk the callback is playing, by the callback itself.
func (h *handoff) restart() {
	h.expecting.Store(false)
	h.gen.Add(1)
	h.drop()
	h.inflight.Store(0)
}

// drop empties the queue.
func (h *handoff) drop() {
	for {
		select {
		case c := <-h.chunks:
			h.queued.Add(-int64(len(c.frames)))
			h.pool.Put(c)
		default:
			return
		}
	}
}

// stop unblocks any push and makes the callback emit silence from now on.
func (h *handoff) stop() {
	h.stopOnce.Do(func() {
		h.expecting.Store(false)
		h.closed.Store(true)
		close(h.stopped)
	})
}

// discard drops every queued frame. Only call once the callback has stopped.
func (h *handoff) discard() {
	h.drop()
	if h.current != nil {
		h.pool.Put(h.current)
		h.current = nil
	}
	h.queued.Store(0)
	h.inflight.Store(0)
}

// applyLevels scales interleaved samples by the master volume and balance.
// A centered balance leaves both sides at full volume.
func applyLevels(out []float32, volume, pan float64) {
	if pan == 0 {
		if volume != 1 {
			vek32.MulNumber_Inplace(out, float32(volume))
		}
		return
	}
	l := float32(volume * min(1, 1-pan))
	r := float32(volume * min(1, 1+pan))
	for i := 0; i+1 < len(out); i += 2 {
		out[i] *= l
		out[i+1] *= r
	}
}

func clampPan(pan float64) float64 {
	if pan != pan {
		return 0
	}
	return min(max(pan, -1), 1)
}
