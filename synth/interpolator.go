package synth

import (
	"math"
	"time"
)

// DefaultRamp is the time an Interpolator takes to move from one value to
// another.
const DefaultRamp = 20 * time.Millisecond

type interpolatorState int

const (
	stateEmpty interpolatorState = iota
	stateStable
	stateInterpolating
)

// Interpolator smooths a control value so that discontinuous changes become
// linear ramps of Ramp duration, avoiding audible clicks. Process must be
// called once per output frame. The zero value is ready to use and ramps in
// DefaultRamp.
type Interpolator struct {
	Ramp time.Duration

	state     interpolatorState
	last      float64 // most recent input
	value     float64 // the value while stable
	goal      float64
	current   float64
	increment float64
	remaining int // frames left until the goal is reached
}

// Process takes the wanted value for the current frame and returns the
// smoothed value to use.
func (ip *Interpolator) Process(v float64, rate int) float64 {
	ip.last = v
	for {
		switch ip.state {
		case stateEmpty:
			ip.state = stateStable
			ip.value = v
			return v
		case stateStable:
			if v == ip.value {
				return v
			}
			ramp := ip.Ramp
			if ramp <= 0 {
				ramp = DefaultRamp
			}
			steps := ramp.Seconds() * float64(rate)
			if steps < 1 {
				ip.value = v
				return v
			}
			ip.state = stateInterpolating
			ip.goal = v
			ip.current = ip.value
			ip.increment = (ip.goal - ip.current) / steps
			ip.remaining = int(math.Ceil(steps - 1e-9))
		case stateInterpolating:
			ip.current += ip.increment
			ip.remaining--
			if ip.remaining <= 0 || (ip.increment > 0 && ip.current >= ip.goal) || (ip.increment < 0 && ip.current <= ip.goal) {
				ip.state = stateStable
				ip.value = ip.goal
				continue
			}
			return ip.current
		}
	}
}

// Stable reports if the interpolator is not ramping.
func (ip *Interpolator) Stable() bool {
	return ip.state != stateInterpolating
}

// Value returns the value most recently emitted by Process while stable, or
// the current position of the ramp.
func (ip *Interpolator) Value() float64 {
	if ip.state == stateInterpolating {
		return ip.current
	}
	return ip.value
}

// Last returns the most recent input value.
func (ip *Interpolator) Last() float64 {
	return ip.last
}

// Reset forgets all state; the next value is taken as is.
func (ip *Interpolator) Reset() {
	*ip = Interpolator{Ramp: ip.Ramp}
}
