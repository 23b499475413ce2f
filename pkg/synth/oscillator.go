// ABOUTME: Sine oscillator primitive and the shared synthesis clock
// ABOUTME: Oscillators take elapsed time, not an internal phase
package synth

import "math"

// Sine returns sin(2π·f·t). Every voice evaluates it against the same
// clock so partials never drift apart.
func Sine(freq, t float64) float64 {
	return math.Sin(2 * math.Pi * freq * t)
}

// Clock counts generated frames. Time is derived from the frame count
// so it advances by exactly one sample period per frame.
type Clock struct {
	sampleRate int
	frames     uint64
}

// NewClock creates a clock at t=0
func NewClock(sampleRate int) Clock {
	return Clock{sampleRate: sampleRate}
}

// Now returns elapsed seconds
func (c *Clock) Now() float64 {
	return float64(c.frames) / float64(c.sampleRate)
}

// Advance moves the clock forward by one sample period
func (c *Clock) Advance() {
	c.frames++
}

// Frames returns the number of frames generated so far
func (c *Clock) Frames() uint64 {
	return c.frames
}

// Period returns the duration of one sample in seconds
func (c *Clock) Period() float64 {
	return 1 / float64(c.sampleRate)
}
