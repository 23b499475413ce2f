// ABOUTME: Purr drone voice
// ABOUTME: Three weighted low partials under a breathing-rate envelope
package synth

import "math"

const (
	breathFloor = 0.7
	breathDepth = 0.3
)

// Drone is a weighted sum of three partials, amplitude modulated at a
// slow breathing rate
type Drone struct {
	frequencies   [3]float64
	weights       [3]float64
	breathingRate float64
}

// NewDrone creates a drone voice
func NewDrone(frequencies, weights [3]float64, breathingRate float64) *Drone {
	return &Drone{
		frequencies:   frequencies,
		weights:       weights,
		breathingRate: breathingRate,
	}
}

// Sample returns the drone value at time t. The result is not clipped.
func (d *Drone) Sample(t float64) float64 {
	var purr float64
	for i, f := range d.frequencies {
		purr += Sine(f, t) * d.weights[i]
	}

	return purr * (breathFloor + breathDepth*Sine(d.breathingRate, t))
}

// Peak returns the largest magnitude Sample can produce
func (d *Drone) Peak() float64 {
	var sum float64
	for _, w := range d.weights {
		sum += math.Abs(w)
	}
	return sum * (breathFloor + breathDepth)
}
