// ABOUTME: Pink noise generator using Paul Kellet's filter cascade
// ABOUTME: Uniform white noise shaped by six one-pole sections
package synth

import "math/rand/v2"

const pinkGain = 0.11

// Uniform is a source of uniformly distributed values in [0, 1).
// *rand.Rand satisfies it.
type Uniform interface {
	Float64() float64
}

// NewSource returns a seeded uniform source, for reproducible noise
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func randomSource() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// PinkNoise approximates 1/f noise. The seven accumulators carry
// across calls and are only zero at construction.
type PinkNoise struct {
	src Uniform
	b   [7]float64
}

// NewPinkNoise creates a pink noise generator. A nil src uses a randomly
// seeded PCG source.
func NewPinkNoise(src Uniform) *PinkNoise {
	if src == nil {
		src = randomSource()
	}
	return &PinkNoise{src: src}
}

// Next returns one pink noise sample, roughly within [-1, 1]
func (p *PinkNoise) Next() float64 {
	white := p.src.Float64()*2 - 1

	b := &p.b
	b[0] = 0.99886*b[0] + white*0.0555179
	b[1] = 0.99332*b[1] + white*0.0750759
	b[2] = 0.96900*b[2] + white*0.1538520
	b[3] = 0.86650*b[3] + white*0.3104856
	b[4] = 0.55000*b[4] + white*0.5329522
	b[5] = -0.7616*b[5] - white*0.0168980
	pink := b[0] + b[1] + b[2] + b[3] + b[4] + b[5] + b[6] + white*0.5362
	b[6] = white * 0.115926

	return pink * pinkGain
}

// WhiteNoise is the unfiltered uniform source scaled to [-1, 1)
type WhiteNoise struct {
	src Uniform
}

// NewWhiteNoise creates a white noise generator. A nil src uses a
// randomly seeded PCG source.
func NewWhiteNoise(src Uniform) *WhiteNoise {
	if src == nil {
		src = randomSource()
	}
	return &WhiteNoise{src: src}
}

// Next returns one white noise sample
func (w *WhiteNoise) Next() float64 {
	return w.src.Float64()*2 - 1
}
