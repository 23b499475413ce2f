// ABOUTME: Mixer combining drone, melody and noise
// ABOUTME: Applies voice gains and master volume, then converts to 16-bit PCM
package synth

import "github.com/calmtv/calmtv-go/pkg/audio"

// Mixer sums the voices at fixed relative gains
type Mixer struct {
	Gains        Gains
	MasterVolume float64
}

// Mix returns the gain-staged sample before conversion
func (m Mixer) Mix(drone, melody, noise float64) float64 {
	sample := m.Gains.Drone*drone + m.Gains.Melody*melody + m.Gains.Noise*noise
	return sample * m.MasterVolume
}

// Sample mixes and converts to 16-bit PCM. The conversion saturates, and
// it is the only place in the chain where the signal is clipped.
func (m Mixer) Sample(drone, melody, noise float64) int16 {
	return audio.FloatToInt16(m.Mix(drone, melody, noise))
}
