// ABOUTME: Synthesizer configuration with documented defaults
// ABOUTME: Frequencies, gains, tempo and volume are fixed at construction
package synth

import (
	"errors"
	"fmt"
	"time"
)

const (
	DefaultSampleRate      = 44100
	DefaultMasterVolume    = 0.15
	DefaultBreathingRateHz = 0.4
	DefaultNoteDuration    = 4 * time.Second
)

var (
	// DefaultPurrFrequencies are the drone partials in Hz: a low purr
	// fundamental and two upper harmonics
	DefaultPurrFrequencies = [3]float64{27.5, 44.0, 55.0}

	// DefaultPurrWeights are the relative amplitudes of the partials
	DefaultPurrWeights = [3]float64{0.5, 0.3, 0.2}

	// DefaultMelodyScale is A2 B2 D3 E3 G3 A3
	DefaultMelodyScale = []float64{110.0, 123.47, 146.83, 164.81, 196.00, 220.00}

	DefaultGains = Gains{Drone: 0.4, Melody: 0.2, Noise: 0.05}
)

// ErrInvalidConfig is returned when a Config cannot produce a signal
var ErrInvalidConfig = errors.New("invalid synth config")

// Gains are the relative mix levels of the three voices
type Gains struct {
	Drone  float64
	Melody float64
	Noise  float64
}

// Config holds synthesis parameters. Zero-valued fields are replaced by
// their defaults when passed to New.
type Config struct {
	// SampleRate in Hz (default: 44100)
	SampleRate int

	// MasterVolume is applied after mixing (default: 0.15)
	MasterVolume float64

	// PurrFrequencies are the drone partials in Hz
	PurrFrequencies [3]float64

	// PurrWeights are the amplitudes applied to PurrFrequencies
	PurrWeights [3]float64

	// BreathingRateHz is the drone amplitude modulation rate (default: 0.4)
	BreathingRateHz float64

	// MelodyScale is the ascending pitch table the melody steps through
	MelodyScale []float64

	// NoteDuration is how long each melody note lasts (default: 4s)
	NoteDuration time.Duration

	// Gains are the mix levels of drone, melody and noise
	Gains Gains
}

// DefaultConfig returns the reference configuration
func DefaultConfig() Config {
	c := Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.SampleRate == 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.MasterVolume == 0 {
		c.MasterVolume = DefaultMasterVolume
	}
	if c.PurrFrequencies == [3]float64{} {
		c.PurrFrequencies = DefaultPurrFrequencies
	}
	if c.PurrWeights == [3]float64{} {
		c.PurrWeights = DefaultPurrWeights
	}
	if c.BreathingRateHz == 0 {
		c.BreathingRateHz = DefaultBreathingRateHz
	}
	if len(c.MelodyScale) == 0 {
		c.MelodyScale = append([]float64(nil), DefaultMelodyScale...)
	}
	if c.NoteDuration == 0 {
		c.NoteDuration = DefaultNoteDuration
	}
	if c.Gains == (Gains{}) {
		c.Gains = DefaultGains
	}
}

// Validate reports whether the configuration can drive the voices
func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidConfig, c.SampleRate)
	}
	if c.MasterVolume < 0 {
		return fmt.Errorf("%w: master volume must not be negative, got %g", ErrInvalidConfig, c.MasterVolume)
	}
	if len(c.MelodyScale) == 0 {
		return fmt.Errorf("%w: melody scale is empty", ErrInvalidConfig)
	}
	if c.NoteDuration <= 0 {
		return fmt.Errorf("%w: note duration must be positive, got %v", ErrInvalidConfig, c.NoteDuration)
	}
	return nil
}
