// ABOUTME: Synthesizer composing the voices against one clock
// ABOUTME: Generates mixed PCM frames and fills interleaved buffers
package synth

import "github.com/calmtv/calmtv-go/pkg/audio"

// Synthesizer owns all generator state: the clock, the note sequencer
// and the noise filter
type Synthesizer struct {
	config Config
	clock  Clock
	drone  *Drone
	melody *Melody
	noise  *PinkNoise
	mixer  Mixer
}

// New creates a synthesizer. Zero-valued config fields take their
// defaults. A nil src seeds the noise randomly.
func New(config Config, src Uniform) (*Synthesizer, error) {
	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Synthesizer{
		config: config,
		clock:  NewClock(config.SampleRate),
		drone:  NewDrone(config.PurrFrequencies, config.PurrWeights, config.BreathingRateHz),
		melody: NewMelody(config.MelodyScale, config.NoteDuration, config.SampleRate),
		noise:  NewPinkNoise(src),
		mixer: Mixer{
			Gains:        config.Gains,
			MasterVolume: config.MasterVolume,
		},
	}, nil
}

// Next generates one mixed frame and advances the clock
func (s *Synthesizer) Next() float64 {
	t := s.clock.Now()

	drone := s.drone.Sample(t)
	melody := s.melody.Next(t)
	noise := s.noise.Next()

	s.clock.Advance()

	return s.mixer.Mix(drone, melody, noise)
}

// Fill writes len(buf)/channels frames of interleaved PCM into buf, the
// same value on every channel. Returns the number of frames written.
func (s *Synthesizer) Fill(buf []int16, channels int) int {
	if channels <= 0 {
		return 0
	}

	frames := len(buf) / channels
	for i := 0; i < frames; i++ {
		sample := audio.FloatToInt16(s.Next())
		for ch := 0; ch < channels; ch++ {
			buf[i*channels+ch] = sample
		}
	}

	return frames
}

// Config returns the effective configuration
func (s *Synthesizer) Config() Config {
	return s.config
}

// Time returns the synthesis clock in seconds
func (s *Synthesizer) Time() float64 {
	return s.clock.Now()
}

// Frames returns the number of frames generated
func (s *Synthesizer) Frames() uint64 {
	return s.clock.Frames()
}

// NoteIndex returns the melody's current scale position
func (s *Synthesizer) NoteIndex() int {
	return s.melody.NoteIndex()
}

// NoteElapsed returns seconds played of the current note
func (s *Synthesizer) NoteElapsed() float64 {
	return s.melody.NoteElapsed()
}

// NoteElapsedFrames returns frames played of the current note
func (s *Synthesizer) NoteElapsedFrames() uint64 {
	return s.melody.ElapsedFrames()
}
