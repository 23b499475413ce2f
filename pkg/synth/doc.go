// ABOUTME: Synthesis package for the calming ambient signal
// ABOUTME: Oscillators, drone, melody, pink noise and the mixer
// Package synth generates the calming signal one frame at a time.
//
// The signal is the sum of three voices:
//   - Drone: three low "purr" partials under a 0.4Hz breathing envelope
//   - Melody: a slow walk through a six-note scale, one note every four seconds
//   - PinkNoise: Paul Kellet's 1/f approximation of filtered white noise
//
// All voices read the same SynthesisClock, so oscillators stay phase
// coherent across buffer boundaries. A Synthesizer is not safe for
// concurrent use; it is meant to be owned by a single streaming goroutine.
//
// Example:
//
//	s, err := synth.New(synth.DefaultConfig(), nil)
//	if err != nil {
//	    return err
//	}
//	buf := make([]int16, 2048*2)
//	s.Fill(buf, 2) // interleaved stereo PCM
package synth
