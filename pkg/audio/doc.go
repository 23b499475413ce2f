// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format and 16-bit sample conversion functions
// Package audio provides fundamental audio types shared by the
// synthesizer, the streaming engine and the output backends.
//
// This package defines:
//   - Format: Describes audio stream format (codec, sample rate, channels, bit depth)
//   - FloatToInt16: the single saturating conversion point of the signal chain
//
// Example:
//
//	format := audio.DefaultFormat // 44100Hz, 16-bit, stereo
//
//	// Convert a mixed float sample to PCM, clamping on overload
//	pcm := audio.FloatToInt16(mixed)
package audio
