//go:build !portaudio

// ABOUTME: PortAudio stub when library not available
// ABOUTME: Provides compile-time placeholder when PortAudio not installed
package output

import (
	"errors"
)

var errPortAudioDisabled = errors.New("PortAudio support not enabled (build with -tags portaudio)")

// PortAudio output implementation (stub)
type PortAudio struct{}

// NewPortAudio creates a new PortAudio output
func NewPortAudio() Output {
	return &PortAudio{}
}

// Open initializes PortAudio
func (p *PortAudio) Open(sampleRate, channels, bitDepth int) error {
	return errPortAudioDisabled
}

// Play starts playback
func (p *PortAudio) Play() error {
	return errPortAudioDisabled
}

// Pause suspends playback
func (p *PortAudio) Pause() error {
	return errPortAudioDisabled
}

// Write outputs audio samples
func (p *PortAudio) Write(samples []int16) error {
	return errPortAudioDisabled
}

// Stop halts playback
func (p *PortAudio) Stop() error {
	return nil
}

// Close releases resources
func (p *PortAudio) Close() error {
	return nil
}
