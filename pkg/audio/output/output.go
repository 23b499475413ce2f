// ABOUTME: Audio output interface definition
// ABOUTME: Common sink interface for playback backends and backend selection
package output

import (
	"errors"
	"fmt"
)

var (
	// ErrNotOpen is returned by Write before Open succeeded
	ErrNotOpen = errors.New("output not initialized")

	// ErrClosed is returned by a Write interrupted by Stop or Close
	ErrClosed = errors.New("output closed")
)

// Output represents a writable audio sink
type Output interface {
	// Open initializes the output device for interleaved PCM
	Open(sampleRate, channels, bitDepth int) error

	// Play starts or resumes playback
	Play() error

	// Pause suspends playback; pending writes block until Play
	Pause() error

	// Write outputs audio samples (blocks until accepted)
	Write(samples []int16) error

	// Stop halts playback and interrupts a blocked Write
	Stop() error

	// Close releases output resources
	Close() error
}

// Options configures backends created by New
type Options struct {
	// WAVPath is the capture file for the "wav" backend
	WAVPath string

	// Realtime paces file and null backends at the sample rate
	Realtime bool
}

// Backends lists the names accepted by New
func Backends() []string {
	return []string{"oto", "malgo", "portaudio", "wav", "null"}
}

// New creates an output backend by name
func New(name string, opts Options) (Output, error) {
	switch name {
	case "oto", "":
		return NewOto(), nil
	case "malgo":
		return NewMalgo(), nil
	case "portaudio":
		return NewPortAudio(), nil
	case "wav":
		if opts.WAVPath == "" {
			return nil, fmt.Errorf("wav output requires a file path")
		}
		return NewWAV(opts.WAVPath, opts.Realtime), nil
	case "null":
		return NewNull(), nil
	default:
		return nil, fmt.Errorf("unknown output backend: %s (supported: %v)", name, Backends())
	}
}
