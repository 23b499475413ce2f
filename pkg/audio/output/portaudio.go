//go:build portaudio

// ABOUTME: PortAudio output implementation
// ABOUTME: Cross-platform audio output using a blocking PortAudio stream
package output

import (
	"fmt"
	"log"
	"sync"

	"github.com/gordonklaus/portaudio"
)

const portAudioFramesPerBuffer = 256

// PortAudio output implementation
type PortAudio struct {
	stream   *portaudio.Stream
	buffer   []int16
	channels int
	gate     *pacer
	mu       sync.Mutex
}

// NewPortAudio creates a new PortAudio output
func NewPortAudio() Output {
	return &PortAudio{gate: newPacer()}
}

// Open initializes PortAudio and opens a stopped blocking stream
func (p *PortAudio) Open(sampleRate, channels, bitDepth int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if bitDepth != 16 {
		return fmt.Errorf("unsupported bit depth: %d (supported: 16)", bitDepth)
	}

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	p.buffer = make([]int16, portAudioFramesPerBuffer*channels)
	stream, err := portaudio.OpenDefaultStream(0, channels, float64(sampleRate), portAudioFramesPerBuffer, &p.buffer)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("failed to open stream: %w", err)
	}

	p.stream = stream
	p.channels = channels

	log.Printf("Audio output initialized: %dHz, %d channels (portaudio)", sampleRate, channels)
	return nil
}

// Play starts the stream
func (p *PortAudio) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream == nil {
		return ErrNotOpen
	}
	if err := p.stream.Start(); err != nil {
		return fmt.Errorf("failed to start stream: %w", err)
	}
	p.gate.play()
	return nil
}

// Pause stops the stream; writers block until Play
func (p *PortAudio) Pause() error {
	p.gate.pause()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream == nil {
		return ErrNotOpen
	}
	if err := p.stream.Stop(); err != nil {
		return fmt.Errorf("failed to stop stream: %w", err)
	}
	return nil
}

// Write outputs audio samples in stream-sized chunks
func (p *PortAudio) Write(samples []int16) error {
	for len(samples) > 0 {
		if err := p.gate.waitPlaying(); err != nil {
			return err
		}

		p.mu.Lock()
		if p.stream == nil {
			p.mu.Unlock()
			return ErrNotOpen
		}

		n := copy(p.buffer, samples)
		// Pad the final partial chunk with silence
		clear(p.buffer[n:])
		err := p.stream.Write()
		p.mu.Unlock()

		if err != nil {
			return fmt.Errorf("stream write failed: %w", err)
		}
		samples = samples[n:]
	}
	return nil
}

// Stop aborts the stream and fails pending writes
func (p *PortAudio) Stop() error {
	p.gate.halt()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream != nil {
		if err := p.stream.Abort(); err != nil {
			log.Printf("Warning: portaudio abort error: %v", err)
		}
	}
	return nil
}

// Close releases resources
func (p *PortAudio) Close() error {
	p.gate.halt()

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stream == nil {
		return nil
	}
	if err := p.stream.Close(); err != nil {
		return fmt.Errorf("failed to close stream: %w", err)
	}
	p.stream = nil
	return portaudio.Terminate()
}
