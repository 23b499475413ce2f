// ABOUTME: Null audio output that discards samples
// ABOUTME: Paced at the sample rate so producers behave as with a device
package output

import (
	"fmt"
	"log"
	"sync/atomic"

	"github.com/calmtv/calmtv-go/pkg/audio"
)

// Null output implementation for headless devices and tests
type Null struct {
	format  audio.Format
	pacer   *pacer
	ready   atomic.Bool
	written atomic.Uint64
}

// NewNull creates a new Null output
func NewNull() Output {
	return &Null{pacer: newPacer()}
}

// Open records the stream format
func (n *Null) Open(sampleRate, channels, bitDepth int) error {
	if sampleRate <= 0 || channels <= 0 {
		return fmt.Errorf("invalid format: %dHz %dch", sampleRate, channels)
	}

	n.format = audio.Format{
		Codec:      "pcm",
		SampleRate: sampleRate,
		Channels:   channels,
		BitDepth:   bitDepth,
	}
	n.ready.Store(true)

	log.Printf("Audio output initialized: %dHz, %d channels (null)", sampleRate, channels)
	return nil
}

// Play starts consuming samples
func (n *Null) Play() error {
	n.pacer.play()
	return nil
}

// Pause blocks writers until Play
func (n *Null) Pause() error {
	n.pacer.pause()
	return nil
}

// Write discards samples after their playback duration has elapsed
func (n *Null) Write(samples []int16) error {
	if !n.ready.Load() {
		return ErrNotOpen
	}

	frames := len(samples) / n.format.Channels
	if err := n.pacer.consume(n.format.FrameDuration(frames)); err != nil {
		return err
	}

	n.written.Add(uint64(frames))
	return nil
}

// Stop interrupts pending writes
func (n *Null) Stop() error {
	n.pacer.halt()
	return nil
}

// Close releases output resources
func (n *Null) Close() error {
	n.pacer.halt()
	n.ready.Store(false)
	return nil
}

// FramesWritten returns the number of frames consumed
func (n *Null) FramesWritten() uint64 {
	return n.written.Load()
}
