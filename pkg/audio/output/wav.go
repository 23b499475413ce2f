// ABOUTME: WAV file audio output
// ABOUTME: Captures the PCM stream to a 16-bit WAV file via go-audio
package output

import (
	"fmt"
	"log"
	"os"
	"sync"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/calmtv/calmtv-go/pkg/audio"
)

const wavFormatPCM = 1

// WAV output implementation writing to a file
type WAV struct {
	path     string
	realtime bool

	file    *os.File
	encoder *wav.Encoder
	intBuf  *goaudio.IntBuffer
	format  audio.Format
	pacer   *pacer
	frames  uint64
	ready   bool
	mu      sync.Mutex
}

// NewWAV creates a WAV output. With realtime set, Write is paced at the
// sample rate and blocks while paused; otherwise it writes as fast as
// the producer generates.
func NewWAV(path string, realtime bool) Output {
	return &WAV{
		path:     path,
		realtime: realtime,
		pacer:    newPacer(),
	}
}

// Open creates the capture file and writes the WAV header
func (w *WAV) Open(sampleRate, channels, bitDepth int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if bitDepth != 16 {
		return fmt.Errorf("unsupported bit depth: %d (supported: 16)", bitDepth)
	}
	if w.file != nil {
		return fmt.Errorf("wav output already open: %s", w.path)
	}

	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("failed to create wav file: %w", err)
	}

	w.file = f
	w.encoder = wav.NewEncoder(f, sampleRate, bitDepth, channels, wavFormatPCM)
	w.intBuf = &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		SourceBitDepth: bitDepth,
	}
	w.format = audio.Format{
		Codec:      "pcm",
		SampleRate: sampleRate,
		Channels:   channels,
		BitDepth:   bitDepth,
	}
	w.ready = true

	log.Printf("Audio output initialized: %dHz, %d channels (wav: %s)", sampleRate, channels, w.path)
	return nil
}

// Play starts accepting samples
func (w *WAV) Play() error {
	w.pacer.play()
	return nil
}

// Pause blocks writers until Play
func (w *WAV) Pause() error {
	w.pacer.pause()
	return nil
}

// Write appends samples to the file
func (w *WAV) Write(samples []int16) error {
	w.mu.Lock()
	format, ready := w.format, w.ready
	w.mu.Unlock()
	if !ready {
		return ErrNotOpen
	}

	if w.realtime {
		frames := len(samples) / format.Channels
		if err := w.pacer.consume(format.FrameDuration(frames)); err != nil {
			return err
		}
	} else if err := w.pacer.waitPlaying(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.ready {
		return ErrNotOpen
	}

	// Reuse the int buffer between writes
	if cap(w.intBuf.Data) < len(samples) {
		w.intBuf.Data = make([]int, len(samples))
	}
	w.intBuf.Data = w.intBuf.Data[:len(samples)]
	for i, s := range samples {
		w.intBuf.Data[i] = int(s)
	}

	if err := w.encoder.Write(w.intBuf); err != nil {
		return fmt.Errorf("wav write failed: %w", err)
	}
	w.frames += uint64(len(samples) / w.format.Channels)

	return nil
}

// Stop interrupts pending writes
func (w *WAV) Stop() error {
	w.pacer.halt()
	return nil
}

// Close finalizes the WAV header and closes the file
func (w *WAV) Close() error {
	w.pacer.halt()

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	w.ready = false

	encErr := w.encoder.Close()
	fileErr := w.file.Close()
	w.file = nil

	if encErr != nil {
		return fmt.Errorf("failed to finalize wav file: %w", encErr)
	}
	if fileErr != nil {
		return fmt.Errorf("failed to close wav file: %w", fileErr)
	}

	log.Printf("WAV capture closed: %s (%d frames)", w.path, w.frames)
	return nil
}

// FramesWritten returns the number of frames captured
func (w *WAV) FramesWritten() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frames
}
