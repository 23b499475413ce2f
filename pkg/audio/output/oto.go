// ABOUTME: Oto-based audio output implementation
// ABOUTME: Streams 16-bit PCM through a pipe into a persistent oto player
package output

import (
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/calmtv/calmtv-go/pkg/audio"
	"github.com/calmtv/calmtv-go/pkg/audio/encode"
)

// oto allows one context per process; every Oto output shares it
var shared struct {
	mu         sync.Mutex
	ctx        *oto.Context
	sampleRate int
	channels   int
}

func otoContext(sampleRate, channels int) (*oto.Context, error) {
	shared.mu.Lock()
	defer shared.mu.Unlock()

	if shared.ctx != nil {
		if shared.sampleRate != sampleRate || shared.channels != channels {
			return nil, fmt.Errorf("oto context already running at %dHz %dch, cannot reopen at %dHz %dch",
				shared.sampleRate, shared.channels, sampleRate, channels)
		}
		if err := shared.ctx.Resume(); err != nil {
			return nil, fmt.Errorf("failed to resume oto context: %w", err)
		}
		return shared.ctx, nil
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   100 * time.Millisecond,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-readyChan

	shared.ctx = ctx
	shared.sampleRate = sampleRate
	shared.channels = channels
	return ctx, nil
}

// Oto output implementation using oto library
type Oto struct {
	otoCtx     *oto.Context
	player     *oto.Player
	pipeReader *io.PipeReader
	pipeWriter *io.PipeWriter
	encoder    *encode.PCMEncoder
	ready      atomic.Bool
	mu         sync.Mutex
}

// NewOto creates a new Oto output
func NewOto() Output {
	return &Oto{}
}

// Open initializes the output device. The player is created paused.
func (o *Oto) Open(sampleRate, channels, bitDepth int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	// oto only supports 16-bit output
	if bitDepth != 16 {
		return fmt.Errorf("unsupported bit depth: %d (oto supports 16)", bitDepth)
	}

	if o.player != nil {
		return fmt.Errorf("oto output already open")
	}

	encoder, err := encode.NewPCM(audio.Format{
		Codec:      "pcm",
		SampleRate: sampleRate,
		Channels:   channels,
		BitDepth:   bitDepth,
	})
	if err != nil {
		return err
	}

	ctx, err := otoContext(sampleRate, channels)
	if err != nil {
		return err
	}

	o.otoCtx = ctx
	o.encoder = encoder

	// Create pipe for continuous streaming
	o.pipeReader, o.pipeWriter = io.Pipe()

	// Create persistent player that reads from the pipe
	o.player = o.otoCtx.NewPlayer(o.pipeReader)
	o.ready.Store(true)

	log.Printf("Audio output initialized: %dHz, %d channels (oto)", sampleRate, channels)

	return nil
}

// Play starts or resumes the player
func (o *Oto) Play() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player == nil {
		return ErrNotOpen
	}
	o.player.Play()
	return nil
}

// Pause stops the player from draining the pipe
func (o *Oto) Pause() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player == nil {
		return ErrNotOpen
	}
	o.player.Pause()
	return nil
}

// Write outputs audio samples (blocks until the player reads them)
func (o *Oto) Write(samples []int16) error {
	if !o.ready.Load() {
		return ErrNotOpen
	}

	output, err := o.encoder.Encode(samples)
	if err != nil {
		return err
	}

	// Write to pipe (which feeds the persistent player)
	// This blocks until the write completes
	if _, err := o.pipeWriter.Write(output); err != nil {
		return fmt.Errorf("pipe write failed: %w", err)
	}

	return nil
}

// Stop pauses playback and fails any blocked Write
func (o *Oto) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.ready.Store(false)
	if o.player != nil {
		o.player.Pause()
	}
	if o.pipeReader != nil {
		o.pipeReader.CloseWithError(ErrClosed)
	}
	return nil
}

// Close releases output resources
func (o *Oto) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.ready.Store(false)

	if o.pipeWriter != nil {
		o.pipeWriter.Close()
	}
	var err error
	if o.player != nil {
		if cerr := o.player.Close(); cerr != nil {
			err = fmt.Errorf("failed to close oto player: %w", cerr)
		}
	}
	if o.pipeReader != nil {
		o.pipeReader.Close()
	}
	if o.otoCtx != nil {
		if serr := o.otoCtx.Suspend(); serr != nil {
			log.Printf("Warning: oto suspend error: %v", serr)
		}
	}
	return err
}
