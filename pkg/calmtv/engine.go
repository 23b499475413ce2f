// ABOUTME: Streaming engine with Start/Pause/Resume/Release lifecycle
// ABOUTME: Runs the synthesis loop on its own goroutine and writes to the output
package calmtv

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/calmtv/calmtv-go/pkg/audio"
	"github.com/calmtv/calmtv-go/pkg/audio/output"
	"github.com/calmtv/calmtv-go/pkg/synth"
)

const (
	// Channels is the output channel count; the mono mix is duplicated
	Channels = 2

	// BitDepth is the output sample width
	BitDepth = 16

	DefaultBufferFrames = 2048
	DefaultJoinTimeout  = 2 * time.Second

	// debugLogInterval is how many buffers pass between debug progress logs
	debugLogInterval = 500
)

// Config holds engine configuration
type Config struct {
	// Synth configures the generated signal; zero fields take defaults
	Synth synth.Config

	// BufferFrames is the number of frames generated per write (default: 2048)
	BufferFrames int

	// JoinTimeout bounds how long Release waits for the streaming
	// goroutine (default: 2s)
	JoinTimeout time.Duration

	// Noise is the uniform source for the noise voice (nil: random seed)
	Noise synth.Uniform

	// Debug enables progress logging
	Debug bool

	// OnStateChange is called after every lifecycle transition. It runs
	// on the calling goroutine and must not call lifecycle methods.
	OnStateChange func(State)

	// OnError is called from the streaming goroutine when a write fails
	OnError func(error)
}

// Stats is a snapshot of engine progress
type Stats struct {
	State           State
	FramesGenerated uint64
	Seconds         float64 // synthesis clock
	NoteIndex       int
	NoteElapsed     float64 // seconds into the current note
	BuffersWritten  uint64
	WriteFailures   uint64
}

// Engine streams synthesized audio to an output
type Engine struct {
	config     Config
	sink       output.Output
	synth      *synth.Synthesizer
	buffer     []int16
	sampleRate int
	format     audio.Format

	state atomic.Int32
	wake  chan struct{}
	done  chan struct{}

	// Lifecycle calls serialize on mu; the streaming goroutine never takes it
	mu       sync.Mutex
	started  bool
	released bool

	// Progress published by the streaming goroutine
	frames        atomic.Uint64
	noteIndex     atomic.Int64
	noteElapsed   atomic.Uint64
	buffers       atomic.Uint64
	writeFailures atomic.Uint64
}

// NewEngine creates an engine writing to sink. The audio buffer is
// allocated here and reused for every write.
func NewEngine(config Config, sink output.Output) (*Engine, error) {
	if sink == nil {
		return nil, fmt.Errorf("%w: nil output", synth.ErrInvalidConfig)
	}

	// Set defaults
	if config.BufferFrames == 0 {
		config.BufferFrames = DefaultBufferFrames
	}
	if config.JoinTimeout == 0 {
		config.JoinTimeout = DefaultJoinTimeout
	}
	if config.BufferFrames < 0 {
		return nil, fmt.Errorf("%w: buffer frames must be positive, got %d",
			synth.ErrInvalidConfig, config.BufferFrames)
	}

	s, err := synth.New(config.Synth, config.Noise)
	if err != nil {
		return nil, err
	}
	config.Synth = s.Config()

	return &Engine{
		config:     config,
		sink:       sink,
		synth:      s,
		buffer:     make([]int16, config.BufferFrames*Channels),
		sampleRate: config.Synth.SampleRate,
		format: audio.Format{
			Codec:      "pcm",
			SampleRate: config.Synth.SampleRate,
			Channels:   Channels,
			BitDepth:   BitDepth,
		},
		wake: make(chan struct{}, 1),
	}, nil
}

// Config returns the effective configuration
func (e *Engine) Config() Config {
	return e.config
}

// State returns the current lifecycle state
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Start opens the output and begins streaming. Valid only once, from
// Stopped.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.released {
		return ErrReleased
	}
	if e.started {
		return fmt.Errorf("%w: cannot start from %s", ErrInvalidState, e.State())
	}

	if err := e.sink.Open(e.sampleRate, Channels, BitDepth); err != nil {
		return fmt.Errorf("%w: %w", ErrSinkUnavailable, err)
	}
	if err := e.sink.Play(); err != nil {
		if cerr := e.sink.Close(); cerr != nil {
			log.Printf("Engine: failed to close sink after play error: %v", cerr)
		}
		return fmt.Errorf("%w: %w", ErrSinkUnavailable, err)
	}

	e.started = true
	e.done = make(chan struct{})
	e.state.Store(int32(StateRunning))

	go e.run()

	log.Printf("Engine started: %dHz, %d channels, %d frames per buffer",
		e.sampleRate, Channels, e.config.BufferFrames)
	e.notify(StateRunning)
	return nil
}

// Pause stops generation. The streaming goroutine parks until Resume
// and all generator state is kept.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.released {
		return ErrReleased
	}
	if e.State() != StateRunning {
		return fmt.Errorf("%w: cannot pause from %s", ErrInvalidState, e.State())
	}

	e.state.Store(int32(StatePaused))
	e.notify(StatePaused)

	if err := e.sink.Pause(); err != nil {
		return fmt.Errorf("failed to pause sink: %w", err)
	}

	log.Printf("Engine paused at %.3fs", e.Stats().Seconds)
	return nil
}

// Resume restarts generation after Pause
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.released {
		return ErrReleased
	}
	if e.State() != StatePaused {
		return fmt.Errorf("%w: cannot resume from %s", ErrInvalidState, e.State())
	}

	if err := e.sink.Play(); err != nil {
		return fmt.Errorf("failed to resume sink: %w", err)
	}

	e.state.Store(int32(StateRunning))
	e.signal()

	log.Printf("Engine resumed at %.3fs", e.Stats().Seconds)
	e.notify(StateRunning)
	return nil
}

// Release stops streaming and releases the output. It may be called
// from any state and more than once. The engine cannot be restarted.
func (e *Engine) Release() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.released {
		return nil
	}
	e.released = true

	prev := State(e.state.Swap(int32(StateStopped)))
	if !e.started {
		return nil
	}

	e.signal()

	var errs []error

	// Stop fails a Write blocked inside the output so the goroutine can
	// observe the stopped state
	if err := e.sink.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop sink: %w", err))
	}

	select {
	case <-e.done:
	case <-time.After(e.config.JoinTimeout):
		log.Printf("Warning: streaming goroutine did not exit within %v", e.config.JoinTimeout)
		errs = append(errs, ErrJoinTimeout)
	}

	if err := e.sink.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close sink: %w", err))
	}

	stats := e.Stats()
	log.Printf("Engine released from %s: %d frames, %d buffers, %d write failures",
		prev, stats.FramesGenerated, stats.BuffersWritten, stats.WriteFailures)

	e.notify(StateStopped)
	return errors.Join(errs...)
}

// Stats returns a snapshot of the engine's progress
func (e *Engine) Stats() Stats {
	frames := e.frames.Load()
	rate := float64(e.sampleRate)

	return Stats{
		State:           e.State(),
		FramesGenerated: frames,
		Seconds:         float64(frames) / rate,
		NoteIndex:       int(e.noteIndex.Load()),
		NoteElapsed:     float64(e.noteElapsed.Load()) / rate,
		BuffersWritten:  e.buffers.Load(),
		WriteFailures:   e.writeFailures.Load(),
	}
}

// run is the streaming goroutine. It is the only user of the
// synthesizer and the buffer.
func (e *Engine) run() {
	defer close(e.done)

	bufferDuration := e.format.FrameDuration(e.config.BufferFrames)

	for {
		switch e.State() {
		case StateStopped:
			return
		case StatePaused:
			<-e.wake
			continue
		}

		e.synth.Fill(e.buffer, Channels)
		e.publish()

		if err := e.sink.Write(e.buffer); err != nil {
			if e.State() != StateRunning {
				continue
			}

			e.writeFailures.Add(1)
			log.Printf("Engine: sink write failed: %v", err)
			if e.config.OnError != nil {
				e.config.OnError(fmt.Errorf("%w: %w", ErrWriteFailed, err))
			}

			// Drop the buffer and back off so a dead sink cannot spin
			select {
			case <-time.After(bufferDuration):
			case <-e.wake:
			}
			continue
		}

		n := e.buffers.Add(1)
		if e.config.Debug && n%debugLogInterval == 0 {
			stats := e.Stats()
			log.Printf("Engine: %d buffers, clock %.1fs, note %d (%.2fs)",
				n, stats.Seconds, stats.NoteIndex, stats.NoteElapsed)
		}
	}
}

func (e *Engine) publish() {
	e.frames.Store(e.synth.Frames())
	e.noteIndex.Store(int64(e.synth.NoteIndex()))
	e.noteElapsed.Store(e.synth.NoteElapsedFrames())
}

// signal wakes the streaming goroutine without blocking
func (e *Engine) signal() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

func (e *Engine) notify(state State) {
	if e.config.OnStateChange != nil {
		e.config.OnStateChange(state)
	}
}
