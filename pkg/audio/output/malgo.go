// ABOUTME: Malgo-based audio output implementation
// ABOUTME: Feeds a miniaudio playback device from a blocking ring buffer
package output

import (
	"fmt"
	"log"
	"sync"

	"github.com/gen2brain/malgo"
)

// Malgo output implementation using malgo/miniaudio library
type Malgo struct {
	malgoCtx   *malgo.AllocatedContext
	device     *malgo.Device
	sampleRate int
	channels   int
	ready      bool

	// Ring buffer for callback-based playback
	ringBuffer *RingBuffer
	scratch    []int16
	mu         sync.Mutex
}

// NewMalgo creates a new Malgo output
func NewMalgo() Output {
	return &Malgo{}
}

// Open initializes the output device. The device is created stopped.
func (m *Malgo) Open(sampleRate, channels, bitDepth int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if bitDepth != 16 {
		return fmt.Errorf("unsupported bit depth: %d (supported: 16)", bitDepth)
	}
	if m.device != nil {
		return fmt.Errorf("malgo output already open")
	}

	// Create malgo context if needed
	if m.malgoCtx == nil {
		ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
		if err != nil {
			return fmt.Errorf("failed to initialize malgo context: %w", err)
		}
		m.malgoCtx = ctx
	}

	// Create ring buffer (200ms capacity)
	bufferSamples := (sampleRate * channels * 200) / 1000
	m.ringBuffer = NewRingBuffer(bufferSamples)
	m.sampleRate = sampleRate
	m.channels = channels

	// Configure device
	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = uint32(channels)
	deviceConfig.SampleRate = uint32(sampleRate)
	deviceConfig.Alsa.NoMMap = 1

	deviceCallbacks := malgo.DeviceCallbacks{
		Data: func(pOutputSample, pInputSamples []byte, frameCount uint32) {
			m.dataCallback(pOutputSample, frameCount)
		},
	}

	// Initialize device
	device, err := malgo.InitDevice(m.malgoCtx.Context, deviceConfig, deviceCallbacks)
	if err != nil {
		return fmt.Errorf("failed to initialize playback device: %w", err)
	}

	m.device = device
	m.ready = true

	log.Printf("Audio output initialized: %dHz, %d channels, 16-bit (malgo)", sampleRate, channels)

	return nil
}

// Play starts the device callback
func (m *Malgo) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device == nil {
		return ErrNotOpen
	}
	if err := m.device.Start(); err != nil {
		return fmt.Errorf("failed to start device: %w", err)
	}
	return nil
}

// Pause stops the device callback; the ring buffer fills and writers block
func (m *Malgo) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.device == nil {
		return ErrNotOpen
	}
	if err := m.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop device: %w", err)
	}
	return nil
}

// Write queues audio samples for playback (blocks while the ring is full)
func (m *Malgo) Write(samples []int16) error {
	m.mu.Lock()
	ready, rb := m.ready, m.ringBuffer
	m.mu.Unlock()

	if !ready {
		return ErrNotOpen
	}
	return rb.Write(samples)
}

// dataCallback is called by malgo to fill the audio output buffer
func (m *Malgo) dataCallback(pOutput []byte, frameCount uint32) {
	totalSamples := int(frameCount) * m.channels
	if cap(m.scratch) < totalSamples {
		m.scratch = make([]int16, totalSamples)
	}
	samples := m.scratch[:totalSamples]

	m.ringBuffer.Read(samples)

	for i, sample := range samples {
		pOutput[i*2] = byte(sample)
		pOutput[i*2+1] = byte(sample >> 8)
	}
}

// Stop fails any blocked Write and halts the device
func (m *Malgo) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ringBuffer != nil {
		m.ringBuffer.Close()
	}
	m.ready = false

	if m.device != nil {
		if err := m.device.Stop(); err != nil {
			log.Printf("Warning: device stop error: %v", err)
		}
	}
	return nil
}

// Close releases output resources
func (m *Malgo) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ringBuffer != nil {
		m.ringBuffer.Close()
	}
	m.closeDevice()

	if m.malgoCtx != nil {
		if err := m.malgoCtx.Uninit(); err != nil {
			log.Printf("Warning: malgo context uninit error: %v", err)
		}
		m.malgoCtx.Free()
		m.malgoCtx = nil
	}

	return nil
}

// closeDevice stops and uninitializes the device (must hold m.mu)
func (m *Malgo) closeDevice() {
	if m.device != nil {
		if err := m.device.Stop(); err != nil {
			log.Printf("Warning: device stop error: %v", err)
		}
		m.device.Uninit()
		m.device = nil
		m.ready = false
	}
}
