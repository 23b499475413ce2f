// ABOUTME: Blocking ring buffer for callback-driven backends
// ABOUTME: Writers wait for free space, the device callback never waits
package output

import "sync"

// RingBuffer provides a thread-safe circular buffer for audio samples
type RingBuffer struct {
	buffer   []int16
	readPos  int
	writePos int
	size     int
	count    int // Number of samples currently in buffer
	closed   bool
	mu       sync.Mutex
	space    *sync.Cond
}

// NewRingBuffer creates a ring buffer with given capacity (in samples)
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity < 1 {
		capacity = 1
	}
	rb := &RingBuffer{
		buffer: make([]int16, capacity),
		size:   capacity,
	}
	rb.space = sync.NewCond(&rb.mu)
	return rb
}

// Write adds all samples to the ring buffer, blocking while it is full.
// It returns ErrClosed if the buffer is closed before every sample fit.
func (rb *RingBuffer) Write(samples []int16) error {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	for len(samples) > 0 {
		for rb.count == rb.size && !rb.closed {
			rb.space.Wait()
		}
		if rb.closed {
			return ErrClosed
		}

		for len(samples) > 0 && rb.count < rb.size {
			rb.buffer[rb.writePos] = samples[0]
			rb.writePos = (rb.writePos + 1) % rb.size
			rb.count++
			samples = samples[1:]
		}
	}
	return nil
}

// Read retrieves samples from the ring buffer without blocking. Slots
// past the available data are zero-filled.
func (rb *RingBuffer) Read(samples []int16) int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	read := 0
	for i := 0; i < len(samples) && rb.count > 0; i++ {
		samples[i] = rb.buffer[rb.readPos]
		rb.readPos = (rb.readPos + 1) % rb.size
		rb.count--
		read++
	}

	// Zero-fill remaining if underrun
	for i := read; i < len(samples); i++ {
		samples[i] = 0
	}

	if read > 0 {
		rb.space.Broadcast()
	}
	return read
}

// Available returns the number of samples available to read
func (rb *RingBuffer) Available() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.count
}

// Free returns the number of free slots in the buffer
func (rb *RingBuffer) Free() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.size - rb.count
}

// Close wakes blocked writers; subsequent writes fail
func (rb *RingBuffer) Close() {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	rb.closed = true
	rb.space.Broadcast()
}
