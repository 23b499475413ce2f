// ABOUTME: PCM audio encoder
// ABOUTME: Encodes int16 samples to little-endian 16-bit PCM bytes
package encode

import (
	"encoding/binary"
	"fmt"

	"github.com/calmtv/calmtv-go/pkg/audio"
)

// PCMEncoder encodes 16-bit PCM audio into a reused output buffer
type PCMEncoder struct {
	out []byte
}

// NewPCM creates a new PCM encoder
func NewPCM(format audio.Format) (*PCMEncoder, error) {
	if format.Codec != "pcm" {
		return nil, fmt.Errorf("invalid codec for PCM encoder: %s", format.Codec)
	}

	if format.BitDepth != 16 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16)", format.BitDepth)
	}

	return &PCMEncoder{}, nil
}

// Encode converts int16 samples to PCM bytes. The output buffer grows to
// the largest input seen and is reused afterwards.
func (e *PCMEncoder) Encode(samples []int16) ([]byte, error) {
	size := len(samples) * 2
	if cap(e.out) < size {
		e.out = make([]byte, size)
	}
	output := e.out[:size]

	for i, sample := range samples {
		binary.LittleEndian.PutUint16(output[i*2:], uint16(sample))
	}

	return output, nil
}

// Close releases resources
func (e *PCMEncoder) Close() error {
	e.out = nil
	return nil
}
