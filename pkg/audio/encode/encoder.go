// ABOUTME: Encoder interface definition
// ABOUTME: Common interface for PCM sample encoders
package encode

// Encoder encodes interleaved int16 samples into a byte stream
type Encoder interface {
	// Encode converts samples to encoded bytes. The returned slice is
	// only valid until the next call to Encode.
	Encode(samples []int16) ([]byte, error)

	// Close releases encoder resources
	Close() error
}
