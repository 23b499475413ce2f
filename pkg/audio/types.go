// ABOUTME: Audio type definitions
// ABOUTME: Defines the PCM stream format and 16-bit sample conversion
package audio

import (
	"math"
	"time"
)

const (
	// 16-bit audio range constants
	Max16Bit = 32767
	Min16Bit = -32768
)

// Format describes audio stream format
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int
}

// DefaultFormat is the stream format the synthesizer produces:
// 44.1kHz, 16-bit, interleaved stereo PCM
var DefaultFormat = Format{
	Codec:      "pcm",
	SampleRate: 44100,
	Channels:   2,
	BitDepth:   16,
}

// BytesPerFrame returns the size of one interleaved frame in bytes
func (f Format) BytesPerFrame() int {
	return f.Channels * (f.BitDepth / 8)
}

// FrameDuration returns how long the given number of frames plays for
func (f Format) FrameDuration(frames int) time.Duration {
	if f.SampleRate <= 0 {
		return 0
	}
	return time.Duration(frames) * time.Second / time.Duration(f.SampleRate)
}

// FloatToInt16 scales a sample in [-1, 1] to the signed 16-bit range,
// rounding to the nearest step. Values outside that range saturate
// instead of wrapping around.
func FloatToInt16(sample float64) int16 {
	scaled := math.Round(sample * Max16Bit)
	if math.IsNaN(scaled) {
		return 0
	}

	if scaled > Max16Bit {
		return Max16Bit
	}
	if scaled < Min16Bit {
		return Min16Bit
	}

	return int16(scaled)
}

// Int16ToFloat converts a 16-bit sample back to [-1, 1]
func Int16ToFloat(sample int16) float64 {
	return float64(sample) / Max16Bit
}
