// ABOUTME: Tests for audio types
// ABOUTME: Tests sample conversion and format helpers
package audio

import (
	"testing"
	"time"
)

func TestFloatToInt16(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected int16
	}{
		{"zero", 0, 0},
		{"full scale positive", 1.0, 32767},
		{"full scale negative", -1.0, -32767},
		{"half", 0.5, 16384},
		{"small negative", -0.25, -8192},
		{"overload positive", 3.0, Max16Bit},
		{"overload negative", -3.0, Min16Bit},
		{"just past negative limit", -1.0001, Min16Bit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FloatToInt16(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestInt16ToFloat(t *testing.T) {
	if got := Int16ToFloat(Max16Bit); got != 1.0 {
		t.Errorf("expected 1.0, got %f", got)
	}
	if got := Int16ToFloat(0); got != 0 {
		t.Errorf("expected 0, got %f", got)
	}
}

func TestRoundTripFloat(t *testing.T) {
	// Representable samples survive a trip through float
	samples := []int16{0, 100, -100, 1000, -1000, 32767, -32767}

	for _, original := range samples {
		result := FloatToInt16(Int16ToFloat(original))
		if result != original {
			t.Errorf("round-trip failed: %d -> %d", original, result)
		}
	}
}

func TestFormatHelpers(t *testing.T) {
	f := DefaultFormat

	if f.BytesPerFrame() != 4 {
		t.Errorf("expected 4 bytes per frame, got %d", f.BytesPerFrame())
	}

	if d := f.FrameDuration(44100); d != time.Second {
		t.Errorf("expected 1s, got %v", d)
	}

	if d := (Format{}).FrameDuration(100); d != 0 {
		t.Errorf("expected 0 for zero sample rate, got %v", d)
	}
}
