// ABOUTME: Tests for the oscillator primitive and synthesis clock
// ABOUTME: Verifies purity, range and exact clock stepping
package synth

import (
	"math"
	"testing"
)

func TestSineDeterministic(t *testing.T) {
	tests := []struct {
		freq float64
		t    float64
	}{
		{27.5, 0},
		{44.0, 0.123456},
		{220.0, 3.999977},
		{0.4, 1e6},
	}

	for _, tt := range tests {
		first := Sine(tt.freq, tt.t)
		for i := 0; i < 10; i++ {
			if got := Sine(tt.freq, tt.t); got != first {
				t.Fatalf("Sine(%g, %g) changed between calls: %v then %v", tt.freq, tt.t, first, got)
			}
		}
		if first < -1 || first > 1 {
			t.Errorf("Sine(%g, %g) = %v, outside [-1, 1]", tt.freq, tt.t, first)
		}
	}
}

func TestSineKnownValues(t *testing.T) {
	if got := Sine(440, 0); got != 0 {
		t.Errorf("expected 0 at t=0, got %v", got)
	}
	// Quarter period of 1Hz
	if got := Sine(1, 0.25); math.Abs(got-1) > 1e-12 {
		t.Errorf("expected 1 at quarter period, got %v", got)
	}
}

func TestClockAdvancesBySamplePeriod(t *testing.T) {
	clock := NewClock(44100)

	if clock.Now() != 0 {
		t.Fatalf("expected clock to start at 0, got %v", clock.Now())
	}

	prev := clock.Now()
	for i := 0; i < 44100; i++ {
		clock.Advance()
		now := clock.Now()
		if now < prev {
			t.Fatalf("clock went backwards at frame %d: %v -> %v", i, prev, now)
		}
		prev = now
	}

	if clock.Now() != 1.0 {
		t.Errorf("expected exactly 1.0s after 44100 frames, got %v", clock.Now())
	}
	if clock.Frames() != 44100 {
		t.Errorf("expected 44100 frames, got %d", clock.Frames())
	}
	if clock.Period() != 1.0/44100 {
		t.Errorf("unexpected period %v", clock.Period())
	}
}
