// ABOUTME: Tests for the purr drone voice
// ABOUTME: Verifies output bounds and breathing modulation
package synth

import (
	"math"
	"testing"
)

func TestDroneBounds(t *testing.T) {
	d := NewDrone(DefaultPurrFrequencies, DefaultPurrWeights, DefaultBreathingRateHz)

	// Ten seconds at 44.1kHz covers four breathing cycles
	for i := 0; i < 441000; i++ {
		v := d.Sample(float64(i) / 44100)
		if v < -1.3 || v > 1.3 {
			t.Fatalf("drone sample %d = %v, outside [-1.3, 1.3]", i, v)
		}
	}
}

func TestDronePeak(t *testing.T) {
	d := NewDrone(DefaultPurrFrequencies, DefaultPurrWeights, DefaultBreathingRateHz)

	if peak := d.Peak(); math.Abs(peak-1.0) > 1e-12 {
		t.Errorf("expected peak 1.0 for default weights, got %v", peak)
	}

	for i := 0; i < 100000; i++ {
		tm := float64(i) * 0.00137
		if v := math.Abs(d.Sample(tm)); v > d.Peak()+1e-12 {
			t.Fatalf("sample at t=%v exceeds peak: %v > %v", tm, v, d.Peak())
		}
	}
}

func TestDroneZeroAtOrigin(t *testing.T) {
	d := NewDrone(DefaultPurrFrequencies, DefaultPurrWeights, DefaultBreathingRateHz)

	if v := d.Sample(0); v != 0 {
		t.Errorf("expected drone to start at 0, got %v", v)
	}
}

func TestDroneBreathingModulation(t *testing.T) {
	// A single 100Hz partial makes the envelope easy to observe
	d := NewDrone([3]float64{100, 0, 0}, [3]float64{1, 0, 0}, 0.5)

	// At t=0.5025s the partial peaks (sin(2π·100·0.5025) = 1), so the
	// sample is the breathing envelope itself
	v := d.Sample(0.5025)
	want := 0.7 + 0.3*math.Sin(2*math.Pi*0.5*0.5025)
	if math.Abs(v-want) > 1e-9 {
		t.Errorf("expected %v, got %v", want, v)
	}
}
