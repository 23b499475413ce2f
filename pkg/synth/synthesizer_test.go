// ABOUTME: Tests for the composed synthesizer
// ABOUTME: End-to-end clock, sequencer and buffer fill behaviour
package synth

import (
	"math"
	"testing"
)

func newTestSynth(t *testing.T, seed uint64) *Synthesizer {
	t.Helper()

	s, err := New(DefaultConfig(), NewSource(seed))
	if err != nil {
		t.Fatalf("Failed to create synthesizer: %v", err)
	}
	return s
}

func TestSynthesizerOneSecond(t *testing.T) {
	s := newTestSynth(t, 1)

	for i := 0; i < 44100; i++ {
		s.Next()
	}

	period := 1.0 / 44100
	if math.Abs(s.NoteElapsed()-1.0) > period {
		t.Errorf("expected note elapsed 1.0s, got %v", s.NoteElapsed())
	}
	if s.NoteIndex() != 0 {
		t.Errorf("expected note index 0 after 1s, got %d", s.NoteIndex())
	}
	if math.Abs(s.Time()-1.0) > period {
		t.Errorf("expected clock at 1.0s, got %v", s.Time())
	}
	if s.Frames() != 44100 {
		t.Errorf("expected 44100 frames, got %d", s.Frames())
	}
}

func TestSynthesizerFullCycle(t *testing.T) {
	s := newTestSynth(t, 2)

	// Six notes of four seconds each
	cycle := 6 * 4 * 44100
	for i := 0; i < cycle; i++ {
		s.Next()
	}

	if s.NoteIndex() != 0 {
		t.Errorf("expected note index to return to 0 after a full cycle, got %d", s.NoteIndex())
	}
	if s.NoteElapsedFrames() != 0 {
		t.Errorf("expected note elapsed 0 after a full cycle, got %d frames", s.NoteElapsedFrames())
	}
}

func TestSynthesizerFillStereo(t *testing.T) {
	s := newTestSynth(t, 3)

	buf := make([]int16, 2048*2)
	frames := s.Fill(buf, 2)

	if frames != 2048 {
		t.Fatalf("expected 2048 frames, got %d", frames)
	}
	if s.Frames() != 2048 {
		t.Errorf("expected clock at 2048 frames, got %d", s.Frames())
	}

	nonZero := false
	for i := 0; i < len(buf); i += 2 {
		if buf[i] != buf[i+1] {
			t.Fatalf("frame %d: left %d != right %d", i/2, buf[i], buf[i+1])
		}
		if buf[i] != 0 {
			nonZero = true
		}
	}
	if !nonZero {
		t.Error("expected audible signal in the buffer")
	}
}

func TestSynthesizerFillContinuesAcrossBuffers(t *testing.T) {
	a := newTestSynth(t, 4)
	b := newTestSynth(t, 4)

	// One large buffer must equal two half buffers from an identical synth
	whole := make([]int16, 1000*2)
	a.Fill(whole, 2)

	first := make([]int16, 500*2)
	second := make([]int16, 500*2)
	b.Fill(first, 2)
	b.Fill(second, 2)

	joined := append(first, second...)
	for i := range whole {
		if whole[i] != joined[i] {
			t.Fatalf("sample %d differs across buffer boundary: %d vs %d", i, whole[i], joined[i])
		}
	}
}

func TestSynthesizerFillInvalidChannels(t *testing.T) {
	s := newTestSynth(t, 5)

	if n := s.Fill(make([]int16, 10), 0); n != 0 {
		t.Errorf("expected 0 frames for zero channels, got %d", n)
	}
	if s.Frames() != 0 {
		t.Errorf("clock must not advance, got %d frames", s.Frames())
	}
}

func TestSynthesizerStaysInRange(t *testing.T) {
	s := newTestSynth(t, 6)

	limit := (DefaultGains.Drone + DefaultGains.Melody + DefaultGains.Noise) * DefaultMasterVolume
	for i := 0; i < 44100*2; i++ {
		if v := s.Next(); math.Abs(v) > limit {
			t.Fatalf("frame %d: mixed value %v exceeds %v", i, v, limit)
		}
	}
}
