// ABOUTME: Tests for the melody voice and note sequencer
// ABOUTME: Verifies envelope boundaries and sequencer periodicity
package synth

import (
	"math"
	"testing"
	"time"
)

func TestEnvelopeBoundaries(t *testing.T) {
	if v := Envelope(0); v != 0 {
		t.Errorf("expected envelope exactly 0 at note start, got %v", v)
	}
	if v := Envelope(1); v != 0 {
		t.Errorf("expected envelope exactly 0 at note end, got %v", v)
	}

	for i := 1; i < 1000; i++ {
		p := float64(i) / 1000
		if v := Envelope(p); v <= 0 {
			t.Fatalf("expected positive envelope at p=%v, got %v", p, v)
		}
	}

	if v := Envelope(0.5); math.Abs(v-1) > 1e-12 {
		t.Errorf("expected peak 1 mid-note, got %v", v)
	}
}

func TestMelodyZeroAtNoteBoundaries(t *testing.T) {
	m := NewMelody(DefaultMelodyScale, 10*time.Millisecond, 1000)

	// 10 frames per note: the first frame of every note is silent
	for i := 0; i < 60; i++ {
		atBoundary := m.ElapsedFrames() == 0
		v := m.Next(float64(i)/1000 + 0.0003)
		if atBoundary && v != 0 {
			t.Fatalf("frame %d starts a note but melody = %v", i, v)
		}
	}
}

func TestMelodyAdvancesAtNoteDuration(t *testing.T) {
	m := NewMelody(DefaultMelodyScale, DefaultNoteDuration, 44100)

	if m.NoteFrames() != 176400 {
		t.Fatalf("expected 176400 frames per note, got %d", m.NoteFrames())
	}

	for i := 0; i < 176399; i++ {
		m.Next(float64(i) / 44100)
	}
	if m.NoteIndex() != 0 {
		t.Fatalf("note changed early: index %d", m.NoteIndex())
	}

	m.Next(176399.0 / 44100)
	if m.NoteIndex() != 1 {
		t.Errorf("expected index 1 after one note duration, got %d", m.NoteIndex())
	}
	if m.NoteElapsed() != 0 {
		t.Errorf("expected elapsed reset to 0, got %v", m.NoteElapsed())
	}
}

func TestMelodySequencerPeriodicity(t *testing.T) {
	scale := DefaultMelodyScale
	m := NewMelody(scale, 100*time.Millisecond, 8000)

	start := m.NoteIndex()
	framesPerNote := int(m.NoteFrames())
	cycleFrames := framesPerNote * len(scale)

	for i := 0; i < cycleFrames; i++ {
		if i%framesPerNote == 0 {
			want := (i / framesPerNote) % len(scale)
			if m.NoteIndex() != want {
				t.Fatalf("frame %d: expected note %d, got %d", i, want, m.NoteIndex())
			}
		}
		m.Next(float64(i) / 8000)
	}

	if m.NoteIndex() != start {
		t.Errorf("expected index %d after one full cycle, got %d", start, m.NoteIndex())
	}
	if m.ElapsedFrames() != 0 {
		t.Errorf("expected elapsed 0 after one full cycle, got %d", m.ElapsedFrames())
	}
	if m.Cycle() != 600*time.Millisecond {
		t.Errorf("expected cycle 600ms, got %v", m.Cycle())
	}
}

func TestMelodyOwnsScaleCopy(t *testing.T) {
	scale := []float64{100, 200}
	m := NewMelody(scale, time.Second, 100)
	scale[0] = 9999

	if m.scale[0] != 100 {
		t.Error("melody should not alias the caller's scale")
	}
}
