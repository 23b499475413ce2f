// ABOUTME: Melody voice stepping through a fixed scale
// ABOUTME: Each note is shaped by a half-sine envelope that is zero at both ends
package synth

import (
	"math"
	"time"
)

// Envelope is sin(π·p) for note progress p, exactly zero at and beyond
// the note boundaries so note changes never click
func Envelope(p float64) float64 {
	if p <= 0 || p >= 1 {
		return 0
	}
	return math.Sin(math.Pi * p)
}

// Melody holds the note sequencer state
type Melody struct {
	scale      []float64
	sampleRate int
	noteFrames uint64

	index   int
	elapsed uint64 // frames into the current note
}

// NewMelody creates a melody that advances one scale step every noteDuration
func NewMelody(scale []float64, noteDuration time.Duration, sampleRate int) *Melody {
	noteFrames := uint64(math.Round(noteDuration.Seconds() * float64(sampleRate)))
	if noteFrames == 0 {
		noteFrames = 1
	}

	return &Melody{
		scale:      append([]float64(nil), scale...),
		sampleRate: sampleRate,
		noteFrames: noteFrames,
	}
}

// Next returns the melody value at time t and advances the sequencer by one frame
func (m *Melody) Next(t float64) float64 {
	value := Sine(m.scale[m.index], t) * Envelope(m.Progress())

	m.elapsed++
	if m.elapsed >= m.noteFrames {
		m.elapsed = 0
		m.index = (m.index + 1) % len(m.scale)
	}

	return value
}

// Progress returns the fraction of the current note already played, in [0, 1)
func (m *Melody) Progress() float64 {
	return float64(m.elapsed) / float64(m.noteFrames)
}

// NoteIndex returns the position of the current note in the scale
func (m *Melody) NoteIndex() int {
	return m.index
}

// NoteElapsed returns seconds played of the current note
func (m *Melody) NoteElapsed() float64 {
	return float64(m.elapsed) / float64(m.sampleRate)
}

// ElapsedFrames returns frames played of the current note
func (m *Melody) ElapsedFrames() uint64 {
	return m.elapsed
}

// NoteFrames returns the note duration in frames
func (m *Melody) NoteFrames() uint64 {
	return m.noteFrames
}

// Cycle returns the duration of one pass through the scale
func (m *Melody) Cycle() time.Duration {
	return time.Duration(m.noteFrames) * time.Duration(len(m.scale)) * time.Second / time.Duration(m.sampleRate)
}
