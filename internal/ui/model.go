// ABOUTME: Bubbletea model for player TUI
// ABOUTME: Shows engine state and melody progress, maps keys to lifecycle requests
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("111")).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	pausedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	helpStyle = lipgloss.NewStyle().Faint(true)
)

// Model represents the TUI state
type Model struct {
	name string
	sink string

	// Engine
	state       string
	sampleRate  int
	seconds     float64
	noteIndex   int
	noteFreq    float64
	noteElapsed float64
	noteLength  float64
	buffers     uint64
	failures    uint64
	lastError   string

	// Control channel
	controlPort int
	clients     int

	// Debug
	showDebug  bool
	goroutines int
	memAlloc   uint64

	// Dimensions
	width  int
	height int

	quitting  bool
	lifecycle *LifecycleControl
}

// StatusMsg updates TUI state
type StatusMsg struct {
	State         string
	SampleRate    int
	Seconds       float64
	NoteIndex     int
	NoteFrequency float64
	NoteElapsed   float64
	NoteDuration  float64
	Buffers       uint64
	WriteFailures uint64
	Clients       int
	LastError     string
	Goroutines    int
	MemAlloc      uint64
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return "Releasing audio...\n"
	}
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(m.name))
	b.WriteString("\n\n")

	b.WriteString(m.renderEngine())
	b.WriteString("\n")
	b.WriteString(m.renderMelody())
	b.WriteString("\n")
	b.WriteString(m.renderControl())

	if m.showDebug {
		b.WriteString("\n")
		b.WriteString(m.renderDebug())
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m Model) renderEngine() string {
	state := valueStyle.Render(m.state)
	if m.state == "paused" {
		state = pausedStyle.Render("paused")
	}

	var b strings.Builder
	b.WriteString(field("State", state))
	b.WriteString(field("Output", valueStyle.Render(fmt.Sprintf("%s, %dHz stereo 16-bit", m.sink, m.sampleRate))))
	b.WriteString(field("Playing", valueStyle.Render(formatClock(m.seconds))))

	if m.failures > 0 {
		b.WriteString(field("Errors", errorStyle.Render(fmt.Sprintf("%d write failures", m.failures))))
		if m.lastError != "" {
			b.WriteString("  ")
			b.WriteString(errorStyle.Render(truncate(m.lastError, 60)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderMelody() string {
	bar := renderBar(m.noteElapsed, m.noteLength, 24)
	note := fmt.Sprintf("#%d  %.2fHz  [%s] %.1fs", m.noteIndex+1, m.noteFreq, bar, m.noteElapsed)
	return field("Note", valueStyle.Render(note))
}

func (m Model) renderControl() string {
	if m.controlPort == 0 {
		return field("Control", valueStyle.Render("disabled"))
	}
	return field("Control", valueStyle.Render(fmt.Sprintf("port %d, %d connected", m.controlPort, m.clients)))
}

func (m Model) renderDebug() string {
	return field("Debug", valueStyle.Render(fmt.Sprintf("%d buffers written, %d goroutines, %.1f MB allocated",
		m.buffers, m.goroutines, float64(m.memAlloc)/(1024*1024))))
}

func (m Model) renderHelp() string {
	action := "pause"
	if m.state == "paused" {
		action = "resume"
	}
	return helpStyle.Render(fmt.Sprintf("space/p: %s  d: debug  q: quit", action))
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		if m.lifecycle != nil {
			select {
			case m.lifecycle.Quit <- struct{}{}:
			default:
			}
		}
		return m, tea.Quit
	case " ", "p":
		if m.lifecycle != nil {
			select {
			case m.lifecycle.Toggle <- struct{}{}:
			default:
			}
		}
	case "d":
		m.showDebug = !m.showDebug
	}

	return m, nil
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.State != "" {
		m.state = msg.State
	}
	if msg.SampleRate != 0 {
		m.sampleRate = msg.SampleRate
	}
	if msg.NoteDuration != 0 {
		m.noteLength = msg.NoteDuration
	}
	if msg.LastError != "" {
		m.lastError = msg.LastError
	}
	m.seconds = msg.Seconds
	m.noteIndex = msg.NoteIndex
	m.noteFreq = msg.NoteFrequency
	m.noteElapsed = msg.NoteElapsed
	m.buffers = msg.Buffers
	m.failures = msg.WriteFailures
	m.clients = msg.Clients
	if msg.Goroutines != 0 {
		m.goroutines = msg.Goroutines
		m.memAlloc = msg.MemAlloc
	}
}

// Utility functions
func field(name, value string) string {
	return headerStyle.Render(fmt.Sprintf("%-8s ", name+":")) + value + "\n"
}

func renderBar(value, max float64, width int) string {
	filled := 0
	if max > 0 {
		filled = int(value / max * float64(width))
	}
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func formatClock(seconds float64) string {
	return time.Duration(seconds * float64(time.Second)).Round(time.Second).String()
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}
