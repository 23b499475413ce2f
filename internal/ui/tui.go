// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program and its lifecycle request channels
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// LifecycleControl carries key presses that drive the engine lifecycle
type LifecycleControl struct {
	Toggle chan struct{}
	Quit   chan struct{}
}

// NewLifecycleControl creates a new lifecycle control handler
func NewLifecycleControl() *LifecycleControl {
	return &LifecycleControl{
		Toggle: make(chan struct{}, 1),
		Quit:   make(chan struct{}, 1),
	}
}

// Config holds the static details shown by the TUI
type Config struct {
	Name        string
	Sink        string
	ControlPort int
}

// NewModel creates a new TUI model
func NewModel(config Config, lifecycle *LifecycleControl) Model {
	if config.Name == "" {
		config.Name = "CalmTV"
	}
	return Model{
		name:        config.Name,
		sink:        config.Sink,
		controlPort: config.ControlPort,
		state:       "stopped",
		lifecycle:   lifecycle,
	}
}

// TUI runs the player interface
type TUI struct {
	program *tea.Program
	updates chan StatusMsg
	done    chan struct{}
}

// New creates the TUI program
func New(config Config, lifecycle *LifecycleControl) *TUI {
	t := &TUI{
		program: tea.NewProgram(NewModel(config, lifecycle), tea.WithAltScreen()),
		updates: make(chan StatusMsg, 10),
		done:    make(chan struct{}),
	}

	go func() {
		for {
			select {
			case status := <-t.updates:
				t.program.Send(status)
			case <-t.done:
				return
			}
		}
	}()

	return t
}

// Run blocks until the program exits
func (t *TUI) Run() error {
	defer close(t.done)
	_, err := t.program.Run()
	return err
}

// Update sends a status update to the TUI
func (t *TUI) Update(status StatusMsg) {
	select {
	case t.updates <- status:
	default:
		// Don't block if channel is full
	}
}

// Stop quits the program
func (t *TUI) Stop() {
	t.program.Quit()
}
