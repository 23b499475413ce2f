// ABOUTME: Tests for calmtvctl helpers
// ABOUTME: Covers player selection and status formatting
package main

import (
	"testing"

	"github.com/calmtv/calmtv-go/internal/discovery"
	"github.com/calmtv/calmtv-go/internal/protocol"
)

func TestChoosePlayer(t *testing.T) {
	players := []*discovery.ServerInfo{
		{Name: "Bedroom", Host: "10.0.0.2", Port: 8928},
		{Name: "Living Room", Host: "10.0.0.3", Port: 8928},
	}

	tests := []struct {
		name string
		want string
	}{
		{name: "", want: "Bedroom"},
		{name: "living room", want: "Living Room"},
		{name: "Kitchen", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := choosePlayer(players, tt.name)
			if tt.want == "" {
				if got != nil {
					t.Errorf("expected no player, got %s", got.Name)
				}
				return
			}
			if got == nil || got.Name != tt.want {
				t.Errorf("expected %s, got %v", tt.want, got)
			}
		})
	}
}

func TestFormatStatus(t *testing.T) {
	tests := []struct {
		name   string
		status protocol.EngineStatus
		want   string
	}{
		{
			name:   "running",
			status: protocol.EngineStatus{State: "running", Seconds: 90.2, NoteIndex: 0, NoteElapsed: 2.5},
			want:   "tv: running  clock 1m30s  note 1 (2.5s)",
		},
		{
			name:   "failures",
			status: protocol.EngineStatus{State: "paused", Seconds: 4, NoteIndex: 1, WriteFailures: 3},
			want:   "tv: paused  clock 4s  note 2 (0.0s)  3 write failures",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatStatus("tv", tt.status); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
