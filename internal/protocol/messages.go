// ABOUTME: Control channel message type definitions
// ABOUTME: JSON envelopes exchanged between the player and control clients
package protocol

import (
	"encoding/json"
	"fmt"
)

// ProtocolVersion is the control channel version sent in hello messages
const ProtocolVersion = 1

// Message types
const (
	TypeClientHello   = "client/hello"
	TypeServerHello   = "server/hello"
	TypePause         = "lifecycle/pause"
	TypeResume        = "lifecycle/resume"
	TypeStatusRequest = "status/request"
	TypeEngineStatus  = "engine/status"
	TypeError         = "error"
)

// Message is the top-level wrapper for all control messages. Replies
// echo the ID of the request; pushed messages carry none.
type Message struct {
	Type    string      `json:"type"`
	ID      string      `json:"id,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// ClientHello is sent by clients to initiate the handshake
type ClientHello struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Version  int    `json:"version"`
}

// DeviceInfo contains device identification
type DeviceInfo struct {
	ProductName     string `json:"product_name"`
	Manufacturer    string `json:"manufacturer"`
	SoftwareVersion string `json:"software_version"`
}

// ServerHello is the player's response to client/hello
type ServerHello struct {
	ServerID   string     `json:"server_id"`
	Name       string     `json:"name"`
	Version    int        `json:"version"`
	DeviceInfo DeviceInfo `json:"device_info"`
}

// EngineStatus reports the engine's lifecycle state and progress
type EngineStatus struct {
	State          string  `json:"state"` // "stopped", "running" or "paused"
	SampleRate     int     `json:"sample_rate"`
	Seconds        float64 `json:"seconds"`
	NoteIndex      int     `json:"note_index"`
	NoteElapsed    float64 `json:"note_elapsed"`
	BuffersWritten uint64  `json:"buffers_written"`
	WriteFailures  uint64  `json:"write_failures"`
}

// Error reports a rejected request
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DecodePayload re-decodes a generic payload into a typed struct
func DecodePayload(payload interface{}, v interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return nil
}
