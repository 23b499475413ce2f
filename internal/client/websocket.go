// ABOUTME: WebSocket client for the lifecycle control channel
// ABOUTME: Handles connection, handshake, and request/response exchanges
package client

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/calmtv/calmtv-go/internal/protocol"
)

const defaultTimeout = 5 * time.Second

// Config holds client configuration
type Config struct {
	ServerAddr string
	Path       string
	ClientID   string
	Name       string
	Timeout    time.Duration
}

// Client represents a control connection to a player
type Client struct {
	config Config
	conn   *websocket.Conn
	server protocol.ServerHello
	mu     sync.Mutex
}

// RemoteError is an error message returned by the player
type RemoteError struct {
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewClient creates a new control client
func NewClient(config Config) *Client {
	if config.Path == "" {
		config.Path = "/calmtv"
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}
	if config.Name == "" {
		config.Name = "calmtvctl"
	}

	return &Client{config: config}
}

// Connect dials the player and performs the handshake
func (c *Client) Connect() error {
	u := url.URL{Scheme: "ws", Host: c.config.ServerAddr, Path: c.config.Path}
	log.Printf("Connecting to %s", u.String())

	dialer := websocket.Dialer{HandshakeTimeout: c.config.Timeout}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	if err := c.handshake(); err != nil {
		c.Close()
		return fmt.Errorf("handshake failed: %w", err)
	}

	return nil
}

// handshake performs the protocol handshake
func (c *Client) handshake() error {
	hello := protocol.ClientHello{
		ClientID: c.config.ClientID,
		Name:     c.config.Name,
		Version:  protocol.ProtocolVersion,
	}

	msg, err := c.roundTrip(protocol.TypeClientHello, hello)
	if err != nil {
		return err
	}
	if msg.Type != protocol.TypeServerHello {
		return fmt.Errorf("expected %s, got %s", protocol.TypeServerHello, msg.Type)
	}

	if err := protocol.DecodePayload(msg.Payload, &c.server); err != nil {
		return fmt.Errorf("failed to parse server/hello: %w", err)
	}

	log.Printf("Handshake complete with %s (ID: %s)", c.server.Name, c.server.ServerID)
	return nil
}

// Server returns the player's hello
func (c *Client) Server() protocol.ServerHello {
	return c.server
}

// Pause asks the player to pause and returns its new status
func (c *Client) Pause() (protocol.EngineStatus, error) {
	return c.statusRequest(protocol.TypePause)
}

// Resume asks the player to resume and returns its new status
func (c *Client) Resume() (protocol.EngineStatus, error) {
	return c.statusRequest(protocol.TypeResume)
}

// Status fetches the player's current status
func (c *Client) Status() (protocol.EngineStatus, error) {
	return c.statusRequest(protocol.TypeStatusRequest)
}

// Watch calls fn for every status the player pushes until fn returns
// false or the connection fails
func (c *Client) Watch(fn func(protocol.EngineStatus) bool) error {
	for {
		msg, err := c.read(time.Time{})
		if err != nil {
			return err
		}
		if msg.Type != protocol.TypeEngineStatus {
			continue
		}

		var status protocol.EngineStatus
		if err := protocol.DecodePayload(msg.Payload, &status); err != nil {
			return err
		}
		if !fn(status) {
			return nil
		}
	}
}

func (c *Client) statusRequest(msgType string) (protocol.EngineStatus, error) {
	var status protocol.EngineStatus

	msg, err := c.roundTrip(msgType, nil)
	if err != nil {
		return status, err
	}

	switch msg.Type {
	case protocol.TypeEngineStatus:
		if err := protocol.DecodePayload(msg.Payload, &status); err != nil {
			return status, err
		}
		return status, nil
	case protocol.TypeError:
		var remote protocol.Error
		if err := protocol.DecodePayload(msg.Payload, &remote); err != nil {
			return status, err
		}
		return status, &RemoteError{Code: remote.Code, Message: remote.Message}
	default:
		return status, fmt.Errorf("unexpected reply %s to %s", msg.Type, msgType)
	}
}

// roundTrip sends a message and reads until its reply, skipping pushed
// status updates
func (c *Client) roundTrip(msgType string, payload interface{}) (protocol.Message, error) {
	id := uuid.New().String()
	if err := c.sendJSON(protocol.Message{Type: msgType, ID: id, Payload: payload}); err != nil {
		return protocol.Message{}, fmt.Errorf("failed to send %s: %w", msgType, err)
	}

	deadline := time.Now().Add(c.config.Timeout)
	for {
		msg, err := c.read(deadline)
		if err != nil {
			return protocol.Message{}, fmt.Errorf("no reply to %s: %w", msgType, err)
		}
		if msg.ID == id {
			return msg, nil
		}
	}
}

// sendJSON sends a JSON message
func (c *Client) sendJSON(msg protocol.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("not connected")
	}

	c.conn.SetWriteDeadline(time.Now().Add(c.config.Timeout))
	return c.conn.WriteJSON(msg)
}

// read waits for the next message; a zero deadline waits forever
func (c *Client) read(deadline time.Time) (protocol.Message, error) {
	var msg protocol.Message

	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return msg, fmt.Errorf("not connected")
	}

	conn.SetReadDeadline(deadline)

	_, data, err := conn.ReadMessage()
	if err != nil {
		return msg, err
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		return msg, fmt.Errorf("failed to parse message: %w", err)
	}
	return msg, nil
}

// Close closes the connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		c.conn.Close()
		c.conn = nil
		log.Printf("Connection closed")
	}
}
