// ABOUTME: WebSocket lifecycle control server
// ABOUTME: Lets local clients pause, resume and observe the audio engine
package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/calmtv/calmtv-go/internal/protocol"
	"github.com/calmtv/calmtv-go/pkg/calmtv"
)

// Path is the HTTP path of the control endpoint
const Path = "/calmtv"

const (
	writeDeadline = 10 * time.Second
	pingInterval  = 30 * time.Second
	sendQueueSize = 16
)

// Controller is the engine surface exposed to control clients
type Controller interface {
	Pause() error
	Resume() error
	Stats() calmtv.Stats
}

// Config holds control server configuration
type Config struct {
	// Port to listen on (0 picks a free port)
	Port int

	// Name is announced in server/hello
	Name string

	// SampleRate is reported in engine/status
	SampleRate int

	DeviceInfo protocol.DeviceInfo

	Debug bool
}

// Server accepts control connections
type Server struct {
	config   Config
	serverID string
	ctrl     Controller

	upgrader   websocket.Upgrader
	mux        *http.ServeMux
	httpServer *http.Server
	listener   net.Listener

	clients   map[string]*Client
	clientsMu sync.RWMutex

	stopOnce   sync.Once
	shutdownMu sync.RWMutex
	isShutdown bool
	wg         sync.WaitGroup
}

// Client is a connected control client
type Client struct {
	ID   string
	Name string
	Conn *websocket.Conn

	sendChan chan protocol.Message
}

// New creates a control server for ctrl
func New(config Config, ctrl Controller) *Server {
	if config.Name == "" {
		config.Name = "CalmTV"
	}

	s := &Server{
		config:   config,
		serverID: uuid.New().String(),
		ctrl:     ctrl,
		mux:      http.NewServeMux(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Only non-browser and localhost clients may drive playback
				origin := r.Header.Get("Origin")
				return origin == "" || origin == "http://localhost" || origin == "http://127.0.0.1"
			},
		},
		clients: make(map[string]*Client),
	}
	s.mux.HandleFunc(Path, s.handleWebSocket)

	return s
}

// Handler returns the HTTP handler serving the control endpoint
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ID returns the server instance id
func (s *Server) ID() string {
	return s.serverID
}

// Start listens on the configured port and serves in the background
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.config.Port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.config.Port, err)
	}
	s.listener = ln

	s.httpServer = &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Control server error: %v", err)
		}
	}()

	log.Printf("Control server listening on %s%s (ID: %s)", ln.Addr(), Path, s.serverID)
	return nil
}

// Port returns the bound port after Start
func (s *Server) Port() int {
	if s.listener == nil {
		return s.config.Port
	}
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Stop disconnects every client and shuts the listener down
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		s.shutdownMu.Lock()
		s.isShutdown = true
		s.shutdownMu.Unlock()

		if s.httpServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.httpServer.Shutdown(ctx); err != nil {
				log.Printf("Control server shutdown error: %v", err)
			}
		}

		// Hijacked connections are not closed by Shutdown
		s.clientsMu.RLock()
		for _, c := range s.clients {
			c.Conn.Close()
		}
		s.clientsMu.RUnlock()

		s.wg.Wait()
		log.Printf("Control server stopped")
	})
}

// ClientCount returns the number of connected clients
func (s *Server) ClientCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// BroadcastStatus pushes the current engine status to every client
func (s *Server) BroadcastStatus() {
	status := s.status()

	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for _, c := range s.clients {
		if err := s.sendMessage(c, protocol.TypeEngineStatus, status); err != nil {
			log.Printf("Dropping status for %s: %v", c.Name, err)
		}
	}
}

// handleWebSocket handles WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	if s.config.Debug {
		log.Printf("[DEBUG] New control connection from %s", r.RemoteAddr)
	}

	s.wg.Add(1)
	defer s.wg.Done()
	s.handleConnection(conn)
}

// handleConnection manages a client connection
func (s *Server) handleConnection(conn *websocket.Conn) {
	defer conn.Close()

	s.shutdownMu.RLock()
	if s.isShutdown {
		s.shutdownMu.RUnlock()
		log.Printf("Rejecting connection during shutdown")
		return
	}
	s.shutdownMu.RUnlock()

	// Wait for client/hello
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg protocol.Message
	if err := conn.ReadJSON(&msg); err != nil {
		log.Printf("Error reading hello: %v", err)
		return
	}
	conn.SetReadDeadline(time.Time{})

	if msg.Type != protocol.TypeClientHello {
		log.Printf("Expected %s, got %s", protocol.TypeClientHello, msg.Type)
		writeError(conn, msg.ID, "handshake_required", "first message must be "+protocol.TypeClientHello)
		return
	}

	var hello protocol.ClientHello
	if err := protocol.DecodePayload(msg.Payload, &hello); err != nil {
		log.Printf("Error decoding client hello: %v", err)
		writeError(conn, msg.ID, "bad_request", err.Error())
		return
	}
	if hello.ClientID == "" {
		log.Printf("Client hello missing ClientID")
		writeError(conn, msg.ID, "bad_request", "client_id is required")
		return
	}
	if hello.Name == "" {
		hello.Name = hello.ClientID
	}

	client := &Client{
		ID:       hello.ClientID,
		Name:     hello.Name,
		Conn:     conn,
		sendChan: make(chan protocol.Message, sendQueueSize),
	}

	// Check for duplicate client ID and register atomically
	s.clientsMu.Lock()
	if existing, exists := s.clients[hello.ClientID]; exists {
		s.clientsMu.Unlock()
		log.Printf("Client ID %s already connected (name: %s), rejecting duplicate", hello.ClientID, existing.Name)
		writeError(conn, msg.ID, "duplicate_client_id", "Client ID already connected")
		return
	}
	s.clients[client.ID] = client
	s.clientsMu.Unlock()

	log.Printf("Control client connected: %s (ID: %s)", client.Name, client.ID)

	writerDone := make(chan struct{})
	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, client.ID)
		close(client.sendChan)
		s.clientsMu.Unlock()
		<-writerDone
		log.Printf("Control client disconnected: %s", client.Name)
	}()

	go func() {
		defer close(writerDone)
		s.clientWriter(client)
	}()

	serverHello := protocol.ServerHello{
		ServerID:   s.serverID,
		Name:       s.config.Name,
		Version:    protocol.ProtocolVersion,
		DeviceInfo: s.config.DeviceInfo,
	}
	if err := s.reply(client, msg.ID, protocol.TypeServerHello, serverHello); err != nil {
		log.Printf("Error sending server hello: %v", err)
		return
	}

	// Read messages from client
	for {
		var msg protocol.Message
		if err := conn.ReadJSON(&msg); err != nil {
			var syntaxErr *json.SyntaxError
			if errors.As(err, &syntaxErr) {
				s.sendError(client, "", "bad_request", "malformed message")
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}

		s.handleClientMessage(client, msg)
	}
}

// clientWriter sends queued messages to the client
func (s *Server) clientWriter(client *Client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-client.sendChan:
			if !ok {
				return
			}
			client.Conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := client.Conn.WriteJSON(msg); err != nil {
				log.Printf("Error writing message: %v", err)
				client.Conn.Close()
				drain(client.sendChan)
				return
			}

		case <-ticker.C:
			if err := client.Conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeDeadline)); err != nil {
				client.Conn.Close()
				drain(client.sendChan)
				return
			}
		}
	}
}

// handleClientMessage processes messages from clients
func (s *Server) handleClientMessage(client *Client, msg protocol.Message) {
	if s.config.Debug {
		log.Printf("[DEBUG] %s from %s", msg.Type, client.Name)
	}

	switch msg.Type {
	case protocol.TypePause:
		s.handleLifecycle(client, msg.ID, "pause", s.ctrl.Pause)
	case protocol.TypeResume:
		s.handleLifecycle(client, msg.ID, "resume", s.ctrl.Resume)
	case protocol.TypeStatusRequest:
		if err := s.reply(client, msg.ID, protocol.TypeEngineStatus, s.status()); err != nil {
			log.Printf("Error sending status: %v", err)
		}
	default:
		log.Printf("Unknown message type: %s", msg.Type)
		s.sendError(client, msg.ID, "unknown_type", "unknown message type: "+msg.Type)
	}
}

func (s *Server) handleLifecycle(client *Client, id, action string, call func() error) {
	if err := call(); err != nil {
		log.Printf("Control %s from %s failed: %v", action, client.Name, err)
		s.sendError(client, id, errorCode(err), err.Error())
		return
	}

	log.Printf("Control %s from %s", action, client.Name)
	if err := s.reply(client, id, protocol.TypeEngineStatus, s.status()); err != nil {
		log.Printf("Error sending status: %v", err)
	}
}

func (s *Server) status() protocol.EngineStatus {
	stats := s.ctrl.Stats()
	return protocol.EngineStatus{
		State:          stats.State.String(),
		SampleRate:     s.config.SampleRate,
		Seconds:        stats.Seconds,
		NoteIndex:      stats.NoteIndex,
		NoteElapsed:    stats.NoteElapsed,
		BuffersWritten: stats.BuffersWritten,
		WriteFailures:  stats.WriteFailures,
	}
}

// sendMessage queues a pushed JSON message for a client
func (s *Server) sendMessage(client *Client, msgType string, payload interface{}) error {
	return s.reply(client, "", msgType, payload)
}

// reply queues a JSON message answering request id
// (the queue is closed only under clientsMu, by the client's own reader)
func (s *Server) reply(client *Client, id, msgType string, payload interface{}) error {
	select {
	case client.sendChan <- protocol.Message{Type: msgType, ID: id, Payload: payload}:
		return nil
	default:
		return fmt.Errorf("client send buffer full")
	}
}

func (s *Server) sendError(client *Client, id, code, message string) {
	if err := s.reply(client, id, protocol.TypeError, protocol.Error{Code: code, Message: message}); err != nil {
		log.Printf("Error sending error message: %v", err)
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, calmtv.ErrReleased):
		return "released"
	case errors.Is(err, calmtv.ErrInvalidState):
		return "invalid_state"
	default:
		return "engine_error"
	}
}

// writeError sends an error directly, before the writer goroutine exists
func writeError(conn *websocket.Conn, id, code, message string) {
	conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	conn.WriteJSON(protocol.Message{
		Type:    protocol.TypeError,
		ID:      id,
		Payload: protocol.Error{Code: code, Message: message},
	})
}

func drain(ch <-chan protocol.Message) {
	for range ch {
	}
}
