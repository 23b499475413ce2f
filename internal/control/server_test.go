// ABOUTME: Tests for the lifecycle control server
// ABOUTME: Drives the websocket endpoint through httptest
package control

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/calmtv/calmtv-go/internal/protocol"
	"github.com/calmtv/calmtv-go/pkg/audio/output"
	"github.com/calmtv/calmtv-go/pkg/calmtv"
)

type fakeEngine struct {
	mu    sync.Mutex
	state calmtv.State
}

func (f *fakeEngine) Pause() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != calmtv.StateRunning {
		return fmt.Errorf("%w: cannot pause from %s", calmtv.ErrInvalidState, f.state)
	}
	f.state = calmtv.StatePaused
	return nil
}

func (f *fakeEngine) Resume() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != calmtv.StatePaused {
		return fmt.Errorf("%w: cannot resume from %s", calmtv.ErrInvalidState, f.state)
	}
	f.state = calmtv.StateRunning
	return nil
}

func (f *fakeEngine) Stats() calmtv.Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return calmtv.Stats{State: f.state, NoteIndex: 2}
}

func newTestServer(t *testing.T, ctrl Controller) (*Server, *httptest.Server) {
	t.Helper()

	s := New(Config{Name: "Test TV", SampleRate: 44100}, ctrl)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + Path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msgType string, payload interface{}) {
	t.Helper()

	if err := conn.WriteJSON(protocol.Message{Type: msgType, Payload: payload}); err != nil {
		t.Fatalf("failed to send %s: %v", msgType, err)
	}
}

func receive(t *testing.T, conn *websocket.Conn) protocol.Message {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg protocol.Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("failed to read message: %v", err)
	}
	return msg
}

func connect(t *testing.T, ts *httptest.Server, clientID string) *websocket.Conn {
	t.Helper()

	conn := dial(t, ts)
	send(t, conn, protocol.TypeClientHello, protocol.ClientHello{
		ClientID: clientID,
		Name:     "test " + clientID,
		Version:  protocol.ProtocolVersion,
	})

	msg := receive(t, conn)
	if msg.Type != protocol.TypeServerHello {
		t.Fatalf("expected %s, got %s", protocol.TypeServerHello, msg.Type)
	}
	return conn
}

func expectStatus(t *testing.T, conn *websocket.Conn, state string) protocol.EngineStatus {
	t.Helper()

	msg := receive(t, conn)
	if msg.Type != protocol.TypeEngineStatus {
		t.Fatalf("expected %s, got %s (%v)", protocol.TypeEngineStatus, msg.Type, msg.Payload)
	}
	var status protocol.EngineStatus
	if err := protocol.DecodePayload(msg.Payload, &status); err != nil {
		t.Fatalf("bad status payload: %v", err)
	}
	if status.State != state {
		t.Errorf("expected state %s, got %s", state, status.State)
	}
	return status
}

func expectError(t *testing.T, conn *websocket.Conn, code string) {
	t.Helper()

	msg := receive(t, conn)
	if msg.Type != protocol.TypeError {
		t.Fatalf("expected %s, got %s", protocol.TypeError, msg.Type)
	}
	var e protocol.Error
	if err := protocol.DecodePayload(msg.Payload, &e); err != nil {
		t.Fatalf("bad error payload: %v", err)
	}
	if e.Code != code {
		t.Errorf("expected error code %s, got %s (%s)", code, e.Code, e.Message)
	}
}

func TestHandshake(t *testing.T) {
	s, ts := newTestServer(t, &fakeEngine{state: calmtv.StateRunning})

	conn := dial(t, ts)
	send(t, conn, protocol.TypeClientHello, protocol.ClientHello{ClientID: "c1", Name: "ctl"})

	msg := receive(t, conn)
	if msg.Type != protocol.TypeServerHello {
		t.Fatalf("expected server/hello, got %s", msg.Type)
	}

	var hello protocol.ServerHello
	if err := protocol.DecodePayload(msg.Payload, &hello); err != nil {
		t.Fatalf("bad hello payload: %v", err)
	}
	if hello.ServerID != s.ID() {
		t.Errorf("expected server id %s, got %s", s.ID(), hello.ServerID)
	}
	if hello.Name != "Test TV" {
		t.Errorf("expected name Test TV, got %s", hello.Name)
	}
	if hello.Version != protocol.ProtocolVersion {
		t.Errorf("expected version %d, got %d", protocol.ProtocolVersion, hello.Version)
	}
}

func TestHandshakeRequired(t *testing.T) {
	_, ts := newTestServer(t, &fakeEngine{})

	conn := dial(t, ts)
	send(t, conn, protocol.TypePause, nil)
	expectError(t, conn, "handshake_required")
}

func TestHandshakeRequiresClientID(t *testing.T) {
	_, ts := newTestServer(t, &fakeEngine{})

	conn := dial(t, ts)
	send(t, conn, protocol.TypeClientHello, protocol.ClientHello{Name: "anonymous"})
	expectError(t, conn, "bad_request")
}

func TestDuplicateClientRejected(t *testing.T) {
	_, ts := newTestServer(t, &fakeEngine{})

	connect(t, ts, "same")

	conn := dial(t, ts)
	send(t, conn, protocol.TypeClientHello, protocol.ClientHello{ClientID: "same", Name: "second"})
	expectError(t, conn, "duplicate_client_id")
}

func TestLifecycleMessages(t *testing.T) {
	engine := &fakeEngine{state: calmtv.StateRunning}
	_, ts := newTestServer(t, engine)
	conn := connect(t, ts, "c1")

	send(t, conn, protocol.TypePause, nil)
	expectStatus(t, conn, "paused")
	if engine.Stats().State != calmtv.StatePaused {
		t.Errorf("engine not paused")
	}

	send(t, conn, protocol.TypePause, nil)
	expectError(t, conn, "invalid_state")

	send(t, conn, protocol.TypeResume, nil)
	expectStatus(t, conn, "running")

	send(t, conn, protocol.TypeStatusRequest, nil)
	status := expectStatus(t, conn, "running")
	if status.SampleRate != 44100 {
		t.Errorf("expected sample rate 44100, got %d", status.SampleRate)
	}
	if status.NoteIndex != 2 {
		t.Errorf("expected note index 2, got %d", status.NoteIndex)
	}

	send(t, conn, "volume/set", map[string]int{"volume": 11})
	expectError(t, conn, "unknown_type")
}

func TestBroadcastStatus(t *testing.T) {
	s, ts := newTestServer(t, &fakeEngine{state: calmtv.StatePaused})
	a := connect(t, ts, "a")
	b := connect(t, ts, "b")

	if got := s.ClientCount(); got != 2 {
		t.Fatalf("expected 2 clients, got %d", got)
	}

	s.BroadcastStatus()
	expectStatus(t, a, "paused")
	expectStatus(t, b, "paused")
}

func TestControlsRealEngine(t *testing.T) {
	engine, err := calmtv.NewEngine(calmtv.Config{BufferFrames: 441}, output.NewNull())
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	if err := engine.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer engine.Release()

	_, ts := newTestServer(t, engine)
	conn := connect(t, ts, "ctl")

	send(t, conn, protocol.TypePause, nil)
	expectStatus(t, conn, "paused")
	if engine.State() != calmtv.StatePaused {
		t.Errorf("expected paused engine, got %s", engine.State())
	}

	send(t, conn, protocol.TypeResume, nil)
	expectStatus(t, conn, "running")

	if err := engine.Release(); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	send(t, conn, protocol.TypePause, nil)
	expectError(t, conn, "released")
}
