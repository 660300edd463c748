package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wricardo/blockfall/game/engine"
	"github.com/wricardo/blockfall/game/runner"
)

func testSnapshot(t *testing.T, ticks int) *engine.Snapshot {
	t.Helper()
	e := engine.NewEngineWithDefaults()
	for i := 0; i < ticks; i++ {
		e.Advance()
	}
	return e.Snapshot()
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func startServer(t *testing.T, hub *Hub, initial *engine.Snapshot) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.URL.Query().Get("session")
		if sessionID == "" {
			sessionID = "default"
		}
		hub.ServeWS(w, r, sessionID, initial)
	}))
	t.Cleanup(server.Close)
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func waitForClients(t *testing.T, hub *Hub, sessionID string, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount(sessionID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Expected %d clients in session %s, got %d", want, sessionID, hub.ClientCount(sessionID))
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}
	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	return message
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.sessions == nil {
		t.Error("Hub sessions map is nil")
	}
	if cap(hub.broadcast) != broadcastBuffer {
		t.Errorf("Expected broadcast buffer %d, got %d", broadcastBuffer, cap(hub.broadcast))
	}
	if hub.register == nil || hub.unregister == nil {
		t.Error("Hub register channels are nil")
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub()

	client := &Client{
		id:        "c1",
		hub:       hub,
		sessionID: "test-session",
		send:      make(chan []byte, 256),
	}

	hub.registerClient(client)

	if !hub.sessions["test-session"][client] {
		t.Error("Client was not registered in session")
	}
	if len(hub.sessions["test-session"]) != 1 {
		t.Errorf("Expected 1 client in session, got %d", len(hub.sessions["test-session"]))
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub()

	client := &Client{
		id:        "c1",
		hub:       hub,
		sessionID: "test-session",
		send:      make(chan []byte, 256),
	}

	hub.registerClient(client)
	hub.unregisterClient(client)

	if _, exists := hub.sessions["test-session"]; exists {
		t.Error("Session should have been cleaned up after last client unregistered")
	}
	if _, ok := <-client.send; ok {
		t.Error("Expected send channel to be closed")
	}

	// A second unregister is a no-op
	hub.unregisterClient(client)
}

func TestHubMultipleClientsInSession(t *testing.T) {
	hub := NewHub()
	sessionID := "multi-client-session"

	client1 := &Client{id: "c1", hub: hub, sessionID: sessionID, send: make(chan []byte, 256)}
	client2 := &Client{id: "c2", hub: hub, sessionID: sessionID, send: make(chan []byte, 256)}

	hub.registerClient(client1)
	hub.registerClient(client2)

	if len(hub.sessions[sessionID]) != 2 {
		t.Errorf("Expected 2 clients in session, got %d", len(hub.sessions[sessionID]))
	}

	hub.unregisterClient(client1)

	if len(hub.sessions[sessionID]) != 1 {
		t.Errorf("Expected 1 client remaining in session, got %d", len(hub.sessions[sessionID]))
	}
	if !hub.sessions[sessionID][client2] {
		t.Error("client2 should still be registered")
	}
}

func TestHubBroadcastMessage(t *testing.T) {
	hub := NewHub()
	sessionID := "broadcast-test"

	client := &Client{id: "c1", hub: hub, sessionID: sessionID, send: make(chan []byte, 256)}
	other := &Client{id: "c2", hub: hub, sessionID: "other", send: make(chan []byte, 256)}
	hub.registerClient(client)
	hub.registerClient(other)

	hub.BroadcastToSession(sessionID, testSnapshot(t, 1))
	hub.broadcastMessage(<-hub.broadcast)

	select {
	case data := <-client.send:
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if message.SessionID != sessionID {
			t.Errorf("Expected sessionID %s, got %s", sessionID, message.SessionID)
		}
		if message.Event != EventStateUpdate {
			t.Errorf("Expected event %s, got %s", EventStateUpdate, message.Event)
		}
		if message.GameState == nil || message.GameState.Ticks != 1 {
			t.Error("GameState not correctly transmitted")
		}
		if message.Board == nil || message.Board.Rows[3][0].Class != "item active" {
			t.Error("Board not correctly transmitted")
		}
	default:
		t.Error("No message queued for client")
	}

	if len(other.send) != 0 {
		t.Error("Client in another session should not receive the update")
	}
}

func TestHubBroadcastDropsSlowClient(t *testing.T) {
	hub := NewHub()
	slow := &Client{id: "slow", hub: hub, sessionID: "s", send: make(chan []byte, 1)}
	hub.registerClient(slow)

	hub.broadcastMessage(&Message{SessionID: "s", Event: "one"})
	hub.broadcastMessage(&Message{SessionID: "s", Event: "two"})

	if _, exists := hub.sessions["s"]; exists {
		t.Error("Slow client should have been unregistered")
	}
}

func TestHubEnqueueNeverBlocks(t *testing.T) {
	hub := NewHub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBuffer+10; i++ {
			hub.BroadcastEvent("s", "flood", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("BroadcastEvent blocked without a running hub")
	}
	if len(hub.broadcast) != broadcastBuffer {
		t.Errorf("Expected full queue of %d, got %d", broadcastBuffer, len(hub.broadcast))
	}
}

func TestHubPublish(t *testing.T) {
	hub := NewHub()
	snap := testSnapshot(t, 1)

	tests := []struct {
		update runner.Update
		event  string
	}{
		{runner.Update{Kind: runner.EventTick, Snapshot: snap}, EventStateUpdate},
		{runner.Update{Kind: runner.EventKey, Key: engine.KeyArrowLeft, Snapshot: snap}, EventStateUpdate},
		{runner.Update{Kind: runner.EventReset, Snapshot: snap}, EventReset},
		{runner.Update{Kind: runner.EventTick, Tick: engine.TickResult{Frozen: true, GameOver: true}, Frozen: 1, Snapshot: snap}, EventGameOver},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%s", tt.update.Kind, tt.event), func(t *testing.T) {
			hub.Publish("pub", tt.update)
			message := <-hub.broadcast

			if message.Event != tt.event {
				t.Errorf("Expected event %s, got %s", tt.event, message.Event)
			}
			if message.Update == nil || message.Update.Kind != string(tt.update.Kind) {
				t.Fatalf("Unexpected update info: %+v", message.Update)
			}
			if message.Update.Key != tt.update.Key {
				t.Errorf("Expected key %q, got %q", tt.update.Key, message.Update.Key)
			}
			if message.Update.GameOver != tt.update.Tick.GameOver {
				t.Errorf("Expected game_over %v", tt.update.Tick.GameOver)
			}
			if message.Board == nil {
				t.Error("Expected rendered board")
			}
		})
	}
}

func TestWebSocketUpgrade(t *testing.T) {
	hub := startHub(t)
	wsURL := startServer(t, hub, nil)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?session=ws-test", nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}

	waitForClients(t, hub, "ws-test", 1)

	conn.Close()

	waitForClients(t, hub, "ws-test", 0)
}

func TestWebSocketInitialState(t *testing.T) {
	hub := startHub(t)
	wsURL := startServer(t, hub, testSnapshot(t, 2))

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?session=init", nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	message := readMessage(t, conn)
	if message.SessionID != "init" || message.GameState == nil || message.GameState.Ticks != 2 {
		t.Errorf("Unexpected initial message: %+v", message)
	}
}

func TestWebSocketMessageReceive(t *testing.T) {
	hub := startHub(t)
	wsURL := startServer(t, hub, nil)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?session=msg-test", nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	waitForClients(t, hub, "msg-test", 1)

	hub.Publish("msg-test", runner.Update{Kind: runner.EventTick, Snapshot: testSnapshot(t, 3)})

	message := readMessage(t, conn)
	if message.SessionID != "msg-test" {
		t.Errorf("Expected sessionID 'msg-test', got %s", message.SessionID)
	}
	if message.GameState == nil || message.GameState.Ticks != 3 {
		t.Error("GameState not correctly received")
	}
	if message.Board == nil || message.Board.Title.Text == "" {
		t.Error("Board not correctly received")
	}
}

func TestWebSocketKeyMessages(t *testing.T) {
	hub := startHub(t)

	keys := make(chan string, 4)
	hub.SetKeyHandler(func(ctx context.Context, sessionID, code string) error {
		if code == "bad" {
			return errors.New("session not found")
		}
		keys <- sessionID + ":" + code
		return nil
	})
	wsURL := startServer(t, hub, nil)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?session=keys", nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	waitForClients(t, hub, "keys", 1)

	conn.WriteMessage(websocket.TextMessage, []byte("not json"))
	conn.WriteJSON(ClientMessage{Type: "hello", Code: engine.KeyArrowDown})
	conn.WriteJSON(ClientMessage{Type: "key", Code: engine.KeyArrowRight})

	select {
	case got := <-keys:
		if got != "keys:"+engine.KeyArrowRight {
			t.Errorf("Unexpected key delivery %q", got)
		}
	case <-time.After(time.Second):
		t.Fatal("Key was not delivered")
	}
	if len(keys) != 0 {
		t.Error("Only key messages should be delivered")
	}

	conn.WriteJSON(ClientMessage{Type: "key", Code: "bad"})
	message := readMessage(t, conn)
	if message.Event != EventError {
		t.Errorf("Expected error event, got %s", message.Event)
	}
}

func TestHubRunStopClosesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	wsURL := startServer(t, hub, nil)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?session=stop", nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()
	waitForClients(t, hub, "stop", 1)

	cancel()
	<-hub.done

	conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("Expected connection to close after hub stop")
	}
	if hub.ClientCount("stop") != 0 {
		t.Error("Expected zero clients after stop")
	}
}
