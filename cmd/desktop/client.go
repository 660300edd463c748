package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wricardo/blockfall/game/engine"
	"github.com/wricardo/blockfall/game/render"
	"github.com/wricardo/blockfall/game/service"
	hub "github.com/wricardo/blockfall/transport/websocket"
)

// client follows one server session over the WebSocket and sends keys back on
// the same connection
type client struct {
	baseURL    string
	httpClient *http.Client

	mu        sync.RWMutex
	sessionID string
	conn      *websocket.Conn
	board     *render.Board
	lastEvent string
	errMsg    string
}

func newClient(baseURL string) *client {
	return &client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// createSession starts a new server session and remembers its ID
func (c *client) createSession(ctx context.Context, configID string) (string, error) {
	payload := "{}"
	if configID != "" {
		body, err := json.Marshal(map[string]string{"config_id": configID})
		if err != nil {
			return "", err
		}
		payload = string(body)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/sessions", strings.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("create session: HTTP %d", resp.StatusCode)
	}

	var info service.SessionInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("failed to parse session response: %w", err)
	}

	c.mu.Lock()
	c.sessionID = info.ID
	c.mu.Unlock()
	log.Printf("Created new session: %s (config: %s)", info.ID, info.ConfigName)
	return info.ID, nil
}

// fetchState reads the session's current snapshot over REST
func (c *client) fetchState(ctx context.Context) (*engine.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, "GET",
		fmt.Sprintf("%s/api/sessions/%s/state", c.baseURL, url.PathEscape(c.session())), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("get state: HTTP %d", resp.StatusCode)
	}

	var state engine.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("failed to parse state: %w", err)
	}
	return &state, nil
}

// reset restarts the session's game
func (c *client) reset(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "POST",
		fmt.Sprintf("%s/api/sessions/%s/reset", c.baseURL, url.PathEscape(c.session())), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("reset: HTTP %d", resp.StatusCode)
	}
	return nil
}

// wsURL derives the WebSocket endpoint from the HTTP base URL
func (c *client) wsURL() (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws"
	q := u.Query()
	q.Set("session", c.session())
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// connect dials the session's WebSocket
func (c *client) connect(ctx context.Context) error {
	if c.session() == "" {
		return fmt.Errorf("no session ID set")
	}

	wsURL, err := c.wsURL()
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	log.Printf("WebSocket connected for session %s", c.session())
	return nil
}

// listen stores every board pushed by the server until the connection closes
func (c *client) listen() error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	defer conn.Close()

	for {
		var msg hub.Message
		if err := conn.ReadJSON(&msg); err != nil {
			c.setError(fmt.Sprintf("connection lost: %v", err))
			return err
		}
		c.apply(&msg)
	}
}

func (c *client) apply(msg *hub.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if msg.Event == hub.EventError {
		c.errMsg = fmt.Sprint(msg.Data)
		return
	}
	if msg.Board == nil && msg.GameState != nil {
		msg.Board = render.NewBoard(msg.GameState)
	}
	if msg.Board == nil {
		return
	}
	c.board = msg.Board
	c.lastEvent = msg.Event
	c.errMsg = ""
}

// sendKey forwards a key code over the WebSocket
func (c *client) sendKey(code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("not connected")
	}
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return c.conn.WriteJSON(hub.ClientMessage{Type: "key", Code: code})
}

func (c *client) setError(msg string) {
	c.mu.Lock()
	c.errMsg = msg
	c.mu.Unlock()
}

func (c *client) session() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

// view returns the latest board and status for drawing
func (c *client) view() (*render.Board, string, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.board, c.lastEvent, c.errMsg
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.conn.Close()
	}
}
