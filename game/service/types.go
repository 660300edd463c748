package service

import (
	"time"

	"github.com/wricardo/blockfall/game/engine"
)

// Event types reported in results and pushed to clients
const (
	EventKey         = "key"
	EventPieceFrozen = "piece_frozen"
	EventGameOver    = "game_over"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	Manual         bool               `json:"manual"`
	TickIntervalMS int                `json:"tick_interval_ms"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.Snapshot   `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// KeyResult contains the result of a key press
type KeyResult struct {
	Key       string           `json:"key"`
	Handled   bool             `json:"handled"`
	Direction string           `json:"direction,omitempty"`
	GameState *engine.Snapshot `json:"game_state"`
	Message   string           `json:"message"`
	Events    []GameEvent      `json:"events,omitempty"`
}

// TickResult contains the result of a manual tick request
type TickResult struct {
	RequestedTicks int              `json:"requested_ticks"`
	TicksExecuted  int              `json:"ticks_executed"`
	PiecesFrozen   int              `json:"pieces_frozen"`
	GameOver       bool             `json:"game_over"`
	StoppedReason  string           `json:"stopped_reason,omitempty"`
	Truncated      bool             `json:"truncated,omitempty"`
	Limit          int              `json:"limit,omitempty"`
	GameState      *engine.Snapshot `json:"game_state"`
	Events         []GameEvent      `json:"events"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string        `json:"type"` // "reset", "key", "piece_frozen", "game_over"
	Message   string        `json:"message"`
	Timestamp time.Time     `json:"timestamp"`
	Piece     *engine.Piece `json:"piece,omitempty"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename       string `json:"filename"`
	ConfigID       string `json:"config_id"` // The identifier to use for session creation
	Name           string `json:"name"`      // Display name
	Description    string `json:"description"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	TickIntervalMS int    `json:"tick_interval_ms"`
	SpawnPolicy    string `json:"spawn_policy,omitempty"`
	Shapes         int    `json:"shapes"`
}
