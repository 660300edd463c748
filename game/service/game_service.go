package service

import (
	"context"
	"sync"
	"time"

	"github.com/wricardo/blockfall/game/engine"
	"github.com/wricardo/blockfall/game/render"
	"github.com/wricardo/blockfall/game/runner"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string, manual bool) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	PressKey(ctx context.Context, sessionID, code string) (*KeyResult, error)
	Tick(ctx context.Context, sessionID string, count int) (*TickResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.Snapshot, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.Snapshot, error)
	GetBoard(ctx context.Context, sessionID string) (*render.Board, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig, manual bool) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Session represents an active game session. The engine is only reachable
// through Runner.
type Session struct {
	ID        string
	Runner    *runner.Runner
	Config    *engine.GameConfig
	Manual    bool
	CreatedAt time.Time

	// Cancel stops the runner goroutine
	Cancel context.CancelFunc

	mu             sync.Mutex
	lastAccessedAt time.Time
}

// NewSession wires a session around a runner that the caller has started
func NewSession(id string, r *runner.Runner, config *engine.GameConfig, manual bool, cancel context.CancelFunc) *Session {
	now := time.Now()
	return &Session{
		ID:             id,
		Runner:         r,
		Config:         config,
		Manual:         manual,
		CreatedAt:      now,
		Cancel:         cancel,
		lastAccessedAt: now,
	}
}

// Touch records an access
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastAccessedAt = time.Now()
	s.mu.Unlock()
}

// SetLastAccessed overrides the access time
func (s *Session) SetLastAccessed(t time.Time) {
	s.mu.Lock()
	s.lastAccessedAt = t
	s.mu.Unlock()
}

// LastAccessedAt returns the last access time
func (s *Session) LastAccessedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccessedAt
}

// Stop cancels the runner and waits for it to exit
func (s *Session) Stop() {
	if s.Cancel == nil {
		return
	}
	s.Cancel()
	if s.Runner != nil {
		<-s.Runner.Done()
	}
}
