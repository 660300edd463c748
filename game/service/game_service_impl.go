package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/wricardo/blockfall/game/engine"
	"github.com/wricardo/blockfall/game/render"
	"github.com/wricardo/blockfall/game/runner"
)

var (
	// ErrConfigNotFound is returned by config managers for unknown names
	ErrConfigNotFound = errors.New("configuration not found")
	// ErrSessionNotFound wraps lookups of unknown session IDs
	ErrSessionNotFound = errors.New("session not found")
)

// gameServiceImpl implements the GameService interface. Game mutations are
// serialized by each session's runner; mu only guards session lifecycle.
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.Mutex
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// CreateSession creates a new game session and starts its runner
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string, manual bool) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v: %w", configName, configIDs, ErrConfigNotFound)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations: %w", configName, ErrConfigNotFound)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", config, manual)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	return s.sessionInfo(ctx, sess, configID)
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(ctx, sess, s.getConfigID(sess.Config.Name))
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		info, err := s.sessionInfo(ctx, sess, s.getConfigID(sess.Config.Name))
		if err != nil {
			// Deleted while listing
			if errors.Is(err, runner.ErrRunnerStopped) {
				continue
			}
			return nil, err
		}
		result = append(result, info)
	}

	return result, nil
}

// DeleteSession stops and removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	return nil
}

// PressKey delivers a key code. Unknown codes are ignored, not rejected.
func (s *gameServiceImpl) PressKey(ctx context.Context, sessionID, code string) (*KeyResult, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	res, err := sess.Runner.Key(ctx, code)
	if err != nil {
		return nil, err
	}

	result := &KeyResult{
		Key:       code,
		Handled:   res.Handled,
		Direction: string(res.Direction),
		GameState: res.Snapshot,
		Message:   res.Snapshot.Message,
	}

	if res.Handled {
		result.Events = append(result.Events, GameEvent{
			Type:      EventKey,
			Message:   fmt.Sprintf("Piece shifted %s", res.Direction),
			Timestamp: time.Now(),
			Piece:     &res.Snapshot.Piece,
		})
	} else if res.Snapshot.Ended {
		result.Message = fmt.Sprintf("Key '%s' ignored: the game is over. Reset to play again.", code)
	} else {
		result.Message = fmt.Sprintf("Key '%s' ignored. Valid keys: %v", code, engine.KeyCodes())
	}

	return result, nil
}

// Tick advances a session count times. The count is capped at
// engine.MaxBulkTicks and the run stops early at game over.
func (s *gameServiceImpl) Tick(ctx context.Context, sessionID string, count int) (*TickResult, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	requested := count
	if count <= 0 {
		count = 1
		requested = 1
	}
	result := &TickResult{RequestedTicks: requested}
	if count > engine.MaxBulkTicks {
		count = engine.MaxBulkTicks
		result.Truncated = true
		result.Limit = engine.MaxBulkTicks
	}

	res, err := sess.Runner.Tick(ctx, count)
	if err != nil {
		return nil, err
	}

	result.TicksExecuted = res.Ticked
	result.PiecesFrozen = res.Frozen
	result.GameOver = res.Snapshot.Ended
	result.GameState = res.Snapshot
	result.Events = tickEvents(res)

	switch {
	case res.Tick.Skipped && res.Ticked == 0:
		result.StoppedReason = "game is already over; reset to play again"
	case res.Tick.GameOver:
		result.StoppedReason = fmt.Sprintf("game over after %d of %d ticks", res.Ticked, count)
	}

	return result, nil
}

// tickEvents summarizes a runner tick result
func tickEvents(res *runner.Result) []GameEvent {
	events := []GameEvent{}
	now := time.Now()

	if res.Frozen > 0 {
		events = append(events, GameEvent{
			Type:      EventPieceFrozen,
			Message:   fmt.Sprintf("%d piece(s) settled", res.Frozen),
			Timestamp: now,
		})
	}
	if res.Tick.GameOver {
		events = append(events, GameEvent{
			Type:      EventGameOver,
			Message:   res.Snapshot.Message,
			Timestamp: now,
		})
	}
	return events
}

// Reset resets a game session to initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	res, err := sess.Runner.Reset(ctx)
	if err != nil {
		return nil, err
	}
	log.Printf("[RESET] session %s", sess.ID)
	return res.Snapshot, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Runner.Snapshot(ctx)
}

// GetBoard returns the display elements for the current state
func (s *gameServiceImpl) GetBoard(ctx context.Context, sessionID string) (*render.Board, error) {
	snap, err := s.GetGameState(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return render.NewBoard(snap), nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// lookup finds a session and records the access
func (s *gameServiceImpl) lookup(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	sess.Touch()
	return sess, nil
}

func (s *gameServiceImpl) sessionInfo(ctx context.Context, sess *Session, configID string) (*SessionInfo, error) {
	snap, err := sess.Runner.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		Manual:         sess.Manual,
		TickIntervalMS: sess.Config.TickIntervalMS,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt(),
		GameState:      snap,
		GameConfig:     sess.Config,
	}, nil
}
