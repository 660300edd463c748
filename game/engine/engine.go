package engine

import "fmt"

// Engine provides the main interface for game operations
type Engine interface {
	// Simulation
	Advance() TickResult
	Shift(dir Direction) bool
	HandleKey(code string) (Direction, bool)
	Reset()

	// Game state
	GetState() *GameState
	Snapshot() *Snapshot
	IsGameOver() bool
	GetPiece() Piece
	Ticks() int

	// Configuration
	GetConfig() *GameConfig
	GetShapes() []Shape
}

// GameEngine implements the Engine interface. It is not safe for concurrent
// use; a single goroutine must own it.
type GameEngine struct {
	state  *GameState
	config *GameConfig
	shapes []Shape
	policy SpawnPolicy
}

// NewEngine creates a new game engine with the provided configuration
func NewEngine(config *GameConfig) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	policy, err := NewSpawnPolicy(config.SpawnPolicy, config.Seed)
	if err != nil {
		return nil, err
	}

	state, shapes, err := InitGameStateFromConfig(config, policy)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize game state: %w", err)
	}

	return &GameEngine{
		state:  state,
		config: config,
		shapes: shapes,
		policy: policy,
	}, nil
}

// NewEngineWithDefaults creates a new game engine with the reference configuration
func NewEngineWithDefaults() *GameEngine {
	e, err := NewEngine(DefaultConfig())
	if err != nil {
		// DefaultConfig is validated by tests; reaching this is a programming error.
		panic(err)
	}
	return e
}

// Advance runs one timer tick: clear the previous redraw, freeze and respawn on
// collision, move the piece down one row and redraw it.
func (e *GameEngine) Advance() TickResult {
	gs := e.state
	if gs.Ended {
		return TickResult{Skipped: true}
	}

	var result TickResult
	gs.Ticks++
	gs.ClearActive()

	if gs.Collides() {
		gs.Freeze()
		gs.Piece = spawnPiece(e.shapes, e.policy)
		gs.Pieces++
		result.Frozen = true

		if gs.Collides() {
			gs.Ended = true
			result.GameOver = true
			return result
		}
	}

	gs.Piece.X++
	gs.Draw()

	return result
}

// Shift moves the falling piece. It does nothing once the game is over.
func (e *GameEngine) Shift(dir Direction) bool {
	if e.state.Ended {
		return false
	}
	return e.state.ShiftPiece(dir)
}

// HandleKey maps a key code to a shift. Unknown codes and keys pressed after
// game over are ignored and report false.
func (e *GameEngine) HandleKey(code string) (Direction, bool) {
	dir, ok := DirectionForKey(code)
	if !ok || e.state.Ended {
		return "", false
	}
	e.Shift(dir)
	return dir, true
}

// Reset starts a fresh game with the same configuration
func (e *GameEngine) Reset() {
	e.policy.Reset()
	state, _, err := InitGameStateFromConfig(e.config, e.policy)
	if err != nil {
		// The config was validated in NewEngine and shapes have not changed.
		panic(err)
	}
	e.state = state
}

// GetState returns the live game state. Callers must not retain it across
// calls on another goroutine.
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// Snapshot copies the current state for rendering
func (e *GameEngine) Snapshot() *Snapshot {
	gs := e.state
	message := e.config.Messages.Running
	if gs.Ended {
		message = e.config.Messages.GameOver
	}
	return &Snapshot{
		ConfigName: e.config.Name,
		Width:      gs.Grid.Width,
		Height:     gs.Grid.Height,
		Cells:      gs.Grid.Rows(),
		Piece:      gs.Piece,
		Ended:      gs.Ended,
		Ticks:      gs.Ticks,
		Pieces:     gs.Pieces,
		Message:    message,
	}
}

// IsGameOver returns whether the game is over
func (e *GameEngine) IsGameOver() bool {
	return e.state.Ended
}

// GetPiece returns the falling piece
func (e *GameEngine) GetPiece() Piece {
	return e.state.Piece
}

// Ticks returns how many live ticks have run
func (e *GameEngine) Ticks() int {
	return e.state.Ticks
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// GetShapes returns the parsed shape table
func (e *GameEngine) GetShapes() []Shape {
	return e.shapes
}

// RunUntilGameOver advances until the game ends or limit ticks have run and
// returns the number of ticks executed.
func (e *GameEngine) RunUntilGameOver(limit int) int {
	n := 0
	for n < limit && !e.state.Ended {
		e.Advance()
		n++
	}
	return n
}
