// Package engine provides the core simulation for the falling-block game.
//
// The engine package implements:
//   - A fixed-size grid of cell tags (empty, settled, active)
//   - A single falling piece described by a 4x4 shape mask
//   - One-row-ahead collision detection against the floor and settled blocks
//   - Freezing, respawning, and the one-way transition to game over
//   - Configuration loading and validation
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState holds the grid, the falling piece and
// the ended flag; Snapshot is the read-only copy handed to renderers.
// GameConfig describes board size, tick cadence and the shape table.
//
// Usage:
//
//	gameEngine, err := engine.NewEngine(engine.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine.Advance()              // one timer tick
//	gameEngine.HandleKey("ArrowLeft") // one key press
//	snap := gameEngine.Snapshot()
//
// Game Rules:
//
// Every tick the piece falls one row. Before it moves, the engine checks
// whether any occupied cell would land on the row above the floor or on a
// settled block; if so the piece is frozen in place and a new one spawns at the
// top. A spawn that collides immediately ends the game, after which the engine
// ignores further ticks and keys. Pieces projecting past the right edge are
// clipped rather than rejected.
//
// A GameEngine has no internal locking. Callers deliver ticks and keys from a
// single goroutine, see package runner.
package engine
