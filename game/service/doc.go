// Package service provides the business logic layer for the falling-block game.
//
// The service package implements:
//   - Multi-session game management
//   - Configuration loading, listing and saving
//   - Key delivery and manual ticking
//   - Session lifecycle management
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns a runner goroutine that is the only code
// touching its engine; the service talks to it by sending events and waiting for
// the reply, so calls from many transports never race.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	// Create a timer-driven session
//	sessionInfo, err := gameService.CreateSession(ctx, "classic", false)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Shift the falling piece
//	result, err := gameService.PressKey(ctx, sessionInfo.ID, "ArrowLeft")
//
// Manual Sessions:
//
// Sessions created with manual=true, or from a config whose tick_interval_ms
// is 0, have no timer. Agents advance them with Tick, which runs up to
// engine.MaxBulkTicks ticks per call and stops early at game over.
package service
