// Package session provides session management for the falling-block game.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Runner goroutine lifecycle per session
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the session manager that handles all session operations. Each
// session is a service.Session wrapping a runner.Runner, which is the only
// goroutine allowed to touch that session's engine.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference. Custom IDs are accepted
// as long as they contain no spaces, slashes, '?' or '#'. Lookups are
// case-insensitive.
//
// Usage:
//
//	manager := session.NewManager(session.WithPublisher(hub.Publish))
//	defer manager.Close()
//
//	sess, err := manager.Create("", config, false)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	snap, err := sess.Runner.Snapshot(ctx)
//
// Cleanup:
//
// Delete, CleanupExpiredSessions and Close all cancel the runner and wait for
// it to exit before returning.
package session
