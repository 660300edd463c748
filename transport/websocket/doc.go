// Package websocket provides WebSocket transport for the falling-block game.
//
// Architecture:
//
// A central Hub owns every connection. Its Run goroutine is the only code
// touching the client registry; everything else talks to it over channels.
// Each client has a read pump and a write pump goroutine.
//
// Message Protocol:
//
//   - Incoming: {"type": "key", "code": "ArrowLeft"}
//   - Outgoing: Message with the session ID, an event name (state_update,
//     reset, game_over, error), the snapshot and the rendered board
//
// Session Integration:
//
// Clients pick a session with the ?session= query parameter. Hub.Publish has
// the shape of session.Publisher, so runner updates flow straight to the
// session's clients. Broadcasts never block the caller: when the queue is
// full the update is dropped and logged, and the next one repaints the board.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//	hub.SetKeyHandler(func(ctx context.Context, id, code string) error {
//		_, err := gameService.PressKey(ctx, id, code)
//		return err
//	})
//	sessions := session.NewManager(session.WithPublisher(hub.Publish))
package websocket
