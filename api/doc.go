// Package api provides the HTTP REST API and the browser UI for the
// falling-block game.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session ({"config_id": "...", "manual": true})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Stop and remove a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current snapshot
//   - GET /api/sessions/{id}/board - Rendered board (?format=text for ASCII)
//   - POST /api/sessions/{id}/key - Deliver a key code ({"code": "ArrowLeft"})
//   - POST /api/sessions/{id}/tick - Advance a manual game ({"count": 10})
//   - POST /api/sessions/{id}/reset - Start over
//
// Configuration:
//   - GET /api/configs - List available configurations
//   - GET /api/configs/{name} - Get one configuration
//   - POST /api/configs - Validate and save a configuration
//
// Other:
//   - GET /health - Liveness check
//   - GET /ws?session={id} - WebSocket stream of board updates
//   - GET / - Game page, embedded in the binary
//
// Error Handling:
//
// Errors are returned as JSON with the HTTP status code repeated in the body:
//
//	{
//	  "error": "session not found: ...",
//	  "code": 404
//	}
package api
