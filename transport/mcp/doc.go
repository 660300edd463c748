// Package mcp exposes the falling-block game to AI agents over the Model
// Context Protocol.
//
// The client is a thin proxy: every tool call becomes a request against the
// REST API, so the MCP server can run next to the HTTP server or in a separate
// stdio process.
//
// MCP Tools:
//   - create_session: Create a session, optionally manual (no timer)
//   - list_sessions / get_session: Session details
//   - game_state: Board as ASCII text plus counters
//   - press_key: Deliver ArrowLeft, ArrowRight or ArrowDown
//   - tick: Advance a session by up to engine.MaxBulkTicks ticks
//   - reset_game: Start over
//   - list_configs: Available configurations
//   - describe_cell: Tag and display class of one cell
//   - game_instructions: Rules for agents
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
