// Package mcp exposes the skirmish REST API as Model Context Protocol tools.
//
// The Client is a thin proxy: every tool call becomes one or two REST
// requests and the JSON answer is formatted as text for the agent.
//
// MCP Tools:
//   - create_session, get_session, list_sessions: session management
//   - game_state: board view, player stats, matchup and phase
//   - move_range: cells the active player may move to
//   - move: move the active player to (row, col)
//   - combat_tick: resolve one combat exchange on manually driven configs
//   - restart_game: start a new round after game over
//   - move_history: paginated move history
//   - list_configs: available configurations
//   - game_instructions: the full rules
//   - describe_cell: contents of a single cell
//
// Transport Modes:
//   - Stdio: GetMCPServer is served with server.ServeStdio
//   - HTTP: the main server forwards POST /mcp bodies to HandleMessage
package mcp
