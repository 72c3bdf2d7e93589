// Package api provides HTTP REST API handlers for the skirmish server.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session ({"config_id": "classic"})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Snapshot with board view and matchup
//   - GET /api/sessions/{id}/range - Cells the active player may move to
//   - POST /api/sessions/{id}/move - Move the active player ({"row": 3, "col": 4})
//   - POST /api/sessions/{id}/tick - Resolve one combat exchange
//   - POST /api/sessions/{id}/restart - Start a new round after game over
//   - GET /api/sessions/{id}/history - Paginated move history (?page&limit&order)
//
// Configuration:
//   - GET /api/configs - List available configurations
//   - POST /api/configs - Save a configuration (JSON, or YAML by Content-Type)
//   - GET /api/configs/{name} - Fetch a configuration (?format=yaml)
//
// Errors are returned as {"error": "...", "code": N}. Unknown sessions and
// configs give 404, invalid configs 400, and moves, ticks or restarts the
// rules reject give 409. A rejected move still returns the MoveResult body
// with success=false and an error_code.
//
// GET /ws?session={id} upgrades to a WebSocket that first receives a
// "snapshot" message and then every engine event of the session.
package api
