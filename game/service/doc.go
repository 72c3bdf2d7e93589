// Package service provides the business logic layer for the skirmish game.
//
// The service package implements:
//   - Multi-session game management
//   - Configuration listing, loading and saving
//   - Move submission and rejection codes
//   - Manual combat ticks for untimed games
//   - Paginated move history
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game configuration loading and validation.
// EventPublisher receives the events each session's game raises.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns its own engine.Game; the service never
// mutates game state except through the engine's operations. Game states
// returned by the service are snapshots enriched with a rendered board, a
// matchup assessment and the nearest item to the active player.
//
// Usage:
//
//	sessionMgr := session.NewManager(hub)
//	configMgr := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.SubmitMove(ctx, info.ID, engine.Position{Row: 2, Col: 3})
//
// Rejected Moves:
//
// A move the rules refuse is not an error: SubmitMove returns a MoveResult with
// Success false and an ErrorCode of illegal_move, cell_occupied, out_of_bounds
// or not_accepting_moves. Errors are reserved for unknown sessions, which wrap
// ErrNotFound.
package service
