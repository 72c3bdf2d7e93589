// Package websocket provides WebSocket transport for the skirmish game.
//
// The websocket package implements:
//   - Session-scoped subscriptions
//   - Fan-out of every engine event, including timer-driven combat ticks
//   - Connection lifecycle management with pings and deadlines
//   - Eviction of clients that cannot keep up
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. The Hub's Run goroutine owns the subscription map;
// each client connection has a read and a write goroutine.
//
// Message Protocol:
//
// Clients connect to /ws?session=ID and only listen. Every message is a JSON
// object:
//
//	{"session_id": "ab12", "event": "combat_tick", "payload": {...}}
//
// The first message after connecting is a "snapshot" carrying the current
// game state in "data". After that, "event" is the engine event type
// (cells_initialized, tag_changed, stats_changed, combat_tick, game_over,
// highlight_changed, turn_changed) and "payload" is the engine.Event.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	defer hub.Stop()
//
//	manager := session.NewManager(hub)
package websocket
