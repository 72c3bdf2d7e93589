// Package session provides session management for the skirmish game.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session lifecycle management, including stopping combat timers
//   - Event forwarding from each game to a publisher
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each service.Session owns a started engine.Game along with metadata like
// creation time and last access time.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs for easy reference, generated from
// cryptographic randomness and retried until unused. IDs are matched
// case-insensitively.
//
// Events:
//
// The manager registers a listener on every game it creates and forwards each
// event to its service.EventPublisher tagged with the session ID. Combat ticks
// fired by a game's own timer travel the same path, so subscribers see them
// without polling.
//
// Usage:
//
//	manager := session.NewManager(hub)
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sessionID)
//	sessions := manager.List()
//
// Cleanup:
//
// Deleting or expiring a session closes its game, which stops any running
// combat timer. Sessions live in memory only.
package session
