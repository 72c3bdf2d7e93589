package service

import (
	"context"
	"time"

	"github.com/wricardo/skirmish/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	SubmitMove(ctx context.Context, sessionID string, target engine.Position) (*MoveResult, error)
	CombatTick(ctx context.Context, sessionID string) (*TickResult, error)
	Restart(ctx context.Context, sessionID string) (*GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*GameState, error)
	GetRange(ctx context.Context, sessionID string) (*RangeInfo, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.GameConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// EventPublisher receives every event raised by a session's game, including
// combat ticks fired by the game's own timer
type EventPublisher interface {
	Publish(sessionID string, ev engine.Event)
}

// Session represents an active game session
type Session struct {
	ID             string
	Game           *engine.Game
	Config         *engine.GameConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
