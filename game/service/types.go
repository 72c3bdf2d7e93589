package service

import (
	"errors"
	"time"

	"github.com/wricardo/skirmish/game/engine"
)

// ErrNotFound wraps lookups of sessions and configs that do not exist
var ErrNotFound = errors.New("not found")

// Error codes reported in MoveResult.ErrorCode
const (
	CodeIllegalMove  = "illegal_move"
	CodeOccupied     = "cell_occupied"
	CodeOutOfBounds  = "out_of_bounds"
	CodeNotAccepting = "not_accepting_moves"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *GameState         `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// GameState is a game snapshot enriched with decision aids
type GameState struct {
	*engine.GameSnapshot
	Message     string                  `json:"message"`
	Matchup     string                  `json:"matchup,omitempty"`
	BoardView   []string                `json:"board_view,omitempty"`
	NearestItem *engine.Position        `json:"nearest_item,omitempty"`
	ItemsLeft   map[engine.ItemKind]int `json:"items_left,omitempty"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success       bool             `json:"success"`
	GameState     *GameState       `json:"game_state"`
	Message       string           `json:"message"`
	Events        []engine.Event   `json:"events,omitempty"`
	From          engine.Position  `json:"from"`
	To            engine.Position  `json:"to"`
	Pickup        *engine.ItemSpec `json:"pickup,omitempty"`
	CombatStarted bool             `json:"combat_started"`
	ErrorCode     string           `json:"error_code,omitempty"`
}

// TickResult contains the result of a manually driven combat exchange
type TickResult struct {
	Tick      *engine.TickOutcome `json:"tick"`
	GameState *GameState          `json:"game_state"`
	Message   string              `json:"message"`
}

// RangeInfo lists the cells the active player may move to
type RangeInfo struct {
	Player   engine.PlayerID   `json:"player"`
	Name     string            `json:"name"`
	From     engine.Position   `json:"from"`
	Speed    int               `json:"speed"`
	Phase    engine.Phase      `json:"phase"`
	Cells    []engine.Position `json:"cells"`
	Opponent engine.Position   `json:"opponent"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	BoardSize   int    `json:"board_size"`
	Obstacles   int    `json:"obstacles"`
	Items       int    `json:"items"`
}
