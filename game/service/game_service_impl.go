package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/wricardo/skirmish/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	// Fallback: return as-is or "default"
	if configName == "" {
		return "default"
	}
	return configName
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Load configuration
	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: config '%s' not found. Available configs: %v", ErrNotFound, configName, configIDs)
				}
				return nil, fmt.Errorf("%w: config '%s' not found. Use /api/configs to list available configurations", ErrNotFound, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     configID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      buildGameState(session.Game),
		GameConfig:     session.Config,
	}, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     s.getConfigID(session.Config.Name),
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      buildGameState(session.Game),
		GameConfig:     session.Config,
	}, nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, &SessionInfo{
			ID:             sess.ID,
			ConfigName:     s.getConfigID(sess.Config.Name),
			CreatedAt:      sess.CreatedAt,
			LastAccessedAt: sess.LastAccessedAt,
			GameState:      buildGameState(sess.Game),
			GameConfig:     sess.Config,
		})
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return nil
}

// SubmitMove moves the active player of a session to target. Moves the
// rules reject come back as an unsuccessful result, not an error.
func (s *gameServiceImpl) SubmitMove(ctx context.Context, sessionID string, target engine.Position) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	outcome, err := sess.Game.SubmitMove(target)
	state := buildGameState(sess.Game)
	if err != nil {
		return &MoveResult{
			Success:   false,
			GameState: state,
			Message:   err.Error(),
			To:        target,
			ErrorCode: moveErrorCode(err, state.Phase),
		}, nil
	}

	result := &MoveResult{
		Success:       true,
		GameState:     state,
		Message:       state.Message,
		Events:        outcome.Events,
		From:          outcome.From,
		To:            outcome.To,
		Pickup:        outcome.Pickup,
		CombatStarted: outcome.CombatStarted,
	}
	if outcome.Pickup != nil {
		result.Message = fmt.Sprintf("Picked up %s (%d). %s", outcome.Pickup.Kind, outcome.Pickup.Effect, state.Message)
	}

	return result, nil
}

// CombatTick runs one combat exchange by hand
func (s *gameServiceImpl) CombatTick(ctx context.Context, sessionID string) (*TickResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	tick, err := sess.Game.CombatTick()
	if err != nil {
		return nil, err
	}

	state := buildGameState(sess.Game)
	return &TickResult{
		Tick:      tick,
		GameState: state,
		Message:   fmt.Sprintf("Player %d hits for %d. %s", tick.Attacker+1, tick.Damage, state.Message),
	}, nil
}

// Restart starts a new round on a finished game
func (s *gameServiceImpl) Restart(ctx context.Context, sessionID string) (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	if err := sess.Game.Restart(); err != nil {
		return nil, err
	}
	return buildGameState(sess.Game), nil
}

// GetGameState returns the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return buildGameState(sess.Game), nil
}

// GetRange returns the cells the active player may move to
func (s *gameServiceImpl) GetRange(ctx context.Context, sessionID string) (*RangeInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	snap := sess.Game.Snapshot()
	info := &RangeInfo{
		Player: snap.ActivePlayer,
		Phase:  snap.Phase,
		Cells:  snap.Highlights,
	}
	if len(snap.Players) == 2 {
		active := snap.Players[snap.ActivePlayer]
		info.Name = active.Name
		info.From = active.Position
		info.Speed = active.Stats.Speed
		info.Opponent = snap.Players[snap.ActivePlayer.Opponent()].Position
	}
	if info.Cells == nil {
		info.Cells = []engine.Position{}
	}
	return info, nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Game.GetMoveHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var moves []engine.MoveHistoryEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = history[start:end]
	}

	if moves == nil {
		moves = []engine.MoveHistoryEntry{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	config, err := s.configs.LoadConfig(configName)
	if err != nil && strings.Contains(err.Error(), "configuration not found") {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return config, err
}

// SaveConfig validates and saves a configuration
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(config); err != nil {
		return err
	}
	return s.configs.SaveConfig(configName, config)
}

// getSession looks a session up and marks it as accessed
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, sessionID, err)
	}
	_ = s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// moveErrorCode maps a rejected move to a machine-friendly code
func moveErrorCode(err error, phase engine.Phase) string {
	switch {
	case phase != engine.PhaseAwaitingMove:
		return CodeNotAccepting
	case errors.Is(err, engine.ErrOutOfBounds):
		return CodeOutOfBounds
	case errors.Is(err, engine.ErrCellOccupied):
		return CodeOccupied
	}
	return CodeIllegalMove
}

// buildGameState snapshots a game and adds decision aids
func buildGameState(game *engine.Game) *GameState {
	snap := game.Snapshot()
	state := &GameState{
		GameSnapshot: snap,
		Message:      stateMessage(snap),
		BoardView:    engine.RenderCells(snap.Cells),
		ItemsLeft:    engine.CountItems(snap.Cells),
	}
	if len(snap.Players) != 2 {
		return state
	}

	state.Matchup = engine.AnalyzeMatchup(snap)
	if snap.Phase == engine.PhaseAwaitingMove {
		active := snap.Players[snap.ActivePlayer]
		if pos, _, _, ok := engine.FindNearestItem(snap.Cells, active.Position); ok {
			state.NearestItem = &pos
		}
	}
	return state
}

func stateMessage(snap *engine.GameSnapshot) string {
	if len(snap.Players) != 2 {
		return "Game not started"
	}
	active := snap.Players[snap.ActivePlayer]
	switch snap.Phase {
	case engine.PhaseAwaitingMove:
		return fmt.Sprintf("%s to move (speed %d, %d cells in range)", active.Name, active.Stats.Speed, len(snap.Highlights))
	case engine.PhaseCombat:
		return fmt.Sprintf("Combat! %s strikes next", snap.Players[snap.ActivePlayer.Opponent()].Name)
	case engine.PhaseGameOver:
		return fmt.Sprintf("Game over. %s wins! Restart to play again", snap.Winner)
	}
	return "Game not started"
}
