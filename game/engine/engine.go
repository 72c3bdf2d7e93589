package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zyedidia/generic/mapset"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Lifecycle
	Start() error
	Restart() error
	Close()

	// Input
	SubmitMove(pos Position) (*MoveOutcome, error)
	CombatTick() (*TickOutcome, error)

	// State
	Snapshot() *GameSnapshot
	Phase() Phase
	ActivePlayer() PlayerID
	Range() []Position
	GameID() string

	// Configuration
	GetConfig() *GameConfig

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry

	// Listeners
	AddListener(l Listener)
}

// Game implements the Engine interface. All transitions run under one lock;
// events raised by a transition are delivered to listeners after the lock
// is released.
type Game struct {
	mu sync.Mutex

	config *GameConfig
	rng    RandSource

	id        string
	board     *Board
	players   [2]*PlayerState
	active    PlayerID
	phase     Phase
	winner    PlayerID
	reach     []Position
	reachSet  mapset.Set[Position]
	placement PlacementStats

	combat    *RepeatingTask
	combatGen int

	round        int
	history      []MoveHistoryEntry
	currentMoves int

	events    eventQueue
	listeners []Listener
}

// NewGame creates an idle game. A nil rng seeds one from config.Seed.
func NewGame(config *GameConfig, rng RandSource) (*Game, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewRand(config.Seed)
	}

	return &Game{
		config:  config.Clone(),
		rng:     rng,
		phase:   PhaseIdle,
		active:  PlayerOne,
		winner:  NoPlayer,
		history: []MoveHistoryEntry{},
	}, nil
}

// NewGameWithDefaults creates an idle game with the classic configuration
func NewGameWithDefaults() *Game {
	game, err := NewGame(DefaultConfig(), nil)
	if err != nil {
		panic(fmt.Sprintf("default config is invalid: %v", err))
	}
	return game
}

// AddListener registers a listener for state changes
func (g *Game) AddListener(l Listener) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.listeners = append(g.listeners, l)
}

// commit releases the lock and delivers the events raised under it
func (g *Game) commit() []Event {
	events := g.events.drain()
	listeners := append([]Listener(nil), g.listeners...)
	g.mu.Unlock()

	for _, ev := range events {
		for _, l := range listeners {
			ev.Deliver(l)
		}
	}
	return events
}

// Start places the board and hands the first turn to the first player
func (g *Game) Start() error {
	g.mu.Lock()
	if g.phase != PhaseIdle {
		phase := g.phase
		g.mu.Unlock()
		return fmt.Errorf("%w: game already started (%s)", ErrIllegalMove, phase)
	}
	err := g.setup()
	g.commit()
	return err
}

// Restart discards the finished game and sets up a fresh one
func (g *Game) Restart() error {
	g.mu.Lock()
	if g.phase != PhaseGameOver {
		phase := g.phase
		g.mu.Unlock()
		return fmt.Errorf("%w: game is %s", ErrIllegalRestart, phase)
	}
	g.stopCombat()
	err := g.setup()
	g.commit()
	return err
}

// setup runs placement and resets players. State is only replaced when
// placement succeeds.
func (g *Game) setup() error {
	layout, err := Populate(g.config, g.rng)
	if err != nil {
		return err
	}

	g.board = layout.Board
	g.placement = layout.Stats
	for i, pc := range g.config.Players {
		id := PlayerID(i)
		g.players[i] = &PlayerState{
			ID:       id,
			Name:     pc.Name,
			Position: layout.Players[i],
			Stats:    g.config.StartingStats,
			Home:     g.config.HomeFor(id),
		}
	}

	g.id = uuid.NewString()
	g.active = PlayerOne
	g.phase = PhaseAwaitingMove
	g.winner = NoPlayer
	g.round++
	g.currentMoves = 0

	g.events.cellsInitialized(g.board.Cells())
	for _, p := range g.players {
		g.events.statsChanged(p.ID, p.Stats)
	}
	g.events.turnChanged(g.active, g.phase)
	g.refreshRange()
	return nil
}

// refreshRange recomputes the active player's range and moves the highlights
func (g *Game) refreshRange() {
	g.board.ClearHighlights()
	p := g.players[g.active]
	g.reach = Range(g.board, p.Position, p.Stats.Speed)
	g.reachSet = RangeSet(g.board, p.Position, p.Stats.Speed)
	for _, pos := range g.reach {
		// range cells never hold obstacles, so this cannot conflict
		_ = g.board.Place(pos, HighlightTag())
	}
	g.events.highlightChanged(append([]Position(nil), g.reach...))
}

func (g *Game) clearRange() {
	g.board.ClearHighlights()
	g.reach = nil
	g.reachSet = mapset.New[Position]()
	g.events.highlightChanged(nil)
}

func (g *Game) inRange(pos Position) bool {
	return g.reachSet.Has(pos)
}

// SubmitMove moves the active player to pos
func (g *Game) SubmitMove(pos Position) (*MoveOutcome, error) {
	g.mu.Lock()
	outcome, err := g.move(pos)
	events := g.commit()
	if outcome != nil {
		outcome.Events = events
	}
	return outcome, err
}

func (g *Game) move(pos Position) (*MoveOutcome, error) {
	if g.phase != PhaseAwaitingMove {
		return nil, fmt.Errorf("%w: game is %s", ErrIllegalMove, g.phase)
	}
	if !g.board.InBounds(pos) {
		return nil, fmt.Errorf("%w: %s is off the board", ErrOutOfBounds, pos)
	}

	mover := g.players[g.active]
	from := mover.Position
	if pos == from {
		return nil, fmt.Errorf("%w: %s already stands on %s", ErrIllegalMove, mover.Name, pos)
	}
	if !g.config.LenientMoves && !g.inRange(pos) {
		return nil, fmt.Errorf("%w: %s is out of range for %s", ErrIllegalMove, pos, mover.Name)
	}

	// 1. move the tag; Place rejects obstacles and the opponent's cell
	if err := g.board.Place(pos, PlayerTag(mover.ID)); err != nil {
		return nil, err
	}
	_ = g.board.Remove(from, PlayerTag(mover.ID))
	mover.Position = pos
	g.events.tagChanged(from, PlayerTag(mover.ID), false)
	g.events.tagChanged(pos, PlayerTag(mover.ID), true)

	outcome := &MoveOutcome{Player: mover.ID, From: from, To: pos}

	// 2. pickup
	cell := g.board.cells[pos.Row][pos.Col]
	if cell.Item != NoItem {
		spec, ok := g.config.Item(cell.Item)
		if !ok {
			spec = ItemSpec{Kind: cell.Item}
		}
		_ = g.board.Remove(pos, ItemTag(cell.Item))
		spec.Apply(&mover.Stats)
		outcome.Pickup = &spec
		g.events.tagChanged(pos, ItemTag(cell.Item), false)
		g.events.statsChanged(mover.ID, mover.Stats)
	}

	// 3. adjacency
	opponent := mover.ID.Opponent()
	outcome.CombatStarted = AdjacentTo(g.board, pos, opponent)
	g.recordMove(outcome)

	if outcome.CombatStarted {
		g.startCombat()
	} else {
		g.active = opponent
		g.events.turnChanged(g.active, g.phase)
		g.refreshRange()
	}

	return outcome, nil
}

func (g *Game) recordMove(outcome *MoveOutcome) {
	entry := MoveHistoryEntry{
		MoveNumber:    len(g.history) + 1,
		Round:         g.round,
		Player:        outcome.Player,
		PlayerName:    g.players[outcome.Player].Name,
		FromPosition:  outcome.From,
		ToPosition:    outcome.To,
		CombatStarted: outcome.CombatStarted,
		Timestamp:     time.Now().Unix(),
	}
	if outcome.Pickup != nil {
		entry.Item = outcome.Pickup.Kind
	}
	g.history = append(g.history, entry)
	g.currentMoves++
}

// Close stops any running combat timer
func (g *Game) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopCombat()
}

// Phase returns the current phase
func (g *Game) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// ActivePlayer returns the player whose turn or exchange is next
func (g *Game) ActivePlayer() PlayerID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

// Range returns the active player's reachable cells
func (g *Game) Range() []Position {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Position{}, g.reach...)
}

// GameID returns the id of the current round; it changes on restart
func (g *Game) GameID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.id
}

// Winner returns the winner's name once the game is over
func (g *Game) Winner() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.winnerName()
}

func (g *Game) winnerName() string {
	if g.winner == NoPlayer || g.players[g.winner] == nil {
		return ""
	}
	return g.players[g.winner].Name
}

// Player returns a copy of a player's state with raw (unclamped) health
func (g *Game) Player(id PlayerID) (PlayerState, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if (id != PlayerOne && id != PlayerTwo) || g.players[id] == nil {
		return PlayerState{}, false
	}
	return *g.players[id], true
}

// Board returns a copy of the current cells, or nil before Start
func (g *Game) Board() [][]Cell {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.board == nil {
		return nil
	}
	return g.board.Cells()
}

// GetConfig returns a copy of the game configuration
func (g *Game) GetConfig() *GameConfig {
	return g.config.Clone()
}

// GetMoveHistory returns the complete move history across rounds
func (g *Game) GetMoveHistory() []MoveHistoryEntry {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]MoveHistoryEntry{}, g.history...)
}

// GetLastMove returns the last move made, or nil if no moves
func (g *Game) GetLastMove() *MoveHistoryEntry {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastMove()
}

func (g *Game) lastMove() *MoveHistoryEntry {
	if len(g.history) == 0 {
		return nil
	}
	last := g.history[len(g.history)-1]
	return &last
}

// Snapshot returns a read-only copy of the game state. Health is clamped at zero.
func (g *Game) Snapshot() *GameSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	snap := &GameSnapshot{
		GameID:       g.id,
		ConfigName:   g.config.Name,
		BoardSize:    g.config.BoardSize,
		Players:      []PlayerView{},
		ActivePlayer: g.active,
		Phase:        g.phase,
		Winner:       g.winnerName(),
		Highlights:   append([]Position{}, g.reach...),
		Round:        g.round,
		TotalMoves:   len(g.history),
		CurrentMoves: g.currentMoves,
		Placement:    g.placement,
		LastMove:     g.lastMove(),
	}
	if g.board != nil {
		snap.Cells = g.board.Cells()
	}
	for _, p := range g.players {
		if p == nil {
			continue
		}
		snap.Players = append(snap.Players, PlayerView{
			ID:       p.ID,
			Name:     p.Name,
			Position: p.Position,
			Stats:    p.Stats.Display(),
		})
	}
	return snap
}
