package engine

// EventType names a state change emitted by a Game
type EventType string

const (
	EventCellsInitialized EventType = "cells_initialized"
	EventTagChanged       EventType = "tag_changed"
	EventStatsChanged     EventType = "stats_changed"
	EventCombatTick       EventType = "combat_tick"
	EventGameOver         EventType = "game_over"
	EventHighlightChanged EventType = "highlight_changed"
	EventTurnChanged      EventType = "turn_changed"
)

// Event is a single state change, in a form transports can serialize
type Event struct {
	Type       EventType  `json:"type"`
	Cells      [][]Cell   `json:"cells,omitempty"`
	Position   *Position  `json:"position,omitempty"`
	Tag        *Tag       `json:"tag,omitempty"`
	Added      bool       `json:"added,omitempty"`
	Player     PlayerID   `json:"player"`
	Stats      *Stats     `json:"stats,omitempty"`
	Winner     string     `json:"winner,omitempty"`
	Highlights []Position `json:"highlights,omitempty"`
	Phase      Phase      `json:"phase,omitempty"`
}

// Listener receives game state changes. Callbacks run after the game has
// released its lock, so they may call back into the game.
type Listener interface {
	OnCellsInitialized(cells [][]Cell)
	OnTagChanged(pos Position, tag Tag, added bool)
	OnStatsChanged(id PlayerID, stats Stats)
	OnCombatTick(id PlayerID, stats Stats)
	OnGameOver(winner string)
	OnHighlightChanged(positions []Position)
	OnTurnChanged(active PlayerID, phase Phase)
}

// EventSink adapts a func receiving Event values to the Listener interface
type EventSink func(Event)

func (f EventSink) OnCellsInitialized(cells [][]Cell) {
	f(Event{Type: EventCellsInitialized, Cells: cells, Player: NoPlayer})
}

func (f EventSink) OnTagChanged(pos Position, tag Tag, added bool) {
	f(Event{Type: EventTagChanged, Position: &pos, Tag: &tag, Added: added, Player: NoPlayer})
}

func (f EventSink) OnStatsChanged(id PlayerID, stats Stats) {
	f(Event{Type: EventStatsChanged, Player: id, Stats: &stats})
}

func (f EventSink) OnCombatTick(id PlayerID, stats Stats) {
	f(Event{Type: EventCombatTick, Player: id, Stats: &stats})
}

func (f EventSink) OnGameOver(winner string) {
	f(Event{Type: EventGameOver, Winner: winner, Player: NoPlayer})
}

func (f EventSink) OnHighlightChanged(positions []Position) {
	f(Event{Type: EventHighlightChanged, Highlights: positions, Player: NoPlayer})
}

func (f EventSink) OnTurnChanged(active PlayerID, phase Phase) {
	f(Event{Type: EventTurnChanged, Player: active, Phase: phase})
}

// Deliver routes ev to the matching Listener callback
func (ev Event) Deliver(l Listener) {
	switch ev.Type {
	case EventCellsInitialized:
		l.OnCellsInitialized(ev.Cells)
	case EventTagChanged:
		l.OnTagChanged(*ev.Position, *ev.Tag, ev.Added)
	case EventStatsChanged:
		l.OnStatsChanged(ev.Player, *ev.Stats)
	case EventCombatTick:
		l.OnCombatTick(ev.Player, *ev.Stats)
	case EventGameOver:
		l.OnGameOver(ev.Winner)
	case EventHighlightChanged:
		l.OnHighlightChanged(ev.Highlights)
	case EventTurnChanged:
		l.OnTurnChanged(ev.Player, ev.Phase)
	}
}

// eventQueue buffers events raised during a transition
type eventQueue []Event

func (q *eventQueue) cellsInitialized(cells [][]Cell) {
	*q = append(*q, Event{Type: EventCellsInitialized, Cells: cells, Player: NoPlayer})
}

func (q *eventQueue) tagChanged(pos Position, tag Tag, added bool) {
	*q = append(*q, Event{Type: EventTagChanged, Position: &pos, Tag: &tag, Added: added, Player: NoPlayer})
}

func (q *eventQueue) statsChanged(id PlayerID, stats Stats) {
	stats = stats.Display()
	*q = append(*q, Event{Type: EventStatsChanged, Player: id, Stats: &stats})
}

func (q *eventQueue) combatTick(id PlayerID, stats Stats) {
	stats = stats.Display()
	*q = append(*q, Event{Type: EventCombatTick, Player: id, Stats: &stats})
}

func (q *eventQueue) gameOver(winner string) {
	*q = append(*q, Event{Type: EventGameOver, Winner: winner, Player: NoPlayer})
}

func (q *eventQueue) highlightChanged(positions []Position) {
	if positions == nil {
		positions = []Position{}
	}
	*q = append(*q, Event{Type: EventHighlightChanged, Highlights: positions, Player: NoPlayer})
}

func (q *eventQueue) turnChanged(active PlayerID, phase Phase) {
	*q = append(*q, Event{Type: EventTurnChanged, Player: active, Phase: phase})
}

// drain returns the buffered events and empties the queue
func (q *eventQueue) drain() []Event {
	events := *q
	*q = nil
	return events
}
