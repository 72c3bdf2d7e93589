package engine

import (
	"testing"
)

// createTestConfig returns the classic rules with manual combat ticks and a fixed seed
func createTestConfig() *GameConfig {
	config := DefaultConfig()
	config.Name = "engine-test"
	config.CombatIntervalMs = 0
	config.Seed = 42
	return config
}

var glyphItems = map[byte]ItemKind{
	'a': AttackBoost,
	'A': AttackSuperBoost,
	'd': DefenseBoost,
	'h': HealthBoost,
	's': SpeedBoost,
}

// boardFromRows builds a board from text rows: '#' obstacle, '1'/'2'
// players, item letters as rendered by Board.String, '.' empty
func boardFromRows(t *testing.T, rows []string) *Board {
	t.Helper()
	board, err := NewBoard(len(rows))
	if err != nil {
		t.Fatalf("Failed to create board: %v", err)
	}
	for r, line := range rows {
		if len(line) != len(rows) {
			t.Fatalf("row %d has %d cells, want %d", r, len(line), len(rows))
		}
		for c := 0; c < len(line); c++ {
			pos := Position{Row: r, Col: c}
			var tag Tag
			switch ch := line[c]; {
			case ch == '.':
				continue
			case ch == '#':
				tag = ObstacleTag()
			case ch == '*':
				tag = HighlightTag()
			case ch == '1' || ch == '2':
				tag = PlayerTag(PlayerID(ch - '1'))
			case glyphItems[ch] != NoItem:
				tag = ItemTag(glyphItems[ch])
			default:
				t.Fatalf("unknown glyph %q", ch)
			}
			if err := board.Place(pos, tag); err != nil {
				t.Fatalf("Failed to place %s at %s: %v", tag, pos, err)
			}
		}
	}
	return board
}

// arrangeGame starts a game and swaps its board for the given rows,
// with the first player to move
func arrangeGame(t *testing.T, config *GameConfig, rows []string) *Game {
	t.Helper()
	config.BoardSize = len(rows)
	game, err := NewGame(config, NewRand(7))
	if err != nil {
		t.Fatalf("Failed to create game: %v", err)
	}
	if err := game.Start(); err != nil {
		t.Fatalf("Failed to start game: %v", err)
	}

	game.mu.Lock()
	defer game.mu.Unlock()
	game.board = boardFromRows(t, rows)
	for i, p := range game.players {
		pos, ok := game.board.FindPlayer(PlayerID(i))
		if !ok {
			t.Fatalf("layout has no player %d", i+1)
		}
		p.Position = pos
	}
	game.active = PlayerOne
	game.phase = PhaseAwaitingMove
	game.refreshRange()
	game.events.drain()
	return game
}

// rowsWith returns an n x n layout holding only the given glyphs
func rowsWith(n int, marks map[Position]byte) []string {
	rows := make([]string, n)
	for i := range rows {
		b := make([]byte, n)
		for j := range b {
			b[j] = '.'
			if g, ok := marks[Position{Row: i, Col: j}]; ok {
				b[j] = g
			}
		}
		rows[i] = string(b)
	}
	return rows
}

// recorder collects delivered events
type recorder struct {
	events []Event
}

func (r *recorder) sink() EventSink {
	return func(ev Event) { r.events = append(r.events, ev) }
}

func (r *recorder) count(t EventType) int {
	n := 0
	for _, ev := range r.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}
