package engine

import (
	"fmt"
	"strings"
)

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	return abs(from.Row-to.Row) + abs(from.Col-to.Col)
}

// CountItems counts the items of each kind left on the grid
func CountItems(cells [][]Cell) map[ItemKind]int {
	counts := make(map[ItemKind]int)
	for _, row := range cells {
		for _, cell := range row {
			if cell.Item != NoItem {
				counts[cell.Item]++
			}
		}
	}
	return counts
}

// FindNearestItem finds the closest item and returns its position, kind and distance
func FindNearestItem(cells [][]Cell, from Position) (Position, ItemKind, int, bool) {
	minDistance := -1
	var nearestPos Position
	var kind ItemKind
	found := false

	for _, row := range cells {
		for _, cell := range row {
			if cell.Item == NoItem {
				continue
			}
			distance := ManhattanDistance(from, cell.Position())
			if minDistance == -1 || distance < minDistance {
				minDistance = distance
				nearestPos = cell.Position()
				kind = cell.Item
				found = true
			}
		}
	}

	return nearestPos, kind, minDistance, found
}

// ExchangesToDefeat returns how many hits attacker needs to bring defender's
// health to zero, or -1 when attacker cannot hurt defender.
func ExchangesToDefeat(attacker, defender Stats) int {
	damage := Damage(attacker, defender)
	if damage <= 0 {
		return -1
	}
	if defender.Health <= 0 {
		return 0
	}
	return (defender.Health + damage - 1) / damage
}

// AnalyzeMatchup assesses how a fight would go if it started now with
// active striking first
func AnalyzeMatchup(snap *GameSnapshot) string {
	if len(snap.Players) != 2 {
		return "UNKNOWN: game not started"
	}
	if snap.Phase == PhaseGameOver {
		return "OVER: " + snap.Winner + " won"
	}

	me := snap.Players[snap.ActivePlayer]
	them := snap.Players[snap.ActivePlayer.Opponent()]
	mine := ExchangesToDefeat(me.Stats, them.Stats)
	theirs := ExchangesToDefeat(them.Stats, me.Stats)

	switch {
	case mine < 0 && theirs < 0:
		return "STALEMATE: neither side can deal damage"
	case mine < 0:
		return "DANGER: " + me.Name + " cannot hurt " + them.Name
	case theirs < 0 || mine <= theirs:
		return "FAVORED: " + me.Name + " wins an exchange started now"
	}
	return "UNFAVORED: " + them.Name + " wins an exchange started now"
}

// RenderCells draws cells one string per row, using the same glyphs as Board.String
func RenderCells(cells [][]Cell) []string {
	rows := make([]string, len(cells))
	for i, row := range cells {
		buf := make([]byte, len(row))
		for j, cell := range row {
			buf[j] = cellGlyph(cell)
		}
		rows[i] = string(buf)
	}
	return rows
}

// DescribeCell explains a cell in words
func DescribeCell(cell Cell, players []PlayerView) string {
	var parts []string
	if cell.Obstacle {
		parts = append(parts, "obstacle (impassable, blocks range)")
	}
	if cell.Player != NoPlayer {
		name := fmt.Sprintf("player %d", cell.Player+1)
		for _, p := range players {
			if p.ID == cell.Player {
				name = p.Name
			}
		}
		parts = append(parts, "occupied by "+name)
	}
	if cell.Item != NoItem {
		parts = append(parts, fmt.Sprintf("item %s (%c)", cell.Item, itemGlyphs[cell.Item]))
	}
	if cell.Highlighted {
		parts = append(parts, "in range of the active player")
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%s: empty", cell.Position())
	}
	return fmt.Sprintf("%s: %s", cell.Position(), strings.Join(parts, ", "))
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
