package main

import (
	"github.com/wricardo/skirmish/game/engine"
	"github.com/wricardo/skirmish/game/service"
)

// itemValue ranks pickups for the greedy strategy
var itemValue = map[engine.ItemKind]int{
	engine.AttackSuperBoost: 5,
	engine.AttackBoost:      4,
	engine.DefenseBoost:     3,
	engine.HealthBoost:      2,
	engine.SpeedBoost:       1,
}

// Favored reports whether me wins a fight in which it strikes first
func Favored(me, them engine.Stats) bool {
	mine := engine.ExchangesToDefeat(me, them)
	theirs := engine.ExchangesToDefeat(them, me)
	return mine >= 0 && (theirs < 0 || mine <= theirs)
}

// GreedyStrategy engages when the matchup is favored and otherwise collects
// items while keeping out of the opponent's reach.
type GreedyStrategy struct{}

// NextMove picks a target cell for the active player. It returns false when
// the game is not awaiting a move or no legal cell is highlighted.
func (GreedyStrategy) NextMove(state *service.GameState) (engine.Position, bool) {
	if state == nil || state.GameSnapshot == nil || state.Phase != engine.PhaseAwaitingMove || len(state.Players) != 2 {
		return engine.Position{}, false
	}

	me := state.Players[state.ActivePlayer]
	them := state.Players[state.ActivePlayer.Opponent()]

	var candidates []engine.Position
	for _, pos := range state.Highlights {
		if pos != them.Position {
			candidates = append(candidates, pos)
		}
	}
	if len(candidates) == 0 {
		return engine.Position{}, false
	}

	favored := Favored(me.Stats, them.Stats)
	if favored {
		for _, pos := range candidates {
			if engine.ManhattanDistance(pos, them.Position) == 1 {
				return pos, true
			}
		}
	}

	// Ending next to the opponent starts a fight we would lose
	safe := func(pos engine.Position) bool {
		return favored || engine.ManhattanDistance(pos, them.Position) > 1
	}

	best, bestValue := engine.Position{}, 0
	for _, pos := range candidates {
		if !safe(pos) {
			continue
		}
		if v := itemValue[state.Cells[pos.Row][pos.Col].Item]; v > bestValue {
			best, bestValue = pos, v
		}
	}
	if bestValue > 0 {
		return best, true
	}

	target := them.Position
	if item, _, _, ok := engine.FindNearestItem(state.Cells, me.Position); ok && !favored {
		target = item
	}

	best, bestDistance := candidates[0], -1
	for _, pos := range candidates {
		if !safe(pos) {
			continue
		}
		if d := engine.ManhattanDistance(pos, target); bestDistance < 0 || d < bestDistance {
			best, bestDistance = pos, d
		}
	}
	return best, true
}
