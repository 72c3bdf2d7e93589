package engine

import "github.com/zyedidia/generic/mapset"

// Range returns the cells reachable from pos with the given speed. Each
// direction is walked independently and stops at the edge or the first
// obstacle; the obstacle itself is not included.
func Range(b *Board, from Position, speed int) []Position {
	reachable := []Position{}
	for _, d := range directions {
		pos := from
		for step := 1; step <= speed; step++ {
			pos = pos.Add(d)
			if !b.InBounds(pos) || b.cells[pos.Row][pos.Col].Obstacle {
				break
			}
			reachable = append(reachable, pos)
		}
	}
	return reachable
}

// RangeSet returns Range as a set for membership checks
func RangeSet(b *Board, from Position, speed int) mapset.Set[Position] {
	set := mapset.New[Position]()
	for _, pos := range Range(b, from, speed) {
		set.Put(pos)
	}
	return set
}

// AdjacentTo reports whether any orthogonal neighbour of pos holds player id
func AdjacentTo(b *Board, pos Position, id PlayerID) bool {
	for _, n := range b.Neighbors(pos) {
		if b.cells[n.Row][n.Col].Player == id {
			return true
		}
	}
	return false
}

// Direction names the cardinal direction from one position to another in
// a straight line, or "" when they are not aligned.
func Direction(from, to Position) string {
	switch {
	case from.Col == to.Col && to.Row < from.Row:
		return DirectionNames[0]
	case from.Row == to.Row && to.Col > from.Col:
		return DirectionNames[1]
	case from.Col == to.Col && to.Row > from.Row:
		return DirectionNames[2]
	case from.Row == to.Row && to.Col < from.Col:
		return DirectionNames[3]
	}
	return ""
}
