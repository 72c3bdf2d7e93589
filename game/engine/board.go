package engine

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"
)

// directions are the four orthogonal steps in walk order: up, right, down, left
var directions = []Position{
	{Row: -1, Col: 0},
	{Row: 0, Col: 1},
	{Row: 1, Col: 0},
	{Row: 0, Col: -1},
}

// DirectionNames matches directions by index
var DirectionNames = []string{"up", "right", "down", "left"}

// Board is an N x N grid of cells with an index of occupied positions
type Board struct {
	size     int
	cells    [][]Cell
	occupied mapset.Set[Position]
}

// NewBoard creates an empty board
func NewBoard(size int) (*Board, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: board size must be positive, got %d", ErrInvalidConfig, size)
	}

	cells := make([][]Cell, size)
	for row := range cells {
		cells[row] = make([]Cell, size)
		for col := range cells[row] {
			cells[row][col] = Cell{Row: row, Col: col, Player: NoPlayer}
		}
	}

	return &Board{
		size:     size,
		cells:    cells,
		occupied: mapset.New[Position](),
	}, nil
}

// Size returns the board edge length
func (b *Board) Size() int {
	return b.size
}

// InBounds reports whether pos lies on the board
func (b *Board) InBounds(pos Position) bool {
	return pos.Row >= 0 && pos.Row < b.size && pos.Col >= 0 && pos.Col < b.size
}

func (b *Board) checkBounds(pos Position) error {
	if !b.InBounds(pos) {
		return fmt.Errorf("%w: %s on %dx%d board", ErrOutOfBounds, pos, b.size, b.size)
	}
	return nil
}

// Cell returns a copy of the cell at pos
func (b *Board) Cell(pos Position) (Cell, error) {
	if err := b.checkBounds(pos); err != nil {
		return Cell{}, err
	}
	return b.cells[pos.Row][pos.Col], nil
}

// IsOccupied reports whether pos holds an obstacle, an item or a player.
// Positions off the board are never occupied.
func (b *Board) IsOccupied(pos Position) bool {
	return b.occupied.Has(pos)
}

// OccupiedCount returns the number of occupied cells
func (b *Board) OccupiedCount() int {
	return b.occupied.Size()
}

// TagsAt lists the tags at pos
func (b *Board) TagsAt(pos Position) ([]Tag, error) {
	cell, err := b.Cell(pos)
	if err != nil {
		return nil, err
	}
	return cell.Tags(), nil
}

// Place adds tag to the cell at pos
func (b *Board) Place(pos Position, tag Tag) error {
	if err := b.checkBounds(pos); err != nil {
		return err
	}

	cell := &b.cells[pos.Row][pos.Col]
	if conflict := placeConflict(*cell, tag); conflict != "" {
		return fmt.Errorf("%w: cannot place %s at %s: %s", ErrCellOccupied, tag, pos, conflict)
	}

	switch tag.Kind {
	case TagObstacle:
		cell.Obstacle = true
	case TagItem:
		if !tag.Item.Valid() {
			return fmt.Errorf("unknown item kind %q", tag.Item)
		}
		cell.Item = tag.Item
	case TagPlayer:
		if tag.Player != PlayerOne && tag.Player != PlayerTwo {
			return fmt.Errorf("unknown player %d", tag.Player)
		}
		cell.Player = tag.Player
	case TagHighlight:
		cell.Highlighted = true
	default:
		return fmt.Errorf("unknown tag kind %q", tag.Kind)
	}

	b.reindex(*cell)
	return nil
}

// placeConflict returns a description of why tag cannot join cell, or ""
func placeConflict(cell Cell, tag Tag) string {
	switch tag.Kind {
	case TagObstacle:
		if cell.Occupied() || cell.Highlighted {
			return "cell is not empty"
		}
	case TagItem:
		if cell.Occupied() {
			return "cell is occupied"
		}
	case TagPlayer:
		if cell.Obstacle {
			return "cell holds an obstacle"
		}
		if cell.Player != NoPlayer && cell.Player != tag.Player {
			return "cell holds another player"
		}
	case TagHighlight:
		if cell.Obstacle {
			return "cell holds an obstacle"
		}
	}
	return ""
}

// Remove clears tag from the cell at pos. Absent tags are ignored.
func (b *Board) Remove(pos Position, tag Tag) error {
	if err := b.checkBounds(pos); err != nil {
		return err
	}

	cell := &b.cells[pos.Row][pos.Col]
	if !cell.HasTag(tag) {
		return nil
	}

	switch tag.Kind {
	case TagObstacle:
		cell.Obstacle = false
	case TagItem:
		cell.Item = NoItem
	case TagPlayer:
		cell.Player = NoPlayer
	case TagHighlight:
		cell.Highlighted = false
	}

	b.reindex(*cell)
	return nil
}

func (b *Board) reindex(cell Cell) {
	if cell.Occupied() {
		b.occupied.Put(cell.Position())
	} else {
		b.occupied.Remove(cell.Position())
	}
}

// Neighbors returns the in-board orthogonal neighbours of pos
func (b *Board) Neighbors(pos Position) []Position {
	neighbors := make([]Position, 0, len(directions))
	for _, d := range directions {
		if n := pos.Add(d); b.InBounds(n) {
			neighbors = append(neighbors, n)
		}
	}
	return neighbors
}

// Cells returns a deep copy of the grid
func (b *Board) Cells() [][]Cell {
	cells := make([][]Cell, b.size)
	for row := range b.cells {
		cells[row] = make([]Cell, b.size)
		copy(cells[row], b.cells[row])
	}
	return cells
}

// Highlighted lists highlighted positions in row-major order
func (b *Board) Highlighted() []Position {
	var positions []Position
	for row := range b.cells {
		for _, cell := range b.cells[row] {
			if cell.Highlighted {
				positions = append(positions, cell.Position())
			}
		}
	}
	return positions
}

// ClearHighlights removes every highlight and returns the cleared positions
func (b *Board) ClearHighlights() []Position {
	cleared := b.Highlighted()
	for _, pos := range cleared {
		b.cells[pos.Row][pos.Col].Highlighted = false
	}
	return cleared
}

// FindPlayer returns the position of a player's tag
func (b *Board) FindPlayer(id PlayerID) (Position, bool) {
	var found Position
	ok := false
	b.occupied.Each(func(pos Position) {
		if !ok && b.cells[pos.Row][pos.Col].Player == id {
			found, ok = pos, true
		}
	})
	return found, ok
}

// CountTag counts cells carrying any tag of the given kind
func (b *Board) CountTag(kind TagKind) int {
	count := 0
	for row := range b.cells {
		for _, cell := range b.cells[row] {
			if cell.Has(kind) {
				count++
			}
		}
	}
	return count
}

// String renders the board as text, one row per line.
// '#' obstacle, digits players, letters items, '*' highlight, '.' empty.
func (b *Board) String() string {
	buf := make([]byte, 0, b.size*(b.size+1))
	for row := range b.cells {
		for _, cell := range b.cells[row] {
			buf = append(buf, cellGlyph(cell))
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}

func cellGlyph(cell Cell) byte {
	switch {
	case cell.Obstacle:
		return '#'
	case cell.Player != NoPlayer:
		return byte('1' + cell.Player)
	case cell.Item != NoItem:
		return itemGlyphs[cell.Item]
	case cell.Highlighted:
		return '*'
	}
	return '.'
}

var itemGlyphs = map[ItemKind]byte{
	AttackBoost:      'a',
	AttackSuperBoost: 'A',
	DefenseBoost:     'd',
	HealthBoost:      'h',
	SpeedBoost:       's',
}
