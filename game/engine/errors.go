package engine

import "errors"

var (
	// ErrOutOfBounds is returned for coordinates outside the board
	ErrOutOfBounds = errors.New("position out of bounds")
	// ErrCellOccupied is returned when a tag conflicts with the cell's existing tags
	ErrCellOccupied = errors.New("cell occupied")
	// ErrIllegalMove is returned for move input the current phase or range does not allow
	ErrIllegalMove = errors.New("illegal move")
	// ErrPlacementExhausted is returned when no legal cell remains for an entity
	ErrPlacementExhausted = errors.New("placement exhausted")
	// ErrIllegalRestart is returned when restart is requested before the game is over
	ErrIllegalRestart = errors.New("restart is only allowed after game over")
	// ErrInvalidConfig is returned by config validation
	ErrInvalidConfig = errors.New("invalid game config")
)
