package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// RandSource is the random number source used for placement
type RandSource interface {
	IntN(n int) int
}

// NewRand returns a RandSource seeded with seed. A zero seed picks a random one.
func NewRand(seed uint64) RandSource {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// PlacementStats records how much sampling a placement run needed
type PlacementStats struct {
	Samples   int `json:"samples"`
	Fallbacks int `json:"fallbacks"`
	Entities  int `json:"entities"`
}

// itemAvoidClasses are the tag kinds no item may sit next to
var itemAvoidClasses = []TagKind{TagItem, TagPlayer}

// region is an inclusive rectangle of sampling coordinates
type region struct {
	rowMin, rowMax, colMin, colMax int
}

func fullRegion(size int) region {
	return region{0, size - 1, 0, size - 1}
}

func insetRegion(size, inset int) region {
	return region{inset, size - 1 - inset, inset, size - 1 - inset}
}

func (r region) sample(rng RandSource) Position {
	return Position{
		Row: r.rowMin + rng.IntN(r.rowMax-r.rowMin+1),
		Col: r.colMin + rng.IntN(r.colMax-r.colMin+1),
	}
}

func (r region) empty() bool {
	return r.rowMin > r.rowMax || r.colMin > r.colMax
}

// Placer seeds a board with entities by bounded rejection sampling
type Placer struct {
	board       *Board
	rng         RandSource
	maxAttempts int
	stats       PlacementStats
}

// NewPlacer creates a placer over board
func NewPlacer(board *Board, rng RandSource, maxAttempts int) *Placer {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxPlacementAttempts
	}
	return &Placer{board: board, rng: rng, maxAttempts: maxAttempts}
}

// Stats returns the sampling counters so far
func (p *Placer) Stats() PlacementStats {
	return p.stats
}

// PlaceObstacle places one obstacle anywhere on the board
func (p *Placer) PlaceObstacle() (Position, error) {
	return p.place("obstacle", fullRegion(p.board.Size()), ObstacleTag(), p.available)
}

// PlacePlayer places a player inside its home region
func (p *Placer) PlacePlayer(id PlayerID, home HomeRegion) (Position, error) {
	accept := func(pos Position) bool {
		return home.Contains(pos) && p.available(pos)
	}
	return p.place(fmt.Sprintf("player %d", id), fullRegion(p.board.Size()), PlayerTag(id), accept)
}

// PlaceItem places an item inside the inset region, away from other items and players
func (p *Placer) PlaceItem(kind ItemKind, inset int) (Position, error) {
	accept := func(pos Position) bool {
		return p.available(pos) && avoids(p.board, pos, itemAvoidClasses)
	}
	return p.place(fmt.Sprintf("item %s", kind), insetRegion(p.board.Size(), inset), ItemTag(kind), accept)
}

func (p *Placer) available(pos Position) bool {
	return !p.board.IsOccupied(pos)
}

// place samples r until accept holds, then falls back to a full scan of r
func (p *Placer) place(what string, r region, tag Tag, accept func(Position) bool) (Position, error) {
	p.stats.Entities++
	if r.empty() {
		return Position{}, fmt.Errorf("%w: %s has an empty sampling region", ErrPlacementExhausted, what)
	}

	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		pos := r.sample(p.rng)
		p.stats.Samples++
		if !accept(pos) {
			continue
		}
		err := p.board.Place(pos, tag)
		if errors.Is(err, ErrCellOccupied) {
			continue
		}
		if err != nil {
			return Position{}, err
		}
		return pos, nil
	}

	var candidates []Position
	for row := r.rowMin; row <= r.rowMax; row++ {
		for col := r.colMin; col <= r.colMax; col++ {
			pos := Position{Row: row, Col: col}
			if accept(pos) {
				candidates = append(candidates, pos)
			}
		}
	}
	if len(candidates) == 0 {
		return Position{}, fmt.Errorf("%w: no legal cell left for %s", ErrPlacementExhausted, what)
	}

	p.stats.Fallbacks++
	pos := candidates[p.rng.IntN(len(candidates))]
	if err := p.board.Place(pos, tag); err != nil {
		return Position{}, err
	}
	return pos, nil
}

// avoids reports whether no orthogonal neighbour of pos carries any of the given tag kinds
func avoids(b *Board, pos Position, classes []TagKind) bool {
	neighbors := b.Neighbors(pos)
	for _, kind := range classes {
		for _, n := range neighbors {
			if b.cells[n.Row][n.Col].Has(kind) {
				return false
			}
		}
	}
	return true
}

// Layout is the result of seeding a board
type Layout struct {
	Board   *Board
	Players [2]Position
	Stats   PlacementStats
}

// Populate builds a fresh board for config: obstacles first, then players, then items
func Populate(config *GameConfig, rng RandSource) (*Layout, error) {
	board, err := NewBoard(config.BoardSize)
	if err != nil {
		return nil, err
	}

	placer := NewPlacer(board, rng, config.MaxPlacementAttempts)

	for i := 0; i < config.Obstacles; i++ {
		if _, err := placer.PlaceObstacle(); err != nil {
			return nil, fmt.Errorf("failed to place obstacle %d: %w", i+1, err)
		}
	}

	var players [2]Position
	for i, pc := range config.Players {
		id := PlayerID(i)
		pos, err := placer.PlacePlayer(id, config.HomeFor(id))
		if err != nil {
			return nil, fmt.Errorf("failed to place %s: %w", pc.Name, err)
		}
		players[i] = pos
	}

	for _, item := range config.Items {
		for i := 0; i < config.ItemCopies; i++ {
			if _, err := placer.PlaceItem(item.Kind, config.ItemInset); err != nil {
				return nil, fmt.Errorf("failed to place %s copy %d: %w", item.Kind, i+1, err)
			}
		}
	}

	return &Layout{Board: board, Players: players, Stats: placer.Stats()}, nil
}
