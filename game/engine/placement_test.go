package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedRand replays a sequence of values, then repeats the last one
type fixedRand struct {
	values []int
	i      int
}

func (f *fixedRand) IntN(n int) int {
	v := f.values[len(f.values)-1]
	if f.i < len(f.values) {
		v = f.values[f.i]
		f.i++
	}
	return v % n
}

func assertLayoutInvariants(t *testing.T, config *GameConfig, layout *Layout) {
	t.Helper()
	board := layout.Board

	assert.Equal(t, config.Obstacles, board.CountTag(TagObstacle))
	assert.Equal(t, 2, board.CountTag(TagPlayer))
	assert.Equal(t, config.ItemCopies*len(config.Items), board.CountTag(TagItem))

	// each cell carries at most one occupying tag, so the index counts entities
	assert.Equal(t, config.Capacity(), board.OccupiedCount())

	counts := CountItems(board.Cells())
	for _, item := range config.Items {
		assert.Equal(t, config.ItemCopies, counts[item.Kind], string(item.Kind))
	}

	for id, pos := range layout.Players {
		home := config.HomeFor(PlayerID(id))
		assert.True(t, home.Contains(pos), "player %d at %s outside %+v", id, pos, home)
	}

	inset := config.ItemInset
	for _, row := range board.Cells() {
		for _, cell := range row {
			if cell.Item == NoItem {
				continue
			}
			pos := cell.Position()
			assert.False(t, cell.Obstacle || cell.Player != NoPlayer, "item shares %s", pos)
			assert.True(t, pos.Row >= inset && pos.Row < config.BoardSize-inset &&
				pos.Col >= inset && pos.Col < config.BoardSize-inset, "item at %s inside border", pos)
			for _, n := range board.Neighbors(pos) {
				neighbor, _ := board.Cell(n)
				assert.Equal(t, NoItem, neighbor.Item, "items adjacent at %s and %s", pos, n)
				assert.Equal(t, NoPlayer, neighbor.Player, "item at %s next to player at %s", pos, n)
			}
		}
	}
}

func TestPopulateInvariants(t *testing.T) {
	config := DefaultConfig()
	for seed := uint64(1); seed <= 20; seed++ {
		layout, err := Populate(config, NewRand(seed))
		require.NoError(t, err, "seed %d", seed)
		assertLayoutInvariants(t, config, layout)
	}
}

func TestPopulatePlayersInDisjointBands(t *testing.T) {
	config := DefaultConfig()
	layout, err := Populate(config, NewRand(3))
	require.NoError(t, err)

	top, bottom := layout.Players[PlayerOne], layout.Players[PlayerTwo]
	assert.LessOrEqual(t, top.Row, 4)
	assert.GreaterOrEqual(t, bottom.Row, 6)
	for _, pos := range layout.Players {
		assert.Greater(t, pos.Col, 0)
		assert.Less(t, pos.Col, 11)
	}
}

func TestPopulateIsDeterministicForSeed(t *testing.T) {
	config := DefaultConfig()
	a, err := Populate(config, NewRand(99))
	require.NoError(t, err)
	b, err := Populate(config, NewRand(99))
	require.NoError(t, err)

	assert.Equal(t, a.Board.String(), b.Board.String())
	assert.Equal(t, a.Players, b.Players)
}

func TestPlacerRetriesOnCollision(t *testing.T) {
	board, err := NewBoard(5)
	require.NoError(t, err)
	require.NoError(t, board.Place(Position{0, 0}, ObstacleTag()))

	// first sample hits the existing obstacle, second is free
	rng := &fixedRand{values: []int{0, 0, 1, 1}}
	placer := NewPlacer(board, rng, 10)

	pos, err := placer.PlaceObstacle()
	require.NoError(t, err)
	assert.Equal(t, Position{1, 1}, pos)
	assert.Equal(t, 2, placer.Stats().Samples)
	assert.Equal(t, 0, placer.Stats().Fallbacks)
}

func TestPlacerFallsBackToScan(t *testing.T) {
	board, err := NewBoard(5)
	require.NoError(t, err)
	require.NoError(t, board.Place(Position{0, 0}, ObstacleTag()))

	// the sampler is stuck on the obstacle; the scan must find another cell
	rng := &fixedRand{values: []int{0}}
	placer := NewPlacer(board, rng, 5)

	pos, err := placer.PlaceObstacle()
	require.NoError(t, err)
	assert.NotEqual(t, Position{0, 0}, pos)
	assert.True(t, board.IsOccupied(pos))
	assert.Equal(t, 5, placer.Stats().Samples)
	assert.Equal(t, 1, placer.Stats().Fallbacks)
}

func TestPlacerExhausted(t *testing.T) {
	board, err := NewBoard(5)
	require.NoError(t, err)
	for row := 0; row < 5; row++ {
		for col := 0; col < 5; col++ {
			require.NoError(t, board.Place(Position{row, col}, ObstacleTag()))
		}
	}

	placer := NewPlacer(board, NewRand(1), 20)
	_, err = placer.PlaceObstacle()
	assert.ErrorIs(t, err, ErrPlacementExhausted)
}

func TestPlaceItemAvoidsItemsAndPlayers(t *testing.T) {
	board := boardFromRows(t, []string{
		".....",
		".a...",
		".....",
		"...1.",
		".....",
	})

	placer := NewPlacer(board, NewRand(5), 50)
	for i := 0; i < 3; i++ {
		pos, err := placer.PlaceItem(SpeedBoost, 1)
		if err != nil {
			assert.ErrorIs(t, err, ErrPlacementExhausted)
			break
		}
		assert.True(t, avoids(board, pos, []TagKind{TagPlayer}))
	}

	// every remaining inner cell is next to an item or a player
	for row := 1; row <= 3; row++ {
		for col := 1; col <= 3; col++ {
			pos := Position{row, col}
			if !board.IsOccupied(pos) {
				assert.False(t, avoids(board, pos, itemAvoidClasses), "free cell %s was left", pos)
			}
		}
	}
}

func TestAvoidsIgnoresObstacles(t *testing.T) {
	board := boardFromRows(t, []string{
		".....",
		"..#..",
		".#.#.",
		"..#..",
		".....",
	})
	assert.True(t, avoids(board, Position{2, 2}, itemAvoidClasses))

	require.NoError(t, board.Place(Position{0, 2}, ItemTag(HealthBoost)))
	assert.False(t, avoids(board, Position{0, 1}, itemAvoidClasses))
	assert.False(t, avoids(board, Position{0, 3}, itemAvoidClasses))
	assert.True(t, avoids(board, Position{0, 0}, itemAvoidClasses))
}

func TestPopulateExhaustedConfig(t *testing.T) {
	config := DefaultConfig()
	config.BoardSize = 5
	config.Obstacles = 25
	config.ItemCopies = 1
	config.Items = config.Items[:1]

	_, err := Populate(config, NewRand(1))
	assert.ErrorIs(t, err, ErrPlacementExhausted)
}
