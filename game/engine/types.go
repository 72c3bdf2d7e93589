package engine

import "fmt"

// TagKind identifies the class of a tag carried by a cell
type TagKind string

const (
	TagObstacle  TagKind = "obstacle"
	TagItem      TagKind = "item"
	TagPlayer    TagKind = "player"
	TagHighlight TagKind = "highlighted"
)

// ItemKind identifies a pickup item
type ItemKind string

const (
	NoItem           ItemKind = ""
	AttackBoost      ItemKind = "attack_boost"
	AttackSuperBoost ItemKind = "attack_super_boost"
	DefenseBoost     ItemKind = "defense_boost"
	HealthBoost      ItemKind = "health_boost"
	SpeedBoost       ItemKind = "speed_boost"
)

// Valid reports whether k is one of the known item kinds
func (k ItemKind) Valid() bool {
	switch k {
	case AttackBoost, AttackSuperBoost, DefenseBoost, HealthBoost, SpeedBoost:
		return true
	}
	return false
}

// PlayerID identifies one of the two players
type PlayerID int

const (
	NoPlayer  PlayerID = -1
	PlayerOne PlayerID = 0
	PlayerTwo PlayerID = 1
)

// Opponent returns the other player
func (p PlayerID) Opponent() PlayerID {
	return p ^ 1
}

// Phase is the current stage of the turn state machine
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseAwaitingMove Phase = "awaiting_move"
	PhaseCombat       Phase = "combat"
	PhaseGameOver     Phase = "game_over"
)

const (
	// Validation constants
	MinBoardSize = 5
	MaxBoardSize = 50
	MaxStatValue = 10000

	DefaultBoardSize            = 12
	DefaultObstacles            = 15
	DefaultItemCopies           = 5
	DefaultItemInset            = 1
	DefaultCombatIntervalMs     = 2000
	DefaultMaxPlacementAttempts = 1000
)

// Position represents row,col coordinates on the board
type Position struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Add returns p offset by d
func (p Position) Add(d Position) Position {
	return Position{Row: p.Row + d.Row, Col: p.Col + d.Col}
}

// Tag is a single label on a cell
type Tag struct {
	Kind   TagKind  `json:"kind"`
	Item   ItemKind `json:"item,omitempty"`
	Player PlayerID `json:"player"`
}

func ObstacleTag() Tag          { return Tag{Kind: TagObstacle, Player: NoPlayer} }
func ItemTag(kind ItemKind) Tag { return Tag{Kind: TagItem, Item: kind, Player: NoPlayer} }
func PlayerTag(id PlayerID) Tag { return Tag{Kind: TagPlayer, Player: id} }
func HighlightTag() Tag         { return Tag{Kind: TagHighlight, Player: NoPlayer} }

func (t Tag) String() string {
	switch t.Kind {
	case TagItem:
		return fmt.Sprintf("item:%s", t.Item)
	case TagPlayer:
		return fmt.Sprintf("player:%d", t.Player)
	}
	return string(t.Kind)
}

// Cell represents a single board cell and the tags it carries
type Cell struct {
	Row         int      `json:"row"`
	Col         int      `json:"col"`
	Obstacle    bool     `json:"obstacle,omitempty"`
	Item        ItemKind `json:"item,omitempty"`
	Player      PlayerID `json:"player"`
	Highlighted bool     `json:"highlighted,omitempty"`
}

// Occupied reports whether the cell carries an obstacle, an item or a player
func (c Cell) Occupied() bool {
	return c.Obstacle || c.Item != NoItem || c.Player != NoPlayer
}

// Has reports whether the cell carries any tag of the given kind
func (c Cell) Has(kind TagKind) bool {
	switch kind {
	case TagObstacle:
		return c.Obstacle
	case TagItem:
		return c.Item != NoItem
	case TagPlayer:
		return c.Player != NoPlayer
	case TagHighlight:
		return c.Highlighted
	}
	return false
}

// HasTag reports whether the cell carries exactly this tag
func (c Cell) HasTag(t Tag) bool {
	switch t.Kind {
	case TagItem:
		return c.Item != NoItem && c.Item == t.Item
	case TagPlayer:
		return c.Player != NoPlayer && c.Player == t.Player
	}
	return c.Has(t.Kind)
}

// Tags lists the tags on the cell
func (c Cell) Tags() []Tag {
	tags := []Tag{}
	if c.Obstacle {
		tags = append(tags, ObstacleTag())
	}
	if c.Item != NoItem {
		tags = append(tags, ItemTag(c.Item))
	}
	if c.Player != NoPlayer {
		tags = append(tags, PlayerTag(c.Player))
	}
	if c.Highlighted {
		tags = append(tags, HighlightTag())
	}
	return tags
}

func (c Cell) Position() Position {
	return Position{Row: c.Row, Col: c.Col}
}

// Stats are a player's combat values
type Stats struct {
	Health int `json:"health" yaml:"health"`
	Attack int `json:"attack" yaml:"attack"`
	Shield int `json:"shield" yaml:"shield"`
	Speed  int `json:"speed" yaml:"speed"`
}

// Display returns the stats with health clamped at zero
func (s Stats) Display() Stats {
	if s.Health < 0 {
		s.Health = 0
	}
	return s
}

// HomeRegion bounds a player's starting cell. Rows are inclusive,
// columns are exclusive.
type HomeRegion struct {
	RowMin int `json:"row_min" yaml:"row_min"`
	RowMax int `json:"row_max" yaml:"row_max"`
	ColMin int `json:"col_min" yaml:"col_min"`
	ColMax int `json:"col_max" yaml:"col_max"`
}

// Contains reports whether pos is a legal starting cell
func (h HomeRegion) Contains(pos Position) bool {
	return pos.Row >= h.RowMin && pos.Row <= h.RowMax &&
		pos.Col > h.ColMin && pos.Col < h.ColMax
}

// IsZero reports whether the region was left unset
func (h HomeRegion) IsZero() bool {
	return h == HomeRegion{}
}

// ItemSpec describes an item kind and its effect on pickup
type ItemSpec struct {
	Kind   ItemKind `json:"kind" yaml:"kind"`
	Effect int      `json:"effect" yaml:"effect"`
}

// Apply applies the item to stats. Attack and speed are set to the
// effect; shield and health are incremented by it.
func (s ItemSpec) Apply(stats *Stats) {
	switch s.Kind {
	case AttackBoost, AttackSuperBoost:
		stats.Attack = s.Effect
	case SpeedBoost:
		stats.Speed = s.Effect
	case DefenseBoost:
		stats.Shield += s.Effect
	case HealthBoost:
		stats.Health += s.Effect
	}
}

// PlayerState is a player's identity, position and stats
type PlayerState struct {
	ID       PlayerID   `json:"id"`
	Name     string     `json:"name"`
	Position Position   `json:"position"`
	Stats    Stats      `json:"stats"`
	Home     HomeRegion `json:"home"`
}

// MoveHistoryEntry represents a single move in the game history
type MoveHistoryEntry struct {
	MoveNumber    int      `json:"move_number"`
	Round         int      `json:"round"`
	Player        PlayerID `json:"player"`
	PlayerName    string   `json:"player_name"`
	FromPosition  Position `json:"from_position"`
	ToPosition    Position `json:"to_position"`
	Item          ItemKind `json:"item,omitempty"`
	CombatStarted bool     `json:"combat_started,omitempty"`
	Timestamp     int64    `json:"timestamp"`
}

// MoveOutcome describes the effects of an accepted move
type MoveOutcome struct {
	Player        PlayerID  `json:"player"`
	From          Position  `json:"from"`
	To            Position  `json:"to"`
	Pickup        *ItemSpec `json:"pickup,omitempty"`
	CombatStarted bool      `json:"combat_started"`
	Events        []Event   `json:"events"`
}

// TickOutcome describes one combat exchange
type TickOutcome struct {
	Attacker PlayerID `json:"attacker"`
	Defender PlayerID `json:"defender"`
	Damage   int      `json:"damage"`
	Stats    Stats    `json:"defender_stats"`
	GameOver bool     `json:"game_over"`
	Winner   string   `json:"winner,omitempty"`
}

// PlayerView is the read-only view of a player
type PlayerView struct {
	ID       PlayerID `json:"id"`
	Name     string   `json:"name"`
	Position Position `json:"position"`
	Stats    Stats    `json:"stats"`
}

// GameSnapshot is a read-only copy of the full game state
type GameSnapshot struct {
	GameID       string            `json:"game_id"`
	ConfigName   string            `json:"config_name"`
	BoardSize    int               `json:"board_size"`
	Cells        [][]Cell          `json:"cells"`
	Players      []PlayerView      `json:"players"`
	ActivePlayer PlayerID          `json:"active_player"`
	Phase        Phase             `json:"phase"`
	Winner       string            `json:"winner,omitempty"`
	Highlights   []Position        `json:"highlights"`
	Round        int               `json:"round"`
	TotalMoves   int               `json:"total_moves"`
	CurrentMoves int               `json:"current_moves"`
	Placement    PlacementStats    `json:"placement"`
	LastMove     *MoveHistoryEntry `json:"last_move,omitempty"`
}
