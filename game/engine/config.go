package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// PlayerConfig describes one player's identity and home region
type PlayerConfig struct {
	Name string     `json:"name" yaml:"name"`
	Home HomeRegion `json:"home,omitempty" yaml:"home,omitempty"`
}

// GameConfig represents the game configuration loaded from JSON or YAML
type GameConfig struct {
	Name                 string         `json:"name" yaml:"name"`
	Description          string         `json:"description" yaml:"description"`
	BoardSize            int            `json:"board_size" yaml:"board_size"`
	Obstacles            int            `json:"obstacles" yaml:"obstacles"`
	ItemCopies           int            `json:"item_copies" yaml:"item_copies"`
	ItemInset            int            `json:"item_inset" yaml:"item_inset"`
	Items                []ItemSpec     `json:"items" yaml:"items"`
	StartingStats        Stats          `json:"starting_stats" yaml:"starting_stats"`
	Players              []PlayerConfig `json:"players" yaml:"players"`
	CombatIntervalMs     int            `json:"combat_interval_ms" yaml:"combat_interval_ms"`
	MaxPlacementAttempts int            `json:"max_placement_attempts,omitempty" yaml:"max_placement_attempts,omitempty"`
	LenientMoves         bool           `json:"lenient_moves,omitempty" yaml:"lenient_moves,omitempty"`
	Seed                 uint64         `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// DefaultConfig returns the classic 12x12 configuration
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Name:        "classic",
		Description: "Zeus and Poseidon on a 12x12 board with 15 obstacles and 25 items",
		BoardSize:   DefaultBoardSize,
		Obstacles:   DefaultObstacles,
		ItemCopies:  DefaultItemCopies,
		ItemInset:   DefaultItemInset,
		Items: []ItemSpec{
			{Kind: DefenseBoost, Effect: 10},
			{Kind: AttackBoost, Effect: 20},
			{Kind: HealthBoost, Effect: 10},
			{Kind: AttackSuperBoost, Effect: 40},
			{Kind: SpeedBoost, Effect: 3},
		},
		StartingStats: Stats{Health: 100, Attack: 10, Shield: 10, Speed: 2},
		Players: []PlayerConfig{
			{Name: "Zeus"},
			{Name: "Poseidon"},
		},
		CombatIntervalMs:     DefaultCombatIntervalMs,
		MaxPlacementAttempts: DefaultMaxPlacementAttempts,
	}
}

// Clone returns a deep copy of the config
func (c *GameConfig) Clone() *GameConfig {
	clone := *c
	clone.Items = append([]ItemSpec(nil), c.Items...)
	clone.Players = append([]PlayerConfig(nil), c.Players...)
	return &clone
}

// DefaultHomeRegion returns the starting band for a player: the top third
// for the first player and the bottom half for the second, never the outer
// columns.
func DefaultHomeRegion(id PlayerID, size int) HomeRegion {
	if id == PlayerOne {
		return HomeRegion{RowMin: 0, RowMax: size / 3, ColMin: 0, ColMax: size - 1}
	}
	return HomeRegion{RowMin: size / 2, RowMax: size - 1, ColMin: 0, ColMax: size - 1}
}

// HomeFor returns the configured home region of a player or the default one
func (c *GameConfig) HomeFor(id PlayerID) HomeRegion {
	if int(id) < len(c.Players) && !c.Players[id].Home.IsZero() {
		return c.Players[id].Home
	}
	return DefaultHomeRegion(id, c.BoardSize)
}

// Item returns the spec for an item kind
func (c *GameConfig) Item(kind ItemKind) (ItemSpec, bool) {
	for _, item := range c.Items {
		if item.Kind == kind {
			return item, true
		}
	}
	return ItemSpec{}, false
}

// CombatInterval returns the combat tick period. Zero means ticks are driven manually.
func (c *GameConfig) CombatInterval() time.Duration {
	return time.Duration(c.CombatIntervalMs) * time.Millisecond
}

// Capacity is the number of entities the config places on the board
func (c *GameConfig) Capacity() int {
	return c.Obstacles + len(c.Players) + c.ItemCopies*len(c.Items)
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return invalid("config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return invalid("name is required")
	}

	// Validate board size
	if config.BoardSize < MinBoardSize || config.BoardSize > MaxBoardSize {
		return invalid("board_size must be between %d and %d, got %d", MinBoardSize, MaxBoardSize, config.BoardSize)
	}

	if config.Obstacles < 0 {
		return invalid("obstacles must not be negative, got %d", config.Obstacles)
	}
	if config.ItemCopies < 0 {
		return invalid("item_copies must not be negative, got %d", config.ItemCopies)
	}
	if config.ItemInset < 0 || config.BoardSize-2*config.ItemInset < 1 {
		return invalid("item_inset %d leaves no room on a %dx%d board", config.ItemInset, config.BoardSize, config.BoardSize)
	}
	if config.CombatIntervalMs < 0 {
		return invalid("combat_interval_ms must not be negative, got %d", config.CombatIntervalMs)
	}
	if config.MaxPlacementAttempts < 0 {
		return invalid("max_placement_attempts must not be negative, got %d", config.MaxPlacementAttempts)
	}

	// Validate items
	seen := make(map[ItemKind]bool)
	for i, item := range config.Items {
		if !item.Kind.Valid() {
			return invalid("items[%d] has unknown kind %q", i, item.Kind)
		}
		if seen[item.Kind] {
			return invalid("items[%d] repeats kind %q", i, item.Kind)
		}
		seen[item.Kind] = true
		if item.Effect < 0 || item.Effect > MaxStatValue {
			return invalid("items[%d] effect must be between 0 and %d, got %d", i, MaxStatValue, item.Effect)
		}
		if item.Kind == SpeedBoost && item.Effect < 1 {
			return invalid("items[%d] speed effect must be at least 1", i)
		}
	}

	// Validate stats
	s := config.StartingStats
	if s.Health < 1 || s.Health > MaxStatValue {
		return invalid("starting_stats.health must be between 1 and %d, got %d", MaxStatValue, s.Health)
	}
	if s.Attack < 0 || s.Attack > MaxStatValue {
		return invalid("starting_stats.attack must be between 0 and %d, got %d", MaxStatValue, s.Attack)
	}
	if s.Shield < 0 || s.Shield > MaxStatValue {
		return invalid("starting_stats.shield must be between 0 and %d, got %d", MaxStatValue, s.Shield)
	}
	if s.Speed < 1 || s.Speed > config.BoardSize {
		return invalid("starting_stats.speed must be between 1 and %d, got %d", config.BoardSize, s.Speed)
	}

	// Validate players
	if len(config.Players) != 2 {
		return invalid("exactly 2 players are required, got %d", len(config.Players))
	}
	for i, p := range config.Players {
		if strings.TrimSpace(p.Name) == "" {
			return invalid("players[%d].name is required", i)
		}
		home := config.HomeFor(PlayerID(i))
		if home.RowMin < 0 || home.RowMax >= config.BoardSize || home.RowMin > home.RowMax {
			return invalid("players[%d].home rows %d..%d do not fit the board", i, home.RowMin, home.RowMax)
		}
		if home.ColMin < -1 || home.ColMax > config.BoardSize || home.ColMax-home.ColMin < 2 {
			return invalid("players[%d].home columns (%d,%d) leave no legal column", i, home.ColMin, home.ColMax)
		}
	}
	if config.HomeFor(PlayerOne).RowMax >= config.HomeFor(PlayerTwo).RowMin {
		return invalid("player home regions must be disjoint bands with the first player on top")
	}

	// Validate feasibility
	cells := config.BoardSize * config.BoardSize
	if config.Capacity() > cells {
		return invalid("%d entities do not fit on %d cells", config.Capacity(), cells)
	}
	inner := config.BoardSize - 2*config.ItemInset
	// items need a free cross around them, so at most one in two inner cells can hold one
	if items := config.ItemCopies * len(config.Items); items > (inner*inner+1)/2 {
		return invalid("%d items cannot be spaced apart inside a %dx%d region", items, inner, inner)
	}

	return nil
}

// LoadGameConfig loads a game configuration from a JSON or YAML file
func LoadGameConfig(filename string) (*GameConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		// If filename starts with "configs/", replace with CONFIG_DIR
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	config, err := DecodeGameConfig(data, filepath.Ext(configPath))
	if err != nil {
		return nil, err
	}

	// Validate the loaded configuration
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// DecodeGameConfig parses config data. ext selects the format: ".yaml" and
// ".yml" are YAML, anything else is JSON.
func DecodeGameConfig(data []byte, ext string) (*GameConfig, error) {
	config := &GameConfig{}
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse yaml config: %w", err)
		}
	default:
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse json config: %w", err)
		}
	}
	return config, nil
}

// EncodeGameConfig serializes config in the format selected by ext
func EncodeGameConfig(config *GameConfig, ext string) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return yaml.Marshal(config)
	default:
		return json.MarshalIndent(config, "", "  ")
	}
}
