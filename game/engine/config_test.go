package engine

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateGameConfig_ValidConfig(t *testing.T) {
	if err := ValidateGameConfig(DefaultConfig()); err != nil {
		t.Errorf("Expected default config to be valid, got: %v", err)
	}
	if err := ValidateGameConfig(createTestConfig()); err != nil {
		t.Errorf("Expected test config to be valid, got: %v", err)
	}
}

func TestValidateGameConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *GameConfig)
		message string
	}{
		{"missing name", func(c *GameConfig) { c.Name = "" }, "name is required"},
		{"board too small", func(c *GameConfig) { c.BoardSize = 4 }, "board_size"},
		{"board too large", func(c *GameConfig) { c.BoardSize = 51 }, "board_size"},
		{"negative obstacles", func(c *GameConfig) { c.Obstacles = -1 }, "obstacles"},
		{"negative copies", func(c *GameConfig) { c.ItemCopies = -1 }, "item_copies"},
		{"inset too large", func(c *GameConfig) { c.ItemInset = 6 }, "item_inset"},
		{"negative interval", func(c *GameConfig) { c.CombatIntervalMs = -5 }, "combat_interval_ms"},
		{"unknown item", func(c *GameConfig) { c.Items[0].Kind = "laser" }, "unknown kind"},
		{"duplicate item", func(c *GameConfig) { c.Items[1].Kind = c.Items[0].Kind }, "repeats kind"},
		{"zero speed item", func(c *GameConfig) { c.Items[4].Effect = 0 }, "speed effect"},
		{"zero health", func(c *GameConfig) { c.StartingStats.Health = 0 }, "starting_stats.health"},
		{"zero speed", func(c *GameConfig) { c.StartingStats.Speed = 0 }, "starting_stats.speed"},
		{"negative shield", func(c *GameConfig) { c.StartingStats.Shield = -1 }, "starting_stats.shield"},
		{"one player", func(c *GameConfig) { c.Players = c.Players[:1] }, "exactly 2 players"},
		{"unnamed player", func(c *GameConfig) { c.Players[1].Name = " " }, "players[1].name"},
		{"home off board", func(c *GameConfig) {
			c.Players[0].Home = HomeRegion{RowMin: 0, RowMax: 12, ColMin: 0, ColMax: 11}
		}, "players[0].home rows"},
		{"home without columns", func(c *GameConfig) {
			c.Players[0].Home = HomeRegion{RowMin: 0, RowMax: 3, ColMin: 4, ColMax: 5}
		}, "players[0].home columns"},
		{"overlapping bands", func(c *GameConfig) {
			c.Players[1].Home = HomeRegion{RowMin: 3, RowMax: 11, ColMin: 0, ColMax: 11}
		}, "disjoint"},
		{"too many entities", func(c *GameConfig) { c.Obstacles = 140 }, "do not fit"},
		{"items cannot be spaced", func(c *GameConfig) { c.ItemCopies = 11 }, "cannot be spaced"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := DefaultConfig()
			test.mutate(config)
			err := ValidateGameConfig(config)
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got: %v", err)
			}
			if !strings.Contains(err.Error(), test.message) {
				t.Errorf("Expected error to mention %q, got: %v", test.message, err)
			}
		})
	}

	if err := ValidateGameConfig(nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected nil config to be rejected, got: %v", err)
	}
}

func TestDefaultHomeRegion(t *testing.T) {
	top := DefaultHomeRegion(PlayerOne, 12)
	if top != (HomeRegion{RowMin: 0, RowMax: 4, ColMin: 0, ColMax: 11}) {
		t.Errorf("Unexpected top home %+v", top)
	}
	bottom := DefaultHomeRegion(PlayerTwo, 12)
	if bottom != (HomeRegion{RowMin: 6, RowMax: 11, ColMin: 0, ColMax: 11}) {
		t.Errorf("Unexpected bottom home %+v", bottom)
	}

	config := DefaultConfig()
	custom := HomeRegion{RowMin: 1, RowMax: 2, ColMin: 2, ColMax: 8}
	config.Players[0].Home = custom
	if config.HomeFor(PlayerOne) != custom {
		t.Errorf("Expected configured home to win over the default")
	}
	if config.HomeFor(PlayerTwo) != bottom {
		t.Errorf("Expected unset home to fall back to the default")
	}
}

func TestConfigClone(t *testing.T) {
	config := DefaultConfig()
	clone := config.Clone()
	clone.Items[0].Effect = 99
	clone.Players[0].Name = "Ares"

	if config.Items[0].Effect == 99 || config.Players[0].Name == "Ares" {
		t.Error("Clone must not share slices with the original")
	}
}

func TestConfigItemLookup(t *testing.T) {
	config := DefaultConfig()
	spec, ok := config.Item(AttackSuperBoost)
	if !ok || spec.Effect != 40 {
		t.Errorf("Expected super attack effect 40, got %+v %v", spec, ok)
	}
	if _, ok := config.Item("laser"); ok {
		t.Error("Expected unknown item lookup to fail")
	}
	if config.Capacity() != 15+2+25 {
		t.Errorf("Expected capacity 42, got %d", config.Capacity())
	}
}

func TestLoadGameConfig(t *testing.T) {
	tempDir := t.TempDir()

	jsonData, err := EncodeGameConfig(DefaultConfig(), ".json")
	if err != nil {
		t.Fatalf("Failed to encode json: %v", err)
	}
	jsonPath := filepath.Join(tempDir, "classic.json")
	if err := os.WriteFile(jsonPath, jsonData, 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	blitz := DefaultConfig()
	blitz.Name = "blitz"
	blitz.BoardSize = 8
	blitz.Obstacles = 6
	blitz.ItemCopies = 2
	blitz.CombatIntervalMs = 500
	yamlData, err := EncodeGameConfig(blitz, ".yaml")
	if err != nil {
		t.Fatalf("Failed to encode yaml: %v", err)
	}
	yamlPath := filepath.Join(tempDir, "blitz.yaml")
	if err := os.WriteFile(yamlPath, yamlData, 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	loaded, err := LoadGameConfig(jsonPath)
	if err != nil {
		t.Fatalf("Failed to load json config: %v", err)
	}
	if loaded.Name != "classic" || len(loaded.Items) != 5 || loaded.Players[1].Name != "Poseidon" {
		t.Errorf("Unexpected json config %+v", loaded)
	}

	loaded, err = LoadGameConfig(yamlPath)
	if err != nil {
		t.Fatalf("Failed to load yaml config: %v", err)
	}
	if loaded.BoardSize != 8 || loaded.CombatIntervalMs != 500 || loaded.StartingStats.Health != 100 {
		t.Errorf("Unexpected yaml config %+v", loaded)
	}

	if _, err := LoadGameConfig(filepath.Join(tempDir, "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}

	badPath := filepath.Join(tempDir, "bad.json")
	if err := os.WriteFile(badPath, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := LoadGameConfig(badPath); err == nil {
		t.Error("Expected error for malformed file")
	}
}

func TestLoadGameConfig_ConfigDirOverride(t *testing.T) {
	tempDir := t.TempDir()
	data, _ := EncodeGameConfig(DefaultConfig(), ".json")
	if err := os.WriteFile(filepath.Join(tempDir, "classic.json"), data, 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	t.Setenv("CONFIG_DIR", tempDir)
	if _, err := LoadGameConfig("configs/classic.json"); err != nil {
		t.Errorf("Expected CONFIG_DIR to redirect configs/ paths, got: %v", err)
	}
}

func TestDecodeGameConfig_YAMLFields(t *testing.T) {
	data := []byte(`
name: duel
description: small arena
board_size: 7
obstacles: 3
item_copies: 1
item_inset: 1
items:
  - kind: attack_boost
    effect: 25
starting_stats: {health: 50, attack: 5, shield: 0, speed: 1}
players:
  - name: Ares
    home: {row_min: 0, row_max: 1, col_min: 0, col_max: 6}
  - name: Athena
combat_interval_ms: 0
lenient_moves: true
seed: 17
`)
	config, err := DecodeGameConfig(data, ".yml")
	if err != nil {
		t.Fatalf("Failed to decode yaml: %v", err)
	}
	if err := ValidateGameConfig(config); err != nil {
		t.Fatalf("Expected decoded config to be valid: %v", err)
	}
	if !config.LenientMoves || config.Seed != 17 || config.Items[0].Effect != 25 {
		t.Errorf("Unexpected decoded config %+v", config)
	}
	if config.HomeFor(PlayerOne).RowMax != 1 || config.HomeFor(PlayerTwo).RowMin != 3 {
		t.Errorf("Unexpected homes %+v %+v", config.HomeFor(PlayerOne), config.HomeFor(PlayerTwo))
	}
}
