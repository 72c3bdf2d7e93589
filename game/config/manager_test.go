package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/wricardo/skirmish/game/engine"
)

func createValidConfig() *engine.GameConfig {
	config := engine.DefaultConfig()
	config.Name = "Test Config"
	config.Description = "Test configuration"
	config.BoardSize = 8
	config.Obstacles = 6
	config.ItemCopies = 2
	return config
}

func writeConfigFile(t *testing.T, dir, name string, config *engine.GameConfig) {
	t.Helper()
	filename := name
	if filepath.Ext(filename) == "" {
		filename = name + ".json"
	}

	data, err := engine.EncodeGameConfig(config, filepath.Ext(filename))
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		dir := t.TempDir()
		defaultConfig := createValidConfig()
		defaultConfig.Name = "Default"
		writeConfigFile(t, dir, "default", defaultConfig)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager == nil {
			t.Error("Expected manager to be non-nil")
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		_, err := NewManager("/non/existent/path")
		if err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("missing default config", func(t *testing.T) {
		manager, err := NewManager(t.TempDir())
		if err != nil {
			t.Fatalf("NewManager should succeed even without config files, got error: %v", err)
		}

		defaultConfig := manager.GetDefault()
		if defaultConfig == nil {
			t.Fatal("Expected default config to be available")
		}
		if defaultConfig.Name != "classic" {
			t.Errorf("Expected built-in classic default, got %q", defaultConfig.Name)
		}
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()

	defaultConfig := createValidConfig()
	defaultConfig.Name = "Default"
	writeConfigFile(t, dir, "default", defaultConfig)

	blitzConfig := createValidConfig()
	blitzConfig.Name = "Blitz"
	blitzConfig.CombatIntervalMs = 500
	writeConfigFile(t, dir, "blitz.yaml", blitzConfig)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("load yaml config by name", func(t *testing.T) {
		config, err := manager.LoadConfig("blitz")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if config.Name != "Blitz" || config.CombatIntervalMs != 500 {
			t.Errorf("Unexpected config %+v", config)
		}
	})

	t.Run("load with extension", func(t *testing.T) {
		config, err := manager.LoadConfig("default.json")
		if err != nil {
			t.Fatalf("Failed to load config with extension: %v", err)
		}
		if config.Name != "Default" {
			t.Errorf("Expected config name 'Default', got '%s'", config.Name)
		}
	})

	t.Run("load from cache", func(t *testing.T) {
		config1, _ := manager.LoadConfig("blitz")
		config2, err := manager.LoadConfig("blitz.yaml")
		if err != nil {
			t.Fatalf("Failed to load config from cache: %v", err)
		}
		if config1 != config2 {
			t.Error("Expected config to be loaded from cache")
		}
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := manager.LoadConfig("non-existent")
		if err != ErrConfigNotFound {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("load invalid config", func(t *testing.T) {
		invalidData := []byte(`{"name": ""}`)
		if err := os.WriteFile(filepath.Join(dir, "invalid.json"), invalidData, 0644); err != nil {
			t.Fatalf("Failed to write invalid config: %v", err)
		}

		_, err := manager.LoadConfig("invalid")
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("load malformed JSON", func(t *testing.T) {
		malformedData := []byte(`{"name": "Malformed", invalid json}`)
		if err := os.WriteFile(filepath.Join(dir, "malformed.json"), malformedData, 0644); err != nil {
			t.Fatalf("Failed to write malformed config: %v", err)
		}

		if _, err := manager.LoadConfig("malformed"); err == nil {
			t.Error("Expected error for malformed JSON")
		}
	})
}

func TestManager_GetDefault(t *testing.T) {
	t.Run("classic wins", func(t *testing.T) {
		dir := t.TempDir()
		other := createValidConfig()
		other.Name = "Arena"
		writeConfigFile(t, dir, "arena", other)
		classic := createValidConfig()
		classic.Name = "Classic Arena"
		writeConfigFile(t, dir, "classic.yml", classic)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault().Name != "Classic Arena" {
			t.Errorf("Expected classic as default, got %q", manager.GetDefault().Name)
		}
	})

	t.Run("first config otherwise", func(t *testing.T) {
		dir := t.TempDir()
		defaultConfig := createValidConfig()
		defaultConfig.Name = "Default Config"
		writeConfigFile(t, dir, "default", defaultConfig)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault().Name != "Default Config" {
			t.Errorf("Expected default config name 'Default Config', got '%s'", manager.GetDefault().Name)
		}
	})

	t.Run("set default", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, "classic", createValidConfig())
		duel := createValidConfig()
		duel.Name = "Duel"
		writeConfigFile(t, dir, "duel", duel)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if err := manager.SetDefault("duel"); err != nil {
			t.Fatalf("SetDefault() error = %v", err)
		}
		if manager.GetDefault().Name != "Duel" {
			t.Errorf("Expected Duel as default, got %q", manager.GetDefault().Name)
		}
		if err := manager.SetDefault("missing"); err != ErrConfigNotFound {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})
}

func TestManager_ListConfigs(t *testing.T) {
	dir := t.TempDir()

	configs := []struct {
		filename string
		name     string
	}{
		{"default", "Default"},
		{"easy.yaml", "Easy"},
		{"medium.yml", "Medium"},
		{"hard", "Hard"},
	}

	for _, cfg := range configs {
		config := createValidConfig()
		config.Name = cfg.name
		writeConfigFile(t, dir, cfg.filename, config)
	}

	// Files that are not configs are ignored
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("readme"), 0644)
	os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	configList, err := manager.ListConfigs()
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}
	if len(configList) != 4 {
		t.Fatalf("Expected 4 configs, got %d", len(configList))
	}

	ids := make([]string, len(configList))
	for i, info := range configList {
		ids[i] = info.ConfigID
		if info.BoardSize != 8 || info.Obstacles != 6 || info.Items != 10 {
			t.Errorf("Unexpected summary for %s: %+v", info.ConfigID, info)
		}
	}
	if strings.Join(ids, ",") != "default,easy,hard,medium" {
		t.Errorf("Expected sorted config ids, got %v", ids)
	}
}

func TestManager_SaveConfig(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	saved := createValidConfig()
	saved.Name = "Saved"
	if err := manager.SaveConfig("saved.yaml", saved); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "saved.yaml"))
	if err != nil {
		t.Fatalf("Expected yaml file on disk: %v", err)
	}
	if !strings.Contains(string(data), "board_size: 8") {
		t.Errorf("Expected yaml output, got:\n%s", data)
	}

	if err := manager.SaveConfig("plain", saved); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "plain.json")); err != nil {
		t.Errorf("Expected json file on disk: %v", err)
	}

	invalid := createValidConfig()
	invalid.BoardSize = 2
	if err := manager.SaveConfig("invalid", invalid); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
	if err := manager.SaveConfig("../escape", saved); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected path names to be rejected, got %v", err)
	}

	if err := manager.RefreshCache(); err != nil {
		t.Fatalf("RefreshCache() error = %v", err)
	}
	loaded, err := manager.LoadConfig("saved")
	if err != nil || loaded.Name != "Saved" {
		t.Errorf("Expected saved config to load back, got %+v %v", loaded, err)
	}
}

func TestManager_ReloadConfig(t *testing.T) {
	dir := t.TempDir()

	config := createValidConfig()
	config.Name = "Changeable"
	writeConfigFile(t, dir, "changeable", config)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	loaded, _ := manager.LoadConfig("changeable")
	if loaded.Obstacles != 6 {
		t.Errorf("Expected initial obstacles 6, got %d", loaded.Obstacles)
	}

	config.Obstacles = 9
	writeConfigFile(t, dir, "changeable", config)

	if err := manager.RefreshCache(); err != nil {
		t.Fatalf("Failed to refresh cache: %v", err)
	}

	reloaded, _ := manager.LoadConfig("changeable")
	if reloaded.Obstacles != 9 {
		t.Errorf("Expected reloaded obstacles 9, got %d", reloaded.Obstacles)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()

	for i := 1; i <= 5; i++ {
		config := createValidConfig()
		config.Name = "Config" + string(rune('0'+i))
		writeConfigFile(t, dir, "config"+string(rune('0'+i)), config)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			configName := "config" + string(rune('0'+((id%5)+1)))
			if _, err := manager.LoadConfig(configName); err != nil {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}

	if manager.count() < 5 {
		t.Errorf("Expected at least 5 configs in cache, got %d", manager.count())
	}
}

func (m *Manager) count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.configs)
}
