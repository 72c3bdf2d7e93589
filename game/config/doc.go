// Package config provides configuration management for the skirmish game.
//
// The config package handles:
//   - Loading game configurations from JSON and YAML files
//   - Configuration validation through the engine's rules
//   - Default configuration management
//   - Configuration discovery, listing and saving
//
// Configuration Format:
//
// Game configurations live in the configs directory as .json, .yaml or .yml
// files. Each configuration defines:
//   - Board size, obstacle count and item copies per kind
//   - Item effects and the inset that keeps items off the edges
//   - Starting stats shared by both players
//   - Player names and optional home regions
//   - Combat tick interval and placement retry bound
//
// A configuration is addressed by its file name without extension, so
// "blitz" finds blitz.yaml. When classic is missing, the first valid
// configuration becomes the default, and an empty directory falls back to
// engine.DefaultConfig.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("blitz")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
package config
