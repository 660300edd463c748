// Package config provides configuration management for the falling-block game.
//
// The config package handles:
//   - Loading game configurations from JSON and YAML files
//   - Configuration validation through the engine
//   - Default configuration management
//   - Configuration discovery, listing and saving
//
// Configuration Format:
//
// Game configurations are stored in the configs directory as .json, .yaml or
// .yml files. The config ID is the file name without its extension. Each
// configuration defines:
//   - Board width and height
//   - Tick interval in milliseconds (0 for manually ticked games)
//   - A shape table of 4x4 masks written with '#' and '.'
//   - The spawn policy that picks the next shape (first, cycle, random)
//   - Running and game over messages
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load specific configuration
//	gameConfig, err := manager.LoadConfig("tetrominoes")
//
//	// Get default configuration
//	defaultConfig := manager.GetDefault()
//
//	// List available configurations
//	configs, err := manager.ListConfigs()
//
// Default Resolution:
//
// The default is "classic" when present, otherwise the first valid config in
// ID order, otherwise the built-in reference board from engine.DefaultConfig.
package config
