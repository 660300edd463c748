package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfig returns the reference configuration: a 40x20 board ticking
// every 200ms with the single square shape.
func DefaultConfig() *GameConfig {
	config := &GameConfig{
		Name:           "classic",
		Description:    "Reference board: 40 rows by 20 columns, one square piece, 200ms ticks",
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		TickIntervalMS: DefaultTickInterval,
		SpawnPolicy:    PolicyFirst,
		Shapes:         cloneShapeTable(DefaultShapes),
	}
	config.Messages.Running = "Falling"
	config.Messages.GameOver = "You lose"
	return config
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}

	// Validate dimensions
	if config.Width < MinWidth || config.Width > MaxWidth {
		return fmt.Errorf("config validation: width must be between %d and %d, got %d", MinWidth, MaxWidth, config.Width)
	}
	if config.Height < MinHeight || config.Height > MaxHeight {
		return fmt.Errorf("config validation: height must be between %d and %d, got %d", MinHeight, MaxHeight, config.Height)
	}

	// Zero means ticks are delivered manually
	if config.TickIntervalMS != 0 && (config.TickIntervalMS < MinTickInterval || config.TickIntervalMS > MaxTickInterval) {
		return fmt.Errorf("config validation: tick_interval_ms must be 0 or between %d and %d, got %d",
			MinTickInterval, MaxTickInterval, config.TickIntervalMS)
	}

	if _, err := NewSpawnPolicy(config.SpawnPolicy, config.Seed); err != nil {
		return fmt.Errorf("config validation: %v", err)
	}

	// Validate shapes
	if len(config.Shapes) == 0 {
		return fmt.Errorf("config validation: at least one shape is required")
	}
	if len(config.Shapes) > MaxShapes {
		return fmt.Errorf("config validation: at most %d shapes are allowed, got %d", MaxShapes, len(config.Shapes))
	}
	if _, err := ParseShapes(config.Shapes); err != nil {
		return fmt.Errorf("config validation: %v", err)
	}

	if config.Messages.GameOver == "" {
		return fmt.Errorf("config validation: messages.game_over is required")
	}

	return nil
}

// DecodeGameConfig parses a config document. ext selects the format: ".yaml"
// and ".yml" are read as YAML, everything else as JSON.
func DecodeGameConfig(data []byte, ext string) (*GameConfig, error) {
	var config GameConfig
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	}
	return &config, nil
}

// LoadGameConfig loads and validates a game configuration file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config, err := DecodeGameConfig(data, filepath.Ext(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %v", filename, err)
	}

	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// InitGameStateFromConfig creates the starting state for config: an empty grid
// and a piece at the spawn position. A nil config uses DefaultConfig.
func InitGameStateFromConfig(config *GameConfig, policy SpawnPolicy) (*GameState, []Shape, error) {
	if config == nil {
		config = DefaultConfig()
	}

	shapes, err := ParseShapes(config.Shapes)
	if err != nil {
		return nil, nil, err
	}
	if len(shapes) == 0 {
		return nil, nil, fmt.Errorf("config has no shapes")
	}

	state := &GameState{
		Grid: NewGrid(config.Width, config.Height),
	}
	state.Piece = spawnPiece(shapes, policy)
	state.Pieces = 1

	return state, shapes, nil
}

func cloneShapeTable(table [][]string) [][]string {
	out := make([][]string, len(table))
	for i, rows := range table {
		out[i] = append([]string(nil), rows...)
	}
	return out
}
