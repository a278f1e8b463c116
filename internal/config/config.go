package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// GameConfig carries table-level settings that are tunable per deployment.
// Rule constants (point tables, thresholds) live in the domain package.
type GameConfig struct {
	CardsPerPlayer      int `json:"cards_per_player"`
	TurnDurationSeconds int `json:"turn_duration_seconds"`
}

const (
	defaultCardsPerPlayer      = 13
	defaultTurnDurationSeconds = 30
)

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration.
func GetGameConfig() *GameConfig {
	return cfg
}

// GetCardsPerPlayer returns the configured deal size, or the standard
// thirteen when no config is loaded or the value is unset.
func GetCardsPerPlayer() int {
	if cfg == nil || cfg.CardsPerPlayer <= 0 {
		return defaultCardsPerPlayer
	}
	return cfg.CardsPerPlayer
}

// GetTurnDurationSeconds returns the configured turn time limit, falling
// back to the default when no config is loaded or the value is unset.
func GetTurnDurationSeconds() int {
	if cfg == nil || cfg.TurnDurationSeconds <= 0 {
		return defaultTurnDurationSeconds
	}
	return cfg.TurnDurationSeconds
}
