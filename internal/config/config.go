// Package config provides YAML-based configuration loading with environment
// overrides for the tic-tac-toe front ends.
package config

import (
	"fmt"
	"time"
)

// Storage drivers.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Config is the complete application configuration.
type Config struct {
	Game    GameConfig    `yaml:"game"`
	Audio   AudioConfig   `yaml:"audio"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	SSH     SSHConfig     `yaml:"ssh"`
	Web     WebConfig     `yaml:"web"`
}

// GameConfig controls the opponent and pacing.
type GameConfig struct {
	Difficulty    DifficultyPreset `yaml:"difficulty" env:"TICTACTOE_DIFFICULTY" env-description:"Opponent level: easy, medium, hard or 1-3"`
	ThinkingDelay time.Duration    `yaml:"thinking_delay" env:"TICTACTOE_THINKING_DELAY" env-description:"Pause before the computer moves"`
	Seed          int64            `yaml:"seed" env:"TICTACTOE_SEED" env-description:"Random seed for the opponent, 0 uses the clock"`
}

// AudioConfig toggles sound cues.
type AudioConfig struct {
	Enabled bool `yaml:"enabled" env:"TICTACTOE_AUDIO" env-description:"Ring the terminal bell on moves and results"`
}

// StorageConfig selects where saved games and results live.
type StorageConfig struct {
	Driver    string `yaml:"driver" env:"TICTACTOE_STORAGE_DRIVER" env-description:"Snapshot store: sqlite or redis"`
	Path      string `yaml:"path" env:"TICTACTOE_DB" env-description:"SQLite database path"`
	RedisAddr string `yaml:"redis_addr" env:"TICTACTOE_REDIS_ADDR" env-description:"Redis address for the redis driver"`
	RedisDB   int    `yaml:"redis_db" env:"TICTACTOE_REDIS_DB" env-description:"Redis database number"`
	Key       string `yaml:"key" env:"TICTACTOE_STORAGE_KEY" env-description:"Snapshot key for the local player"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level" env:"TICTACTOE_LOG_LEVEL" env-description:"Log level: debug, info, warn or error"`
}

// SSHConfig configures the SSH server.
type SSHConfig struct {
	Address     string        `yaml:"address" env:"TICTACTOE_SSH_ADDRESS" env-description:"SSH listen address"`
	HostKey     string        `yaml:"host_key" env:"TICTACTOE_SSH_HOST_KEY" env-description:"SSH host key path"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"TICTACTOE_SSH_IDLE_TIMEOUT" env-description:"Disconnect idle SSH sessions after"`
}

// WebConfig configures the HTTP JSON API.
type WebConfig struct {
	Address string `yaml:"address" env:"TICTACTOE_WEB_ADDRESS" env-description:"HTTP listen address"`
}

// Validate checks values that the loaders cannot.
func (c Config) Validate() error {
	if _, err := c.Game.Difficulty.Level(); err != nil {
		return fmt.Errorf("game.difficulty: %w", err)
	}
	if c.Game.ThinkingDelay < 0 {
		return fmt.Errorf("game.thinking_delay: must not be negative, got %s", c.Game.ThinkingDelay)
	}
	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path: required for the %s driver", DriverSQLite)
		}
	case DriverRedis:
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("storage.redis_addr: required for the %s driver", DriverRedis)
		}
	default:
		return fmt.Errorf("storage.driver: unknown driver %q (want %s or %s)", c.Storage.Driver, DriverSQLite, DriverRedis)
	}
	return nil
}
