package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/tictactoe.yaml
var defaultYAML []byte

// Default returns the hardcoded configuration used when no YAML can be read.
func Default() Config {
	return Config{
		Game: GameConfig{
			Difficulty:    DifficultyEasy,
			ThinkingDelay: 700 * time.Millisecond,
		},
		Audio: AudioConfig{
			Enabled: true,
		},
		Storage: StorageConfig{
			Driver:    DriverSQLite,
			Path:      "~/.tictactoe/tictactoe.db",
			RedisAddr: "localhost:6379",
			Key:       "ticTacToeState",
		},
		Log: LogConfig{
			Level: "info",
		},
		SSH: SSHConfig{
			Address:     ":2222",
			HostKey:     ".ssh/tictactoe_host_ed25519",
			IdleTimeout: 10 * time.Minute,
		},
		Web: WebConfig{
			Address: ":8080",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
