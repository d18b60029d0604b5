package core

import "time"

// RuntimeConfig contains configuration passed to the game front ends.
type RuntimeConfig struct {
	ScreenW       int           // Screen width in characters
	ScreenH       int           // Screen height in characters
	Seed          int64         // RNG seed for the opponent; 0 means time-based
	ThinkingDelay time.Duration // Pause before the opponent moves
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:       80,
		ScreenH:       24,
		Seed:          0, // 0 means use current time in platform layer
		ThinkingDelay: 700 * time.Millisecond,
	}
}
