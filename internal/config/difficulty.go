package config

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tictactoe/internal/games/tictactoe"
)

// DifficultyPreset is a named or numeric opponent level as written in
// configuration or on the command line.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyMedium DifficultyPreset = "medium"
	DifficultyHard   DifficultyPreset = "hard"
)

// Level converts the preset to an engine difficulty.
func (p DifficultyPreset) Level() (tictactoe.Difficulty, error) {
	return ParseDifficulty(string(p))
}

// ParseDifficulty accepts easy, medium, hard (case-insensitive) or 1, 2, 3.
func ParseDifficulty(s string) (tictactoe.Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "1":
		return tictactoe.Easy, nil
	case "medium", "normal", "2":
		return tictactoe.Medium, nil
	case "hard", "3":
		return tictactoe.Hard, nil
	default:
		return 0, fmt.Errorf("%w: %q (want easy, medium, hard or 1-3)", tictactoe.ErrInvalidDifficulty, s)
	}
}
