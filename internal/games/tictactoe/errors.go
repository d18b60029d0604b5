package tictactoe

import "errors"

// Errors returned by engine operations. Details are wrapped around these
// sentinels, so callers match them with errors.Is. A failed operation never
// changes session state.
var (
	ErrIllegalMove       = errors.New("illegal move")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrCorruptSnapshot   = errors.New("corrupt snapshot")
)
