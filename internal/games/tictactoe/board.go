// Package tictactoe implements the game engine: the 3x3 board, win/draw
// evaluation, move application and undo, the computer opponent, and the
// session that ties them together. It contains no terminal or network code;
// front ends drive a Session and render its View.
package tictactoe

import "strings"

// BoardSize is the number of cells on the board.
const BoardSize = 9

// Player identifies one of the two sides.
type Player uint8

const (
	Human Player = iota
	Opponent
)

// Mark returns the fixed board mark for the player: X for Human, O for Opponent.
func (p Player) Mark() Cell {
	if p == Opponent {
		return O
	}
	return X
}

// Other returns the opposing player.
func (p Player) Other() Player {
	if p == Human {
		return Opponent
	}
	return Human
}

// String returns a human-readable name for the player.
func (p Player) String() string {
	switch p {
	case Human:
		return "human"
	case Opponent:
		return "opponent"
	default:
		return "unknown"
	}
}

// Cell is the content of one board position.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

// String returns the cell symbol, or an empty string for an empty cell.
func (c Cell) String() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// Player returns the owner of a marked cell.
func (c Cell) Player() (Player, bool) {
	switch c {
	case X:
		return Human, true
	case O:
		return Opponent, true
	default:
		return 0, false
	}
}

// ParseCell converts a symbol ("", "X" or "O") to a Cell.
func ParseCell(s string) (Cell, bool) {
	switch s {
	case "":
		return Empty, true
	case "X":
		return X, true
	case "O":
		return O, true
	default:
		return Empty, false
	}
}

// Board is a fixed 3x3 grid stored row-major, indices 0..8.
type Board [BoardSize]Cell

// InBounds reports whether i is a valid cell index.
func InBounds(i int) bool {
	return i >= 0 && i < BoardSize
}

// IsEmpty reports whether cell i is on the board and unmarked.
func (b *Board) IsEmpty(i int) bool {
	return InBounds(i) && b[i] == Empty
}

// Set marks cell i for player p. The caller validates the index.
func (b *Board) Set(i int, p Player) {
	b[i] = p.Mark()
}

// Clear empties cell i.
func (b *Board) Clear(i int) {
	b[i] = Empty
}

// Owner returns the player holding cell i.
func (b *Board) Owner(i int) (Player, bool) {
	if !InBounds(i) {
		return 0, false
	}
	return b[i].Player()
}

// IsFull reports whether no empty cell remains.
func (b *Board) IsFull() bool {
	for _, c := range b {
		if c == Empty {
			return false
		}
	}
	return true
}

// Count returns the number of marked cells.
func (b *Board) Count() int {
	n := 0
	for _, c := range b {
		if c != Empty {
			n++
		}
	}
	return n
}

// EmptyCells returns the indices of all empty cells in ascending order.
func (b *Board) EmptyCells() []int {
	cells := make([]int, 0, BoardSize)
	for i, c := range b {
		if c == Empty {
			cells = append(cells, i)
		}
	}
	return cells
}

// String renders the board as three rows, using '.' for empty cells.
func (b Board) String() string {
	var sb strings.Builder
	for i, c := range b {
		if i > 0 && i%3 == 0 {
			sb.WriteByte('\n')
		}
		if c == Empty {
			sb.WriteByte('.')
		} else {
			sb.WriteString(c.String())
		}
	}
	return sb.String()
}
