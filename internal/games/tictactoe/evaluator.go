package tictactoe

// WinningLine is a triple of board indices that wins when held by one mark.
type WinningLine [3]int

// Lines enumerates the eight winning lines: rows, columns, then diagonals.
// Evaluation reports the first completed line in this order.
var Lines = [8]WinningLine{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Contains reports whether cell i is part of the line.
func (l WinningLine) Contains(i int) bool {
	return l[0] == i || l[1] == i || l[2] == i
}

// IsLine reports whether l is one of the eight winning lines.
func IsLine(l WinningLine) bool {
	for _, line := range Lines {
		if line == l {
			return true
		}
	}
	return false
}

// Outcome classifies a board position.
type Outcome uint8

const (
	Ongoing Outcome = iota
	Won
	Draw
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case Ongoing:
		return "ongoing"
	case Won:
		return "won"
	case Draw:
		return "draw"
	default:
		return "unknown"
	}
}

// Result is the evaluation of a board. Winner and Line are set only when
// Outcome is Won.
type Result struct {
	Outcome Outcome
	Winner  Player
	Line    WinningLine
}

// Terminal reports whether play has ended.
func (r Result) Terminal() bool {
	return r.Outcome != Ongoing
}

// Evaluate determines whether the board is won, drawn or still in play.
// It does not modify the board.
func Evaluate(b Board) Result {
	for _, line := range Lines {
		c := b[line[0]]
		if c != Empty && c == b[line[1]] && c == b[line[2]] {
			winner, _ := c.Player()
			return Result{Outcome: Won, Winner: winner, Line: line}
		}
	}

	if b.IsFull() {
		return Result{Outcome: Draw}
	}
	return Result{Outcome: Ongoing}
}

// HasWon reports whether p holds any complete line on b.
func HasWon(b Board, p Player) bool {
	mark := p.Mark()
	for _, line := range Lines {
		if b[line[0]] == mark && b[line[1]] == mark && b[line[2]] == mark {
			return true
		}
	}
	return false
}

// completes reports whether marking cell i for p would give p a complete line.
// b is a copy, so the caller's board is untouched.
func completes(b Board, i int, p Player) bool {
	if !b.IsEmpty(i) {
		return false
	}
	b.Set(i, p)
	return HasWon(b, p)
}
