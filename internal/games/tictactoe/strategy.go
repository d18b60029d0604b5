package tictactoe

import (
	"fmt"
	"math/rand"
)

// Difficulty selects the opponent strategy.
type Difficulty int

const (
	Easy   Difficulty = 1
	Medium Difficulty = 2
	Hard   Difficulty = 3
)

// Valid reports whether d is one of the three supported levels.
func (d Difficulty) Valid() bool {
	return d >= Easy && d <= Hard
}

// String returns the display name of the level.
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "Easy"
	case Medium:
		return "Medium"
	case Hard:
		return "Hard"
	default:
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
}

// mixedHeuristicChance is the probability that the medium opponent plays
// the heuristic move instead of a random one.
const mixedHeuristicChance = 0.7

var (
	cornerCells = []int{0, 2, 6, 8}
	edgeCells   = []int{1, 3, 5, 7}
)

// Strategy picks the opponent's next cell. ok is false only when the board
// has no empty cell.
type Strategy interface {
	SelectMove(b Board) (cell int, ok bool)
}

// NewStrategy returns the strategy for a difficulty level. Unknown levels
// fall back to the random strategy.
func NewStrategy(d Difficulty, rng *rand.Rand) Strategy {
	switch d {
	case Medium:
		return &MixedStrategy{rng: rng, heuristic: &HeuristicStrategy{rng: rng}, random: &RandomStrategy{rng: rng}}
	case Hard:
		return &HeuristicStrategy{rng: rng}
	default:
		return &RandomStrategy{rng: rng}
	}
}

// RandomStrategy plays uniformly among the empty cells.
type RandomStrategy struct {
	rng *rand.Rand
}

// SelectMove implements Strategy.
func (s *RandomStrategy) SelectMove(b Board) (int, bool) {
	return pick(s.rng, b.EmptyCells())
}

// MixedStrategy plays the heuristic move most of the time and a random move
// otherwise.
type MixedStrategy struct {
	rng       *rand.Rand
	heuristic *HeuristicStrategy
	random    *RandomStrategy
}

// SelectMove implements Strategy.
func (s *MixedStrategy) SelectMove(b Board) (int, bool) {
	if s.rng.Float64() < mixedHeuristicChance {
		if cell, ok := s.heuristic.SelectMove(b); ok {
			return cell, true
		}
	}
	return s.random.SelectMove(b)
}

// HeuristicStrategy applies a fixed priority list with one ply of lookahead:
// win now, block the human, center, a random corner, a random edge.
// It does not search deeper and can be beaten by forks.
type HeuristicStrategy struct {
	rng *rand.Rand
}

// SelectMove implements Strategy.
func (s *HeuristicStrategy) SelectMove(b Board) (int, bool) {
	for i := range BoardSize {
		if completes(b, i, Opponent) {
			return i, true
		}
	}

	for i := range BoardSize {
		if completes(b, i, Human) {
			return i, true
		}
	}

	if b.IsEmpty(4) {
		return 4, true
	}

	if cell, ok := pick(s.rng, filterEmpty(b, cornerCells)); ok {
		return cell, true
	}

	return pick(s.rng, filterEmpty(b, edgeCells))
}

func filterEmpty(b Board, cells []int) []int {
	empty := make([]int, 0, len(cells))
	for _, c := range cells {
		if b.IsEmpty(c) {
			empty = append(empty, c)
		}
	}
	return empty
}

func pick(rng *rand.Rand, cells []int) (int, bool) {
	if len(cells) == 0 {
		return -1, false
	}
	return cells[rng.Intn(len(cells))], true
}
