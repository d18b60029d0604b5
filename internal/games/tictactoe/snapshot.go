package tictactoe

import "fmt"

// Snapshot is the complete restorable state of a session.
type Snapshot struct {
	Board         Board
	CurrentPlayer Player
	Active        bool
	Difficulty    Difficulty
	WinningLine   *WinningLine
	Scores        Scores
	History       []Move
}

// Snapshot captures the session state. The result shares no memory with the
// session.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Board:         s.board,
		CurrentPlayer: s.current,
		Active:        s.active,
		Difficulty:    s.difficulty,
		Scores:        s.scores,
		History:       s.History(),
	}
	if s.hasLine {
		line := s.line
		snap.WinningLine = &line
	}
	return snap
}

// Restore replaces the session state with snap. An inconsistent snapshot is
// rejected with ErrCorruptSnapshot and the session is left untouched.
// A marked board without history, as saved by older versions, gets a
// replayed move order so undo and later saves stay consistent.
func (s *Session) Restore(snap Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	if len(snap.History) == 0 {
		snap.History, _ = replayHistory(snap.Board)
	}

	s.board = snap.Board
	s.current = snap.CurrentPlayer
	s.active = snap.Active
	s.scores = snap.Scores
	s.history = append([]Move(nil), snap.History...)
	s.line, s.hasLine = WinningLine{}, false
	if snap.WinningLine != nil {
		s.line, s.hasLine = *snap.WinningLine, true
	}
	if s.difficulty != snap.Difficulty || s.strategy == nil {
		s.strategy = NewStrategy(snap.Difficulty, s.rng)
	}
	s.difficulty = snap.Difficulty

	s.logger.Debug("session restored", "moves", len(s.history), "active", s.active)
	s.emit(Event{Kind: EventRestored})
	return nil
}

// Validate checks that the snapshot is internally consistent: known values,
// a board outcome that agrees with Active and WinningLine, and a history that
// accounts for every mark. It does not check whose turn the mark counts imply.
func (snap Snapshot) Validate() error {
	if !snap.Difficulty.Valid() {
		return corrupt("difficulty %d", int(snap.Difficulty))
	}
	if snap.CurrentPlayer != Human && snap.CurrentPlayer != Opponent {
		return corrupt("current player %d", int(snap.CurrentPlayer))
	}
	for i, c := range snap.Board {
		if c != Empty && c != X && c != O {
			return corrupt("cell %d holds %d", i, int(c))
		}
	}

	if HasWon(snap.Board, Human) && HasWon(snap.Board, Opponent) {
		return corrupt("both players hold a line")
	}

	res := Evaluate(snap.Board)
	if res.Terminal() == snap.Active {
		return corrupt("active=%t but board outcome is %s", snap.Active, res.Outcome)
	}

	switch {
	case snap.WinningLine != nil:
		if res.Outcome != Won {
			return corrupt("winning line on a board without a winner")
		}
		line := *snap.WinningLine
		if !IsLine(line) {
			return corrupt("winning line %v", line)
		}
		owner, ok := snap.Board.Owner(line[0])
		if !ok || !ownsLine(snap.Board, line, owner) {
			return corrupt("winning line %v is not held by one mark", line)
		}
	case res.Outcome == Won:
		return corrupt("won board without a winning line")
	}

	return validateHistory(snap.Board, snap.History)
}

// validateHistory requires the history to account for every mark exactly
// once. An empty history is accepted when some move order reaches the board.
func validateHistory(b Board, history []Move) error {
	if len(history) == 0 {
		if _, ok := replayHistory(b); !ok {
			return corrupt("no move order reaches the board")
		}
		return nil
	}
	if len(history) != b.Count() {
		return corrupt("%d moves recorded for %d marks", len(history), b.Count())
	}

	seen := make(map[int]bool, len(history))
	for i, m := range history {
		if !InBounds(m.Cell) {
			return corrupt("move %d at cell %d", i, m.Cell)
		}
		if seen[m.Cell] {
			return corrupt("move %d repeats cell %d", i, m.Cell)
		}
		seen[m.Cell] = true

		if owner, ok := b.Owner(m.Cell); !ok || owner != m.Player {
			return corrupt("move %d by %s does not match cell %d", i, m.Player, m.Cell)
		}
	}
	return nil
}

// replayHistory finds a move order that fills in every mark on b without
// ending the game before the last move. Turns alternate from the human where
// the marks allow it.
func replayHistory(b Board) ([]Move, bool) {
	var cells [2][]int
	for i, c := range b {
		if p, ok := c.Player(); ok {
			cells[p] = append(cells[p], i)
		}
	}

	total := b.Count()
	history := make([]Move, 0, total)
	dead := make(map[Board]bool)
	var pos Board

	var walk func(next Player) bool
	walk = func(next Player) bool {
		if len(history) == total {
			return true
		}
		if dead[pos] || Evaluate(pos).Terminal() {
			return false
		}
		for _, p := range [2]Player{next, next.Other()} {
			for _, cell := range cells[p] {
				if !pos.IsEmpty(cell) {
					continue
				}
				pos.Set(cell, p)
				history = append(history, Move{Cell: cell, Player: p})
				if walk(p.Other()) {
					return true
				}
				history = history[:len(history)-1]
				pos.Clear(cell)
			}
		}
		dead[pos] = true
		return false
	}

	if !walk(Human) {
		return nil, false
	}
	return history, true
}

func ownsLine(b Board, line WinningLine, p Player) bool {
	for _, i := range line {
		if owner, ok := b.Owner(i); !ok || owner != p {
			return false
		}
	}
	return true
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrCorruptSnapshot}, args...)...)
}
