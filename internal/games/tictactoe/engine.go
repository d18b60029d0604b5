package tictactoe

import "fmt"

// Move is one mark placed on the board.
type Move struct {
	Cell   int
	Player Player
}

// ApplyMove places p's mark at cell. It fails with ErrIllegalMove when the
// game is over, it is not p's turn, the index is off the board, or the cell
// is taken. A move that ends the game records the result and the score.
// ApplyMove does not pass the turn; SubmitHumanMove and SubmitOpponentTurn do.
func (s *Session) ApplyMove(cell int, p Player) error {
	res, err := s.applyMove(cell, p)
	if err != nil {
		return err
	}
	s.afterMove(Move{Cell: cell, Player: p}, res)
	return nil
}

func (s *Session) applyMove(cell int, p Player) (Result, error) {
	switch {
	case !s.active:
		return Result{}, fmt.Errorf("%w: game is over", ErrIllegalMove)
	case p != s.current:
		return Result{}, fmt.Errorf("%w: not the %s's turn", ErrIllegalMove, p)
	case !InBounds(cell):
		return Result{}, fmt.Errorf("%w: cell %d is off the board", ErrIllegalMove, cell)
	case !s.board.IsEmpty(cell):
		return Result{}, fmt.Errorf("%w: cell %d is occupied", ErrIllegalMove, cell)
	}

	s.board.Set(cell, p)
	s.history = append(s.history, Move{Cell: cell, Player: p})

	res := Evaluate(s.board)
	if res.Terminal() {
		s.finish(res)
	}
	return res, nil
}

func (s *Session) finish(res Result) {
	s.active = false

	switch res.Outcome {
	case Won:
		s.line = res.Line
		s.hasLine = true
		if res.Winner == Human {
			s.scores.Human++
		} else {
			s.scores.Opponent++
		}
	case Draw:
		s.scores.Ties++
	}
}

func (s *Session) afterMove(m Move, res Result) {
	s.logger.Debug("move applied", "player", m.Player, "cell", m.Cell)
	s.play(SoundClick)
	s.emit(Event{Kind: EventMove, Move: m})

	if !res.Terminal() {
		return
	}

	s.logger.Info("game over", "outcome", res.Outcome, "winner", winnerName(res), "difficulty", s.difficulty)
	s.play(terminalSound(res))
	s.emit(Event{Kind: EventGameOver, Result: res})
}

// UndoLastMoves takes back up to count of the most recent moves. An ended
// game becomes active again and the human is always left to move, whoever
// played last. Scores are not rolled back. It returns the number of moves
// undone; zero means nothing changed.
func (s *Session) UndoLastMoves(count int) int {
	n := min(max(count, 0), len(s.history))
	if n == 0 {
		return 0
	}

	for range n {
		last := s.history[len(s.history)-1]
		s.history = s.history[:len(s.history)-1]
		s.board.Clear(last.Cell)
	}

	if !s.active {
		s.active = true
		s.line = WinningLine{}
		s.hasLine = false
	}
	s.current = Human

	s.logger.Debug("moves undone", "count", n)
	s.play(SoundClick)
	s.emit(Event{Kind: EventUndo, Undone: n})
	return n
}

// UndoTurn undoes the human's last move together with the opponent's reply,
// or a single move when only one has been played.
func (s *Session) UndoTurn() int {
	count := 1
	if len(s.history) >= 2 {
		count = 2
	}
	return s.UndoLastMoves(count)
}

// ResetBoard starts a new round. Scores and difficulty are kept.
func (s *Session) ResetBoard() {
	s.resetBoard()
	s.emit(Event{Kind: EventReset})
}

func (s *Session) resetBoard() {
	s.board = Board{}
	s.history = nil
	s.active = true
	s.current = Human
	s.line = WinningLine{}
	s.hasLine = false
}

func terminalSound(res Result) Sound {
	switch {
	case res.Outcome == Draw:
		return SoundTie
	case res.Winner == Human:
		return SoundWin
	default:
		return SoundLose
	}
}

func winnerName(res Result) string {
	if res.Outcome != Won {
		return "none"
	}
	return res.Winner.String()
}
