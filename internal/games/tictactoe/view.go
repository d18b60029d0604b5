package tictactoe

// Status is the category of message a front end shows above the board.
type Status uint8

const (
	StatusHumanTurn Status = iota
	StatusOpponentThinking
	StatusHumanWon
	StatusOpponentWon
	StatusDraw
)

// String returns a stable identifier for the status.
func (s Status) String() string {
	switch s {
	case StatusHumanTurn:
		return "human_turn"
	case StatusOpponentThinking:
		return "opponent_thinking"
	case StatusHumanWon:
		return "human_won"
	case StatusOpponentWon:
		return "opponent_won"
	case StatusDraw:
		return "draw"
	default:
		return "unknown"
	}
}

// Message returns the player-facing status text.
func (s Status) Message() string {
	switch s {
	case StatusHumanTurn:
		return "Your turn! Place an X on the board."
	case StatusOpponentThinking:
		return "Computer is thinking..."
	case StatusHumanWon:
		return "You win!"
	case StatusOpponentWon:
		return "Computer wins!"
	case StatusDraw:
		return "It's a draw!"
	default:
		return ""
	}
}

// CellView is what a renderer needs to draw one cell.
type CellView struct {
	Mark    Cell
	Winning bool
}

// View is the read-only projection of a session handed to renderers.
type View struct {
	Cells      [BoardSize]CellView
	Status     Status
	Scores     Scores
	Difficulty Difficulty
	Active     bool
	CanUndo    bool
	Moves      int
}

// Status returns the current status category.
func (s *Session) Status() Status {
	var line *WinningLine
	if s.hasLine {
		line = &s.line
	}
	return statusOf(s.board, s.current, s.active, line)
}

// View returns the render projection of the session.
func (s *Session) View() View {
	return s.Snapshot().View()
}

// Status returns the status category of the captured state.
func (snap Snapshot) Status() Status {
	return statusOf(snap.Board, snap.CurrentPlayer, snap.Active, snap.WinningLine)
}

// View returns the render projection of the captured state. Events carry a
// snapshot, so a view built from one shows the state right after that event.
func (snap Snapshot) View() View {
	v := View{
		Status:     snap.Status(),
		Scores:     snap.Scores,
		Difficulty: snap.Difficulty,
		Active:     snap.Active,
		CanUndo:    len(snap.History) > 0,
		Moves:      len(snap.History),
	}
	for i, c := range snap.Board {
		v.Cells[i] = CellView{
			Mark:    c,
			Winning: snap.WinningLine != nil && snap.WinningLine.Contains(i),
		}
	}
	return v
}

func statusOf(b Board, current Player, active bool, line *WinningLine) Status {
	if active {
		if current == Opponent {
			return StatusOpponentThinking
		}
		return StatusHumanTurn
	}

	if line != nil {
		if winner, ok := b.Owner(line[0]); ok && winner == Opponent {
			return StatusOpponentWon
		}
		return StatusHumanWon
	}
	return StatusDraw
}
