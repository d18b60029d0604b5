package tictactoe

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
)

// Scores counts finished games since the scores were last cleared.
type Scores struct {
	Human    uint
	Opponent uint
	Ties     uint
}

// Total returns the number of finished games.
func (s Scores) Total() uint {
	return s.Human + s.Opponent + s.Ties
}

// Session is one game against the computer: the board, whose turn it is,
// the opponent difficulty, scores and move history. All mutation goes
// through its methods. A Session is not safe for concurrent use; front ends
// that serve concurrent requests confine each session to one goroutine.
type Session struct {
	board      Board
	current    Player
	active     bool
	difficulty Difficulty
	line       WinningLine
	hasLine    bool
	scores     Scores
	history    []Move

	rng       *rand.Rand
	strategy  Strategy
	audio     Audio
	logger    *log.Logger
	observers []Observer
}

// Option configures a Session.
type Option func(*Session)

// WithDifficulty sets the starting difficulty. Invalid levels are ignored.
func WithDifficulty(d Difficulty) Option {
	return func(s *Session) {
		if d.Valid() {
			s.difficulty = d
		}
	}
}

// WithRand sets the random source used by the opponent.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// WithSeed seeds the opponent's random source. A zero seed uses the clock.
func WithSeed(seed int64) Option {
	return func(s *Session) {
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// WithAudio sets the audio collaborator.
func WithAudio(a Audio) Option {
	return func(s *Session) {
		s.audio = a
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver registers an observer at construction time.
func WithObserver(o Observer) Option {
	return func(s *Session) {
		s.observers = append(s.observers, o)
	}
}

// New creates a session with an empty board, the human to move, zero scores
// and the easy opponent unless overridden by options.
func New(opts ...Option) *Session {
	s := &Session{
		current:    Human,
		active:     true,
		difficulty: Easy,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.strategy = NewStrategy(s.difficulty, s.rng)
	return s
}

// Subscribe registers an observer for all subsequent events.
func (s *Session) Subscribe(o Observer) {
	s.observers = append(s.observers, o)
}

// Board returns a copy of the board.
func (s *Session) Board() Board {
	return s.board
}

// CurrentPlayer returns the player whose turn it is.
func (s *Session) CurrentPlayer() Player {
	return s.current
}

// Active reports whether the game is still in play.
func (s *Session) Active() bool {
	return s.active
}

// Difficulty returns the opponent difficulty.
func (s *Session) Difficulty() Difficulty {
	return s.difficulty
}

// WinningLine returns the completed line of a won game.
func (s *Session) WinningLine() (WinningLine, bool) {
	return s.line, s.hasLine
}

// Scores returns the current scores.
func (s *Session) Scores() Scores {
	return s.scores
}

// History returns a copy of the moves played this round, oldest first.
func (s *Session) History() []Move {
	return append([]Move(nil), s.history...)
}

// OpponentPending reports whether the opponent is due to move.
func (s *Session) OpponentPending() bool {
	return s.active && s.current == Opponent
}

// SubmitHumanMove plays the human's mark at cell. When the game continues it
// hands the turn to the opponent and reports opponentNext so the caller can
// schedule SubmitOpponentTurn.
func (s *Session) SubmitHumanMove(cell int) (opponentNext bool, err error) {
	res, err := s.applyMove(cell, Human)
	if err != nil {
		return false, err
	}
	if s.active {
		s.current = Opponent
	}
	s.afterMove(Move{Cell: cell, Player: Human}, res)
	return s.OpponentPending(), nil
}

// SubmitOpponentTurn lets the opponent strategy choose and play a cell.
func (s *Session) SubmitOpponentTurn() (int, error) {
	if !s.OpponentPending() {
		return -1, fmt.Errorf("%w: opponent is not due to move", ErrIllegalMove)
	}

	cell, ok := s.strategy.SelectMove(s.board)
	if !ok {
		return -1, fmt.Errorf("%w: no empty cell for the opponent", ErrIllegalMove)
	}

	res, err := s.applyMove(cell, Opponent)
	if err != nil {
		return -1, err
	}
	if s.active {
		s.current = Human
	}
	s.afterMove(Move{Cell: cell, Player: Opponent}, res)
	return cell, nil
}

// SetDifficulty switches the opponent strategy and restarts the round.
// Scores are kept.
func (s *Session) SetDifficulty(level int) error {
	d := Difficulty(level)
	if !d.Valid() {
		return fmt.Errorf("%w: %d (want 1, 2 or 3)", ErrInvalidDifficulty, level)
	}

	s.difficulty = d
	s.strategy = NewStrategy(d, s.rng)
	s.resetBoard()

	s.logger.Debug("difficulty changed", "difficulty", d)
	s.emit(Event{Kind: EventDifficultyChanged})
	return nil
}

// ClearScores zeroes the scores without touching the board.
func (s *Session) ClearScores() {
	s.scores = Scores{}
	s.emit(Event{Kind: EventReset})
}

func (s *Session) emit(ev Event) {
	if len(s.observers) == 0 {
		return
	}
	ev.Snapshot = s.Snapshot()
	for _, o := range s.observers {
		o.OnEvent(ev)
	}
}

func (s *Session) play(sound Sound) {
	if s.audio == nil {
		return
	}
	if err := s.audio.Play(sound); err != nil {
		s.logger.Debug("audio playback failed", "sound", sound, "error", err)
	}
}
