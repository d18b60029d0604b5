package tictactoe

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Result outcomes from the human player's point of view.
const (
	OutcomeWin  = "win"
	OutcomeLoss = "loss"
	OutcomeDraw = "draw"
)

// GameResult is one finished game in the result log.
type GameResult struct {
	ID         string
	Outcome    string
	Difficulty Difficulty
	Moves      int
	FinishedAt time.Time
}

// ResultStore appends finished games to the result log.
type ResultStore interface {
	SaveResult(ctx context.Context, r GameResult) error
}

// Recorder is an Observer that logs every finished game to a ResultStore.
type Recorder struct {
	store  ResultStore
	logger *log.Logger
	now    func() time.Time
}

// NewRecorder creates a recorder writing to store.
func NewRecorder(store ResultStore, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.Default()
	}
	return &Recorder{store: store, logger: logger, now: time.Now}
}

// OnEvent implements Observer.
func (r *Recorder) OnEvent(ev Event) {
	if ev.Kind != EventGameOver {
		return
	}

	res := NewGameResult(ev.Result, ev.Snapshot, r.now())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := r.store.SaveResult(ctx, res); err != nil {
		r.logger.Error("save result", "id", res.ID, "error", err)
		return
	}
	r.logger.Debug("result recorded", "id", res.ID, "outcome", res.Outcome)
}

// NewGameResult builds a result log entry for a finished game.
func NewGameResult(res Result, snap Snapshot, at time.Time) GameResult {
	return GameResult{
		ID:         uuid.NewString(),
		Outcome:    outcomeOf(res),
		Difficulty: snap.Difficulty,
		Moves:      snap.Board.Count(),
		FinishedAt: at.UTC(),
	}
}

func outcomeOf(res Result) string {
	switch {
	case res.Outcome == Draw:
		return OutcomeDraw
	case res.Winner == Human:
		return OutcomeWin
	default:
		return OutcomeLoss
	}
}
