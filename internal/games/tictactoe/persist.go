package tictactoe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// DefaultSnapshotKey is the storage key for a single local player's game.
	DefaultSnapshotKey = "ticTacToeState"
	// DefaultAudioKey is the storage key for the local player's sound choice.
	DefaultAudioKey = "ticTacToeAudio"
)

// SnapshotStore is a key/value store for encoded snapshots.
// LoadSnapshot reports found=false, with no error, for an absent key.
type SnapshotStore interface {
	LoadSnapshot(ctx context.Context, key string) (data []byte, found bool, err error)
	SaveSnapshot(ctx context.Context, key string, data []byte) error
	DeleteSnapshot(ctx context.Context, key string) error
}

type snapshotRecord struct {
	Board         []string      `json:"board"`
	Scores        *scoresRecord `json:"scores"`
	GameActive    *bool         `json:"gameActive"`
	Difficulty    *int          `json:"difficulty"`
	CurrentPlayer *string       `json:"currentPlayer"`
	WinningLine   []int         `json:"winningLine"`
	MovesHistory  []moveRecord  `json:"movesHistory,omitempty"`
}

type scoresRecord struct {
	Player   int64 `json:"player"`
	Computer int64 `json:"computer"`
	Ties     int64 `json:"ties"`
}

type moveRecord struct {
	CellIndex int    `json:"cellIndex"`
	Player    string `json:"player"`
}

// EncodeSnapshot serializes a snapshot to the JSON record format.
func EncodeSnapshot(snap Snapshot) ([]byte, error) {
	board := make([]string, BoardSize)
	for i, c := range snap.Board {
		board[i] = c.String()
	}

	active := snap.Active
	difficulty := int(snap.Difficulty)
	current := snap.CurrentPlayer.Mark().String()

	rec := snapshotRecord{
		Board: board,
		Scores: &scoresRecord{
			Player:   int64(snap.Scores.Human),
			Computer: int64(snap.Scores.Opponent),
			Ties:     int64(snap.Scores.Ties),
		},
		GameActive:    &active,
		Difficulty:    &difficulty,
		CurrentPlayer: &current,
	}
	if snap.WinningLine != nil {
		rec.WinningLine = snap.WinningLine[:]
	}
	for _, m := range snap.History {
		rec.MovesHistory = append(rec.MovesHistory, moveRecord{
			CellIndex: m.Cell,
			Player:    m.Player.Mark().String(),
		})
	}

	return json.Marshal(rec)
}

// DecodeSnapshot parses and validates a JSON record. Any structural or
// semantic mismatch yields ErrCorruptSnapshot.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var rec snapshotRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	switch {
	case rec.Scores == nil:
		return Snapshot{}, corrupt("missing scores")
	case rec.GameActive == nil:
		return Snapshot{}, corrupt("missing gameActive")
	case rec.Difficulty == nil:
		return Snapshot{}, corrupt("missing difficulty")
	case rec.CurrentPlayer == nil:
		return Snapshot{}, corrupt("missing currentPlayer")
	case len(rec.Board) != BoardSize:
		return Snapshot{}, corrupt("board has %d cells", len(rec.Board))
	case rec.Scores.Player < 0 || rec.Scores.Computer < 0 || rec.Scores.Ties < 0:
		return Snapshot{}, corrupt("negative score")
	}

	snap := Snapshot{
		Active:     *rec.GameActive,
		Difficulty: Difficulty(*rec.Difficulty),
		Scores: Scores{
			Human:    uint(rec.Scores.Player),
			Opponent: uint(rec.Scores.Computer),
			Ties:     uint(rec.Scores.Ties),
		},
	}

	for i, sym := range rec.Board {
		c, ok := ParseCell(sym)
		if !ok {
			return Snapshot{}, corrupt("cell %d holds %q", i, sym)
		}
		snap.Board[i] = c
	}

	current, err := parseMark(*rec.CurrentPlayer)
	if err != nil {
		return Snapshot{}, err
	}
	snap.CurrentPlayer = current

	if rec.WinningLine != nil {
		if len(rec.WinningLine) != 3 {
			return Snapshot{}, corrupt("winning line has %d cells", len(rec.WinningLine))
		}
		line := WinningLine{rec.WinningLine[0], rec.WinningLine[1], rec.WinningLine[2]}
		snap.WinningLine = &line
	}

	for i, m := range rec.MovesHistory {
		p, err := parseMark(m.Player)
		if err != nil {
			return Snapshot{}, fmt.Errorf("move %d: %w", i, err)
		}
		snap.History = append(snap.History, Move{Cell: m.CellIndex, Player: p})
	}

	if err := snap.Validate(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func parseMark(s string) (Player, error) {
	c, ok := ParseCell(s)
	if !ok || c == Empty {
		return 0, corrupt("player %q", s)
	}
	p, _ := c.Player()
	return p, nil
}

// Persister is an Observer that saves the session snapshot after every event.
type Persister struct {
	store   SnapshotStore
	key     string
	timeout time.Duration
	logger  *log.Logger
}

// NewPersister creates a persister writing under key.
func NewPersister(store SnapshotStore, key string, logger *log.Logger) *Persister {
	if key == "" {
		key = DefaultSnapshotKey
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Persister{
		store:   store,
		key:     key,
		timeout: 2 * time.Second,
		logger:  logger,
	}
}

// Key returns the storage key.
func (p *Persister) Key() string {
	return p.key
}

// Load restores s from the stored snapshot. An absent record leaves the
// defaults in place and returns nil. A corrupt record is discarded with a
// warning and ErrCorruptSnapshot is returned; the session keeps its defaults.
func (p *Persister) Load(ctx context.Context, s *Session) error {
	data, found, err := p.store.LoadSnapshot(ctx, p.key)
	if err != nil {
		return err
	}
	if !found {
		p.logger.Debug("no saved game", "key", p.key)
		return nil
	}

	snap, err := DecodeSnapshot(data)
	if err != nil {
		p.logger.Warn("discarding saved game", "key", p.key, "error", err)
		return err
	}
	return s.Restore(snap)
}

// OnEvent implements Observer.
func (p *Persister) OnEvent(ev Event) {
	data, err := EncodeSnapshot(ev.Snapshot)
	if err != nil {
		p.logger.Error("encode snapshot", "key", p.key, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if err := p.store.SaveSnapshot(ctx, p.key, data); err != nil {
		p.logger.Error("save snapshot", "key", p.key, "event", ev.Kind, "error", err)
	}
}

// Delete removes the stored snapshot.
func (p *Persister) Delete(ctx context.Context) error {
	return p.store.DeleteSnapshot(ctx, p.key)
}

// OpenSession creates a session, restores it from store under key and
// subscribes a Persister so later changes are saved. A corrupt record is
// logged and the fresh session is returned without error.
func OpenSession(ctx context.Context, store SnapshotStore, key string, logger *log.Logger, opts ...Option) (*Session, error) {
	if logger != nil {
		opts = append([]Option{WithLogger(logger)}, opts...)
	}
	s := New(opts...)

	p := NewPersister(store, key, logger)
	if err := p.Load(ctx, s); err != nil && !errors.Is(err, ErrCorruptSnapshot) {
		return nil, fmt.Errorf("load %s: %w", p.key, err)
	}

	s.Subscribe(p)
	return s, nil
}

// AudioPref remembers whether the player wants sound, stored as a JSON
// boolean next to the saved game.
type AudioPref struct {
	store SnapshotStore
	key   string
}

// NewAudioPref creates a preference stored under key.
func NewAudioPref(store SnapshotStore, key string) *AudioPref {
	if key == "" {
		key = DefaultAudioKey
	}
	return &AudioPref{store: store, key: key}
}

// Load returns the stored choice, or def when none was saved. An unreadable
// value also yields def.
func (p *AudioPref) Load(ctx context.Context, def bool) (bool, error) {
	data, found, err := p.store.LoadSnapshot(ctx, p.key)
	if err != nil || !found {
		return def, err
	}
	var on bool
	if err := json.Unmarshal(data, &on); err != nil {
		return def, fmt.Errorf("%w: audio preference: %v", ErrCorruptSnapshot, err)
	}
	return on, nil
}

// Save stores the choice.
func (p *AudioPref) Save(ctx context.Context, on bool) error {
	data, err := json.Marshal(on)
	if err != nil {
		return err
	}
	return p.store.SaveSnapshot(ctx, p.key, data)
}
