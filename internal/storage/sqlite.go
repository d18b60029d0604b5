// Package storage persists saved games and the result log.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tictactoe/internal/games/tictactoe"
)

// Compile-time interface checks.
var (
	_ tictactoe.SnapshotStore = (*Store)(nil)
	_ tictactoe.ResultStore   = (*Store)(nil)
)

// timeLayout has a fixed-width fraction so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages the SQLite database holding snapshots and results.
type Store struct {
	db *sql.DB
}

// Totals aggregates the result log.
type Totals struct {
	Wins   int
	Losses int
	Draws  int
}

// Games returns the number of logged games.
func (t Totals) Games() int {
	return t.Wins + t.Losses + t.Draws
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS snapshots (
			key TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			outcome TEXT NOT NULL,
			difficulty INTEGER NOT NULL,
			moves INTEGER NOT NULL,
			finished_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_results_finished_at ON results(finished_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// LoadSnapshot returns the encoded snapshot stored under key.
func (s *Store) LoadSnapshot(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM snapshots WHERE key = ?", key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage: cannot load snapshot %s: %w", key, err)
	}
	return data, true, nil
}

// SaveSnapshot inserts or replaces the snapshot stored under key.
func (s *Store) SaveSnapshot(ctx context.Context, key string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (key, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key, data, time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save snapshot %s: %w", key, err)
	}
	return nil
}

// DeleteSnapshot removes the snapshot stored under key. Deleting an absent
// key is not an error.
func (s *Store) DeleteSnapshot(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM snapshots WHERE key = ?", key); err != nil {
		return fmt.Errorf("storage: cannot delete snapshot %s: %w", key, err)
	}
	return nil
}

// SaveResult appends a finished game to the result log.
func (s *Store) SaveResult(ctx context.Context, r tictactoe.GameResult) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO results (id, outcome, difficulty, moves, finished_at) VALUES (?, ?, ?, ?, ?)",
		r.ID, r.Outcome, int(r.Difficulty), r.Moves, r.FinishedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save result: %w", err)
	}
	return nil
}

// RecentResults returns up to limit results, newest first.
func (s *Store) RecentResults(ctx context.Context, limit int) ([]tictactoe.GameResult, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, outcome, difficulty, moves, finished_at
		 FROM results
		 ORDER BY finished_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	var results []tictactoe.GameResult
	for rows.Next() {
		var (
			r          tictactoe.GameResult
			difficulty int
			finishedAt string
		)
		if err := rows.Scan(&r.ID, &r.Outcome, &difficulty, &r.Moves, &finishedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Difficulty = tictactoe.Difficulty(difficulty)
		if parsed, err := time.Parse(time.RFC3339Nano, finishedAt); err == nil {
			r.FinishedAt = parsed
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// Totals counts logged results by outcome.
func (s *Store) Totals(ctx context.Context) (Totals, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT outcome, COUNT(*) FROM results GROUP BY outcome")
	if err != nil {
		return Totals{}, fmt.Errorf("storage: cannot count results: %w", err)
	}
	defer rows.Close()

	var t Totals
	for rows.Next() {
		var (
			outcome string
			n       int
		)
		if err := rows.Scan(&outcome, &n); err != nil {
			return Totals{}, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		switch outcome {
		case tictactoe.OutcomeWin:
			t.Wins = n
		case tictactoe.OutcomeLoss:
			t.Losses = n
		case tictactoe.OutcomeDraw:
			t.Draws = n
		}
	}

	if err := rows.Err(); err != nil {
		return Totals{}, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return t, nil
}

// ClearResults deletes the result log and returns the number of rows removed.
func (s *Store) ClearResults(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM results")
	if err != nil {
		return 0, fmt.Errorf("storage: cannot clear results: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot count deleted rows: %w", err)
	}
	return n, nil
}
