package main

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tictactoe/internal/config"
	"github.com/vovakirdan/tictactoe/internal/games/tictactoe"
)

func setFlags(t *testing.T, db string, seed int64, level string) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	oldDB, oldSeed, oldLevel := flagDBPath, flagSeed, flagLogLevel
	flagDBPath, flagSeed, flagLogLevel = db, seed, level
	t.Cleanup(func() {
		flagDBPath, flagSeed, flagLogLevel = oldDB, oldSeed, oldLevel
	})
}

func TestLoadConfigAppliesFlags(t *testing.T) {
	db := filepath.Join(t.TempDir(), "game.db")
	setFlags(t, db, 42, "debug")

	cfg, err := loadConfig()

	require.NoError(t, err)
	assert.Equal(t, db, cfg.Storage.Path)
	assert.Equal(t, int64(42), cfg.Game.Seed)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigWithoutFlagsKeepsDefaults(t *testing.T) {
	setFlags(t, "", 0, "")

	cfg, err := loadConfig()

	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestUserKey(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, "ticTacToeState", userKey(cfg, ""))
	assert.Equal(t, "ticTacToeState:alice", userKey(cfg, "alice"))
	assert.Equal(t, "ticTacToeAudio", audioKey(""))
	assert.Equal(t, "ticTacToeAudio:alice", audioKey("alice"))
}

func TestNewLoggerLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "warn"
	assert.Equal(t, log.WarnLevel, newLogger(io.Discard, cfg, "test").GetLevel())

	cfg.Log.Level = "chatty"
	assert.Equal(t, log.InfoLevel, newLogger(io.Discard, cfg, "test").GetLevel())
}

func TestSessionsPersistAndRecordResults(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "game.db")
	cfg.Game.Seed = 1
	logger := log.New(io.Discard)
	ctx := context.Background()

	st, err := openStores(ctx, cfg)
	require.NoError(t, err)
	defer st.Close()

	key := userKey(cfg, "bob")
	s, err := tictactoe.OpenSession(ctx, st.snapshots, key, logger, sessionOptions(cfg, st, logger, nil)...)
	require.NoError(t, err)

	// ApplyMove leaves the turn with the human, who takes the top row.
	for _, c := range []int{0, 1, 2} {
		require.NoError(t, s.ApplyMove(c, tictactoe.Human))
	}
	require.False(t, s.Active())

	results, err := st.results.RecentResults(ctx, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, tictactoe.OutcomeWin, results[0].Outcome)

	reopened, err := tictactoe.OpenSession(ctx, st.snapshots, key, logger)
	require.NoError(t, err)
	assert.Equal(t, s.Board(), reopened.Board())
	assert.Equal(t, uint(1), reopened.Scores().Human)

	other, err := tictactoe.OpenSession(ctx, st.snapshots, userKey(cfg, "carol"), logger)
	require.NoError(t, err)
	assert.Equal(t, tictactoe.Board{}, other.Board())
}
