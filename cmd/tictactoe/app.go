package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tictactoe/internal/config"
	"github.com/vovakirdan/tictactoe/internal/games/tictactoe"
	"github.com/vovakirdan/tictactoe/internal/storage"
)

// loadConfig reads the configuration and applies the global flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	if flagDBPath != "" {
		cfg.Storage.Path = flagDBPath
	}
	if flagSeed != 0 {
		cfg.Game.Seed = flagSeed
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the component logger at the configured level.
func newLogger(w io.Writer, cfg config.Config, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", cfg.Log.Level)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// stores holds the open backends. Results always live in SQLite; snapshots
// follow storage.driver.
type stores struct {
	results   *storage.Store
	snapshots tictactoe.SnapshotStore
	redis     *storage.RedisStore
}

func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	results, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}
	s := &stores{results: results, snapshots: results}

	if cfg.Storage.Driver == config.DriverRedis {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		rs, err := storage.OpenRedis(ctx, cfg.Storage.RedisAddr, cfg.Storage.RedisDB)
		if err != nil {
			results.Close()
			return nil, err
		}
		s.redis = rs
		s.snapshots = rs
	}
	return s, nil
}

func (s *stores) Close() {
	if s.redis != nil {
		s.redis.Close()
	}
	s.results.Close()
}

// sessionOptions returns the options every front end opens sessions with.
// audio may be nil.
func sessionOptions(cfg config.Config, s *stores, logger *log.Logger, audio tictactoe.Audio) []tictactoe.Option {
	level, _ := cfg.Game.Difficulty.Level() // validated by loadConfig
	opts := []tictactoe.Option{
		tictactoe.WithDifficulty(level),
		tictactoe.WithSeed(cfg.Game.Seed),
		tictactoe.WithObserver(tictactoe.NewRecorder(s.results, logger)),
	}
	if audio != nil {
		opts = append(opts, tictactoe.WithAudio(audio))
	}
	return opts
}

// userKey is the snapshot key for a named player.
func userKey(cfg config.Config, user string) string {
	if user == "" {
		return cfg.Storage.Key
	}
	return cfg.Storage.Key + ":" + user
}

// audioKey is the storage key for a player's sound choice.
func audioKey(user string) string {
	if user == "" {
		return tictactoe.DefaultAudioKey
	}
	return tictactoe.DefaultAudioKey + ":" + user
}

func mustLoad() (config.Config, *log.Logger) {
	cfg, err := loadConfig()
	if err != nil {
		fatal("%v", err)
	}
	return cfg, newLogger(os.Stderr, cfg, "tictactoe")
}
