package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tictactoe/internal/config"
	"github.com/vovakirdan/tictactoe/internal/core"
	"github.com/vovakirdan/tictactoe/internal/games/tictactoe"
	"github.com/vovakirdan/tictactoe/internal/platform/tui"
)

var (
	flagDifficulty string
	flagNewGame    bool
	flagNoAudio    bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Play tic-tac-toe in the terminal. You are X and always move first.

The game is saved after every move and resumed on the next run.

Controls:
  Arrows/hjkl  - Move the cursor
  Enter/Space  - Place X (or click a cell)
  U            - Undo your last move and the computer's reply
  R            - New round (scores are kept)
  1/2/3        - Easy / Medium / Hard (starts a new round)
  Tab          - Recent results
  M            - Sound on/off (remembered)
  Q/Ctrl+C     - Quit

Examples:
  tictactoe play
  tictactoe play --difficulty hard
  tictactoe play --new`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty: easy, medium, hard or 1-3")
	playCmd.Flags().BoolVar(&flagNewGame, "new", false, "Discard the saved game and start fresh")
	playCmd.Flags().BoolVar(&flagNoAudio, "mute", false, "Start with the terminal bell off")
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fatal("%v", err)
	}

	var level tictactoe.Difficulty
	if flagDifficulty != "" {
		if level, err = config.ParseDifficulty(flagDifficulty); err != nil {
			fatal("%v", err)
		}
	}

	// The TUI owns the terminal, so logs go to a file next to the database.
	logger, closeLog := playLogger(cfg)
	defer closeLog()

	ctx := context.Background()
	st, err := openStores(ctx, cfg)
	if err != nil {
		fatal("%v", err)
	}
	defer st.Close()

	if flagNewGame {
		if err := st.snapshots.DeleteSnapshot(ctx, cfg.Storage.Key); err != nil {
			fatal("%v", err)
		}
	}

	bell := tui.NewBellAudio(os.Stdout)
	pref := tictactoe.NewAudioPref(st.snapshots, audioKey(""))
	soundOn, err := pref.Load(ctx, cfg.Audio.Enabled)
	if err != nil {
		logger.Warn("load sound setting", "error", err)
	}
	bell.SetEnabled(soundOn && !flagNoAudio)

	session, err := tictactoe.OpenSession(ctx, st.snapshots, cfg.Storage.Key, logger,
		sessionOptions(cfg, st, logger, bell)...)
	if err != nil {
		fatal("%v", err)
	}
	if level != 0 && level != session.Difficulty() {
		if err := session.SetDifficulty(int(level)); err != nil {
			fatal("%v", err)
		}
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	runtime := core.RuntimeConfig{
		ScreenW:       width,
		ScreenH:       height,
		Seed:          cfg.Game.Seed,
		ThinkingDelay: cfg.Game.ThinkingDelay,
	}

	if err := tui.Run(session, tui.Options{
		Config:  runtime,
		Results: st.results,
		Logger:  logger,

		Sound:     bell,
		SoundPref: pref,
	}); err != nil {
		fatal("running game: %v", err)
	}
}

// playLogger opens tictactoe.log beside the database, falling back to a
// discarding logger.
func playLogger(cfg config.Config) (*log.Logger, func()) {
	dir := filepath.Dir(expandHome(cfg.Storage.Path))
	if err := os.MkdirAll(dir, 0o755); err == nil {
		f, err := os.OpenFile(filepath.Join(dir, "tictactoe.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err == nil {
			return newLogger(f, cfg, "tictactoe"), func() { f.Close() }
		}
	}
	return newLogger(io.Discard, cfg, "tictactoe"), func() {}
}

func expandHome(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
