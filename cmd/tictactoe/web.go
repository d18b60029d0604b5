package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tictactoe/internal/games/tictactoe"
	"github.com/vovakirdan/tictactoe/internal/hub"
	"github.com/vovakirdan/tictactoe/internal/platform/web"
)

var flagWebAddr string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the HTTP JSON API",
	Long: `Serve games over a small JSON API. Web sessions live in memory and
are dropped after 30 idle minutes; finished games go to the result log.

Endpoints:
  POST /api/sessions                  - Start a game
  GET  /api/sessions/{id}             - Current board and status
  POST /api/sessions/{id}/moves       - {"cell": 0-8}
  POST /api/sessions/{id}/undo        - Undo your last turn
  POST /api/sessions/{id}/reset       - New round
  PUT  /api/sessions/{id}/difficulty  - {"level": 1-3}
  GET  /api/sessions/{id}/events      - Wait for the next event (?wait=5s)

Examples:
  tictactoe web
  tictactoe web --addr :9000`,
	Args: cobra.NoArgs,
	Run:  runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", "", "HTTP listen address (overrides web.address)")
}

func runWeb(_ *cobra.Command, _ []string) {
	cfg, logger := mustLoad()
	logger.SetPrefix("tictactoe-web")

	if flagWebAddr != "" {
		cfg.Web.Address = flagWebAddr
	}

	st, err := openStores(context.Background(), cfg)
	if err != nil {
		fatal("%v", err)
	}
	defer st.Close()

	hubCfg := hub.DefaultConfig()
	hubCfg.ThinkingDelay = cfg.Game.ThinkingDelay
	h := hub.New(hubCfg, func(_ context.Context, id hub.SessionID) (*tictactoe.Session, error) {
		sessionLogger := logger.With("session", id)
		opts := sessionOptions(cfg, st, sessionLogger, nil)
		return tictactoe.New(append(opts, tictactoe.WithLogger(sessionLogger))...), nil
	}, logger)
	h.Start()
	defer h.Stop()

	srv := &http.Server{
		Addr:              cfg.Web.Address,
		Handler:           web.NewServer(h, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			done <- syscall.SIGTERM
		}
	}()

	fmt.Printf("Starting tictactoe web API on %s\n", cfg.Web.Address)
	fmt.Println("Press Ctrl+C to stop")

	<-done
	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}
