package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tictactoe/internal/games/tictactoe"
	"github.com/vovakirdan/tictactoe/internal/platform/tui"
)

var (
	flagSSHAddr string
	flagHostKey string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH user gets their own saved game, stored under <storage.key>:<user>.
Results of all users go to the same result log.

Host key handling:
  - If --host-key (or ssh.host_key) is set, uses that key file
  - Otherwise, auto-generates a key at ~/.tictactoe/host_ed25519

Examples:
  tictactoe serve                    # Listen on ssh.address (default :2222)
  tictactoe serve --ssh :23234       # Listen on port 23234
  tictactoe serve --host-key ./key   # Use specific host key

Users can connect with:
  ssh localhost -p 2222`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (overrides ssh.address)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (overrides ssh.host_key)")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, logger := mustLoad()
	logger.SetPrefix("tictactoe-ssh")

	if flagSSHAddr != "" {
		cfg.SSH.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.SSH.HostKey = flagHostKey
	}

	st, err := openStores(context.Background(), cfg)
	if err != nil {
		fatal("%v", err)
	}
	defer st.Close()

	open := func(ctx context.Context, user string, audio tictactoe.Audio) (*tictactoe.Session, error) {
		userLogger := logger.With("user", user)
		return tictactoe.OpenSession(ctx, st.snapshots, userKey(cfg, user), userLogger,
			sessionOptions(cfg, st, userLogger, audio)...)
	}

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:       cfg.SSH.Address,
		HostKeyPath:   cfg.SSH.HostKey,
		IdleTimeout:   cfg.SSH.IdleTimeout,
		ThinkingDelay: cfg.Game.ThinkingDelay,
		Audio:         cfg.Audio.Enabled,
		AudioPref: func(user string) *tictactoe.AudioPref {
			return tictactoe.NewAudioPref(st.snapshots, audioKey(user))
		},
	}, open, st.results, logger)
	if err != nil {
		fatal("creating server: %v", err)
	}

	fmt.Printf("Starting tictactoe SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
