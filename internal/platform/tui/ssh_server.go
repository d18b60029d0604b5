package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tictactoe/internal/core"
	"github.com/vovakirdan/tictactoe/internal/games/tictactoe"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":2222").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.tictactoe/host_ed25519.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// ThinkingDelay is how long the computer pauses before moving.
	ThinkingDelay time.Duration

	// Audio rings the client's terminal bell on moves and results. Players
	// can switch it with the m key.
	Audio bool

	// AudioPref returns where a user's sound choice is kept. May be nil.
	AudioPref func(user string) *tictactoe.AudioPref
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:       ":2222",
		IdleTimeout:   10 * time.Minute,
		ThinkingDelay: core.DefaultConfig().ThinkingDelay,
		Audio:         true,
	}
}

// SessionOpener loads or creates the game session for an SSH user. audio is
// the user's bell, possibly muted.
type SessionOpener func(ctx context.Context, user string, audio tictactoe.Audio) (*tictactoe.Session, error)

// SSHServer serves the game over SSH, one session per connecting user.
type SSHServer struct {
	config  SSHServerConfig
	server  *ssh.Server
	open    SessionOpener
	results ResultSource
	logger  *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig, open SessionOpener, results ResultSource, logger *log.Logger) (*SSHServer, error) {
	if open == nil {
		return nil, errors.New("ssh: session opener is required")
	}
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "tictactoe-ssh",
		})
	}

	srv := &SSHServer{
		config:  cfg,
		open:    open,
		results: results,
		logger:  logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".tictactoe", "host_ed25519")
	}

	// Ensure host key directory exists
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	bell := NewBellAudio(sshSession)
	bell.SetEnabled(s.config.Audio)
	var pref *tictactoe.AudioPref
	if s.config.AudioPref != nil {
		pref = s.config.AudioPref(sshSession.User())
		on, err := pref.Load(sshSession.Context(), s.config.Audio)
		if err != nil {
			s.logger.Warn("load sound setting", "user", sshSession.User(), "error", err)
		}
		bell.SetEnabled(on)
	}

	game, err := s.open(sshSession.Context(), sshSession.User(), bell)
	if err != nil {
		s.logger.Error("open session", "user", sshSession.User(), "error", err)
		wish.Errorln(sshSession, "could not load your game, try again later")
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:       pty.Window.Width,
		ScreenH:       pty.Window.Height,
		ThinkingDelay: s.config.ThinkingDelay,
	}

	model := NewModel(game, Options{
		Config:  cfg,
		Results: s.results,
		Logger:  s.logger.With("user", sshSession.User()),

		Sound:     bell,
		SoundPref: pref,
	})

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
