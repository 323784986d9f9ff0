package tui

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-rpg/internal/adventure"
	"github.com/vovakirdan/tui-rpg/internal/config"
	"github.com/vovakirdan/tui-rpg/internal/storage"
)

type cleanupKey struct{}

// SSHServer serves one game per SSH session. Every user gets a save
// database of their own next to the configured one.
type SSHServer struct {
	config config.Config
	server *ssh.Server
	logger *log.Logger
	saves  string
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg config.Config, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "rpg-ssh",
		})
	}

	srv := &SSHServer{
		config: cfg,
		logger: logger,
		saves:  filepath.Join(filepath.Dir(config.ExpandHome(cfg.Save.Path)), "ssh"),
	}

	hostKeyPath := config.ExpandHome(cfg.Server.HostKeyPath)
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("tui: cannot create host key directory: %w", err)
	}

	server, err := wish.NewServer(
		wish.WithAddress(srv.Addr()),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.Server.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.sessionMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("tui: cannot create SSH server: %w", err)
	}
	srv.server = server
	return srv, nil
}

// SavePath returns the save database of an SSH user.
func (s *SSHServer) SavePath(user string) string {
	return filepath.Join(s.saves, sanitizeUser(user)+".db")
}

func sanitizeUser(user string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, user)
	if clean == "" {
		return "anonymous"
	}
	return clean
}

// teaHandler creates a game for each SSH session.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}

	logger := s.logger.With("user", sess.User())
	opts := []adventure.Option{adventure.WithLogger(logger)}

	store, err := storage.Open(s.SavePath(sess.User()))
	if err != nil {
		logger.Warn("could not open save database", "err", err)
	} else {
		opts = append(opts, adventure.WithStore(store))
	}

	a := adventure.New(s.config, opts...)
	a.Resize(pty.Window.Width, pty.Window.Height)

	sess.Context().SetValue(cleanupKey{}, func() {
		a.Close()
		if store != nil {
			if err := store.Close(); err != nil {
				logger.Warn("could not close save database", "err", err)
			}
		}
	})

	painter := NewPainter(bubbletea.MakeRenderer(sess))
	return NewModel(a, s.config.Engine.FPS).WithPainter(painter), []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// sessionMiddleware logs SSH sessions and releases their game once the
// program returned.
func (s *SSHServer) sessionMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		s.logger.Info("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
		next(sess)
		if cleanup, ok := sess.Context().Value(cleanupKey{}).(func()); ok {
			cleanup()
		}
		s.logger.Info("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until ctx is done or the
// server fails.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.Addr())

	errc := make(chan error, 1)
	go func() {
		errc <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("tui: serve: %w", err)
	case <-ctx.Done():
	}

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
	return net.JoinHostPort(s.config.Server.Host, strconv.Itoa(s.config.Server.Port))
}
