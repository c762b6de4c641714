package ssh

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	bm "github.com/charmbracelet/wish/bubbletea"
	gossh "golang.org/x/crypto/ssh"

	"github.com/bravo68web/folio/internal/config"
	"github.com/bravo68web/folio/internal/domain/models"
	"github.com/bravo68web/folio/internal/meta"
	"github.com/bravo68web/folio/internal/observability"
	"github.com/bravo68web/folio/pkg/logger"
)

const fingerprintKey = "fingerprint"

// Dashboard is what a session needs from the meta service
type Dashboard interface {
	NewScrubber() (*meta.Scrubber, error)
	Stats() ([]models.Stat, error)
}

// Server serves the commit dashboard to SSH terminals
type Server struct {
	server    *ssh.Server
	config    *config.SSHConfig
	dashboard Dashboard
	title     string
	allowed   map[string]bool // fingerprints; empty accepts every key
	log       *logger.Logger
}

// NewServer creates a new SSH server instance
func NewServer(cfg *config.SSHConfig, dashboard Dashboard, title string) (*Server, error) {
	log := logger.Get().WithFields(logger.Component("ssh-server"))

	log.Info("Creating SSH server...",
		logger.String("host", cfg.Host),
		logger.Int("port", cfg.Port),
		logger.String("host_key_path", cfg.HostKeyPath),
	)

	s := &Server{
		config:    cfg,
		dashboard: dashboard,
		title:     title,
		allowed:   make(map[string]bool, len(cfg.AuthorizedKeys)),
		log:       log,
	}
	for _, fp := range cfg.AuthorizedKeys {
		s.allowed[strings.TrimSpace(fp)] = true
	}

	server, err := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))),
		wish.WithHostKeyPath(cfg.HostKeyPath),
		wish.WithPublicKeyAuth(s.publicKeyHandler),
		wish.WithMiddleware(
			bm.Middleware(s.teaHandler),
			activeterm.Middleware(),
			s.loggingMiddleware,
		),
	)
	if err != nil {
		log.Error("Failed to create SSH server",
			logger.Error(err),
		)
		return nil, fmt.Errorf("failed to create SSH server: %w", err)
	}
	s.server = server

	log.Info("SSH server created successfully",
		logger.String("address", cfg.Address()),
		logger.Int("authorized_keys", len(s.allowed)),
	)

	return s, nil
}

// loggingMiddleware logs SSH session information
func (s *Server) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		start := time.Now()
		fingerprint, _ := sess.Context().Value(fingerprintKey).(string)

		observability.SSHSessionsActive.Inc()
		defer observability.SSHSessionsActive.Dec()

		s.log.Info("SSH session started",
			logger.String("session_id", sess.Context().SessionID()),
			logger.String("remote_addr", sess.RemoteAddr().String()),
			logger.String("user", sess.User()),
			logger.Fingerprint(fingerprint),
		)

		next(sess)

		s.log.Info("SSH session ended",
			logger.String("session_id", sess.Context().SessionID()),
			logger.String("user", sess.User()),
			logger.Duration("duration", time.Since(start)),
		)
	}
}

// publicKeyHandler accepts keys listed in ssh.authorized_keys, or any key
// when the list is empty
func (s *Server) publicKeyHandler(ctx ssh.Context, key ssh.PublicKey) bool {
	fingerprint := gossh.FingerprintSHA256(key)

	if len(s.allowed) > 0 && !s.allowed[fingerprint] {
		s.log.Warn("SSH authentication failed",
			logger.Fingerprint(fingerprint),
			logger.String("remote_addr", ctx.RemoteAddr().String()),
			logger.String("key_type", key.Type()),
		)
		return false
	}

	ctx.SetValue(fingerprintKey, fingerprint)
	s.log.Debug("SSH authentication successful",
		logger.Fingerprint(fingerprint),
		logger.String("remote_addr", ctx.RemoteAddr().String()),
		logger.String("key_type", key.Type()),
	)
	return true
}

// teaHandler builds the dashboard program of one session. Every session
// owns its own Scrubber, and colors follow the client's terminal.
func (s *Server) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	m, err := newDashboardModel(s.dashboard, s.title, newStyles(bm.MakeRenderer(sess)))
	if err != nil {
		s.log.Warn("Dashboard session failed",
			logger.String("session_id", sess.Context().SessionID()),
			logger.Error(err),
		)
		wish.Fatalln(sess, "Error:", err)
		return nil, nil
	}
	return m, []tea.ProgramOption{tea.WithAltScreen()}
}

// ListenAndServe starts the SSH server
func (s *Server) ListenAndServe() error {
	s.log.Info("Starting SSH server",
		logger.String("address", s.config.Address()),
	)
	err := s.server.ListenAndServe()
	if errors.Is(err, ssh.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the SSH server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("Shutting down SSH server...")

	if err := s.server.Shutdown(ctx); err != nil {
		s.log.Error("Error shutting down SSH server",
			logger.Error(err),
		)
		return err
	}

	s.log.Info("SSH server shutdown complete")
	return nil
}

// Address returns the server address
func (s *Server) Address() string {
	return s.config.Address()
}

// ShutdownWithTimeout shuts down the server with a timeout
func (s *Server) ShutdownWithTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.Shutdown(ctx)
}
